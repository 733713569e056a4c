package testing

import (
	"errors"
	"testing"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/dom"
	"github.com/go-drift/fiber/pkg/host/memhost"
	"github.com/go-drift/fiber/pkg/logging"
)

// DefaultMaxSlots bounds PumpUntilIdle when Render settles a tree.
const DefaultMaxSlots = 1000

// ErrSettleTimeout is returned when PumpUntilIdle exceeds its slot limit.
var ErrSettleTimeout = errors.New("PumpUntilIdle timed out: session did not settle")

// Option adjusts the configuration of the tester's sessions.
type Option func(*core.Config)

// WithConfig applies fn to the session configuration.
func WithConfig(fn func(*core.Config)) Option {
	return Option(fn)
}

// Tester renders node trees into an in-memory document and drives the idle
// scheduler by hand. Every commit is recorded.
type Tester struct {
	tb      testing.TB
	doc     *memhost.Document
	idle    *FakeIdle
	env     *dom.Environment
	root    *dom.Root
	commits []core.CommitStats
}

// NewTester creates a tester rendering into the body of a fresh document.
func NewTester(tb testing.TB, opts ...Option) *Tester {
	tb.Helper()
	t := &Tester{
		tb:   tb,
		doc:  memhost.NewDocument(),
		idle: NewFakeIdle(),
	}
	cfg := core.Config{
		Host:      t.doc,
		Scheduler: t.idle,
		Logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	onCommit := cfg.OnCommit
	cfg.OnCommit = func(stats core.CommitStats) {
		t.commits = append(t.commits, stats)
		if onCommit != nil {
			onCommit(stats)
		}
	}
	t.env = dom.NewEnvironment(cfg)
	t.root = t.env.CreateRoot(t.doc.Body())
	return t
}

// Document returns the in-memory host.
func (t *Tester) Document() *memhost.Document {
	return t.doc
}

// Container returns the element the tester renders into.
func (t *Tester) Container() *memhost.Element {
	return t.doc.Body()
}

// Idle returns the fake scheduler.
func (t *Tester) Idle() *FakeIdle {
	return t.idle
}

// Environment returns the environment owning the tester's root.
func (t *Tester) Environment() *dom.Environment {
	return t.env
}

// Session returns the session of the tester's root.
func (t *Tester) Session() *core.Session {
	return t.root.Session()
}

// Commits returns the statistics of every commit so far.
func (t *Tester) Commits() []core.CommitStats {
	return t.commits
}

// Schedule renders node without running any slot.
func (t *Tester) Schedule(node *core.Node) {
	t.root.Render(node)
}

// Render renders node and pumps until the session is idle.
func (t *Tester) Render(node *core.Node) error {
	t.root.Render(node)
	return t.PumpUntilIdle(DefaultMaxSlots)
}

// MustRender is Render failing the test on error.
func (t *Tester) MustRender(node *core.Node) {
	t.tb.Helper()
	if err := t.Render(node); err != nil {
		t.tb.Fatalf("render: %v", err)
	}
}

// Pump runs one idle slot and reports whether anything ran.
func (t *Tester) Pump() bool {
	return t.idle.RunSlot()
}

// PumpUntilIdle runs slots until the session has no pending work. It
// returns ErrSettleTimeout after maxSlots slots.
func (t *Tester) PumpUntilIdle(maxSlots int) error {
	for range maxSlots {
		if !t.Session().Pending() {
			return nil
		}
		t.idle.RunSlot()
	}
	if t.Session().Pending() {
		return ErrSettleTimeout
	}
	return nil
}

// Markup returns the markup of the container's children.
func (t *Tester) Markup() string {
	var out string
	for _, c := range t.Container().Children() {
		out += c.Markup()
	}
	return out
}

// Dispatch delivers an event to the first element matched by finder and
// pumps until idle. It fails the test when nothing matches.
func (t *Tester) Dispatch(finder Finder, event string, value any) int {
	t.tb.Helper()
	target := t.Find(finder).First()
	if target == nil {
		t.tb.Fatalf("dispatch %s: no element %s", event, finder.Description())
		return 0
	}
	called := t.doc.Dispatch(target, event, value)
	if err := t.PumpUntilIdle(DefaultMaxSlots); err != nil {
		t.tb.Fatalf("dispatch %s: %v", event, err)
	}
	return called
}

// Find evaluates finder against the descendants of the container.
func (t *Tester) Find(finder Finder) FinderResult {
	container := t.Container()
	return FinderResult{
		elements: container.FindAll(func(e *memhost.Element) bool {
			return e != container && finder.Match(e)
		}),
		finder: finder,
	}
}
