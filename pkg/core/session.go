package core

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/go-drift/fiber/pkg/host"
	"github.com/go-drift/fiber/pkg/logging"
	"github.com/go-drift/fiber/pkg/metrics"
)

// DefaultSliceThreshold is the remaining idle time below which the work loop
// yields back to the host.
const DefaultSliceThreshold = time.Millisecond

// Phase is the state of a Session's work loop.
type Phase int

const (
	// PhaseIdle means no render is in progress.
	PhaseIdle Phase = iota
	// PhaseReconciling means units of work remain for the in-progress tree.
	PhaseReconciling
	// PhaseCommitting means the host tree is being mutated.
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseReconciling:
		return "reconciling"
	case PhaseCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// Config configures a Session.
type Config struct {
	// Host allocates and mutates host nodes. Required.
	Host host.Host
	// Scheduler offers idle slots to the work loop. Required.
	Scheduler host.IdleScheduler
	// Logger receives debug and warning records. Nil discards.
	Logger *slog.Logger
	// Metrics is optional.
	Metrics *metrics.Collector
	// SliceThreshold defaults to DefaultSliceThreshold.
	SliceThreshold time.Duration
	// OnCommit, if set, is called at the end of every commit.
	OnCommit func(CommitStats)
}

// CommitStats summarizes one commit.
type CommitStats struct {
	// Generation counts commits of the session, starting at 1.
	Generation uint64
	// Units is the number of units of work performed since the previous
	// commit, discarded renders included.
	Units int
	// Deletions is the number of fibers removed.
	Deletions int
	// Mutations is the number of host property and listener changes.
	Mutations int
	// Placements is the number of host nodes appended.
	Placements int
	// Effects and Cleanups count effect callbacks and cleanups run.
	Effects  int
	Cleanups int
	Duration time.Duration
}

// Session owns the generations of one root: the committed tree, the tree in
// progress, the work cursor and the pending deletions. It is not safe for
// concurrent use; every call, setters included, must happen on the thread
// that drives the idle scheduler.
type Session struct {
	id        uuid.UUID
	cfg       Config
	logger    *slog.Logger
	container host.Node

	arena       *arena
	rootLineage *lineage
	currentRoot *fiber
	wipRoot     *fiber
	next        *fiber
	deletions   []*fiber
	// guardType is the type of the in-progress root's sibling, recorded
	// when a setter rebases the session.
	guardType Type

	phase      Phase
	generation uint64
	commits    uint64
	units      int
	scheduled  bool

	// Work requested while committing, applied once the commit is done.
	pendingRender *Node
	rebase        []*lineage

	last CommitStats
}

// NewSession creates a session rendering into container.
func NewSession(container host.Node, cfg Config) *Session {
	if container == nil || cfg.Host == nil || cfg.Scheduler == nil {
		panic("core: NewSession requires a container, a host and a scheduler")
	}
	if cfg.SliceThreshold <= 0 {
		cfg.SliceThreshold = DefaultSliceThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	id := uuid.New()
	return &Session{
		id:          id,
		cfg:         cfg,
		logger:      cfg.Logger.With("session", id.String()),
		container:   container,
		arena:       newArena(),
		rootLineage: &lineage{},
	}
}

// ID returns the session's unique id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Container returns the host node the session renders into.
func (s *Session) Container() host.Node {
	return s.container
}

// Phase returns the state of the work loop.
func (s *Session) Phase() Phase {
	return s.phase
}

// Pending reports whether work remains: a render in progress or updates
// waiting for the current commit to finish.
func (s *Session) Pending() bool {
	return s.wipRoot != nil || s.next != nil || s.pendingRender != nil || len(s.rebase) > 0
}

// LastCommit returns the statistics of the most recent commit.
func (s *Session) LastCommit() CommitStats {
	return s.last
}

// Fibers returns the number of fibers tracked by the session.
func (s *Session) Fibers() int {
	return s.arena.len()
}

// Render schedules node to be rendered into the container, replacing the
// tree rendered before. Any render in progress is discarded. Rendering the
// same tree again reuses every host node and issues no host mutations.
func (s *Session) Render(node *Node) {
	if s.phase == PhaseCommitting {
		s.pendingRender = node
		return
	}
	root := s.newRoot(Props{ChildrenProp: []*Node{node}})
	s.seed(root, nil)
	s.logger.Debug("render seeded", "fiber", root.String())
	s.ensureScheduled()
}

// newRoot allocates a root fiber over the container whose alternate is the
// committed root.
func (s *Session) newRoot(props Props) *fiber {
	root := s.arena.alloc(&fiber{
		typ:     rootType{},
		dom:     s.container,
		props:   props,
		lineage: s.rootLineage,
	})
	if s.currentRoot != nil {
		root.alternate = s.currentRoot.id
	}
	root.lineage.latest = root
	return root
}

// restartRoot discards the render in progress and renders the whole tree
// again, so updates queued on several components are all applied. A root
// render in progress is restarted rather than dropped.
func (s *Session) restartRoot() {
	src := s.currentRoot
	if s.wipRoot != nil {
		if _, ok := s.wipRoot.typ.(rootType); ok {
			src = s.wipRoot
		}
	}
	if src == nil {
		return
	}
	root := s.newRoot(src.props)
	s.seed(root, nil)
	s.cfg.Metrics.Preemption()
	s.logger.Debug("restarted from root", "fiber", root.String())
	s.ensureScheduled()
}

// seed makes root the in-progress tree and points the cursor at it.
func (s *Session) seed(root *fiber, guard Type) {
	s.wipRoot = root
	s.next = root
	s.deletions = nil
	s.guardType = guard
	s.generation++
	s.phase = PhaseReconciling
}

// enqueueUpdate queues action on the state cell index of the component
// tracked by ln. An action that leaves the state unchanged is dropped.
// Otherwise the session is rebased on a clone of the component's committed
// fiber, discarding any render of the same component in progress. When a
// render of another part of the tree is in progress the whole tree is
// rendered again instead. Updates issued while committing, or before the
// component was ever committed, are deferred until the commit is done.
func (s *Session) enqueueUpdate(ln *lineage, index int, action func(any) any) {
	target := ln.live
	if target == nil {
		target = ln.latest
	}
	if target == nil || index >= len(target.stateHooks) {
		s.logger.Debug("update dropped for unmounted component")
		return
	}
	cell := target.stateHooks[index]
	current := cell.folded()
	if host.SameValue(action(current), current) {
		return
	}
	cell.queue = append(cell.queue, action)

	switch {
	case s.phase == PhaseCommitting || ln.live == nil:
		s.rebase = append(s.rebase, ln)
	case s.wipRoot != nil && s.wipRoot.lineage != ln:
		s.restartRoot()
	default:
		s.preempt(ln.live)
	}
}

// flushDeferred applies the work requested while the last commit ran.
func (s *Session) flushDeferred() {
	node, lineages := s.pendingRender, s.rebase
	s.pendingRender, s.rebase = nil, nil
	if node != nil {
		s.Render(node)
		return
	}
	var live []*fiber
	for _, ln := range lineages {
		if ln.live != nil && !slices.Contains(live, ln.live) {
			live = append(live, ln.live)
		}
	}
	switch len(live) {
	case 0:
	case 1:
		s.preempt(live[0])
	default:
		s.restartRoot()
	}
}

// preempt rebases the session on a shallow clone of live.
func (s *Session) preempt(live *fiber) {
	clone := s.arena.alloc(&fiber{
		typ:       live.typ,
		props:     live.props,
		dom:       live.dom,
		parent:    live.parent,
		sibling:   live.sibling,
		effectTag: tagUpdate,
		alternate: live.id,
		lineage:   live.lineage,
	})
	clone.lineage.latest = clone

	var guard Type
	if clone.sibling != nil {
		guard = clone.sibling.typ
	}
	discarded := s.wipRoot != nil
	s.seed(clone, guard)
	s.cfg.Metrics.Preemption()
	s.logger.Debug("preempted", "fiber", clone.String(), "discarded", discarded)
	s.ensureScheduled()
}

// ensureScheduled requests an idle slot unless one is already pending.
func (s *Session) ensureScheduled() {
	if s.scheduled {
		return
	}
	s.scheduled = true
	s.cfg.Scheduler.RequestIdleCallback(s.workLoop)
}
