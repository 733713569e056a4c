package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/fiber/pkg/host"
	"github.com/go-drift/fiber/pkg/host/memhost"
)

// UpdateSnapshotsEnv names the environment variable that rewrites snapshot
// files instead of comparing them.
const UpdateSnapshotsEnv = "FIBER_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the structure of a host tree.
type Snapshot struct {
	Root *SnapshotNode `json:"root"`
}

// SnapshotNode is a serialized host node. Listeners are recorded by event
// name only.
type SnapshotNode struct {
	Tag       string            `json:"tag"`
	Text      string            `json:"text,omitempty"`
	Props     map[string]string `json:"props,omitempty"`
	Listeners []string          `json:"listeners,omitempty"`
	Children  []*SnapshotNode   `json:"children,omitempty"`
}

// CaptureSnapshot captures the tester's container.
func (t *Tester) CaptureSnapshot() *Snapshot {
	return CaptureSnapshot(t.Container())
}

// CaptureSnapshot captures the subtree rooted at e.
func CaptureSnapshot(e *memhost.Element) *Snapshot {
	return &Snapshot{Root: captureNode(e)}
}

func captureNode(e *memhost.Element) *SnapshotNode {
	if e.Kind() == memhost.TextNode {
		return &SnapshotNode{Tag: e.Tag(), Text: e.Text()}
	}
	node := &SnapshotNode{Tag: e.Tag()}
	for name, v := range e.Props() {
		if host.IsListener(name) || v == nil {
			continue
		}
		if node.Props == nil {
			node.Props = make(map[string]string)
		}
		node.Props[name] = fmt.Sprint(v)
	}
	if events := e.Events(); len(events) > 0 {
		node.Listeners = events
	}
	for _, c := range e.Children() {
		node.Children = append(node.Children, captureNode(c))
	}
	return node
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When FIBER_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-expected +actual)\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a diff from other to this snapshot, empty when they are
// equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
