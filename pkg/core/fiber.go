package core

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/host"
)

// effectTag tells the commit phase what to do with a fiber's host node.
type effectTag int

const (
	tagNone effectTag = iota
	tagPlacement
	tagUpdate
)

func (t effectTag) String() string {
	switch t {
	case tagPlacement:
		return "placement"
	case tagUpdate:
		return "update"
	default:
		return "none"
	}
}

// fiberID names a fiber in its session's arena. Zero is no fiber.
type fiberID uint64

// fiber is the mutable unit of work for one tree position in one
// generation.
type fiber struct {
	id    fiberID
	typ   Type
	props Props
	dom   host.Node

	parent  *fiber
	child   *fiber
	sibling *fiber

	effectTag effectTag
	// alternate is the fiber at the same position in the last committed
	// generation. It is resolved through the arena and never owned.
	alternate fiberID
	lineage   *lineage

	stateHooks  []*stateHook
	effectHooks []*effectHook
	// rendered is set once the fiber was worked in this generation. For a
	// component it means its hook cells are authoritative.
	rendered bool
}

// lineage is shared by every generation of a tree position. live is the
// most recently committed fiber, the one state updates are applied to.
type lineage struct {
	live *fiber
	// latest is the most recently rendered fiber, committed or not.
	latest *fiber
}

func (f *fiber) isComponent() bool {
	_, ok := f.typ.(ComponentType)
	return ok
}

func (f *fiber) String() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", f.typ.Name(), f.id)
}

// hostParent returns the nearest ancestor owning a host node.
func (f *fiber) hostParent() *fiber {
	p := f.parent
	for p != nil && p.dom == nil {
		p = p.parent
	}
	return p
}

// arena tracks the fibers of the live generations of a session: the
// committed tree and the work-in-progress tree. Alternate links resolve
// through it, so releasing a superseded generation is a matter of dropping
// it from the arena.
type arena struct {
	next  fiberID
	fiber map[fiberID]*fiber
}

func newArena() *arena {
	return &arena{fiber: make(map[fiberID]*fiber)}
}

func (a *arena) alloc(f *fiber) *fiber {
	a.next++
	f.id = a.next
	a.fiber[f.id] = f
	return f
}

func (a *arena) get(id fiberID) *fiber {
	if id == 0 {
		return nil
	}
	return a.fiber[id]
}

func (a *arena) len() int {
	return len(a.fiber)
}

// retain keeps only the fibers reachable from root and returns how many
// were released.
func (a *arena) retain(root *fiber) int {
	keep := make(map[fiberID]*fiber, len(a.fiber))
	walk(root, func(f *fiber) bool {
		keep[f.id] = f
		return true
	})
	released := len(a.fiber) - len(keep)
	a.fiber = keep
	return released
}

// walk visits root and its descendants in depth-first pre-order with an
// explicit stack. Returning false from visit skips the fiber's children.
func walk(root *fiber, visit func(*fiber) bool) {
	if root == nil {
		return
	}
	if !visit(root) {
		return
	}
	var stack []*fiber
	if root.child != nil {
		stack = append(stack, root.child)
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.sibling != nil {
			stack = append(stack, f.sibling)
		}
		if visit(f) && f.child != nil {
			stack = append(stack, f.child)
		}
	}
}
