package core

import (
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

// performUnitOfWork renders one fiber and returns the next fiber to work,
// or nil when the in-progress tree is exhausted.
func (s *Session) performUnitOfWork(f *fiber) *fiber {
	gen := s.generation
	switch t := f.typ.(type) {
	case ComponentType:
		children := s.updateComponent(f, t)
		if s.generation != gen {
			// A setter called during the render rebased the session.
			return nil
		}
		s.reconcileChildren(f, children)
	case HostType, rootType:
		s.updateHost(f)
	case invalidType:
		panic(&errors.RuntimeError{
			Op:    "core.performUnitOfWork",
			Kind:  errors.KindHost,
			Fiber: f.String(),
			Err:   &errors.InvalidTypeError{Value: t.value},
		})
	}
	s.units++
	s.cfg.Metrics.UnitOfWork()
	return s.nextFiber(f)
}

// updateComponent invokes the component of f with a fresh BuildContext. A
// panic in the component is rethrown as a *errors.ComponentError.
func (s *Session) updateComponent(f *fiber, t ComponentType) (children []*Node) {
	f.stateHooks = nil
	f.effectHooks = nil
	ctx := &BuildContext{session: s, fiber: f}
	if alt := s.arena.get(f.alternate); alt != nil && alt.rendered {
		ctx.prev = alt
	}

	defer func() {
		if r := recover(); r != nil {
			ctx.fiber = nil
			var err error
			if e, ok := r.(error); ok {
				err = e
				r = nil
			}
			panic(&errors.ComponentError{
				Component:  t.Name(),
				Recovered:  r,
				Err:        err,
				StackTrace: errors.CaptureStack(),
			})
		}
	}()

	if t.Render == nil {
		panic(&errors.InvalidTypeError{Value: t.Render})
	}
	node := t.Render(ctx, f.props)
	ctx.finish()
	f.rendered = true
	return []*Node{node}
}

// updateHost allocates the host node of f on first visit and reconciles its
// children.
func (s *Session) updateHost(f *fiber) {
	if f.dom == nil {
		tag := string(f.typ.(HostType))
		f.dom = host.CreateNode(s.cfg.Host, tag)
		host.UpdateProps(s.cfg.Host, f.dom, f.props, nil)
		// A reused position that never got a node must still be attached.
		f.effectTag = tagPlacement
	}
	s.reconcileChildren(f, f.props.Children())
	f.rendered = true
}

// nextFiber returns the fiber after f in depth-first pre-order, without
// leaving the subtree of the in-progress root.
func (s *Session) nextFiber(f *fiber) *fiber {
	if f.child != nil {
		return f.child
	}
	for n := f; n != nil && n != s.wipRoot; n = n.parent {
		if n.sibling != nil {
			return n.sibling
		}
	}
	return nil
}
