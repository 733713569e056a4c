package core

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

// workLoop is the idle callback of the session. It performs units of work
// until the cursor is exhausted or the slot runs low, commits a finished
// tree and always asks for the next slot.
func (s *Session) workLoop(deadline host.Deadline) {
	s.scheduled = false
	defer s.ensureScheduled()
	defer s.recoverFault()

	for s.next != nil {
		gen := s.generation
		next := s.performUnitOfWork(s.next)
		if s.generation == gen {
			s.next = next
			if s.guardTripped() {
				s.logger.Debug("cursor cleared by sibling guard", "fiber", s.next.String())
				s.next = nil
				break
			}
		}
		if s.next != nil && deadline.TimeRemaining() < s.cfg.SliceThreshold {
			s.cfg.Metrics.Yield()
			s.logger.Debug("yielding", "next", s.next.String())
			break
		}
	}

	if s.next == nil && s.wipRoot != nil {
		s.commitRoot()
	}
	if s.next != nil && s.wipRoot == nil {
		s.restartRoot()
	}
	if s.wipRoot == nil {
		s.flushDeferred()
	}
}

// guardTripped reports whether the cursor reached a fiber of the same type
// as the sibling of a rebased in-progress root. The check is by type only,
// so a descendant sharing that type also stops the render; the fibers left
// unworked keep their committed subtree.
func (s *Session) guardTripped() bool {
	return s.guardType != nil && s.next != nil && sameType(s.next.typ, s.guardType)
}

// recoverFault reports a panic raised while working the tree. The slot is
// abandoned and the cursor kept, so the failing unit runs again on the next
// slot.
func (s *Session) recoverFault() {
	r := recover()
	if r == nil {
		return
	}
	kind := errors.KindPanic
	switch err := r.(type) {
	case *errors.ComponentError:
		kind = errors.KindRender
		errors.ReportComponentError(err)
	case *errors.RuntimeError:
		kind = err.Kind
		errors.Report(err)
	default:
		op := "core.workLoop"
		if s.phase == PhaseCommitting {
			op = "core.commitRoot"
			kind = errors.KindCommit
		}
		errors.ReportPanic(errors.NewPanicError(op, r))
	}
	s.cfg.Metrics.Fault(kind.String())
	s.logger.Warn("work loop fault", "kind", kind.String(), "phase", s.phase.String(),
		"fiber", s.next.String(), "panic", fmt.Sprint(r))

	if s.phase == PhaseCommitting {
		// The host tree is partially mutated; drop the tree rather than
		// commit it twice.
		s.wipRoot, s.next, s.deletions = nil, nil, nil
		s.phase = PhaseIdle
	}
}
