package core

import (
	"fmt"
	"time"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

// commitRoot applies the in-progress tree to the host and publishes it.
// Deletions run first, then placements and property updates in pre-order,
// then effects.
func (s *Session) commitRoot() {
	start := time.Now()
	s.phase = PhaseCommitting
	root := s.wipRoot
	stats := CommitStats{Units: s.units, Deletions: len(s.deletions)}

	for _, f := range s.deletions {
		s.commitDeletion(f, &stats)
	}
	components := s.commitWork(root, &stats)
	s.link(root)
	s.commitEffects(components, &stats)
	s.publish(root)

	s.commits++
	stats.Generation = s.commits
	stats.Duration = time.Since(start)
	s.last = stats
	s.cfg.Metrics.Commit(stats.Deletions, stats.Duration)
	s.logger.Debug("committed",
		"generation", stats.Generation,
		"units", stats.Units,
		"deletions", stats.Deletions,
		"mutations", stats.Mutations,
		"placements", stats.Placements,
		"effects", stats.Effects,
		"fibers", s.arena.len(),
		"duration", stats.Duration)
	if s.cfg.OnCommit != nil {
		s.cfg.OnCommit(stats)
	}
}

// commitDeletion unmounts f: the effect cleanups of its components run, then
// the topmost host nodes of its subtree are detached from the nearest host
// ancestor.
func (s *Session) commitDeletion(f *fiber, stats *CommitStats) {
	walk(f, func(n *fiber) bool {
		for _, cell := range n.effectHooks {
			if cell.cleanup != nil {
				s.runEffect(n, "cleanup", func() { cell.cleanup() })
				stats.Cleanups++
			}
		}
		return true
	})

	parent := f.hostParent()
	if parent == nil {
		return
	}
	walk(f, func(n *fiber) bool {
		if n.dom == nil {
			return true
		}
		s.cfg.Host.RemoveChild(parent.dom, n.dom)
		return false
	})
}

// commitWork applies placements and updates below root in pre-order and
// returns the components rendered in this pass, in the same order.
func (s *Session) commitWork(root *fiber, stats *CommitStats) []*fiber {
	var components []*fiber
	walk(root, func(f *fiber) bool {
		if f.rendered && f.isComponent() {
			components = append(components, f)
		}
		if f == root {
			return true
		}
		switch f.effectTag {
		case tagUpdate:
			if f.dom != nil {
				var prev Props
				if alt := s.arena.get(f.alternate); alt != nil {
					prev = alt.props
				}
				stats.Mutations += host.UpdateProps(s.cfg.Host, f.dom, f.props, prev)
			}
		case tagPlacement:
			if f.dom != nil {
				s.cfg.Host.AppendChild(f.hostParent().dom, f.dom)
				stats.Placements++
			}
		}
		if !f.rendered {
			s.adopt(f)
			return false
		}
		return true
	})
	return components
}

// adopt gives a fiber the render was stopped before reaching the committed
// subtree and hook cells of its alternate.
func (s *Session) adopt(f *fiber) {
	alt := s.arena.get(f.alternate)
	if alt == nil {
		return
	}
	f.child = alt.child
	for c := f.child; c != nil; c = c.sibling {
		c.parent = f
	}
	f.stateHooks = alt.stateHooks
	f.effectHooks = alt.effectHooks
	f.rendered = alt.rendered
}

// link points every lineage of the committed tree at its new fiber and
// forgets the lineages of deleted fibers. It runs once every host mutation
// went through, so a commit that faults leaves the lineages on the tree
// that is still on screen.
func (s *Session) link(root *fiber) {
	for _, f := range s.deletions {
		walk(f, func(n *fiber) bool {
			if n.lineage.live == n {
				n.lineage.live = nil
				n.lineage.latest = nil
			}
			return true
		})
	}
	walk(root, func(f *fiber) bool {
		f.lineage.live = f
		return true
	})
}

type effectRun struct {
	fiber *fiber
	cell  *effectHook
}

// commitEffects runs two depth-first passes over the rendered components.
// The first runs the recorded cleanup of every previous-generation effect
// with a non-empty dependency list. The second runs each callback on mount
// and whenever one of its dependencies changed, recording the cleanup it
// returns. An effect without dependencies keeps its mount cleanup until the
// component is unmounted.
func (s *Session) commitEffects(components []*fiber, stats *CommitStats) {
	var runs []effectRun
	for _, f := range components {
		alt := s.arena.get(f.alternate)
		if alt != nil && !alt.rendered {
			alt = nil
		}
		for i, cell := range f.effectHooks {
			var prev *effectHook
			if alt != nil && i < len(alt.effectHooks) {
				prev = alt.effectHooks[i]
			}
			switch {
			case prev == nil:
				runs = append(runs, effectRun{fiber: f, cell: cell})
			case !prev.hasDeps():
				cell.cleanup = prev.cleanup
			default:
				if cleanup := prev.cleanup; cleanup != nil {
					prev.cleanup = nil
					s.runEffect(f, "cleanup", cleanup)
					stats.Cleanups++
				}
				if cell.depsChanged(prev) {
					runs = append(runs, effectRun{fiber: f, cell: cell})
				}
			}
		}
	}

	for _, run := range runs {
		cell := run.cell
		s.runEffect(run.fiber, "run", func() { cell.cleanup = cell.callback() })
		stats.Effects++
	}
}

// runEffect calls fn, reporting a panic instead of aborting the commit.
func (s *Session) runEffect(f *fiber, phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("effect %s panicked: %v", phase, r)
			}
			errors.Report(&errors.RuntimeError{
				Op:         "core.commitEffects",
				Kind:       errors.KindEffect,
				Fiber:      f.String(),
				Err:        err,
				StackTrace: errors.CaptureStack(),
			})
			s.cfg.Metrics.Fault(errors.KindEffect.String())
			s.logger.Warn("effect failed", "fiber", f.String(), "phase", phase, "err", err)
		}
	}()
	s.cfg.Metrics.Effect(phase)
	fn()
}

// publish makes root part of the committed tree. A rebased sub-root replaces
// its alternate in the parent's child chain; the session's committed root
// stays the full tree. Superseded generations are released.
func (s *Session) publish(root *fiber) {
	if _, ok := root.typ.(rootType); ok || root.parent == nil {
		s.currentRoot = root
	} else {
		s.splice(root)
	}
	s.wipRoot = nil
	s.next = nil
	s.deletions = nil
	s.guardType = nil
	s.units = 0
	s.phase = PhaseIdle
	s.arena.retain(s.currentRoot)
}

func (s *Session) splice(root *fiber) {
	alt := s.arena.get(root.alternate)
	parent := root.parent
	if parent.child == alt {
		parent.child = root
		return
	}
	for c := parent.child; c != nil; c = c.sibling {
		if c.sibling == alt {
			c.sibling = root
			return
		}
	}
	s.logger.Warn("rebased fiber not found under its parent", "fiber", root.String())
}
