package core

// reconcileChildren diffs children against the previous generation's
// children of f by position. A previous fiber of the same type at the same
// index is updated in place and keeps its host node; anything else is placed
// fresh and the previous fiber, if any, is queued for deletion. No key is
// consulted, so reordering same-typed children updates every slot in place.
func (s *Session) reconcileChildren(f *fiber, children []*Node) {
	var old *fiber
	if alt := s.arena.get(f.alternate); alt != nil {
		old = alt.child
	}

	f.child = nil
	var prev *fiber
	for _, child := range children {
		var next *fiber
		switch {
		case old != nil && child != nil && sameType(old.typ, child.Type):
			next = &fiber{
				typ:       child.Type,
				props:     child.Props,
				dom:       old.dom,
				parent:    f,
				effectTag: tagUpdate,
				alternate: old.id,
				lineage:   old.lineage,
			}
		default:
			if child != nil {
				next = &fiber{
					typ:       child.Type,
					props:     child.Props,
					parent:    f,
					effectTag: tagPlacement,
					lineage:   &lineage{},
				}
			}
			if old != nil {
				s.deletions = append(s.deletions, old)
			}
		}
		if old != nil {
			old = old.sibling
		}
		if next == nil {
			continue
		}
		s.arena.alloc(next)
		next.lineage.latest = next
		if prev == nil {
			f.child = next
		} else {
			prev.sibling = next
		}
		prev = next
	}

	for ; old != nil; old = old.sibling {
		s.deletions = append(s.deletions, old)
	}
}
