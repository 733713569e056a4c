package host

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ChildrenProp is the reserved prop holding child descriptors. It is never
// forwarded to the host.
const ChildrenProp = "children"

// CreateNode allocates an empty host node for tag. Text descriptors get a
// text node; every other tag an element node.
func CreateNode(h Host, tag string) Node {
	if tag == TextElement {
		return h.CreateTextNode()
	}
	return h.CreateElement(tag)
}

// IsListener reports whether a prop name follows the listener convention:
// "on" followed by an upper-case letter, as in "onClick".
func IsListener(name string) bool {
	if len(name) < 3 || !strings.HasPrefix(name, "on") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[2:])
	return unicode.IsUpper(r)
}

// EventName maps a listener prop name to its event name ("onClick" -> "click").
func EventName(name string) string {
	return strings.ToLower(name[2:])
}

// UpdateProps reconciles the properties and listeners of node from prev to
// next. Entries present in prev and absent from next are removed; entries of
// next whose value is not the same as in prev are set, rebinding listeners.
// Keys are visited in sorted order so mutation sequences are deterministic.
// It returns the number of host mutations issued.
func UpdateProps(h Host, node Node, next, prev map[string]any) int {
	mutations := 0
	for _, key := range slices.Sorted(maps.Keys(prev)) {
		if key == ChildrenProp {
			continue
		}
		if _, ok := next[key]; ok {
			continue
		}
		if IsListener(key) {
			h.RemoveEventListener(node, EventName(key), prev[key])
		} else {
			h.RemoveProperty(node, key)
		}
		mutations++
	}
	for _, key := range slices.Sorted(maps.Keys(next)) {
		if key == ChildrenProp {
			continue
		}
		value := next[key]
		old, had := prev[key]
		if had && SameValue(value, old) {
			continue
		}
		if IsListener(key) {
			event := EventName(key)
			if had {
				h.RemoveEventListener(node, event, old)
			}
			h.AddEventListener(node, event, value)
		} else {
			h.SetProperty(node, key, value)
		}
		mutations++
	}
	return mutations
}
