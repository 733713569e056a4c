// Package host defines the contract between the renderer and a native,
// mutable element tree, and the adapter that keeps host nodes in sync with
// descriptor props.
//
// A host owns the real nodes (a browser document, an in-memory tree used by
// tests, ...). The renderer never inspects nodes; it hands them back to the
// host that created them.
package host

import "time"

// TextElement is the tag of synthetic text descriptors. A host node created
// for it is a text node whose content is the "nodeValue" property.
const TextElement = "TEXT_ELEMENT"

// Node is an opaque host node handle. Handles must be comparable so a
// container can key the root rendered into it.
type Node any

// Event is delivered to listeners registered through AddEventListener.
type Event struct {
	// Type is the lower-cased event name ("click", "input", ...).
	Type string
	// Target is the node the event was dispatched on.
	Target Node
	// Value carries an event payload, such as the new value of an input.
	Value any
}

// Host allocates and mutates native nodes.
type Host interface {
	// CreateElement allocates an empty element node for tag.
	CreateElement(tag string) Node
	// CreateTextNode allocates an empty text node.
	CreateTextNode() Node
	// AppendChild appends child as the last child of parent.
	AppendChild(parent, child Node)
	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Node)
	// Property reads a named property.
	Property(node Node, name string) (any, bool)
	// SetProperty assigns a named property.
	SetProperty(node Node, name string, value any)
	// RemoveProperty clears a named property.
	RemoveProperty(node Node, name string)
	// AddEventListener registers listener for event on node.
	AddEventListener(node Node, event string, listener any)
	// RemoveEventListener unregisters a listener previously added with the
	// same event name and the same listener value.
	RemoveEventListener(node Node, event string, listener any)
}

// Deadline reports how much of the current idle slot is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// IdleScheduler invokes callbacks during host idle time. Callbacks must be
// delivered on the goroutine that owns the host tree.
type IdleScheduler interface {
	RequestIdleCallback(cb func(Deadline))
}
