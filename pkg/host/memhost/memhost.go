// Package memhost implements host.Host over an in-memory element tree.
//
// The document records every mutation it receives, which makes it the host
// of choice for tests and for tooling that wants the rendered markup.
package memhost

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-drift/fiber/pkg/host"
)

var (
	// ErrForeignNode is raised when a node not created by the document is
	// passed to it.
	ErrForeignNode = errors.New("memhost: node does not belong to this document")
	// ErrNotChild is raised by RemoveChild when child is not a child of parent.
	ErrNotChild = errors.New("memhost: node is not a child of parent")
)

// Kind distinguishes element nodes from text nodes.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
)

func (k Kind) String() string {
	if k == TextNode {
		return "text"
	}
	return "element"
}

// Op identifies a recorded host mutation.
type Op int

const (
	OpCreate Op = iota
	OpAppend
	OpRemove
	OpSetProperty
	OpRemoveProperty
	OpAddListener
	OpRemoveListener
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpAppend:
		return "append"
	case OpRemove:
		return "remove"
	case OpSetProperty:
		return "set"
	case OpRemoveProperty:
		return "unset"
	case OpAddListener:
		return "listen"
	case OpRemoveListener:
		return "unlisten"
	default:
		return "unknown"
	}
}

// Mutation is one recorded host call.
type Mutation struct {
	Op     Op
	Target *Element
	// Name is the tag for OpCreate, the property or event name for property
	// and listener ops, and empty for tree ops.
	Name string
	// Child is set for OpAppend and OpRemove.
	Child *Element
}

func (m Mutation) String() string {
	switch m.Op {
	case OpAppend, OpRemove:
		return fmt.Sprintf("%s %s<-%s", m.Op, m.Target.label(), m.Child.label())
	case OpCreate:
		return fmt.Sprintf("%s %s", m.Op, m.Target.label())
	default:
		return fmt.Sprintf("%s %s.%s", m.Op, m.Target.label(), m.Name)
	}
}

// Document is an in-memory host. It is not safe for concurrent use; like a
// browser document it belongs to one goroutine.
type Document struct {
	body      *Element
	mutations []Mutation
	nextID    int
}

var _ host.Host = (*Document)(nil)

// NewDocument returns an empty document with a "body" element.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.newElement(ElementNode, "body")
	return d
}

// Body returns the document's root element, a convenient render container.
func (d *Document) Body() *Element {
	return d.body
}

// Mutations returns the mutations recorded since the last Reset.
func (d *Document) Mutations() []Mutation {
	return slices.Clone(d.mutations)
}

// ResetMutations clears the mutation log.
func (d *Document) ResetMutations() {
	d.mutations = d.mutations[:0]
}

func (d *Document) record(m Mutation) {
	d.mutations = append(d.mutations, m)
}

func (d *Document) newElement(kind Kind, tag string) *Element {
	d.nextID++
	return &Element{
		id:        d.nextID,
		doc:       d,
		kind:      kind,
		tag:       tag,
		props:     make(map[string]any),
		listeners: make(map[string][]any),
	}
}

func (d *Document) element(n host.Node) *Element {
	e, ok := n.(*Element)
	if !ok || e == nil || e.doc != d {
		panic(fmt.Errorf("%w: %T", ErrForeignNode, n))
	}
	return e
}

// CreateElement implements host.Host.
func (d *Document) CreateElement(tag string) host.Node {
	e := d.newElement(ElementNode, tag)
	d.record(Mutation{Op: OpCreate, Target: e, Name: tag})
	return e
}

// CreateTextNode implements host.Host.
func (d *Document) CreateTextNode() host.Node {
	e := d.newElement(TextNode, "#text")
	d.record(Mutation{Op: OpCreate, Target: e, Name: e.tag})
	return e
}

// AppendChild implements host.Host. A child that already has a parent is
// moved.
func (d *Document) AppendChild(parent, child host.Node) {
	p, c := d.element(parent), d.element(child)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = p
	p.children = append(p.children, c)
	d.record(Mutation{Op: OpAppend, Target: p, Child: c})
}

// RemoveChild implements host.Host.
func (d *Document) RemoveChild(parent, child host.Node) {
	p, c := d.element(parent), d.element(child)
	if c.parent != p || !p.detach(c) {
		panic(fmt.Errorf("%w: %s from %s", ErrNotChild, c.label(), p.label()))
	}
	c.parent = nil
	d.record(Mutation{Op: OpRemove, Target: p, Child: c})
}

// Property implements host.Host.
func (d *Document) Property(node host.Node, name string) (any, bool) {
	v, ok := d.element(node).props[name]
	return v, ok
}

// SetProperty implements host.Host.
func (d *Document) SetProperty(node host.Node, name string, value any) {
	e := d.element(node)
	e.props[name] = value
	d.record(Mutation{Op: OpSetProperty, Target: e, Name: name})
}

// RemoveProperty implements host.Host.
func (d *Document) RemoveProperty(node host.Node, name string) {
	e := d.element(node)
	delete(e.props, name)
	d.record(Mutation{Op: OpRemoveProperty, Target: e, Name: name})
}

// AddEventListener implements host.Host.
func (d *Document) AddEventListener(node host.Node, event string, listener any) {
	e := d.element(node)
	e.listeners[event] = append(e.listeners[event], listener)
	d.record(Mutation{Op: OpAddListener, Target: e, Name: event})
}

// RemoveEventListener implements host.Host. Unknown listeners are ignored,
// as in the DOM.
func (d *Document) RemoveEventListener(node host.Node, event string, listener any) {
	e := d.element(node)
	list := e.listeners[event]
	for i, l := range list {
		if host.SameValue(l, listener) {
			e.listeners[event] = slices.Delete(list, i, i+1)
			break
		}
	}
	if len(e.listeners[event]) == 0 {
		delete(e.listeners, event)
	}
	d.record(Mutation{Op: OpRemoveListener, Target: e, Name: event})
}

// Dispatch delivers an event of the given type to target's listeners and
// then bubbles it to every ancestor. Listeners may be func(host.Event) or
// func(). It returns the number of listeners invoked.
func (d *Document) Dispatch(target *Element, event string, value any) int {
	ev := host.Event{Type: event, Target: target, Value: value}
	called := 0
	for e := target; e != nil; e = e.parent {
		for _, l := range slices.Clone(e.listeners[event]) {
			switch fn := l.(type) {
			case func(host.Event):
				fn(ev)
			case func():
				fn()
			default:
				continue
			}
			called++
		}
	}
	return called
}
