package core

import (
	"fmt"
	"maps"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-drift/fiber/pkg/host"
)

// TextElement is the type tag of text descriptors.
const TextElement = host.TextElement

// ChildrenProp is the prop holding a descriptor's children.
const ChildrenProp = host.ChildrenProp

// Props is the property bag of a descriptor. It always holds ChildrenProp
// once built by CreateElement.
type Props map[string]any

// Children returns the child descriptors stored in the bag. Entries may be
// nil for skipped slots.
func (p Props) Children() []*Node {
	children, _ := p[ChildrenProp].([]*Node)
	return children
}

// Component renders props into a single descriptor. ctx gives access to the
// hooks of the component's fiber and is only valid during the call.
type Component func(ctx *BuildContext, props Props) *Node

// Type identifies what a descriptor renders to. It is either a HostType or
// a ComponentType; CreateElement wraps anything else in a type that faults
// when the descriptor is worked.
type Type interface {
	// Name describes the type for diagnostics.
	Name() string
	isType()
}

// HostType is a host element tag. HostType(TextElement) is a text node.
type HostType string

// Name implements Type.
func (t HostType) Name() string { return string(t) }
func (HostType) isType()        {}

// ComponentType renders through a component function.
type ComponentType struct {
	Render Component
}

// Name returns the unqualified function name of the component.
func (t ComponentType) Name() string {
	if t.Render == nil {
		return "<nil component>"
	}
	fn := runtime.FuncForPC(reflect.ValueOf(t.Render).Pointer())
	if fn == nil {
		return "<component>"
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
func (ComponentType) isType() {}

// invalidType carries a value that is neither a tag nor a component.
type invalidType struct {
	value any
}

func (t invalidType) Name() string { return fmt.Sprintf("%T", t.value) }
func (invalidType) isType()        {}

// rootType marks the fiber owning the container.
type rootType struct{}

func (rootType) Name() string { return "#root" }
func (rootType) isType()      {}

// sameType reports whether two fibers at the same position may share a host
// node and hook cells. Host tags compare by value, components by function
// identity.
func sameType(a, b Type) bool {
	switch at := a.(type) {
	case HostType:
		bt, ok := b.(HostType)
		return ok && at == bt
	case ComponentType:
		bt, ok := b.(ComponentType)
		return ok && host.SameValue(at.Render, bt.Render)
	case rootType:
		_, ok := b.(rootType)
		return ok
	}
	return false
}

// Node is an immutable descriptor of desired UI structure.
type Node struct {
	Type  Type
	Props Props
}

// Children returns the node's child descriptors.
func (n *Node) Children() []*Node {
	return n.Props.Children()
}

// CreateElement builds a descriptor. typ is a host tag (string or HostType)
// or a component (Component, a func with the same signature, or
// ComponentType). props is copied. Children are normalized: *Node passes
// through, nil and bool leave an empty slot, strings and numbers become text
// descriptors holding the value as nodeValue, and a fmt.Stringer becomes the
// text of its String method. Any other child becomes a descriptor of an
// invalid type that faults when it is worked.
func CreateElement(typ any, props Props, children ...any) *Node {
	p := make(Props, len(props)+1)
	maps.Copy(p, props)
	kids := make([]*Node, len(children))
	for i, child := range children {
		kids[i] = normalizeChild(child)
	}
	p[ChildrenProp] = kids
	return &Node{Type: typeOf(typ), Props: p}
}

// CreateTextNode builds a text descriptor.
func CreateTextNode(value any) *Node {
	return &Node{
		Type: HostType(TextElement),
		Props: Props{
			"nodeValue":  value,
			ChildrenProp: []*Node{},
		},
	}
}

// Children adapts a descriptor slice for spreading into CreateElement.
func Children(nodes ...*Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func normalizeChild(child any) *Node {
	switch c := child.(type) {
	case nil, bool:
		return nil
	case *Node:
		return c
	case string:
		return CreateTextNode(c)
	case fmt.Stringer:
		return CreateTextNode(c.String())
	}
	switch reflect.TypeOf(child).Kind() {
	case reflect.Bool:
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		return CreateTextNode(child)
	}
	// Composite values, such as an unspread Children slice, are not text.
	return &Node{Type: invalidType{value: child}, Props: Props{ChildrenProp: []*Node{}}}
}

func typeOf(typ any) Type {
	switch t := typ.(type) {
	case HostType:
		return t
	case ComponentType:
		return t
	case string:
		return HostType(t)
	case Component:
		return ComponentType{Render: t}
	case func(*BuildContext, Props) *Node:
		return ComponentType{Render: t}
	}
	return invalidType{value: typ}
}
