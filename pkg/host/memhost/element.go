package memhost

import (
	"fmt"
	"html"
	"maps"
	"slices"
	"strings"

	"github.com/go-drift/fiber/pkg/host"
)

// Element is a node of a Document. Text nodes carry their content in the
// "nodeValue" property.
type Element struct {
	id        int
	doc       *Document
	kind      Kind
	tag       string
	props     map[string]any
	listeners map[string][]any
	parent    *Element
	children  []*Element
}

// Kind reports whether e is an element or a text node.
func (e *Element) Kind() Kind { return e.kind }

// Tag returns the element tag, or "#text" for text nodes.
func (e *Element) Tag() string { return e.tag }

// Parent returns the parent element, nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return len(e.children) }

// Child returns the i-th child or nil.
func (e *Element) Child(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// Prop returns a property value.
func (e *Element) Prop(name string) (any, bool) {
	v, ok := e.props[name]
	return v, ok
}

// Props returns a copy of the properties.
func (e *Element) Props() map[string]any { return maps.Clone(e.props) }

// Events returns the sorted names of the events e listens to.
func (e *Element) Events() []string { return slices.Sorted(maps.Keys(e.listeners)) }

// ListenerCount returns how many listeners are bound for event.
func (e *Element) ListenerCount(event string) int { return len(e.listeners[event]) }

// Text returns the nodeValue of a text node.
func (e *Element) Text() string {
	v, ok := e.props["nodeValue"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// TextContent concatenates the text of every descendant text node.
func (e *Element) TextContent() string {
	var sb strings.Builder
	e.walk(func(n *Element) bool {
		if n.kind == TextNode {
			sb.WriteString(n.Text())
		}
		return true
	})
	return sb.String()
}

// Find returns the first element in pre-order (e included) matching pred.
func (e *Element) Find(pred func(*Element) bool) *Element {
	var found *Element
	e.walk(func(n *Element) bool {
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every element in pre-order matching pred.
func (e *Element) FindAll(pred func(*Element) bool) []*Element {
	var out []*Element
	e.walk(func(n *Element) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ByID finds the element whose "id" property equals id.
func (e *Element) ByID(id string) *Element {
	return e.Find(func(n *Element) bool {
		v, ok := n.props["id"]
		return ok && v == id
	})
}

// Dispatch is shorthand for e's document Dispatch.
func (e *Element) Dispatch(event string, value any) int {
	return e.doc.Dispatch(e, event, value)
}

// walk visits the subtree in pre-order with an explicit stack; visit
// returns false to stop.
func (e *Element) walk(visit func(*Element) bool) {
	stack := []*Element{e}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

func (e *Element) detach(child *Element) bool {
	i := slices.Index(e.children, child)
	if i < 0 {
		return false
	}
	e.children = slices.Delete(e.children, i, i+1)
	return true
}

func (e *Element) label() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", e.tag, e.id)
}

// Markup renders the subtree as HTML-like markup. Properties are written
// as attributes in sorted order; listeners and nil values are omitted.
func (e *Element) Markup() string {
	var sb strings.Builder
	e.markup(&sb)
	return sb.String()
}

// String implements fmt.Stringer with Markup.
func (e *Element) String() string { return e.Markup() }

func (e *Element) markup(sb *strings.Builder) {
	if e.kind == TextNode {
		sb.WriteString(html.EscapeString(e.Text()))
		return
	}
	sb.WriteString("<")
	sb.WriteString(e.tag)
	for _, key := range slices.Sorted(maps.Keys(e.props)) {
		v := e.props[key]
		if v == nil || host.IsListener(key) {
			continue
		}
		fmt.Fprintf(sb, " %s=%q", key, html.EscapeString(fmt.Sprint(v)))
	}
	sb.WriteString(">")
	for _, c := range e.children {
		c.markup(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteString(">")
}
