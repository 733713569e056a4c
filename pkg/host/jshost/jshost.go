//go:build js && wasm

// Package jshost implements host.Host on the browser DOM through syscall/js.
package jshost

import (
	"fmt"
	"sync"
	"syscall/js"
	"time"

	"github.com/go-drift/fiber/pkg/host"
)

// Element wraps a DOM node. Wrappers are pointers so they can key maps and
// be compared.
type Element struct {
	v         js.Value
	listeners map[string][]binding
}

type binding struct {
	listener any
	fn       js.Func
}

// Value returns the wrapped DOM node.
func (e *Element) Value() js.Value {
	return e.v
}

// Document is the browser host. All calls must happen on the JS thread.
type Document struct {
	doc  js.Value
	body *Element
}

var (
	_ host.Host          = (*Document)(nil)
	_ host.IdleScheduler = (*Document)(nil)
)

var (
	globalOnce sync.Once
	global     *Document
)

// Global returns the host for the page's document.
func Global() *Document {
	globalOnce.Do(func() {
		global = New(js.Global().Get("document"))
	})
	return global
}

// New returns a host for doc.
func New(doc js.Value) *Document {
	return &Document{doc: doc, body: Wrap(doc.Get("body"))}
}

// Wrap wraps an existing DOM node, for example a container found with
// getElementById.
func Wrap(v js.Value) *Element {
	return &Element{v: v}
}

// Body returns the document's body.
func (d *Document) Body() *Element {
	return d.body
}

// GetElementByID wraps the element with the given id, or returns nil.
func (d *Document) GetElementByID(id string) *Element {
	v := d.doc.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return Wrap(v)
}

func element(n host.Node) *Element {
	e, ok := n.(*Element)
	if !ok || e == nil {
		panic(fmt.Sprintf("jshost: foreign node %T", n))
	}
	return e
}

// CreateElement implements host.Host.
func (d *Document) CreateElement(tag string) host.Node {
	return Wrap(d.doc.Call("createElement", tag))
}

// CreateTextNode implements host.Host.
func (d *Document) CreateTextNode() host.Node {
	return Wrap(d.doc.Call("createTextNode", ""))
}

// AppendChild implements host.Host.
func (d *Document) AppendChild(parent, child host.Node) {
	element(parent).v.Call("appendChild", element(child).v)
}

// RemoveChild implements host.Host.
func (d *Document) RemoveChild(parent, child host.Node) {
	element(parent).v.Call("removeChild", element(child).v)
}

// Property implements host.Host.
func (d *Document) Property(node host.Node, name string) (any, bool) {
	v := element(node).v.Get(name)
	if v.IsUndefined() {
		return nil, false
	}
	return v, true
}

// SetProperty implements host.Host.
func (d *Document) SetProperty(node host.Node, name string, value any) {
	element(node).v.Set(name, toJS(value))
}

// RemoveProperty implements host.Host. Element attributes are removed;
// text node values are emptied.
func (d *Document) RemoveProperty(node host.Node, name string) {
	v := element(node).v
	if v.Get("nodeType").Int() == 1 {
		v.Call("removeAttribute", name)
		return
	}
	v.Set(name, "")
}

// AddEventListener implements host.Host. listener is a func(host.Event) or
// a func().
func (d *Document) AddEventListener(node host.Node, event string, listener any) {
	e := element(node)
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := host.Event{Type: event, Target: e}
		if len(args) > 0 {
			if target := args[0].Get("target"); !target.IsUndefined() {
				ev.Value = target.Get("value")
			}
		}
		switch l := listener.(type) {
		case func(host.Event):
			l(ev)
		case func():
			l()
		}
		return nil
	})
	if e.listeners == nil {
		e.listeners = make(map[string][]binding)
	}
	e.listeners[event] = append(e.listeners[event], binding{listener: listener, fn: fn})
	e.v.Call("addEventListener", event, fn)
}

// RemoveEventListener implements host.Host.
func (d *Document) RemoveEventListener(node host.Node, event string, listener any) {
	e := element(node)
	list := e.listeners[event]
	for i, b := range list {
		if !host.SameValue(b.listener, listener) {
			continue
		}
		e.v.Call("removeEventListener", event, b.fn)
		b.fn.Release()
		e.listeners[event] = append(list[:i], list[i+1:]...)
		return
	}
}

// RequestIdleCallback implements host.IdleScheduler with the browser's
// requestIdleCallback, falling back to a frame-long setTimeout.
func (d *Document) RequestIdleCallback(cb func(host.Deadline)) {
	var fn js.Func
	ric := js.Global().Get("requestIdleCallback")
	if ric.Type() != js.TypeFunction {
		start := time.Now()
		fn = js.FuncOf(func(js.Value, []js.Value) any {
			fn.Release()
			cb(timeoutDeadline{end: start.Add(16 * time.Millisecond)})
			return nil
		})
		js.Global().Call("setTimeout", fn, 1)
		return
	}
	fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		fn.Release()
		cb(idleDeadline{v: args[0]})
		return nil
	})
	ric.Invoke(fn)
}

type idleDeadline struct {
	v js.Value
}

func (d idleDeadline) TimeRemaining() time.Duration {
	ms := d.v.Call("timeRemaining").Float()
	return time.Duration(ms * float64(time.Millisecond))
}

type timeoutDeadline struct {
	end time.Time
}

func (d timeoutDeadline) TimeRemaining() time.Duration {
	return max(time.Until(d.end), 0)
}

func toJS(value any) any {
	switch v := value.(type) {
	case nil, bool, string, js.Value,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
