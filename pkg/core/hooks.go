package core

import (
	"reflect"
	"strconv"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

// BuildContext carries the hook cursor of the component being rendered. A
// fresh context is handed to every component invocation and is invalid once
// the invocation returns.
type BuildContext struct {
	session *Session
	fiber   *fiber
	// prev is the committed fiber the hooks continue from, nil on mount.
	prev *fiber
}

// Component returns the name of the component being rendered.
func (c *BuildContext) Component() string {
	if c == nil || c.fiber == nil {
		return ""
	}
	return c.fiber.typ.Name()
}

func (c *BuildContext) current(hook string) *fiber {
	if c == nil || c.fiber == nil {
		panic(&errors.RuntimeError{
			Op:   "core.Use" + hook,
			Kind: errors.KindHook,
			Err:  errHookOutsideRender,
		})
	}
	return c.fiber
}

type hookError string

func (e hookError) Error() string { return string(e) }

const errHookOutsideRender = hookError("hooks may only be called while a component renders")

// stateHook is one useState cell.
type stateHook struct {
	state any
	// queue holds pending transforms, applied in order on the next render.
	queue []func(any) any
	typ   reflect.Type
}

// folded applies the pending queue to a copy of the state.
func (h *stateHook) folded() any {
	state := h.state
	for _, action := range h.queue {
		state = action(state)
	}
	return state
}

// effectHook is one useEffect cell.
type effectHook struct {
	callback func() func()
	deps     []any
	cleanup  func()
}

func (h *effectHook) hasDeps() bool {
	return len(h.deps) > 0
}

// depsChanged reports whether any dependency differs from prev.
func (h *effectHook) depsChanged(prev *effectHook) bool {
	for i, dep := range h.deps {
		if !host.SameValue(dep, prev.deps[i]) {
			return true
		}
	}
	return false
}

// UseState returns the state held at the current hook position and a setter
// for it. On the first render the cell starts from initial; afterwards it
// continues from the previous generation with pending updates applied.
//
// Example:
//
//	func Counter(ctx *core.BuildContext, props core.Props) *core.Node {
//	    count, setCount := core.UseState(ctx, 0)
//	    return core.CreateElement("button", core.Props{
//	        "onClick": func() { setCount.Update(func(n int) int { return n + 1 }) },
//	    }, count)
//	}
func UseState[T any](ctx *BuildContext, initial T) (T, Setter[T]) {
	f := ctx.current("State")
	index := len(f.stateHooks)
	typ := reflect.TypeFor[T]()

	cell := &stateHook{state: initial, typ: typ}
	if prev := ctx.prev; prev != nil {
		if index >= len(prev.stateHooks) {
			panic(hookOrderError(f, "state", index, "hook count",
				strconv.Itoa(len(prev.stateHooks)), "at least "+strconv.Itoa(index+1)))
		}
		old := prev.stateHooks[index]
		if old.typ != typ {
			panic(hookOrderError(f, "state", index, "state type", old.typ.String(), typ.String()))
		}
		cell.state = old.folded()
	}
	f.stateHooks = append(f.stateHooks, cell)

	return valueAs[T](cell.state), Setter[T]{
		session: ctx.session,
		lineage: f.lineage,
		index:   index,
	}
}

// UseEffect registers callback to run after the commit of this render. With
// no deps it runs once, on mount. With deps it runs on mount and after every
// commit in which one of them changed, the previous cleanup running first.
// The function returned by callback, if any, is the cleanup; it also runs
// when the component is unmounted.
func UseEffect(ctx *BuildContext, callback func() func(), deps ...any) {
	f := ctx.current("Effect")
	index := len(f.effectHooks)
	if prev := ctx.prev; prev != nil {
		if index >= len(prev.effectHooks) {
			panic(hookOrderError(f, "effect", index, "hook count",
				strconv.Itoa(len(prev.effectHooks)), "at least "+strconv.Itoa(index+1)))
		}
		if n := len(prev.effectHooks[index].deps); n != len(deps) {
			panic(hookOrderError(f, "effect", index, "dependency count",
				strconv.Itoa(n), strconv.Itoa(len(deps))))
		}
	}
	f.effectHooks = append(f.effectHooks, &effectHook{
		callback: callback,
		deps:     deps,
	})
}

// finish asserts that the render called as many hooks as the previous one.
func (c *BuildContext) finish() {
	f, prev := c.fiber, c.prev
	c.fiber = nil
	if prev == nil {
		return
	}
	if len(f.stateHooks) != len(prev.stateHooks) {
		panic(hookOrderError(f, "state", len(f.stateHooks), "hook count",
			strconv.Itoa(len(prev.stateHooks)), strconv.Itoa(len(f.stateHooks))))
	}
	if len(f.effectHooks) != len(prev.effectHooks) {
		panic(hookOrderError(f, "effect", len(f.effectHooks), "hook count",
			strconv.Itoa(len(prev.effectHooks)), strconv.Itoa(len(f.effectHooks))))
	}
}

func hookOrderError(f *fiber, hook string, index int, detail, want, got string) *errors.HookOrderError {
	return &errors.HookOrderError{
		Component: f.typ.Name(),
		Hook:      hook,
		Index:     index,
		Detail:    detail,
		Want:      want,
		Got:       got,
	}
}

func valueAs[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Setter updates one state cell. It stays valid across renders and always
// targets the most recently committed generation of its component.
type Setter[T any] struct {
	session *Session
	lineage *lineage
	index   int
}

// Set replaces the state with value.
func (s Setter[T]) Set(value T) {
	s.apply(func(T) T { return value })
}

// Update replaces the state with transform applied to the latest state,
// pending updates included. transform must be pure: it may be called more
// than once.
func (s Setter[T]) Update(transform func(T) T) {
	s.apply(transform)
}

func (s Setter[T]) apply(transform func(T) T) {
	if s.session == nil {
		return
	}
	s.session.enqueueUpdate(s.lineage, s.index, func(state any) any {
		return transform(valueAs[T](state))
	})
}
