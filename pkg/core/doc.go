// Package core provides the node model, the fiber reconciler, the hook store
// and the idle-time work loop of the renderer.
//
// Nodes are immutable descriptions of part of the UI, built with
// CreateElement. A Session turns them into fibers, one per tree position and
// generation, diffs each generation against the previously committed one by
// position, and commits the result to a host tree through the host package.
//
// # Components
//
// A component is a function from props to a single node. Hooks are called
// through the BuildContext passed to it:
//
//	func Counter(ctx *core.BuildContext, props core.Props) *core.Node {
//	    count, setCount := core.UseState(ctx, 0)
//	    core.UseEffect(ctx, func() func() {
//	        log.Println("count is", count)
//	        return nil
//	    }, count)
//	    return core.CreateElement("button", core.Props{
//	        "onClick": func() { setCount.Set(count + 1) },
//	    }, count)
//	}
//
// Hooks must be called in the same order and number on every render. A
// component that breaks this panics with an *errors.HookOrderError.
//
// # Scheduling
//
// Work happens in idle slots offered by a host.IdleScheduler. Each slot
// performs units of work until the remaining time drops below the session's
// slice threshold, then yields. Once every fiber is worked the tree is
// committed in one uninterruptible step. A setter called while a render is
// in progress discards it and starts again from the updated component.
//
// # Threading
//
// A Session is not safe for concurrent use. Renders, setters and idle
// callbacks must all run on the goroutine that drives the scheduler.
package core
