package core_test

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memhost"
	fibertest "github.com/go-drift/fiber/pkg/testing"
)

// This example renders a tree into an in-memory document, driving idle
// slots by hand.
func ExampleSession() {
	doc := memhost.NewDocument()
	idle := fibertest.NewFakeIdle()
	session := core.NewSession(doc.Body(), core.Config{Host: doc, Scheduler: idle})

	session.Render(core.CreateElement("ul", core.Props{"class": "todo"},
		core.CreateElement("li", nil, "write code"),
		core.CreateElement("li", nil, "test it"),
	))
	for session.Pending() {
		idle.RunSlot()
	}

	fmt.Println(doc.Body().Child(0))
	// Output: <ul class="todo"><li>write code</li><li>test it</li></ul>
}

// This example shows a component holding state and an effect.
func ExampleUseState() {
	doc := memhost.NewDocument()
	idle := fibertest.NewFakeIdle()
	session := core.NewSession(doc.Body(), core.Config{Host: doc, Scheduler: idle})

	var increment func()
	counter := func(ctx *core.BuildContext, props core.Props) *core.Node {
		count, setCount := core.UseState(ctx, 0)
		increment = func() { setCount.Update(func(n int) int { return n + 1 }) }
		core.UseEffect(ctx, func() func() {
			fmt.Println("count is", count)
			return nil
		}, count)
		return core.CreateElement("span", nil, count)
	}

	session.Render(core.CreateElement(counter, nil))
	for session.Pending() {
		idle.RunSlot()
	}
	increment()
	for session.Pending() {
		idle.RunSlot()
	}

	fmt.Println(doc.Body().Child(0))
	// Output:
	// count is 0
	// count is 1
	// <span>1</span>
}
