// Package testing provides a harness for rendering node trees in tests.
//
// # Quick Start
//
// Create a tester, render a tree, and make assertions on the host tree:
//
//	func TestCounter(t *testing.T) {
//	    tester := fibertest.NewTester(t)
//	    tester.MustRender(core.CreateElement(Counter, nil))
//
//	    tester.Dispatch(fibertest.ByTag("button"), "click", nil)
//
//	    if !tester.Find(fibertest.ByText("1")).Exists() {
//	        t.Error("expected count 1")
//	    }
//	}
//
// # Scheduling
//
// Idle slots only run when the test pumps them, so the state between slots
// can be inspected. FakeIdle measures slots on a FakeClock; SetBudget and
// SetCheckCost control how much work fits in one slot:
//
//	tester.Idle().SetBudget(2 * time.Millisecond)
//	tester.Idle().SetCheckCost(time.Millisecond)
//	tester.Schedule(tree)
//	tester.Pump() // two units of work, then the session yields
//
// # Snapshot Testing
//
// Capture and compare host tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	FIBER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fibertest "github.com/go-drift/fiber/pkg/testing"
package testing
