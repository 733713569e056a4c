package testing

import (
	"testing"
	"time"

	"github.com/go-drift/fiber/pkg/host"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeIdle_RunSlot(t *testing.T) {
	idle := NewFakeIdle()
	if idle.RunSlot() {
		t.Error("expected no callback to run on an empty scheduler")
	}

	var remaining time.Duration
	idle.RequestIdleCallback(func(d host.Deadline) {
		remaining = d.TimeRemaining()
	})
	if idle.Pending() != 1 {
		t.Fatalf("expected 1 pending callback, got %d", idle.Pending())
	}
	if !idle.RunSlot() {
		t.Fatal("expected the callback to run")
	}
	if remaining != DefaultIdleBudget {
		t.Errorf("expected %v remaining, got %v", DefaultIdleBudget, remaining)
	}
	if idle.Slots() != 1 {
		t.Errorf("expected 1 slot, got %d", idle.Slots())
	}
}

func TestFakeIdle_CheckCost(t *testing.T) {
	idle := NewFakeIdle()
	idle.SetBudget(3 * time.Millisecond)
	idle.SetCheckCost(time.Millisecond)

	var seen []time.Duration
	idle.RequestIdleCallback(func(d host.Deadline) {
		for range 4 {
			seen = append(seen, d.TimeRemaining())
		}
	})
	idle.RunSlot()

	want := []time.Duration{2 * time.Millisecond, time.Millisecond, 0, 0}
	if len(seen) != len(want) {
		t.Fatalf("expected %d checks, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("check %d: expected %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestFakeIdle_RequestsDuringSlotWait(t *testing.T) {
	idle := NewFakeIdle()
	runs := 0
	var again func(host.Deadline)
	again = func(host.Deadline) {
		runs++
		idle.RequestIdleCallback(again)
	}
	idle.RequestIdleCallback(again)

	idle.RunSlot()
	if runs != 1 {
		t.Errorf("expected 1 run after one slot, got %d", runs)
	}
	idle.RunSlot()
	if runs != 2 {
		t.Errorf("expected 2 runs after two slots, got %d", runs)
	}
	if idle.Pending() != 1 {
		t.Errorf("expected the callback to be queued again, got %d pending", idle.Pending())
	}
}

func TestFakeIdle_SlotsAdvanceClock(t *testing.T) {
	idle := NewFakeIdle()
	start := idle.Clock().Now()
	idle.RequestIdleCallback(func(host.Deadline) {})
	idle.RunSlot()

	if got := idle.Clock().Now().Sub(start); got != DefaultIdleBudget {
		t.Errorf("expected the clock to move by one slot, moved %v", got)
	}
}
