package testing

import (
	"sync"
	"time"

	"github.com/go-drift/fiber/pkg/host"
)

// FakeClock provides controllable time for deterministic scheduling tests.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// DefaultIdleBudget is the length of a FakeIdle slot, the longest idle
// period a browser grants.
const DefaultIdleBudget = 50 * time.Millisecond

// FakeIdle is a host.IdleScheduler whose slots run only when the test asks.
// Slot time is measured on a FakeClock; every TimeRemaining query costs
// CheckCost, which lets tests bound how many units of work fit in a slot.
type FakeIdle struct {
	mu        sync.Mutex
	clock     *FakeClock
	budget    time.Duration
	checkCost time.Duration
	callbacks []func(host.Deadline)
	slots     int
}

var _ host.IdleScheduler = (*FakeIdle)(nil)

// NewFakeIdle returns a scheduler with DefaultIdleBudget slots and free
// deadline checks.
func NewFakeIdle() *FakeIdle {
	return &FakeIdle{clock: NewFakeClock(), budget: DefaultIdleBudget}
}

// Clock returns the clock slots are measured on.
func (f *FakeIdle) Clock() *FakeClock {
	return f.clock
}

// SetBudget sets the length of the following slots.
func (f *FakeIdle) SetBudget(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.budget = d
}

// SetCheckCost sets how far each TimeRemaining query advances the clock.
func (f *FakeIdle) SetCheckCost(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCost = d
}

// RequestIdleCallback implements host.IdleScheduler.
func (f *FakeIdle) RequestIdleCallback(cb func(host.Deadline)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, cb)
}

// Pending returns the number of callbacks waiting for a slot.
func (f *FakeIdle) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.callbacks)
}

// Slots returns the number of slots run.
func (f *FakeIdle) Slots() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots
}

// RunSlot runs the callbacks requested so far in one idle slot. Callbacks
// requested while it runs wait for the next slot. It reports whether any
// callback ran.
func (f *FakeIdle) RunSlot() bool {
	f.mu.Lock()
	callbacks := f.callbacks
	f.callbacks = nil
	budget, cost := f.budget, f.checkCost
	if len(callbacks) > 0 {
		f.slots++
	}
	f.mu.Unlock()

	d := &fakeDeadline{clock: f.clock, end: f.clock.Now().Add(budget), cost: cost}
	for _, cb := range callbacks {
		cb(d)
	}
	// The slot is over; the next one starts after it.
	if now := f.clock.Now(); now.Before(d.end) {
		f.clock.Advance(d.end.Sub(now))
	}
	return len(callbacks) > 0
}

type fakeDeadline struct {
	clock *FakeClock
	end   time.Time
	cost  time.Duration
}

func (d *fakeDeadline) TimeRemaining() time.Duration {
	d.clock.Advance(d.cost)
	return max(d.end.Sub(d.clock.Now()), 0)
}
