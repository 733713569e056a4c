// Package idle provides an event loop offering idle-time slots, the native Go
// counterpart of a browser's requestIdleCallback.
package idle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	fibererrors "github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

var (
	// ErrLoopAlreadyRunning is returned when Run is called on a loop that is already running.
	ErrLoopAlreadyRunning = errors.New("idle: loop is already running")

	// ErrLoopTerminated is returned when tasks are posted to a loop that has stopped.
	ErrLoopTerminated = errors.New("idle: loop has been terminated")
)

// DefaultFrame is the frame length used when NewLoop is given a
// non-positive duration.
const DefaultFrame = 16 * time.Millisecond

// Loop runs posted tasks and idle callbacks on a single goroutine, the one
// calling Run. Each frame it first runs every posted task, then offers the
// rest of the frame to the idle callbacks requested so far. Callbacks
// requested during a frame run in the next one.
//
// Post and RequestIdleCallback are safe for concurrent use.
type Loop struct {
	frame time.Duration
	now   func() time.Time

	mu    sync.Mutex
	tasks []func()
	idle  []func(host.Deadline)
	wake  chan struct{}

	running    atomic.Bool
	terminated atomic.Bool
	frames     atomic.Uint64
}

var _ host.IdleScheduler = (*Loop)(nil)

// NewLoop returns a loop with the given frame length.
func NewLoop(frame time.Duration) *Loop {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Loop{
		frame: frame,
		now:   time.Now,
		wake:  make(chan struct{}, 1),
	}
}

// Post queues fn to run on the loop goroutine before the next idle slot.
func (l *Loop) Post(fn func()) error {
	if l.terminated.Load() {
		return ErrLoopTerminated
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.signal()
	return nil
}

// RequestIdleCallback implements host.IdleScheduler.
func (l *Loop) RequestIdleCallback(cb func(host.Deadline)) {
	l.mu.Lock()
	l.idle = append(l.idle, cb)
	l.mu.Unlock()
	l.signal()
}

// Frames returns the number of frames in which idle callbacks ran.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drives the loop until ctx is done and returns ctx.Err(). A loop runs
// once; after Run returns, Post fails with ErrLoopTerminated.
func (l *Loop) Run(ctx context.Context) error {
	if l.terminated.Load() {
		return ErrLoopTerminated
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopAlreadyRunning
	}
	defer func() {
		l.terminated.Store(true)
		l.running.Store(false)
	}()

	timer := time.NewTimer(l.frame)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := l.now()
		l.runTasks()

		l.mu.Lock()
		callbacks := l.idle
		l.idle = nil
		l.mu.Unlock()
		if len(callbacks) > 0 {
			l.frames.Add(1)
			d := &deadline{loop: l, end: start.Add(l.frame)}
			for _, cb := range callbacks {
				l.runIdle(cb, d)
			}
		}

		l.mu.Lock()
		hasTasks, hasIdle := len(l.tasks) > 0, len(l.idle) > 0
		l.mu.Unlock()
		switch {
		case hasTasks:
			continue
		case hasIdle:
			// Idle work waits for the next frame unless a task arrives.
			wait := l.frame - l.now().Sub(start)
			if wait <= 0 {
				continue
			}
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.wake:
			case <-timer.C:
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		default:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.wake:
			}
		}
	}
}

func (l *Loop) runTasks() {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()
	for _, fn := range tasks {
		l.runTask(fn)
	}
}

func (l *Loop) runTask(fn func()) {
	defer fibererrors.Recover("idle.task")
	fn()
}

func (l *Loop) runIdle(cb func(host.Deadline), d host.Deadline) {
	defer fibererrors.Recover("idle.callback")
	cb(d)
}

func (l *Loop) pendingTasks() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) > 0
}

// deadline ends at the frame boundary, or as soon as a task is posted so
// input is not starved by idle work.
type deadline struct {
	loop *Loop
	end  time.Time
}

func (d *deadline) TimeRemaining() time.Duration {
	if d.loop.pendingTasks() {
		return 0
	}
	return max(d.end.Sub(d.loop.now()), 0)
}
