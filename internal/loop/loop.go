// Package loop runs game work on a single goroutine.
//
// Repeating tasks and queued calls never interleave: each one runs to
// completion before the next starts, so state owned by a Loop needs no locks.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStopped is returned when work is submitted to a stopped Loop.
var ErrStopped = errors.New("loop stopped")

const callBuffer = 64

// Scheduler starts repeating tasks.
type Scheduler interface {
	// Every runs fn once per period until the returned Handle is cancelled.
	Every(period time.Duration, fn func()) Handle
}

// Handle cancels a repeating task. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Loop is a real-time Scheduler whose tasks and calls all run on the goroutine
// executing Run.
type Loop struct {
	calls  chan func()
	fired  chan *task
	stopCh chan struct{}
	done   chan struct{}

	stopOnce sync.Once

	mu    sync.Mutex
	tasks map[*task]struct{}
}

type task struct {
	loop      *Loop
	fn        func()
	quit      chan struct{}
	cancelled atomic.Bool
	once      sync.Once
}

// New creates a Loop. Call Run to start it.
func New() *Loop {
	return &Loop{
		calls:  make(chan func(), callBuffer),
		fired:  make(chan *task),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		tasks:  make(map[*task]struct{}),
	}
}

// Run executes queued calls and task ticks until ctx is done or Stop is
// called. All tasks are cancelled on return.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	defer l.cancelAll()

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.stopCh:
			return
		case fn := <-l.calls:
			fn()
		case t := <-l.fired:
			// a tick queued before Cancel must not run after it
			if !t.cancelled.Load() {
				t.fn()
			}
		}
	}
}

// Stop ends Run without waiting for it. Safe to call from any goroutine,
// including the loop itself, and more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Do queues fn to run on the loop goroutine. It reports false when the loop
// is stopped.
func (l *Loop) Do(fn func()) bool {
	select {
	case <-l.stopCh:
		return false
	default:
	}
	select {
	case l.calls <- fn:
		return true
	case <-l.stopCh:
		return false
	}
}

// Call runs fn on the loop goroutine and waits for it to finish.
// It must not be called from the loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Do(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Every implements Scheduler. Ticks are delivered to the loop goroutine.
func (l *Loop) Every(period time.Duration, fn func()) Handle {
	t := &task{
		loop: l,
		fn:   fn,
		quit: make(chan struct{}),
	}

	l.mu.Lock()
	l.tasks[t] = struct{}{}
	l.mu.Unlock()

	go l.tick(t, period)
	return t
}

// TaskCount returns the number of live repeating tasks.
func (l *Loop) TaskCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) tick(t *task, period time.Duration) {
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-t.quit:
			return
		case <-l.stopCh:
			return
		case <-ticker.C:
			select {
			case l.fired <- t:
			case <-t.quit:
				return
			case <-l.stopCh:
				return
			}
		}
	}
}

func (l *Loop) cancelAll() {
	l.mu.Lock()
	tasks := make([]*task, 0, len(l.tasks))
	for t := range l.tasks {
		tasks = append(tasks, t)
	}
	l.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}

func (t *task) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.quit)

		t.loop.mu.Lock()
		delete(t.loop.tasks, t)
		t.loop.mu.Unlock()
	})
}
