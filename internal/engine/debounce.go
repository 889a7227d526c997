package engine

import (
	"sync"
	"time"
)

// Timer is the stoppable handle a Clock hands back.
type Timer interface {
	Stop() bool
}

// Clock abstracts timer creation so debounce behavior is testable with a
// fake clock.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewRealClock returns a Clock backed by the runtime timers.
func NewRealClock() Clock {
	return realClock{}
}

// Debouncer coalesces bursts of triggers into one callback per quiet
// window. Mutations on job pages arrive in bursts; a single pending timer
// means one re-scan per burst instead of one per mutation.
type Debouncer struct {
	window time.Duration
	clock  Clock
	fn     func()
	mu     sync.Mutex
	timer  Timer
}

// NewDebouncer creates a debouncer that invokes fn once per quiet window.
func NewDebouncer(window time.Duration, clock Clock, fn func()) *Debouncer {
	return &Debouncer{
		window: window,
		clock:  clock,
		fn:     fn,
	}
}

// Trigger schedules the callback, resetting any pending timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		d.timer = nil
		d.mu.Unlock()
		d.fn()
	})
}

// Cancel drops any pending trigger.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
