package service

import (
	"sync"
	"time"
)

// Debouncer runs the most recent of a burst of calls once the burst has been
// quiet for its delay. Each Trigger takes a new token; a timer only runs its
// function while its token is still current, so a replaced timer that already
// fired is a no-op.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	token uint64
	timer *time.Timer
}

// NewDebouncer creates a Debouncer. A non-positive delay runs calls on the
// next timer tick.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: max(delay, 0)}
}

// Trigger schedules fn, cancelling any call still pending.
// Returns true when a pending call was replaced.
func (d *Debouncer) Trigger(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := d.timer != nil
	if replaced {
		d.timer.Stop()
	}
	d.token++
	token := d.token
	d.timer = time.AfterFunc(d.delay, func() { d.fire(token, fn) })
	return replaced
}

// Cancel drops the pending call, if any. Returns true when one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.token++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether a call is scheduled and has not started.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) fire(token uint64, fn func()) {
	d.mu.Lock()
	if token != d.token {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	fn()
}
