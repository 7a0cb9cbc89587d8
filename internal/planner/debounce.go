package planner

import (
	"sync"
	"time"
)

// Debouncer holds the latest pushed value as pending and commits it once no
// newer value has arrived for the quiet period.
//
// Commits are serialized: a timer commit that has already taken its value
// finishes before any Flush, Resolve or Cancel proceeds.
type Debouncer[T any] struct {
	quiet  time.Duration
	commit func(T)

	// commitMu is held across taking a value and committing it. Lock order: commitMu, then mu.
	commitMu sync.Mutex

	mu         sync.Mutex
	timer      *time.Timer
	pending    T
	hasPending bool
	gen        uint64
}

// NewDebouncer returns a Debouncer calling commit after quiet. A non-positive
// quiet period commits every push immediately.
func NewDebouncer[T any](quiet time.Duration, commit func(T)) *Debouncer[T] {
	return &Debouncer[T]{quiet: quiet, commit: commit}
}

func (d *Debouncer[T]) Push(v T) {
	if d.quiet <= 0 {
		d.Resolve(func(T, bool) { d.commit(v) })
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = v
	d.hasPending = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.commitMu.Lock()
	defer d.commitMu.Unlock()

	d.mu.Lock()
	if gen != d.gen || !d.hasPending {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.mu.Unlock()
	d.commit(v)
}

// Flush commits the pending value now. It reports whether one was pending.
func (d *Debouncer[T]) Flush() bool {
	flushed := false
	d.Resolve(func(v T, ok bool) {
		if ok {
			d.commit(v)
			flushed = true
		}
	})
	return flushed
}

// Resolve drops the pending value and hands it to fn, which runs in commit
// order: after any in-flight timer commit and before the next one.
func (d *Debouncer[T]) Resolve(fn func(pending T, ok bool)) {
	d.commitMu.Lock()
	defer d.commitMu.Unlock()

	d.mu.Lock()
	ok := d.hasPending
	v := d.take()
	d.mu.Unlock()
	fn(v, ok)
}

// Cancel drops the pending value without committing it.
func (d *Debouncer[T]) Cancel() {
	d.Resolve(func(T, bool) {})
}

// Pending returns the value waiting to be committed.
func (d *Debouncer[T]) Pending() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.hasPending
}

// take clears the pending state and invalidates any armed timer. d.mu must be held.
func (d *Debouncer[T]) take() T {
	v := d.pending
	var zero T
	d.pending = zero
	d.hasPending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return v
}
