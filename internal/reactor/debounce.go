package reactor

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period applied to search input.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer forwards a value once input has been quiet for the delay, and
// skips it when it equals the last value forwarded.
type Debouncer[T comparable] struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func(T)
	timer   *time.Timer
	seq     uint64
	last    T
	hasLast bool
	stopped bool

	// pending is true from Push until that value is forwarded or dropped.
	// idle is closed whenever pending is false.
	pending bool
	idle    chan struct{}
}

func NewDebouncer[T comparable](delay time.Duration, emit func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	idle := make(chan struct{})
	close(idle)
	return &Debouncer[T]{delay: delay, emit: emit, idle: idle}
}

// Push records a new input value and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	if !d.pending {
		d.pending = true
		d.idle = make(chan struct{})
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq, v, false) })
}

// Flush forwards v right away, cancelling any pending value. Unlike a pushed
// value it is forwarded even when it equals the last one, and it becomes the
// value later pushes are compared with.
func (d *Debouncer[T]) Flush(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
	}
	seq := d.seq
	d.mu.Unlock()
	d.fire(seq, v, true)
}

// Pending reports whether a pushed value is still waiting to be forwarded.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Settle blocks until no pushed value is waiting. When it returns nil, the
// last value has already been handed to emit.
func (d *Debouncer[T]) Settle(ctx context.Context) error {
	for {
		d.mu.Lock()
		if !d.pending {
			d.mu.Unlock()
			return nil
		}
		idle := d.idle
		d.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop discards any pending value. Later pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.markIdle()
}

func (d *Debouncer[T]) fire(seq uint64, v T, force bool) {
	d.mu.Lock()
	if seq != d.seq || d.stopped {
		d.mu.Unlock()
		return
	}
	if !force && d.hasLast && d.last == v {
		d.markIdle()
		d.mu.Unlock()
		return
	}
	d.last = v
	d.hasLast = true
	d.mu.Unlock()

	d.emit(v)

	// Idle only after emit, so whatever emit started is visible to callers
	// of Settle. A newer Push keeps the debouncer pending.
	d.mu.Lock()
	if seq == d.seq {
		d.markIdle()
	}
	d.mu.Unlock()
}

// markIdle must be called with mu held.
func (d *Debouncer[T]) markIdle() {
	if d.pending {
		d.pending = false
		close(d.idle)
	}
}
