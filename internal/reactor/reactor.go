// Package reactor implements the Action -> Mutation -> State loop used by the screens.
//
// A Reactor owns its State on a single goroutine. Actions are turned into a
// Plan by the Behavior: mutations applied right away plus an optional Effect.
// Effects run on a shared Pool and hand their mutations back to the owning
// goroutine, so Reduce is never called concurrently and State needs no locks.
//
// # Usage
//
//	pool := reactor.NewPool(4)
//	r := reactor.New[Action, Mutation, State](ctx, "search", behavior, initial, pool)
//	defer r.Close()
//
//	r.Dispatch(Search{Query: "사피엔스"})
//	_ = r.Settle(ctx)
//	state := r.State()
package reactor

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookshelf/internal/metrics"
)

// Effect performs asynchronous work and returns the mutations to apply when it
// completes. ctx is cancelled when the Reactor closes.
type Effect[M any] func(ctx context.Context) []M

// Plan is what a single action turns into.
type Plan[M any] struct {
	// Mutations are reduced immediately, in order.
	Mutations []M
	// Effect, when set, runs on the pool after Mutations are applied.
	Effect Effect[M]
}

// Behavior defines a screen. Mutate must not block and both methods must treat
// state as immutable, returning a new value from Reduce.
type Behavior[A, M, S any] interface {
	Mutate(state S, action A) Plan[M]
	Reduce(state S, mutation M) S
}

// Filter is implemented by behaviors that discard outdated mutations.
// Accept is called right before Reduce; rejected mutations are counted as stale.
type Filter[M, S any] interface {
	Accept(state S, mutation M) bool
}

const subscriberBuffer = 16

type message[A, M any] struct {
	action    A
	mutations []M
	isAction  bool
}

// Reactor is the runtime for one Behavior instance.
type Reactor[A, M, S any] struct {
	name     string
	behavior Behavior[A, M, S]
	filter   Filter[M, S]
	pool     *Pool
	log      *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	queueMu sync.Mutex
	queue   []message[A, M]
	wake    chan struct{}
	done    chan struct{}

	mu        sync.RWMutex
	state     S
	subs      map[int]chan S
	nextSubID int
	pending   int
	idle      chan struct{}
	closed    bool
}

// New starts a Reactor with the given initial state. Effects run on pool and
// receive a context derived from parent, so values such as the session ID
// reach their logs.
func New[A, M, S any](parent context.Context, name string, behavior Behavior[A, M, S], initial S, pool *Pool) *Reactor[A, M, S] {
	ctx, cancel := context.WithCancel(parent)
	idle := make(chan struct{})
	close(idle)

	r := &Reactor[A, M, S]{
		name:     name,
		behavior: behavior,
		pool:     pool,
		log:      logrus.WithField("reactor", name),
		ctx:      ctx,
		cancel:   cancel,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		state:    initial,
		subs:     make(map[int]chan S),
		idle:     idle,
	}
	if f, ok := any(behavior).(Filter[M, S]); ok {
		r.filter = f
	}

	go r.loop()
	return r
}

// Dispatch queues an action. It never blocks; actions are processed in order.
// Actions dispatched after Close are dropped.
func (r *Reactor[A, M, S]) Dispatch(action A) {
	if !r.begin() {
		return
	}
	r.enqueue(message[A, M]{action: action, isAction: true})
}

// State returns the latest state snapshot.
func (r *Reactor[A, M, S]) State() S {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Subscribe streams state snapshots, starting with the current one. When the
// subscriber falls behind, the oldest undelivered snapshots are dropped.
// The channel is closed by cancel or by Close.
func (r *Reactor[A, M, S]) Subscribe() (<-chan S, func()) {
	ch := make(chan S, subscriberBuffer)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := r.nextSubID
	r.nextSubID++
	r.subs[id] = ch
	ch <- r.state
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if sub, ok := r.subs[id]; ok {
				delete(r.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Idle reports, without blocking, whether no actions are queued and no
// effects are running.
func (r *Reactor[A, M, S]) Idle() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pending == 0
}

// Settle blocks until no actions are queued and no effects are running.
func (r *Reactor[A, M, S]) Settle(ctx context.Context) error {
	for {
		r.mu.RLock()
		idle := r.idle
		r.mu.RUnlock()

		select {
		case <-idle:
			r.mu.RLock()
			quiet := r.pending == 0
			r.mu.RUnlock()
			if quiet {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels running effects, stops the owner goroutine and closes all
// subscriptions. It is safe to call more than once.
func (r *Reactor[A, M, S]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.pending > 0 {
		r.pending = 0
		close(r.idle)
	}
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
	r.mu.Unlock()

	r.cancel()
	close(r.done)
}

func (r *Reactor[A, M, S]) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	if r.pending == 0 {
		r.idle = make(chan struct{})
	}
	r.pending++
	return true
}

func (r *Reactor[A, M, S]) end() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.pending == 0 {
		return
	}
	r.pending--
	if r.pending == 0 {
		close(r.idle)
	}
}

func (r *Reactor[A, M, S]) enqueue(msg message[A, M]) {
	r.queueMu.Lock()
	r.queue = append(r.queue, msg)
	r.queueMu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Reactor[A, M, S]) loop() {
	for {
		select {
		case <-r.done:
			return
		case <-r.wake:
		}

		r.queueMu.Lock()
		batch := r.queue
		r.queue = nil
		r.queueMu.Unlock()

		for _, msg := range batch {
			select {
			case <-r.done:
				return
			default:
			}
			if msg.isAction {
				r.handleAction(msg.action)
			} else {
				r.apply(msg.mutations)
			}
			r.end()
		}
	}
}

func (r *Reactor[A, M, S]) handleAction(action A) {
	plan := r.behavior.Mutate(r.State(), action)
	r.apply(plan.Mutations)

	if plan.Effect == nil {
		return
	}
	if !r.begin() {
		return
	}
	effect := plan.Effect
	submitted := r.pool.Submit(func() {
		delivered := false
		defer func() {
			if !delivered {
				r.end()
			}
		}()

		mutations := effect(r.ctx)
		if r.ctx.Err() != nil {
			return
		}
		r.enqueue(message[A, M]{mutations: mutations})
		delivered = true
	})
	if !submitted {
		r.log.Warn("effect dropped, worker pool closed")
		r.end()
	}
}

func (r *Reactor[A, M, S]) apply(mutations []M) {
	if len(mutations) == 0 {
		return
	}

	state := r.State()
	changed := false
	for _, m := range mutations {
		if r.filter != nil && !r.filter.Accept(state, m) {
			metrics.ReactorStaleMutationsTotal.WithLabelValues(r.name).Inc()
			r.log.WithField("mutation", m).Debug("stale mutation dropped")
			continue
		}
		state = r.behavior.Reduce(state, m)
		metrics.ReactorMutationsTotal.WithLabelValues(r.name).Inc()
		changed = true
	}
	if !changed {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.state = state
	for _, ch := range r.subs {
		publish(ch, state)
	}
}

// publish delivers s without blocking, evicting the oldest snapshot when full.
// Only the owner goroutine sends, so the retry cannot race another sender.
func publish[S any](ch chan S, s S) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
