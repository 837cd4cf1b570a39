package reactor

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

// Pool runs effects on a fixed set of worker goroutines shared by every Reactor.
type Pool struct {
	mu     sync.RWMutex
	wg     sync.WaitGroup
	jobs   chan func()
	closed bool
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p := &Pool{
		jobs: make(chan func(), workers),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit schedules job. It blocks while every worker is busy and the queue is
// full, and returns false once the pool is closed.
func (p *Pool) Submit(job func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.jobs <- job
	return true
}

// Close stops accepting work and waits for queued jobs to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("reactor effect panicked")
		}
	}()
	job()
}
