package http

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookshelf/internal/screens"
)

// ErrTooManySessions is returned when the registry is full.
var ErrTooManySessions = errors.New("too many open sessions")

// DefaultMaxSessions caps concurrently open sessions.
const DefaultMaxSessions = 256

// SessionFactory opens a session bound to ctx.
type SessionFactory func(ctx context.Context) *screens.Session

// SessionRegistry holds the sessions opened over the API, keyed by session ID.
// Sessions outlive the request that created them, so they are bound to the
// registry's context instead.
type SessionRegistry struct {
	ctx     context.Context
	factory SessionFactory
	limit   int

	mu       sync.RWMutex
	sessions map[string]*screens.Session
}

func NewSessionRegistry(ctx context.Context, factory SessionFactory, limit int) *SessionRegistry {
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	return &SessionRegistry{
		ctx:      ctx,
		factory:  factory,
		limit:    limit,
		sessions: make(map[string]*screens.Session),
	}
}

// Open creates and registers a new session.
func (r *SessionRegistry) Open() (*screens.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sessions) >= r.limit {
		return nil, ErrTooManySessions
	}
	session := r.factory(r.ctx)
	r.sessions[session.ID()] = session
	return session, nil
}

func (r *SessionRegistry) Get(id string) (*screens.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Close shuts a session down and forgets it. It reports whether the session existed.
func (r *SessionRegistry) Close(id string) bool {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		session.Close()
	}
	return ok
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll shuts every session down. Used on server shutdown.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*screens.Session)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	if len(sessions) > 0 {
		logrus.WithField("sessions", len(sessions)).Info("Closed open sessions")
	}
}
