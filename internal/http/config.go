package http

import (
	"time"

	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
)

// NextRunner reports when a scheduled job fires next, or nil when it is not
// scheduled.
type NextRunner interface {
	NextRun() *time.Time
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Open screen sessions
	Sessions *SessionRegistry

	// Nil in offline mode
	Database *database.Database

	// Recent-view retention job, reported by /health (optional)
	PruneSchedule NextRunner

	// Cover caching (optional)
	CoverCache *covers.Cache

	// Application info
	Version string
}
