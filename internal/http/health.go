package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Time      string            `json:"time"`
	Version   string            `json:"version,omitempty"`
	Sessions  int               `json:"sessions"`
	NextPrune *time.Time        `json:"next_prune,omitempty"`
	Checks    map[string]string `json:"checks"`
}

type HealthController struct {
	db       *database.Database
	sessions *SessionRegistry
	prune    NextRunner
	version  string
}

// NewHealthController builds the /health handler. db, sessions and prune may
// be nil.
func NewHealthController(db *database.Database, sessions *SessionRegistry, prune NextRunner, version string) *HealthController {
	return &HealthController{
		db:       db,
		sessions: sessions,
		prune:    prune,
		version:  version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Offline mode runs without a database
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}
	if h.sessions != nil {
		health.Sessions = h.sessions.Len()
	}
	if h.prune != nil {
		health.NextPrune = h.prune.NextRun()
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
