package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/screens"
)

func setupHealthTestDB(t *testing.T) *database.Database {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "health.db")
	db, err := database.NewDatabaseWithOptions(dbPath, database.Options{LogLevel: gormlogger.Silent})
	require.NoError(t, err)
	return db
}

func serveHealth(t *testing.T, controller *HealthController) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()

	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

type fixedNextRun struct{ next *time.Time }

func (f fixedNextRun) NextRun() *time.Time { return f.next }

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database is connected", func(t *testing.T) {
		db := setupHealthTestDB(t)
		defer db.Close()

		w, response := serveHealth(t, NewHealthController(db, nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.NotEmpty(t, response.Time)
	})

	t.Run("returns healthy when running offline", func(t *testing.T) {
		w, response := serveHealth(t, NewHealthController(nil, nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "not configured", response.Checks["database"])
	})

	t.Run("returns unhealthy when database connection is closed", func(t *testing.T) {
		db := setupHealthTestDB(t)
		require.NoError(t, db.Close())

		w, response := serveHealth(t, NewHealthController(db, nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "error")
	})

	t.Run("reports open sessions", func(t *testing.T) {
		registry := NewSessionRegistry(context.Background(), func(ctx context.Context) *screens.Session {
			t.Fatal("no session should be opened")
			return nil
		}, 0)

		_, response := serveHealth(t, NewHealthController(nil, registry, nil, "1.0.0"))
		assert.Equal(t, 0, response.Sessions)
		assert.Nil(t, response.NextPrune)
	})

	t.Run("reports the next prune", func(t *testing.T) {
		next := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
		_, response := serveHealth(t, NewHealthController(nil, nil, fixedNextRun{&next}, "1.0.0"))
		require.NotNil(t, response.NextPrune)
		assert.True(t, next.Equal(*response.NextPrune))
	})

	t.Run("omits an unscheduled prune", func(t *testing.T) {
		w, response := serveHealth(t, NewHealthController(nil, nil, fixedNextRun{}, "1.0.0"))
		assert.Nil(t, response.NextPrune)
		assert.NotContains(t, w.Body.String(), "next_prune")
	})
}
