package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/logger"
)

// settleTimeout bounds how long a ?wait request blocks for a screen to go idle.
const settleTimeout = 15 * time.Second

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondConflict sends a 409 Conflict response with a machine-readable code.
func respondConflict(c *gin.Context, code, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message, Code: code})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	logger.For(c.Request.Context()).WithError(err).Errorf("Internal error (%s)", context)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
// Use the specific helpers (respondBadRequest, respondNotFound, etc.) when possible.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondState sends a screen snapshot. Snapshots taken after the screen
// settled are final (200); others may still change (202).
func respondState(c *gin.Context, settled bool, data any) {
	status := http.StatusAccepted
	if settled {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

// --- Parameter Parsing ---

// wantsWait reports whether the caller asked to block until the screen is idle.
func wantsWait(c *gin.Context) bool {
	v := c.Query("wait")
	if v == "" {
		return false
	}
	wait, err := strconv.ParseBool(v)
	return err == nil && wait
}

type settler interface {
	Idle() bool
	Settle(ctx context.Context) error
}

// settle waits for a screen when ?wait is set; otherwise it only checks
// whether the screen is idle. It reports whether the snapshot that follows is
// final; ok is false when a response was already written.
func settle(c *gin.Context, s settler) (settled bool, ok bool) {
	if !wantsWait(c) {
		return s.Idle(), true
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), settleTimeout)
	defer cancel()

	if err := s.Settle(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			respondError(c, http.StatusGatewayTimeout, "screen did not settle in time")
			return false, false
		}
		respondInternalError(c, err, "settle")
		return false, false
	}
	return true, true
}

// errorString renders a state error for JSON.
func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
