package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type settlerFunc func(ctx context.Context) error

func (f settlerFunc) Idle() bool                       { return false }
func (f settlerFunc) Settle(ctx context.Context) error { return f(ctx) }

type idleScreen bool

func (i idleScreen) Idle() bool { return bool(i) }
func (i idleScreen) Settle(ctx context.Context) error {
	panic("settle must not block without ?wait")
}

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestWantsWait(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"/", false},
		{"/?wait=true", true},
		{"/?wait=1", true},
		{"/?wait=false", false},
		{"/?wait=soon", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			c, _ := testContext(tt.target)
			assert.Equal(t, tt.want, wantsWait(c))
		})
	}
}

func TestSettle_WithoutWait(t *testing.T) {
	c, w := testContext("/")
	called := false

	settled, ok := settle(c, settlerFunc(func(ctx context.Context) error {
		called = true
		return nil
	}))

	assert.False(t, settled)
	assert.True(t, ok)
	assert.False(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSettle_WithoutWaitReportsIdle(t *testing.T) {
	c, _ := testContext("/")
	settled, ok := settle(c, idleScreen(true))
	assert.True(t, settled)
	assert.True(t, ok)

	c, _ = testContext("/?wait=false")
	settled, ok = settle(c, idleScreen(false))
	assert.False(t, settled)
	assert.True(t, ok)
}

func TestSettle_Waits(t *testing.T) {
	c, _ := testContext("/?wait=true")

	settled, ok := settle(c, settlerFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}))

	assert.True(t, settled)
	assert.True(t, ok)
}

func TestSettle_Timeout(t *testing.T) {
	c, w := testContext("/?wait=true")

	_, ok := settle(c, settlerFunc(func(ctx context.Context) error {
		return context.DeadlineExceeded
	}))

	assert.False(t, ok)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestSettle_Failure(t *testing.T) {
	c, w := testContext("/?wait=true")

	_, ok := settle(c, settlerFunc(func(ctx context.Context) error {
		return errors.New("boom")
	}))

	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRespondState(t *testing.T) {
	c, w := testContext("/")
	respondState(c, false, gin.H{"a": 1})
	assert.Equal(t, http.StatusAccepted, w.Code)

	c, w = testContext("/")
	respondState(c, true, gin.H{"a": 1})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorString(t *testing.T) {
	assert.Empty(t, errorString(nil))
	assert.Equal(t, "boom", errorString(errors.New("boom")))
}

func TestRespondConflict(t *testing.T) {
	c, w := testContext("/")
	respondConflict(c, "busy", "try later")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"try later","code":"busy"}`, w.Body.String())
}
