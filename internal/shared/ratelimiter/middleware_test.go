package ratelimiter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiction_backend/internal/api"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// failingLimiter always returns an error, simulating an unreachable Redis.
type failingLimiter struct{ rule Rule }

func (f failingLimiter) Allow(context.Context, string) (Result, error) {
	return Result{}, errors.New("connection refused")
}
func (f failingLimiter) Rule() Rule { return f.rule }

func newTestRouter(l Limiter, hits *int) *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", Middleware("auth", l), func(c *gin.Context) {
		*hits++
		c.Status(http.StatusOK)
	})
	return r
}

func send(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_SixthAuthRequestIsRejected(t *testing.T) {
	hits := 0
	r := newTestRouter(NewMemoryLimiter(MustParseRule("5/15minutes")), &hits)

	for i := 0; i < 5; i++ {
		w := send(r, "10.0.0.1")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	}

	w := send(r, "10.0.0.1")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 5, hits, "handler must not run for rejected requests")
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Too Many Requests", body.Error)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", body.Message)
	require.NotNil(t, body.Detail)
	assert.Equal(t, "5 per 15 minute", *body.Detail)

	// a different client is unaffected
	assert.Equal(t, http.StatusOK, send(r, "10.0.0.2").Code)
}

func TestMiddleware_RedisBacked(t *testing.T) {
	_, rdb := newMiniredis(t)
	hits := 0
	r := newTestRouter(NewRedisLimiter(rdb, "ratelimit", MustParseRule("1/minute")), &hits)

	assert.Equal(t, http.StatusOK, send(r, "10.0.0.1").Code)
	w := send(r, "10.0.0.1")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, 1, hits)
}

func TestMiddleware_FailsOpen(t *testing.T) {
	hits := 0
	r := newTestRouter(failingLimiter{rule: MustParseRule("1/minute")}, &hits)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send(r, "10.0.0.1").Code)
	}
	assert.Equal(t, 3, hits)
}
