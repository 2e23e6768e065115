package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_PerClient(t *testing.T) {
	l := NewPerMinute(1, 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLimiter_EvictsIdleClients(t *testing.T) {
	l := New(1, 1, 50*time.Millisecond)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.Equal(t, 1, l.clients.ItemCount())

	time.Sleep(100 * time.Millisecond)
	l.clients.DeleteExpired()
	assert.Equal(t, 0, l.clients.ItemCount())

	assert.True(t, l.Allow("10.0.0.1"), "evicted client starts with a fresh bucket")
}

func TestMiddleware_IgnoresForwardingHeaders(t *testing.T) {
	l := NewPerMinute(1, 1)
	errs := apperrors.NewErrorHandler(logger.NewTestLogger(t))

	h := l.Middleware(errs)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for _, fwd := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodPost, "/voice-form", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestMiddleware_Rejects(t *testing.T) {
	l := NewPerMinute(1, 1)
	errs := apperrors.NewErrorHandler(logger.NewTestLogger(t))

	h := l.Middleware(errs)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/voice-form", nil)
	req.RemoteAddr = "192.0.2.7:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:1234"
	assert.Equal(t, "198.51.100.4", ClientIP(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", ClientIP(req))
}
