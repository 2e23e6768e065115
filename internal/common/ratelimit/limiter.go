package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	apperrors "loan-predictor/internal/common/errors"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused client bucket is kept.
const DefaultIdleTTL = 10 * time.Minute

// Limiter keeps one token bucket per client IP. Buckets idle for longer
// than the idle TTL are evicted.
type Limiter struct {
	clients *gocache.Cache
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
}

// NewPerMinute allows perMinute requests per client, with bursts up to burst.
func NewPerMinute(perMinute, burst int) *Limiter {
	return New(perMinute, burst, DefaultIdleTTL)
}

// New is NewPerMinute with an explicit idle TTL for client buckets.
func New(perMinute, burst int, idleTTL time.Duration) *Limiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Limiter{
		clients: gocache.New(idleTTL, idleTTL),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
	}
}

// Allow consumes one token for key, reporting false when none is left.
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Re-setting on every hit keeps active clients from expiring.
	if v, ok := l.clients.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.clients.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.clients.SetDefault(key, limiter)
	return limiter
}

// Middleware rejects over-limit requests with 429 before they reach next.
func (l *Limiter) Middleware(errs *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !l.Allow(ip) {
				errs.WriteError(w, r, apperrors.NewRateLimitedError(ip))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the host part of RemoteAddr. Forwarding headers are only
// honoured when chi's RealIP middleware has already rewritten RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
