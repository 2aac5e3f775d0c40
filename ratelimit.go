package jsonhttp

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitOption configures the RateLimit middleware.
type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	keyFunc func(r *http.Request) string
	onLimit http.HandlerFunc
	maxIdle time.Duration
	cleanup time.Duration
}

// WithRateLimitKey selects the partition key. The default keys by remote IP.
func WithRateLimitKey(fn func(r *http.Request) string) RateLimitOption {
	return func(cfg *rateLimitConfig) { cfg.keyFunc = fn }
}

// WithRateLimitHandler replaces the default 429 response.
func WithRateLimitHandler(h http.HandlerFunc) RateLimitOption {
	return func(cfg *rateLimitConfig) { cfg.onLimit = h }
}

// WithRateLimitIdle controls how long an idle client's bucket is kept and
// how often the store is pruned.
func WithRateLimitIdle(maxIdle, cleanupInterval time.Duration) RateLimitOption {
	return func(cfg *rateLimitConfig) {
		cfg.maxIdle = maxIdle
		cfg.cleanup = cleanupInterval
	}
}

// RateLimit returns middleware applying a per-client token bucket of rps
// requests per second with the given burst.
func RateLimit(rps float64, burst int, opts ...RateLimitOption) Middleware {
	cfg := rateLimitConfig{
		keyFunc: remoteIP,
		onLimit: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		},
		maxIdle: 5 * time.Minute,
		cleanup: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := &limiterStore{
		rps:     rps,
		burst:   burst,
		maxIdle: cfg.maxIdle,
		cleanup: cfg.cleanup,
		entries: make(map[string]*limiterEntry),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.allow(cfg.keyFunc(r)) {
				w.Header().Set("Retry-After", strconv.FormatFloat(1/rps, 'f', 0, 64))
				cfg.onLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// limiterStore keeps one token bucket per key, pruning idle entries on a
// lazy schedule so the map cannot grow without bound.
type limiterStore struct {
	mu          sync.Mutex
	rps         float64
	burst       int
	maxIdle     time.Duration
	cleanup     time.Duration
	lastCleanup time.Time
	entries     map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (s *limiterStore) allow(key string) bool {
	s.mu.Lock()
	now := time.Now()

	if now.Sub(s.lastCleanup) >= s.cleanup {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > s.maxIdle {
				delete(s.entries, k)
			}
		}
		s.lastCleanup = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	s.mu.Unlock()

	return e.limiter.Allow()
}
