package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/marks/internal/utils"
)

type RateLimitConfig struct {
	Burst         int
	PerMin        int // tokens refilled per caller per minute
	MaxEntries    int
	SweepInterval time.Duration
	IdleTTL       time.Duration
	TrustProxy    bool // resolve IP from proxy headers when true
	// KeyByUser buckets authenticated requests per user instead of per IP.
	KeyByUser bool
}

type caller struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type limiter struct {
	cfg RateLimitConfig

	mu        sync.Mutex
	callers   map[string]*caller
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	cfg.Burst = max(cfg.Burst, 1)
	cfg.PerMin = max(cfg.PerMin, 1)
	return &limiter{
		cfg:       cfg,
		callers:   make(map[string]*caller, 256),
		lastSweep: time.Now(),
	}
}

func (l *limiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval ||
		(l.cfg.MaxEntries > 0 && len(l.callers) >= l.cfg.MaxEntries) {
		for k, c := range l.callers {
			if now.Sub(c.lastSeen) > l.cfg.IdleTTL {
				delete(l.callers, k)
			}
		}
		l.lastSweep = now
	}

	c := l.callers[key]
	if c == nil {
		every := time.Minute / time.Duration(l.cfg.PerMin)
		c = &caller{lim: rate.NewLimiter(rate.Every(every), l.cfg.Burst)}
		l.callers[key] = c
	}
	c.lastSeen = now
	return c.lim
}

// allow consumes one token for key. When none is available it returns the
// whole seconds until one is.
func (l *limiter) allow(key string, now time.Time) (ok bool, remaining int, retryAfter int) {
	lim := l.get(key, now)

	res := lim.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, 0, max(int(math.Ceil(delay.Seconds())), 1)
	}
	return true, max(int(lim.TokensAt(now)), 0), 0
}

func (l *limiter) key(r *http.Request) string {
	if l.cfg.KeyByUser {
		if u := User(r.Context()); u != "" {
			return "user:" + u
		}
		if u := r.Header.Get(UserHeader); u != "" {
			return "user:" + u
		}
	}
	return "ip:" + utils.ClientIP(r, l.cfg.TrustProxy)
}

// RateLimit is a per-caller token bucket. Rejected requests get 429 with
// Retry-After.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limitStr := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, retry := l.allow(l.key(r), time.Now())

			w.Header().Set("X-RateLimit-Limit", limitStr)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeTooMany(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooMany(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
}
