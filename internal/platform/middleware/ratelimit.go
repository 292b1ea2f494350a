package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig is populated from RATE_LIMIT_RPS / RATE_LIMIT_BURST.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig is the fallback when the configured rate is unset
// or zero.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 100, BurstSize: 200}
}

// staleAfter is how long an untouched bucket survives before the sweeper
// drops it.
const staleAfter = 10 * time.Minute

// bucket is a token bucket refilled continuously at the configured rate.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	max      float64
	rate     float64
	lastFill time.Time
	lastSeen time.Time
}

func newBucket(cfg RateLimitConfig, now time.Time) *bucket {
	return &bucket{
		tokens:   float64(cfg.BurstSize),
		max:      float64(cfg.BurstSize),
		rate:     cfg.RequestsPerSecond,
		lastFill: now,
		lastSeen: now,
	}
}

func (b *bucket) take(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.lastFill).Seconds() * b.rate
	if b.tokens > b.max {
		b.tokens = b.max
	}
	b.lastFill = now
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// retryAfter estimates whole seconds until the next token is available.
func (b *bucket) retryAfter() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rate <= 0 {
		return 1
	}
	return int((1-b.tokens)/b.rate) + 1
}

// limiter keeps one bucket per caller and evicts buckets nothing has touched
// recently, so churning clients cannot grow the map without bound.
type limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	cfg       RateLimitConfig
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{
		buckets:   make(map[string]*bucket),
		cfg:       cfg,
		lastSweep: time.Now(),
	}
}

func (l *limiter) bucketFor(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > staleAfter {
		for k, b := range l.buckets {
			b.mu.Lock()
			stale := now.Sub(b.lastSeen) > staleAfter
			b.mu.Unlock()
			if stale {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(l.cfg, now)
		l.buckets[key] = b
	}
	return b
}

// RateLimit throttles per caller. The key is the client IP scoped by tenant,
// so one busy clinic cannot starve another behind the same proxy.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	l := newLimiter(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if tenant, ok := c.Get("tenant_id").(string); ok && tenant != "" {
				key = tenant + ":" + key
			}

			b := l.bucketFor(key, time.Now())
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)
			if !b.take(time.Now()) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(b.retryAfter()))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
