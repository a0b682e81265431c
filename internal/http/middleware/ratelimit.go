// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-memory token-bucket rate limiter
// (golang.org/x/time/rate) keyed by a caller identity. The router runs one
// limiter per client IP in front of everything and a second one keyed by the
// token subject behind authentication, so clients sharing an address do not
// starve each other on the point-of-interest routes.
//
// Buckets idle for longer than the TTL are swept at most once per TTL. The
// limiter is process-local; horizontally scaled deployments need a shared
// limiter in front of the service.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const defaultBucketTTL = 10 * time.Minute

// KeyFunc selects the identity used to key a rate-limit bucket.
type KeyFunc func(*gin.Context) string

// KeyByIP keys buckets by client IP.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
}

// KeyBySubjectOrIP prefers the token subject stored by Authenticate and falls
// back to the client IP. Keys are namespaced ("sub:..." / "ip:...").
func KeyBySubjectOrIP() KeyFunc {
	byIP := KeyByIP()
	return func(c *gin.Context) string {
		if s := c.GetString(userIDKey); s != "" {
			return "sub:" + s
		}
		return byIP(c)
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-key token-bucket limiter. Safe for concurrent use.
type RateLimiter struct {
	limit rate.Limit
	burst int
	keyFn KeyFunc

	exact    map[string]bool
	prefixes []string

	mu        sync.Mutex
	buckets   map[string]*bucket
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter builds a limiter refilling rps tokens per second into
// buckets of size burst. burst <= 0 is coerced to 1; rps 0 allows only the
// initial burst.
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		exact:   map[string]bool{},
		buckets: map[string]*bucket{},
		ttl:     defaultBucketTTL,
		now:     time.Now,
	}
}

// Exempt excludes request paths from limiting. A path ending in "/" exempts
// everything below it. It must be called before the limiter serves traffic.
func (rl *RateLimiter) Exempt(paths ...string) *RateLimiter {
	for _, p := range paths {
		if strings.HasSuffix(p, "/") {
			rl.prefixes = append(rl.prefixes, p)
		} else {
			rl.exact[p] = true
		}
	}
	return rl
}

func (rl *RateLimiter) exempted(path string) bool {
	if rl.exact[path] {
		return true
	}
	for _, p := range rl.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// limiterFor returns the bucket for key, creating it when absent.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.ttl {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.ttl {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	return lim
}

// Handler returns the Gin middleware. Denied requests get 429 with a
// Retry-After hint in whole seconds:
//
//	{"request_id": "<uuid>", "code": "rate_limited", "message": "rate limit exceeded"}
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.exempted(c.Request.URL.Path) {
			c.Next()
			return
		}

		res := rl.limiterFor(rl.keyFn(c)).ReserveN(rl.now(), 1)
		if !res.OK() {
			rl.deny(c, time.Second)
			return
		}
		if d := res.DelayFrom(rl.now()); d > 0 {
			res.Cancel()
			rl.deny(c, d)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) deny(c *gin.Context, wait time.Duration) {
	secs := int((wait + time.Second - 1) / time.Second)
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       "rate_limited",
		"message":    "rate limit exceeded",
	})
}
