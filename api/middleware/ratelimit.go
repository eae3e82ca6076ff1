package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/use-agent/foxread/config"
	"github.com/use-agent/foxread/models"
)

const (
	sweepEvery = 5 * time.Minute
	idleAfter  = time.Hour
)

// buckets holds one token bucket per caller identity.
type buckets struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	entries map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newBuckets(cfg config.RateLimitConfig) *buckets {
	return &buckets{
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		entries: make(map[string]*bucket),
	}
}

func (b *buckets) allow(identity string, now time.Time) bool {
	b.mu.Lock()
	e, ok := b.entries[identity]
	if !ok {
		e = &bucket{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.entries[identity] = e
	}
	e.lastSeen = now
	b.mu.Unlock()
	return e.limiter.AllowN(now, 1)
}

// sweep drops identities idle since before cutoff.
func (b *buckets) sweep(cutoff time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, e := range b.entries {
		if e.lastSeen.Before(cutoff) {
			delete(b.entries, id)
		}
	}
}

// RateLimit returns per-identity token-bucket rate limiting. The identity
// is the API key accepted by Auth, or the client IP without auth.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	b := newBuckets(cfg)

	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for now := range ticker.C {
			b.sweep(now.Add(-idleAfter))
		}
	}()

	return func(c *gin.Context) {
		identity := c.GetString(identityKey)
		if identity == "" {
			identity = c.ClientIP()
		}
		if !b.allow(identity, time.Now()) {
			deny(c, http.StatusTooManyRequests, models.ErrCodeRateLimited,
				"rate limit exceeded, please slow down")
			return
		}
		c.Next()
	}
}
