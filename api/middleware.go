package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// DefaultMaxBodyBytes caps request bodies accepted by the JSON binder
const DefaultMaxBodyBytes = 1 << 20

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Max-Age", "86400")

		// Preflight ends here
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestSizeLimit rejects bodies larger than maxBytes before they
// reach a handler's bind call
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// clientBucket is one client's token bucket within a route group
type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterPool tracks per-client token buckets for the route groups
// that rate-limit. Buckets are keyed by group name and client IP, so a
// client burning through the tight processing limit keeps its read
// allowance. Idle buckets are pruned in the background until Stop.
type RateLimiterPool struct {
	mu       sync.Mutex
	buckets  map[string]*clientBucket
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiterPool creates a pool and starts its prune loop
func NewRateLimiterPool() *RateLimiterPool {
	pool := &RateLimiterPool{
		buckets: make(map[string]*clientBucket),
		stop:    make(chan struct{}),
	}
	go pool.prune()
	return pool
}

// Middleware returns a handler enforcing rps/burst per client within
// the named group
func (p *RateLimiterPool) Middleware(group string, rps, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.allow(group+"|"+c.ClientIP(), rps, burst) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

func (p *RateLimiterPool) allow(key string, rps, burst int) bool {
	p.mu.Lock()
	bucket, ok := p.buckets[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
		p.buckets[key] = bucket
	}
	bucket.lastSeen = time.Now()
	p.mu.Unlock()

	return bucket.limiter.Allow()
}

// Stop ends the prune loop. Safe to call more than once.
func (p *RateLimiterPool) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

func (p *RateLimiterPool) prune() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			p.mu.Lock()
			for key, bucket := range p.buckets {
				if bucket.lastSeen.Before(cutoff) {
					delete(p.buckets, key)
				}
			}
			p.mu.Unlock()
		}
	}
}
