package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/campuswatch/campuswatch/pkg/metrics"
)

// Config for one token bucket scope.
type Config struct {
	// Rate is the sustained number of requests allowed per second.
	Rate float64
	// Burst is the bucket size.
	Burst int
	// CleanupInterval is how often stale buckets are swept.
	CleanupInterval time.Duration
	// MaxAge is how long a bucket survives after its last request.
	MaxAge time.Duration
}

// PublicConfig limits anonymous traffic on the statistics endpoints.
// Tracked per IP.
func PublicConfig() Config {
	return Config{
		Rate:            10,
		Burst:           30,
		CleanupInterval: time.Minute,
		MaxAge:          5 * time.Minute,
	}
}

// WorkflowConfig limits the authenticated case and complaint
// endpoints. Tracked per user identity, so shared campus NATs do not
// starve each other.
func WorkflowConfig() Config {
	return Config{
		Rate:            25,
		Burst:           50,
		CleanupInterval: time.Minute,
		MaxAge:          10 * time.Minute,
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key (IP or user identity) and
// sweeps idle buckets in the background.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     Config
	done    chan struct{}
}

func New(cfg Config) *Limiter {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 5 * time.Minute
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
		done:    make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow reports whether a request under the given key may proceed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

// Stop ends the background sweep.
func (l *Limiter) Stop() {
	close(l.done)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-l.cfg.MaxAge)
			for key, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func throttled(c *gin.Context, scope string) {
	metrics.RequestsThrottled.WithLabelValues(scope).Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "too many requests, slow down",
	})
}

// PerIP returns a middleware limiting by client IP. Meant for the
// public endpoints, ahead of authentication.
func (l *Limiter) PerIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			throttled(c, "ip")
			return
		}
		c.Next()
	}
}

// PerUser returns a middleware limiting by the user identity the auth
// middleware put into the context. Requests without one fall back to
// the client IP. Must run after authentication.
func (l *Limiter) PerUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("user_id")
		scope := "user"
		if key == "" {
			key = c.ClientIP()
			scope = "ip"
		}
		if !l.Allow(key) {
			throttled(c, scope)
			return
		}
		c.Next()
	}
}
