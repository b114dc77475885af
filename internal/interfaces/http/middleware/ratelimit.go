package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lrcatalog/mapper/internal/interfaces/http/dto"
)

// Rate limit response headers
const (
	HeaderRateLimit          = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// RateLimiter is a fixed window limiter keyed by client. Idle clients are
// swept on access, so no background goroutine is needed.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter allows limit requests per window for each key
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether a request from key fits in its current window
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	c, exists := rl.clients[key]
	if !exists || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &client{tokens: rl.limit - 1, lastReset: now}
		return true
	}
	if c.tokens > 0 {
		c.tokens--
		return true
	}
	return false
}

// Remaining returns the requests left for key in its current window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists || rl.now().Sub(c.lastReset) >= rl.window {
		return rl.limit
	}
	return c.tokens
}

// sweep drops clients idle for two windows; caller holds mu
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < 2*rl.window {
		return
	}
	for key, c := range rl.clients {
		if now.Sub(c.lastReset) > 2*rl.window {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// RateLimit rejects requests over the limiter's budget with 429, keyed by client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.Header(HeaderRateLimit, strconv.Itoa(limiter.limit))
			c.Header(HeaderRateLimitRemaining, "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests, please try again later",
				c.GetString(RequestIDKey),
			))
			return
		}

		c.Header(HeaderRateLimit, strconv.Itoa(limiter.limit))
		c.Header(HeaderRateLimitRemaining, strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
