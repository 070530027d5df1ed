package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/utils"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ips   map[string]*rate.Limiter
	mu    sync.Mutex
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limit: limit,
		burst: burst,
		ips:   make(map[string]*rate.Limiter),
	}
}

// NewStrictRateLimiter is meant for login and registration: five attempts a minute.
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(rate.Every(time.Minute/5), 5)
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.ips[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.ips[ip] = l
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, errors.New("too many requests, please slow down"))
			c.Abort()
			return
		}
		c.Next()
	}
}
