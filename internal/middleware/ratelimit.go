package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"salesdesk/internal/apperror"
	"salesdesk/internal/config"
	"salesdesk/internal/observability"
	"salesdesk/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = time.Minute

// RateLimiter keeps one token bucket per client IP. Buckets are dropped after
// a minute so the map does not grow with every address ever seen.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	mu       sync.Mutex
}

func NewRateLimiter(cfg config.SecurityConfig) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(cfg.RateLimitRPS),
		burst:    cfg.RateLimitBurst,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[ip] = limiter
		time.AfterFunc(limiterIdleTTL, func() {
			rl.mu.Lock()
			delete(rl.limiters, ip)
			rl.mu.Unlock()
		})
	}
	return limiter
}

func (rl *RateLimiter) Allow(ip string) bool {
	return rl.getLimiter(ip).Allow()
}

func RateLimit(limiter *RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			logger.Warn("rate limit exceeded",
				"ip", ip,
				"request_id", observability.GetRequestID(c.Request.Context()),
			)
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				response.Error(apperror.CodeRateLimit, "Too many requests"))
			return
		}
		c.Next()
	}
}
