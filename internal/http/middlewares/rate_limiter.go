package middlewares

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/worklog/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

type limitCounter interface {
	IncRateLimited(route string)
}

type RateLimiter struct {
	limiter ratelimit.Limiter
	metrics limitCounter
}

func NewRateLimiter(limiter ratelimit.Limiter) *RateLimiter {
	return &RateLimiter{limiter: limiter}
}

func (rl *RateLimiter) WithMetrics(metrics limitCounter) *RateLimiter {
	rl.metrics = metrics
	return rl
}

// RateLimiterMiddleware enforces the limit for a derived key. A limiter
// backend failure lets the request through.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		allowed, retry, err := rl.limiter.Allow(c.Request.Context(), c.FullPath()+"|"+key)
		if err != nil {
			slog.Default().WarnContext(c.Request.Context(), "rate_limiter_unavailable", "err", err)
			c.Next()
			return
		}

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.IncRateLimited(c.FullPath())
			}

			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(retry)))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many requests. Please try again shortly.",
				"code":      "rate_limited",
				"requestId": c.GetString(CtxRequestID),
			})
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// gin's ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
