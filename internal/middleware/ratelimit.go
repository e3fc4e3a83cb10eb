package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = time.Minute

// RateLimit returns a middleware enforcing a fixed-window per-IP limit,
// used on the unauthenticated write endpoints (contact form, login,
// registration). Routes mount OptionalAuth ahead of it, so callers with
// a valid token are exempt. A nil client disables limiting, which keeps
// redis-less deployments working.
func RateLimit(rdb *redis.Client, max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		window := time.Now().Unix() / int64(rateLimitWindow.Seconds())
		key := fmt.Sprintf("quill:rate_limit:%s:%s:%d", c.FullPath(), ip, window)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not take the endpoint with it.
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > max {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
