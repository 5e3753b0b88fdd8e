package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
)

// RateLimit throttles callers using a per-minute counter in Redis. A
// caller already holding a well-formed browsing-session ID is limited
// per session, so shoppers behind a shared NAT do not exhaust each
// other's budget; everyone else is limited per client IP.
func RateLimit(cfg *config.Config, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", limitSubject(c))

		ctx := c.Request.Context()

		current, err := redisClient.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			// Redis being down must not take the storefront with it
			c.Next()
			return
		}

		if current >= cfg.Security.RateLimitPerMinute {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		pipe := redisClient.Pipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Minute)
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		remaining := cfg.Security.RateLimitPerMinute - int(incr.Val())
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Security.RateLimitPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}

// limitSubject picks the counter key: the session ID when the request
// carries a well-formed one, the client IP otherwise. Malformed IDs fall
// back to IP here; the session middleware rejects them later.
func limitSubject(c *gin.Context) string {
	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			sessionID = cookie
		}
	}
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err == nil {
			return "session:" + sessionID
		}
	}
	return "ip:" + c.ClientIP()
}
