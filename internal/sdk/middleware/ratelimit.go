package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nourabuild/contacts-service/internal/limiter"
	"github.com/nourabuild/contacts-service/internal/sdk/models"
)

// RateLimit guards routes with the given limiter. Keys combine the
// authenticated user (falling back to client IP) with the route template,
// so every route gets its own window per client.
func RateLimit(l limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientKey(c) + ":" + c.FullPath()

		ok, retryAfter, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			// A limiter outage must not take the API down with it.
			slog.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if !ok {
			seconds := int((retryAfter + time.Second - 1) / time.Second)
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": CodeRateLimited})
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if val, exists := c.Get(UserKey); exists {
		if user, ok := val.(models.User); ok {
			return "user:" + strconv.FormatInt(user.ID, 10)
		}
	}
	return "ip:" + c.ClientIP()
}
