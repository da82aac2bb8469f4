package security

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/lib/logger/sl"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "ratelimit"
	window    = time.Minute
)

// RateLimiter is a fixed one-minute window counter per client kept in Redis.
type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	logger *slog.Logger
	now    func() time.Time
}

func NewRateLimiter(redisClient *redis.Client, perMinute int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  int64(perMinute),
		logger: logger,
		now:    time.Now,
	}
}

func (r *RateLimiter) key(clientID string) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, clientID, r.now().Unix()/int64(window.Seconds()))
}

// Allow counts one request for clientID and reports whether it is within the
// limit, along with how many requests remain in the current window. The
// increment and the expiry run in one MULTI/EXEC so a counter never outlives
// its window without a TTL.
func (r *RateLimiter) Allow(ctx context.Context, clientID string) (bool, int64, error) {
	key := r.key(clientID)

	var incr *redis.IntCmd
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return true, 0, fmt.Errorf("rate limit counter: %w", err)
	}
	count := incr.Val()

	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= r.limit, remaining, nil
}

// Middleware rejects clients over the limit with 429. Redis failures let the
// request through.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, err := r.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			r.logger.Warn("rate limiter unavailable", sl.Err(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(r.limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, helpers.ErrorResponse("Too many requests"))
			return
		}
		c.Next()
	}
}
