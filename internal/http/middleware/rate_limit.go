package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

// DefaultRateLimitConfig limits each session and each IP to 120 action calls per minute.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 120,
		Window:      time.Minute,
		KeyPrefix:   "linkdash:ratelimit",
	}
}

// rateLimitKeys returns the buckets a request counts against. The IP bucket is
// always present so dropping the session cookie does not reset the limit.
func rateLimitKeys(prefix, sid, ip string) []string {
	keys := []string{prefix + ":ip:" + ip}
	if sid != "" {
		keys = append(keys, prefix+":session:"+sid)
	}
	return keys
}

// RateLimit counts requests per IP and per session in Redis.
func RateLimit(rdb redis.Cmdable, config RateLimitConfig, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var highest int64
		for _, key := range rateLimitKeys(config.KeyPrefix, SessionID(c), c.IP()) {
			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logger.Error("rate limit redis error", zap.Error(err))
				// Fail open while Redis is unavailable.
				return c.Next()
			}
			if count == 1 {
				rdb.Expire(ctx, key, config.Window)
			}
			highest = max(highest, count)
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, config.MaxRequests-int(highest))))

		if highest > int64(config.MaxRequests) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}

		return c.Next()
	}
}
