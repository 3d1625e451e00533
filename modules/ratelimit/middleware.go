package ratelimit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Middleware provides rate limiting middleware for Fiber.
type Middleware struct {
	ipLimiter   *SlidingWindowLimiter
	userLimiter *SlidingWindowLimiter
}

// NewMiddleware creates a new rate limiting middleware.
func NewMiddleware(client *redis.Client, config MiddlewareConfig) *Middleware {
	return &Middleware{
		ipLimiter:   NewSlidingWindowLimiter(client, config.IPConfig, config.KeyPrefix+"ip:"),
		userLimiter: NewSlidingWindowLimiter(client, config.UserConfig, config.KeyPrefix+"user:"),
	}
}

// IPRateLimit returns middleware that limits requests by client IP. Redis
// errors fail open: the request proceeds and the error is surfaced in a
// response header.
func (m *Middleware) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "Unable to determine client IP address",
			})
		}

		result, err := m.ipLimiter.Allow(c.Context(), ip)
		if err != nil {
			c.Set("X-RateLimit-Error", err.Error())
			return c.Next()
		}

		setRateLimitHeaders(c, result, m.ipLimiter.config.RequestsPerWindow)

		if !result.Allowed {
			return sendRateLimitExceeded(c, result)
		}

		return c.Next()
	}
}

// UserRateLimit returns middleware that limits requests by user ID, read from
// c.Locals("user_id"). Unauthenticated requests fall back to IP limiting.
func (m *Middleware) UserRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return m.IPRateLimit()(c)
		}

		result, err := m.userLimiter.Allow(c.Context(), userID)
		if err != nil {
			c.Set("X-RateLimit-Error", err.Error())
			return c.Next()
		}

		setRateLimitHeaders(c, result, m.userLimiter.config.RequestsPerWindow)

		if !result.Allowed {
			return sendRateLimitExceeded(c, result)
		}

		return c.Next()
	}
}

func setRateLimitHeaders(c *fiber.Ctx, result *Result, limit int) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func sendRateLimitExceeded(c *fiber.Ctx, result *Result) error {
	retryAfter := int(result.RetryAfter / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Set("Retry-After", strconv.Itoa(retryAfter))
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":   "rate_limit_exceeded",
		"message": "Too many requests, please try again later",
	})
}
