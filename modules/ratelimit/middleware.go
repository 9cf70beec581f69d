package ratelimit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Middleware provides rate limiting middleware for Fiber.
type Middleware struct {
	limiter *Limiter
	limit   int
}

// NewMiddleware creates a new rate limiting middleware.
func NewMiddleware(limiter *Limiter, limit int) *Middleware {
	return &Middleware{
		limiter: limiter,
		limit:   limit,
	}
}

// ByIP returns middleware that limits requests by client IP. Limiter errors
// fail open: the request proceeds and the error is noted in a header, since
// a broken Redis must not take the API down with it.
func (m *Middleware) ByIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "FORBIDDEN",
				"message": "Unable to determine client IP address",
			})
		}

		result, err := m.limiter.Allow(c.Context(), ip)
		if err != nil {
			c.Set("X-RateLimit-Error", err.Error())
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			return rateLimitExceeded(c, result)
		}

		return c.Next()
	}
}

// rateLimitExceeded sends a 429 Too Many Requests response.
func rateLimitExceeded(c *fiber.Ctx, result *Result) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set("Retry-After", strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       "RATE_LIMITED",
		"message":     "Rate limit exceeded",
		"retry_after": retryAfter,
	})
}
