package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Middleware builds per-IP rate limiting handlers sharing one Redis client.
type Middleware struct {
	client    redis.Scripter
	keyPrefix string
	logger    types.Logger
}

// NewMiddleware creates a Middleware. Keys are namespaced under keyPrefix.
func NewMiddleware(client redis.Scripter, keyPrefix string, logger types.Logger) *Middleware {
	return &Middleware{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Limiter returns the sliding window limiter behind scope. Handlers and
// limiters of the same scope share one window per key.
func (m *Middleware) Limiter(scope string, config Config) *SlidingWindowLimiter {
	return NewSlidingWindowLimiter(m.client, config, m.keyPrefix+scope+":")
}

// ByIP returns a handler limiting requests per client IP within scope.
// Each scope has its own window. Limiter errors let the request through.
func (m *Middleware) ByIP(scope string, config Config) fiber.Handler {
	limiter := m.Limiter(scope, config)

	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "Forbidden",
				"message": "Unable to determine client IP address",
			})
		}

		result, err := limiter.Allow(c.UserContext(), ip)
		if err != nil {
			m.logger.Warn("Rate limiter unavailable, allowing request", "scope", scope, "error", err)
			c.Set("X-RateLimit-Error", "unavailable")
			return c.Next()
		}

		setRateLimitHeaders(c, result, config.RequestsPerWindow)

		if !result.Allowed {
			m.logger.Info("Rate limit exceeded", "scope", scope, "ip", ip)
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
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set("Retry-After", strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       "Too Many Requests",
		"message":     fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
		"retry_after": retryAfter,
	})
}
