package services

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalRateLimiter(limit int) *RateLimitService {
	return &RateLimitService{
		maxRequests: limit,
		windows:     make(map[string]*requestWindow),
		closed:      make(chan struct{}, 1),
	}
}

func TestIsAllowedLocalWindow(t *testing.T) {
	svc := newLocalRateLimiter(2)
	ctx := context.Background()

	allowed, info, err := svc.IsAllowed(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, info.Remaining)

	allowed, _, err = svc.IsAllowed(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, info, err = svc.IsAllowed(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	allowed, _, err = svc.IsAllowed(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestIsAllowedUnlimited(t *testing.T) {
	svc := newLocalRateLimiter(0)

	for i := 0; i < 5; i++ {
		allowed, info, err := svc.IsAllowed(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, -1, info.Remaining)
	}
	assert.Empty(t, svc.windows)
}

func TestLocalWindowResets(t *testing.T) {
	svc := newLocalRateLimiter(1)
	now := time.Now()

	count, resetAt := svc.incrementLocal("10.0.0.1", now)
	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(rateLimitWindow), resetAt)

	count, _ = svc.incrementLocal("10.0.0.1", now.Add(30*time.Second))
	assert.Equal(t, 2, count)

	count, _ = svc.incrementLocal("10.0.0.1", now.Add(rateLimitWindow))
	assert.Equal(t, 1, count)

	assert.Equal(t, 0, svc.cleanupExpired(now.Add(rateLimitWindow)))
	assert.Equal(t, 1, svc.cleanupExpired(now.Add(2*rateLimitWindow)))
	assert.Empty(t, svc.windows)
}

func TestIPRateLimitMiddleware(t *testing.T) {
	svc := newLocalRateLimiter(1)

	app := fiber.New()
	app.Use(svc.IPRateLimit())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.4")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
