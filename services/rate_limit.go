package services

import (
	"context"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
)

const RATE_LIMIT_SVC = "rate_limit_svc"

const (
	defaultAPIRateLimit = 600
	rateLimitWindow     = time.Minute
	rateLimitKeyPrefix  = "ratelimit:ip:"
)

// RateLimitService caps requests per client IP in fixed one-minute windows.
// Counters live in redis when it is configured and in process memory
// otherwise. It protects the transport only; per-account action limits are
// enforced by ThrottleService.
type RateLimitService struct {
	appContext.DefaultService

	maxRequests int
	redisSvc    *RedisService

	windows map[string]*requestWindow
	mutex   sync.Mutex
	closed  chan struct{}
}

type requestWindow struct {
	count   int
	resetAt time.Time
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.maxRequests = defaultAPIRateLimit
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		svc.maxRequests = limit
	}

	svc.windows = make(map[string]*requestWindow)
	svc.closed = make(chan struct{}, 1)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.redisSvc = redisSvc
	}

	go svc.startCleanupJob()
	return nil
}

func (svc *RateLimitService) Shutdown() {
	svc.closed <- struct{}{}
}

// ==================== CORE RATE LIMITING LOGIC ====================

func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier string) (bool, *dto.RateLimitInfo, error) {
	if svc.maxRequests <= 0 {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, nil
	}

	var (
		count   int
		resetAt time.Time
	)

	if svc.redisSvc.Enabled() {
		n, ttl, err := svc.redisSvc.IncrementWindow(ctx, rateLimitKeyPrefix+identifier, rateLimitWindow)
		if err != nil {
			return false, nil, err
		}
		if ttl < 0 {
			ttl = rateLimitWindow
		}
		count, resetAt = int(n), time.Now().Add(ttl)
	} else {
		count, resetAt = svc.incrementLocal(identifier, time.Now())
	}

	remaining := svc.maxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= svc.maxRequests, &dto.RateLimitInfo{
		Allowed:   count <= svc.maxRequests,
		Limit:     svc.maxRequests,
		Remaining: remaining,
		ResetTime: resetAt,
	}, nil
}

func (svc *RateLimitService) incrementLocal(identifier string, now time.Time) (int, time.Time) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	window, exists := svc.windows[identifier]
	if !exists || !now.Before(window.resetAt) {
		window = &requestWindow{resetAt: now.Add(rateLimitWindow)}
		svc.windows[identifier] = window
	}
	window.count++

	return window.count, window.resetAt
}

// ==================== MIDDLEWARE FUNCTIONS ====================

// IPRateLimit applies the per-IP request cap. A counter failure lets the
// request through.
func (svc *RateLimitService) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := getClientIP(c)

		allowed, info, err := svc.IsAllowed(c.UserContext(), ip)
		if err != nil {
			log.WithFields(log.Fields{
				"ip":    ip,
				"error": err.Error(),
			}).Warn("IP rate limit check failed")
			return c.Next()
		}

		svc.addRateLimitHeaders(c, info)

		if !allowed {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.", info)
		}

		return c.Next()
	}
}

// ==================== HELPER FUNCTIONS ====================

func (svc *RateLimitService) addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info.Remaining < 0 {
		return
	}

	c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))

	if !info.Allowed {
		retryAfter := int(time.Until(info.ResetTime).Seconds()) + 1
		c.Set("Retry-After", strconv.Itoa(retryAfter))
	}
}

func getClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(c.Context().RemoteAddr().String())
	if err != nil {
		return c.IP()
	}
	return ip
}

func (svc *RateLimitService) cleanupExpired(now time.Time) int {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	removed := 0
	for identifier, window := range svc.windows {
		if !now.Before(window.resetAt) {
			delete(svc.windows, identifier)
			removed++
		}
	}
	return removed
}

func (svc *RateLimitService) startCleanupJob() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := svc.cleanupExpired(time.Now()); removed > 0 {
				log.WithField("removed", removed).Debug("Expired rate limit windows cleaned up")
			}
		case <-svc.closed:
			return
		}
	}
}
