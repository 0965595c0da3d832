package ratelimiter

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key (the remote IP).
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clients map[string]*client
	mu      sync.Mutex
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	log     *slog.Logger
}

// New returns nil when rps is not positive; a nil RateLimiter lets every
// request through.
func New(rps float64, burst int, log *slog.Logger) *RateLimiter {
	if rps <= 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	rl := &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*client),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}

	go rl.cleanupLoop()

	return rl
}

// Allow consumes one token for key.
func (rl *RateLimiter) Allow(key string) bool {
	if rl == nil {
		return true
	}

	now := rl.now()

	rl.mu.Lock()
	c, exists := rl.clients[key]
	if !exists {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) Stop() {
	if rl == nil {
		return
	}
	rl.cancel()
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if rl.Allow(ip) {
				return next(c)
			}

			retryAfter := max(int(math.Ceil(1/float64(rl.limit))), 1)
			rl.log.WarnContext(c.Request().Context(), "Rate limiting request",
				"clientIP", ip,
				"path", c.Path(),
				"retryAfterSeconds", retryAfter)

			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))

			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
	}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle(rl.now())
		case <-rl.ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	evicted := 0
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(rl.clients, key)
			evicted++
		}
	}

	if evicted > 0 {
		rl.log.DebugContext(rl.ctx, "Evicted idle rate limit clients",
			"evicted", evicted,
			"remaining", len(rl.clients))
	}
}
