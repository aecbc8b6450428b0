package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit allows Max requests per client within Window. Tokens refill
// continuously, so a client that spent its budget regains one request every
// Window/Max.
type RateLimit struct {
	Window time.Duration
	Max    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client ip.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	idle     time.Duration
	mu       sync.Mutex
	visitors map[string]*visitor
	lastGC   time.Time
	clockNow func() time.Time
}

func NewRateLimiter(cfg RateLimit) *RateLimiter {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	burst := cfg.Max
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(burst) / window.Seconds()),
		burst:    burst,
		idle:     window,
		visitors: make(map[string]*visitor),
		clockNow: time.Now,
	}
}

func (r *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.RealIP()
		if !r.allow(id) {
			slog.InfoContext(
				c.Request().Context(), "rate limit exceeded",
				slog.String("client", id),
				slog.String("path", c.Path()),
				slog.String("module", "ratelimit"),
			)
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests, please try again later"})
		}
		return next(c)
	}
}

func (r *RateLimiter) allow(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clockNow()
	r.prune(now)

	v, ok := r.visitors[id]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[id] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// prune drops clients idle for a whole window; their bucket would be full again.
func (r *RateLimiter) prune(now time.Time) {
	if now.Sub(r.lastGC) < r.idle {
		return
	}
	r.lastGC = now
	for id, v := range r.visitors {
		if now.Sub(v.lastSeen) >= r.idle {
			delete(r.visitors, id)
		}
	}
}
