package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/job-leads/api/internal/config"
)

// RateLimiter applies a shared token bucket to every route it wraps.
// A zero config disables limiting.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	limiter := rate.NewLimiter(rate.Every(perRequest), cfg.Requests)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"status": "error", "message": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}

// Allower admits or refuses a unit of work.
type Allower interface {
	Allow() bool
}

// Debounce refuses requests while the allower's cooldown is active.
func Debounce(allower Allower) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allower.Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "Too many requests. Try again later."})
			}
			return next(c)
		}
	}
}
