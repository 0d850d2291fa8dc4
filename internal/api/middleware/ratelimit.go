package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zkvote/voting-system/internal/api/metrics"
)

// Limiter abstracts the fixed-window counter (Redis in production).
type Limiter interface {
	Allow(ctx context.Context, caller string) (bool, error)
}

// RateLimit applies a fixed-window limit keyed by client IP. When the counter
// store is unreachable the request is let through: availability of voting
// beats strictness of throttling.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("ip", c.RealIP()).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
