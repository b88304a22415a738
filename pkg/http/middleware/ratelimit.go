package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a client identified by key may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimit rejects requests over the per-client budget with 429.
// Paths listed in skip (exact match or prefix ending in "/") bypass the check.
func RateLimit(limiter Allower, skip ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, s := range skip {
				if path == s || (strings.HasSuffix(s, "/") && strings.HasPrefix(path, s)) {
					return next(c)
				}
			}
			if !limiter.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": http.StatusText(http.StatusTooManyRequests),
				})
			}
			return next(c)
		}
	}
}
