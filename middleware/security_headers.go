// middleware/security_headers.go
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityConfig tunes SecurityHeadersWithConfig
type SecurityConfig struct {
	// HSTS is only sent when the API sits behind TLS
	HSTS bool
	// NoStorePrefixes are paths whose responses carry tokens or personal data
	NoStorePrefixes []string
}

var privatePrefixes = []string{
	"/api/auth",
	"/api/admin",
	"/api/users",
	"/api/payments",
	"/api/referrals",
	"/api/withdrawals",
	"/api/affiliates",
	"/api/notifications",
}

// SecurityHeaders applies the API defaults; JSON responses never need scripts
func SecurityHeaders(hsts bool) echo.MiddlewareFunc {
	return SecurityHeadersWithConfig(SecurityConfig{HSTS: hsts, NoStorePrefixes: privatePrefixes})
}

func SecurityHeadersWithConfig(config SecurityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cross-Origin-Resource-Policy", "same-site")
			if config.HSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			path := c.Request().URL.Path
			for _, prefix := range config.NoStorePrefixes {
				if strings.HasPrefix(path, prefix) {
					h.Set("Cache-Control", "no-store")
					break
				}
			}

			h.Del("Server")
			h.Del("X-Powered-By")
			return next(c)
		}
	}
}
