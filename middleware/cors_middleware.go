// middleware/cors_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// devOrigins are the local frontends allowed outside production
var devOrigins = []string{
	"http://localhost:3000", // Next dev server
	"http://localhost:5173", // Vite dev server
}

// GlobalCORS allows the configured frontends to call the API with bearer
// tokens. The payment webhook is server to server and needs no CORS.
func GlobalCORS(origins []string, development bool) echo.MiddlewareFunc {
	allowed := append([]string{}, origins...)
	if development {
		allowed = append(allowed, devOrigins...)
	}

	return echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/payments/webhook"
		},
		AllowOrigins: allowed,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, echo.HeaderXRequestedWith,
		},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})
}
