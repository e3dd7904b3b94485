// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireUserType checks if the authenticated user has one of the allowed user types
func RequireUserType(allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)

			if userType == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: user type not found",
				})
			}

			for _, allowedType := range allowedTypes {
				if userType == allowedType {
					return next(c)
				}
			}

			logger.Log.Warn("access denied",
				zap.String("path", c.Request().URL.Path),
				zap.String("userType", userType),
				zap.Strings("allowed", allowedTypes))
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
	}
}

// RequireAdmin allows admins and super admins
func RequireAdmin() echo.MiddlewareFunc {
	return RequireUserType(UserTypeAdmin, UserTypeSuperAdmin)
}
