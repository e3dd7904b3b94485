package routes

import (
	"github.com/HSouheill/academy_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterAuthRoutes sets up the public authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, passwordController *controllers.PasswordController) {
	e.POST("/api/auth/register", authController.Register)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/forgot-password", passwordController.ForgotPassword)
	e.POST("/api/auth/reset-password", passwordController.ResetPassword)
	// Admin login is handled in admin_routes.go
}
