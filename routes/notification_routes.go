package routes

import (
	"github.com/HSouheill/academy_backend/controllers"
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterNotificationRoutes sets up in-app notification routes
func RegisterNotificationRoutes(e *echo.Echo, tokens *middleware.TokenIssuer, notificationController *controllers.NotificationController) {
	notifications := e.Group("/api/notifications", tokens.JWTMiddleware())
	notifications.GET("", notificationController.ListNotifications)
	notifications.PUT("/:id/read", notificationController.MarkRead)
}
