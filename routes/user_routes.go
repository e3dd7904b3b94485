package routes

import (
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterUserRoutes sets up the learner account routes
func RegisterUserRoutes(e *echo.Echo, tokens *middleware.TokenIssuer, ctrl *Controllers) {
	users := e.Group("/api/users", tokens.JWTMiddleware(), middleware.RequireUserType(middleware.UserTypeUser))
	users.GET("/profile", ctrl.User.GetProfile)
	users.PUT("/profile", ctrl.User.UpdateProfile)
	users.PUT("/momo", ctrl.User.UpdateMomoDetails)
	users.PUT("/fcm-token", ctrl.User.UpdateFCMToken)
	users.GET("/library", ctrl.User.GetLibrary)

	mentorship := e.Group("/api/mentorship", tokens.JWTMiddleware(), middleware.RequireUserType(middleware.UserTypeUser))
	mentorship.POST("/apply", ctrl.Mentorship.Apply)
	mentorship.GET("/applications", ctrl.Mentorship.ListMine)
}
