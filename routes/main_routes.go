package routes

import (
	"net/http"

	"github.com/HSouheill/academy_backend/controllers"
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/labstack/echo/v4"
)

// Controllers bundles every handler set the API exposes
type Controllers struct {
	Auth          *controllers.AuthController
	Password      *controllers.PasswordController
	User          *controllers.UserController
	Course        *controllers.CourseController
	Book          *controllers.BookController
	Payment       *controllers.PaymentController
	Referral      *controllers.ReferralController
	Withdrawal    *controllers.WithdrawalController
	Affiliate     *controllers.AffiliateController
	Coupon        *controllers.CouponController
	Ad            *controllers.AdController
	Mentorship    *controllers.MentorshipController
	Upload        *controllers.UploadController
	Notification  *controllers.NotificationController
	HealthChecker func() error
}

// SetupRoutes registers the health probes and every API route
func SetupRoutes(e *echo.Echo, tokens *middleware.TokenIssuer, ctrl *Controllers) {
	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Academy Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		if ctrl.HealthChecker != nil {
			if err := ctrl.HealthChecker(); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"status":   "unhealthy",
					"database": "disconnected",
				})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	RegisterAuthRoutes(e, ctrl.Auth, ctrl.Password)
	RegisterUserRoutes(e, tokens, ctrl)
	RegisterCatalogRoutes(e, tokens, ctrl)
	RegisterPaymentRoutes(e, tokens, ctrl.Payment)
	RegisterReferralRoutes(e, tokens, ctrl)
	RegisterNotificationRoutes(e, tokens, ctrl.Notification)
	RegisterAdminRoutes(e, tokens, ctrl)
}
