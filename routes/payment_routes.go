package routes

import (
	"github.com/HSouheill/academy_backend/controllers"
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterPaymentRoutes sets up checkout, verification and the provider webhook
func RegisterPaymentRoutes(e *echo.Echo, tokens *middleware.TokenIssuer, paymentController *controllers.PaymentController) {
	// Signed by the provider, no bearer token
	e.POST("/api/payments/webhook", paymentController.Webhook)

	payments := e.Group("/api/payments", tokens.JWTMiddleware(), middleware.RequireUserType(middleware.UserTypeUser))
	payments.POST("/initialize", paymentController.InitializePayment)
	payments.GET("/verify/:reference", paymentController.VerifyPayment)
	payments.GET("", paymentController.ListMyPayments)
	payments.GET("/:reference", paymentController.GetPayment)
}
