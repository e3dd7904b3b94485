package routes

import (
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterReferralRoutes sets up referral, withdrawal and affiliate routes
func RegisterReferralRoutes(e *echo.Echo, tokens *middleware.TokenIssuer, ctrl *Controllers) {
	auth := []echo.MiddlewareFunc{tokens.JWTMiddleware(), middleware.RequireUserType(middleware.UserTypeUser)}

	referrals := e.Group("/api/referrals", auth...)
	referrals.GET("/data", ctrl.Referral.GetReferralData)
	referrals.GET("/qrcode", ctrl.Referral.GetReferralQRCode)
	referrals.POST("/validate", ctrl.Referral.ValidateReferralCode)

	withdrawals := e.Group("/api/withdrawals", auth...)
	withdrawals.POST("", ctrl.Withdrawal.RequestWithdrawal)
	withdrawals.GET("", ctrl.Withdrawal.ListMyWithdrawals)

	affiliates := e.Group("/api/affiliates", auth...)
	affiliates.POST("/register", ctrl.Affiliate.Register)
	affiliates.GET("/me", ctrl.Affiliate.GetStats)
}
