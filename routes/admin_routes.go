package routes

import (
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterAdminRoutes sets up all admin-related routes
func RegisterAdminRoutes(e *echo.Echo, tokens *middleware.TokenIssuer, ctrl *Controllers) {
	// Public routes (no auth required)
	e.POST("/api/admin/login", ctrl.Auth.AdminLogin)

	// The live feed reads its token from the query string
	e.GET("/api/admin/ws", ctrl.Notification.AdminFeed, tokens.QueryJWTMiddleware(), middleware.RequireAdmin())

	admin := e.Group("/api/admin", tokens.JWTMiddleware(), middleware.RequireAdmin())

	// Super-admin protected routes
	admin.POST("/admins", ctrl.Auth.CreateAdmin, middleware.RequireUserType(middleware.UserTypeSuperAdmin))
	admin.GET("/admins", ctrl.Auth.ListAdmins)

	admin.GET("/users", ctrl.User.ListUsers)

	admin.GET("/courses", ctrl.Course.AdminListCourses)
	admin.POST("/courses", ctrl.Course.CreateCourse)
	admin.PUT("/courses/:id", ctrl.Course.UpdateCourse)
	admin.PUT("/courses/:id/publish", ctrl.Course.PublishCourse)
	admin.PUT("/courses/:id/unpublish", ctrl.Course.UnpublishCourse)
	admin.DELETE("/courses/:id", ctrl.Course.DeleteCourse)

	admin.POST("/courses/:id/modules", ctrl.Course.AddModule)
	admin.PUT("/modules/:moduleId", ctrl.Course.UpdateModule)
	admin.DELETE("/modules/:moduleId", ctrl.Course.DeleteModule)
	admin.POST("/courses/:id/sections", ctrl.Course.AddSection)
	admin.PUT("/sections/:sectionId", ctrl.Course.UpdateSection)
	admin.DELETE("/sections/:sectionId", ctrl.Course.DeleteSection)
	admin.POST("/courses/:id/lessons", ctrl.Course.AddLesson)
	admin.PUT("/lessons/:lessonId", ctrl.Course.UpdateLesson)
	admin.DELETE("/lessons/:lessonId", ctrl.Course.DeleteLesson)

	admin.GET("/books", ctrl.Book.AdminListBooks)
	admin.POST("/books", ctrl.Book.CreateBook)
	admin.PUT("/books/:id", ctrl.Book.UpdateBook)
	admin.DELETE("/books/:id", ctrl.Book.DeleteBook)

	admin.GET("/ads", ctrl.Ad.ListAds)
	admin.POST("/ads", ctrl.Ad.CreateAd)
	admin.PUT("/ads/:id", ctrl.Ad.UpdateAd)
	admin.DELETE("/ads/:id", ctrl.Ad.DeleteAd)

	admin.GET("/coupons", ctrl.Coupon.ListCoupons)
	admin.POST("/coupons", ctrl.Coupon.CreateCoupon)
	admin.PUT("/coupons/:id", ctrl.Coupon.UpdateCoupon)
	admin.DELETE("/coupons/:id", ctrl.Coupon.DeleteCoupon)

	admin.GET("/mentorship", ctrl.Mentorship.AdminList)
	admin.PUT("/mentorship/:id", ctrl.Mentorship.AdminSetStatus)

	admin.GET("/payments", ctrl.Payment.AdminListPayments)
	admin.POST("/purchases", ctrl.Payment.GrantPurchase)

	admin.GET("/withdrawals", ctrl.Withdrawal.AdminListWithdrawals)
	admin.PUT("/withdrawals/:userId/:withdrawalId/approve", ctrl.Withdrawal.ApproveWithdrawal)
	admin.PUT("/withdrawals/:userId/:withdrawalId/reject", ctrl.Withdrawal.RejectWithdrawal)
	admin.PUT("/withdrawals/:userId/:withdrawalId/fail", ctrl.Withdrawal.FailWithdrawal)

	admin.GET("/affiliates", ctrl.Affiliate.AdminListAffiliates)
	admin.PUT("/affiliates/:id/status", ctrl.Affiliate.AdminSetStatus)

	admin.POST("/uploads/presign", ctrl.Upload.PresignUpload)
}
