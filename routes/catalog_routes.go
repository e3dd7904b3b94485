package routes

import (
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterCatalogRoutes sets up the public course, book, ad and coupon routes.
// A bearer token is optional and unlocks owned content.
func RegisterCatalogRoutes(e *echo.Echo, tokens *middleware.TokenIssuer, ctrl *Controllers) {
	optional := tokens.OptionalJWT()

	e.GET("/api/courses", ctrl.Course.ListCourses)
	e.GET("/api/courses/:id", ctrl.Course.GetCourse, optional)

	e.GET("/api/books", ctrl.Book.ListBooks)
	e.GET("/api/books/:id", ctrl.Book.GetBook, optional)

	e.GET("/api/ads", ctrl.Ad.GetActiveAds)

	e.POST("/api/coupons/validate", ctrl.Coupon.ValidateCoupon, tokens.JWTMiddleware())
}
