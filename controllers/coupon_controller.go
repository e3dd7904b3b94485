package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

type CouponController struct {
	coupons *services.CouponService
}

func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{coupons: coupons}
}

// ValidateCoupon quotes the discount a code gives on an item
func (cc *CouponController) ValidateCoupon(c echo.Context) error {
	var req models.ValidateCouponRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	quote, err := cc.coupons.Quote(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Coupon applied", quote)
}

func (cc *CouponController) ListCoupons(c echo.Context) error {
	coupons, err := cc.coupons.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Coupons retrieved successfully", coupons)
}

func (cc *CouponController) CreateCoupon(c echo.Context) error {
	var req models.CouponRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	coupon, err := cc.coupons.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Coupon created successfully", coupon)
}

func (cc *CouponController) UpdateCoupon(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.CouponRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	coupon, err := cc.coupons.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Coupon updated successfully", coupon)
}

func (cc *CouponController) DeleteCoupon(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := cc.coupons.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Coupon deleted successfully", nil)
}
