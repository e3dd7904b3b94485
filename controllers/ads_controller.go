package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

type AdController struct {
	ads *services.AdService
}

func NewAdController(ads *services.AdService) *AdController {
	return &AdController{ads: ads}
}

// GetActiveAds returns ads currently inside their display window
func (ac *AdController) GetActiveAds(c echo.Context) error {
	ads, err := ac.ads.ListLive(c.Request().Context(), c.QueryParam("placement"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Ads retrieved successfully", ads)
}

func (ac *AdController) ListAds(c echo.Context) error {
	ads, err := ac.ads.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Ads retrieved successfully", ads)
}

func (ac *AdController) CreateAd(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.AdRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	ad, err := ac.ads.Create(c.Request().Context(), adminID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Ad created successfully", ad)
}

func (ac *AdController) UpdateAd(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.AdRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	ad, err := ac.ads.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Ad updated successfully", ad)
}

func (ac *AdController) DeleteAd(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := ac.ads.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Ad deleted successfully", nil)
}
