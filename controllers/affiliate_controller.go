package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

type AffiliateController struct {
	affiliates *services.AffiliateService
}

func NewAffiliateController(affiliates *services.AffiliateService) *AffiliateController {
	return &AffiliateController{affiliates: affiliates}
}

func (ac *AffiliateController) Register(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.RegisterAffiliateRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	affiliate, err := ac.affiliates.Register(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Affiliate profile created", affiliate)
}

// GetStats returns tier, rate and progress towards the next tier
func (ac *AffiliateController) GetStats(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	stats, err := ac.affiliates.Stats(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Affiliate stats retrieved successfully", stats)
}

func (ac *AffiliateController) AdminListAffiliates(c echo.Context) error {
	list, err := ac.affiliates.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Affiliates retrieved successfully", list)
}

func (ac *AffiliateController) AdminSetStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.AffiliateStatusRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := ac.affiliates.SetStatus(c.Request().Context(), id, req.Status); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Affiliate status updated", map[string]string{"status": req.Status})
}
