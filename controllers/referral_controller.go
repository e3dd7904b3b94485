package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/HSouheill/academy_backend/utils"
	"github.com/labstack/echo/v4"
)

type ReferralController struct {
	referrals     *services.ReferralService
	minWithdrawal float64
}

func NewReferralController(referrals *services.ReferralService, minWithdrawal float64) *ReferralController {
	return &ReferralController{referrals: referrals, minWithdrawal: minWithdrawal}
}

// GetReferralData returns the code, link, balance and credit history
func (rc *ReferralController) GetReferralData(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	data, err := rc.referrals.Data(c.Request().Context(), userID, rc.minWithdrawal)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Referral data retrieved successfully", data)
}

// GetReferralQRCode returns the referral link as a PNG, or as a data URI
// when ?format=json
func (rc *ReferralController) GetReferralQRCode(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	png, err := rc.referrals.QRCode(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if c.QueryParam("format") == "json" {
		return respond(c, http.StatusOK, "QR code generated successfully", map[string]string{
			"qrCode": utils.PNGDataURI(png),
		})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// ValidateReferralCode checks that a code exists and is not the caller's own
func (rc *ReferralController) ValidateReferralCode(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.ReferralRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	referrer, err := rc.referrals.ResolveReferrer(c.Request().Context(), req.ReferralCode, userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Referral code is valid", map[string]interface{}{
		"valid":        true,
		"referralCode": referrer.ReferralCode,
		"referrerName": referrer.FullName,
	})
}
