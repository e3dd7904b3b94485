// controllers/password_controller.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
)

// PasswordController handles password reset functionality
type PasswordController struct {
	passwords *services.PasswordService
}

func NewPasswordController(passwords *services.PasswordService) *PasswordController {
	return &PasswordController{passwords: passwords}
}

// ForgotPassword emails a reset code when the account exists
func (pc *PasswordController) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := pc.passwords.ForgotPassword(c.Request().Context(), req); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "If an account exists for this email, a reset code has been sent", nil)
}

// ResetPassword sets a new password using the emailed code
func (pc *PasswordController) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := pc.passwords.ResetPassword(c.Request().Context(), req); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Password reset successfully", nil)
}
