package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

type UserController struct {
	users    *services.UserService
	payments *services.PaymentService
}

func NewUserController(users *services.UserService, payments *services.PaymentService) *UserController {
	return &UserController{users: users, payments: payments}
}

// GetProfile returns the authenticated user
func (uc *UserController) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	user, err := uc.users.Profile(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Profile retrieved successfully", user)
}

func (uc *UserController) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.UpdateProfileRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := uc.users.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Profile updated successfully", user)
}

// UpdateMomoDetails sets the mobile money account withdrawals are paid to
func (uc *UserController) UpdateMomoDetails(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.MomoDetails
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	momo, err := uc.users.SetMomoDetails(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Mobile money details updated", momo)
}

func (uc *UserController) UpdateFCMToken(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.FCMTokenRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := uc.users.SetFCMToken(c.Request().Context(), userID, req.Token); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "FCM token updated", nil)
}

// GetLibrary lists the courses and books the user owns
func (uc *UserController) GetLibrary(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	library, err := uc.payments.Library(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Library retrieved successfully", library)
}

// ListUsers is the admin user listing, paged with ?page=&limit=
func (uc *UserController) ListUsers(c echo.Context) error {
	users, err := uc.users.List(c.Request().Context(), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Users retrieved successfully", users)
}
