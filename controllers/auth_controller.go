package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/middleware"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

// AuthController contains authentication logic
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates a learner account and signs it in
func (ac *AuthController) Register(c echo.Context) error {
	var req models.SignupRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := ac.auth.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "User registered successfully", res)
}

func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := ac.auth.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Login successful", res)
}

func (ac *AuthController) AdminLogin(c echo.Context) error {
	var req models.LoginRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := ac.auth.AdminLogin(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Login successful", res)
}

// CreateAdmin lets a super admin add another admin
func (ac *AuthController) CreateAdmin(c echo.Context) error {
	var req models.CreateAdminRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	admin, err := ac.auth.CreateAdmin(c.Request().Context(), middleware.ExtractUserType(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Admin created successfully", admin)
}

func (ac *AuthController) ListAdmins(c echo.Context) error {
	admins, err := ac.auth.ListAdmins(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Admins retrieved successfully", admins)
}
