package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

type MentorshipController struct {
	mentorship *services.MentorshipService
}

func NewMentorshipController(mentorship *services.MentorshipService) *MentorshipController {
	return &MentorshipController{mentorship: mentorship}
}

func (mc *MentorshipController) Apply(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.MentorshipRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	app, err := mc.mentorship.Apply(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Application submitted successfully", app)
}

func (mc *MentorshipController) ListMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	apps, err := mc.mentorship.ListMine(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Applications retrieved successfully", apps)
}

func (mc *MentorshipController) AdminList(c echo.Context) error {
	apps, err := mc.mentorship.ListAll(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Applications retrieved successfully", apps)
}

func (mc *MentorshipController) AdminSetStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.MentorshipStatusRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	app, err := mc.mentorship.SetStatus(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Application updated successfully", app)
}
