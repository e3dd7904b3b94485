package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/services"
	"github.com/HSouheill/academy_backend/websocket"
	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	notifications *services.NotificationService
	hub           *websocket.Hub
}

func NewNotificationController(notifications *services.NotificationService, hub *websocket.Hub) *NotificationController {
	return &NotificationController{notifications: notifications, hub: hub}
}

func (nc *NotificationController) ListNotifications(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	list, err := nc.notifications.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Notifications retrieved successfully", list)
}

func (nc *NotificationController) MarkRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := nc.notifications.MarkRead(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Notification marked as read", nil)
}

// AdminFeed upgrades to the admin live event websocket
func (nc *NotificationController) AdminFeed(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	return websocket.HandleWebSocket(c, nc.hub, adminID)
}
