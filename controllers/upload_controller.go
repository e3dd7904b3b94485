package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

type UploadController struct {
	storage *services.StorageService
}

func NewUploadController(storage *services.StorageService) *UploadController {
	return &UploadController{storage: storage}
}

// PresignUpload returns a short-lived URL the admin UI uploads to directly
func (uc *UploadController) PresignUpload(c echo.Context) error {
	var req models.PresignUploadRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	upload, err := uc.storage.PresignUpload(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Upload URL generated", upload)
}
