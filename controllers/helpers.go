package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	errInvalidBody  = errors.New("invalid request body")
	errInvalidToken = errors.New("invalid user ID in token")
)

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func badRequest(c echo.Context, message string) error {
	return respond(c, http.StatusBadRequest, message, nil)
}

// bindRequest binds and validates the JSON body into req
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

var (
	notFoundErrors = []error{
		services.ErrUserNotFound,
		services.ErrCourseNotFound,
		services.ErrBookNotFound,
		services.ErrPaymentNotFound,
		services.ErrWithdrawalNotFound,
		services.ErrAffiliateNotFound,
		services.ErrCouponNotFound,
		services.ErrNotFound,
	}
	conflictErrors = []error{
		services.ErrEmailTaken,
		services.ErrCouponExists,
		services.ErrAffiliateExists,
		services.ErrWithdrawalNotPending,
		services.ErrConcurrentUpdate,
		services.ErrLockTimeout,
	}
	badRequestErrors = []error{
		services.ErrInvalidReferralCode,
		services.ErrSelfReferral,
		services.ErrPendingWithdrawal,
		services.ErrNoPayoutDestination,
		services.ErrBelowMinimumWithdrawal,
		services.ErrAlreadyPurchased,
		services.ErrBookAlreadyOwned,
		services.ErrItemUnavailable,
		services.ErrInvalidCoupon,
		services.ErrPaymentNotSuccessful,
		services.ErrAmountMismatch,
		services.ErrPaymentFailed,
		services.ErrInvalidID,
		services.ErrInvalidInput,
		services.ErrInvalidResetCode,
	}
)

func errorIn(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, services.ErrProviderUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrMailUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errorIn(err, notFoundErrors):
		return http.StatusNotFound
	case errorIn(err, conflictErrors):
		return http.StatusConflict
	case errorIn(err, badRequestErrors):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Log.Error("request failed",
			zap.String("path", c.Request().URL.Path),
			zap.String("method", c.Request().Method),
			zap.Error(err))
		return respond(c, status, "Internal server error", nil)
	}
	return respond(c, status, err.Error(), nil)
}

func pathID(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, services.ErrInvalidID
	}
	return id, nil
}

func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	id, err := middleware.GetUserIDFromToken(c)
	if err != nil {
		return primitive.NilObjectID, errInvalidToken
	}
	return id, nil
}

// viewerID is the caller's id on routes where a token is optional
func viewerID(c echo.Context) *primitive.ObjectID {
	id, err := middleware.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

func unauthorized(c echo.Context, err error) error {
	return respond(c, http.StatusUnauthorized, err.Error(), nil)
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	if v, err := strconv.ParseInt(c.QueryParam(name), 10, 64); err == nil {
		return v
	}
	return fallback
}
