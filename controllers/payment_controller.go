package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/security"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	signatureHeader = "X-Paystack-Signature"
	maxWebhookBody  = 1 << 20
)

type PaymentController struct {
	payments      *services.PaymentService
	webhookSecret string
}

func NewPaymentController(payments *services.PaymentService, webhookSecret string) *PaymentController {
	return &PaymentController{payments: payments, webhookSecret: webhookSecret}
}

// InitializePayment opens a checkout for a course or book
func (pc *PaymentController) InitializePayment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.InitializePaymentRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := pc.payments.Initialize(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Payment initialized", res)
}

// VerifyPayment confirms the charge with the provider and grants the item
func (pc *PaymentController) VerifyPayment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	payment, err := pc.payments.Verify(c.Request().Context(), userID, c.Param("reference"))
	if errors.Is(err, services.ErrPaymentNotSuccessful) && payment != nil && payment.Status == models.PaymentPending {
		return respond(c, http.StatusAccepted, "Payment is still being processed", payment)
	}
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Payment verified successfully", payment)
}

func (pc *PaymentController) GetPayment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	payment, err := pc.payments.GetPayment(c.Request().Context(), userID, c.Param("reference"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Payment retrieved successfully", payment)
}

func (pc *PaymentController) ListMyPayments(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	payments, err := pc.payments.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Payments retrieved successfully", payments)
}

// Webhook receives provider events. The body must carry a valid HMAC
// signature. Business failures are acknowledged so the provider stops
// retrying; infrastructure failures are not.
func (pc *PaymentController) Webhook(c echo.Context) error {
	if !security.ValidateContentType(c.Request().Header.Get(echo.HeaderContentType)) {
		return respond(c, http.StatusUnsupportedMediaType, "Unsupported content type", nil)
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return badRequest(c, "Unable to read request body")
	}
	if !security.VerifyPaystackSignature(pc.webhookSecret, body, c.Request().Header.Get(signatureHeader)) {
		logger.Log.Warn("rejected webhook with bad signature", zap.String("ip", c.RealIP()))
		return respondError(c, services.ErrInvalidSignature)
	}

	var event models.PaystackWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return badRequest(c, errInvalidBody.Error())
	}

	if err := pc.payments.HandleWebhook(c.Request().Context(), event); err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			return respondError(c, err)
		}
		logger.Log.Info("webhook acknowledged with business error",
			zap.String("reference", event.Data.Reference), zap.Error(err))
	}
	return respond(c, http.StatusOK, "ok", nil)
}

func (pc *PaymentController) AdminListPayments(c echo.Context) error {
	payments, err := pc.payments.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Payments retrieved successfully", payments)
}

// GrantPurchase records a course purchase made outside the checkout
func (pc *PaymentController) GrantPurchase(c echo.Context) error {
	var req models.ManualPurchaseRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	purchase, err := pc.payments.GrantManual(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Purchase recorded successfully", purchase)
}
