package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HSouheill/academy_backend/security"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "sk_test_webhook"

func webhookRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	return req
}

func TestWebhook(t *testing.T) {
	pc := NewPaymentController(services.NewPaymentService(services.PaymentDeps{}), testWebhookSecret)
	ignored := `{"event":"transfer.success","data":{"reference":"TRF-1"}}`

	tests := []struct {
		name        string
		body        string
		signature   string
		contentType string
		wantStatus  int
	}{
		{"missing signature", ignored, "", "", http.StatusUnauthorized},
		{"wrong secret", ignored, security.SignPayload("another", []byte(ignored)), "", http.StatusUnauthorized},
		{"tampered body", ignored, security.SignPayload(testWebhookSecret, []byte(`{"event":"charge.success"}`)), "", http.StatusUnauthorized},
		{"signed but not json", `not json`, security.SignPayload(testWebhookSecret, []byte(`not json`)), "", http.StatusBadRequest},
		{"signed event of another type", ignored, security.SignPayload(testWebhookSecret, []byte(ignored)), "", http.StatusOK},
		{"plain text body", ignored, security.SignPayload(testWebhookSecret, []byte(ignored)), "text/plain", http.StatusUnsupportedMediaType},
		{"no content type", ignored, security.SignPayload(testWebhookSecret, []byte(ignored)), "none", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			rec := httptest.NewRecorder()
			req := webhookRequest(tt.body, tt.signature)
			switch tt.contentType {
			case "":
			case "none":
				req.Header.Del(echo.HeaderContentType)
			default:
				req.Header.Set(echo.HeaderContentType, tt.contentType)
			}
			c := e.NewContext(req, rec)

			require.NoError(t, pc.Webhook(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPaymentEndpointsRequireToken(t *testing.T) {
	pc := NewPaymentController(services.NewPaymentService(services.PaymentDeps{}), testWebhookSecret)
	e := newTestEcho()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/initialize", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	require.NoError(t, pc.InitializePayment(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, pc.ListMyPayments(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/payments", nil), rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
