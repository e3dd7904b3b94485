package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var res models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrInvalidSignature, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrAccountDisabled, http.StatusForbidden},
		{services.ErrProviderUnavailable, http.StatusBadGateway},
		{services.ErrCourseNotFound, http.StatusNotFound},
		{services.ErrWithdrawalNotFound, http.StatusNotFound},
		{services.ErrEmailTaken, http.StatusConflict},
		{services.ErrWithdrawalNotPending, http.StatusConflict},
		{services.ErrLockTimeout, http.StatusConflict},
		{services.ErrAlreadyPurchased, http.StatusBadRequest},
		{services.ErrSelfReferral, http.StatusBadRequest},
		{services.ErrBelowMinimumWithdrawal, http.StatusBadRequest},
		{services.ErrPendingWithdrawal, http.StatusBadRequest},
		{fmt.Errorf("credit referral: %w", services.ErrInvalidInput), http.StatusBadRequest},
		{errors.New("mongo: connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, respondError(c, errors.New("dial tcp 10.0.0.1:27017: timeout")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	res := decodeResponse(t, rec)
	assert.Equal(t, "Internal server error", res.Message)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, respondError(c, services.ErrAlreadyPurchased))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.ErrAlreadyPurchased.Error(), decodeResponse(t, rec).Message)
}

func TestBindRequest(t *testing.T) {
	e := newTestEcho()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"email":"a@b.co","password":"password1","fullName":"Ama"}`, false},
		{"short password", `{"email":"a@b.co","password":"short","fullName":"Ama"}`, true},
		{"bad email", `{"email":"nope","password":"password1","fullName":"Ama"}`, true},
		{"malformed json", `{"email":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			c := e.NewContext(req, httptest.NewRecorder())

			var signup models.SignupRequest
			err := bindRequest(c, &signup)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPathIDAndQueryInt(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?page=3&limit=x", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-an-id")

	_, err := pathID(c, "id")
	assert.ErrorIs(t, err, services.ErrInvalidID)
	assert.Equal(t, int64(3), queryInt(c, "page", 1))
	assert.Equal(t, int64(20), queryInt(c, "limit", 20))

	assert.Nil(t, viewerID(c))
	_, err = currentUserID(c)
	assert.ErrorIs(t, err, errInvalidToken)
}
