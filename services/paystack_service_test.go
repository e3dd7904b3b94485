package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HSouheill/academy_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystackInitializeTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		var body models.PaystackInitializeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(19999), body.Amount)
		assert.Equal(t, "PAY-1", body.Reference)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","reference":"PAY-1"}}`))
	}))
	defer server.Close()

	svc := NewPaystackService(server.URL+"/", "sk_test_123", false)
	url, err := svc.InitializeTransaction(context.Background(), models.PaystackInitializeRequest{
		Email: "a@b.co", Amount: 19999, Reference: "PAY-1", Currency: "GHS",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", url)
}

func TestPaystackVerifyTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/PAY-2", r.URL.Path)
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","amount":5000,"currency":"GHS","channel":"mobile_money","paid_at":"2026-01-02T10:00:00.000Z"}}`))
	}))
	defer server.Close()

	svc := NewPaystackService(server.URL, "sk_test_123", true)
	res, err := svc.VerifyTransaction(context.Background(), "PAY-2")
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, int64(5000), res.Amount)
	assert.Equal(t, "GHS", res.Currency)
	assert.Equal(t, "mobile_money", res.Channel)
	assert.Equal(t, "PAY-2", res.Reference)
}

func TestPaystackErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	}))
	defer server.Close()

	_, err := NewPaystackService(server.URL, "sk_test_123", false).VerifyTransaction(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Transaction reference not found")

	_, err = NewPaystackService(server.URL, "", false).InitializeTransaction(context.Background(), models.PaystackInitializeRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYSTACK_SECRET_KEY")
}
