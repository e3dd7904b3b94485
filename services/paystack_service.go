package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"go.uber.org/zap"
)

// PaymentProvider is the hosted checkout used to collect payments
type PaymentProvider interface {
	InitializeTransaction(ctx context.Context, req models.PaystackInitializeRequest) (string, error)
	VerifyTransaction(ctx context.Context, reference string) (*models.TransactionResult, error)
}

// PaystackService handles interactions with the Paystack API
type PaystackService struct {
	baseURL string
	secret  string
	debug   bool
	client  *http.Client
}

// NewPaystackService creates a new Paystack client
func NewPaystackService(baseURL, secret string, debug bool) *PaystackService {
	if secret == "" {
		logger.Log.Warn("PAYSTACK_SECRET_KEY is missing, payment initialization will fail")
	}
	return &PaystackService{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		debug:   debug,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// makeRequest performs an HTTP request to the Paystack API
func (s *PaystackService) makeRequest(ctx context.Context, method, endpoint string, payload interface{}) (*models.PaystackResponse, error) {
	if s.secret == "" {
		return nil, fmt.Errorf("missing Paystack credentials, set PAYSTACK_SECRET_KEY")
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secret)
	req.Header.Set("Content-Type", "application/json")

	if s.debug {
		logger.Log.Debug("paystack request", zap.String("method", method), zap.String("endpoint", endpoint))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if s.debug {
		logger.Log.Debug("paystack response", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
	}

	var psResp models.PaystackResponse
	if err := json.Unmarshal(respBody, &psResp); err != nil {
		return nil, fmt.Errorf("failed to parse response (http %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 || !psResp.Status {
		return &psResp, fmt.Errorf("paystack API error (http %d): %s", resp.StatusCode, psResp.Message)
	}

	return &psResp, nil
}

// InitializeTransaction creates a hosted checkout and returns its URL
func (s *PaystackService) InitializeTransaction(ctx context.Context, req models.PaystackInitializeRequest) (string, error) {
	resp, err := s.makeRequest(ctx, http.MethodPost, "/transaction/initialize", req)
	if err != nil {
		return "", err
	}

	if authURL, ok := resp.Data["authorization_url"].(string); ok && authURL != "" {
		return authURL, nil
	}
	return "", fmt.Errorf("failed to parse authorization url from response")
}

// VerifyTransaction returns the provider's view of a transaction
func (s *PaystackService) VerifyTransaction(ctx context.Context, reference string) (*models.TransactionResult, error) {
	resp, err := s.makeRequest(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}

	result := &models.TransactionResult{Reference: reference}
	if v, ok := resp.Data["status"].(string); ok {
		result.Status = v
	}
	// JSON numbers decode as float64
	if v, ok := resp.Data["amount"].(float64); ok {
		result.Amount = int64(v)
	}
	if v, ok := resp.Data["currency"].(string); ok {
		result.Currency = v
	}
	if v, ok := resp.Data["channel"].(string); ok {
		result.Channel = v
	}
	if v, ok := resp.Data["paid_at"].(string); ok {
		result.PaidAt = v
	}
	return result, nil
}
