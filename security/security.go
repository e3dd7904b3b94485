package security

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"mime"
	"strings"
)

// SignPayload returns the hex HMAC-SHA512 of body, the scheme the payment
// provider uses for the X-Paystack-Signature header
func SignPayload(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaystackSignature compares the header signature in constant time
func VerifyPaystackSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := SignPayload(secret, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// ValidateContentType ensures the request has the correct content type
func ValidateContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	validTypes := map[string]bool{
		"application/json":                  true,
		"application/x-www-form-urlencoded": true,
		"multipart/form-data":               true,
	}
	return validTypes[mediaType]
}
