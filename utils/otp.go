// utils/otp.go
package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"
)

// GenerateSecureOTP returns a numeric code of the given length
func GenerateSecureOTP(length int) (string, error) {
	const digits = "0123456789"
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		result[i] = digits[num.Int64()]
	}
	return string(result), nil
}

// OTPMatches compares codes in constant time
func OTPMatches(expected, got string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(got))) == 1
}

// MaskEmail hides most of the local part, e.g. "ama@example.com" -> "a**@example.com"
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local := email[:at]
	if len(local) == 1 {
		return "*" + email[at:]
	}
	return local[:1] + strings.Repeat("*", len(local)-1) + email[at:]
}
