package utils

import (
	"crypto/rand"
	"encoding/base32"
	"regexp"
	"strings"
)

// ReferralType is the prefix of a referral code
type ReferralType string

const (
	UserType ReferralType = "USR"
)

var referralCodePattern = regexp.MustCompile(`^[A-Z]{2,4}-[A-Z0-9]{6}$`)

// GenerateReferralCode generates a referral code for the given prefix.
// Format: {TYPE}-{RANDOM} where RANDOM is 6 base32 characters, e.g. USR-ABC234
func GenerateReferralCode(entityType ReferralType) (string, error) {
	// 4 random bytes give 7 base32 characters
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	return string(entityType) + "-" + randomStr[:6], nil
}

// GenerateUserReferralCode generates a referral code for a regular user
func GenerateUserReferralCode() (string, error) {
	return GenerateReferralCode(UserType)
}

// NormalizeReferralCode trims and upper-cases a code typed by a user
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsReferralCode reports whether code has the referral code shape
func IsReferralCode(code string) bool {
	return referralCodePattern.MatchString(code)
}
