package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateSecureOTP(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', code)
		}
	}
}

func TestOTPMatches(t *testing.T) {
	assert.True(t, OTPMatches("042913", "042913"))
	assert.True(t, OTPMatches("042913", " 042913 "))
	assert.False(t, OTPMatches("042913", "042914"))
	assert.False(t, OTPMatches("042913", "04291"))
	assert.False(t, OTPMatches("", ""))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a**@example.com", MaskEmail("ama@example.com"))
	assert.Equal(t, "*@example.com", MaskEmail("k@example.com"))
	assert.Equal(t, "not-an-email", MaskEmail("not-an-email"))
}
