package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPaystackSignature(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"PAY-1"}}`)
	sig := SignPayload("sk_test", body)

	assert.Len(t, sig, 128)
	assert.True(t, VerifyPaystackSignature("sk_test", body, sig))
	assert.True(t, VerifyPaystackSignature("sk_test", body, " "+sig+" "))
	assert.False(t, VerifyPaystackSignature("sk_other", body, sig))
	assert.False(t, VerifyPaystackSignature("sk_test", []byte(`{}`), sig))
	assert.False(t, VerifyPaystackSignature("", body, sig))
	assert.False(t, VerifyPaystackSignature("sk_test", body, ""))
}

func TestValidateContentType(t *testing.T) {
	assert.True(t, ValidateContentType("application/json"))
	assert.True(t, ValidateContentType("application/json; charset=utf-8"))
	assert.False(t, ValidateContentType("text/plain"))
	assert.False(t, ValidateContentType(""))
}
