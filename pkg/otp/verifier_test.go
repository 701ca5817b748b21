package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier("123456", 5*time.Minute, zap.NewNop())

	require.NoError(t, v.SendChallenge("+1234567890"))

	assert.False(t, v.Verify("+1234567890", "000000"), "wrong code must fail")
	assert.True(t, v.Verify("+1234567890", "123456"))
	assert.False(t, v.Verify("+1234567890", "123456"), "challenge is consumed on success")
}

func TestStaticVerifierUnknownPhone(t *testing.T) {
	v := NewStaticVerifier("123456", 5*time.Minute, zap.NewNop())
	assert.False(t, v.Verify("+199", "123456"))
}

func TestStaticVerifierExpiry(t *testing.T) {
	v := NewStaticVerifier("123456", -1*time.Second, zap.NewNop())
	require.NoError(t, v.SendChallenge("+1234567890"))
	assert.False(t, v.Verify("+1234567890", "123456"), "expired challenge must fail")
}
