package security_test

import (
	"testing"
	"time"

	"shoptobd/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := security.NewBcryptHasher(4)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, h.Verify("s3cret", hash))
	assert.False(t, h.Verify("wrong", hash))

	_, err = h.Hash("")
	assert.Error(t, err)
}

func TestJWTIssuer(t *testing.T) {
	issuer := security.NewJWTIssuer("test-secret", "shoptobd", time.Hour)

	token, exp, err := issuer.Issue("c1b7d7a4-1f1e-4a39-9d59-5c0c0e9f8c11", "customer")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "c1b7d7a4-1f1e-4a39-9d59-5c0c0e9f8c11", claims.Subject)
	assert.Equal(t, "customer", claims.Role)

	t.Run("other secret", func(t *testing.T) {
		other := security.NewJWTIssuer("another-secret", "shoptobd", time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other := security.NewJWTIssuer("test-secret", "someone-else", time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := security.NewJWTIssuer("test-secret", "shoptobd", -time.Minute)
		expired, _, err := short.Issue("x", "admin")
		require.NoError(t, err)
		_, err = issuer.Parse(expired)
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})
}

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := security.GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.Regexp(t, `^[0-9]{6}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
