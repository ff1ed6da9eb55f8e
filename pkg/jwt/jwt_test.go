package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/accountd/pkg/jwt"
)

type sessionClaims struct {
	jwt.StandardClaims
	UserID int64  `json:"userId,omitempty"`
	Tier   string `json:"pricingTier,omitempty"`
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := jwt.New(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	svc, err := jwt.NewFromString("test-secret-key-at-least-32-bytes!!")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("test-secret-key-at-least-32-bytes!!")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := sessionClaims{
			StandardClaims: jwt.StandardClaims{
				Subject:   "42",
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
			},
			UserID: 42,
			Tier:   "professional",
		}

		token, err := svc.Generate(in)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var out sessionClaims
		require.NoError(t, svc.Parse(token, &out))
		assert.Equal(t, in, out)
	})

	t.Run("nil claims rejected", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Generate(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingClaims)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(sessionClaims{
			StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
		})
		require.NoError(t, err)

		var out sessionClaims
		assert.ErrorIs(t, svc.Parse(token, &out), jwt.ErrExpiredToken)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(sessionClaims{UserID: 42})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		parts[1] = parts[1][:len(parts[1])-2] + "xx"
		tampered := strings.Join(parts, ".")

		var out sessionClaims
		assert.ErrorIs(t, svc.Parse(tampered, &out), jwt.ErrInvalidSignature)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(sessionClaims{UserID: 42})
		require.NoError(t, err)

		other, err := jwt.NewFromString("another-secret-key-with-enough-len!")
		require.NoError(t, err)

		var out sessionClaims
		assert.ErrorIs(t, other.Parse(token, &out), jwt.ErrInvalidSignature)
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		t.Parallel()

		var out sessionClaims
		assert.ErrorIs(t, svc.Parse("not-a-token", &out), jwt.ErrInvalidToken)
	})
}
