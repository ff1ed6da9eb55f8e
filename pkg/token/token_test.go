package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/accountd/pkg/token"
)

type intentPayload struct {
	ID   string `json:"id"`
	Tier string `json:"tier"`
	Flow string `json:"flow"`
}

func TestGenerateParse(t *testing.T) {
	t.Parallel()

	const secret = "intent-signing-secret"

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := intentPayload{ID: "abc", Tier: "professional", Flow: "immediate"}
		tok, err := token.Generate(in, secret)
		require.NoError(t, err)

		out, err := token.Parse[intentPayload](tok, secret)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		tok, err := token.Generate(intentPayload{ID: "abc"}, secret)
		require.NoError(t, err)

		_, err = token.Parse[intentPayload](tok, "other-secret")
		assert.ErrorIs(t, err, token.ErrSignatureInvalid)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		_, err := token.Parse[intentPayload]("no-dot-separator", secret)
		assert.ErrorIs(t, err, token.ErrInvalidToken)

		_, err = token.Parse[intentPayload]("a.b.c", secret)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}
