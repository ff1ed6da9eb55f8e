package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/accountd/pkg/token"
)

func TestRegistrationIntent(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := NewRegistrationIntent(FlowImmediate, TierProfessional, 15*time.Minute)
		raw, err := EncodeIntent(in, testSecret)
		require.NoError(t, err)

		out, err := DecodeIntent(raw, testSecret)
		require.NoError(t, err)
		assert.Equal(t, in.ID, out.ID)
		assert.Equal(t, FlowImmediate, out.Flow)
		assert.Equal(t, TierProfessional, out.Tier)
	})

	t.Run("unknown inputs normalize", func(t *testing.T) {
		t.Parallel()

		i := NewRegistrationIntent(Flow("weird"), Tier("enterprise"), time.Minute)
		assert.Equal(t, FlowDeferred, i.Flow)
		assert.Equal(t, TierDeveloper, i.Tier)
	})

	t.Run("expired intent is rejected", func(t *testing.T) {
		t.Parallel()

		i := NewRegistrationIntent(FlowImmediate, TierDeveloper, -time.Minute)
		raw, err := EncodeIntent(i, testSecret)
		require.NoError(t, err)

		_, err = DecodeIntent(raw, testSecret)
		require.ErrorIs(t, err, ErrIntentExpired)
	})

	t.Run("tampered intent is rejected", func(t *testing.T) {
		t.Parallel()

		i := NewRegistrationIntent(FlowImmediate, TierDeveloper, time.Minute)
		raw, err := EncodeIntent(i, testSecret)
		require.NoError(t, err)

		_, err = DecodeIntent(raw, "another-secret-also-32-bytes-long!!")
		require.ErrorIs(t, err, token.ErrSignatureInvalid)
	})
}
