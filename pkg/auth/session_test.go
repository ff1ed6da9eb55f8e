package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize(t *testing.T) {
	t.Parallel()

	t.Run("active claims produce the full shape", func(t *testing.T) {
		t.Parallel()

		c := NewActive(ResolvedIdentity{UserID: 42, Tier: TierProfessional, EmailVerified: true})

		s, next, changed := Materialize(c)

		require.NotNil(t, s)
		require.NotNil(t, s.ID)
		assert.Equal(t, int64(42), *s.ID)
		assert.Equal(t, "professional", s.PricingTier)
		require.NotNil(t, s.EmailVerified)
		assert.True(t, *s.EmailVerified)
		assert.False(t, s.NeedsRegistration)
		assert.False(t, changed)
		assert.Equal(t, c, next)
	})

	t.Run("new-user flag is exposed exactly once", func(t *testing.T) {
		t.Parallel()

		c := NewActive(ResolvedIdentity{UserID: 42, Tier: TierDeveloper, IsNewUser: true})

		s, next, changed := Materialize(c)

		require.NotNil(t, s)
		assert.True(t, s.IsNewUser)
		assert.True(t, changed)
		assert.False(t, next.Resolved.IsNewUser)

		s2, _, changed2 := Materialize(next)
		assert.False(t, s2.IsNewUser)
		assert.False(t, changed2)
	})

	t.Run("provisional claims omit the id field entirely", func(t *testing.T) {
		t.Parallel()

		c := NewProvisional(PendingIdentity{
			GoogleID: "google-sub-42",
			Email:    "jane@example.com",
			Name:     "Jane Doe",
			Image:    "https://lh3.example/jane.jpg",
			Tier:     TierDeveloper,
		})

		s, _, changed := Materialize(c)

		require.NotNil(t, s)
		assert.True(t, s.NeedsRegistration)
		assert.False(t, changed)

		raw, err := json.Marshal(s)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		_, hasID := m["id"]
		assert.False(t, hasID, "provisional session must not carry an id key")
		assert.Equal(t, "jane@example.com", m["email"])
		assert.Equal(t, true, m["needsRegistration"])
	})

	t.Run("inactive claims produce no session", func(t *testing.T) {
		t.Parallel()

		s, _, changed := Materialize(NewInactive())
		assert.Nil(t, s)
		assert.False(t, changed)
	})

	t.Run("anonymous and signed-out produce no session", func(t *testing.T) {
		t.Parallel()

		for _, c := range []Claims{Anonymous(), SignedOut()} {
			s, _, _ := Materialize(c)
			assert.Nil(t, s)
		}
	})
}
