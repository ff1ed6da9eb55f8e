package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/probelab/accountd/pkg/token"
)

// RegistrationIntent is the server-issued record of a signup choice staged
// before the provider redirect. It rides through the OAuth state round-trip
// as a signed compact token, so the immediate-registration path works across
// tabs and devices instead of relying on same-tab browser storage.
type RegistrationIntent struct {
	ID        string `json:"id"`
	Flow      Flow   `json:"flow"`
	Tier      Tier   `json:"tier"`
	ExpiresAt int64  `json:"exp"`
}

// NewRegistrationIntent stages a signup decision made before the redirect.
func NewRegistrationIntent(flow Flow, tier Tier, ttl time.Duration) RegistrationIntent {
	if !tier.Valid() {
		tier = TierDeveloper
	}
	if flow != FlowImmediate {
		flow = FlowDeferred
	}
	return RegistrationIntent{
		ID:        uuid.NewString(),
		Flow:      flow,
		Tier:      tier,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
}

// Expired reports whether the intent has passed its expiry.
func (i RegistrationIntent) Expired(now time.Time) bool {
	return i.ExpiresAt > 0 && now.Unix() > i.ExpiresAt
}

// EncodeIntent signs the intent into its compact wire form.
func EncodeIntent(i RegistrationIntent, secret string) (string, error) {
	return token.Generate(i, secret)
}

// DecodeIntent verifies and decodes an intent token. Expired intents return
// ErrIntentExpired so callers can fall back to the deferred flow.
func DecodeIntent(s, secret string) (*RegistrationIntent, error) {
	i, err := token.Parse[RegistrationIntent](s, secret)
	if err != nil {
		return nil, err
	}
	if i.Expired(time.Now()) {
		return nil, ErrIntentExpired
	}
	return &i, nil
}
