package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// ProviderAdapter abstracts the OAuth identity provider: building the
// authorization URL and resolving an authorization code into a normalized
// profile.
type ProviderAdapter interface {
	ProviderID() string
	AuthURL(state string) string
	ResolveProfile(ctx context.Context, code string) (Profile, error)
}

// GenerateState returns a 32-byte random state value for CSRF protection.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
