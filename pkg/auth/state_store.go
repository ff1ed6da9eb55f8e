package auth

import (
	"context"
	"time"
)

// StateStore holds one-time OAuth state payloads for CSRF protection. The
// payload carries the signed registration intent and the intended post-login
// destination across the provider round-trip.
type StateStore interface {
	// StoreState saves the payload under the state value for ttl.
	StoreState(ctx context.Context, state, payload string, ttl time.Duration) error
	// ConsumeState returns and deletes the payload; a second consume of the
	// same state fails with ErrStateNotFound.
	ConsumeState(ctx context.Context, state string) (string, error)
}
