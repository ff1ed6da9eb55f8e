package auth

import "context"

// Update field keys accepted by UserStore.UpdateFields. Keys map directly to
// users table columns; anything else is rejected with ErrUnknownField.
const (
	FieldGoogleID      = "google_id"
	FieldPicture       = "picture"
	FieldLastLoginAt   = "last_login_at"
	FieldTier          = "pricing_tier"
	FieldActive        = "active"
	FieldEmailVerified = "email_verified"
)

// Fields is a partial update keyed by column name.
type Fields map[string]any

// NewUser carries the column values for a first-time registration.
type NewUser struct {
	GoogleID      string
	Email         string
	Name          string
	GivenName     string
	FamilyName    string
	Picture       string
	EmailVerified bool
	Tier          Tier
}

// UserStore is the record store contract. Implementations never propagate
// driver-level connection failures: a failed connection surfaces as
// ErrStoreUnavailable so callers can degrade instead of erroring out the
// login. Lookup misses return ErrUserNotFound; unique-constraint conflicts
// on Create return ErrDuplicateEmail or ErrDuplicateGoogleID.
type UserStore interface {
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, nu NewUser) (*User, error)
	UpdateFields(ctx context.Context, id int64, fields Fields) error
}
