package auth

import "time"

// Tier is the user's subscription plan.
type Tier string

const (
	TierDeveloper    Tier = "developer"
	TierProfessional Tier = "professional"
)

// Valid reports whether the tier is a known plan.
func (t Tier) Valid() bool {
	return t == TierDeveloper || t == TierProfessional
}

// ParseTier maps a raw string onto a known tier, defaulting to developer.
func ParseTier(s string) Tier {
	if t := Tier(s); t.Valid() {
		return t
	}
	return TierDeveloper
}

// Flow identifies the first-time signup path.
type Flow string

const (
	// FlowDeferred collects the plan choice after login.
	FlowDeferred Flow = "deferred"
	// FlowImmediate creates the user inline with a plan staged before the
	// provider redirect.
	FlowImmediate Flow = "immediate"
)

// User is the persisted account record.
type User struct {
	ID            int64
	GoogleID      string // empty until the provider is linked; never cleared once set
	Email         string
	Name          string
	GivenName     string
	FamilyName    string
	Picture       string
	EmailVerified bool
	Tier          Tier
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLoginAt   *time.Time
}

// Profile is the normalized identity returned by the OAuth provider.
type Profile struct {
	GoogleID      string
	Email         string
	EmailVerified bool
	Name          string
	GivenName     string
	FamilyName    string
	Picture       string
}
