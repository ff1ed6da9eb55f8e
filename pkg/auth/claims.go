package auth

import "time"

// State is the session token's lifecycle state.
type State string

const (
	// StateAnonymous is the zero state: no token, or a token that carries
	// no identity at all.
	StateAnonymous State = "anonymous"
	// StateProvisional marks an authenticated visitor whose registration
	// has not completed yet.
	StateProvisional State = "provisional"
	// StateActive marks a fully resolved identity in good standing.
	StateActive State = "active"
	// StateInactive marks a resolved but disabled account.
	StateInactive State = "inactive"
	// StateSignedOut is terminal; the handler discards the token.
	StateSignedOut State = "signed_out"
)

// ResolvedIdentity is carried only while the claims are StateActive.
type ResolvedIdentity struct {
	UserID        int64
	Tier          Tier
	EmailVerified bool
	IsNewUser     bool // one-time flag, consumed by Materialize
}

// PendingIdentity is carried only while the claims are StateProvisional.
type PendingIdentity struct {
	GoogleID string
	Email    string
	Name     string
	Image    string
	Tier     Tier // staged plan, not yet committed
}

// Claims is the in-memory form of the session token: a tagged union with
// exactly one identity variant per state, so a token can never carry
// resolved and provisional fields at the same time. Construct through the
// New* helpers; the codec rejects wire forms that violate the invariant.
type Claims struct {
	State     State
	Resolved  *ResolvedIdentity
	Pending   *PendingIdentity
	ErrorCode string

	// ExpiresAt is the absolute expiry fixed when the token is first
	// issued; zero means the codec stamps a fresh lifetime on encode.
	ExpiresAt time.Time
}

// Label implements statemachine.Labeler.
func (c Claims) Label() string {
	return string(c.State)
}

// Anonymous returns the zero claims for a visitor without a token.
func Anonymous() Claims {
	return Claims{State: StateAnonymous}
}

// NewProvisional builds provisional claims carrying the pending identity.
func NewProvisional(p PendingIdentity) Claims {
	if !p.Tier.Valid() {
		p.Tier = TierDeveloper
	}
	return Claims{State: StateProvisional, Pending: &p}
}

// NewActive builds active claims carrying the resolved identity.
func NewActive(r ResolvedIdentity) Claims {
	return Claims{State: StateActive, Resolved: &r}
}

// NewInactive builds the inactive marker claims.
func NewInactive() Claims {
	return Claims{State: StateInactive}
}

// SignedOut returns the terminal claims; callers discard the token.
func SignedOut() Claims {
	return Claims{State: StateSignedOut}
}

// Validate checks the one-variant-per-state invariant.
func (c Claims) Validate() error {
	switch c.State {
	case StateActive:
		if c.Resolved == nil || c.Pending != nil {
			return ErrClaimsInvalid
		}
	case StateProvisional:
		if c.Pending == nil || c.Resolved != nil {
			return ErrClaimsInvalid
		}
	case StateAnonymous, StateInactive, StateSignedOut:
		if c.Resolved != nil || c.Pending != nil {
			return ErrClaimsInvalid
		}
	default:
		return ErrClaimsInvalid
	}
	return nil
}
