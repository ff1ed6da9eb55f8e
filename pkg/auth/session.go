package auth

// Session is the JSON session object served to the client. Active sessions
// carry the numeric id; provisional sessions omit it and carry the staged
// identity instead. An inactive account materializes as no session at all.
type Session struct {
	ID                *int64 `json:"id,omitempty"`
	PricingTier       string `json:"pricingTier,omitempty"`
	EmailVerified     *bool  `json:"emailVerified,omitempty"`
	NeedsRegistration bool   `json:"needsRegistration"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	Image             string `json:"image,omitempty"`
	GoogleID          string `json:"googleId,omitempty"`
	IsNewUser         bool   `json:"isNewUser,omitempty"`
}

// Materialize projects claims into the client-facing session shape. The
// returned claims may differ from the input: the one-time new-user flag is
// consumed on first materialization, and changed reports whether the caller
// needs to re-issue the token. A nil session with nil error means the claims
// carry no presentable session (anonymous, inactive, signed out).
func Materialize(c Claims) (*Session, Claims, bool) {
	switch c.State {
	case StateActive:
		r := *c.Resolved
		s := &Session{
			ID:            &r.UserID,
			PricingTier:   string(r.Tier),
			EmailVerified: &r.EmailVerified,
			IsNewUser:     r.IsNewUser,
		}
		if r.IsNewUser {
			r.IsNewUser = false
			next := c
			next.Resolved = &r
			return s, next, true
		}
		return s, c, false

	case StateProvisional:
		p := c.Pending
		s := &Session{
			NeedsRegistration: true,
			Email:             p.Email,
			Name:              p.Name,
			Image:             p.Image,
			GoogleID:          p.GoogleID,
			PricingTier:       string(p.Tier),
		}
		return s, c, false

	default:
		return nil, c, false
	}
}
