package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/probelab/accountd/pkg/jwt"
)

// wireClaims is the flat JWT claim set the browser carries. The in-memory
// tagged union flattens on encode and is reconstructed, with its invariant
// re-checked, on decode.
type wireClaims struct {
	jwt.StandardClaims

	UserID            int64  `json:"userId,omitempty"`
	PricingTier       string `json:"pricingTier,omitempty"`
	EmailVerified     bool   `json:"emailVerified,omitempty"`
	NeedsRegistration bool   `json:"needsRegistration"`
	GoogleID          string `json:"googleId,omitempty"`
	UserEmail         string `json:"userEmail,omitempty"`
	UserName          string `json:"userName,omitempty"`
	UserImage         string `json:"userImage,omitempty"`
	AccountInactive   bool   `json:"accountInactive,omitempty"`
	ErrorCode         string `json:"error,omitempty"`
	IsNewUser         bool   `json:"isNewUser,omitempty"`
}

// TokenCodec translates between session claims and their signed wire form.
type TokenCodec struct {
	svc         *jwt.Service
	issuer      string
	maxLifetime time.Duration
	now         func() time.Time
}

// TokenCodecOption configures a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithIssuer sets the iss claim stamped on encoded tokens.
func WithIssuer(iss string) TokenCodecOption {
	return func(c *TokenCodec) { c.issuer = iss }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec builds a codec signing with the given secret. maxLifetime is
// the absolute token lifetime stamped at first issue.
func NewTokenCodec(secret string, maxLifetime time.Duration, opts ...TokenCodecOption) (*TokenCodec, error) {
	svc, err := jwt.NewFromString(secret)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	c := &TokenCodec{
		svc:         svc,
		maxLifetime: maxLifetime,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encode signs the claims. A zero ExpiresAt means a fresh session: the codec
// stamps now+maxLifetime. A non-zero ExpiresAt is preserved so refreshes
// never extend the absolute lifetime.
func (c *TokenCodec) Encode(claims Claims) (string, error) {
	if err := claims.Validate(); err != nil {
		return "", err
	}

	now := c.now()
	exp := claims.ExpiresAt
	if exp.IsZero() {
		exp = now.Add(c.maxLifetime)
	}

	wc := wireClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    c.issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: exp.Unix(),
		},
		ErrorCode: claims.ErrorCode,
	}

	switch claims.State {
	case StateActive:
		r := claims.Resolved
		wc.UserID = r.UserID
		wc.PricingTier = string(r.Tier)
		wc.EmailVerified = r.EmailVerified
		wc.IsNewUser = r.IsNewUser
		wc.Subject = fmt.Sprintf("%d", r.UserID)
	case StateProvisional:
		p := claims.Pending
		wc.NeedsRegistration = true
		wc.GoogleID = p.GoogleID
		wc.UserEmail = p.Email
		wc.UserName = p.Name
		wc.UserImage = p.Image
		wc.PricingTier = string(p.Tier)
	case StateInactive:
		wc.AccountInactive = true
	}

	return c.svc.Generate(wc)
}

// Decode verifies the token and rebuilds the tagged union. Expired or
// malformed tokens return ErrTokenInvalid wrapping the underlying cause;
// callers treat that as an anonymous visitor.
func (c *TokenCodec) Decode(raw string) (Claims, error) {
	var wc wireClaims
	if err := c.svc.Parse(raw, &wc); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return Claims{}, fmt.Errorf("%w: expired", ErrTokenInvalid)
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	var claims Claims
	switch {
	case wc.AccountInactive:
		claims = NewInactive()
	case wc.NeedsRegistration:
		claims = NewProvisional(PendingIdentity{
			GoogleID: wc.GoogleID,
			Email:    wc.UserEmail,
			Name:     wc.UserName,
			Image:    wc.UserImage,
			Tier:     ParseTier(wc.PricingTier),
		})
	case wc.UserID > 0:
		claims = NewActive(ResolvedIdentity{
			UserID:        wc.UserID,
			Tier:          ParseTier(wc.PricingTier),
			EmailVerified: wc.EmailVerified,
			IsNewUser:     wc.IsNewUser,
		})
	default:
		claims = Anonymous()
	}

	claims.ErrorCode = wc.ErrorCode
	if wc.ExpiresAt > 0 {
		claims.ExpiresAt = time.Unix(wc.ExpiresAt, 0)
	}

	if err := claims.Validate(); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	return claims, nil
}
