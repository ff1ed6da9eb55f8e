package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/probelab/accountd/pkg/logger"
)

// ResolutionOutcome classifies what a provider login maps to locally.
type ResolutionOutcome string

const (
	// ResolutionNotFound means no stored user corresponds to this login.
	ResolutionNotFound ResolutionOutcome = "not_found"
	// ResolutionActive means the login maps to an account in good standing.
	ResolutionActive ResolutionOutcome = "active"
	// ResolutionInactive means the login maps to a deactivated account.
	ResolutionInactive ResolutionOutcome = "inactive"
)

// Resolution is the identity resolver's verdict. User is set for the two
// resolved outcomes and nil for NotFound.
type Resolution struct {
	Outcome ResolutionOutcome
	User    *User
}

// Resolver maps a provider profile to a stored user, preferring the match by
// external id over the match by email.
type Resolver struct {
	store UserStore
	log   *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets a custom logger.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

func NewResolver(store UserStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks the profile up by external id first, then by email. A user
// matched by email who has no external id yet (registered through another
// path, now linking the provider for the first time) gets the google id and
// avatar persisted as part of resolution. NotFound and inactive outcomes
// have no side effects.
func (r *Resolver) Resolve(ctx context.Context, profile Profile) (Resolution, error) {
	u, err := r.store.FindByGoogleID(ctx, profile.GoogleID)
	if err == nil {
		return resolutionFor(u), nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return Resolution{}, fmt.Errorf("resolve by google id: %w", err)
	}

	u, err = r.store.FindByEmail(ctx, profile.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Resolution{Outcome: ResolutionNotFound}, nil
		}
		return Resolution{}, fmt.Errorf("resolve by email: %w", err)
	}

	if !u.Active {
		return Resolution{Outcome: ResolutionInactive, User: u}, nil
	}

	if u.GoogleID == "" {
		if err := r.store.UpdateFields(ctx, u.ID, Fields{
			FieldGoogleID: profile.GoogleID,
			FieldPicture:  profile.Picture,
		}); err != nil {
			return Resolution{}, fmt.Errorf("link google account: %w", err)
		}
		r.log.InfoContext(ctx, "linked google account to existing user",
			logger.UserID(u.ID),
			logger.Component("resolver"),
		)
		u.GoogleID = profile.GoogleID
		u.Picture = profile.Picture
	}

	return Resolution{Outcome: ResolutionActive, User: u}, nil
}

func resolutionFor(u *User) Resolution {
	if u.Active {
		return Resolution{Outcome: ResolutionActive, User: u}
	}
	return Resolution{Outcome: ResolutionInactive, User: u}
}
