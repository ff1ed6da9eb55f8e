package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/probelab/accountd/pkg/logger"
	"github.com/probelab/accountd/pkg/statemachine"
)

// Dispatcher decides between the two first-time signup paths once the
// resolver reports NotFound: deferred (provisional token, UI collects the
// plan later) and immediate (plan already staged before the provider
// redirect, user row created inline).
type Dispatcher struct {
	store         UserStore
	log           *slog.Logger
	afterRegister func(ctx context.Context, u *User) error
	now           func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets a custom logger.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = l }
}

// WithAfterRegister sets a hook that runs (as a deferred effect) after a
// successful inline registration. Hook failures are logged, never surfaced.
func WithAfterRegister(fn func(context.Context, *User) error) DispatcherOption {
	return func(d *Dispatcher) { d.afterRegister = fn }
}

func NewDispatcher(store UserStore, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes a first-time login. The returned effects are executed by
// the lifecycle manager after the transition commits.
//
// Immediate-path failure handling: a uniqueness conflict means a concurrent
// request created the same email first, so the loser re-resolves by email
// and converges on the winner's record instead of erroring out. A store
// outage degrades to the deferred path. Any other write failure is fatal
// and is returned to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, profile Profile, intent *RegistrationIntent) (Claims, []statemachine.Effect, error) {
	if intent == nil || intent.Flow != FlowImmediate || intent.Expired(d.now()) {
		return d.deferred(profile, intent), nil, nil
	}

	u, err := d.store.Create(ctx, NewUser{
		GoogleID:      profile.GoogleID,
		Email:         profile.Email,
		Name:          profile.Name,
		GivenName:     profile.GivenName,
		FamilyName:    profile.FamilyName,
		Picture:       profile.Picture,
		EmailVerified: profile.EmailVerified,
		Tier:          intent.Tier,
	})
	if err == nil {
		d.log.InfoContext(ctx, "registered new user inline",
			logger.UserID(u.ID),
			logger.Component("registration"),
			slog.String("tier", string(u.Tier)),
		)
		claims := NewActive(ResolvedIdentity{
			UserID:        u.ID,
			Tier:          u.Tier,
			EmailVerified: u.EmailVerified,
			IsNewUser:     true,
		})
		return claims, []statemachine.Effect{hookEffect(d.afterRegister, u)}, nil
	}

	switch {
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateGoogleID):
		return d.converge(ctx, profile, intent)
	case errors.Is(err, ErrStoreUnavailable):
		d.log.WarnContext(ctx, "store unavailable during inline registration, deferring",
			logger.Component("registration"),
		)
		return d.deferred(profile, intent), nil, nil
	default:
		return Claims{}, nil, fmt.Errorf("create user: %w", err)
	}
}

// converge recovers from a creation race: the concurrent winner's row is
// re-read by email and the loser adopts it as a regular resolved login.
func (d *Dispatcher) converge(ctx context.Context, profile Profile, intent *RegistrationIntent) (Claims, []statemachine.Effect, error) {
	u, err := d.store.FindByEmail(ctx, profile.Email)
	if err != nil || !u.Active {
		// Couldn't confirm the winner; fall back to deferred rather than
		// failing the login.
		return d.deferred(profile, intent), nil, nil
	}

	claims := NewActive(ResolvedIdentity{
		UserID:        u.ID,
		Tier:          u.Tier,
		EmailVerified: u.EmailVerified,
	})
	effects := []statemachine.Effect{
		lastLoginEffect(d.store, u.ID),
		avatarSyncEffect(d.store, u, profile.Picture),
	}
	return claims, effects, nil
}

func (d *Dispatcher) deferred(profile Profile, intent *RegistrationIntent) Claims {
	tier := TierDeveloper
	if intent != nil {
		tier = intent.Tier
	}
	return NewProvisional(PendingIdentity{
		GoogleID: profile.GoogleID,
		Email:    profile.Email,
		Name:     profile.Name,
		Image:    profile.Picture,
		Tier:     tier,
	})
}
