package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/probelab/accountd/pkg/logger"
	"github.com/probelab/accountd/pkg/statemachine"
)

// Events accepted by the token lifecycle.
const (
	// EventCallback is a completed provider round-trip.
	EventCallback statemachine.Event = "oauth_callback"
	// EventRefresh is a passive token re-issue on an authenticated request.
	EventRefresh statemachine.Event = "refresh"
	// EventClientRefresh is an explicit client-requested sync against the
	// store, used by the UI to pick up plan or status changes.
	EventClientRefresh statemachine.Event = "client_refresh"
	// EventSignOut terminates the session.
	EventSignOut statemachine.Event = "sign_out"
)

// CallbackData is the payload carried by EventCallback.
type CallbackData struct {
	Profile Profile
	Intent  *RegistrationIntent
}

// Lifecycle drives session claims through their state machine. Transitions
// are pure: they compute the next claims plus a list of deferred effects,
// and the effects run only after the transition commits. Effect failures
// are logged and never change the outcome of a login.
type Lifecycle struct {
	table      *statemachine.Table[Claims]
	resolver   *Resolver
	dispatcher *Dispatcher
	store      UserStore
	log        *slog.Logger
}

// LifecycleOption configures a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithLifecycleLogger sets a custom logger.
func WithLifecycleLogger(l *slog.Logger) LifecycleOption {
	return func(lc *Lifecycle) { lc.log = l }
}

func NewLifecycle(store UserStore, resolver *Resolver, dispatcher *Dispatcher, opts ...LifecycleOption) *Lifecycle {
	lc := &Lifecycle{
		table:      statemachine.NewTable[Claims](),
		resolver:   resolver,
		dispatcher: dispatcher,
		store:      store,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(lc)
	}
	lc.register()
	return lc
}

func (lc *Lifecycle) register() {
	// A callback restarts the session regardless of what the browser was
	// holding, so every state accepts it.
	for _, s := range []State{StateAnonymous, StateProvisional, StateActive, StateInactive, StateSignedOut} {
		lc.table.MustHandle(string(s), EventCallback, lc.onCallback)
		lc.table.MustHandle(string(s), EventSignOut, lc.onSignOut)
	}

	lc.table.MustHandle(string(StateActive), EventClientRefresh, lc.onActiveSync)
	lc.table.MustHandle(string(StateProvisional), EventRefresh, lc.onProvisionalSync)
	lc.table.MustHandle(string(StateProvisional), EventClientRefresh, lc.onProvisionalSync)
}

// Callback applies a completed provider round-trip to the current claims and
// runs the resulting effects.
func (lc *Lifecycle) Callback(ctx context.Context, cur Claims, data CallbackData) (Claims, error) {
	return lc.fire(ctx, cur, EventCallback, data)
}

// Refresh applies a passive re-issue. States without a refresh transition
// (active, inactive, anonymous) pass through unchanged.
func (lc *Lifecycle) Refresh(ctx context.Context, cur Claims) (Claims, error) {
	return lc.fire(ctx, cur, EventRefresh, nil)
}

// ClientRefresh applies an explicit store sync requested by the client.
func (lc *Lifecycle) ClientRefresh(ctx context.Context, cur Claims) (Claims, error) {
	return lc.fire(ctx, cur, EventClientRefresh, nil)
}

// SignOut terminates the session.
func (lc *Lifecycle) SignOut(ctx context.Context, cur Claims) (Claims, error) {
	return lc.fire(ctx, cur, EventSignOut, nil)
}

func (lc *Lifecycle) fire(ctx context.Context, cur Claims, event statemachine.Event, data any) (Claims, error) {
	out, err := lc.table.Fire(ctx, cur, event, data)
	if err != nil {
		if errors.Is(err, statemachine.ErrNoTransition) {
			return cur, nil
		}
		return cur, err
	}
	if err := statemachine.RunEffects(ctx, out.Effects); err != nil {
		lc.log.WarnContext(ctx, "post-transition effect failed",
			logger.Error(err),
			logger.Component("lifecycle"),
			slog.String("event", string(event)),
		)
	}
	return out.Next, nil
}

// onCallback resolves the provider profile against the store. Resolution
// failures fail open into a provisional token so the user ends up on the
// registration page instead of an error screen; the account page converges
// once the store recovers.
func (lc *Lifecycle) onCallback(ctx context.Context, cur Claims, data any) (statemachine.Outcome[Claims], error) {
	cb, ok := data.(CallbackData)
	if !ok {
		return statemachine.Outcome[Claims]{}, fmt.Errorf("%w: callback payload", ErrClaimsInvalid)
	}

	res, err := lc.resolver.Resolve(ctx, cb.Profile)
	if err != nil {
		lc.log.WarnContext(ctx, "identity resolution failed, issuing provisional token",
			logger.Error(err),
			logger.Component("lifecycle"),
		)
		return statemachine.Outcome[Claims]{Next: lc.dispatcher.deferred(cb.Profile, cb.Intent)}, nil
	}

	switch res.Outcome {
	case ResolutionActive:
		next := NewActive(ResolvedIdentity{
			UserID:        res.User.ID,
			Tier:          res.User.Tier,
			EmailVerified: res.User.EmailVerified,
		})
		return statemachine.Outcome[Claims]{
			Next: next,
			Effects: []statemachine.Effect{
				lastLoginEffect(lc.store, res.User.ID),
				avatarSyncEffect(lc.store, res.User, cb.Profile.Picture),
			},
		}, nil

	case ResolutionInactive:
		return statemachine.Outcome[Claims]{Next: NewInactive()}, nil

	default:
		next, effects, err := lc.dispatcher.Dispatch(ctx, cb.Profile, cb.Intent)
		if err != nil {
			return statemachine.Outcome[Claims]{}, err
		}
		return statemachine.Outcome[Claims]{Next: next, Effects: effects}, nil
	}
}

// onActiveSync re-reads the user row so the token reflects the store, which
// always wins over whatever the token was carrying. A store outage keeps the
// current claims rather than kicking an authenticated user out.
func (lc *Lifecycle) onActiveSync(ctx context.Context, cur Claims, _ any) (statemachine.Outcome[Claims], error) {
	if cur.Resolved == nil {
		return statemachine.Outcome[Claims]{}, ErrClaimsInvalid
	}

	u, err := lc.store.FindByID(ctx, cur.Resolved.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return statemachine.Outcome[Claims]{Next: lc.carryExpiry(cur, NewInactive())}, nil
		}
		lc.log.WarnContext(ctx, "store unavailable during session sync, keeping claims",
			logger.Error(err),
			logger.UserID(cur.Resolved.UserID),
			logger.Component("lifecycle"),
		)
		return statemachine.Outcome[Claims]{Next: cur}, nil
	}

	if !u.Active {
		return statemachine.Outcome[Claims]{Next: lc.carryExpiry(cur, NewInactive())}, nil
	}

	next := NewActive(ResolvedIdentity{
		UserID:        u.ID,
		Tier:          u.Tier,
		EmailVerified: u.EmailVerified,
	})
	return statemachine.Outcome[Claims]{Next: lc.carryExpiry(cur, next)}, nil
}

// onProvisionalSync polls for the row a provisional visitor is waiting on.
// The token upgrades to active the moment the registration page commits the
// record. Lookup misses and store outages leave the token as is.
func (lc *Lifecycle) onProvisionalSync(ctx context.Context, cur Claims, _ any) (statemachine.Outcome[Claims], error) {
	if cur.Pending == nil {
		return statemachine.Outcome[Claims]{}, ErrClaimsInvalid
	}

	u, err := lc.store.FindByEmail(ctx, cur.Pending.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			lc.log.WarnContext(ctx, "store unavailable during provisional sync, keeping claims",
				logger.Error(err),
				logger.Email(cur.Pending.Email),
				logger.Component("lifecycle"),
			)
		}
		return statemachine.Outcome[Claims]{Next: cur}, nil
	}

	if !u.Active {
		return statemachine.Outcome[Claims]{Next: lc.carryExpiry(cur, NewInactive())}, nil
	}

	next := NewActive(ResolvedIdentity{
		UserID:        u.ID,
		Tier:          u.Tier,
		EmailVerified: u.EmailVerified,
	})
	return statemachine.Outcome[Claims]{Next: lc.carryExpiry(cur, next)}, nil
}

func (lc *Lifecycle) onSignOut(_ context.Context, _ Claims, _ any) (statemachine.Outcome[Claims], error) {
	return statemachine.Outcome[Claims]{Next: SignedOut()}, nil
}

// carryExpiry preserves the absolute expiry across a refresh transition: the
// token's lifetime is fixed at first issue and only a fresh callback resets
// it.
func (lc *Lifecycle) carryExpiry(cur, next Claims) Claims {
	next.ExpiresAt = cur.ExpiresAt
	return next
}
