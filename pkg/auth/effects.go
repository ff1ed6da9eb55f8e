package auth

import (
	"context"
	"time"

	"github.com/probelab/accountd/pkg/statemachine"
)

// lastLoginEffect persists the login timestamp for a resolved user.
func lastLoginEffect(store UserStore, userID int64) statemachine.Effect {
	return func(ctx context.Context) error {
		return store.UpdateFields(ctx, userID, Fields{FieldLastLoginAt: time.Now()})
	}
}

// avatarSyncEffect persists the provider avatar when it differs from the
// stored value. Returns nil when there is nothing to sync.
func avatarSyncEffect(store UserStore, u *User, picture string) statemachine.Effect {
	if picture == "" || picture == u.Picture {
		return nil
	}
	userID := u.ID
	return func(ctx context.Context) error {
		return store.UpdateFields(ctx, userID, Fields{FieldPicture: picture})
	}
}

// hookEffect wraps a user hook (e.g. welcome email) as an effect, bounding
// its runtime so a slow downstream cannot stall the login response.
func hookEffect(hook func(context.Context, *User) error, u *User) statemachine.Effect {
	if hook == nil {
		return nil
	}
	return func(ctx context.Context) error {
		hookCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return hook(hookCtx, u)
	}
}
