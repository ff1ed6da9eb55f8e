package auth

import "errors"

// Store errors
var (
	ErrUserNotFound      = errors.New("auth: user not found")
	ErrDuplicateEmail    = errors.New("auth: email already registered")
	ErrDuplicateGoogleID = errors.New("auth: google account already registered")
	ErrStoreUnavailable  = errors.New("auth: record store unavailable")
	ErrNoFieldsToUpdate  = errors.New("auth: no fields to update")
	ErrUnknownField      = errors.New("auth: unknown update field")
)

// Token errors
var (
	ErrClaimsInvalid = errors.New("auth: claims violate state invariant")
	ErrTokenInvalid  = errors.New("auth: invalid session token")
	ErrIntentExpired = errors.New("auth: registration intent expired")
)

// OAuth errors
var (
	ErrInvalidState  = errors.New("auth: invalid or expired oauth state")
	ErrStateNotFound = errors.New("auth: oauth state not found")
	ErrInvalidCode   = errors.New("auth: invalid authorization code")
	ErrNoProfile     = errors.New("auth: provider returned no usable profile")
)

// Account endpoint errors
var (
	ErrSessionMismatch      = errors.New("auth: session does not match requested user")
	ErrInvalidTier          = errors.New("auth: unknown pricing tier")
	ErrConfirmationRequired = errors.New("auth: explicit confirmation required")
	ErrNotAuthenticated     = errors.New("auth: authenticated session required")
)
