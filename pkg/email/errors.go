package email

import "errors"

var (
	ErrInvalidConfig    = errors.New("email: invalid configuration")
	ErrFailedToSend     = errors.New("email: failed to send")
	ErrInvalidRecipient = errors.New("email: invalid recipient address")
	ErrMissingSubject   = errors.New("email: missing subject")
	ErrMissingBody      = errors.New("email: missing body")
)
