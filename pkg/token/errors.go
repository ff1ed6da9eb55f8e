package token

import "errors"

var (
	ErrInvalidToken     = errors.New("token: invalid token")
	ErrSignatureInvalid = errors.New("token: signature is invalid")
)
