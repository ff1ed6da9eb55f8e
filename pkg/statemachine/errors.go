package statemachine

import "errors"

var (
	ErrNoTransition        = errors.New("statemachine: no transition registered")
	ErrNilTransition       = errors.New("statemachine: nil transition function")
	ErrDuplicateTransition = errors.New("statemachine: transition already registered")
)
