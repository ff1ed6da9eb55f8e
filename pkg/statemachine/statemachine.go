package statemachine

import (
	"context"
	"fmt"
)

// Labeler exposes the discriminant a value is dispatched on. The table keys
// transitions by (label, event) rather than holding a current state itself,
// so machines stay usable for state that lives outside the process (for
// example inside a client-held token).
type Labeler interface {
	Label() string
}

// Event triggers a transition.
type Event string

// Effect is a deferred side effect produced by a transition. Effects are
// collected by the transition function and executed afterwards by RunEffects,
// keeping transition logic free of I/O writes.
type Effect func(ctx context.Context) error

// Outcome is the result of evaluating a transition: the next state value plus
// the side effects the transition requests.
type Outcome[S Labeler] struct {
	Next    S
	Effects []Effect
}

// TransitionFunc computes an outcome from the current state and event data.
// It may read external systems but must not write; writes belong in effects.
type TransitionFunc[S Labeler] func(ctx context.Context, current S, data any) (Outcome[S], error)

// Table maps (state label, event) pairs to transition functions.
type Table[S Labeler] struct {
	transitions map[string]map[Event]TransitionFunc[S]
}

func NewTable[S Labeler]() *Table[S] {
	return &Table[S]{
		transitions: make(map[string]map[Event]TransitionFunc[S]),
	}
}

// Handle registers a transition for the given state label and event.
func (t *Table[S]) Handle(label string, event Event, fn TransitionFunc[S]) error {
	if fn == nil {
		return ErrNilTransition
	}
	if _, ok := t.transitions[label]; !ok {
		t.transitions[label] = make(map[Event]TransitionFunc[S])
	}
	if _, ok := t.transitions[label][event]; ok {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateTransition, label, event)
	}
	t.transitions[label][event] = fn
	return nil
}

// MustHandle is Handle that panics on registration errors. Transition tables
// are built once at startup, so a bad registration is a programming error.
func (t *Table[S]) MustHandle(label string, event Event, fn TransitionFunc[S]) {
	if err := t.Handle(label, event, fn); err != nil {
		panic(err)
	}
}

// Fire evaluates the transition registered for the current state's label and
// the event. It returns ErrNoTransition when none is registered.
func (t *Table[S]) Fire(ctx context.Context, current S, event Event, data any) (Outcome[S], error) {
	byEvent, ok := t.transitions[current.Label()]
	if !ok {
		return Outcome[S]{}, fmt.Errorf("%w: %s/%s", ErrNoTransition, current.Label(), event)
	}
	fn, ok := byEvent[event]
	if !ok {
		return Outcome[S]{}, fmt.Errorf("%w: %s/%s", ErrNoTransition, current.Label(), event)
	}
	return fn(ctx, current, data)
}

// RunEffects executes effects in order, stopping at the first failure.
func RunEffects(ctx context.Context, effects []Effect) error {
	for _, effect := range effects {
		if effect == nil {
			continue
		}
		if err := effect(ctx); err != nil {
			return err
		}
	}
	return nil
}
