package keybind

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when an action outside the known set is used.
var ErrUnknownAction = errors.New("unknown action")

// UnknownActionError reports an identifier that is not a known action.
type UnknownActionError struct {
	ID string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.ID)
}

func (e *UnknownActionError) Unwrap() error {
	return ErrUnknownAction
}

// ErrConflict is the sentinel for combo ownership conflicts.
var ErrConflict = errors.New("key combo already bound")

// ConflictError reports a rebind attempt against a combo that is already
// owned by another action. The registry is left unchanged when it is
// returned.
type ConflictError struct {
	// Action is the action the caller tried to rebind.
	Action Action

	// Owner is the action that currently owns the combo.
	Owner Action

	// Encoded is the canonical encoding of the contested combo.
	Encoded string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("combo %q already bound to %s", e.Encoded, e.Owner)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
