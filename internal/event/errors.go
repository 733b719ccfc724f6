package event

import "errors"

var (
	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("event: nil handler")

	// ErrInvalidAction is returned when subscribing to an action outside the
	// known set.
	ErrInvalidAction = errors.New("event: invalid action")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown or
	// already removed subscription.
	ErrSubscriptionNotFound = errors.New("event: subscription not found")
)
