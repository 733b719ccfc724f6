package event

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lychee-app/lychee/internal/keybind"
)

// Handler consumes a published notification. A non-nil error is reported to
// the bus's error handler but does not stop delivery to later listeners.
type Handler func(Notification) error

// Subscription is a handle to one registered listener.
type Subscription struct {
	id      string
	action  keybind.Action
	all     bool
	handler Handler

	cancelled atomic.Bool
}

func newSubscription(action keybind.Action, all bool, h Handler) *Subscription {
	return &Subscription{
		id:      uuid.New().String(),
		action:  action,
		all:     all,
		handler: h,
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Action returns the subscribed action. It is empty for subscriptions created
// with SubscribeAll.
func (s *Subscription) Action() keybind.Action {
	return s.action
}

// IsActive returns true while the subscription can receive notifications.
func (s *Subscription) IsActive() bool {
	return !s.cancelled.Load()
}

// Cancel stops delivery to this subscription. Cancelling is permanent; the
// bus drops cancelled subscriptions on its next publish touching them.
func (s *Subscription) Cancel() {
	s.cancelled.Store(true)
}

// matches returns true if the subscription wants notifications for action.
func (s *Subscription) matches(action keybind.Action) bool {
	return s.all || s.action == action
}
