package event

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lychee-app/lychee/internal/input/key"
	"github.com/lychee-app/lychee/internal/keybind"
)

// Notification is the payload delivered to listeners when an action fires.
type Notification struct {
	// Action is the semantic command that fired.
	Action keybind.Action

	// Combo is the key combo that triggered the action. It is zero when the
	// action was published programmatically rather than from a key press.
	Combo key.Combo

	// Time is when the notification was published.
	Time time.Time
}

// PanicHandler is invoked when a listener panics during delivery.
type PanicHandler func(n Notification, recovered any)

// ErrorHandler is invoked when a listener returns a non-nil error.
type ErrorHandler func(n Notification, err error)

// Bus delivers action notifications to subscribed listeners.
//
// Delivery is synchronous: Publish returns after every matching listener has
// run. Listeners for the same action run in registration order.
type Bus struct {
	mu   sync.RWMutex
	subs []*Subscription
	byID map[string]*Subscription

	panicHandler PanicHandler
	errorHandler ErrorHandler

	published     atomic.Uint64
	delivered     atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets the callback invoked when a listener panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.panicHandler = h
	}
}

// WithErrorHandler sets the callback invoked when a listener returns an error.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(b *Bus) {
		b.errorHandler = h
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		byID: make(map[string]*Subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for one action.
func (b *Bus) Subscribe(action keybind.Action, h Handler) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}
	return b.add(newSubscription(action, false, h)), nil
}

// SubscribeAll registers a handler for every action.
func (b *Bus) SubscribeAll(h Handler) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	return b.add(newSubscription("", true, h)), nil
}

func (b *Bus) add(sub *Subscription) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = append(b.subs, sub)
	b.byID[sub.ID()] = sub
	return sub
}

// Unsubscribe cancels and removes a subscription by ID.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.byID[id]
	if !ok {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	delete(b.byID, id)
	for i, s := range b.subs {
		if s.ID() == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			break
		}
	}
	return nil
}

// Publish delivers a notification for action to every matching listener, in
// registration order. It returns the joined errors of failing listeners;
// panics are recovered, counted and routed to the panic handler.
func (b *Bus) Publish(action keybind.Action, combo key.Combo) error {
	n := Notification{
		Action: action,
		Combo:  combo,
		Time:   time.Now(),
	}

	b.published.Add(1)

	var errs []error
	for _, sub := range b.snapshot(action) {
		if !sub.IsActive() {
			continue
		}
		if err := b.deliver(sub, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// snapshot copies the matching subscriptions so handlers can subscribe or
// unsubscribe without deadlocking delivery.
func (b *Bus) snapshot(action keybind.Action) []*Subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var matched []*Subscription
	for _, sub := range b.subs {
		if sub.matches(action) {
			matched = append(matched, sub)
		}
	}
	return matched
}

// deliver runs one handler with panic isolation.
func (b *Bus) deliver(sub *Subscription, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(n, r)
			}
			err = fmt.Errorf("event: listener %s panicked: %v", sub.ID(), r)
		}
	}()

	if err := sub.handler(n); err != nil {
		b.handlerErrors.Add(1)
		if b.errorHandler != nil {
			b.errorHandler(n, err)
		}
		return fmt.Errorf("event: listener %s: %w", sub.ID(), err)
	}

	b.delivered.Add(1)
	return nil
}

// Stats is a snapshot of bus counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerErrors uint64
	HandlerPanics uint64
	Subscribers   int
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	subscribers := len(b.byID)
	b.mu.RUnlock()

	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerErrors: b.handlerErrors.Load(),
		HandlerPanics: b.handlerPanics.Load(),
		Subscribers:   subscribers,
	}
}
