package input

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lychee-app/lychee/internal/keybind"
	"github.com/lychee-app/lychee/internal/keybind/persist"
)

// CaptureState is the rebind capture lifecycle state.
type CaptureState int

const (
	// CaptureIdle means no capture is in progress.
	CaptureIdle CaptureState = iota

	// CaptureActive means the next key event resolves the capture.
	CaptureActive
)

// String returns a human-readable state name.
func (s CaptureState) String() string {
	switch s {
	case CaptureIdle:
		return "idle"
	case CaptureActive:
		return "active"
	default:
		return "unknown"
	}
}

// ErrCaptureActive is returned when starting a capture while one is already
// in progress.
var ErrCaptureActive = errors.New("input: capture already active")

// CaptureResult reports how a rebind capture ended.
type CaptureResult struct {
	// Action is the action the capture was started for.
	Action keybind.Action

	// Event is the key event that resolved the capture. It is zero when the
	// capture was cancelled programmatically.
	Event KeyEvent

	// Cancelled is true when the capture ended without rebinding, either by
	// the escape key or by Cancel.
	Cancelled bool

	// Err is non-nil when the rebind or its persistence failed. A conflict
	// surfaces here as a *keybind.ConflictError.
	Err error
}

// RebindCapture records the next key press as the new combo for one action.
//
// It implements Interceptor: while active it consumes exactly one key event,
// applies the rebind (or cancels on escape) and returns to idle. Register it
// on the dispatcher so it sees events ahead of binding dispatch.
type RebindCapture struct {
	mu sync.Mutex

	registry *keybind.Registry
	store    persist.Store

	state  CaptureState
	action keybind.Action
	onDone func(CaptureResult)
}

// NewRebindCapture creates an idle capture over a registry. A nil store
// skips persistence after a successful rebind.
func NewRebindCapture(registry *keybind.Registry, store persist.Store) *RebindCapture {
	return &RebindCapture{
		registry: registry,
		store:    store,
	}
}

// State returns the current capture state.
func (c *RebindCapture) State() CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start arms the capture for an action. onDone runs when the capture
// resolves, on the goroutine delivering the resolving key event.
func (c *RebindCapture) Start(action keybind.Action, onDone func(CaptureResult)) error {
	if !action.Valid() {
		return &keybind.UnknownActionError{ID: action.String()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CaptureActive {
		return ErrCaptureActive
	}

	c.state = CaptureActive
	c.action = action
	c.onDone = onDone
	return nil
}

// Cancel ends an active capture without rebinding. Cancelling an idle
// capture is a no-op.
func (c *RebindCapture) Cancel() {
	c.mu.Lock()
	action, onDone, active := c.action, c.onDone, c.state == CaptureActive
	c.reset()
	c.mu.Unlock()

	if active && onDone != nil {
		onDone(CaptureResult{Action: action, Cancelled: true})
	}
}

// HandleKey consumes the resolving key event of an active capture. Escape
// cancels; any other combo becomes the action's new binding, persisted when
// a store is configured. Idle captures consume nothing.
func (c *RebindCapture) HandleKey(ev KeyEvent) bool {
	c.mu.Lock()
	if c.state != CaptureActive {
		c.mu.Unlock()
		return false
	}
	action, onDone := c.action, c.onDone
	c.reset()
	c.mu.Unlock()

	result := CaptureResult{Action: action, Event: ev}

	switch {
	case ev.Combo.IsEscape():
		result.Cancelled = true
	default:
		result.Err = c.apply(action, ev)
	}

	if onDone != nil {
		onDone(result)
	}
	return true
}

// apply rebinds and persists.
func (c *RebindCapture) apply(action keybind.Action, ev KeyEvent) error {
	if err := c.registry.Rebind(action, ev.Combo); err != nil {
		return err
	}
	if c.store == nil {
		return nil
	}
	if err := persist.Save(c.registry, c.store); err != nil {
		// The rebind itself took effect; only durability failed.
		return fmt.Errorf("rebind applied but not saved: %w", err)
	}
	return nil
}

// reset returns the capture to idle. Callers hold the lock.
func (c *RebindCapture) reset() {
	c.state = CaptureIdle
	c.action = ""
	c.onDone = nil
}
