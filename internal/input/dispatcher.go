package input

import (
	"context"
	"sync"

	"github.com/lychee-app/lychee/internal/event"
	"github.com/lychee-app/lychee/internal/keybind"
)

// textFocusAllowed is the fixed set of actions that still fire while an
// editable text widget has focus. Everything else, notably undo and redo,
// stays with the widget's native handling.
var textFocusAllowed = map[keybind.Action]bool{
	keybind.ActionOpenSpotlightSearch: true,
	keybind.ActionOpenTagSearch:       true,
	keybind.ActionOpenThemeDropdown:   true,
	keybind.ActionOpenSettings:        true,
	keybind.ActionOpenExport:          true,
}

// AllowedInTextFocus reports whether an action fires while an editable text
// widget has focus.
func AllowedInTextFocus(action keybind.Action) bool {
	return textFocusAllowed[action]
}

// Interceptor sees key events ahead of binding dispatch. Returning true
// consumes the event.
type Interceptor interface {
	HandleKey(ev KeyEvent) bool
}

// Dispatcher routes key events: intercepted events go to interceptors,
// bound combos publish their action on the bus, everything else passes
// through to whatever has focus.
type Dispatcher struct {
	mu sync.RWMutex

	registry *keybind.Registry
	bus      *event.Bus

	interceptors []Interceptor
	enabled      bool
}

// NewDispatcher creates a dispatcher over a registry and bus. Dispatch
// starts enabled.
func NewDispatcher(registry *keybind.Registry, bus *event.Bus) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		bus:      bus,
		enabled:  true,
	}
}

// SetEnabled toggles binding dispatch. While disabled, interceptors still
// run but no binding fires and every event passes through.
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// Enabled returns true while binding dispatch is active.
func (d *Dispatcher) Enabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabled
}

// AddInterceptor registers an interceptor. Interceptors run in registration
// order before binding lookup.
func (d *Dispatcher) AddInterceptor(i Interceptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interceptors = append(d.interceptors, i)
}

// RemoveInterceptor unregisters an interceptor.
func (d *Dispatcher) RemoveInterceptor(i Interceptor) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for idx, reg := range d.interceptors {
		if reg == i {
			d.interceptors = append(d.interceptors[:idx], d.interceptors[idx+1:]...)
			return
		}
	}
}

// HandleKey processes one key event. It returns true when the event was
// consumed, either by an interceptor or by publishing a bound action; false
// means the event should pass through to the focused widget.
func (d *Dispatcher) HandleKey(ev KeyEvent) bool {
	d.mu.RLock()
	interceptors := make([]Interceptor, len(d.interceptors))
	copy(interceptors, d.interceptors)
	enabled := d.enabled
	d.mu.RUnlock()

	for _, i := range interceptors {
		if i.HandleKey(ev) {
			return true
		}
	}

	if !enabled {
		return false
	}

	binding, ok := d.registry.Lookup(ev.Combo)
	if !ok {
		return false
	}

	if ev.Focus == FocusText && !AllowedInTextFocus(binding.Action) {
		return false
	}

	// Delivery failures are the listeners' problem; the key press itself
	// was consumed the moment a binding matched in scope.
	_ = d.bus.Publish(binding.Action, ev.Combo)
	return true
}

// Run consumes events from a source until the context is cancelled or the
// source closes its channel.
func (d *Dispatcher) Run(ctx context.Context, src Source) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-src.Events():
			if !ok {
				return nil
			}
			d.HandleKey(ev)
		}
	}
}
