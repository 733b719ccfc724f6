package input

import (
	"time"

	"github.com/lychee-app/lychee/internal/input/key"
)

// FocusKind classifies what currently has keyboard focus, as far as the
// scoping policy cares.
type FocusKind int

const (
	// FocusGeneral means no editable text widget has focus. Bound combos
	// fire freely.
	FocusGeneral FocusKind = iota

	// FocusText means an editable text widget has focus. Only allow-listed
	// actions fire; everything else passes through to the widget.
	FocusText
)

// String returns a human-readable focus name.
func (f FocusKind) String() string {
	switch f {
	case FocusGeneral:
		return "general"
	case FocusText:
		return "text"
	default:
		return "unknown"
	}
}

// KeyEvent is one key press as seen by the dispatcher.
type KeyEvent struct {
	// Combo is the pressed combination.
	Combo key.Combo

	// Focus is the focus classification at press time.
	Focus FocusKind

	// Time is when the press occurred.
	Time time.Time
}

// Source produces key events, typically from a terminal. Close releases the
// underlying device and closes the event channel.
type Source interface {
	Events() <-chan KeyEvent
	Close() error
}
