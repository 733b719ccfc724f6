package keybind

import (
	"github.com/lychee-app/lychee/internal/input/key"
)

// Binding is the association of one action to one key combo plus a
// human-readable description. Exactly one binding exists per action at any
// time.
type Binding struct {
	// Action is the command this binding triggers.
	Action Action

	// Combo is the key combination that triggers the action.
	Combo key.Combo

	// Description documents the binding for display purposes.
	Description string
}

// Label returns the human-readable combo label, such as "Ctrl+Shift+Z".
func (b Binding) Label() string {
	return b.Combo.Label()
}
