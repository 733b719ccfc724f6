package keybind

import (
	"github.com/lychee-app/lychee/internal/input/key"
)

// defaultTable is the factory-default binding for every known action.
// It is built once at package init and never mutated afterward.
var defaultTable = map[Action]Binding{
	ActionCreateNote: {
		Action:      ActionCreateNote,
		Combo:       key.MustParse("ctrl+a"),
		Description: "Create a new note",
	},
	ActionReturnToView: {
		Action:      ActionReturnToView,
		Combo:       key.MustParse("ctrl+q"),
		Description: "Return to note view",
	},
	ActionReturnToNotes: {
		Action:      ActionReturnToNotes,
		Combo:       key.MustParse("ctrl+h"),
		Description: "Return to notes list",
	},
	ActionOpenSettings: {
		Action:      ActionOpenSettings,
		Combo:       key.MustParse("ctrl+b"),
		Description: "Open settings",
	},
	ActionOpenExport: {
		Action:      ActionOpenExport,
		Combo:       key.MustParse("ctrl+x"),
		Description: "Open export dialog",
	},
	ActionUndo: {
		Action:      ActionUndo,
		Combo:       key.MustParse("ctrl+z"),
		Description: "Undo last edit",
	},
	ActionRedo: {
		Action:      ActionRedo,
		Combo:       key.MustParse("ctrl+shift+z"),
		Description: "Redo last undone edit",
	},
	ActionOpenThemeDropdown: {
		Action:      ActionOpenThemeDropdown,
		Combo:       key.MustParse("ctrl+shift+t"),
		Description: "Open theme picker",
	},
	ActionOpenSpotlightSearch: {
		Action:      ActionOpenSpotlightSearch,
		Combo:       key.MustParse("ctrl+s"),
		Description: "Open spotlight search",
	},
	ActionOpenTagSearch: {
		Action:      ActionOpenTagSearch,
		Combo:       key.MustParse("ctrl+t"),
		Description: "Open tag search",
	},
}

// DefaultBinding returns the factory-default binding for an action.
func DefaultBinding(action Action) (Binding, error) {
	b, ok := defaultTable[action]
	if !ok {
		return Binding{}, &UnknownActionError{ID: string(action)}
	}
	return b, nil
}

// DefaultBindings returns the factory-default bindings in canonical order.
func DefaultBindings() []Binding {
	out := make([]Binding, 0, len(actionOrder))
	for _, action := range actionOrder {
		out = append(out, defaultTable[action])
	}
	return out
}
