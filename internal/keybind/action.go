package keybind

// Action identifies a semantic application command, decoupled from any
// specific key combo. The set of valid actions is fixed at build time.
type Action string

const (
	// ActionCreateNote creates a new note.
	ActionCreateNote Action = "note.create"

	// ActionReturnToView switches back to the note view surface.
	ActionReturnToView Action = "view.return"

	// ActionReturnToNotes returns to the notes list.
	ActionReturnToNotes Action = "notes.return"

	// ActionOpenSettings opens the settings overlay.
	ActionOpenSettings Action = "settings.open"

	// ActionOpenExport opens the export dialog.
	ActionOpenExport Action = "export.open"

	// ActionUndo undoes the last edit.
	ActionUndo Action = "edit.undo"

	// ActionRedo redoes the last undone edit.
	ActionRedo Action = "edit.redo"

	// ActionOpenThemeDropdown opens the theme picker.
	ActionOpenThemeDropdown Action = "theme.dropdown"

	// ActionOpenSpotlightSearch opens the spotlight search overlay.
	ActionOpenSpotlightSearch Action = "search.spotlight"

	// ActionOpenTagSearch opens the tag search overlay.
	ActionOpenTagSearch Action = "search.tags"
)

// actionOrder is the canonical action ordering. It determines the order of
// Bindings() output and the order in which persisted overrides are applied.
var actionOrder = []Action{
	ActionCreateNote,
	ActionReturnToView,
	ActionReturnToNotes,
	ActionOpenSettings,
	ActionOpenExport,
	ActionUndo,
	ActionRedo,
	ActionOpenThemeDropdown,
	ActionOpenSpotlightSearch,
	ActionOpenTagSearch,
}

// Actions returns all known actions in canonical order.
// The returned slice is a copy and safe to modify.
func Actions() []Action {
	out := make([]Action, len(actionOrder))
	copy(out, actionOrder)
	return out
}

// Valid returns true if a is a member of the known action set.
func (a Action) Valid() bool {
	for _, known := range actionOrder {
		if a == known {
			return true
		}
	}
	return false
}

// String returns the action identifier.
func (a Action) String() string {
	return string(a)
}

// ParseAction converts an identifier into an Action, rejecting identifiers
// outside the known set.
func ParseAction(id string) (Action, error) {
	a := Action(id)
	if !a.Valid() {
		return "", &UnknownActionError{ID: id}
	}
	return a, nil
}
