package keybind

import (
	"errors"
	"testing"

	"github.com/lychee-app/lychee/internal/input/key"
)

func TestDefaultsPairwiseDistinct(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range DefaultBindings() {
		enc := b.Combo.Encode()
		if owner, ok := seen[enc]; ok {
			t.Errorf("default combo %q shared by %s and %s", enc, owner, b.Action)
		}
		seen[enc] = b.Action
	}
}

func TestDefaultsTotality(t *testing.T) {
	r := NewRegistry()
	for _, action := range Actions() {
		b, err := r.BindingFor(action)
		if err != nil {
			t.Fatalf("BindingFor(%s) error = %v", action, err)
		}
		if b.Action != action {
			t.Errorf("BindingFor(%s).Action = %s", action, b.Action)
		}
		if b.Combo.IsZero() {
			t.Errorf("BindingFor(%s) has zero combo", action)
		}
	}
}

func TestRebindSuccess(t *testing.T) {
	r := NewRegistry()

	if err := r.Rebind(ActionCreateNote, key.MustParse("ctrl+k")); err != nil {
		t.Fatalf("Rebind() error = %v", err)
	}

	b, ok := r.Lookup(key.MustParse("ctrl+k"))
	if !ok || b.Action != ActionCreateNote {
		t.Errorf("Lookup(ctrl+k) = %v, %v; want note.create binding", b, ok)
	}
	if _, ok := r.Lookup(key.MustParse("ctrl+a")); ok {
		t.Error("Lookup(ctrl+a) still resolves after rebind away")
	}
}

func TestRebindConflict(t *testing.T) {
	r := NewRegistry()
	before := r.Bindings()

	err := r.Rebind(ActionReturnToView, key.MustParse("ctrl+b"))
	if err == nil {
		t.Fatal("Rebind onto owned combo succeeded, want conflict")
	}

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want *ConflictError", err)
	}
	if conflict.Owner != ActionOpenSettings {
		t.Errorf("conflict.Owner = %s, want %s", conflict.Owner, ActionOpenSettings)
	}
	if !errors.Is(err, ErrConflict) {
		t.Error("conflict does not unwrap to ErrConflict")
	}

	// Registry must be byte-for-byte unchanged.
	after := r.Bindings()
	if len(before) != len(after) {
		t.Fatalf("binding count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("binding %d changed: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestRebindSelfNoop(t *testing.T) {
	r := NewRegistry()
	if err := r.Rebind(ActionUndo, key.MustParse("ctrl+z")); err != nil {
		t.Errorf("rebinding action to its own combo failed: %v", err)
	}
}

func TestRebindRejectsUnknownAction(t *testing.T) {
	r := NewRegistry()
	err := r.Rebind(Action("bogus"), key.MustParse("ctrl+k"))
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}
}

func TestRebindRejectsEmptyCombo(t *testing.T) {
	r := NewRegistry()
	err := r.Rebind(ActionUndo, key.Combo{Mods: key.ModCtrl})
	if !errors.Is(err, ErrInvalidCombo) {
		t.Errorf("error = %v, want ErrInvalidCombo", err)
	}
}

func TestReset(t *testing.T) {
	r := NewRegistry()

	if err := r.Rebind(ActionCreateNote, key.MustParse("ctrl+k")); err != nil {
		t.Fatalf("Rebind() error = %v", err)
	}
	if err := r.Reset(ActionCreateNote); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	b, ok := r.Lookup(key.MustParse("ctrl+a"))
	if !ok || b.Action != ActionCreateNote {
		t.Errorf("Lookup(ctrl+a) = %v, %v after reset", b, ok)
	}
	if _, ok := r.Lookup(key.MustParse("ctrl+k")); ok {
		t.Error("Lookup(ctrl+k) still resolves after reset")
	}
}

func TestResetAll(t *testing.T) {
	r := NewRegistry()
	if err := r.Rebind(ActionCreateNote, key.MustParse("ctrl+k")); err != nil {
		t.Fatal(err)
	}
	if err := r.Rebind(ActionOpenTagSearch, key.MustParse("alt+t")); err != nil {
		t.Fatal(err)
	}

	r.ResetAll()

	defaults := DefaultBindings()
	current := r.Bindings()
	for i := range defaults {
		if current[i] != defaults[i] {
			t.Errorf("binding %d = %v, want default %v", i, current[i], defaults[i])
		}
	}
}

func TestLookupIndicesStayConsistent(t *testing.T) {
	r := NewRegistry()

	// Chain of rebinds exercising combo index add/remove.
	steps := []struct {
		action Action
		spec   string
	}{
		{ActionCreateNote, "ctrl+k"},
		{ActionOpenTagSearch, "ctrl+a"}, // claims create-note's freed default
		{ActionCreateNote, "ctrl+n"},
	}
	for _, s := range steps {
		if err := r.Rebind(s.action, key.MustParse(s.spec)); err != nil {
			t.Fatalf("Rebind(%s, %s) error = %v", s.action, s.spec, err)
		}
	}

	// Both indices must agree for every action.
	for _, b := range r.Bindings() {
		got, ok := r.Lookup(b.Combo)
		if !ok {
			t.Errorf("combo %q missing from combo index", b.Combo.Encode())
			continue
		}
		if got.Action != b.Action {
			t.Errorf("combo %q owned by %s in combo index, %s in action index",
				b.Combo.Encode(), got.Action, b.Action)
		}
	}
}

func TestResetConflictWithOverride(t *testing.T) {
	r := NewRegistry()

	// tag search takes create-note's default; create-note moves elsewhere.
	if err := r.Rebind(ActionCreateNote, key.MustParse("ctrl+k")); err != nil {
		t.Fatal(err)
	}
	if err := r.Rebind(ActionOpenTagSearch, key.MustParse("ctrl+a")); err != nil {
		t.Fatal(err)
	}

	err := r.Reset(ActionCreateNote)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Reset() error = %v, want *ConflictError", err)
	}
	if conflict.Owner != ActionOpenTagSearch {
		t.Errorf("conflict.Owner = %s, want %s", conflict.Owner, ActionOpenTagSearch)
	}
}

func TestParseAction(t *testing.T) {
	if _, err := ParseAction("note.create"); err != nil {
		t.Errorf("ParseAction(note.create) error = %v", err)
	}
	if _, err := ParseAction("nope"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("ParseAction(nope) error = %v, want ErrUnknownAction", err)
	}
}

func TestLabel(t *testing.T) {
	r := NewRegistry()
	if got := r.Label(ActionRedo); got != "Ctrl+Shift+Z" {
		t.Errorf("Label(edit.redo) = %q, want %q", got, "Ctrl+Shift+Z")
	}
	if got := r.Label(Action("bogus")); got != "" {
		t.Errorf("Label(bogus) = %q, want empty", got)
	}
}

func TestAdopt(t *testing.T) {
	r := NewRegistry()
	other := NewRegistry()
	if err := other.Rebind(ActionCreateNote, key.MustParse("ctrl+k")); err != nil {
		t.Fatal(err)
	}

	r.Adopt(other)

	b, ok := r.Lookup(key.MustParse("ctrl+k"))
	if !ok || b.Action != ActionCreateNote {
		t.Errorf("Lookup(ctrl+k) = %v, %v; want note.create", b, ok)
	}
	if _, ok := r.Lookup(key.MustParse("ctrl+a")); ok {
		t.Error("old combo still resolves after Adopt")
	}
}
