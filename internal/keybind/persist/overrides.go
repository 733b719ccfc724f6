package persist

import (
	"encoding/json"
	"fmt"

	"github.com/lychee-app/lychee/internal/input/key"
	"github.com/lychee-app/lychee/internal/keybind"
)

// Override records the combo fields of one action that differ from its
// factory default. Absent fields mean "same as default". Overrides exist
// only on the wire; the live registry always holds fully resolved bindings.
type Override struct {
	Key   *string `json:"key,omitempty"`
	Ctrl  *bool   `json:"ctrl,omitempty"`
	Shift *bool   `json:"shift,omitempty"`
	Alt   *bool   `json:"alt,omitempty"`
}

// isEmpty returns true when no field deviates.
func (o Override) isEmpty() bool {
	return o.Key == nil && o.Ctrl == nil && o.Shift == nil && o.Alt == nil
}

// apply overlays the override's present fields onto a default combo.
func (o Override) apply(def key.Combo) key.Combo {
	combo := key.NewCombo(def.Key, def.Mods)
	if o.Key != nil {
		combo.Key = key.NormalizeSymbol(*o.Key)
	}
	combo.Mods = applyFlag(combo.Mods, key.ModCtrl, o.Ctrl)
	combo.Mods = applyFlag(combo.Mods, key.ModShift, o.Shift)
	combo.Mods = applyFlag(combo.Mods, key.ModAlt, o.Alt)
	return combo
}

func applyFlag(mods key.Modifier, mod key.Modifier, v *bool) key.Modifier {
	if v == nil {
		return mods
	}
	if *v {
		return mods.With(mod)
	}
	return mods.Without(mod)
}

// diffCombo computes the override for a live combo against its default.
// The second return is false when the combos are identical.
func diffCombo(live, def key.Combo) (Override, bool) {
	var o Override

	liveKey := key.NormalizeSymbol(live.Key)
	if liveKey != key.NormalizeSymbol(def.Key) {
		o.Key = &liveKey
	}
	for _, mod := range []key.Modifier{key.ModCtrl, key.ModShift, key.ModAlt} {
		if live.Mods.Has(mod) != def.Mods.Has(mod) {
			v := live.Mods.Has(mod)
			switch mod {
			case key.ModCtrl:
				o.Ctrl = &v
			case key.ModShift:
				o.Shift = &v
			case key.ModAlt:
				o.Alt = &v
			}
		}
	}

	return o, !o.isEmpty()
}

// Diff returns the registry's deviation from the factory defaults, keyed by
// action identifier. Actions identical to their default are omitted.
func Diff(reg *keybind.Registry) map[string]Override {
	record := make(map[string]Override)
	for _, b := range reg.Bindings() {
		def, err := keybind.DefaultBinding(b.Action)
		if err != nil {
			continue
		}
		if o, changed := diffCombo(b.Combo, def.Combo); changed {
			record[b.Action.String()] = o
		}
	}
	return record
}

// Save writes the registry's full override set as one serialized record,
// replacing whatever was stored before.
func Save(reg *keybind.Registry, store Store) error {
	data, err := json.Marshal(Diff(reg))
	if err != nil {
		return fmt.Errorf("encoding overrides: %w", err)
	}
	if err := store.Set(RecordName, string(data)); err != nil {
		return fmt.Errorf("writing %s record: %w", RecordName, err)
	}
	return nil
}

// Load reconstructs a registry from the factory defaults plus the persisted
// override record. The returned registry is always usable: a missing,
// unreadable or unparsable record degrades to the defaults, with the error
// describing what was ignored so the caller can log it.
func Load(store Store) (*keybind.Registry, error) {
	value, ok, err := store.Get(RecordName)
	if err != nil {
		return keybind.NewRegistry(), fmt.Errorf("reading %s record: %w", RecordName, err)
	}
	if !ok || value == "" {
		return keybind.NewRegistry(), nil
	}

	var record map[string]Override
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return keybind.NewRegistry(), fmt.Errorf("decoding %s record: %w", RecordName, err)
	}

	reg, err := keybind.Restore(resolve(record))
	if err != nil {
		// resolve already dropped conflicting overrides, so this only fires
		// on invariant bugs; fall back to defaults rather than crash.
		return keybind.NewRegistry(), fmt.Errorf("restoring bindings: %w", err)
	}
	return reg, nil
}

// resolve turns a raw override record into a conflict-free set of per-action
// combos. Policy for hand-edited records:
//
//   - Unknown action identifiers and no-op overrides are ignored.
//   - When two overrides resolve to the same combo, the one later in
//     canonical action order wins; the earlier is silently dropped.
//   - An override that collides with the default combo of an action whose
//     own override was absent or dropped is itself dropped. Dropping can
//     cascade, so this runs to a fixed point.
func resolve(record map[string]Override) map[keybind.Action]key.Combo {
	overrides := make(map[keybind.Action]key.Combo)
	claims := make(map[string]keybind.Action)

	for _, action := range keybind.Actions() {
		o, ok := record[action.String()]
		if !ok || o.isEmpty() {
			continue
		}
		def, err := keybind.DefaultBinding(action)
		if err != nil {
			continue
		}

		combo := o.apply(def.Combo)
		if key.NormalizeSymbol(combo.Key) == "" {
			continue
		}
		if combo.Equals(def.Combo) {
			continue
		}

		enc := combo.Encode()
		if earlier, taken := claims[enc]; taken {
			delete(overrides, earlier)
		}
		claims[enc] = action
		overrides[action] = combo
	}

	for changed := true; changed; {
		changed = false

		defaultsInUse := make(map[string]keybind.Action)
		for _, action := range keybind.Actions() {
			if _, overridden := overrides[action]; overridden {
				continue
			}
			def, err := keybind.DefaultBinding(action)
			if err != nil {
				continue
			}
			defaultsInUse[def.Combo.Encode()] = action
		}

		for _, action := range keybind.Actions() {
			combo, ok := overrides[action]
			if !ok {
				continue
			}
			if _, taken := defaultsInUse[combo.Encode()]; taken {
				delete(overrides, action)
				changed = true
			}
		}
	}

	return overrides
}
