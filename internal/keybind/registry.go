package keybind

import (
	"errors"
	"sync"

	"github.com/lychee-app/lychee/internal/input/key"
)

// ErrInvalidCombo is returned when a rebind target has no key symbol.
var ErrInvalidCombo = errors.New("invalid key combo")

// Registry is the mutable source of truth for the active binding set. It
// keeps two indices over the same bindings: by action and by encoded combo.
// Every known action has exactly one binding at all times, and no two
// bindings share an encoded combo.
//
// All mutation happens under a single lock, so rebind, reset and lookups are
// safe to call from a multi-threaded host even though the core event path is
// single-threaded.
type Registry struct {
	mu sync.RWMutex

	// byAction holds the unique binding for each known action.
	byAction map[Action]Binding

	// byCombo maps encoded combos to the owning action.
	byCombo map[string]Action
}

// NewRegistry creates a registry populated with the factory defaults.
func NewRegistry() *Registry {
	r := &Registry{
		byAction: make(map[Action]Binding, len(actionOrder)),
		byCombo:  make(map[string]Action, len(actionOrder)),
	}
	for _, action := range actionOrder {
		b := defaultTable[action]
		r.byAction[action] = b
		r.byCombo[b.Combo.Encode()] = action
	}
	return r
}

// Restore builds a registry from per-action combos layered over the factory
// defaults. Actions absent from combos keep their defaults. The layered
// result must be conflict-free; persistence resolves override conflicts
// before calling this.
func Restore(combos map[Action]key.Combo) (*Registry, error) {
	r := &Registry{
		byAction: make(map[Action]Binding, len(actionOrder)),
		byCombo:  make(map[string]Action, len(actionOrder)),
	}

	for _, action := range actionOrder {
		b := defaultTable[action]
		if combo, ok := combos[action]; ok {
			if key.NormalizeSymbol(combo.Key) == "" {
				return nil, ErrInvalidCombo
			}
			b.Combo = key.NewCombo(combo.Key, combo.Mods)
		}

		enc := b.Combo.Encode()
		if owner, taken := r.byCombo[enc]; taken {
			return nil, &ConflictError{Action: action, Owner: owner, Encoded: enc}
		}

		r.byAction[action] = b
		r.byCombo[enc] = action
	}

	return r, nil
}

// Lookup returns the binding owning the given combo, if any. O(1) via the
// combo index.
func (r *Registry) Lookup(combo key.Combo) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.byCombo[combo.Encode()]
	if !ok {
		return Binding{}, false
	}
	return r.byAction[action], true
}

// BindingFor returns the current binding for an action. Every known action
// always has a binding; only unknown actions fail.
func (r *Registry) BindingFor(action Action) (Binding, error) {
	if !action.Valid() {
		return Binding{}, &UnknownActionError{ID: string(action)}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byAction[action], nil
}

// Label returns the human-readable combo label for an action, or "" for an
// unknown action.
func (r *Registry) Label(action Action) string {
	b, err := r.BindingFor(action)
	if err != nil {
		return ""
	}
	return b.Label()
}

// Bindings returns the current binding set in canonical order.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(actionOrder))
	for _, action := range actionOrder {
		out = append(out, r.byAction[action])
	}
	return out
}

// Rebind assigns a new combo to an action. If another action already owns the
// combo, a *ConflictError naming the owner is returned and the registry is
// left unchanged. Rebinding an action to its current combo is a no-op.
func (r *Registry) Rebind(action Action, combo key.Combo) error {
	if !action.Valid() {
		return &UnknownActionError{ID: string(action)}
	}
	if key.NormalizeSymbol(combo.Key) == "" {
		return ErrInvalidCombo
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.conflictLocked(combo, action); ok {
		return &ConflictError{Action: action, Owner: owner, Encoded: combo.Encode()}
	}

	r.applyLocked(action, combo)
	return nil
}

// Reset restores the factory-default binding for an action, removing any
// override. Fails with a *ConflictError if another action's override has
// claimed the default combo in the meantime.
func (r *Registry) Reset(action Action) error {
	if !action.Valid() {
		return &UnknownActionError{ID: string(action)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	def := defaultTable[action]
	if owner, ok := r.conflictLocked(def.Combo, action); ok {
		return &ConflictError{Action: action, Owner: owner, Encoded: def.Combo.Encode()}
	}

	r.applyLocked(action, def.Combo)
	return nil
}

// ResetAll restores every action to its factory default.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byAction = make(map[Action]Binding, len(actionOrder))
	r.byCombo = make(map[string]Action, len(actionOrder))
	for _, action := range actionOrder {
		b := defaultTable[action]
		r.byAction[action] = b
		r.byCombo[b.Combo.Encode()] = action
	}
}

// Adopt atomically replaces this registry's bindings with other's. Used for
// live reload when the persisted record changes on disk.
func (r *Registry) Adopt(other *Registry) {
	bindings := other.Bindings()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byAction = make(map[Action]Binding, len(bindings))
	r.byCombo = make(map[string]Action, len(bindings))
	for _, b := range bindings {
		r.byAction[b.Action] = b
		r.byCombo[b.Combo.Encode()] = b.Action
	}
}

// Owner returns the action currently owning a combo, if any.
func (r *Registry) Owner(combo key.Combo) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.byCombo[combo.Encode()]
	return action, ok
}

// IsDefault returns true if the action's current combo matches its factory
// default.
func (r *Registry) IsDefault(action Action) bool {
	b, err := r.BindingFor(action)
	if err != nil {
		return false
	}
	return b.Combo.Equals(defaultTable[action].Combo)
}

// conflictLocked is the single enforcement point for combo uniqueness. It
// reports the owning action when the combo is held by an action other than
// except. Caller must hold the lock.
func (r *Registry) conflictLocked(combo key.Combo, except Action) (Action, bool) {
	owner, ok := r.byCombo[combo.Encode()]
	if !ok || owner == except {
		return "", false
	}
	return owner, true
}

// applyLocked updates both indices for an action's new combo. Caller must
// hold the lock and have cleared conflicts first.
func (r *Registry) applyLocked(action Action, combo key.Combo) {
	old := r.byAction[action]
	delete(r.byCombo, old.Combo.Encode())

	b := Binding{
		Action:      action,
		Combo:       key.NewCombo(combo.Key, combo.Mods),
		Description: defaultTable[action].Description,
	}
	r.byAction[action] = b
	r.byCombo[b.Combo.Encode()] = action
}
