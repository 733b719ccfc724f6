// Package keybind is the source of truth for the application's global key
// bindings.
//
// It defines the closed set of actions, the factory-default binding table,
// and a registry that maps actions to key combos while guaranteeing that no
// two actions ever claim the same combo. All mutation goes through Rebind and
// Reset, both of which leave the registry untouched on failure.
package keybind
