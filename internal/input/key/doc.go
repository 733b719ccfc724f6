// Package key provides key combination types for the keybinding system.
//
// A Combo is a normalized key symbol plus modifier flags. Combos encode to
// canonical, order-independent identifiers used as registry lookup keys, and
// format to human-readable labels for display in the bindings UI.
package key
