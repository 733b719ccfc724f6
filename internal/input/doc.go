// Package input routes key events from an input source to the action bus.
//
// The dispatcher owns the scoping policy: which bindings fire globally,
// which are suppressed while an editable text widget has focus, and when a
// key event passes through untouched. A rebind capture can intercept events
// ahead of dispatch to record a new combo for an action.
package input
