// Package persist stores key binding overrides durably.
//
// Only the deviation from the factory defaults is persisted: one JSON record
// keyed by action identifier, each value holding just the combo fields that
// differ from the default. The whole record is replaced on every save, so
// there is no partial-write hazard, and adding a new default action never
// requires a migration.
//
// A missing or unreadable record is never fatal; loading degrades to the
// factory defaults.
package persist
