package plugin

import "errors"

var (
	// ErrNotFound is returned when addressing a plugin the manager does not
	// know about.
	ErrNotFound = errors.New("plugin: not found")

	// ErrAlreadyLoaded is returned when loading a host twice.
	ErrAlreadyLoaded = errors.New("plugin: already loaded")
)
