package discovery

import "errors"

// Common errors returned by the discovery package.
var (
	// ErrRootNotFound is returned when the project root does not exist.
	ErrRootNotFound = errors.New("project root not found")

	// ErrNoTargetsFound is returned when no candidate target is present
	// under the project root.
	ErrNoTargetsFound = errors.New("no watch targets found")
)
