package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoTargets is returned when a watch policy has no targets.
	ErrNoTargets = errors.New("at least one watch target must be specified")

	// ErrDebounceOutOfRange is returned when the debounce window is 0
	// or exceeds 10 seconds.
	ErrDebounceOutOfRange = errors.New("debounce delay must be between 1ms and 10s")

	// ErrUnknownPreset is returned for an unrecognized preset name.
	ErrUnknownPreset = errors.New("unknown preset: must be default, development, production, or testing")

	// ErrConfigNotFound is returned when the config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when the config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
