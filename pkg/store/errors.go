package store

import "errors"

var (
	// ErrProfileNotFound is returned when no profile has the given name.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEmptyName is returned for profiles without a name.
	ErrEmptyName = errors.New("profile name must not be empty")

	// ErrInvalidProfile is returned for a nil profile.
	ErrInvalidProfile = errors.New("profile must not be nil")
)
