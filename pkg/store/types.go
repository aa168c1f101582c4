// Package store persists named watch profiles in BoltDB. A profile
// bundles a watch configuration under a human-chosen name so a run can
// be reproduced later without a config file.
package store

import (
	"time"

	"github.com/0xmhha/change-monitor/pkg/config"
)

// Profile is a saved watch configuration.
type Profile struct {
	// Name is the unique key.
	Name string `json:"name"`

	// Description is free text shown in listings.
	Description string `json:"description,omitempty"`

	// Watch is the saved configuration.
	Watch config.WatchConfig `json:"watch"`

	// CreatedAt is set on first save and preserved by later saves.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is bumped on every save.
	UpdatedAt time.Time `json:"updated_at"`
}

// Config configures the profile store.
type Config struct {
	// Path is the database file location. A ~ prefix is expanded.
	Path string

	// Timeout bounds the wait for the database file lock.
	Timeout time.Duration
}

// Store manages saved profiles.
type Store interface {
	// Save creates or replaces the profile under its name. The watch
	// configuration is validated first.
	Save(profile *Profile) error

	// Get returns the named profile or ErrProfileNotFound.
	Get(name string) (*Profile, error)

	// List returns all profiles in name order.
	List() ([]*Profile, error)

	// Delete removes the named profile or returns ErrProfileNotFound.
	Delete(name string) error

	// Close releases the database.
	Close() error
}
