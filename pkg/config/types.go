// Package config provides the watch policy model and application
// configuration for change-monitor.
//
// The watch policy (WatchConfig) describes what to observe and with which
// debounce window. Application settings are loaded from multiple sources
// with the following precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file
// 3. Default values (lowest priority)
//
// Example usage:
//
//	cfg := config.DefaultWatch()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/0xmhha/change-monitor/pkg/filter"
)

// WatchTarget describes one directory or file to monitor, relative to a
// project root. Targets are immutable once handed to a running service.
type WatchTarget struct {
	// Path to watch, relative to the project root.
	Path string `yaml:"path" json:"path"`

	// Description is a human label, informational only.
	Description string `yaml:"description" json:"description"`

	// Recursive includes sub-paths of the target.
	Recursive bool `yaml:"recursive" json:"recursive"`

	// Priority orders targets in logs and listings (higher first).
	// It does not affect event dispatch; dispatch urgency is derived
	// from event classification.
	Priority uint8 `yaml:"priority" json:"priority"`
}

// NewTarget creates a recursive target with default priority.
func NewTarget(path, description string) WatchTarget {
	return WatchTarget{
		Path:        path,
		Description: description,
		Recursive:   true,
		Priority:    5,
	}
}

// WithRecursive returns a copy of the target with the recursion flag set.
func (t WatchTarget) WithRecursive(recursive bool) WatchTarget {
	t.Recursive = recursive
	return t
}

// WithPriority returns a copy of the target with the given priority.
func (t WatchTarget) WithPriority(priority uint8) WatchTarget {
	t.Priority = priority
	return t
}

// ResolvePath joins the target path onto the project root. Pure path
// arithmetic; existence is checked later, at watch registration time.
func (t WatchTarget) ResolvePath(projectRoot string) string {
	return filepath.Join(projectRoot, t.Path)
}

// Validate checks target field constraints.
func (t WatchTarget) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Path, validation.Required),
		validation.Field(&t.Description, validation.Length(0, 256)),
	)
}

// WatchConfig is the complete watch policy for one service run.
//
// Invariants:
// - Targets must be non-empty
// - DebounceMs must be in (0, 10000].
type WatchConfig struct {
	// Targets to watch; order affects registration and log order only.
	Targets []WatchTarget `yaml:"targets" json:"targets"`

	// DebounceMs is the coalescing window in milliseconds.
	DebounceMs uint64 `yaml:"debounce_ms" json:"debounce_ms"`

	// Recursive is the global default recursion flag. Informational;
	// the per-target flag is authoritative.
	Recursive bool `yaml:"recursive" json:"recursive"`

	// EventBufferSize sizes the outbound event channels. Advisory
	// capacity, not a hard delivery guarantee.
	EventBufferSize int `yaml:"event_buffer_size" json:"event_buffer_size"`

	// Verbose enables diagnostic logging for the run.
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DebounceDuration returns the coalescing window as a time.Duration.
func (c *WatchConfig) DebounceDuration() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Validate checks the watch policy invariants. It must pass before any
// watch handle is registered.
//
// Returns ErrNoTargets or ErrDebounceOutOfRange for the policy-level
// violations, or a field error for a malformed target.
func (c *WatchConfig) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTargets
	}

	if c.DebounceMs == 0 || c.DebounceMs > 10000 {
		return ErrDebounceOutOfRange
	}

	for i := range c.Targets {
		if err := c.Targets[i].Validate(); err != nil {
			return fmt.Errorf("target %d (%s): %w", i, c.Targets[i].Path, err)
		}
	}

	return nil
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" json:"level"`

	// Output is the destination (stdout, stderr, or a file path).
	Output string `yaml:"output" json:"output"`

	// Format is the record encoding (text, json).
	Format string `yaml:"format" json:"format"`
}

// ServerConfig contains settings for the HTTP host adapter.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `yaml:"addr" json:"addr"`
}

// StoreConfig contains settings for the watch-profile store.
type StoreConfig struct {
	// Path to the BoltDB profile database.
	Path string `yaml:"path" json:"path"`
}

// FilterConfig contains settings for the path filter engine.
type FilterConfig struct {
	// ExtraRules are appended after the built-in rules, so they only
	// see paths the built-in set keeps.
	ExtraRules []filter.Rule `yaml:"extra_rules,omitempty" json:"extra_rules,omitempty"`
}

// Validate checks each extra rule.
func (f FilterConfig) Validate() error {
	for i, rule := range f.ExtraRules {
		err := validation.ValidateStruct(&rule,
			validation.Field(&rule.Pattern, validation.Required),
			validation.Field(&rule.MatchType, validation.Required, validation.In(
				filter.MatchContains,
				filter.MatchExtension,
				filter.MatchStartsWith,
				filter.MatchEndsWith,
				filter.MatchRegex,
			)),
		)
		if err != nil {
			return fmt.Errorf("extra rule %d (%s): %w", i, rule.Pattern, err)
		}
	}
	return nil
}

// Config is the complete application configuration as loaded from disk
// and the environment.
type Config struct {
	// Watch is the default watch policy used when a run does not
	// supply its own.
	Watch WatchConfig `yaml:"watch" json:"watch"`

	// Filter settings applied to every run.
	Filter FilterConfig `yaml:"filter" json:"filter"`

	// Logging settings.
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Server settings for serve mode.
	Server ServerConfig `yaml:"server" json:"server"`

	// Store settings for named watch profiles.
	Store StoreConfig `yaml:"store" json:"store"`
}

// Validate checks the full application configuration.
func (c *Config) Validate() error {
	if err := c.Watch.Validate(); err != nil {
		return err
	}
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Validate checks logging field values.
func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// Validate checks server field values.
func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
	)
}
