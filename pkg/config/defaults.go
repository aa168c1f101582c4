package config

import (
	"os"
	"path/filepath"
)

// ClaudeDir returns a target for the .claude directory, which carries
// Claude Code configuration and task state.
func ClaudeDir() WatchTarget {
	return NewTarget(".claude", "Claude Code configuration and state").
		WithRecursive(true).
		WithPriority(10)
}

// SrcDir returns a target for the src directory.
func SrcDir() WatchTarget {
	return NewTarget("src", "Source code for test re-runs").
		WithRecursive(true).
		WithPriority(8)
}

// GitDir returns a target for git branch heads, enabling commit detection.
func GitDir() WatchTarget {
	return NewTarget(filepath.Join(".git", "refs", "heads"), "Git commit detection").
		WithRecursive(true).
		WithPriority(7)
}

// TestsDir returns a target for the tests directory.
func TestsDir() WatchTarget {
	return NewTarget("tests", "Test files")
}

// ConfigFiles returns a non-recursive target for top-level config files.
func ConfigFiles() WatchTarget {
	return NewTarget(".", "Configuration files").
		WithRecursive(false).
		WithPriority(6)
}

// DefaultWatch returns the default watch policy: the .claude directory,
// the source tree, and top-level config files, coalesced over 100ms.
func DefaultWatch() *WatchConfig {
	return &WatchConfig{
		Targets: []WatchTarget{
			ClaudeDir(),
			SrcDir(),
			ConfigFiles(),
		},
		DebounceMs:      100,
		Recursive:       true,
		EventBufferSize: 1000,
		Verbose:         false,
	}
}

// Default returns the complete application configuration defaults.
func Default() *Config {
	return &Config{
		Watch: *DefaultWatch(),
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8137",
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
	}
}

// Preset names a canned watch policy.
type Preset string

// Available presets.
const (
	// PresetDefault is the standard policy from DefaultWatch.
	PresetDefault Preset = "default"

	// PresetDevelopment shortens the debounce window and turns on
	// verbose logging for fast feedback.
	PresetDevelopment Preset = "development"

	// PresetProduction lengthens the debounce window and stays quiet.
	PresetProduction Preset = "production"

	// PresetTesting watches source and test trees only.
	PresetTesting Preset = "testing"
)

// ParsePreset resolves a preset name, case-sensitively.
func ParsePreset(name string) (Preset, error) {
	switch Preset(name) {
	case PresetDefault, PresetDevelopment, PresetProduction, PresetTesting:
		return Preset(name), nil
	default:
		return "", ErrUnknownPreset
	}
}

// ForPreset returns the watch policy for a preset. Unknown presets fall
// back to the default policy.
func ForPreset(p Preset) *WatchConfig {
	cfg := DefaultWatch()

	switch p {
	case PresetDevelopment:
		cfg.DebounceMs = 50
		cfg.Verbose = true
	case PresetProduction:
		cfg.DebounceMs = 200
		cfg.Verbose = false
	case PresetTesting:
		cfg.Targets = []WatchTarget{
			SrcDir(),
			TestsDir(),
		}
		cfg.DebounceMs = 100
	}

	return cfg
}

// defaultStorePath returns the default profile database path,
// ~/.change-monitor/profiles.db.
func defaultStorePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./profiles.db"
	}

	return filepath.Join(homeDir, ".change-monitor", "profiles.db")
}

// defaultConfigPath returns the default configuration file path,
// ~/.change-monitor/config.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".change-monitor", "config.yaml")
}
