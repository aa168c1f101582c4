package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader loads application configuration from its sources.
type Loader interface {
	// Load merges defaults, the config file (if any), and environment
	// overrides, then validates the result.
	Load() (*Config, error)

	// LoadFromFile reads configuration from a specific file without
	// applying defaults or environment overrides.
	LoadFromFile(path string) (*Config, error)
}

type loader struct {
	configPath string
}

// NewLoader creates a configuration loader. If configPath is empty, the
// loader searches ./change-monitor.yaml and ~/.change-monitor/config.yaml.
func NewLoader(configPath string) Loader {
	return &loader{configPath: configPath}
}

func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.configPath
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicitly named file must load; discovered
			// candidates may be absent.
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = merge(cfg, fileCfg)
		}
	}

	cfg = applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// findConfigFile returns the first existing candidate path, or "".
func (l *loader) findConfigFile() string {
	candidates := []string{
		"./change-monitor.yaml",
		defaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// merge overlays non-zero file values onto the defaults.
func merge(base, override *Config) *Config {
	result := *base

	if len(override.Watch.Targets) > 0 {
		result.Watch.Targets = override.Watch.Targets
	}
	if override.Watch.DebounceMs > 0 {
		result.Watch.DebounceMs = override.Watch.DebounceMs
	}
	if override.Watch.EventBufferSize > 0 {
		result.Watch.EventBufferSize = override.Watch.EventBufferSize
	}
	// Plain bools: the file value always wins, absent keys read as false.
	result.Watch.Recursive = override.Watch.Recursive
	result.Watch.Verbose = override.Watch.Verbose

	if len(override.Filter.ExtraRules) > 0 {
		result.Filter.ExtraRules = override.Filter.ExtraRules
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}

	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}

	return &result
}

// applyEnv applies environment variable overrides.
//
// Supported variables:
//   - CHANGE_MONITOR_DEBOUNCE_MS: debounce window in milliseconds
//   - CHANGE_MONITOR_BUFFER_SIZE: event channel capacity
//   - CHANGE_MONITOR_VERBOSE: verbose watch logging (true/false)
//   - CHANGE_MONITOR_LOG_LEVEL: log level
//   - CHANGE_MONITOR_ADDR: serve-mode listen address
//   - CHANGE_MONITOR_STORE: profile database path
func applyEnv(cfg *Config) *Config {
	result := *cfg

	if v := os.Getenv("CHANGE_MONITOR_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.ParseUint(v, 10, 64); err == nil {
			result.Watch.DebounceMs = ms
		}
	}

	if v := os.Getenv("CHANGE_MONITOR_BUFFER_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			result.Watch.EventBufferSize = n
		}
	}

	if v := os.Getenv("CHANGE_MONITOR_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			result.Watch.Verbose = b
		}
	}

	if v := os.Getenv("CHANGE_MONITOR_LOG_LEVEL"); v != "" {
		result.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv("CHANGE_MONITOR_ADDR"); v != "" {
		result.Server.Addr = v
	}

	if v := os.Getenv("CHANGE_MONITOR_STORE"); v != "" {
		result.Store.Path = v
	}

	return &result
}

// Load creates a loader with default search paths and loads configuration.
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile loads configuration from an explicit file path, with
// defaults and environment overrides applied around it.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed. The file is written with 0600 permissions.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
