package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xmhha/change-monitor/pkg/filter"
)

func TestDefaultWatch(t *testing.T) {
	cfg := DefaultWatch()

	if cfg == nil {
		t.Fatal("DefaultWatch() returned nil")
	}

	if len(cfg.Targets) != 3 {
		t.Errorf("Targets = %d, want 3", len(cfg.Targets))
	}

	if cfg.DebounceMs != 100 {
		t.Errorf("DebounceMs = %d, want 100", cfg.DebounceMs)
	}

	if !cfg.Recursive {
		t.Error("Recursive not set")
	}

	if cfg.EventBufferSize != 1000 {
		t.Errorf("EventBufferSize = %d, want 1000", cfg.EventBufferSize)
	}

	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default watch config should validate: %v", err)
	}
}

func TestWatchConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WatchConfig)
		wantErr error
	}{
		{
			name:    "valid default",
			mutate:  func(*WatchConfig) {},
			wantErr: nil,
		},
		{
			name:    "empty targets",
			mutate:  func(c *WatchConfig) { c.Targets = nil },
			wantErr: ErrNoTargets,
		},
		{
			name:    "debounce zero",
			mutate:  func(c *WatchConfig) { c.DebounceMs = 0 },
			wantErr: ErrDebounceOutOfRange,
		},
		{
			name:    "debounce above ceiling",
			mutate:  func(c *WatchConfig) { c.DebounceMs = 10001 },
			wantErr: ErrDebounceOutOfRange,
		},
		{
			name:    "debounce at floor",
			mutate:  func(c *WatchConfig) { c.DebounceMs = 1 },
			wantErr: nil,
		},
		{
			name:    "debounce at ceiling",
			mutate:  func(c *WatchConfig) { c.DebounceMs = 10000 },
			wantErr: nil,
		},
		{
			name: "target without path",
			mutate: func(c *WatchConfig) {
				c.Targets = append(c.Targets, WatchTarget{Description: "nameless"})
			},
			wantErr: nil, // sentinel comparison skipped, see below
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultWatch()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.name == "target without path" {
				if err == nil {
					t.Error("expected field error for empty target path")
				}
				return
			}

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDebounceDuration(t *testing.T) {
	cfg := &WatchConfig{DebounceMs: 250}

	if got := cfg.DebounceDuration(); got != 250*time.Millisecond {
		t.Errorf("DebounceDuration() = %v, want 250ms", got)
	}
}

func TestTargetBuilders(t *testing.T) {
	tests := []struct {
		name      string
		target    WatchTarget
		path      string
		recursive bool
		priority  uint8
	}{
		{"claude dir", ClaudeDir(), ".claude", true, 10},
		{"src dir", SrcDir(), "src", true, 8},
		{"git dir", GitDir(), filepath.Join(".git", "refs", "heads"), true, 7},
		{"tests dir", TestsDir(), "tests", true, 5},
		{"config files", ConfigFiles(), ".", false, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.target.Path != tt.path {
				t.Errorf("Path = %q, want %q", tt.target.Path, tt.path)
			}
			if tt.target.Recursive != tt.recursive {
				t.Errorf("Recursive = %v, want %v", tt.target.Recursive, tt.recursive)
			}
			if tt.target.Priority != tt.priority {
				t.Errorf("Priority = %d, want %d", tt.target.Priority, tt.priority)
			}
			if tt.target.Description == "" {
				t.Error("Description is empty")
			}
		})
	}
}

func TestNewTargetDefaults(t *testing.T) {
	target := NewTarget("docs", "Documentation")

	if !target.Recursive {
		t.Error("new targets should be recursive")
	}
	if target.Priority != 5 {
		t.Errorf("Priority = %d, want 5", target.Priority)
	}
}

func TestResolvePath(t *testing.T) {
	target := NewTarget("src", "Source")

	got := target.ResolvePath("/home/user/project")
	want := filepath.Join("/home/user/project", "src")
	if got != want {
		t.Errorf("ResolvePath() = %q, want %q", got, want)
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset     Preset
		debounceMs uint64
		verbose    bool
		targets    int
	}{
		{PresetDefault, 100, false, 3},
		{PresetDevelopment, 50, true, 3},
		{PresetProduction, 200, false, 3},
		{PresetTesting, 100, false, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := ForPreset(tt.preset)

			if cfg.DebounceMs != tt.debounceMs {
				t.Errorf("DebounceMs = %d, want %d", cfg.DebounceMs, tt.debounceMs)
			}
			if cfg.Verbose != tt.verbose {
				t.Errorf("Verbose = %v, want %v", cfg.Verbose, tt.verbose)
			}
			if len(cfg.Targets) != tt.targets {
				t.Errorf("Targets = %d, want %d", len(cfg.Targets), tt.targets)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s should validate: %v", tt.preset, err)
			}
		})
	}
}

func TestPresetTestingTargets(t *testing.T) {
	cfg := ForPreset(PresetTesting)

	if cfg.Targets[0].Path != "src" {
		t.Errorf("first target = %q, want src", cfg.Targets[0].Path)
	}
	if cfg.Targets[1].Path != "tests" {
		t.Errorf("second target = %q, want tests", cfg.Targets[1].Path)
	}
}

func TestParsePreset(t *testing.T) {
	for _, name := range []string{"default", "development", "production", "testing"} {
		if _, err := ParsePreset(name); err != nil {
			t.Errorf("ParsePreset(%q) error = %v", name, err)
		}
	}

	if _, err := ParsePreset("bogus"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("ParsePreset(bogus) = %v, want ErrUnknownPreset", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
watch:
  targets:
    - path: lib
      description: Library sources
      recursive: true
      priority: 9
  debounce_ms: 75
  recursive: true
  event_buffer_size: 500
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(cfg.Watch.Targets) != 1 || cfg.Watch.Targets[0].Path != "lib" {
		t.Errorf("targets not loaded from file: %+v", cfg.Watch.Targets)
	}
	if cfg.Watch.DebounceMs != 75 {
		t.Errorf("DebounceMs = %d, want 75", cfg.Watch.DebounceMs)
	}
	if cfg.Watch.EventBufferSize != 500 {
		t.Errorf("EventBufferSize = %d, want 500", cfg.Watch.EventBufferSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Unset sections keep defaults.
	if cfg.Server.Addr == "" {
		t.Error("Server.Addr should fall back to default")
	}
}

func TestLoadExtraFilterRules(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	content := `
filter:
  extra_rules:
    - pattern: secrets
      match_type: contains
    - pattern: bak
      match_type: extension
      kind: custom
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(cfg.Filter.ExtraRules) != 2 {
		t.Fatalf("ExtraRules = %d, want 2", len(cfg.Filter.ExtraRules))
	}
	if cfg.Filter.ExtraRules[0].Pattern != "secrets" {
		t.Errorf("first rule pattern = %q, want secrets", cfg.Filter.ExtraRules[0].Pattern)
	}
	if cfg.Filter.ExtraRules[1].Kind != filter.KindCustom {
		t.Errorf("second rule kind = %q, want custom", cfg.Filter.ExtraRules[1].Kind)
	}
}

func TestFilterConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		rules   []filter.Rule
		wantErr bool
	}{
		{
			name:  "valid rule",
			rules: []filter.Rule{{Pattern: "secrets", MatchType: filter.MatchContains}},
		},
		{
			name:    "missing pattern",
			rules:   []filter.Rule{{MatchType: filter.MatchContains}},
			wantErr: true,
		},
		{
			name:    "unknown match type",
			rules:   []filter.Rule{{Pattern: "x", MatchType: "glob"}},
			wantErr: true,
		},
		{
			name: "no rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FilterConfig{ExtraRules: tt.rules}
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("watch: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if !errors.Is(err, ErrInvalidYAML) {
		t.Errorf("error = %v, want ErrInvalidYAML", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHANGE_MONITOR_DEBOUNCE_MS", "321")
	t.Setenv("CHANGE_MONITOR_VERBOSE", "true")
	t.Setenv("CHANGE_MONITOR_LOG_LEVEL", "DEBUG")
	t.Setenv("CHANGE_MONITOR_ADDR", "127.0.0.1:9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Watch.DebounceMs != 321 {
		t.Errorf("DebounceMs = %d, want 321", cfg.Watch.DebounceMs)
	}
	if !cfg.Watch.Verbose {
		t.Error("Verbose override not applied")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("Server.Addr = %q, want 127.0.0.1:9999", cfg.Server.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Watch.DebounceMs = 150
	cfg.Watch.Targets = []WatchTarget{NewTarget("pkg", "Packages")}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if loaded.Watch.DebounceMs != 150 {
		t.Errorf("DebounceMs = %d, want 150", loaded.Watch.DebounceMs)
	}
	if len(loaded.Watch.Targets) != 1 || loaded.Watch.Targets[0].Path != "pkg" {
		t.Errorf("targets did not round-trip: %+v", loaded.Watch.Targets)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Watch.Targets = nil

	err := Save(cfg, filepath.Join(t.TempDir(), "config.yaml"))
	if !errors.Is(err, ErrNoTargets) {
		t.Errorf("Save() = %v, want ErrNoTargets", err)
	}
}
