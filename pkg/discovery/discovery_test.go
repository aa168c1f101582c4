package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/logger"
)

func TestNew(t *testing.T) {
	d := New(nil, nil)
	if d == nil {
		t.Error("New() returned nil")
	}
}

func TestCandidates(t *testing.T) {
	candidates := Candidates()

	if len(candidates) != 5 {
		t.Fatalf("Candidates() returned %d entries, want 5", len(candidates))
	}

	// Priority order, config files last.
	if candidates[0].Path != ".claude" {
		t.Errorf("first candidate = %q, want .claude", candidates[0].Path)
	}
	if candidates[len(candidates)-1].Path != "." {
		t.Errorf("last candidate = %q, want .", candidates[len(candidates)-1].Path)
	}

	for _, c := range candidates {
		if c.Description == "" {
			t.Errorf("candidate %q has empty description", c.Path)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()

	// Present: .claude, src, tests. Absent: .git/refs/heads.
	for _, dir := range []string{".claude", "src", "tests"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0700); err != nil {
			t.Fatal(err)
		}
	}

	d := New(nil, logger.Noop())

	targets, err := d.Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	// The root itself satisfies the config-files candidate.
	want := []string{".claude", "src", "tests", "."}
	if len(targets) != len(want) {
		t.Fatalf("Discover() found %d targets, want %d", len(targets), len(want))
	}

	for i, target := range targets {
		if target.Path != want[i] {
			t.Errorf("targets[%d].Path = %q, want %q", i, target.Path, want[i])
		}
	}
}

func TestDiscoverGitHeads(t *testing.T) {
	root := t.TempDir()

	heads := filepath.Join(root, ".git", "refs", "heads")
	if err := os.MkdirAll(heads, 0700); err != nil {
		t.Fatal(err)
	}

	d := New(nil, logger.Noop())

	targets, err := d.Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	found := false
	for _, target := range targets {
		if target.Path == filepath.Join(".git", "refs", "heads") {
			found = true
		}
	}
	if !found {
		t.Error("git heads target not discovered")
	}
}

func TestDiscoverEmptyRoot(t *testing.T) {
	root := t.TempDir()

	d := New(nil, logger.Noop())

	targets, err := d.Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	// Only the config-files candidate matches an empty root.
	if len(targets) != 1 {
		t.Fatalf("Discover() found %d targets, want 1", len(targets))
	}
	if targets[0].Path != "." {
		t.Errorf("targets[0].Path = %q, want .", targets[0].Path)
	}
}

func TestDiscoverRootNotFound(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nonexistent")

	d := New(nil, logger.Noop())

	_, err := d.Discover(root)
	if !errors.Is(err, ErrRootNotFound) {
		t.Errorf("Discover() error = %v, want ErrRootNotFound", err)
	}
}

func TestDiscoverNoTargetsFound(t *testing.T) {
	root := t.TempDir()

	candidates := []config.WatchTarget{
		config.NewTarget("missing-one", "not there"),
		config.NewTarget("missing-two", "also not there"),
	}
	d := New(candidates, logger.Noop())

	_, err := d.Discover(root)
	if !errors.Is(err, ErrNoTargetsFound) {
		t.Errorf("Discover() error = %v, want ErrNoTargetsFound", err)
	}
}

func TestDiscoverCustomCandidates(t *testing.T) {
	root := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "lib"), 0700); err != nil {
		t.Fatal(err)
	}

	candidates := []config.WatchTarget{
		config.NewTarget("lib", "Library code"),
		config.NewTarget("vendor", "Vendored deps"),
	}
	d := New(candidates, logger.Noop())

	targets, err := d.Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(targets) != 1 {
		t.Fatalf("Discover() found %d targets, want 1", len(targets))
	}
	if targets[0].Path != "lib" {
		t.Errorf("targets[0].Path = %q, want lib", targets[0].Path)
	}
}

func TestDiscoverFileTarget(t *testing.T) {
	root := t.TempDir()

	// A candidate may name a file rather than a directory.
	if err := os.WriteFile(filepath.Join(root, "Makefile"), []byte("all:\n"), 0600); err != nil {
		t.Fatal(err)
	}

	candidates := []config.WatchTarget{
		config.NewTarget("Makefile", "Build entry point").WithRecursive(false),
	}
	d := New(candidates, logger.Noop())

	targets, err := d.Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(targets) != 1 || targets[0].Path != "Makefile" {
		t.Errorf("Discover() = %+v, want the Makefile target", targets)
	}
}
