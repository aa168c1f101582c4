// Package discovery inspects a project root and reports which watch
// targets it actually contains, so a watch policy can be assembled from
// the directories a project has instead of a fixed list.
//
// Example usage:
//
//	d := discovery.New(nil, logger.Default())
//	targets, err := d.Discover("/path/to/project")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range targets {
//	    fmt.Printf("Target: %s (%s)\n", t.Path, t.Description)
//	}
package discovery

import (
	"fmt"
	"os"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/logger"
)

// Discoverer probes a project root for watchable targets.
type Discoverer interface {
	// Discover checks each candidate target under root and returns the
	// ones that exist, in candidate order.
	//
	// Returns ErrRootNotFound if root itself does not exist, and
	// ErrNoTargetsFound if no candidate is present. Candidates that
	// cannot be checked are skipped with a warning.
	Discover(root string) ([]config.WatchTarget, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	candidates []config.WatchTarget
	log        logger.Logger
}

// New creates a Discoverer probing for the given candidate targets.
// A nil candidates slice probes for Candidates(); a nil log discards
// diagnostics.
func New(candidates []config.WatchTarget, log logger.Logger) Discoverer {
	if candidates == nil {
		candidates = Candidates()
	}
	if log == nil {
		log = logger.Noop()
	}
	return &discoverer{
		candidates: candidates,
		log:        log,
	}
}

// Candidates returns the default probe list: every target the built-in
// policies know about, ordered by priority.
func Candidates() []config.WatchTarget {
	return []config.WatchTarget{
		config.ClaudeDir(),
		config.SrcDir(),
		config.GitDir(),
		config.TestsDir(),
		config.ConfigFiles(),
	}
}

// Discover implements Discoverer.Discover.
func (d *discoverer) Discover(root string) ([]config.WatchTarget, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat root %s: %w", root, err)
	}

	found := make([]config.WatchTarget, 0, len(d.candidates))

	for _, candidate := range d.candidates {
		resolved := candidate.ResolvePath(root)

		if _, err := os.Stat(resolved); err != nil {
			if os.IsNotExist(err) {
				d.log.Debug("target not present, skipping",
					"path", resolved)
				continue
			}
			d.log.Warn("failed to check target, skipping",
				"path", resolved,
				"error", err)
			continue
		}

		d.log.Debug("target present",
			"path", resolved,
			"description", candidate.Description)
		found = append(found, candidate)
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTargetsFound, root)
	}

	d.log.Info("discovery complete",
		"root", root,
		"targets_found", len(found))
	return found, nil
}
