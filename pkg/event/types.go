// Package event models classified filesystem changes and their batching.
//
// A raw change (created, modified, deleted) is reclassified by path into
// a semantic kind where the path warrants it: edits under .claude/ become
// claude_state_changed, branch head updates become git_commit, and config
// or source file edits are tagged for reload and test re-run decisions.
// Events from one debounce window travel together in a Batch, which can
// be split into high- and normal-priority partitions.
package event

import (
	"strings"
)

// Kind tags an event with a raw or semantic change category. Semantic
// kinds win over raw kinds once path classification runs. The string
// values are the wire representation.
type Kind string

// Event kinds.
const (
	// KindCreated marks a new file or directory.
	KindCreated Kind = "created"

	// KindModified marks a content change.
	KindModified Kind = "modified"

	// KindDeleted marks a removal.
	KindDeleted Kind = "deleted"

	// KindRenamed marks a rename. Present in the vocabulary for
	// consumers; the current pipeline does not produce it.
	KindRenamed Kind = "renamed"

	// KindClaudeStateChanged marks a change under a .claude directory.
	KindClaudeStateChanged Kind = "claude_state_changed"

	// KindSourceChanged marks a source file change.
	KindSourceChanged Kind = "source_changed"

	// KindConfigChanged marks a configuration file change.
	KindConfigChanged Kind = "config_changed"

	// KindGitCommit marks a git branch head update.
	KindGitCommit Kind = "git_commit"

	// KindMetadataChanged marks a permissions or ownership change.
	// Present in the vocabulary; the current pipeline does not
	// produce it.
	KindMetadataChanged Kind = "metadata_changed"

	// KindOther marks anything else.
	KindOther Kind = "other"
)

// IsHighPriority reports whether events of this kind are dispatched
// ahead of others in their batch.
func (k Kind) IsHighPriority() bool {
	return k == KindClaudeStateChanged || k == KindGitCommit
}

// String returns the wire representation.
func (k Kind) String() string {
	return string(k)
}

// configSuffixes are file suffixes classified as configuration changes.
var configSuffixes = []string{".toml", ".json", ".yaml", ".yml", ".env"}

// sourceSuffixes are file suffixes classified as source changes.
var sourceSuffixes = []string{".go", ".rs", ".ts", ".tsx", ".js", ".jsx"}

// ClassifyPath reclassifies a raw kind using the path. Precedence, first
// match wins:
//  1. a path under .claude/ is a Claude state change
//  2. a branch head or .git/HEAD update is a git commit
//  3. a config suffix is a config change
//  4. a source suffix is a source change
//  5. otherwise the base kind stands.
func ClassifyPath(base Kind, path string) Kind {
	if strings.Contains(path, "/.claude/") {
		return KindClaudeStateChanged
	}

	if strings.Contains(path, "/.git/refs/heads/") || strings.HasSuffix(path, "/.git/HEAD") {
		return KindGitCommit
	}

	for _, suffix := range configSuffixes {
		if strings.HasSuffix(path, suffix) {
			return KindConfigChanged
		}
	}

	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(path, suffix) {
			return KindSourceChanged
		}
	}

	return base
}

// Source derives the coarse origin tag for a path. Checked by substring
// in priority order: claude, git, source, tests, then project.
func Source(path string) string {
	switch {
	case strings.Contains(path, "/.claude/"):
		return "claude"
	case strings.Contains(path, "/.git/"):
		return "git"
	case strings.Contains(path, "/src/"):
		return "source"
	case strings.Contains(path, "/tests/"):
		return "tests"
	default:
		return "project"
	}
}
