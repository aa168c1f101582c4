package filter

import (
	"github.com/0xmhha/change-monitor/pkg/logger"
)

// Filter is an ordered rule set applied to changed paths. Rules are
// fixed while watching runs; mutate only between runs.
type Filter struct {
	rules []Rule

	// log, when set, records every excluded path at debug level.
	log logger.Logger
}

// New creates a filter with the default rule set.
func New() *Filter {
	return &Filter{rules: DefaultRules()}
}

// NewWithRules creates a filter with only the given rules.
func NewWithRules(rules []Rule) *Filter {
	return &Filter{rules: rules}
}

// WithLogging enables debug logging of excluded paths.
func (f *Filter) WithLogging(log logger.Logger) *Filter {
	f.log = log
	return f
}

// Add appends a rule. Later rules only run when no earlier rule matched.
func (f *Filter) Add(rule Rule) {
	f.rules = append(f.rules, rule)
}

// Clear removes all rules, leaving a filter that watches everything.
func (f *Filter) Clear() {
	f.rules = nil
}

// ShouldWatch reports whether path is worth reporting. The first rule
// that matches excludes the path; no match means watch.
func (f *Filter) ShouldWatch(path string) bool {
	for _, rule := range f.rules {
		if rule.Matches(path) {
			if f.log != nil {
				f.log.Debug("path filtered", "path", path, "rule", string(rule.Kind))
			}
			return false
		}
	}

	return true
}

// Stats returns the number of registered rules per kind.
func (f *Filter) Stats() map[RuleKind]int {
	stats := make(map[RuleKind]int)
	for _, rule := range f.rules {
		stats[rule.Kind]++
	}
	return stats
}

// Rules returns a copy of the rule list for diagnostics.
func (f *Filter) Rules() []Rule {
	out := make([]Rule, len(f.rules))
	copy(out, f.rules)
	return out
}

// DefaultRules returns the standard exclusion set: build output,
// temporary and hidden files, lock files, IDE and OS cruft, git
// internals, logs, and test reports. Git refs and HEAD are left
// watchable so commits stay detectable.
func DefaultRules() []Rule {
	return []Rule{
		// Build artifacts
		Contains("node_modules", KindBuildArtifact),
		Contains("/target/", KindBuildArtifact),
		Contains("/dist/", KindBuildArtifact),
		Contains("/build/", KindBuildArtifact),
		Contains("/.next/", KindBuildArtifact),
		Contains("/out/", KindBuildArtifact),

		// Temporary files
		Extension("tmp", KindTemporaryFile),
		Extension("temp", KindTemporaryFile),
		Extension("swp", KindTemporaryFile),
		Extension("swo", KindTemporaryFile),
		StartsWith("~", KindTemporaryFile),
		StartsWith(".", KindHidden).WithExceptions(
			".claude",
			".git",
			".env",
			".gitignore",
			".github",
		),

		// Lock files (generated)
		EndsWith("package-lock.json", KindLockFile),
		EndsWith("yarn.lock", KindLockFile),
		EndsWith("pnpm-lock.yaml", KindLockFile),
		EndsWith("Cargo.lock", KindLockFile),
		EndsWith("go.sum", KindLockFile),

		// IDE files
		Contains("/.idea/", KindIDE),
		Contains("/.vscode/", KindIDE),
		Contains("/.vs/", KindIDE),
		Extension("iml", KindIDE),

		// OS files
		EndsWith(".DS_Store", KindOSFile),
		EndsWith("Thumbs.db", KindOSFile),
		EndsWith("desktop.ini", KindOSFile),

		// Git internals (refs and HEAD stay watchable)
		Contains("/.git/objects/", KindGitInternal),
		Contains("/.git/logs/", KindGitInternal),

		// Log files
		Extension("log", KindLogFile),

		// Test reports
		Contains("/test-results/", KindTestArtifact),
		Contains("/playwright-report/", KindTestArtifact),
		Contains("/coverage/", KindTestArtifact),
	}
}
