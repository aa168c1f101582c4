// Package filter decides which filesystem paths are noise.
//
// A Filter holds an ordered list of rules. Each rule names a reason
// (build artifact, lock file, IDE cruft) and a pattern; the first rule
// that matches a path excludes it. Paths no rule matches are watched.
//
// Example usage:
//
//	f := filter.New()
//	f.ShouldWatch("/repo/src/main.go")            // true
//	f.ShouldWatch("/repo/node_modules/x/index.js") // false
package filter

import (
	"path/filepath"
	"strings"
)

// RuleKind classifies why a rule excludes paths. Diagnostic only; it has
// no effect on matching.
type RuleKind string

// Rule kinds.
const (
	KindBuildArtifact RuleKind = "build_artifact"
	KindTemporaryFile RuleKind = "temporary_file"
	KindLockFile      RuleKind = "lock_file"
	KindIDE           RuleKind = "ide"
	KindOSFile        RuleKind = "os_file"
	KindGitInternal   RuleKind = "git_internal"
	KindLogFile       RuleKind = "log_file"
	KindTestArtifact  RuleKind = "test_artifact"
	KindHidden        RuleKind = "hidden"
	KindCustom        RuleKind = "custom"
)

// MatchType selects how a rule's pattern is applied to a path.
type MatchType string

// Match types.
const (
	// MatchContains matches the pattern as a substring anywhere in the path.
	MatchContains MatchType = "contains"

	// MatchExtension matches the pattern as a suffix of the full path.
	MatchExtension MatchType = "extension"

	// MatchStartsWith matches the pattern as a prefix of the filename
	// component only, not the full path.
	MatchStartsWith MatchType = "starts_with"

	// MatchEndsWith matches the pattern as a suffix of the full path.
	MatchEndsWith MatchType = "ends_with"

	// MatchRegex is reserved. Rules with this type never match.
	MatchRegex MatchType = "regex"
)

// Rule is one ignore predicate.
type Rule struct {
	// Kind records why matching paths are excluded.
	Kind RuleKind `yaml:"kind" json:"kind"`

	// Pattern to match.
	Pattern string `yaml:"pattern" json:"pattern"`

	// MatchType selects the matching strategy.
	MatchType MatchType `yaml:"match_type" json:"match_type"`

	// Exceptions disable this rule for any path containing one of
	// these substrings.
	Exceptions []string `yaml:"exceptions,omitempty" json:"exceptions,omitempty"`
}

// Contains creates a rule matching the pattern anywhere in the path.
func Contains(pattern string, kind RuleKind) Rule {
	return Rule{Kind: kind, Pattern: pattern, MatchType: MatchContains}
}

// Extension creates a rule matching a file extension. A missing leading
// dot is added.
func Extension(ext string, kind RuleKind) Rule {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return Rule{Kind: kind, Pattern: ext, MatchType: MatchExtension}
}

// StartsWith creates a rule matching a filename prefix.
func StartsWith(pattern string, kind RuleKind) Rule {
	return Rule{Kind: kind, Pattern: pattern, MatchType: MatchStartsWith}
}

// EndsWith creates a rule matching a path suffix.
func EndsWith(pattern string, kind RuleKind) Rule {
	return Rule{Kind: kind, Pattern: pattern, MatchType: MatchEndsWith}
}

// WithExceptions returns a copy of the rule carrying exception substrings.
func (r Rule) WithExceptions(exceptions ...string) Rule {
	r.Exceptions = exceptions
	return r
}

// Matches reports whether the rule excludes path. Exceptions are checked
// before the pattern: a path containing any exception substring makes
// this rule inert for that path, leaving other rules unaffected.
func (r Rule) Matches(path string) bool {
	for _, exception := range r.Exceptions {
		if strings.Contains(path, exception) {
			return false
		}
	}

	switch r.MatchType {
	case MatchContains:
		return strings.Contains(path, r.Pattern)
	case MatchExtension, MatchEndsWith:
		return strings.HasSuffix(path, r.Pattern)
	case MatchStartsWith:
		return path != "" && strings.HasPrefix(filepath.Base(path), r.Pattern)
	case MatchRegex:
		// Reserved match type: never matches, never errors.
		return false
	default:
		return false
	}
}
