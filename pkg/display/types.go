// Package display provides output formatting for watcher statistics,
// change events, and filter rules.
//
// It supports multiple output formats (table, JSON, simple text).
package display

import (
	"io"

	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/filter"
	"github.com/0xmhha/change-monitor/pkg/stats"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays data in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays data as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays data in simple text format.
	FormatSimple Format = "simple"
)

// Formatter formats watcher output for humans and scripts.
type Formatter interface {
	// FormatSnapshot formats a statistics snapshot.
	FormatSnapshot(w io.Writer, snap stats.Snapshot) error

	// FormatEvent formats a single change event.
	FormatEvent(w io.Writer, evt event.Event) error

	// FormatRules formats the active filter rules.
	FormatRules(w io.Writer, rules []filter.Rule) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// ShowDerived adds the filter efficiency and throughput rows to
	// statistics output.
	// Default: true.
	ShowDerived bool

	// ShowTimestamps enables timestamp display on events.
	// Default: true.
	ShowTimestamps bool

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}
