package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/filter"
	"github.com/0xmhha/change-monitor/pkg/stats"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatSnapshot implements Formatter.FormatSnapshot.
func (f *tableFormatter) FormatSnapshot(w io.Writer, snap stats.Snapshot) error {
	if err := writeHeader(w, "Watcher Statistics", f.config.Compact); err != nil {
		return err
	}

	rows := [][]string{
		{"Raw Events", formatNumber(snap.RawEvents)},
		{"Processed Events", formatNumber(snap.ProcessedEvents)},
		{"Filtered Events", formatNumber(snap.FilteredEvents)},
		{"Events Emitted", formatNumber(snap.EventsEmitted)},
		{"Errors", formatNumber(snap.Errors)},
	}

	if f.config.ShowDerived {
		rows = append(rows,
			[]string{"Filter Efficiency", formatPercent(snap.FilterEfficiency())},
			[]string{"Throughput", formatPercent(snap.Throughput())},
		)
	}

	return f.writeTable(w, []string{"Metric", "Value"}, rows)
}

// FormatEvent implements Formatter.FormatEvent.
func (f *tableFormatter) FormatEvent(w io.Writer, evt event.Event) error {
	rows := [][]string{
		{"Type", string(evt.Kind)},
		{"Source", evt.Source},
		{"Paths", strings.Join(evt.Paths, ", ")},
	}

	if f.config.ShowTimestamps {
		rows = append(rows, []string{
			"Time", time.Unix(evt.Timestamp, 0).Format("2006-01-02 15:04:05"),
		})
	}

	return f.writeTable(w, []string{"Field", "Value"}, rows)
}

// FormatRules implements Formatter.FormatRules.
func (f *tableFormatter) FormatRules(w io.Writer, rules []filter.Rule) error {
	if err := writeHeader(w, "Filter Rules", f.config.Compact); err != nil {
		return err
	}

	header := []string{"#", "Kind", "Match", "Pattern", "Exceptions"}

	rows := make([][]string, len(rules))
	for i, rule := range rules {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			string(rule.Kind),
			string(rule.MatchType),
			rule.Pattern,
			strings.Join(rule.Exceptions, ", "),
		}
	}

	return f.writeTable(w, header, rows)
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	// Calculate column widths.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Write header.
	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	// Write separator.
	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	// Write rows.
	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	// Add spacing.
	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	for i, cell := range cells {
		if i > 0 {
			if f.config.Compact {
				if _, err := fmt.Fprint(w, " "); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprint(w, "  "); err != nil {
					return err
				}
			}
		}

		format := fmt.Sprintf("%%-%ds", widths[i])
		if _, err := fmt.Fprintf(w, format, cell); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}
