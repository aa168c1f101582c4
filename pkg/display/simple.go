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

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatSnapshot implements Formatter.FormatSnapshot.
func (f *simpleFormatter) FormatSnapshot(w io.Writer, snap stats.Snapshot) error {
	line := fmt.Sprintf("Raw: %s | Processed: %s | Filtered: %s | Emitted: %s | Errors: %s",
		formatNumber(snap.RawEvents),
		formatNumber(snap.ProcessedEvents),
		formatNumber(snap.FilteredEvents),
		formatNumber(snap.EventsEmitted),
		formatNumber(snap.Errors))

	if f.config.ShowDerived {
		line += fmt.Sprintf(" | Efficiency: %s | Throughput: %s",
			formatPercent(snap.FilterEfficiency()),
			formatPercent(snap.Throughput()))
	}

	_, err := fmt.Fprintln(w, line)
	return err
}

// FormatEvent implements Formatter.FormatEvent.
func (f *simpleFormatter) FormatEvent(w io.Writer, evt event.Event) error {
	prefix := ""
	if f.config.ShowTimestamps {
		prefix = time.Unix(evt.Timestamp, 0).Format("15:04:05") + " "
	}

	_, err := fmt.Fprintf(w, "%s[%s] %s: %s\n",
		prefix,
		evt.Source,
		evt.Kind,
		strings.Join(evt.Paths, ", "))
	return err
}

// FormatRules implements Formatter.FormatRules.
func (f *simpleFormatter) FormatRules(w io.Writer, rules []filter.Rule) error {
	for i, rule := range rules {
		line := fmt.Sprintf("#%d %s: %s %q", i+1, rule.Kind, rule.MatchType, rule.Pattern)
		if len(rule.Exceptions) > 0 {
			line += fmt.Sprintf(" (except: %s)", strings.Join(rule.Exceptions, ", "))
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
