package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/filter"
	"github.com/0xmhha/change-monitor/pkg/stats"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// FormatSnapshot implements Formatter.FormatSnapshot.
func (f *jsonFormatter) FormatSnapshot(w io.Writer, snap stats.Snapshot) error {
	return f.encode(w, snap)
}

// FormatEvent implements Formatter.FormatEvent.
func (f *jsonFormatter) FormatEvent(w io.Writer, evt event.Event) error {
	return f.encode(w, evt)
}

// FormatRules implements Formatter.FormatRules.
func (f *jsonFormatter) FormatRules(w io.Writer, rules []filter.Rule) error {
	return f.encode(w, rules)
}

func (f *jsonFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(v)
}
