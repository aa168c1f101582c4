package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/filter"
	"github.com/0xmhha/change-monitor/pkg/stats"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
		want   string // Type name
	}{
		{
			name:   "default format (table)",
			config: Config{},
			want:   "*display.tableFormatter",
		},
		{
			name:   "table format",
			config: Config{Format: FormatTable},
			want:   "*display.tableFormatter",
		},
		{
			name:   "json format",
			config: Config{Format: FormatJSON},
			want:   "*display.jsonFormatter",
		},
		{
			name:   "simple format",
			config: Config{Format: FormatSimple},
			want:   "*display.simpleFormatter",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			formatter := New(tt.config)
			if formatter == nil {
				t.Fatal("New() returned nil")
			}

			got := fmt.Sprintf("%T", formatter)
			if got != tt.want {
				t.Errorf("New() type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"table", "json", "simple"} {
		got, err := ParseFormat(name)
		if err != nil {
			t.Errorf("ParseFormat(%s) error = %v", name, err)
		}
		if string(got) != name {
			t.Errorf("ParseFormat(%s) = %s", name, got)
		}
	}

	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("ParseFormat(yaml) error = nil, want error")
	}
}

func testSnapshot() stats.Snapshot {
	return stats.Snapshot{
		RawEvents:       100,
		ProcessedEvents: 400,
		FilteredEvents:  60,
		EventsEmitted:   350,
		Errors:          2,
	}
}

func TestTableFormatter_FormatSnapshot(t *testing.T) {
	t.Parallel()

	formatter := New(Config{
		Format:      FormatTable,
		ShowDerived: true,
	})

	var buf bytes.Buffer
	if err := formatter.FormatSnapshot(&buf, testSnapshot()); err != nil {
		t.Fatalf("FormatSnapshot() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Watcher Statistics",
		"Raw Events", "100",
		"Processed Events", "400",
		"Filtered Events", "60",
		"Events Emitted", "350",
		"Errors", "2",
		"Filter Efficiency", "60.0%",
		"Throughput", "87.5%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_HidesDerived(t *testing.T) {
	t.Parallel()

	formatter := New(Config{Format: FormatTable})

	var buf bytes.Buffer
	if err := formatter.FormatSnapshot(&buf, testSnapshot()); err != nil {
		t.Fatalf("FormatSnapshot() error = %v", err)
	}

	if strings.Contains(buf.String(), "Filter Efficiency") {
		t.Errorf("Output shows derived metrics without ShowDerived:\n%s", buf.String())
	}
}

func TestTableFormatter_FormatEvent(t *testing.T) {
	t.Parallel()

	formatter := New(Config{
		Format:         FormatTable,
		ShowTimestamps: true,
	})

	evt := event.New(event.KindSourceChanged, []string{"/p/src/a.go", "/p/src/b.go"}, "source")

	var buf bytes.Buffer
	if err := formatter.FormatEvent(&buf, evt); err != nil {
		t.Fatalf("FormatEvent() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"source_changed", "source", "/p/src/a.go, /p/src/b.go", "Time"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_FormatRules(t *testing.T) {
	t.Parallel()

	formatter := New(Config{Format: FormatTable})

	var buf bytes.Buffer
	if err := formatter.FormatRules(&buf, filter.DefaultRules()); err != nil {
		t.Fatalf("FormatRules() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Filter Rules", "build_artifact", "node_modules", "hidden", ".claude"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_EmptyRules(t *testing.T) {
	t.Parallel()

	formatter := New(Config{Format: FormatTable})

	var buf bytes.Buffer
	if err := formatter.FormatRules(&buf, nil); err != nil {
		t.Fatalf("FormatRules() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No data") {
		t.Errorf("Output missing empty marker:\n%s", buf.String())
	}
}

func TestJSONFormatter_FormatSnapshot(t *testing.T) {
	t.Parallel()

	formatter := New(Config{Format: FormatJSON})

	var buf bytes.Buffer
	if err := formatter.FormatSnapshot(&buf, testSnapshot()); err != nil {
		t.Fatalf("FormatSnapshot() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if decoded["raw_events"] != float64(100) {
		t.Errorf("raw_events = %v, want 100", decoded["raw_events"])
	}
	if decoded["events_emitted"] != float64(350) {
		t.Errorf("events_emitted = %v, want 350", decoded["events_emitted"])
	}
}

func TestJSONFormatter_FormatEvent(t *testing.T) {
	t.Parallel()

	formatter := New(Config{Format: FormatJSON, Compact: true})

	evt := event.New(event.KindGitCommit, []string{"/r/.git/refs/heads/main"}, "git")

	var buf bytes.Buffer
	if err := formatter.FormatEvent(&buf, evt); err != nil {
		t.Fatalf("FormatEvent() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if decoded["event_type"] != "git_commit" {
		t.Errorf("event_type = %v, want git_commit", decoded["event_type"])
	}
}

func TestSimpleFormatter_FormatSnapshot(t *testing.T) {
	t.Parallel()

	formatter := New(Config{Format: FormatSimple, ShowDerived: true})

	var buf bytes.Buffer
	if err := formatter.FormatSnapshot(&buf, testSnapshot()); err != nil {
		t.Fatalf("FormatSnapshot() error = %v", err)
	}

	out := buf.String()
	if lines := strings.Count(out, "\n"); lines != 1 {
		t.Errorf("Simple output has %d lines, want 1:\n%s", lines, out)
	}
	for _, want := range []string{"Raw: 100", "Emitted: 350", "Efficiency: 60.0%", "Throughput: 87.5%"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleFormatter_FormatEvent(t *testing.T) {
	t.Parallel()

	formatter := New(Config{Format: FormatSimple})

	evt := event.New(event.KindClaudeStateChanged, []string{"/p/.claude/settings.json"}, "claude")

	var buf bytes.Buffer
	if err := formatter.FormatEvent(&buf, evt); err != nil {
		t.Fatalf("FormatEvent() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"[claude]", "claude_state_changed", "/p/.claude/settings.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleFormatter_FormatRules(t *testing.T) {
	t.Parallel()

	formatter := New(Config{Format: FormatSimple})

	rules := []filter.Rule{
		filter.Contains("node_modules", filter.KindBuildArtifact),
		filter.StartsWith(".", filter.KindHidden).WithExceptions(".claude", ".git"),
	}

	var buf bytes.Buffer
	if err := formatter.FormatRules(&buf, rules); err != nil {
		t.Fatalf("FormatRules() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"#1 build_artifact", "node_modules", "#2 hidden", "except: .claude, .git"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}
