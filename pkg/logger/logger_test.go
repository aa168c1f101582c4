package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithWriterCapturesRecords(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "debug"})

	log.Debug("debug message")
	log.Info("info message", "path", "/repo/src")
	log.Warn("warn message")
	log.Error("error message")

	out := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message", "path=/repo/src"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "warn"})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("records below warn should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn and error records missing:\n%s", out)
	}
}

func TestWithAttachesAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{}).With("component", "watcher")

	log.Info("started")

	if !strings.Contains(buf.String(), "component=watcher") {
		t.Errorf("context attribute missing:\n%s", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Format: "json"})

	log.Info("change detected", "count", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "change detected" {
		t.Errorf("msg = %v, want %q", rec["msg"], "change detected")
	}
	if rec["count"] != float64(3) {
		t.Errorf("count = %v, want 3", rec["count"])
	}
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "monitor.log")

	log := New(Config{Level: "info", Output: logFile})
	log.Info("message 1")
	log.Info("message 2")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "message 1") || !strings.Contains(string(data), "message 2") {
		t.Errorf("log file missing records:\n%s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"WaRn", "WARN"},
		{"", "INFO"},
		{"bogus", "INFO"},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.level).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestOpenOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"stdout", "stdout"},
		{"stderr", "stderr"},
		{"empty defaults to stderr", ""},
		{"uppercase", "STDOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := openOutput(tt.output)
			if err != nil {
				t.Fatalf("openOutput(%q) error = %v", tt.output, err)
			}
			if w == nil {
				t.Errorf("openOutput(%q) returned nil writer", tt.output)
			}
		})
	}
}

func TestNoopDiscards(t *testing.T) {
	log := Noop()
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	log.With("k", "v").Info("with context")
}

func BenchmarkInfo(b *testing.B) {
	log := Noop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("benchmark message", "path", "/repo/src/main.go", "op", "modify")
	}
}
