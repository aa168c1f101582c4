package emitter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/logger"
	"github.com/0xmhha/change-monitor/pkg/stats"
)

func TestChannelEmitChange(t *testing.T) {
	c := NewChannel(4)
	defer c.Close()

	evt := event.New(event.KindSourceChanged, []string{"/src/main.go"}, "source")
	if err := c.EmitChange(evt); err != nil {
		t.Fatalf("EmitChange() error = %v", err)
	}

	msg := <-c.Messages()
	if msg.Type != MessageChange {
		t.Errorf("Message type = %s, want %s", msg.Type, MessageChange)
	}
	if msg.Event == nil {
		t.Fatal("Message event is nil")
	}
	if msg.Event.Kind != event.KindSourceChanged {
		t.Errorf("Event kind = %s, want %s", msg.Event.Kind, event.KindSourceChanged)
	}
}

func TestChannelEmitError(t *testing.T) {
	c := NewChannel(4)
	defer c.Close()

	if err := c.EmitError("watch handle lost"); err != nil {
		t.Fatalf("EmitError() error = %v", err)
	}

	msg := <-c.Messages()
	if msg.Type != MessageError {
		t.Errorf("Message type = %s, want %s", msg.Type, MessageError)
	}
	if msg.Error != "watch handle lost" {
		t.Errorf("Message error = %q, want %q", msg.Error, "watch handle lost")
	}
}

func TestChannelEmitStats(t *testing.T) {
	c := NewChannel(4)
	defer c.Close()

	s := stats.New()
	s.IncRaw()
	s.IncProcessed()

	if err := c.EmitStats(s.Snapshot()); err != nil {
		t.Fatalf("EmitStats() error = %v", err)
	}

	msg := <-c.Messages()
	if msg.Type != MessageStats {
		t.Errorf("Message type = %s, want %s", msg.Type, MessageStats)
	}
	if msg.Stats == nil {
		t.Fatal("Message stats is nil")
	}
	if msg.Stats.RawEvents != 1 {
		t.Errorf("Snapshot raw events = %d, want 1", msg.Stats.RawEvents)
	}
}

func TestChannelFull(t *testing.T) {
	c := NewChannel(1)
	defer c.Close()

	evt := event.New(event.KindCreated, []string{"/a"}, "project")

	if err := c.EmitChange(evt); err != nil {
		t.Fatalf("First EmitChange() error = %v", err)
	}

	if err := c.EmitChange(evt); err != ErrChannelFull {
		t.Errorf("Second EmitChange() error = %v, want ErrChannelFull", err)
	}
}

func TestChannelClosed(t *testing.T) {
	c := NewChannel(4)
	c.Close()

	evt := event.New(event.KindCreated, []string{"/a"}, "project")
	if err := c.EmitChange(evt); err != ErrEmitterClosed {
		t.Errorf("EmitChange() after Close error = %v, want ErrEmitterClosed", err)
	}

	// Close is idempotent.
	c.Close()

	if _, ok := <-c.Messages(); ok {
		t.Error("Messages channel still open after Close")
	}
}

func TestChannelDefaultCapacity(t *testing.T) {
	c := NewChannel(0)
	defer c.Close()

	if cap(c.msgs) != defaultChannelCapacity {
		t.Errorf("Channel capacity = %d, want %d", cap(c.msgs), defaultChannelCapacity)
	}
}

func TestChangeMessageJSON(t *testing.T) {
	evt := event.New(event.KindGitCommit, []string{"/repo/.git/refs/heads/main"}, "git")
	msg := NewChangeMessage(evt)

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded["type"] != "change" {
		t.Errorf("type = %v, want change", decoded["type"])
	}

	evtMap, ok := decoded["event"].(map[string]any)
	if !ok {
		t.Fatalf("event payload missing: %v", decoded)
	}
	if evtMap["event_type"] != "git_commit" {
		t.Errorf("event_type = %v, want git_commit", evtMap["event_type"])
	}
}

func TestLogEmitter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Level: "info", Format: "text"})

	l := NewLog(log)

	evt := event.New(event.KindClaudeStateChanged, []string{"/p/.claude/settings.json"}, "claude")
	if err := l.EmitChange(evt); err != nil {
		t.Fatalf("EmitChange() error = %v", err)
	}
	if err := l.EmitError("boom"); err != nil {
		t.Fatalf("EmitError() error = %v", err)
	}

	s := stats.New()
	if err := l.EmitStats(s.Snapshot()); err != nil {
		t.Fatalf("EmitStats() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"change event", "claude_state_changed", "watcher error", "boom", "watcher statistics"} {
		if !strings.Contains(out, want) {
			t.Errorf("Log output missing %q:\n%s", want, out)
		}
	}
}
