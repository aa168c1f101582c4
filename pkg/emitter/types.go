// Package emitter defines the delivery boundary for processed change
// events. The pipeline hands finished events, errors, and statistics
// snapshots to an Emitter; implementations decide where they go (an
// in-process channel, a log, a stream of connected clients).
package emitter

import (
	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/stats"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

const (
	MessageChange MessageType = "change"
	MessageError  MessageType = "error"
	MessageStats  MessageType = "stats"
)

// Message is the envelope delivered to consumers. Exactly one payload
// field is set, selected by Type.
type Message struct {
	Type  MessageType     `json:"type"`
	Event *event.Event    `json:"event,omitempty"`
	Error string          `json:"error,omitempty"`
	Stats *stats.Snapshot `json:"stats,omitempty"`
}

// NewChangeMessage wraps a change event.
func NewChangeMessage(evt event.Event) Message {
	return Message{Type: MessageChange, Event: &evt}
}

// NewErrorMessage wraps a watcher error message.
func NewErrorMessage(msg string) Message {
	return Message{Type: MessageError, Error: msg}
}

// NewStatsMessage wraps a statistics snapshot.
func NewStatsMessage(snap stats.Snapshot) Message {
	return Message{Type: MessageStats, Stats: &snap}
}

// Emitter delivers pipeline output to a consumer. Implementations must
// be safe for concurrent use. A returned error means this payload was
// not delivered; the pipeline logs and moves on, it never retries.
type Emitter interface {
	EmitChange(evt event.Event) error
	EmitError(msg string) error
	EmitStats(snap stats.Snapshot) error
}
