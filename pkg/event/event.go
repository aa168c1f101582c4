package event

import (
	"time"
)

// Event is one classified, filtered filesystem change. The JSON shape is
// the change-event message consumers receive.
//
// Invariant: Paths is non-empty. Changes whose every path was filtered
// are dropped before an Event is built.
type Event struct {
	// Kind is the raw or semantic change category.
	Kind Kind `json:"event_type" yaml:"event_type"`

	// Paths the underlying notification touched.
	Paths []string `json:"paths" yaml:"paths"`

	// Timestamp is seconds since epoch at construction.
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`

	// Source is the coarse origin tag derived from the first path.
	Source string `json:"source" yaml:"source"`

	// Metadata is an optional free-form payload. Serialized as null
	// when absent.
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// New creates an event stamped with the current time.
func New(kind Kind, paths []string, source string) Event {
	return Event{
		Kind:      kind,
		Paths:     paths,
		Timestamp: time.Now().Unix(),
		Source:    source,
	}
}

// WithMetadata returns a copy of the event carrying metadata.
func (e Event) WithMetadata(metadata map[string]any) Event {
	e.Metadata = metadata
	return e
}

// IsHighPriority reports whether the event is dispatched ahead of
// normal events in its batch.
func (e Event) IsHighPriority() bool {
	return e.Kind.IsHighPriority()
}

// Batch is the delivery unit: all events produced from one debounce
// window firing.
type Batch struct {
	// Events in arrival order.
	Events []Event `json:"events" yaml:"events"`

	// BatchTimestamp is seconds since epoch at batch construction.
	BatchTimestamp int64 `json:"batch_timestamp" yaml:"batch_timestamp"`

	// TotalEvents caches len(Events) at construction.
	TotalEvents int `json:"total_events" yaml:"total_events"`
}

// NewBatch creates a batch from events, stamping the current time.
func NewBatch(events []Event) Batch {
	return Batch{
		Events:         events,
		BatchTimestamp: time.Now().Unix(),
		TotalEvents:    len(events),
	}
}

// IsEmpty reports whether the batch carries no events.
func (b Batch) IsEmpty() bool {
	return len(b.Events) == 0
}

// SplitByPriority partitions events into high- and normal-priority
// slices. The partition is stable: relative order within each slice
// matches the batch order.
func (b Batch) SplitByPriority() (high, normal []Event) {
	for _, ev := range b.Events {
		if ev.IsHighPriority() {
			high = append(high, ev)
		} else {
			normal = append(normal, ev)
		}
	}
	return high, normal
}
