// Package stats tracks live throughput counters for a running watch
// pipeline.
//
// The five counters are independent atomics. Increments never contend
// and snapshots never lock, so a snapshot taken mid-burst may observe
// torn combinations across counters. That relaxation is intentional:
// the numbers feed diagnostics, not control flow.
package stats

import (
	"sync/atomic"
)

// Stats holds the counters for one service instance. The zero value is
// ready to use.
type Stats struct {
	rawEvents       atomic.Uint64
	processedEvents atomic.Uint64
	filteredEvents  atomic.Uint64
	eventsEmitted   atomic.Uint64
	errors          atomic.Uint64
}

// New returns zeroed stats.
func New() *Stats {
	return &Stats{}
}

// IncRaw counts one coalesced burst received from the notification
// source. One increment per burst, regardless of how many changes the
// burst contains.
func (s *Stats) IncRaw() {
	s.rawEvents.Add(1)
}

// IncProcessed counts one raw change examined after debouncing.
func (s *Stats) IncProcessed() {
	s.processedEvents.Add(1)
}

// IncFiltered counts one change dropped because every path it touched
// was excluded.
func (s *Stats) IncFiltered() {
	s.filteredEvents.Add(1)
}

// IncEmitted counts one event successfully delivered to the consumer.
func (s *Stats) IncEmitted() {
	s.eventsEmitted.Add(1)
}

// IncErrors counts one raw notification error.
func (s *Stats) IncErrors() {
	s.errors.Add(1)
}

// Snapshot returns a point-in-time copy of the counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		RawEvents:       s.rawEvents.Load(),
		ProcessedEvents: s.processedEvents.Load(),
		FilteredEvents:  s.filteredEvents.Load(),
		EventsEmitted:   s.eventsEmitted.Load(),
		Errors:          s.errors.Load(),
	}
}

// Reset zeroes all counters. Call only between service runs.
func (s *Stats) Reset() {
	s.rawEvents.Store(0)
	s.processedEvents.Store(0)
	s.filteredEvents.Store(0)
	s.eventsEmitted.Store(0)
	s.errors.Store(0)
}

// Snapshot is an immutable view of the counters. The JSON shape is the
// stats message consumers receive.
type Snapshot struct {
	RawEvents       uint64 `json:"raw_events"`
	ProcessedEvents uint64 `json:"processed_events"`
	FilteredEvents  uint64 `json:"filtered_events"`
	EventsEmitted   uint64 `json:"events_emitted"`
	Errors          uint64 `json:"errors"`
}

// FilterEfficiency returns the percentage of bursts whose changes were
// entirely filtered out, or 0 when no bursts arrived.
func (s Snapshot) FilterEfficiency() float64 {
	if s.RawEvents == 0 {
		return 0
	}
	return float64(s.FilteredEvents) / float64(s.RawEvents) * 100
}

// Throughput returns emitted events as a percentage of processed
// changes, or 0 when nothing was processed.
func (s Snapshot) Throughput() float64 {
	if s.ProcessedEvents == 0 {
		return 0
	}
	return float64(s.EventsEmitted) / float64(s.ProcessedEvents) * 100
}
