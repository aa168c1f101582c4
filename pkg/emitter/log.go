package emitter

import (
	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/logger"
	"github.com/0xmhha/change-monitor/pkg/stats"
)

// Log writes every emitted payload to a structured logger. It never
// rejects a payload.
type Log struct {
	log logger.Logger
}

// NewLog creates a log emitter.
func NewLog(log logger.Logger) *Log {
	if log == nil {
		log = logger.Default()
	}
	return &Log{log: log}
}

// EmitChange implements Emitter.EmitChange.
func (l *Log) EmitChange(evt event.Event) error {
	l.log.Info("change event",
		"event_type", evt.Kind,
		"paths", evt.Paths,
		"source", evt.Source)
	return nil
}

// EmitError implements Emitter.EmitError.
func (l *Log) EmitError(msg string) error {
	l.log.Error("watcher error", "error", msg)
	return nil
}

// EmitStats implements Emitter.EmitStats.
func (l *Log) EmitStats(snap stats.Snapshot) error {
	l.log.Info("watcher statistics",
		"raw_events", snap.RawEvents,
		"processed_events", snap.ProcessedEvents,
		"filtered_events", snap.FilteredEvents,
		"events_emitted", snap.EventsEmitted,
		"errors", snap.Errors,
		"filter_efficiency", snap.FilterEfficiency(),
		"throughput", snap.Throughput())
	return nil
}
