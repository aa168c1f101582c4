// Package watcher wraps the OS filesystem notification primitive and
// coalesces raw events into debounced bursts.
//
// Raw notifications for overlapping paths arriving within one debounce
// window are merged per path and delivered together as a single burst.
// Consumers read bursts and errors from channels:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceWindow: 100 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Add("/repo/src", true); err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	for burst := range w.Bursts() {
//	    handle(burst)
//	}
package watcher

import (
	"context"
	"time"
)

// Op is the coarse kind of a raw filesystem change.
type Op uint8

// Raw change kinds, ordered by impact. The order is used when merging
// ops for one path within a debounce window.
const (
	// OpOther is any change the source could not categorize.
	OpOther Op = iota

	// OpAccess is a metadata-only change (permissions, timestamps).
	OpAccess

	// OpModify is a content change.
	OpModify

	// OpCreate is a new file or directory.
	OpCreate

	// OpRemove is a removal. Renames report the vanished old path and
	// are folded in here.
	OpRemove
)

// String returns a human-readable op name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpRemove:
		return "remove"
	case OpAccess:
		return "access"
	default:
		return "other"
	}
}

// Change is one coalesced raw change. Paths carries every path the
// change touched; the fsnotify backend reports one path per change, but
// consumers must not rely on that.
type Change struct {
	Paths []string
	Op    Op
}

// Config contains watcher configuration.
type Config struct {
	// DebounceWindow is the coalescing interval. Raw events arriving
	// within the window extend it; the pending burst fires when the
	// window expires. Default: 100ms.
	DebounceWindow time.Duration

	// BufferSize caps the bursts and errors channels. A full channel
	// drops the payload with a warning rather than blocking the
	// notification source. Default: 1000.
	BufferSize int
}

// Watcher delivers debounced bursts of filesystem changes.
type Watcher interface {
	// Add registers a watch on path. With recursive set, existing
	// subdirectories are registered too, and directories created
	// later under path are picked up automatically.
	//
	// Returns an error when path itself cannot be watched.
	// Unreadable subdirectories are skipped with a warning.
	Add(path string, recursive bool) error

	// Start launches the notification loop.
	//
	// Returns ErrAlreadyStarted on reuse and ErrWatcherClosed after
	// Close.
	Start(ctx context.Context) error

	// Bursts returns the channel of coalesced change bursts.
	//
	// The channel is closed by Close.
	Bursts() <-chan []Change

	// Errors returns the channel of raw notification errors.
	//
	// The channel is closed by Close.
	Errors() <-chan error

	// Close stops the notification loop, discards any unexpired
	// debounce window, and closes both channels.
	//
	// Idempotent; returns nil on repeated calls.
	Close() error
}

// Defaults applied by New.
const (
	defaultDebounceWindow = 100 * time.Millisecond
	defaultBufferSize     = 1000
)
