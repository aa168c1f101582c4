package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces raw changes into bursts. Ops for the same path
// within one window are merged; each raw event extends the window. When
// the window expires the pending set is drained, in arrival order, into
// one fire callback invocation.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]Op
	order   []string
	timer   *time.Timer
	fire    func([]Change)
}

func newDebouncer(window time.Duration, fire func([]Change)) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]Op),
		fire:    fire,
	}
}

// Add records a raw change and extends the window.
func (d *debouncer) Add(path string, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.pending[path]; ok {
		d.pending[path] = mergeOps(existing, op)
	} else {
		d.pending[path] = op
		d.order = append(d.order, path)
	}

	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.flush)
	} else {
		d.timer.Reset(d.window)
	}
}

// flush drains the pending set and fires it as one burst.
func (d *debouncer) flush() {
	d.mu.Lock()
	changes := d.drainLocked()
	d.mu.Unlock()

	if len(changes) > 0 {
		d.fire(changes)
	}
}

// Flush fires any pending burst immediately. Used by tests to avoid
// waiting out the window.
func (d *debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	changes := d.drainLocked()
	d.mu.Unlock()

	if len(changes) > 0 {
		d.fire(changes)
	}
}

// Stop cancels the timer and discards the pending window.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]Op)
	d.order = nil
}

func (d *debouncer) drainLocked() []Change {
	if len(d.order) == 0 {
		return nil
	}

	changes := make([]Change, 0, len(d.order))
	for _, path := range d.order {
		changes = append(changes, Change{
			Paths: []string{path},
			Op:    d.pending[path],
		})
	}

	d.pending = make(map[string]Op)
	d.order = nil

	return changes
}

// mergeOps coalesces two ops seen for one path within a window. A
// remove followed by a create is a replacement and reads as modify.
// Otherwise the higher-impact op wins.
func mergeOps(first, next Op) Op {
	if first == OpRemove && next == OpCreate {
		return OpModify
	}
	if next > first {
		return next
	}
	return first
}
