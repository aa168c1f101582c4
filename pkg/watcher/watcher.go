package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/0xmhha/change-monitor/pkg/logger"
)

// watcher implements the Watcher interface using fsnotify.
type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config

	bursts chan []Change
	errs   chan error

	mu       sync.Mutex
	running  bool
	closed   bool
	stopChan chan struct{}

	deb *debouncer

	// Roots registered with recursive=true. Directories created under
	// one of these are added to the watch automatically.
	recursiveRoots []string
}

// New creates a new file system watcher. Zero values in cfg fall back
// to the package defaults.
func New(cfg Config, log logger.Logger) (Watcher, error) {
	if log == nil {
		log = logger.Default()
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = defaultDebounceWindow
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &watcher{
		fsw:      fsw,
		logger:   log,
		config:   cfg,
		bursts:   make(chan []Change, cfg.BufferSize),
		errs:     make(chan error, cfg.BufferSize),
		stopChan: make(chan struct{}),
	}
	w.deb = newDebouncer(cfg.DebounceWindow, w.emitBurst)

	log.Debug("file watcher created",
		"debounce_window", cfg.DebounceWindow,
		"buffer_size", cfg.BufferSize)

	return w, nil
}

// Add implements Watcher.Add.
func (w *watcher) Add(path string, recursive bool) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	path = expandHome(path)

	// Add the path itself. This is the only fatal failure.
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("failed to add path %s: %w", path, err)
	}

	w.logger.Debug("added watch path", "path", path, "recursive", recursive)

	if !recursive {
		return nil
	}

	w.mu.Lock()
	w.recursiveRoots = append(w.recursiveRoots, path)
	w.mu.Unlock()

	// Walk subdirectories.
	return filepath.Walk(path, func(subPath string, info os.FileInfo, err error) error {
		if err != nil {
			w.logger.Warn("error walking path",
				"path", subPath,
				"error", err)
			return nil // Skip but continue walking.
		}

		if !info.IsDir() {
			return nil
		}

		// Skip the root path (already added).
		if subPath == path {
			return nil
		}

		if addErr := w.fsw.Add(subPath); addErr != nil {
			w.logger.Warn("failed to add subdirectory",
				"path", subPath,
				"error", addErr)
			return nil // Skip but continue walking.
		}

		w.logger.Debug("added watch subdirectory", "path", subPath)
		return nil
	})
}

// Start implements Watcher.Start.
func (w *watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.running {
		return ErrAlreadyStarted
	}
	w.running = true

	go w.processEvents(ctx)

	w.logger.Info("watcher started")
	return nil
}

// Bursts implements Watcher.Bursts.
func (w *watcher) Bursts() <-chan []Change {
	return w.bursts
}

// Errors implements Watcher.Errors.
func (w *watcher) Errors() <-chan error {
	return w.errs
}

// Close implements Watcher.Close. Pending debounce windows are
// discarded, not flushed.
func (w *watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}

	w.closed = true
	if w.running {
		close(w.stopChan)
		w.running = false
	}

	// Channel closes happen under the same lock that guards sends, so
	// a late debounce flush cannot race a send against the close.
	close(w.bursts)
	close(w.errs)
	w.mu.Unlock()

	w.deb.Stop()

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Info("watcher closed")
	return nil
}

// processEvents handles events from fsnotify.
func (w *watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("event processing stopped", "reason", "context cancelled")
			return

		case <-w.stopChan:
			w.logger.Info("event processing stopped", "reason", "stop signal")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.logger.Warn("fsnotify events channel closed")
				return
			}

			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.logger.Warn("fsnotify errors channel closed")
				return
			}

			w.sendError(err)
		}
	}
}

// handleEvent folds a single fsnotify event into the debounce window.
func (w *watcher) handleEvent(event fsnotify.Event) {
	op := mapOp(event.Op)

	if op == OpCreate {
		w.maybeAddDir(event.Name)
	}

	w.deb.Add(event.Name, op)
}

// maybeAddDir extends the watch to a newly created directory when it
// sits under a recursive root. Failures are logged, not fatal.
func (w *watcher) maybeAddDir(path string) {
	w.mu.Lock()
	roots := w.recursiveRoots
	w.mu.Unlock()

	under := false
	for _, root := range roots {
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			under = true
			break
		}
	}
	if !under {
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("failed to add new directory",
			"path", path,
			"error", err)
		return
	}

	w.logger.Debug("added watch subdirectory", "path", path)
}

// emitBurst delivers a debounced burst. Sends never block; when the
// consumer lags the burst is dropped.
func (w *watcher) emitBurst(changes []Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	select {
	case w.bursts <- changes:
	default:
		w.logger.Warn("burst channel full, dropping burst",
			"change_count", len(changes))
	}
}

// sendError delivers a raw watcher error.
func (w *watcher) sendError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	select {
	case w.errs <- err:
	default:
		w.logger.Warn("error channel full, dropping error", "error", err)
	}
}

// mapOp converts an fsnotify op bitmask to an Op. A rename means the
// watched path is gone, so it folds into OpRemove.
func mapOp(op fsnotify.Op) Op {
	switch {
	case op&fsnotify.Create == fsnotify.Create:
		return OpCreate
	case op&fsnotify.Write == fsnotify.Write:
		return OpModify
	case op&fsnotify.Remove == fsnotify.Remove:
		return OpRemove
	case op&fsnotify.Rename == fsnotify.Rename:
		return OpRemove
	case op&fsnotify.Chmod == fsnotify.Chmod:
		return OpAccess
	default:
		return OpOther
	}
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
