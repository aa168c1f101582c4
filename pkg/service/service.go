// Package service wires the raw watcher, the noise filter, path
// classification, and the emitter into one change notification
// pipeline.
//
// Each debounced burst from the watcher becomes at most one batch of
// classified events. Batches travel over a bounded channel to a single
// dispatch goroutine, which delivers high-priority events before the
// rest of their batch. Counters track every stage; nothing in the
// pipeline retries a failed delivery.
package service

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/emitter"
	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/filter"
	"github.com/0xmhha/change-monitor/pkg/logger"
	"github.com/0xmhha/change-monitor/pkg/stats"
	"github.com/0xmhha/change-monitor/pkg/watcher"
)

const defaultEventBuffer = 1000

// WatcherFactory creates the raw watcher for one run. Tests swap it
// for a fake.
type WatcherFactory func(cfg watcher.Config, log logger.Logger) (watcher.Watcher, error)

// Service controls the watch pipeline.
type Service interface {
	// Start begins watching the configured targets under root. A nil
	// cfg uses the default watch configuration. Returns
	// ErrAlreadyRunning while a watch is active.
	Start(root string, cfg *config.WatchConfig) error

	// Stop tears the pipeline down and discards any in-flight debounce
	// window. Stopping a stopped service is a no-op.
	Stop() error

	// IsRunning reports whether a watch is active.
	IsRunning() bool

	// Stats returns a snapshot of the pipeline counters.
	Stats() stats.Snapshot

	// EmitStats pushes a snapshot through the emitter. A delivery
	// failure is returned to the caller; the service never retries.
	EmitStats() error

	// ResetStats zeroes the pipeline counters.
	ResetStats()

	// Filter exposes the active rule filter.
	Filter() *filter.Filter

	// Close stops the pipeline.
	Close() error
}

// service implements Service.
type service struct {
	log     logger.Logger
	filter  *filter.Filter
	emit    emitter.Emitter
	factory WatcherFactory
	stats   *stats.Stats

	mu      sync.Mutex
	running bool
	gen     uint64
	w       watcher.Watcher
	cancel  context.CancelFunc
	wg      *sync.WaitGroup
}

// Option configures a Service.
type Option func(*service)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *service) { s.log = log }
}

// WithFilter replaces the default rule set.
func WithFilter(f *filter.Filter) Option {
	return func(s *service) { s.filter = f }
}

// WithWatcherFactory replaces the raw watcher constructor.
func WithWatcherFactory(fn WatcherFactory) Option {
	return func(s *service) { s.factory = fn }
}

// New creates a stopped service delivering to emit. A nil emit falls
// back to a log emitter, so events land in the service log instead of
// disappearing.
func New(emit emitter.Emitter, opts ...Option) Service {
	s := &service{
		log:    logger.Default(),
		filter: filter.New(),
		emit:   emit,
		stats:  stats.New(),
		factory: func(cfg watcher.Config, log logger.Logger) (watcher.Watcher, error) {
			return watcher.New(cfg, log)
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.emit == nil {
		s.emit = emitter.NewLog(s.log)
	}

	return s
}

// Start implements Service.Start.
//
// Targets that do not exist on disk are skipped with a warning. A
// registration failure on an existing path abandons the partially
// built pipeline and is returned to the caller.
func (s *service) Start(root string, cfg *config.WatchConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	wc := *config.DefaultWatch()
	if cfg != nil {
		wc = *cfg
	}

	if err := wc.Validate(); err != nil {
		return fmt.Errorf("invalid watch config: %w", err)
	}

	if root == "" {
		root = "."
	}

	bufferSize := wc.EventBufferSize
	if bufferSize <= 0 {
		bufferSize = defaultEventBuffer
	}

	w, err := s.factory(watcher.Config{
		DebounceWindow: wc.DebounceDuration(),
		BufferSize:     bufferSize,
	}, s.log)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan event.Batch, bufferSize)

	s.gen++
	gen := s.gen
	wg := &sync.WaitGroup{}

	wg.Add(2)
	go s.dispatchBatches(batches, wg, gen)
	go s.consumeBursts(ctx, w, batches, wg, wc.Verbose)

	if err := w.Start(ctx); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	registered := 0
	for _, target := range wc.Targets {
		path := target.ResolvePath(root)

		if _, statErr := os.Stat(path); statErr != nil {
			s.log.Warn("watch target does not exist, skipping",
				"path", path,
				"error", statErr)
			continue
		}

		if addErr := w.Add(path, target.Recursive); addErr != nil {
			cancel()
			_ = w.Close()
			return fmt.Errorf("failed to watch %s: %w", path, addErr)
		}

		registered++
		s.log.Info("watching target",
			"path", path,
			"recursive", target.Recursive,
			"priority", target.Priority)
	}

	s.running = true
	s.w = w
	s.cancel = cancel
	s.wg = wg

	s.log.Info("watcher service started",
		"root", root,
		"targets", len(wc.Targets),
		"registered", registered,
		"debounce", wc.DebounceDuration())

	return nil
}

// Stop implements Service.Stop.
func (s *service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	w := s.w
	cancel := s.cancel
	wg := s.wg
	s.w = nil
	s.cancel = nil
	s.wg = nil
	s.mu.Unlock()

	cancel()
	if err := w.Close(); err != nil {
		s.log.Warn("failed to close watcher", "error", err)
	}
	wg.Wait()

	s.log.Info("watcher service stopped")
	return nil
}

// IsRunning implements Service.IsRunning.
func (s *service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stats implements Service.Stats.
func (s *service) Stats() stats.Snapshot {
	return s.stats.Snapshot()
}

// EmitStats implements Service.EmitStats.
func (s *service) EmitStats() error {
	if err := s.emit.EmitStats(s.stats.Snapshot()); err != nil {
		return fmt.Errorf("failed to emit stats: %w", err)
	}
	return nil
}

// ResetStats implements Service.ResetStats.
func (s *service) ResetStats() {
	s.stats.Reset()
}

// Filter implements Service.Filter.
func (s *service) Filter() *filter.Filter {
	return s.filter
}

// Close implements Service.Close.
func (s *service) Close() error {
	return s.Stop()
}

// consumeBursts turns debounced bursts into classified batches and
// counts raw errors. It owns the batches channel and closes it on
// exit.
func (s *service) consumeBursts(ctx context.Context, w watcher.Watcher, batches chan<- event.Batch, wg *sync.WaitGroup, verbose bool) {
	defer wg.Done()
	defer close(batches)

	bursts := w.Bursts()
	errs := w.Errors()

	for {
		select {
		case <-ctx.Done():
			return

		case burst, ok := <-bursts:
			if !ok {
				return
			}
			s.handleBurst(burst, batches, verbose)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.stats.IncErrors()
			s.log.Error("watch error", "error", err)
			if emitErr := s.emit.EmitError(err.Error()); emitErr != nil {
				s.log.Warn("failed to emit watch error", "error", emitErr)
			}
		}
	}
}

// handleBurst processes one debounced burst into at most one batch.
//
// The raw counter increments once per burst; the processed counter
// once per contained change. A change whose paths are all filtered
// counts as filtered and is dropped. Access changes are metadata-only
// noise and are dropped without a counter. Classification and source
// derive from the first surviving path.
func (s *service) handleBurst(burst []watcher.Change, batches chan<- event.Batch, verbose bool) {
	s.stats.IncRaw()

	events := make([]event.Event, 0, len(burst))

	for _, change := range burst {
		s.stats.IncProcessed()

		surviving := make([]string, 0, len(change.Paths))
		for _, path := range change.Paths {
			if s.filter.ShouldWatch(path) {
				surviving = append(surviving, path)
			}
		}
		if len(surviving) == 0 {
			s.stats.IncFiltered()
			continue
		}

		var base event.Kind
		switch change.Op {
		case watcher.OpCreate:
			base = event.KindCreated
		case watcher.OpModify:
			base = event.KindModified
		case watcher.OpRemove:
			base = event.KindDeleted
		case watcher.OpAccess:
			continue
		default:
			base = event.KindOther
		}

		first := surviving[0]
		ev := event.New(event.ClassifyPath(base, first), surviving, event.Source(first))
		events = append(events, ev)

		if verbose {
			s.log.Debug("change classified",
				"event_type", ev.Kind,
				"path_count", len(ev.Paths),
				"source", ev.Source)
		}
	}

	if len(events) == 0 {
		return
	}

	select {
	case batches <- event.NewBatch(events):
	default:
		s.log.Warn("dispatch channel full, dropping batch",
			"event_count", len(events))
	}
}

// dispatchBatches is the single consumer of the batch channel. Within
// a batch, high-priority events are delivered first; each partition
// keeps its arrival order.
func (s *service) dispatchBatches(batches <-chan event.Batch, wg *sync.WaitGroup, gen uint64) {
	defer wg.Done()
	defer func() {
		s.mu.Lock()
		if s.gen == gen {
			s.running = false
		}
		s.mu.Unlock()
	}()

	for batch := range batches {
		high, normal := batch.SplitByPriority()
		for _, ev := range high {
			s.deliver(ev)
		}
		for _, ev := range normal {
			s.deliver(ev)
		}
	}
}

// deliver emits one event. Failures are logged and the event is lost;
// the emitted counter only moves on success.
func (s *service) deliver(ev event.Event) {
	if err := s.emit.EmitChange(ev); err != nil {
		s.log.Warn("failed to deliver event",
			"event_type", ev.Kind,
			"error", err)
		return
	}
	s.stats.IncEmitted()
}
