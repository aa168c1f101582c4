// Package server exposes the watch pipeline over HTTP: a JSON control
// API for starting and stopping watches, and a Server-Sent Events
// stream carrying the pipeline output to connected clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/logger"
	"github.com/0xmhha/change-monitor/pkg/service"
)

const shutdownTimeout = 10 * time.Second

// Server serves the control API and the SSE stream.
type Server struct {
	cfg    config.ServerConfig
	svc    service.Service
	broker *Broker
	log    logger.Logger
}

// New creates a server. The broker should be the emitter the service
// delivers to, so the SSE stream carries the pipeline output.
func New(cfg config.ServerConfig, svc service.Service, broker *Broker, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}

	return &Server{
		cfg:    cfg,
		svc:    svc,
		broker: broker,
		log:    log,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	// Health check endpoints.
	r.Get("/health/live", s.handleHealth)
	r.Get("/health/ready", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/watch", func(r chi.Router) {
			r.Post("/start", s.handleStart)
			r.Post("/stop", s.handleStop)
			r.Get("/status", s.handleStatus)
			r.Get("/stats", s.handleStats)
			r.Post("/stats/emit", s.handleEmitStats)
		})

		r.Get("/rules", s.handleRules)

		// SSE stream of change, error, and stats frames.
		r.Get("/events", s.broker.ServeHTTP)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully,
// stopping any active watch and closing the broker.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("http server listening", "addr", s.cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		s.log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	err := g.Wait()

	if stopErr := s.svc.Stop(); stopErr != nil {
		s.log.Error("failed to stop watcher service", "error", stopErr)
	}
	s.broker.Close()

	return err
}
