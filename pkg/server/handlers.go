package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/service"
)

// startRequest is the body of POST /api/watch/start. All fields are
// optional; an absent config falls back to the preset, an absent
// preset to the service defaults.
type startRequest struct {
	Root   string              `json:"root"`
	Preset string              `json:"preset"`
	Config *config.WatchConfig `json:"config"`
}

// handleStart handles POST /api/watch/start.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	cfg := req.Config
	if cfg == nil && req.Preset != "" {
		preset, err := config.ParsePreset(req.Preset)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		cfg = config.ForPreset(preset)
	}

	if err := s.svc.Start(req.Root, cfg); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyRunning):
			writeJSON(w, http.StatusConflict, errorBody(err.Error()))
		case errors.Is(err, config.ErrNoTargets),
			errors.Is(err, config.ErrDebounceOutOfRange):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			s.log.Error("watch start failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"running": true})
}

// handleStop handles POST /api/watch/stop. Stopping a stopped watch is
// a sequencing error at this layer.
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.svc.IsRunning() {
		writeJSON(w, http.StatusConflict, errorBody("watcher is not running"))
		return
	}

	if err := s.svc.Stop(); err != nil {
		s.log.Error("watch stop failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"running": false})
}

// handleStatus handles GET /api/watch/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"running":     s.svc.IsRunning(),
		"sse_clients": s.broker.ClientCount(),
	})
}

// handleStats handles GET /api/watch/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

// handleEmitStats handles POST /api/watch/stats/emit. The snapshot
// goes out through the emitter; a delivery failure rejects this call
// only.
func (s *Server) handleEmitStats(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.EmitStats(); err != nil {
		s.log.Error("stats emit failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"emitted": true})
}

// handleRules handles GET /api/rules.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	f := s.svc.Filter()
	writeJSON(w, http.StatusOK, map[string]any{
		"rules":  f.Rules(),
		"counts": f.Stats(),
	})
}

// handleHealth answers liveness and readiness probes.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
