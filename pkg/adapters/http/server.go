// Package http exposes the dispatch pipeline over plain HTTP for clients
// that do not speak MCP: tool discovery, tool calls, health and metrics.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskdeck/taskdeck/internal/dispatch"
)

// Health reports whether the backing store is reachable.
type Health interface {
	Healthy() bool
}

// Server routes HTTP requests into the dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	health     Health
	log        *slog.Logger
}

// NewHandler builds the HTTP routing tree. gatherer may be nil to omit the
// metrics endpoint.
func NewHandler(d *dispatch.Dispatcher, health Health, gatherer prometheus.Gatherer, log *slog.Logger) http.Handler {
	s := &Server{dispatcher: d, health: health, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/tools", s.listTools)
	r.Post("/tools/{name}", s.callTool)
	r.Get("/health", s.healthz)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// listTools handles GET /tools: every tool with its input schema.
func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	type toolView struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"input_schema"`
	}

	defs := s.dispatcher.Tools()
	out := make([]toolView, 0, len(defs))
	for _, def := range defs {
		out = append(out, toolView{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema(),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

// callTool handles POST /tools/{name}. The body is the argument object;
// the response is always the envelope, with the HTTP status mirroring it.
func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var args map[string]any
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			s.log.Warn("invalid request body", "tool", name, "err", err)
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}

	resp := s.dispatcher.Dispatch(r.Context(), name, args)

	status := http.StatusOK
	if resp.Status == dispatch.StatusError {
		switch resp.ErrorKind {
		case dispatch.KindUnknownTool:
			status = http.StatusNotFound
		case dispatch.KindConnectionUnavailable:
			status = http.StatusServiceUnavailable
		case dispatch.KindUnexpected:
			status = http.StatusInternalServerError
		default:
			status = http.StatusBadRequest
		}
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil && !s.health.Healthy() {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "err", err)
	}
}
