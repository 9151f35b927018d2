// Package v1 implements the HTTP front-end for regrab sessions.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/history"
	"github.com/vmunix/regrabarr/internal/session"
	"github.com/vmunix/regrabarr/internal/wizard"
)

// Config holds API server configuration.
type Config struct {
	Version  string
	Backends map[string]bool // backend name -> configured
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	cfg  Config
	log  *slog.Logger

	mu       sync.Mutex
	surfaces map[string]*surface
}

// NewWithDeps creates a new v1 API server.
func NewWithDeps(deps ServerDeps, cfg Config, logger *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		deps:     deps,
		cfg:      cfg,
		log:      logger.With("component", "api"),
		surfaces: make(map[string]*surface),
	}
	deps.Sessions.OnPrune(s.releaseSurface)
	return s, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Sessions
	mux.HandleFunc("POST /api/v1/sessions", s.startSession)
	mux.HandleFunc("POST /api/v1/commands/{name}", s.runCommand)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.getSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/select", s.selectOption)
	mux.HandleFunc("POST /api/v1/sessions/{id}/proceed", s.proceed)
	mux.HandleFunc("POST /api/v1/sessions/{id}/cancel", s.cancel)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}/surface", s.dropSurface)
	mux.HandleFunc("GET /api/v1/sessions/{id}/notices", s.listNotices)
	mux.HandleFunc("GET /api/v1/sessions/{id}/events", s.requireEventLog(s.listSessionEvents))

	// History
	mux.HandleFunc("GET /api/v1/history", s.requireHistory(s.listHistory))
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeSessionError maps session and wizard errors to HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownSession):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Session not found")
	case errors.Is(err, session.ErrSessionExpired):
		writeError(w, http.StatusGone, "EXPIRED", wizard.ExpiredText)
	case errors.Is(err, session.ErrSessionClosed):
		writeError(w, http.StatusConflict, "CLOSED", err.Error())
	case errors.Is(err, wizard.ErrInvalidChoice):
		writeError(w, http.StatusBadRequest, "INVALID_CHOICE", err.Error())
	case errors.Is(err, wizard.ErrInvalidInput):
		writeError(w, http.StatusConflict, "INVALID_INPUT", err.Error())
	case errors.Is(err, wizard.ErrBackendNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", err.Error())
	case errors.Is(err, wizard.ErrSearchFailed):
		writeError(w, http.StatusBadGateway, "SEARCH_FAILED", "The search could not be completed")
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func (s *Server) surfaceFor(id string) *surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surfaces[id]
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	kind := arr.Kind(req.Kind)
	if kind != arr.KindMovie && kind != arr.KindSeries {
		writeError(w, http.StatusBadRequest, "INVALID_KIND", "kind must be 'movie' or 'series'")
		return
	}
	s.start(w, r, kind, req.Query)
}

func (s *Server) runCommand(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	kind, ok := s.deps.Commands(name)
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_COMMAND", fmt.Sprintf("Unknown command %q", name))
		return
	}
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	s.start(w, r, kind, req.Query)
}

func (s *Server) start(w http.ResponseWriter, r *http.Request, kind arr.Kind, query string) {
	if query == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "query is required")
		return
	}

	sf := &surface{}
	id, err := s.deps.Sessions.Start(r.Context(), kind, query, sf)
	if id == "" {
		view, _, _, _ := sf.snapshot()
		if errors.Is(err, wizard.ErrSearchEmpty) {
			writeJSON(w, http.StatusNotFound, notFoundResponse{Error: view.Text, Code: "NO_RESULTS", View: view})
			return
		}
		writeSessionError(w, err)
		return
	}
	if err != nil {
		s.log.Warn("session started with render error", "session_id", id, "error", err)
	}

	s.mu.Lock()
	s.surfaces[id] = sf
	s.mu.Unlock()

	s.writeSession(w, http.StatusCreated, id)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, http.StatusOK, r.PathValue("id"))
}

func (s *Server) writeSession(w http.ResponseWriter, code int, id string) {
	snap, err := s.deps.Sessions.Snapshot(id)
	if err != nil {
		s.forget(id, err)
		writeSessionError(w, err)
		return
	}
	resp := sessionResponse{
		ID:        snap.ID,
		Kind:      string(snap.Kind),
		Query:     snap.Query,
		State:     snap.State.String(),
		View:      snap.View,
		CreatedAt: snap.CreatedAt,
	}
	if sf := s.surfaceFor(id); sf != nil {
		_, resp.Status, resp.Notices, _ = sf.snapshot()
	}
	writeJSON(w, code, resp)
}

func (s *Server) selectOption(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "MISSING_INDEX", "index is required")
		return
	}
	s.handle(w, r, wizard.Select(*req.Index))
}

func (s *Server) proceed(w http.ResponseWriter, r *http.Request) {
	s.handle(w, r, wizard.Proceed())
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request) {
	s.handle(w, r, wizard.Cancel())
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request, in wizard.Input) {
	id := r.PathValue("id")
	if err := s.deps.Sessions.Handle(r.Context(), id, in); err != nil {
		s.forget(id, err)
		writeSessionError(w, err)
		return
	}
	s.writeSession(w, http.StatusOK, id)
}

// forget drops the surface of a session the manager no longer knows.
func (s *Server) forget(id string, err error) {
	if errors.Is(err, session.ErrUnknownSession) {
		s.releaseSurface(id)
	}
}

// releaseSurface drops the surface of a pruned session.
func (s *Server) releaseSurface(id string) {
	s.mu.Lock()
	delete(s.surfaces, id)
	s.mu.Unlock()
}

func (s *Server) surfaceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.surfaces)
}

func (s *Server) dropSurface(w http.ResponseWriter, r *http.Request) {
	sf := s.surfaceFor(r.PathValue("id"))
	if sf == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Session not found")
		return
	}
	sf.markGone()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listNotices(w http.ResponseWriter, r *http.Request) {
	sf := s.surfaceFor(r.PathValue("id"))
	if sf == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Session not found")
		return
	}
	_, _, notices, _ := sf.snapshot()
	if notices == nil {
		notices = []string{}
	}
	writeJSON(w, http.StatusOK, noticesResponse{Notices: notices})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	entries, err := s.deps.History.List(r.Context(), history.Filter{
		Kind:   r.URL.Query().Get("kind"),
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	writeJSON(w, http.StatusOK, listHistoryResponse{Items: entries, Total: len(entries), Limit: limit})
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:   "ok",
		Version:  s.cfg.Version,
		Sessions: s.deps.Sessions.Active(),
		Backends: s.cfg.Backends,
	})
}
