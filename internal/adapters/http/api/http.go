// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkoh123/carematch-ai/internal/app"
	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/internal/domain/wizard"
	"github.com/pkoh123/carematch-ai/internal/progress"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateSession(ctx context.Context) app.View
	Snapshot(ctx context.Context, sessionID string) (app.View, error)
	AddResumes(ctx context.Context, sessionID string, uploads []app.Upload) (app.View, error)
	RemoveResume(ctx context.Context, sessionID, resumeID string) (app.View, error)
	SubmitRequirements(ctx context.Context, sessionID string, reqs model.CareRequirements) (app.View, error)
	Next(ctx context.Context, sessionID string) (app.View, error)
	Prev(ctx context.Context, sessionID string) (app.View, error)
	GoTo(ctx context.Context, sessionID string, step wizard.Step) (app.View, error)
	Reset(ctx context.Context, sessionID string) (app.View, error)
	Results(ctx context.Context, sessionID string) ([]model.MatchResult, error)
	Progress(ctx context.Context, sessionID string) (progress.Snapshot, error)
	Health(ctx context.Context) (bool, error)
	GetStats(ctx context.Context) app.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
	resumesHandler  *ResumesHandler
	matchingHandler *MatchingHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(deps),
		statsHandler:    NewStatsHandler(deps),
		sessionsHandler: NewSessionsHandler(deps),
		resumesHandler:  NewResumesHandler(deps),
		matchingHandler: NewMatchingHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleMetrics, "healthz"))
	mux.HandleFunc("GET /api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("GET /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "sessions"))
	mux.HandleFunc("POST /sessions/{id}/reset", MetricsMiddleware(s.sessionsHandler.HandleReset, "reset"))
	mux.HandleFunc("POST /sessions/{id}/steps/next", MetricsMiddleware(s.sessionsHandler.HandleNext, "steps"))
	mux.HandleFunc("POST /sessions/{id}/steps/prev", MetricsMiddleware(s.sessionsHandler.HandlePrev, "steps"))
	mux.HandleFunc("POST /sessions/{id}/steps/goto", MetricsMiddleware(s.sessionsHandler.HandleGoTo, "steps"))

	mux.HandleFunc("POST /sessions/{id}/resumes", MetricsMiddleware(s.resumesHandler.HandleUpload, "resumes"))
	mux.HandleFunc("DELETE /sessions/{id}/resumes/{resumeID}", MetricsMiddleware(s.resumesHandler.HandleRemove, "resumes"))

	mux.HandleFunc("POST /sessions/{id}/requirements", MetricsMiddleware(s.matchingHandler.HandleRequirements, "requirements"))
	mux.HandleFunc("GET /sessions/{id}/results", MetricsMiddleware(s.matchingHandler.HandleResults, "results"))
	mux.HandleFunc("GET /sessions/{id}/progress", MetricsMiddleware(s.matchingHandler.HandleProgress, "progress"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeAppError maps service errors to HTTP responses.
func writeAppError(w http.ResponseWriter, op string, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
	case isStepBlocked(err):
		writeError(w, http.StatusConflict, "step_blocked", NewKind(op, err))
	case isNotReady(err):
		writeError(w, http.StatusConflict, "not_ready", NewKind(op, err))
	case isBadRequest(err):
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", NewKind(op, err))
	}
}
