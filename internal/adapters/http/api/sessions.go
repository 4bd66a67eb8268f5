// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkoh123/carematch-ai/internal/domain/wizard"
)

// SessionsHandler handles session lifecycle and step navigation requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	view := h.deps.CreateSession(r.Context())
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id} requests.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"

	view, err := h.deps.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleReset handles POST /sessions/{id}/reset requests.
func (h *SessionsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_session"

	view, err := h.deps.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleNext handles POST /sessions/{id}/steps/next requests.
func (h *SessionsHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	const op = "api.step_next"

	view, err := h.deps.Next(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePrev handles POST /sessions/{id}/steps/prev requests.
func (h *SessionsHandler) HandlePrev(w http.ResponseWriter, r *http.Request) {
	const op = "api.step_prev"

	view, err := h.deps.Prev(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// gotoRequest mirrors the body of POST /sessions/{id}/steps/goto.
type gotoRequest struct {
	Step string `json:"step"`
}

// HandleGoTo handles POST /sessions/{id}/steps/goto requests.
func (h *SessionsHandler) HandleGoTo(w http.ResponseWriter, r *http.Request) {
	const op = "api.step_goto"

	var req gotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	step, err := wizard.Parse(req.Step)
	if err != nil {
		writeAppError(w, op, err)
		return
	}

	view, err := h.deps.GoTo(r.Context(), r.PathValue("id"), step)
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
