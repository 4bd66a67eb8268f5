// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkoh123/carematch-ai/internal/domain/model"
)

// MatchingHandler handles requirements submission, progress and results.
type MatchingHandler struct {
	deps Dependencies
}

// NewMatchingHandler creates a new matching handler.
func NewMatchingHandler(deps Dependencies) *MatchingHandler {
	return &MatchingHandler{deps: deps}
}

// HandleRequirements handles POST /sessions/{id}/requirements requests.
// Accepting requirements moves the session into the matching step and kicks
// off the match run immediately.
func (h *MatchingHandler) HandleRequirements(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_requirements"

	var reqs model.CareRequirements
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	view, err := h.deps.SubmitRequirements(r.Context(), r.PathValue("id"), reqs)
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, view)
}

// HandleResults handles GET /sessions/{id}/results requests. Until the
// session reaches the results step this answers 409.
func (h *MatchingHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_results"

	results, err := h.deps.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleProgress handles GET /sessions/{id}/progress requests.
func (h *MatchingHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_progress"

	snap, err := h.deps.Progress(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
