// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkoh123/carematch-ai/pkg/metrics"
)

// HealthHandler handles health and metrics requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleMetrics handles GET /healthz requests by serving the custom
// Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

type healthResponse struct {
	Status  string `json:"status"`
	Backend bool   `json:"backend"`
}

// HandleHealth handles GET /api/health requests by probing the parse/match
// backend.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ok, err := h.deps.Health(r.Context())

	status := "healthy"
	code := http.StatusOK
	if err != nil || !ok {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthResponse{Status: status, Backend: ok && err == nil})
}
