package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/roxpace/internal/adapters/repository"
)

// AlertsHandler handles redline alert requests.
type AlertsHandler struct {
	deps AlertDependencies
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(deps AlertDependencies) *AlertsHandler {
	return &AlertsHandler{deps: deps}
}

// HandleGetAlerts handles GET /alerts requests. Pass ?active=true to keep
// only unresolved alerts.
func (h *AlertsHandler) HandleGetAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	alerts := h.deps.Alerts()
	if r.URL.Query().Get("active") == "true" {
		filtered := alerts[:0]
		for _, a := range alerts {
			if a.ResolvedAt == nil {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}
	writeJSON(w, http.StatusOK, alerts)
}

// HandleResolve handles POST /alerts/{id}/resolve requests.
func (h *AlertsHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve_alert"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/alerts/")
	id, found := strings.CutSuffix(path, "/resolve")
	if !found || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.ResolveAlert(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "resolved"})
}
