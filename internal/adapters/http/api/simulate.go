package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/roxpace/internal/domain/sim"
)

// SimulateHandler handles race simulation requests.
type SimulateHandler struct {
	deps SimulatorDependencies
}

// NewSimulateHandler creates a new simulation handler.
func NewSimulateHandler(deps SimulatorDependencies) *SimulateHandler {
	return &SimulateHandler{deps: deps}
}

// HandlePostSimulate handles POST /simulate requests.
func (h *SimulateHandler) HandlePostSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_simulate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var profile sim.AthleteProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	record, err := h.deps.Simulate(r.Context(), profile)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// HandleGetSimulation handles GET /simulate/latest requests.
func (h *SimulateHandler) HandleGetSimulation(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_simulation"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	record := h.deps.Simulation()
	if record == nil {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, record)
}
