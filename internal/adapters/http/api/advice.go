package api

import "net/http"

// AdviceHandler handles pacing advice requests.
type AdviceHandler struct {
	deps AdviceDependencies
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(deps AdviceDependencies) *AdviceHandler {
	return &AdviceHandler{deps: deps}
}

// HandleGetAdvice handles GET /advice requests.
func (h *AdviceHandler) HandleGetAdvice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Advice())
}
