package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/roxpace/internal/domain/model"
)

// CompetitorHandler handles tracked competitor requests.
type CompetitorHandler struct {
	deps CompetitorDependencies
}

// NewCompetitorHandler creates a new competitor handler.
func NewCompetitorHandler(deps CompetitorDependencies) *CompetitorHandler {
	return &CompetitorHandler{deps: deps}
}

// competitorRequest mirrors the request schema for POST /race/competitors.
type competitorRequest struct {
	Competitors []model.CompetitorSnapshot `json:"competitors"`
}

type competitorResponse struct {
	Stored int `json:"stored"`
}

// HandleCompetitors routes GET and POST on /race/competitors.
func (h *CompetitorHandler) HandleCompetitors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleUpsert(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CompetitorHandler) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Competitors())
}

func (h *CompetitorHandler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_competitors"
	var req competitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Competitors) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing competitors")))
		return
	}
	stored, err := h.deps.UpsertCompetitors(req.Competitors)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, competitorResponse{Stored: stored})
}
