package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/roxpace/internal/domain/race"
)

// CheckpointHandler handles segment checkpoint requests.
type CheckpointHandler struct {
	deps CheckpointDependencies
}

// NewCheckpointHandler creates a new checkpoint handler.
func NewCheckpointHandler(deps CheckpointDependencies) *CheckpointHandler {
	return &CheckpointHandler{deps: deps}
}

// checkpointRequest mirrors the request schema for POST /race/checkpoint.
// ElapsedSeconds is optional; the session clock is used when absent.
type checkpointRequest struct {
	ElapsedSeconds *int `json:"elapsed_seconds"`
}

type checkpointResponse struct {
	Recorded  bool               `json:"recorded"`
	AtCeiling bool               `json:"at_ceiling"`
	Split     *race.SegmentSplit `json:"split,omitempty"`
}

// HandlePostCheckpoint handles POST /race/checkpoint requests.
func (h *CheckpointHandler) HandlePostCheckpoint(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_checkpoint"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req checkpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.ElapsedSeconds != nil && *req.ElapsedSeconds < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	split, ok := h.deps.Checkpoint(req.ElapsedSeconds)
	if !ok {
		writeJSON(w, http.StatusOK, checkpointResponse{Recorded: false, AtCeiling: true})
		return
	}
	writeJSON(w, http.StatusOK, checkpointResponse{Recorded: true, Split: &split})
}

// HandleUndo handles POST /race/checkpoint/undo requests.
func (h *CheckpointHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"undone": h.deps.UndoCheckpoint()})
}
