package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/roxpace/internal/domain/model"
)

// WearableSyncDependencies is the slice of the service the sync route needs.
// The alert feed rides along so the device learns about new excursions in
// the same round trip.
type WearableSyncDependencies interface {
	WearableDependencies
	AlertDependencies
}

// WearableHandler accepts heart-rate sample batches from companion devices.
type WearableHandler struct {
	deps WearableSyncDependencies
}

// NewWearableHandler creates a new wearable sync handler.
func NewWearableHandler(deps WearableSyncDependencies) *WearableHandler {
	return &WearableHandler{deps: deps}
}

// syncRequest mirrors the request schema for POST /wearable/sync.
type syncRequest struct {
	Samples []model.Sample `json:"samples"`
}

type syncResponse struct {
	Accepted     int `json:"accepted"`
	Rejected     int `json:"rejected"`
	ActiveAlerts int `json:"active_alerts"`
}

// HandleSync handles POST /wearable/sync requests. Samples the queue cannot
// absorb are dropped and reported back; the device retries on its own cadence.
func (h *WearableHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	const op = "api.wearable_sync"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing samples")))
		return
	}
	accepted := h.deps.IngestSamples(r.Context(), req.Samples)
	if accepted == 0 {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	active := 0
	for _, a := range h.deps.Alerts() {
		if a.ResolvedAt == nil {
			active++
		}
	}
	writeJSON(w, http.StatusAccepted, syncResponse{
		Accepted:     accepted,
		Rejected:     len(req.Samples) - accepted,
		ActiveAlerts: active,
	})
}
