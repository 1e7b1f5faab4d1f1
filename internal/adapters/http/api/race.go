package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/roxpace/internal/domain/race"
)

// RaceHandler handles live race session requests.
type RaceHandler struct {
	deps RaceDependencies
}

// NewRaceHandler creates a new race handler.
func NewRaceHandler(deps RaceDependencies) *RaceHandler {
	return &RaceHandler{deps: deps}
}

// selectRequest mirrors the request schema for POST /race/select.
type selectRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Date     string `json:"date"`
	EndDate  string `json:"end_date"`
}

func (req selectRequest) validate() error {
	switch {
	case strings.TrimSpace(req.ID) == "":
		return errors.New("missing id")
	case strings.TrimSpace(req.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(req.Date) == "":
		return errors.New("missing date")
	}
	if _, err := time.Parse(time.RFC3339, req.Date); err != nil {
		return errors.New("invalid date; must be RFC3339")
	}
	if req.EndDate != "" {
		if _, err := time.Parse(time.RFC3339, req.EndDate); err != nil {
			return errors.New("invalid end_date; must be RFC3339")
		}
	}
	return nil
}

func (req selectRequest) event() race.Event {
	date, _ := time.Parse(time.RFC3339, req.Date)
	event := race.Event{
		ID:       req.ID,
		Name:     req.Name,
		Location: req.Location,
		Date:     date,
	}
	if req.EndDate != "" {
		end, _ := time.Parse(time.RFC3339, req.EndDate)
		event.EndDate = end
	}
	return event
}

// HandleGetRace handles GET /race requests.
func (h *RaceHandler) HandleGetRace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Race())
}

// HandleSelect handles POST /race/select requests.
func (h *RaceHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	const op = "api.race_select"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SelectRace(r.Context(), req.event()); err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Race())
}

// HandleStart handles POST /race/start requests.
func (h *RaceHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "api.race_start", func() error {
		return h.deps.StartRace(r.Context())
	})
}

// HandlePause handles POST /race/pause requests.
func (h *RaceHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "api.race_pause", func() error {
		h.deps.PauseRace()
		return nil
	})
}

// HandleResume handles POST /race/resume requests.
func (h *RaceHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "api.race_resume", func() error {
		h.deps.ResumeRace()
		return nil
	})
}

// HandleFinish handles POST /race/finish requests.
func (h *RaceHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "api.race_finish", func() error {
		return h.deps.FinishRace(r.Context())
	})
}

// HandleReset handles POST /race/reset requests.
func (h *RaceHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "api.race_reset", func() error {
		return h.deps.ResetRace(r.Context())
	})
}

func (h *RaceHandler) transition(w http.ResponseWriter, r *http.Request, op string, fn func() error) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := fn(); err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Race())
}
