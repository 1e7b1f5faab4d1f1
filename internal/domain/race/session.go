// Package race owns the live-race runtime: the session state machine that
// tracks phase and elapsed time, and the segment tracker that records splits.
package race

import (
	"fmt"
	"time"
)

// Phase is the calendar-derived state of the selected race.
type Phase string

const (
	PhaseNoRace    Phase = "no_race"
	PhaseCountdown Phase = "countdown"
	PhaseRaceDay   Phase = "race_day"
)

// LiveStatus is the runtime state of the race clock.
type LiveStatus string

const (
	StatusIdle     LiveStatus = "idle"
	StatusRunning  LiveStatus = "running"
	StatusPaused   LiveStatus = "paused"
	StatusFinished LiveStatus = "finished"
)

// Event is a calendar entry the athlete can select. EndDate is zero for
// single-day races.
type Event struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location,omitempty"`
	Date     time.Time `json:"date"`
	EndDate  time.Time `json:"end_date,omitempty"`
}

// Session is the live-race state machine. It is single-writer: all mutations
// come from one goroutine, concurrent readers use the snapshot accessors.
type Session struct {
	now func() time.Time

	selected      *Event
	phase         Phase
	status        LiveStatus
	startedAt     time.Time
	pausedElapsed time.Duration
	totalElapsed  int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock injects the time source. Tests use a fake clock.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession returns an idle session with nothing selected.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		now:    time.Now,
		phase:  PhaseNoRace,
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select sets the race and recomputes phase from the calendar. All live
// fields reset, including a finished race.
func (s *Session) Select(event *Event) {
	s.selected = event
	s.status = StatusIdle
	s.startedAt = time.Time{}
	s.pausedElapsed = 0
	s.totalElapsed = 0
	s.phase = s.phaseFromCalendar()
}

// Start begins the live clock. Only an idle session with a selected race can
// start; a finished session must be reset first.
func (s *Session) Start() error {
	if s.selected == nil {
		return ErrNoRaceSelected
	}
	if s.status != StatusIdle {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidTransition, s.status)
	}
	s.status = StatusRunning
	s.startedAt = s.now()
	s.pausedElapsed = 0
	s.totalElapsed = 0
	s.phase = PhaseRaceDay
	return nil
}

// Pause folds the in-flight running interval into the accumulator. No-op
// unless running.
func (s *Session) Pause() {
	if s.status != StatusRunning {
		return
	}
	s.pausedElapsed += s.now().Sub(s.startedAt)
	s.startedAt = time.Time{}
	s.status = StatusPaused
}

// Resume restarts the clock from a pause. No-op unless paused.
func (s *Session) Resume() {
	if s.status != StatusPaused {
		return
	}
	s.startedAt = s.now()
	s.status = StatusRunning
}

// Finish stops the clock for good. Valid from running or paused; the session
// stays finished until Reset.
func (s *Session) Finish() error {
	switch s.status {
	case StatusRunning:
		s.pausedElapsed += s.now().Sub(s.startedAt)
		s.startedAt = time.Time{}
	case StatusPaused:
	default:
		return fmt.Errorf("%w: cannot finish from %s", ErrInvalidTransition, s.status)
	}
	s.totalElapsed = int(s.pausedElapsed / time.Second)
	s.status = StatusFinished
	return nil
}

// Reset clears the whole session back to nothing selected.
func (s *Session) Reset() {
	s.selected = nil
	s.status = StatusIdle
	s.startedAt = time.Time{}
	s.pausedElapsed = 0
	s.totalElapsed = 0
	s.phase = PhaseNoRace
}

// TickElapsed recomputes the derived elapsed seconds. No-op unless running.
func (s *Session) TickElapsed() {
	if s.status != StatusRunning {
		return
	}
	s.totalElapsed = int((s.pausedElapsed + s.now().Sub(s.startedAt)) / time.Second)
}

// RefreshPhase recomputes phase from the calendar. Frozen while live: once
// the status leaves idle, date changes never retroactively alter phase.
func (s *Session) RefreshPhase() {
	if s.status != StatusIdle {
		return
	}
	s.phase = s.phaseFromCalendar()
}

func (s *Session) phaseFromCalendar() Phase {
	if s.selected == nil {
		return PhaseNoRace
	}
	today := dateOnly(s.now())
	start := dateOnly(s.selected.Date)
	end := start
	if !s.selected.EndDate.IsZero() {
		end = dateOnly(s.selected.EndDate)
	}
	if !today.Before(start) && !today.After(end) {
		return PhaseRaceDay
	}
	return PhaseCountdown
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Selected returns the chosen race, or nil.
func (s *Session) Selected() *Event { return s.selected }

// Phase returns the calendar phase.
func (s *Session) Phase() Phase { return s.phase }

// Status returns the live status.
func (s *Session) Status() LiveStatus { return s.status }

// Elapsed returns the derived total elapsed seconds.
func (s *Session) Elapsed() int { return s.totalElapsed }

// Live reports whether the clock has left idle.
func (s *Session) Live() bool { return s.status != StatusIdle }
