package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/roxpace/internal/adapters/repository"
	"github.com/okian/roxpace/internal/benchmarks"
	"github.com/okian/roxpace/internal/domain/advisory"
	"github.com/okian/roxpace/internal/domain/model"
	"github.com/okian/roxpace/internal/domain/race"
	"github.com/okian/roxpace/internal/domain/redline"
	"github.com/okian/roxpace/internal/domain/schedule"
	"github.com/okian/roxpace/internal/domain/sim"
	"github.com/okian/roxpace/pkg/logger"
	"github.com/okian/roxpace/pkg/metrics"
)

// Simulate runs the engine over the profile, attaches identity, and keeps
// the record as the active race plan.
func (s *Service) Simulate(ctx context.Context, profile sim.AthleteProfile) (*SimulationRecord, error) {
	start := time.Now()

	result, err := s.engine.Simulate(profile)
	if err != nil {
		metrics.RecordSimulationError(errorKind(err))
		return nil, err
	}

	mode := "prediction"
	if profile.GoalTimeSeconds != nil {
		mode = "goal"
		if result.Goal != nil && result.Goal.Impossible {
			metrics.RecordGoalInfeasible()
		}
	}
	metrics.RecordSimulationRun(mode)
	metrics.RecordSimulationLatency(float64(time.Since(start).Milliseconds()))

	record := &SimulationRecord{
		ID:             s.newID(),
		CreatedAt:      s.now(),
		RaceSimulation: *result,
	}

	s.mu.Lock()
	s.simulation = record
	s.mu.Unlock()

	if err := repository.SetJSON(ctx, s.store, keyLastSimulation, record); err != nil {
		// Persistence is best effort; the in-memory plan is authoritative.
		s.logger.Warn(ctx, "persist simulation failed", logger.Error(err))
	}
	return record, nil
}

// Simulation returns the active plan, or nil when none has been run.
func (s *Service) Simulation() *SimulationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.simulation
}

// Benchmark resolves one division catalog entry.
func (s *Service) Benchmark(id string) (benchmarks.Division, bool) {
	return benchmarks.Lookup(id)
}

// Divisions lists the whole catalog.
func (s *Service) Divisions() []benchmarks.Division {
	return benchmarks.Divisions()
}

// SelectRace sets the athlete's race and persists the selection.
func (s *Service) SelectRace(ctx context.Context, event race.Event) error {
	s.mu.Lock()
	s.session.Select(&event)
	s.tracker.Reset()
	s.detector.Reset()
	s.mu.Unlock()

	metrics.RecordSessionTransition("selected")
	if err := repository.SetJSON(ctx, s.store, keySelectedRace, &event); err != nil {
		s.logger.Warn(ctx, "persist selected race failed", logger.Error(err))
	}
	return nil
}

// StartRace starts the live clock and the wearable session.
func (s *Service) StartRace(ctx context.Context) error {
	s.mu.Lock()
	err := s.session.Start()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	metrics.RecordSessionTransition("running")

	if s.monitor.IsAvailable(ctx) {
		if merr := s.monitor.StartMonitoring(ctx, s.newID()); merr != nil {
			// A dead sensor never blocks the race.
			s.logger.Warn(ctx, "start monitoring failed", logger.Error(merr))
		}
	}
	return nil
}

// PauseRace pauses the clock. No-op if not running.
func (s *Service) PauseRace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Pause()
	metrics.RecordSessionTransition("paused")
}

// ResumeRace resumes from a pause. No-op if not paused.
func (s *Service) ResumeRace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Resume()
	metrics.RecordSessionTransition("running")
}

// FinishRace stops the clock and the wearable session.
func (s *Service) FinishRace(ctx context.Context) error {
	s.mu.Lock()
	err := s.session.Finish()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	metrics.RecordSessionTransition("finished")

	if merr := s.monitor.StopMonitoring(ctx); merr != nil {
		s.logger.Warn(ctx, "stop monitoring failed", logger.Error(merr))
	}
	return nil
}

// ResetRace clears the whole session, tracker, alerts, and field.
func (s *Service) ResetRace(ctx context.Context) error {
	s.mu.Lock()
	s.session.Reset()
	s.tracker.Reset()
	s.detector.Reset()
	s.alerts = nil
	s.competitors = make(map[string]model.CompetitorSnapshot)
	s.lastSample = nil
	s.lastAdvice = AdvicePair{}
	s.mu.Unlock()

	metrics.RecordSessionTransition("reset")
	metrics.UpdateActiveAlerts(0)
	if err := s.store.Delete(ctx, keySelectedRace); err != nil {
		s.logger.Warn(ctx, "clear selected race failed", logger.Error(err))
	}
	return nil
}

// RaceSnapshot is the GET /race payload.
type RaceSnapshot struct {
	Event              *race.Event         `json:"event,omitempty"`
	Phase              race.Phase          `json:"phase"`
	Status             race.LiveStatus     `json:"status"`
	ElapsedSeconds     int                 `json:"elapsed_seconds"`
	ElapsedDisplay     string              `json:"elapsed_display"`
	Participant        race.Participant    `json:"participant"`
	Splits             []race.SegmentSplit `json:"splits"`
	Position           schedule.Position   `json:"position"`
	CurrentHeartRate   *int                `json:"current_heart_rate,omitempty"`
	ExcursionSeconds   int                 `json:"excursion_seconds"`
	ActiveAlerts       int                 `json:"active_alerts"`
	TrackedCompetitors int                 `json:"tracked_competitors"`
}

// Race returns the live snapshot.
func (s *Service) Race() RaceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := RaceSnapshot{
		Event:              s.session.Selected(),
		Phase:              s.session.Phase(),
		Status:             s.session.Status(),
		ElapsedSeconds:     s.session.Elapsed(),
		ElapsedDisplay:     sim.FormatDuration(s.session.Elapsed()),
		Participant:        s.tracker.Participant(),
		Splits:             s.tracker.Splits(),
		Position:           s.tracker.Position(),
		ExcursionSeconds:   s.detector.ActiveExcursionSeconds(s.now()),
		ActiveAlerts:       s.unresolvedAlertsLocked(),
		TrackedCompetitors: len(s.competitors),
	}
	if s.lastSample != nil {
		snap.CurrentHeartRate = s.lastSample.HeartRate
	}
	return snap
}

// Checkpoint records a segment completion. A nil elapsed means "use the
// session clock". Returns ok=false at the sixteen-segment ceiling.
func (s *Service) Checkpoint(elapsedSeconds *int) (race.SegmentSplit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := s.session.Elapsed()
	if elapsedSeconds != nil {
		elapsed = *elapsedSeconds
	}
	split, ok := s.tracker.Advance(elapsed)
	if ok {
		metrics.RecordCheckpoint()
		metrics.UpdateSegmentsCompleted(s.tracker.Participant().SegmentsCompleted)
	}
	return split, ok
}

// UndoCheckpoint rolls back the last split.
func (s *Service) UndoCheckpoint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.tracker.Undo()
	if ok {
		metrics.RecordCheckpointUndo()
		metrics.UpdateSegmentsCompleted(s.tracker.Participant().SegmentsCompleted)
	}
	return ok
}

// IngestSamples enqueues wearable readings for the workers. Returns how
// many were accepted; rejects are dropped per the last-value-wins contract.
func (s *Service) IngestSamples(ctx context.Context, samples []model.Sample) int {
	accepted := 0
	for _, sample := range samples {
		if s.sampleQueue.Enqueue(ctx, sample) {
			accepted++
		}
	}
	return accepted
}

// Alerts returns every redline alert, newest last.
func (s *Service) Alerts() []redline.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]redline.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// ResolveAlert marks an alert dismissed. Idempotent; resolving twice keeps
// the first resolution time.
func (s *Service) ResolveAlert(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		if s.alerts[i].ResolvedAt == nil {
			now := s.now()
			s.alerts[i].ResolvedAt = &now
			metrics.RecordAlertResolved()
			metrics.UpdateActiveAlerts(s.unresolvedAlertsLocked())
		}
		return nil
	}
	return fmt.Errorf("alert %q: %w", id, repository.ErrNotFound)
}

// UpsertCompetitors merges field snapshots, deduplicating by ID. The field
// is capped; beyond the cap new IDs are rejected.
func (s *Service) UpsertCompetitors(snapshots []model.CompetitorSnapshot) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := 0
	for _, snap := range snapshots {
		if snap.ID == "" {
			continue
		}
		if _, exists := s.competitors[snap.ID]; !exists && len(s.competitors) >= s.maxCompetitors {
			return stored, fmt.Errorf("%w: field capped at %d competitors", ErrFieldFull, s.maxCompetitors)
		}
		s.competitors[snap.ID] = snap
		stored++
	}
	return stored, nil
}

// Competitors returns the tracked field ordered by race position.
func (s *Service) Competitors() []model.CompetitorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CompetitorSnapshot, 0, len(s.competitors))
	for _, c := range s.competitors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SegmentsCompleted != out[j].SegmentsCompleted {
			return out[i].SegmentsCompleted > out[j].SegmentsCompleted
		}
		return out[i].ElapsedSeconds < out[j].ElapsedSeconds
	})
	return out
}

// Advice returns the latest advisory verdicts, computing them on demand if
// the tick loop has not run yet.
func (s *Service) Advice() AdvicePair {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastAdvice.Coach.Rule == "" {
		s.lastAdvice = s.advise()
	}
	return s.lastAdvice
}

// advise rebuilds both engine inputs from current state. Caller holds the
// write lock.
func (s *Service) advise() AdvicePair {
	start := time.Now()
	participant := s.tracker.Participant()

	coachIn := advisory.CoachInput{
		ElapsedSeconds:       s.session.Elapsed(),
		SegmentsCompleted:    participant.SegmentsCompleted,
		TargetElapsedSeconds: s.targetElapsedLocked(participant.SegmentsCompleted),
	}
	if s.lastSample != nil {
		if ratio, ok := s.lastSample.HRRatio(); ok {
			coachIn.HRRatio = ratio
			coachIn.HRValid = true
		}
	}
	leader := s.leaderLocked()
	if leader != nil && leader.SegmentsCompleted >= participant.SegmentsCompleted {
		delta := s.session.Elapsed() - leader.ElapsedSeconds
		if delta > 0 {
			coachIn.CompetitorDeltaSeconds = &delta
		}
	}

	scoutIn := advisory.ScoutInput{
		SegmentsCompleted: participant.SegmentsCompleted,
		ElapsedSeconds:    s.session.Elapsed(),
		Leader:            leader,
	}

	pair := AdvicePair{
		Coach: s.coach.Advise(coachIn),
		Scout: s.scout.Advise(scoutIn),
	}
	metrics.RecordAdvisoryEvaluation("coach")
	metrics.RecordAdvisoryEvaluation("scout")
	metrics.RecordAdvisoryRuleMatch("coach", pair.Coach.Rule)
	metrics.RecordAdvisoryRuleMatch("scout", pair.Scout.Rule)
	metrics.RecordAdvisoryLatency(float64(time.Since(start).Milliseconds()))
	return pair
}

// targetElapsedLocked is the plan's cumulative target at the given progress,
// falling back to the flat reference when no simulation exists.
func (s *Service) targetElapsedLocked(segmentsCompleted int) int {
	if s.simulation == nil {
		return segmentsCompleted * advisory.FlatPacePerSegment
	}
	total := 0
	for i := 0; i < segmentsCompleted && i < len(s.simulation.Segments); i++ {
		total += s.simulation.Segments[i].TargetSeconds
	}
	return total
}

// leaderLocked picks the best-placed tracked competitor.
func (s *Service) leaderLocked() *model.CompetitorSnapshot {
	var leader *model.CompetitorSnapshot
	for id := range s.competitors {
		c := s.competitors[id]
		if leader == nil ||
			c.SegmentsCompleted > leader.SegmentsCompleted ||
			(c.SegmentsCompleted == leader.SegmentsCompleted && c.ElapsedSeconds < leader.ElapsedSeconds) {
			leader = &c
		}
	}
	return leader
}

// Stats is the GET /stats payload.
type Stats struct {
	Status             race.LiveStatus `json:"status"`
	Phase              race.Phase      `json:"phase"`
	ElapsedSeconds     int             `json:"elapsed_seconds"`
	SegmentsCompleted  int             `json:"segments_completed"`
	QueueDepth         int             `json:"queue_depth"`
	AlertsTotal        int             `json:"alerts_total"`
	AlertsActive       int             `json:"alerts_active"`
	TrackedCompetitors int             `json:"tracked_competitors"`
	HasSimulation      bool            `json:"has_simulation"`
}

// GetStats reports runtime counters for the operational endpoint.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Status:             s.session.Status(),
		Phase:              s.session.Phase(),
		ElapsedSeconds:     s.session.Elapsed(),
		SegmentsCompleted:  s.tracker.Participant().SegmentsCompleted,
		QueueDepth:         s.sampleQueue.Len(ctx),
		AlertsTotal:        len(s.alerts),
		AlertsActive:       s.unresolvedAlertsLocked(),
		TrackedCompetitors: len(s.competitors),
		HasSimulation:      s.simulation != nil,
	}
}
