// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/roxpace/internal/app"
	"github.com/okian/roxpace/internal/benchmarks"
	"github.com/okian/roxpace/internal/domain/model"
	"github.com/okian/roxpace/internal/domain/race"
	"github.com/okian/roxpace/internal/domain/redline"
	"github.com/okian/roxpace/internal/domain/sim"
)

// Shared read shapes returned by the handlers.
type (
	SimulationRecord = service.SimulationRecord
	RaceSnapshot     = service.RaceSnapshot
	AdvicePair       = service.AdvicePair
	Stats            = service.Stats
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the application service.
type Dependencies interface {
	SimulatorDependencies
	RaceDependencies
	CheckpointDependencies
	WearableDependencies
	AlertDependencies
	AdviceDependencies
	CompetitorDependencies
	BenchmarkDependencies
	StatsProvider
}

// SimulatorDependencies covers the planning operations.
type SimulatorDependencies interface {
	Simulate(ctx context.Context, profile sim.AthleteProfile) (*SimulationRecord, error)
	Simulation() *SimulationRecord
}

// RaceDependencies covers the live session state machine.
type RaceDependencies interface {
	Race() RaceSnapshot
	SelectRace(ctx context.Context, event race.Event) error
	StartRace(ctx context.Context) error
	PauseRace()
	ResumeRace()
	FinishRace(ctx context.Context) error
	ResetRace(ctx context.Context) error
}

// CheckpointDependencies covers segment progression.
type CheckpointDependencies interface {
	Checkpoint(elapsedSeconds *int) (race.SegmentSplit, bool)
	UndoCheckpoint() bool
}

// WearableDependencies accepts heart-rate sample batches.
type WearableDependencies interface {
	IngestSamples(ctx context.Context, samples []model.Sample) int
}

// AlertDependencies covers redline alerts.
type AlertDependencies interface {
	Alerts() []redline.Alert
	ResolveAlert(id string) error
}

// AdviceDependencies exposes the advisory verdicts.
type AdviceDependencies interface {
	Advice() AdvicePair
}

// CompetitorDependencies covers the tracked field.
type CompetitorDependencies interface {
	UpsertCompetitors(snapshots []model.CompetitorSnapshot) (int, error)
	Competitors() []model.CompetitorSnapshot
}

// BenchmarkDependencies resolves division standards.
type BenchmarkDependencies interface {
	Benchmark(id string) (benchmarks.Division, bool)
	Divisions() []benchmarks.Division
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) Stats
}

// Server wires HTTP routes for the race API.
type Server struct {
	simulateHandler   *SimulateHandler
	raceHandler       *RaceHandler
	checkpointHandler *CheckpointHandler
	wearableHandler   *WearableHandler
	alertsHandler     *AlertsHandler
	adviceHandler     *AdviceHandler
	competitorHandler *CompetitorHandler
	benchmarkHandler  *BenchmarkHandler
	statsHandler      *StatsHandler
	healthHandler     *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		simulateHandler:   NewSimulateHandler(deps),
		raceHandler:       NewRaceHandler(deps),
		checkpointHandler: NewCheckpointHandler(deps),
		wearableHandler:   NewWearableHandler(deps),
		alertsHandler:     NewAlertsHandler(deps),
		adviceHandler:     NewAdviceHandler(deps),
		competitorHandler: NewCompetitorHandler(deps),
		benchmarkHandler:  NewBenchmarkHandler(deps),
		statsHandler:      NewStatsHandler(deps),
		healthHandler:     NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/simulate", MetricsMiddleware(s.simulateHandler.HandlePostSimulate, "simulate"))
	mux.HandleFunc("/simulate/latest", MetricsMiddleware(s.simulateHandler.HandleGetSimulation, "simulate_latest"))
	mux.HandleFunc("/race", MetricsMiddleware(s.raceHandler.HandleGetRace, "race"))
	mux.HandleFunc("/race/select", MetricsMiddleware(s.raceHandler.HandleSelect, "race_select"))
	mux.HandleFunc("/race/start", MetricsMiddleware(s.raceHandler.HandleStart, "race_start"))
	mux.HandleFunc("/race/pause", MetricsMiddleware(s.raceHandler.HandlePause, "race_pause"))
	mux.HandleFunc("/race/resume", MetricsMiddleware(s.raceHandler.HandleResume, "race_resume"))
	mux.HandleFunc("/race/finish", MetricsMiddleware(s.raceHandler.HandleFinish, "race_finish"))
	mux.HandleFunc("/race/reset", MetricsMiddleware(s.raceHandler.HandleReset, "race_reset"))
	mux.HandleFunc("/race/checkpoint", MetricsMiddleware(s.checkpointHandler.HandlePostCheckpoint, "checkpoint"))
	mux.HandleFunc("/race/checkpoint/undo", MetricsMiddleware(s.checkpointHandler.HandleUndo, "checkpoint_undo"))
	mux.HandleFunc("/race/competitors", MetricsMiddleware(s.competitorHandler.HandleCompetitors, "competitors"))
	mux.HandleFunc("/wearable/sync", MetricsMiddleware(s.wearableHandler.HandleSync, "wearable_sync"))
	mux.HandleFunc("/alerts", MetricsMiddleware(s.alertsHandler.HandleGetAlerts, "alerts"))
	mux.HandleFunc("/alerts/", MetricsMiddleware(s.alertsHandler.HandleResolve, "alert_resolve"))
	mux.HandleFunc("/advice", MetricsMiddleware(s.adviceHandler.HandleGetAdvice, "advice"))
	mux.HandleFunc("/benchmarks", MetricsMiddleware(s.benchmarkHandler.HandleList, "benchmarks"))
	mux.HandleFunc("/benchmarks/", MetricsMiddleware(s.benchmarkHandler.HandleGet, "benchmark"))
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusFor translates application errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, sim.ErrValidation):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, sim.ErrComputation):
		return http.StatusUnprocessableEntity, "computation_error"
	case errors.Is(err, race.ErrNoRaceSelected), errors.Is(err, race.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, service.ErrFieldFull):
		return http.StatusConflict, "field_full"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
