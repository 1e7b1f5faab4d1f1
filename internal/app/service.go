// Package service composes the race runtime: simulation engine, live
// session, ingestion pipeline, detector, and advisory engines, behind the
// dependency surface the HTTP API consumes.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	samplequeue "github.com/okian/roxpace/internal/adapters/mq/queue"
	workerpool "github.com/okian/roxpace/internal/adapters/mq/worker"
	"github.com/okian/roxpace/internal/adapters/repository"
	"github.com/okian/roxpace/internal/domain/advisory"
	"github.com/okian/roxpace/internal/domain/model"
	"github.com/okian/roxpace/internal/domain/race"
	"github.com/okian/roxpace/internal/domain/redline"
	"github.com/okian/roxpace/internal/domain/sim"
	"github.com/okian/roxpace/internal/wearable"
	"github.com/okian/roxpace/pkg/logger"
	"github.com/okian/roxpace/pkg/metrics"
)

// Persistence keys.
const (
	keySelectedRace   = "selected_race"
	keyLastSimulation = "last_simulation"
)

// Default runtime configuration.
const (
	defaultQueueSize      = 4096
	defaultWorkerCount    = 2
	defaultElapsedTick    = 1 * time.Second
	defaultAdvisoryTick   = 10 * time.Second
	defaultMaxCompetitors = 20
)

// Service owns all mutable race state. Every mutation goes through its
// mutex, which is what makes the session single-writer.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine   *sim.Engine
	session  *race.Session
	tracker  *race.SegmentTracker
	detector *redline.Detector
	coach    *advisory.Coach
	scout    *advisory.Scout

	store       repository.Store
	sampleQueue samplequeue.Queue
	pool        *workerpool.Pool
	monitor     wearable.Monitor
	poller      *wearable.Poller

	// Live cells read by the tick loops.
	lastSample  *model.Sample
	simulation  *SimulationRecord
	alerts      []redline.Alert
	competitors map[string]model.CompetitorSnapshot
	lastAdvice  AdvicePair

	// Configuration
	queueSize      int
	workerCount    int
	elapsedTick    time.Duration
	advisoryTick   time.Duration
	maxCompetitors int
	maxHeartRate   *int
	pollInterval   time.Duration
	now            func() time.Time
	newID          func() string

	// State
	started bool
	stop    context.CancelFunc

	logger logger.Logger
}

// SimulationRecord is a persisted simulation: the engine output plus the
// identity the engine itself deliberately omits.
type SimulationRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	sim.RaceSimulation
}

// AdvicePair is the latest verdict from both engines.
type AdvicePair struct {
	Coach advisory.Advice `json:"coach"`
	Scout advisory.Advice `json:"scout"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend. Defaults to in-memory.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithMonitor sets the wearable sensor. Defaults to the no-op double.
func WithMonitor(monitor wearable.Monitor) Option {
	return func(s *Service) {
		if monitor != nil {
			s.monitor = monitor
		}
	}
}

// WithQueueSize sets the sample queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithTicks overrides the elapsed and advisory cadences. Tests shorten them.
func WithTicks(elapsed, advisory time.Duration) Option {
	return func(s *Service) {
		if elapsed > 0 {
			s.elapsedTick = elapsed
		}
		if advisory > 0 {
			s.advisoryTick = advisory
		}
	}
}

// WithMaxCompetitors caps the tracked field size.
func WithMaxCompetitors(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCompetitors = n
		}
	}
}

// WithPollInterval sets the foreground wearable polling cadence.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// WithMaxHeartRate sets the athlete's max HR attached to polled samples.
func WithMaxHeartRate(maxHR int) Option {
	return func(s *Service) {
		if maxHR > 0 {
			s.maxHeartRate = &maxHR
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides ID generation for simulations and alerts.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:      defaultQueueSize,
		workerCount:    defaultWorkerCount,
		elapsedTick:    defaultElapsedTick,
		advisoryTick:   defaultAdvisoryTick,
		maxCompetitors: defaultMaxCompetitors,
		now:            time.Now,
		newID:          uuid.NewString,
		competitors:    make(map[string]model.CompetitorSnapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the components and launches the tick loops, workers, and the
// wearable poller. Idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.monitor == nil {
		s.monitor = wearable.NewNoopMonitor()
	}

	s.logger.Info(ctx, "starting race service...")

	s.engine = sim.NewEngine()
	s.session = race.NewSession(race.WithClock(s.now))
	s.tracker = race.NewSegmentTracker()
	s.detector = redline.NewDetector(redline.WithIDGenerator(s.newID))
	s.coach = advisory.NewCoach()
	s.scout = advisory.NewScout()

	s.sampleQueue = samplequeue.NewInMemoryQueue(
		samplequeue.WithCapacity(s.queueSize),
		samplequeue.WithBufferSize(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.sampleQueue, sinkFunc(s.ingest))
	pollerOpts := []wearable.PollerOption{
		wearable.WithMaxHR(s.currentMaxHR),
		wearable.WithPollerClock(s.now),
	}
	if s.pollInterval > 0 {
		pollerOpts = append(pollerOpts, wearable.WithInterval(s.pollInterval))
	}
	s.poller = wearable.NewPoller(s.monitor, s.sampleQueue, pollerOpts...)

	s.restoreState(ctx)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stop = cancel
	s.pool.Start(runCtx)
	go s.poller.Run(runCtx)
	go s.runTicks(runCtx)

	s.started = true
	s.logger.Info(ctx, "race service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop tears everything down. The detector marker is cleared synchronously
// so a restarted session never inherits a stale partial excursion.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping race service...")

	if s.stop != nil {
		s.stop()
	}
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}
	if err := s.monitor.StopMonitoring(ctx); err != nil {
		s.logger.Warn(ctx, "stop monitoring failed", logger.Error(err))
	}
	s.detector.Reset()
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "race service stopped")
}

// restoreState reloads persisted selections; corrupt entries read as absent.
func (s *Service) restoreState(ctx context.Context) {
	var event race.Event
	if err := repository.GetJSON(ctx, s.store, keySelectedRace, &event); err == nil {
		s.session.Select(&event)
		s.logger.Info(ctx, "restored selected race", logger.String("race", event.Name))
	}
	var record SimulationRecord
	if err := repository.GetJSON(ctx, s.store, keyLastSimulation, &record); err == nil {
		s.simulation = &record
	}
}

// runTicks drives the two periodic loops until shutdown.
func (s *Service) runTicks(ctx context.Context) {
	elapsed := time.NewTicker(s.elapsedTick)
	advisoryTicker := time.NewTicker(s.advisoryTick)
	defer elapsed.Stop()
	defer advisoryTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-elapsed.C:
			s.onElapsedTick()
		case <-advisoryTicker.C:
			s.onAdvisoryTick(ctx)
		}
	}
}

// onElapsedTick advances the display clock.
func (s *Service) onElapsedTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.TickElapsed()
	metrics.UpdateRaceElapsed(s.session.Elapsed())
	metrics.UpdateSegmentsCompleted(s.tracker.Participant().SegmentsCompleted)
}

// onAdvisoryTick re-runs both advisory engines over fresh inputs.
func (s *Service) onAdvisoryTick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Status() != race.StatusRunning {
		return
	}
	s.lastAdvice = s.advise()
	s.logger.Debug(ctx, "advisory tick",
		logger.String("coach_rule", s.lastAdvice.Coach.Rule),
		logger.String("scout_rule", s.lastAdvice.Scout.Rule),
	)
}

// currentMaxHR is read by the poller on every poll.
func (s *Service) currentMaxHR() *int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxHeartRate
}

// sinkFunc adapts a method to the worker Sink interface.
type sinkFunc func(ctx context.Context, sample model.Sample) error

func (f sinkFunc) Ingest(ctx context.Context, sample model.Sample) error {
	return f(ctx, sample)
}

// ingest is the worker-side sample consumer: last value wins, then the
// detector sees it.
func (s *Service) ingest(_ context.Context, sample model.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics.RecordHRSample()
	s.lastSample = &sample
	s.detector.SetStation(s.tracker.Position().CurrentActivity)
	if alert := s.detector.Observe(sample); alert != nil {
		s.alerts = append(s.alerts, *alert)
		metrics.RecordRedlineAlert()
		metrics.UpdateActiveAlerts(s.unresolvedAlertsLocked())
	}
	return nil
}

func (s *Service) unresolvedAlertsLocked() int {
	n := 0
	for i := range s.alerts {
		if s.alerts[i].ResolvedAt == nil {
			n++
		}
	}
	return n
}
