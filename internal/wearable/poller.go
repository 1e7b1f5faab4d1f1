package wearable

import (
	"context"
	"time"

	"github.com/okian/roxpace/internal/domain/model"
	"github.com/okian/roxpace/pkg/logger"
	"github.com/okian/roxpace/pkg/metrics"
)

// DefaultPollInterval is the foreground sensor cadence.
const DefaultPollInterval = 30 * time.Second

// Publisher accepts polled samples. The sample queue satisfies this.
type Publisher interface {
	Enqueue(ctx context.Context, s model.Sample) bool
}

// Poller reads the monitor on a fixed cadence and publishes samples. A
// failed or empty poll is logged and swallowed; the next tick simply tries
// again. The race must never be interrupted by a flaky sensor.
type Poller struct {
	monitor   Monitor
	publisher Publisher
	interval  time.Duration
	maxHR     func() *int
	now       func() time.Time
	logger    logger.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval overrides the poll cadence.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMaxHR supplies the athlete's max heart rate for ratio computation.
// The function is consulted on every poll so profile edits take effect
// without a restart.
func WithMaxHR(maxHR func() *int) PollerOption {
	return func(p *Poller) {
		if maxHR != nil {
			p.maxHR = maxHR
		}
	}
}

// WithPollerClock injects the time source.
func WithPollerClock(now func() time.Time) PollerOption {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPoller wires a monitor to a publisher.
func NewPoller(monitor Monitor, publisher Publisher, opts ...PollerOption) *Poller {
	p := &Poller{
		monitor:   monitor,
		publisher: publisher,
		interval:  DefaultPollInterval,
		maxHR:     func() *int { return nil },
		now:       time.Now,
		logger:    logger.Get().Named("wearable"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until the context is canceled. Blocking; run it in a goroutine.
func (p *Poller) Run(ctx context.Context) {
	if !p.monitor.IsAvailable(ctx) {
		p.logger.Info(ctx, "no wearable sensor available, polling disabled")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one read-and-publish cycle. Exposed for the rehearsal tool
// and tests; Run calls it on each tick.
func (p *Poller) Poll(ctx context.Context) {
	reading, err := p.monitor.ReadLatestHR(ctx)
	if err != nil {
		// Transient sensor failures are not race-affecting.
		metrics.RecordErrorByComponent("wearable", "read_failed")
		p.logger.Warn(ctx, "wearable read failed", logger.Error(err))
		return
	}

	sample := model.Sample{
		HeartRate:    reading.HeartRate,
		MaxHeartRate: p.maxHR(),
		Calories:     reading.Calories,
		Timestamp:    p.now(),
	}
	if sample.HeartRate == nil {
		metrics.RecordHRSignalAbsent()
	}
	if !p.publisher.Enqueue(ctx, sample) {
		p.logger.Warn(ctx, "sample queue rejected wearable reading")
	}
}
