// Package redline watches the heart-rate stream for sustained excursions
// above the safety threshold and raises alerts with recovery guidance.
package redline

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/roxpace/internal/domain/model"
)

// Boundary constants. Tuning values carried over from field calibration;
// change them together, not piecemeal.
const (
	// Threshold is the HR/maxHR ratio that starts an excursion.
	Threshold = 0.95
	// SustainSeconds is how long the excursion must hold before alerting.
	SustainSeconds = 120

	criticalRatio    = 0.98
	extendedDuration = 180
)

// Alert is one completed sustained excursion.
type Alert struct {
	ID              string     `json:"id"`
	TriggeredAt     time.Time  `json:"triggered_at"`
	HRAvg           int        `json:"hr_avg"`
	HRMaxPct        float64    `json:"hr_max_pct"`
	DurationSeconds int        `json:"duration_seconds"`
	RecoveryTip     string     `json:"recovery_tip"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

// Detector accumulates qualifying samples until the sustain window fills.
// Single-writer like the rest of the runtime; one detector per session.
type Detector struct {
	excursionStart time.Time
	inExcursion    bool
	currentStation string
	newID          func() string
}

// Option configures a Detector.
type Option func(*Detector)

// WithIDGenerator overrides alert ID generation. Tests use fixed IDs.
func WithIDGenerator(gen func() string) Option {
	return func(d *Detector) {
		d.newID = gen
	}
}

// NewDetector returns a detector with no excursion in progress.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetStation tells the detector which station the athlete is at, so recovery
// tips can reference it. Empty means between stations or unknown.
func (d *Detector) SetStation(name string) {
	d.currentStation = name
}

// Observe feeds one sample. A missing metric or a sub-threshold ratio resets
// accumulation immediately. Returns an alert only when an excursion has been
// sustained for the full window; the marker resets on fire, so a continuing
// excursion needs another full window to alert again.
func (d *Detector) Observe(sample model.Sample) *Alert {
	ratio, ok := sample.HRRatio()
	if !ok || ratio < Threshold {
		d.reset()
		return nil
	}

	if !d.inExcursion {
		d.inExcursion = true
		d.excursionStart = sample.Timestamp
		return nil
	}

	duration := int(sample.Timestamp.Sub(d.excursionStart) / time.Second)
	if duration < SustainSeconds {
		return nil
	}

	alert := &Alert{
		ID:              d.newID(),
		TriggeredAt:     sample.Timestamp,
		HRAvg:           *sample.HeartRate,
		HRMaxPct:        ratio,
		DurationSeconds: duration,
		RecoveryTip:     recoveryTip(ratio, duration, d.currentStation),
	}
	d.reset()
	return alert
}

// ActiveExcursionSeconds reports how long the current excursion has run as
// of the given time, for display. Zero when none is in progress. Read-only.
func (d *Detector) ActiveExcursionSeconds(now time.Time) int {
	if !d.inExcursion {
		return 0
	}
	secs := int(now.Sub(d.excursionStart) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// Reset clears any in-progress excursion. Called on teardown so a restarted
// session never inherits a stale partial excursion.
func (d *Detector) Reset() {
	d.reset()
}

func (d *Detector) reset() {
	d.inExcursion = false
	d.excursionStart = time.Time{}
}
