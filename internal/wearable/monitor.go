// Package wearable models the heart-rate sensor as an injected capability.
// The core never talks to hardware directly; it sees only this interface
// and a polling loop that feeds readings into the sample queue.
package wearable

import "context"

// Reading is one poll result. Nil fields mean the sensor had no value,
// which downstream treats as "no signal", not an error.
type Reading struct {
	HeartRate *int
	Calories  *float64
}

// Monitor is the sensor contract. Implementations wrap a platform health
// API; tests and headless deployments use the no-op double.
type Monitor interface {
	// IsAvailable reports whether a sensor is present at all.
	IsAvailable(ctx context.Context) bool
	// RequestPermissions asks the platform for read access.
	RequestPermissions(ctx context.Context) (bool, error)
	// ReadLatestHR returns the most recent reading.
	ReadLatestHR(ctx context.Context) (Reading, error)
	// StartMonitoring begins a session. Idempotent.
	StartMonitoring(ctx context.Context, sessionID string) error
	// StopMonitoring ends the session. Idempotent.
	StopMonitoring(ctx context.Context) error
}

// NoopMonitor is the test and headless double: never available, never
// returns data, never errors.
type NoopMonitor struct{}

// NewNoopMonitor returns the no-op sensor double.
func NewNoopMonitor() *NoopMonitor {
	return &NoopMonitor{}
}

func (*NoopMonitor) IsAvailable(context.Context) bool { return false }

func (*NoopMonitor) RequestPermissions(context.Context) (bool, error) { return false, nil }

func (*NoopMonitor) ReadLatestHR(context.Context) (Reading, error) { return Reading{}, nil }

func (*NoopMonitor) StartMonitoring(context.Context, string) error { return nil }

func (*NoopMonitor) StopMonitoring(context.Context) error { return nil }
