// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile mirrors log output to a rotating file when non-empty.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SampleQueueSize bounds the in-memory heart-rate sample queue.
	SampleQueueSize int `koanf:"sample_queue_size"`

	// WorkerCount sets the number of sample-processing workers.
	WorkerCount int `koanf:"worker_count"`

	// StoreDriver selects the persistence backend: "memory" or "sqlite".
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the sqlite database path when StoreDriver is "sqlite".
	StorePath string `koanf:"store_path"`

	// ElapsedTickSeconds is the cadence of the elapsed-time tick.
	ElapsedTickSeconds int `koanf:"elapsed_tick_seconds"`

	// AdvisoryTickSeconds is the cadence of the advisory re-evaluation tick.
	AdvisoryTickSeconds int `koanf:"advisory_tick_seconds"`

	// WearablePollSeconds is the cadence of foreground wearable polling.
	WearablePollSeconds int `koanf:"wearable_poll_seconds"`

	// MaxCompetitors caps the number of tracked competitor snapshots.
	MaxCompetitors int `koanf:"max_competitors"`

	// AthleteMaxHeartRate stamps polled samples when the wearable does not
	// report a max. Zero leaves samples unstamped.
	AthleteMaxHeartRate int `koanf:"athlete_max_heart_rate"`
}

// New creates a Config with service defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		LogFile:             "",
		Addr:                ":9090",
		SampleQueueSize:     4096,
		WorkerCount:         2,
		StoreDriver:         "memory",
		StorePath:           "roxpace.db",
		ElapsedTickSeconds:  1,
		AdvisoryTickSeconds: 10,
		WearablePollSeconds: 30,
		MaxCompetitors:      20,
	}
	return c
}
