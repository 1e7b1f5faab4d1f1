package rehearsal

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/roxpace/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "rehearsal_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the rehearsal tool.
func ShowHelp() {
	os.Stdout.WriteString(`Roxpace Race Rehearsal Tool
===========================

Drives a complete scripted race day against a running roxpace server:
simulation, race selection, all sixteen segments with synthetic heart-rate
traffic, alerts, and the final snapshot.

Usage:
  go run cmd/rehearsal/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -five-k int
        Athlete open 5K time in seconds (default 1500)
  -goal int
        Goal finish time in seconds; 0 runs prediction mode (default 0)
  -max-hr int
        Athlete max heart rate for generated samples (default 190)
  -redline
        Push heart rate above the redline on hard stations
  -competitors int
        Number of synthetic competitors to track (default 4)
  -time-scale float
        Race-time seconds per wall-clock second (default 60)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for rehearsal output (default: rehearsal_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Rehearse with default settings
  go run cmd/rehearsal/main.go

  # Rehearse a goal attempt with redline traffic
  go run cmd/rehearsal/main.go -goal 4800 -redline

  # Slow rehearsal with per-segment advice output
  go run cmd/rehearsal/main.go -time-scale 10 -verbose
`)
}
