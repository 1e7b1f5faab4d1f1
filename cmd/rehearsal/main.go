package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/roxpace/internal/rehearsal"
)

// Default configuration constants.
const (
	defaultFiveK       = 1500
	defaultMaxHR       = 190
	defaultCompetitors = 4
	defaultTimeScale   = 60.0
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 30 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9090", "Base URL of the service")
		fiveK       = flag.Int("five-k", defaultFiveK, "Athlete open 5K time in seconds")
		goal        = flag.Int("goal", 0, "Goal finish time in seconds; 0 runs prediction mode")
		maxHR       = flag.Int("max-hr", defaultMaxHR, "Athlete max heart rate for generated samples")
		redline     = flag.Bool("redline", false, "Push heart rate above the redline on hard stations")
		competitors = flag.Int("competitors", defaultCompetitors, "Number of synthetic competitors to track")
		timeScale   = flag.Float64("time-scale", defaultTimeScale, "Race-time seconds per wall-clock second")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile     = flag.String("log", "", "Log file for rehearsal output (default: rehearsal_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rehearsal.ShowHelp()
		return
	}

	if err := rehearsal.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &rehearsal.Config{
		BaseURL:      *baseURL,
		FiveKSeconds: *fiveK,
		GoalSeconds:  *goal,
		MaxHeartRate: *maxHR,
		Redline:      *redline,
		Competitors:  *competitors,
		TimeScale:    *timeScale,
		Timeout:      *timeout,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if err := rehearsal.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Rehearsal failed: " + err.Error() + "\n")
		return
	}
}
