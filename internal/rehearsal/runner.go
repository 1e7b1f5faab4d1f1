package rehearsal

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/roxpace/pkg/logger"
)

// Run executes the complete rehearsal against a live service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	client := newHTTPClient(config.Timeout)

	logger.Get().Info(ctx, "starting race rehearsal",
		logger.String("baseURL", config.BaseURL),
		logger.Int("fiveK", config.FiveKSeconds),
		logger.Int("goal", config.GoalSeconds),
		logger.Any("redline", config.Redline),
		logger.Int("competitors", config.Competitors))

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	simulation, err := requestPlan(ctx, client, config)
	if err != nil {
		return fmt.Errorf("simulation request failed: %w", err)
	}
	stats.PredictedTotal = simulation.PredictedTotal
	logger.Get().Info(ctx, "plan received",
		logger.String("tier", simulation.Tier),
		logger.Int("predictedTotal", simulation.PredictedTotal))

	if err := selectAndStart(ctx, client, config); err != nil {
		return fmt.Errorf("race setup failed: %w", err)
	}

	if err := walkCourse(ctx, client, config, simulation, stats, rng); err != nil {
		return fmt.Errorf("course walk failed: %w", err)
	}

	if err := resolveAlerts(ctx, client, config, stats); err != nil {
		return fmt.Errorf("alert resolution failed: %w", err)
	}

	if err := client.Post(ctx, config.BaseURL+"/race/finish", nil, nil); err != nil {
		return fmt.Errorf("race finish failed: %w", err)
	}

	var snap raceSnapshot
	if err := client.Get(ctx, config.BaseURL+"/race", &snap); err != nil {
		return fmt.Errorf("final snapshot failed: %w", err)
	}
	stats.FinalElapsed = snap.ElapsedSeconds
	stats.FinalDisplay = snap.ElapsedDisplay

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "rehearsal completed")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")
	if err := client.Get(ctx, config.BaseURL+"/healthz", nil); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// requestPlan submits the athlete profile and returns the simulation.
func requestPlan(ctx context.Context, client *HTTPClient, config *Config) (*simulationResponse, error) {
	req := profileRequest{
		FiveKTimeSeconds:    config.FiveKSeconds,
		SledComfort:         "manageable",
		WallBallUnbrokenMax: 25,
		LungeTolerance:      "moderate",
		Division:            "mens_open",
	}
	if config.GoalSeconds > 0 {
		req.GoalTimeSeconds = &config.GoalSeconds
	}

	var simulation simulationResponse
	if err := client.Post(ctx, config.BaseURL+"/simulate", req, &simulation); err != nil {
		return nil, err
	}
	return &simulation, nil
}

// selectAndStart picks a synthetic race dated today and starts the clock.
func selectAndStart(ctx context.Context, client *HTTPClient, config *Config) error {
	event := selectRequest{
		ID:       "rehearsal-" + time.Now().Format("20060102150405"),
		Name:     "Rehearsal Race",
		Location: "Simulated",
		Date:     time.Now().Format(time.RFC3339),
	}
	if err := client.Post(ctx, config.BaseURL+"/race/select", event, nil); err != nil {
		return err
	}
	return client.Post(ctx, config.BaseURL+"/race/start", nil, nil)
}

// walkCourse plays every segment: heart-rate batches, the checkpoint, the
// advice poll, and the competitor feed. Race time is compressed; only a
// short real pause separates segments so the service can drain the queue.
func walkCourse(ctx context.Context, client *HTTPClient, config *Config, simulation *simulationResponse, stats *Stats, rng *rand.Rand) error {
	script := buildScript(simulation.Segments, rng)
	startAt := time.Now()
	elapsed := 0

	for _, seg := range script {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		trace := hrTrace(seg, elapsed, startAt, config.MaxHeartRate, config.Redline, rng)
		var sync syncResponse
		if err := client.Post(ctx, config.BaseURL+"/wearable/sync", syncRequest{Samples: trace}, &sync); err != nil {
			logger.Get().Warn(ctx, "sample batch rejected", logger.String("segment", seg.name), logger.Error(err))
		} else {
			stats.SamplesSent += sync.Accepted
			stats.SamplesRejected += sync.Rejected
		}

		elapsed += seg.seconds
		checkpoint := checkpointRequest{ElapsedSeconds: &elapsed}
		if err := client.Post(ctx, config.BaseURL+"/race/checkpoint", checkpoint, nil); err != nil {
			return fmt.Errorf("checkpoint at %s: %w", seg.name, err)
		}
		stats.SegmentsWalked++

		if config.Competitors > 0 {
			field := fieldSnapshot(config.Competitors, stats.SegmentsWalked, elapsed, time.Now(), rng)
			if err := client.Post(ctx, config.BaseURL+"/race/competitors", competitorRequest{Competitors: field}, nil); err != nil {
				logger.Get().Warn(ctx, "competitor update failed", logger.Error(err))
			}
		}

		var advice advicePair
		if err := client.Get(ctx, config.BaseURL+"/advice", &advice); err == nil {
			stats.AdviceCollected++
			if config.Verbose {
				logger.Get().Info(ctx, "advice",
					logger.String("segment", seg.name),
					logger.String("coach", advice.Coach.Rule),
					logger.String("scout", advice.Scout.Rule))
			}
		}

		pause := time.Duration(float64(seg.seconds)/config.TimeScale) * time.Second
		if pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause):
			}
		}
	}
	return nil
}

// resolveAlerts fetches the alerts the walk produced and dismisses them.
func resolveAlerts(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	var alerts []alert
	if err := client.Get(ctx, config.BaseURL+"/alerts", &alerts); err != nil {
		return err
	}
	stats.AlertsRaised = len(alerts)

	for _, a := range alerts {
		logger.Get().Info(ctx, "redline alert",
			logger.String("id", a.ID),
			logger.Int("duration", a.DurationSeconds),
			logger.String("tip", a.RecoveryTip))
		if err := client.Post(ctx, config.BaseURL+"/alerts/"+a.ID+"/resolve", nil, nil); err != nil {
			logger.Get().Warn(ctx, "alert resolve failed", logger.String("id", a.ID), logger.Error(err))
			continue
		}
		stats.AlertsResolved++
	}
	return nil
}

// displayFinalStats prints the final rehearsal statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("segmentsWalked", stats.SegmentsWalked),
		logger.Int("samplesSent", stats.SamplesSent),
		logger.Int("samplesRejected", stats.SamplesRejected),
		logger.Int("alertsRaised", stats.AlertsRaised),
		logger.Int("alertsResolved", stats.AlertsResolved),
		logger.Int("adviceCollected", stats.AdviceCollected),
		logger.Int("predictedTotal", stats.PredictedTotal),
		logger.Int("finalElapsed", stats.FinalElapsed),
		logger.String("finalDisplay", stats.FinalDisplay),
		logger.String("duration", stats.Duration.String()))
}
