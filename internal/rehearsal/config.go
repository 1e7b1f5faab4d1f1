// Package rehearsal drives a scripted race day against a running roxpace
// server: it requests a plan, selects a race, walks every segment with
// synthetic heart-rate traffic, and reports what the service did with it.
package rehearsal

import "time"

// Config holds configuration for one rehearsal run.
type Config struct {
	BaseURL      string        // Base URL of the service
	FiveKSeconds int           // Athlete open 5K time
	GoalSeconds  int           // Optional goal time; zero runs prediction mode
	MaxHeartRate int           // Athlete max HR for generated samples
	Redline      bool          // Push HR above the redline on hard stations
	Competitors  int           // Number of synthetic competitors to track
	Timeout      time.Duration // HTTP request timeout
	TimeScale    float64       // Race-time seconds per wall-clock second
	LogFile      string        // Log file for rehearsal output
	Verbose      bool          // Enable verbose logging
}

// profileRequest mirrors POST /simulate.
type profileRequest struct {
	FiveKTimeSeconds    int    `json:"five_k_time_seconds"`
	SledComfort         string `json:"sled_comfort"`
	WallBallUnbrokenMax int    `json:"wall_ball_unbroken_max"`
	LungeTolerance      string `json:"lunge_tolerance"`
	Division            string `json:"division"`
	GoalTimeSeconds     *int   `json:"goal_time_seconds,omitempty"`
}

// segmentPlan is the slice of the simulation response the script needs.
type segmentPlan struct {
	SlotIndex     int    `json:"slot_index"`
	Name          string `json:"name"`
	TargetSeconds int    `json:"target_seconds"`
}

type simulationResponse struct {
	ID             string        `json:"id"`
	Tier           string        `json:"tier"`
	PredictedTotal int           `json:"predicted_total_seconds"`
	Segments       []segmentPlan `json:"segments"`
}

// selectRequest mirrors POST /race/select.
type selectRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

// checkpointRequest mirrors POST /race/checkpoint.
type checkpointRequest struct {
	ElapsedSeconds *int `json:"elapsed_seconds"`
}

// sample mirrors one entry of POST /wearable/sync.
type sample struct {
	HeartRate    int    `json:"heart_rate"`
	MaxHeartRate int    `json:"max_heart_rate"`
	Timestamp    string `json:"timestamp"`
}

type syncRequest struct {
	Samples []sample `json:"samples"`
}

type syncResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// competitorSnapshot mirrors POST /race/competitors entries.
type competitorSnapshot struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	SegmentsCompleted int    `json:"segments_completed"`
	ElapsedSeconds    int    `json:"elapsed_seconds"`
	ObservedAt        string `json:"observed_at"`
}

type competitorRequest struct {
	Competitors []competitorSnapshot `json:"competitors"`
}

// alert mirrors the GET /alerts entries.
type alert struct {
	ID              string `json:"id"`
	DurationSeconds int    `json:"duration_seconds"`
	RecoveryTip     string `json:"recovery_tip"`
}

// advicePair mirrors GET /advice.
type advicePair struct {
	Coach adviceEntry `json:"coach"`
	Scout adviceEntry `json:"scout"`
}

type adviceEntry struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// raceSnapshot mirrors the GET /race fields the report uses.
type raceSnapshot struct {
	Status         string `json:"status"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	ElapsedDisplay string `json:"elapsed_display"`
	ActiveAlerts   int    `json:"active_alerts"`
}

// Stats holds rehearsal statistics.
type Stats struct {
	SegmentsWalked  int
	SamplesSent     int
	SamplesRejected int
	AlertsRaised    int
	AlertsResolved  int
	AdviceCollected int
	FinalElapsed    int
	FinalDisplay    string
	PredictedTotal  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
