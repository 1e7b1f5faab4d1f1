// Package model holds the small payload types shared between the race
// runtime, the ingestion pipeline, and the HTTP layer.
package model

import "time"

// Sample is one wearable reading. Pointer fields distinguish an absent
// metric from a zero reading.
type Sample struct {
	HeartRate    *int      `json:"heart_rate,omitempty"`
	MaxHeartRate *int      `json:"max_heart_rate,omitempty"`
	Calories     *float64  `json:"calories,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// HRRatio returns heart rate over max heart rate and whether both metrics
// were present. A non-positive max also counts as absent.
func (s Sample) HRRatio() (float64, bool) {
	if s.HeartRate == nil || s.MaxHeartRate == nil || *s.MaxHeartRate <= 0 {
		return 0, false
	}
	return float64(*s.HeartRate) / float64(*s.MaxHeartRate), true
}

// CompetitorSnapshot is one observed competitor position, as fed to the
// scouting engine.
type CompetitorSnapshot struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	SegmentsCompleted int       `json:"segments_completed"`
	ElapsedSeconds    int       `json:"elapsed_seconds"`
	ObservedAt        time.Time `json:"observed_at"`
}
