package race

import "github.com/okian/roxpace/internal/domain/schedule"

// SegmentSplit records one completed segment.
type SegmentSplit struct {
	SegmentIndex        int    `json:"segment_index"`
	SegmentName         string `json:"segment_name"`
	ElapsedAtCompletion int    `json:"elapsed_at_completion"`
	SplitSeconds        int    `json:"split_seconds"`
}

// Participant is the athlete's current progress through the course.
type Participant struct {
	SegmentsCompleted   int    `json:"segments_completed"`
	CurrentSegmentIndex int    `json:"current_segment_index"`
	ElapsedSeconds      int    `json:"elapsed_seconds"`
	LastStationName     string `json:"last_station_name,omitempty"`
}

// SegmentTracker records checkpoints as the athlete moves through the
// sixteen segments. Single-writer, like Session.
type SegmentTracker struct {
	participant Participant
	splits      []SegmentSplit
}

// NewSegmentTracker returns a tracker at the start line.
func NewSegmentTracker() *SegmentTracker {
	return &SegmentTracker{
		splits: make([]SegmentSplit, 0, schedule.SegmentCount),
	}
}

// Advance records a checkpoint at the given elapsed time. Returns the new
// split, or ok=false at the sixteen-segment ceiling.
func (t *SegmentTracker) Advance(elapsedSeconds int) (SegmentSplit, bool) {
	completed := t.participant.SegmentsCompleted
	if completed >= schedule.SegmentCount {
		return SegmentSplit{}, false
	}

	last := 0
	if n := len(t.splits); n > 0 {
		last = t.splits[n-1].ElapsedAtCompletion
	}
	seg := schedule.At(completed)
	split := SegmentSplit{
		SegmentIndex:        completed,
		SegmentName:         seg.Name,
		ElapsedAtCompletion: elapsedSeconds,
		SplitSeconds:        elapsedSeconds - last,
	}
	t.splits = append(t.splits, split)

	t.participant.SegmentsCompleted = completed + 1
	t.participant.CurrentSegmentIndex = min(completed+1, schedule.SegmentCount-1)
	t.participant.ElapsedSeconds = elapsedSeconds
	t.participant.LastStationName = seg.Name
	return split, true
}

// Undo pops the most recent split and rolls the participant back to the
// prior checkpoint. Exact inverse of Advance when no ticks intervene.
// No-op at zero completed segments.
func (t *SegmentTracker) Undo() bool {
	n := len(t.splits)
	if n == 0 {
		return false
	}
	t.splits = t.splits[:n-1]

	prior := 0
	name := ""
	if n > 1 {
		prior = t.splits[n-2].ElapsedAtCompletion
		name = t.splits[n-2].SegmentName
	}
	completed := t.participant.SegmentsCompleted - 1
	t.participant.SegmentsCompleted = completed
	t.participant.CurrentSegmentIndex = min(completed, schedule.SegmentCount-1)
	t.participant.ElapsedSeconds = prior
	t.participant.LastStationName = name
	return true
}

// Reset drops all recorded progress.
func (t *SegmentTracker) Reset() {
	t.participant = Participant{}
	t.splits = t.splits[:0]
}

// Participant returns the current progress snapshot.
func (t *SegmentTracker) Participant() Participant {
	return t.participant
}

// Splits returns a copy of the recorded splits, oldest first.
func (t *SegmentTracker) Splits() []SegmentSplit {
	out := make([]SegmentSplit, len(t.splits))
	copy(out, t.splits)
	return out
}

// Position maps the current progress onto the track layout.
func (t *SegmentTracker) Position() schedule.Position {
	return schedule.PositionFor(t.participant.SegmentsCompleted)
}
