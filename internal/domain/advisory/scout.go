package advisory

import (
	"fmt"

	"github.com/okian/roxpace/internal/domain/model"
	"github.com/okian/roxpace/internal/domain/schedule"
)

// FlatPacePerSegment is the even-pace reference in seconds per segment. It
// deliberately ignores the athlete's plan; it is a field-wide yardstick, and
// the app layer falls back to it when no plan exists.
const FlatPacePerSegment = 270

// Scout thresholds.
const (
	leaderSegmentGap     = 2
	leaderTimeGapSeconds = 30
	paceDriftMargin      = 45
	burnoutSegmentCutoff = 8
)

// ScoutInput is the field picture on one tick, rebuilt fresh each time.
type ScoutInput struct {
	SegmentsCompleted int
	ElapsedSeconds    int
	// Leader is the best-placed tracked competitor, nil when the field is
	// not being tracked.
	Leader *model.CompetitorSnapshot
}

// Scout evaluates the field-awareness rule table.
type Scout struct{}

// NewScout returns a scout engine.
func NewScout() *Scout {
	return &Scout{}
}

type scoutRule struct {
	name     string
	severity Severity
	when     func(ScoutInput) bool
	say      func(ScoutInput) string
}

var scoutRules = []scoutRule{
	{
		name:     "leader_segments_ahead",
		severity: SeverityWarning,
		when: func(in ScoutInput) bool {
			return in.Leader != nil && in.Leader.SegmentsCompleted-in.SegmentsCompleted >= leaderSegmentGap
		},
		say: func(in ScoutInput) string {
			gap := in.Leader.SegmentsCompleted - in.SegmentsCompleted
			return fmt.Sprintf("%s is %d segments up. Attack at %s, that is where the field slows.",
				in.Leader.Name, gap, nextHardStation(in.SegmentsCompleted))
		},
	},
	{
		name:     "leader_time_gap",
		severity: SeverityInfo,
		when: func(in ScoutInput) bool {
			if in.Leader == nil {
				return false
			}
			segGap := in.Leader.SegmentsCompleted - in.SegmentsCompleted
			if segGap < 0 || segGap > 1 {
				return false
			}
			return abs(in.Leader.ElapsedSeconds-in.ElapsedSeconds) >= leaderTimeGapSeconds
		},
		say: func(in ScoutInput) string {
			delta := in.ElapsedSeconds - in.Leader.ElapsedSeconds
			if delta > 0 {
				return fmt.Sprintf("%s holds a %ds advantage on the same part of the course. Stay in contact, close it on the run.",
					in.Leader.Name, delta)
			}
			return fmt.Sprintf("You are %ds clear of %s. Protect it with clean stations, not faster runs.",
				-delta, in.Leader.Name)
		},
	},
	{
		name:     "behind_flat_pace",
		severity: SeverityWarning,
		when: func(in ScoutInput) bool {
			return in.ElapsedSeconds-in.SegmentsCompleted*FlatPacePerSegment > paceDriftMargin
		},
		say: func(in ScoutInput) string {
			drift := in.ElapsedSeconds - in.SegmentsCompleted*FlatPacePerSegment
			return fmt.Sprintf("Projection drifting %ds beyond even pace. Tighten the transitions before it compounds.", drift)
		},
	},
	{
		name:     "ahead_flat_pace_early",
		severity: SeverityInfo,
		when: func(in ScoutInput) bool {
			return in.SegmentsCompleted < burnoutSegmentCutoff &&
				in.SegmentsCompleted*FlatPacePerSegment-in.ElapsedSeconds > paceDriftMargin
		},
		say: func(in ScoutInput) string {
			lead := in.SegmentsCompleted*FlatPacePerSegment - in.ElapsedSeconds
			return fmt.Sprintf("%ds up on even pace before halfway. Bank nothing, the back half collects early debts.", lead)
		},
	},
	{
		name:     "hard_station_next",
		severity: SeverityCritical,
		when: func(in ScoutInput) bool {
			return hardStationNear(in.SegmentsCompleted) != ""
		},
		say: func(in ScoutInput) string {
			station := hardStationNear(in.SegmentsCompleted)
			return fmt.Sprintf("Critical moment: %s. %s", station, hardStationTips[station])
		},
	},
	{
		name:     "field_default",
		severity: SeverityInfo,
		when:     func(ScoutInput) bool { return true },
		say: func(in ScoutInput) string {
			pos := schedule.PositionFor(in.SegmentsCompleted)
			remaining := stationsRemaining(in.SegmentsCompleted)
			return fmt.Sprintf("%s. %d stations to go.", pos.CurrentActivity, remaining)
		},
	},
}

// Advise runs the rule table and returns the first matching verdict.
func (s *Scout) Advise(in ScoutInput) Advice {
	for _, rule := range scoutRules {
		if rule.when(in) {
			return Advice{Rule: rule.name, Severity: rule.severity, Message: rule.say(in)}
		}
	}
	return Advice{}
}

// hardStationTips cover the four stations that decide most races.
var hardStationTips = map[string]string{
	"Sled Pull":         "Commit to a pull rhythm before you touch the rope and keep the hips low.",
	"Burpee Broad Jump": "Settle into the metronome immediately. Surging here never survives.",
	"Sandbag Lunges":    "Pick the slow cadence now. Standing rests beat dropped bags.",
	"Wall Balls":        "Break before failure. Small sets finish races, heroics end them.",
}

// hardStationNear returns the name of the current or next segment when it is
// one of the designated hard stations, else empty.
func hardStationNear(segmentsCompleted int) string {
	for _, idx := range []int{segmentsCompleted, segmentsCompleted + 1} {
		if idx >= schedule.SegmentCount {
			continue
		}
		seg := schedule.At(idx)
		if schedule.HardStations[seg.Type] {
			return seg.Name
		}
	}
	return ""
}

// nextHardStation names where to attack: the first hard station still ahead,
// falling back to the finish when none remain.
func nextHardStation(segmentsCompleted int) string {
	for idx := segmentsCompleted; idx < schedule.SegmentCount; idx++ {
		seg := schedule.At(idx)
		if schedule.HardStations[seg.Type] {
			return seg.Name
		}
	}
	return "the finish"
}

func stationsRemaining(segmentsCompleted int) int {
	remaining := 0
	for idx := segmentsCompleted; idx < schedule.SegmentCount; idx++ {
		if !schedule.At(idx).IsRun() {
			remaining++
		}
	}
	return remaining
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
