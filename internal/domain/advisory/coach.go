package advisory

import (
	"fmt"

	"github.com/okian/roxpace/internal/domain/schedule"
)

// Coach thresholds.
const (
	coachCriticalHR     = 0.93
	coachElevatedHR     = 0.85
	aheadMarginSeconds  = 30
	behindMarginSeconds = 20
	earlySegmentWindow  = 6
	competitorGapMargin = 15
)

// CoachInput is everything the coach reads on one tick. Callers build it
// fresh each time; the engine never caches any of it.
type CoachInput struct {
	// HRRatio is heart rate over max; HRValid is false when there is no
	// signal, which skips the heart-rate rules entirely.
	HRRatio float64
	HRValid bool

	ElapsedSeconds    int
	SegmentsCompleted int
	// TargetElapsedSeconds is the plan's cumulative time at this progress
	// point, from the simulation's segment targets.
	TargetElapsedSeconds int

	// CompetitorDeltaSeconds is positive when a tracked rival is that many
	// seconds ahead. Nil when nobody is being tracked.
	CompetitorDeltaSeconds *int
}

// Coach evaluates the pacing and effort rule table.
type Coach struct{}

// NewCoach returns a coach engine.
func NewCoach() *Coach {
	return &Coach{}
}

type coachRule struct {
	name     string
	severity Severity
	when     func(CoachInput) bool
	say      func(CoachInput) string
}

// coachRules are evaluated top to bottom; the first match wins. Order is the
// contract: heart-rate safety outranks pacing, pacing outranks rivalry.
var coachRules = []coachRule{
	{
		name:     "hr_critical",
		severity: SeverityCritical,
		when: func(in CoachInput) bool {
			return in.HRValid && in.HRRatio >= coachCriticalHR
		},
		say: func(in CoachInput) string {
			return fmt.Sprintf("Heart rate at %.0f%% of max. Back off now, walk the next 30 seconds.", in.HRRatio*100)
		},
	},
	{
		name:     "ahead_of_schedule_early",
		severity: SeverityWarning,
		when: func(in CoachInput) bool {
			return in.SegmentsCompleted <= earlySegmentWindow &&
				in.TargetElapsedSeconds-in.ElapsedSeconds > aheadMarginSeconds
		},
		say: func(in CoachInput) string {
			ahead := in.TargetElapsedSeconds - in.ElapsedSeconds
			return fmt.Sprintf("You are %ds ahead of plan this early. Hold back, the race starts at segment 9.", ahead)
		},
	},
	{
		name:     "behind_schedule",
		severity: SeverityWarning,
		when: func(in CoachInput) bool {
			return in.ElapsedSeconds-in.TargetElapsedSeconds > behindMarginSeconds
		},
		say: func(in CoachInput) string {
			behind := in.ElapsedSeconds - in.TargetElapsedSeconds
			return fmt.Sprintf("%ds behind plan. Shorten transitions first, never surge mid-station.", behind)
		},
	},
	{
		name:     "hr_elevated",
		severity: SeverityInfo,
		when: func(in CoachInput) bool {
			return in.HRValid && in.HRRatio >= coachElevatedHR
		},
		say: func(in CoachInput) string {
			return fmt.Sprintf("Heart rate at %.0f%% of max. Sustainable, but breathe down before the next station.", in.HRRatio*100)
		},
	},
	{
		name:     "competitor_gap",
		severity: SeverityInfo,
		when: func(in CoachInput) bool {
			return in.CompetitorDeltaSeconds != nil && *in.CompetitorDeltaSeconds > competitorGapMargin
		},
		say: func(in CoachInput) string {
			return fmt.Sprintf("Your rival is %ds up the course. Run your own plan, gaps close late.", *in.CompetitorDeltaSeconds)
		},
	},
	{
		name:     "segment_default",
		severity: SeverityInfo,
		when:     func(CoachInput) bool { return true },
		say: func(in CoachInput) string {
			return segmentDefaultTip(in.SegmentsCompleted)
		},
	},
}

// Advise runs the rule table and returns the first matching verdict.
func (c *Coach) Advise(in CoachInput) Advice {
	for _, rule := range coachRules {
		if rule.when(in) {
			return Advice{Rule: rule.name, Severity: rule.severity, Message: rule.say(in)}
		}
	}
	// Unreachable: the last rule always matches.
	return Advice{}
}

// segmentDefaultTips keyed by segment type, for when nothing urgent applies.
var segmentDefaultTips = map[schedule.SegmentType]string{
	schedule.Run:             "Smooth and relaxed. Cadence up, shoulders down.",
	schedule.SkiErg:          "Full-body rhythm. Pull long, breathe every stroke.",
	schedule.SledPush:        "Low and patient. Rest at the line if you must, never mid-length.",
	schedule.SledPull:        "Anchor the hips, pull hand over hand. Steady beats frantic.",
	schedule.BurpeeBroadJump: "Metronome pace. Step down, jump out, repeat.",
	schedule.Row:             "Hold the trained split. Legs drive, arms finish.",
	schedule.FarmersCarry:    "Quick feet, packed shoulders. This one is free time if the grip holds.",
	schedule.SandbagLunges:   "Slow cadence you can sustain. Knee touches every rep.",
	schedule.WallBalls:       "Planned sets from the start. The last station rewards restraint.",
}

func segmentDefaultTip(segmentsCompleted int) string {
	return segmentDefaultTips[schedule.At(segmentsCompleted).Type]
}
