package sim

import "github.com/okian/roxpace/internal/domain/schedule"

// Station cues are deterministic lookups; goal infeasibility swaps in a more
// conservative script.
var stationCues = map[schedule.SegmentType]string{
	schedule.SkiErg:          "Long pulls, full hip hinge. Settle the heart rate here, not the splits.",
	schedule.SledPush:        "Low body angle, small quick steps. Rest at the line, never mid-length.",
	schedule.SledPull:        "Hand over hand, anchor the hips. Short planned breaks beat forced ones.",
	schedule.BurpeeBroadJump: "Steady metronome rhythm. Step down, jump out, no sprinting the first half.",
	schedule.Row:             "Hold the split you trained. Strong legs, loose grip, breathe every stroke.",
	schedule.FarmersCarry:    "Grip and go. One drop maximum, shoulders packed, quick feet.",
	schedule.SandbagLunges:   "Knee kisses the floor every rep. Pick a slow cadence you can hold to the line.",
	schedule.WallBalls:       "Break early into planned sets. Hips below parallel, ball to the target center.",
}

var cautiousStationCues = map[schedule.SegmentType]string{
	schedule.SledPush:        "This pace leaves no margin. Cap the effort, protect the legs for the runs.",
	schedule.SledPull:        "Do not chase the clock here. Smooth pulls, the goal is lost in a blown sled.",
	schedule.BurpeeBroadJump: "Hold back. Every second won here costs three on the next run.",
	schedule.WallBalls:       "Small sets from rep one. A no-rep spiral ends the goal.",
}

const (
	runCueEarly    = "Settle into race pace within 200m. It should feel too easy."
	runCueMiddle   = "Hold form as fatigue builds. Cadence up, stride short, eyes forward."
	runCueLate     = "Everything hurts now. Count steps, pass one person at a time."
	runCueCautious = "Bank nothing. Run even splits or the back half collapses."
)

// cueFor picks the execution cue for one segment. Cautious variants replace
// the defaults when the goal grades aggressive or too fast.
func cueFor(seg schedule.Segment, goalMode bool, feasibility Feasibility) string {
	cautious := goalMode && (feasibility == FeasibilityAggressive || feasibility == FeasibilityTooFast)

	if seg.IsRun() {
		if cautious {
			return runCueCautious
		}
		switch {
		case seg.RunIndex <= 3:
			return runCueEarly
		case seg.RunIndex <= 6:
			return runCueMiddle
		default:
			return runCueLate
		}
	}

	if cautious {
		if cue, ok := cautiousStationCues[seg.Type]; ok {
			return cue
		}
	}
	return stationCues[seg.Type]
}

// insights produces the short race briefing shown above the plan.
func insights(profile AthleteProfile, tier Tier, goalMode bool, feasibility Feasibility) []string {
	var out []string

	switch tier {
	case TierElite:
		out = append(out, "Your engine is the weapon. The race is won by whoever loses the least on stations.")
	case TierAdvanced:
		out = append(out, "You have the fitness to negative-split this race. Discipline on runs 1-3 decides it.")
	case TierBeginner:
		out = append(out, "Finishing strong beats starting fast. Walk the roxzone with purpose, never stand still.")
	default:
		out = append(out, "Pace the first half like a workout, race the second half. The wall comes at run 5.")
	}

	if profile.SledComfort == SledSoulCrushing {
		out = append(out, "Sleds are your tax to pay. Budget the extra time and do not fight the clock there.")
	}
	if profile.WallBallUnbrokenMax < wallBallWeakMax {
		out = append(out, "Wall balls close the race on tired legs. Plan small sets before you need them.")
	}

	if goalMode {
		switch feasibility {
		case FeasibilityTooFast:
			out = append(out, "This goal is beyond what the numbers support today. Treat the plan as a ceiling, not a target.")
		case FeasibilityAggressive:
			out = append(out, "The goal demands a near-perfect day. Any unplanned break likely ends it.")
		case FeasibilityEasy:
			out = append(out, "The goal sits comfortably inside your predicted range. Consider racing the prediction instead.")
		}
	}
	return out
}
