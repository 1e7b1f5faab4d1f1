package redline

const (
	criticalTip = "Heart rate is at its ceiling. Stop moving, hands on head, five deep nasal breaths before the next rep."
	extendedTip = "You have been redlined for over three minutes. Walk the next transition and drop one gear until breathing settles."
	standardTip = "Ease off ten percent for the next two minutes. Longer exhales than inhales brings the rate down fastest."
)

// stationTips tailor the standard advice to where the athlete is.
var stationTips = map[string]string{
	"SkiErg":            "Lengthen each pull and drop the stroke rate. The meters still come, the heart rate does not.",
	"Sled Push":         "Rest at the line for a ten count. Pushing through a redline here costs the whole back half.",
	"Sled Pull":         "Sit into the harness and slow the hand-over-hand rhythm. Let the rate fall between lengths.",
	"Burpee Broad Jump": "Step down instead of dropping. The slower cycle buys recovery without stopping.",
	"Row":               "Add two seconds to the split for ten strokes. Breathe on every recovery.",
	"Farmers Carry":     "Set the weights down once, shake out, and walk tall. Grip recovers faster than lungs.",
	"Sandbag Lunges":    "Pause standing tall between reps. Two breaths per lunge until the rate drops.",
	"Wall Balls":        "Break now, before failure does it for you. Five-rep sets with three breaths between.",
}

// recoveryTip picks the guidance for a completed excursion. Severity wins:
// a critical ratio overrides station context, then an extended duration,
// then the station-specific script if one exists.
func recoveryTip(ratio float64, durationSeconds int, station string) string {
	if ratio >= criticalRatio {
		return criticalTip
	}
	if durationSeconds > extendedDuration {
		return extendedTip
	}
	if tip, ok := stationTips[station]; ok {
		return tip
	}
	return standardTip
}
