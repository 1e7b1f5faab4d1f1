package schedule

// maxTrackPosition is the continuous position of a finished race:
// 8 laps of (run, station) pairs.
const maxTrackPosition = 8.0

// Position is a continuous view of race progress derived from the discrete
// segments-completed count. Used for display and advisory reasoning.
type Position struct {
	StationIndex       int     // 0-based index of the current segment
	LapFraction        float64 // 0 at the start of a lap, 0.5 mid-lap
	ContinuousPosition float64 // 0..8 scalar along the course
	IsFinished         bool
	CurrentActivity    string // display name of the segment in progress
}

// PositionFor maps a segments-completed count onto the continuous 0-8 course
// scalar. Segments pair as (run, station) per lap. Monotonic non-decreasing
// in segmentsCompleted.
func PositionFor(segmentsCompleted int) Position {
	if segmentsCompleted < 0 {
		segmentsCompleted = 0
	}

	if segmentsCompleted >= SegmentCount {
		return Position{
			StationIndex:       SegmentCount - 1,
			LapFraction:        0,
			ContinuousPosition: maxTrackPosition,
			IsFinished:         true,
			CurrentActivity:    "Finished",
		}
	}

	lap := segmentsCompleted / 2
	fraction := 0.0
	if segmentsCompleted%2 != 0 {
		fraction = 0.5
	}

	return Position{
		StationIndex:       segmentsCompleted,
		LapFraction:        fraction,
		ContinuousPosition: float64(lap) + fraction,
		IsFinished:         false,
		CurrentActivity:    At(segmentsCompleted).Name,
	}
}
