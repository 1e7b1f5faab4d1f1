package rehearsal

import (
	"math/rand"
	"time"

	"github.com/okian/roxpace/internal/domain/schedule"
)

// HR trace shape constants. Ratios are against the athlete's max HR.
const (
	baseHRRatio    = 0.82
	hardHRRatio    = 0.88
	redlineRatio   = 0.96
	sampleInterval = 30 * time.Second
	splitJitterPct = 0.04
)

// scriptedSegment is one planned slot of the rehearsal walk.
type scriptedSegment struct {
	index   int
	name    string
	seconds int
	station bool
	hard    bool
}

// buildScript turns the simulation plan into a walkable segment list with
// jittered splits. A missing plan falls back to the nominal course.
func buildScript(plan []segmentPlan, rng *rand.Rand) []scriptedSegment {
	segments := schedule.Segments()
	script := make([]scriptedSegment, 0, schedule.SegmentCount)

	for i, seg := range segments {
		target := seg.Nominal
		for _, p := range plan {
			if p.SlotIndex == i {
				target = p.TargetSeconds
				break
			}
		}
		jitter := 1 + (rng.Float64()*2-1)*splitJitterPct
		script = append(script, scriptedSegment{
			index:   i,
			name:    seg.Name,
			seconds: int(float64(target) * jitter),
			station: !seg.IsRun(),
			hard:    schedule.HardStations[seg.Type],
		})
	}
	return script
}

// hrTrace generates wearable samples for one segment. Hard stations run
// hotter, and redline mode pushes them over the alert threshold.
func hrTrace(seg scriptedSegment, startElapsed int, startAt time.Time, maxHR int, redline bool, rng *rand.Rand) []sample {
	ratio := baseHRRatio
	if seg.hard {
		ratio = hardHRRatio
	}
	if redline && seg.hard {
		ratio = redlineRatio
	}

	count := seg.seconds / int(sampleInterval.Seconds())
	if count < 1 {
		count = 1
	}
	samples := make([]sample, 0, count)
	for i := 0; i < count; i++ {
		wobble := (rng.Float64()*2 - 1) * 0.01
		hr := int(float64(maxHR) * (ratio + wobble))
		if hr > maxHR {
			hr = maxHR
		}
		at := startAt.Add(time.Duration(startElapsed)*time.Second + time.Duration(i)*sampleInterval)
		samples = append(samples, sample{
			HeartRate:    hr,
			MaxHeartRate: maxHR,
			Timestamp:    at.Format(time.RFC3339),
		})
	}
	return samples
}

// fieldSnapshot produces synthetic competitor positions around the athlete.
func fieldSnapshot(count, segmentsDone, elapsed int, at time.Time, rng *rand.Rand) []competitorSnapshot {
	field := make([]competitorSnapshot, 0, count)
	names := []string{"Kara", "Milo", "Sana", "Theo", "Iris", "Rene", "Jude", "Nova"}
	for i := 0; i < count; i++ {
		lead := rng.Intn(3) - 1
		segments := segmentsDone + lead
		if segments < 0 {
			segments = 0
		}
		if segments > schedule.SegmentCount {
			segments = schedule.SegmentCount
		}
		drift := rng.Intn(120) - 60
		competitorElapsed := elapsed + lead*240 + drift
		if competitorElapsed < 0 {
			competitorElapsed = 0
		}
		field = append(field, competitorSnapshot{
			ID:                names[i%len(names)],
			Name:              names[i%len(names)],
			SegmentsCompleted: segments,
			ElapsedSeconds:    competitorElapsed,
			ObservedAt:        at.Format(time.RFC3339),
		})
	}
	return field
}
