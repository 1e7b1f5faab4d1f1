// Package sim implements the deterministic race simulation engine: it turns an
// athlete profile into a finish-time prediction, a 16-segment pacing plan, and
// a risk analysis. No I/O, no randomness; the same input always produces the
// same output.
package sim

import "fmt"

// SledComfort grades how an athlete handles sled work.
type SledComfort string

const (
	SledComfortable  SledComfort = "comfortable"
	SledManageable   SledComfort = "manageable"
	SledSoulCrushing SledComfort = "soul_crushing"
)

// LungeTolerance grades how an athlete tolerates loaded lunges.
//
// Collected from the athlete but currently uninfluential in the computation
// path; kept so the input contract is stable if product intent changes.
type LungeTolerance string

const (
	LungeStrong   LungeTolerance = "strong"
	LungeModerate LungeTolerance = "moderate"
	LungeWeak     LungeTolerance = "weak"
)

// RaceStrategy is the athlete's declared pacing philosophy.
type RaceStrategy string

const (
	StrategyFinishStrong RaceStrategy = "finish_strong"
	StrategySendIt       RaceStrategy = "send_it"
)

// Tier classifies overall athlete performance from the 5K time.
type Tier string

const (
	TierElite        Tier = "elite"
	TierAdvanced     Tier = "advanced"
	TierIntermediate Tier = "intermediate"
	TierBeginner     Tier = "beginner"
	// TierRecreational exists for benchmark bands only; the classifier never
	// assigns it from a 5K time.
	TierRecreational Tier = "recreational"
)

// AthleteProfile is the immutable simulation input. Created once per request,
// never mutated.
type AthleteProfile struct {
	FiveKTimeSeconds    int            `json:"five_k_time_seconds"`
	SledComfort         SledComfort    `json:"sled_comfort"`
	WallBallUnbrokenMax int            `json:"wall_ball_unbroken_max"`
	LungeTolerance      LungeTolerance `json:"lunge_tolerance"`
	WeightKg            float64        `json:"weight_kg,omitempty"`
	HeightCm            float64        `json:"height_cm,omitempty"`
	AgeGroup            string         `json:"age_group,omitempty"`
	Division            string         `json:"division"`
	RaceStrategy        RaceStrategy   `json:"race_strategy,omitempty"`
	GoalTimeSeconds     *int           `json:"goal_time_seconds,omitempty"`
}

// wallBallMax is the sanity ceiling on the unbroken wall-ball count.
const wallBallMax = 100

// Validate rejects malformed profiles before any computation happens.
func (p *AthleteProfile) Validate() error {
	if p.FiveKTimeSeconds <= 0 {
		return fmt.Errorf("%w: five_k_time_seconds must be positive, got %d", ErrValidation, p.FiveKTimeSeconds)
	}
	if p.WallBallUnbrokenMax < 0 || p.WallBallUnbrokenMax > wallBallMax {
		return fmt.Errorf("%w: wall_ball_unbroken_max must be within [0, %d], got %d", ErrValidation, wallBallMax, p.WallBallUnbrokenMax)
	}
	switch p.SledComfort {
	case SledComfortable, SledManageable, SledSoulCrushing:
	default:
		return fmt.Errorf("%w: unknown sled_comfort %q", ErrValidation, p.SledComfort)
	}
	if p.GoalTimeSeconds != nil && *p.GoalTimeSeconds <= 0 {
		return fmt.Errorf("%w: goal_time_seconds must be positive, got %d", ErrValidation, *p.GoalTimeSeconds)
	}
	return nil
}

// TierFor classifies a 5K time. Intermediate is the default; the elite,
// advanced, and beginner cutoffs are evaluated in that order.
func TierFor(fiveKSeconds int) Tier {
	switch {
	case fiveKSeconds < 1200:
		return TierElite
	case fiveKSeconds < 1440:
		return TierAdvanced
	case fiveKSeconds > 1800:
		return TierBeginner
	default:
		return TierIntermediate
	}
}
