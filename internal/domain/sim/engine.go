package sim

import (
	"fmt"
	"math"

	"github.com/okian/roxpace/internal/domain/schedule"
)

// Tuning constants for the simulation. All times in seconds.
const (
	// runPaceBuffer converts an open 5K km pace into a realistic
	// between-stations race pace.
	runPaceBuffer = 1.1

	// fatiguePerSlot compounds across the sixteen slots, capped at
	// fatigueCeiling.
	fatiguePerSlot  = 0.05
	fatigueCeiling  = 0.9
	runDegradation  = 0.05

	// Station modifiers from the profile.
	sledPenalty       = 1.3
	sledBonus         = 0.85
	wallBallPenalty   = 1.3
	wallBallBonus     = 0.85
	wallBallWeakMax   = 15
	wallBallStrongMin = 40

	// Aerobic limiter threshold: a 5K slower than 26 minutes.
	aerobicLimitFiveK = 1560

	predictionConfidence = 0.72
	conservativeFactor   = 1.05
	aggressiveFactor     = 0.95
)

// Roxzone allowance per tier, covering all transitions combined.
var roxzoneByTier = map[Tier]int{
	TierElite:        180,
	TierAdvanced:     300,
	TierIntermediate: 300,
	TierBeginner:     420,
	TierRecreational: 420,
}

// Engine is the simulation entry point. Zero value is ready to use.
type Engine struct{}

// NewEngine returns a simulation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Simulate runs the full pipeline: validation, tier classification, segment
// projection, optional goal scaling, risk analysis, and insights.
func (e *Engine) Simulate(profile AthleteProfile) (*RaceSimulation, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	tier := TierFor(profile.FiveKTimeSeconds)
	fiveKPace := float64(profile.FiveKTimeSeconds) / 5
	baseRun := roundInt(fiveKPace * runPaceBuffer)
	roxzone := roxzoneByTier[tier]

	// Prediction-mode segment times always exist; goal mode scales from
	// their total.
	predicted := e.projectSegments(profile, baseRun)
	total := roxzone
	for _, t := range predicted {
		total += t
	}

	result := &RaceSimulation{
		Tier:               tier,
		BaseRunTimeSeconds: baseRun,
		RoxzoneTimeSeconds: roxzone,
		PredictedTotal:     total,
	}

	goalMode := profile.GoalTimeSeconds != nil
	var feasibility Feasibility
	targets := predicted
	if goalMode {
		goal := *profile.GoalTimeSeconds
		assessment, scaled, err := e.assessGoal(profile, goal, total, baseRun, roxzone, predicted)
		if err != nil {
			return nil, err
		}
		result.Goal = assessment
		feasibility = assessment.Feasibility
		targets = scaled
	}

	result.Segments = e.buildPlan(profile, targets, goalMode, feasibility)
	result.Prediction = e.predict(total, goalMode, profile.GoalTimeSeconds, feasibility)
	result.Risk = e.analyzeRisk(profile, tier, result.Segments, goalMode, feasibility)
	result.PenaltyWarnings = penaltyWarnings(profile)
	result.Insights = insights(profile, tier, goalMode, feasibility)
	return result, nil
}

// projectSegments computes the sixteen prediction-mode segment times: runs
// degrade with their ordinal, stations start from nominal and take the
// athlete's modifiers.
func (e *Engine) projectSegments(profile AthleteProfile, baseRun int) []int {
	times := make([]int, schedule.SegmentCount)
	for i, seg := range schedule.Segments() {
		if seg.IsRun() {
			factor := 1 + float64(seg.RunIndex-1)*runDegradation
			times[i] = roundInt(float64(baseRun) * factor)
			continue
		}
		times[i] = roundInt(float64(seg.Nominal) * stationModifier(profile, seg.Type))
	}
	return times
}

// stationModifier returns the profile-driven multiplier for a station type.
func stationModifier(profile AthleteProfile, t schedule.SegmentType) float64 {
	switch t {
	case schedule.SledPush, schedule.SledPull:
		switch profile.SledComfort {
		case SledSoulCrushing:
			return sledPenalty
		case SledComfortable:
			return sledBonus
		}
	case schedule.WallBalls:
		if profile.WallBallUnbrokenMax < wallBallWeakMax {
			return wallBallPenalty
		}
		if profile.WallBallUnbrokenMax > wallBallStrongMin {
			return wallBallBonus
		}
	}
	return 1.0
}

// assessGoal grades the goal against the prediction and rescales the plan.
// Goal-mode segment times ignore station modifiers: pacing is driven purely
// by the required scale over the base times.
func (e *Engine) assessGoal(profile AthleteProfile, goal, predictedTotal, baseRun, roxzone int, predicted []int) (*GoalAssessment, []int, error) {
	if predictedTotal == roxzone {
		return nil, nil, fmt.Errorf("%w: predicted race time is all transition", ErrComputation)
	}

	percentDiff := float64(goal-predictedTotal) / float64(predictedTotal) * 100
	var feasibility Feasibility
	switch {
	case percentDiff < -20:
		feasibility = FeasibilityTooFast
	case percentDiff < -10:
		feasibility = FeasibilityAggressive
	case percentDiff < 10:
		feasibility = FeasibilityRealistic
	default:
		feasibility = FeasibilityEasy
	}

	scale := float64(goal-roxzone) / float64(predictedTotal-roxzone)
	scaled := make([]int, schedule.SegmentCount)
	for i, seg := range schedule.Segments() {
		base := float64(seg.Nominal)
		if seg.IsRun() {
			base = float64(baseRun) * (1 + float64(seg.RunIndex-1)*runDegradation)
		}
		scaled[i] = roundInt(base * scale)
	}

	assessment := &GoalAssessment{
		GoalSeconds: goal,
		PercentDiff: percentDiff,
		Feasibility: feasibility,
		ScaleFactor: scale,
	}

	// A goal can grade as merely aggressive yet still demand faster running
	// than the athlete's open 5K pace. Flag that separately.
	stationTotal := 0
	for i, seg := range schedule.Segments() {
		if !seg.IsRun() {
			stationTotal += predicted[i]
		}
	}
	requiredRunPace := float64(goal-stationTotal-roxzone) / 8
	fiveKPace := float64(profile.FiveKTimeSeconds) / 5
	if requiredRunPace < fiveKPace {
		assessment.Impossible = true
		assessment.ImpossibleNote = fmt.Sprintf(
			"goal requires averaging %s on the runs, faster than the open 5K pace of %s",
			FormatPace(roundInt(requiredRunPace)), FormatPace(roundInt(fiveKPace)))
	}
	return assessment, scaled, nil
}

// buildPlan decorates the raw segment times with fatigue, risk, and cues.
func (e *Engine) buildPlan(profile AthleteProfile, targets []int, goalMode bool, feasibility Feasibility) []SegmentPlan {
	plan := make([]SegmentPlan, schedule.SegmentCount)
	for i, seg := range schedule.Segments() {
		fatigue := math.Min(fatigueCeiling, float64(i)*fatiguePerSlot)
		plan[i] = SegmentPlan{
			SlotIndex:     i,
			Name:          seg.Name,
			TargetSeconds: targets[i],
			TargetDisplay: FormatDuration(targets[i]),
			FatigueFactor: fatigue,
			Risk:          segmentRisk(fatigue, goalMode, feasibility),
			ExecutionCue:  cueFor(seg, goalMode, feasibility),
		}
		// The runs are 1 km legs, so the target doubles as the pace.
		if seg.IsRun() {
			plan[i].PaceDisplay = FormatPace(targets[i])
		}
	}
	return plan
}

// segmentRisk grades one slot. Goal mode escalates with infeasibility.
// The fatigue bands compare strictly: 12 * 0.05 computes to just above 0.6
// in float64, so the high band opens at slot 12 in prediction mode.
func segmentRisk(fatigue float64, goalMode bool, feasibility Feasibility) RiskLevel {
	if goalMode {
		switch {
		case feasibility == FeasibilityTooFast:
			return RiskCritical
		case feasibility == FeasibilityAggressive && fatigue > 0.4:
			return RiskHigh
		case feasibility == FeasibilityAggressive || fatigue > 0.6:
			return RiskModerate
		default:
			return RiskLow
		}
	}
	switch {
	case fatigue > 0.6:
		return RiskHigh
	case fatigue > 0.4:
		return RiskModerate
	default:
		return RiskLow
	}
}

func (e *Engine) predict(predictedTotal int, goalMode bool, goal *int, feasibility Feasibility) FinishTimePrediction {
	if goalMode {
		confidence := map[Feasibility]float64{
			FeasibilityEasy:       0.9,
			FeasibilityRealistic:  0.75,
			FeasibilityAggressive: 0.4,
			FeasibilityTooFast:    0.15,
		}[feasibility]
		return FinishTimePrediction{
			LikelySeconds:       *goal,
			ConservativeSeconds: *goal,
			AggressiveSeconds:   *goal,
			LikelyDisplay:       FormatDuration(*goal),
			Confidence:          confidence,
		}
	}
	return FinishTimePrediction{
		LikelySeconds:       predictedTotal,
		ConservativeSeconds: roundInt(float64(predictedTotal) * conservativeFactor),
		AggressiveSeconds:   roundInt(float64(predictedTotal) * aggressiveFactor),
		LikelyDisplay:       FormatDuration(predictedTotal),
		Confidence:          predictionConfidence,
	}
}

// Blow-up probabilities are fixed lookups, not computed.
var blowUpByTier = map[Tier]float64{
	TierElite:        0.15,
	TierAdvanced:     0.2,
	TierIntermediate: 0.3,
	TierBeginner:     0.45,
	TierRecreational: 0.45,
}

var limiterExplanations = map[Limiter]string{
	LimiterAerobic:   "Your 5K time suggests running will be your main challenge. Running accounts for over half of total race time.",
	LimiterPacing:    "Your fitness is balanced. Success will come down to smart pacing: start conservative and finish strong.",
	LimiterGoalPace:  "The goal demands a pace faster than your current fitness predicts. Holding the required splits is the race.",
	LimiterExecution: "The goal is within reach. What decides it is clean execution: controlled stations and no wasted transitions.",
}

func (e *Engine) analyzeRisk(profile AthleteProfile, tier Tier, plan []SegmentPlan, goalMode bool, feasibility Feasibility) RiskAnalysis {
	analysis := RiskAnalysis{
		DangerRuns: append([]int(nil), schedule.DangerRuns...),
	}

	for _, seg := range plan {
		if seg.Risk == RiskHigh || seg.Risk == RiskCritical {
			analysis.HighRiskSegments = append(analysis.HighRiskSegments, seg.SlotIndex)
		}
	}

	switch {
	case goalMode && (feasibility == FeasibilityTooFast || feasibility == FeasibilityAggressive):
		analysis.PrimaryLimiter = LimiterGoalPace
	case goalMode:
		analysis.PrimaryLimiter = LimiterExecution
	case profile.FiveKTimeSeconds > aerobicLimitFiveK:
		analysis.PrimaryLimiter = LimiterAerobic
	default:
		analysis.PrimaryLimiter = LimiterPacing
	}
	analysis.LimiterExplanation = limiterExplanations[analysis.PrimaryLimiter]

	switch {
	case goalMode && feasibility == FeasibilityTooFast:
		analysis.BlowUpProbability = 0.8
	case goalMode && feasibility == FeasibilityAggressive:
		analysis.BlowUpProbability = 0.5
	default:
		analysis.BlowUpProbability = blowUpByTier[tier]
	}

	if analysis.BlowUpProbability > 0.3 {
		analysis.BlowUpZone = blowUpZone(profile)
	}

	switch {
	case analysis.BlowUpProbability >= 0.8:
		analysis.OverallRisk = RiskCritical
	case analysis.BlowUpProbability >= 0.5:
		analysis.OverallRisk = RiskHigh
	case analysis.BlowUpProbability >= 0.3:
		analysis.OverallRisk = RiskModerate
	default:
		analysis.OverallRisk = RiskLow
	}
	return analysis
}

// blowUpZone names where the race most likely unravels for this profile.
func blowUpZone(profile AthleteProfile) string {
	switch {
	case profile.SledComfort == SledSoulCrushing:
		return "Runs 3-4 (post-sled)"
	case profile.LungeTolerance == LungeWeak:
		return "Run 8 (post-lunges)"
	default:
		return "Run 5 (mid-race wall)"
	}
}

// penaltyWarnings flags judge calls this profile is likely to draw.
func penaltyWarnings(profile AthleteProfile) []PenaltyWarning {
	var warnings []PenaltyWarning
	if profile.SledComfort == SledSoulCrushing {
		warnings = append(warnings, PenaltyWarning{
			Station:           "Sled Pull",
			Rule:              "rope must be pulled hand over hand; stepping inside the box forfeits the length",
			FirstOffenseSecs:  15,
			RepeatOffenseSecs: 30,
		})
	}
	if profile.WallBallUnbrokenMax < 20 {
		warnings = append(warnings, PenaltyWarning{
			Station:           "Wall Balls",
			Rule:              "hips below knee crease at the bottom of every rep; no-reps are repeated",
			FirstOffenseSecs:  15,
			RepeatOffenseSecs: 30,
		})
	}
	return warnings
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
