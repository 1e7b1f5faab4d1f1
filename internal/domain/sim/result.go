package sim

import "fmt"

// Feasibility grades a goal time against the engine's own prediction.
type Feasibility string

const (
	FeasibilityEasy       Feasibility = "easy"
	FeasibilityRealistic  Feasibility = "realistic"
	FeasibilityAggressive Feasibility = "aggressive"
	FeasibilityTooFast    Feasibility = "too_fast"
)

// RiskLevel grades how likely a segment is to blow up the race plan.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Limiter names the factor most likely to cap the athlete's result.
type Limiter string

const (
	LimiterAerobic   Limiter = "aerobic"
	LimiterPacing    Limiter = "pacing"
	LimiterGoalPace  Limiter = "goal_pace"
	LimiterExecution Limiter = "execution"
)

// FinishTimePrediction is the three-point finish estimate. In goal mode all
// three collapse to the goal itself and confidence reflects feasibility.
type FinishTimePrediction struct {
	LikelySeconds       int     `json:"likely_seconds"`
	ConservativeSeconds int     `json:"conservative_seconds"`
	AggressiveSeconds   int     `json:"aggressive_seconds"`
	LikelyDisplay       string  `json:"likely_display"`
	Confidence          float64 `json:"confidence"`
}

// SegmentPlan is one of the sixteen pacing entries.
type SegmentPlan struct {
	SlotIndex     int       `json:"slot_index"`
	Name          string    `json:"name"`
	TargetSeconds int       `json:"target_seconds"`
	TargetDisplay string    `json:"target_display"`
	PaceDisplay   string    `json:"pace_display,omitempty"`
	FatigueFactor float64   `json:"fatigue_factor"`
	Risk          RiskLevel `json:"risk"`
	ExecutionCue  string    `json:"execution_cue"`
}

// PenaltyWarning flags a rule the athlete's profile makes them likely to trip.
type PenaltyWarning struct {
	Station           string `json:"station"`
	Rule              string `json:"rule"`
	FirstOffenseSecs  int    `json:"first_offense_seconds"`
	RepeatOffenseSecs int    `json:"repeat_offense_seconds"`
}

// RiskAnalysis is the race-level rollup of the per-segment risks.
type RiskAnalysis struct {
	DangerRuns         []int     `json:"danger_runs"`
	PrimaryLimiter     Limiter   `json:"primary_limiter"`
	LimiterExplanation string    `json:"limiter_explanation"`
	BlowUpProbability  float64   `json:"blow_up_probability"`
	BlowUpZone         string    `json:"blow_up_zone,omitempty"`
	HighRiskSegments   []int     `json:"high_risk_segments"`
	OverallRisk        RiskLevel `json:"overall_risk"`
}

// GoalAssessment is only present when the profile carried a goal time.
type GoalAssessment struct {
	GoalSeconds    int         `json:"goal_seconds"`
	PercentDiff    float64     `json:"percent_diff"`
	Feasibility    Feasibility `json:"feasibility"`
	ScaleFactor    float64     `json:"scale_factor"`
	Impossible     bool        `json:"impossible"`
	ImpossibleNote string      `json:"impossible_note,omitempty"`
}

// RaceSimulation is the complete engine output. It carries no identity or
// timestamps; callers attach those when they persist it.
type RaceSimulation struct {
	Tier               Tier                 `json:"tier"`
	BaseRunTimeSeconds int                  `json:"base_run_time_seconds"`
	RoxzoneTimeSeconds int                  `json:"roxzone_time_seconds"`
	PredictedTotal     int                  `json:"predicted_total_seconds"`
	Prediction         FinishTimePrediction `json:"prediction"`
	Segments           []SegmentPlan        `json:"segments"`
	Risk               RiskAnalysis         `json:"risk"`
	Goal               *GoalAssessment      `json:"goal,omitempty"`
	PenaltyWarnings    []PenaltyWarning     `json:"penalty_warnings,omitempty"`
	Insights           []string             `json:"insights"`
}

// FormatDuration renders seconds as H:MM:SS, or M:SS below one hour.
func FormatDuration(total int) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatPace renders a per-kilometre run pace as M:SS/km.
func FormatPace(secondsPerKm int) string {
	if secondsPerKm < 0 {
		secondsPerKm = 0
	}
	return fmt.Sprintf("%d:%02d/km", secondsPerKm/60, secondsPerKm%60)
}
