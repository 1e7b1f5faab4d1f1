package sim

import (
	"errors"
	"reflect"
	"testing"

	"github.com/okian/roxpace/internal/domain/schedule"
	. "github.com/smartystreets/goconvey/convey"
)

func intermediateProfile() AthleteProfile {
	return AthleteProfile{
		FiveKTimeSeconds:    1500,
		SledComfort:         SledManageable,
		WallBallUnbrokenMax: 25,
		LungeTolerance:      LungeModerate,
		Division:            "open_male",
	}
}

func TestValidate(t *testing.T) {
	Convey("Given profile validation", t, func() {
		engine := NewEngine()

		Convey("A non-positive 5K time is rejected", func() {
			p := intermediateProfile()
			p.FiveKTimeSeconds = 0
			_, err := engine.Simulate(p)
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
		})

		Convey("An out-of-range wall ball count is rejected", func() {
			p := intermediateProfile()
			p.WallBallUnbrokenMax = 150
			_, err := engine.Simulate(p)
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
		})

		Convey("An unknown sled comfort is rejected", func() {
			p := intermediateProfile()
			p.SledComfort = "breezy"
			_, err := engine.Simulate(p)
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
		})

		Convey("A non-positive goal is rejected", func() {
			p := intermediateProfile()
			goal := -1
			p.GoalTimeSeconds = &goal
			_, err := engine.Simulate(p)
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
		})
	})
}

func TestSimulatePrediction(t *testing.T) {
	Convey("Given a 25:00 5K athlete with neutral station strengths", t, func() {
		engine := NewEngine()
		result, err := engine.Simulate(intermediateProfile())
		So(err, ShouldBeNil)

		Convey("The athlete classifies as intermediate", func() {
			So(result.Tier, ShouldEqual, TierIntermediate)
			So(result.BaseRunTimeSeconds, ShouldEqual, 330)
			So(result.RoxzoneTimeSeconds, ShouldEqual, 300)
		})

		Convey("The predicted total is the segment sum plus roxzone", func() {
			So(result.PredictedTotal, ShouldEqual, 5354)
			sum := result.RoxzoneTimeSeconds
			for _, seg := range result.Segments {
				sum += seg.TargetSeconds
			}
			So(sum, ShouldEqual, result.PredictedTotal)
		})

		Convey("The three-point prediction brackets the likely time", func() {
			So(result.Prediction.LikelySeconds, ShouldEqual, 5354)
			So(result.Prediction.ConservativeSeconds, ShouldEqual, 5622)
			So(result.Prediction.AggressiveSeconds, ShouldEqual, 5086)
			So(result.Prediction.Confidence, ShouldEqual, 0.72)
			So(result.Prediction.LikelyDisplay, ShouldEqual, "1:29:14")
		})

		Convey("Runs degrade with their ordinal", func() {
			So(result.Segments[0].TargetSeconds, ShouldEqual, 330)
			So(result.Segments[0].PaceDisplay, ShouldEqual, "5:30/km")
			So(result.Segments[1].PaceDisplay, ShouldBeEmpty)
			So(result.Segments[2].TargetSeconds, ShouldEqual, 347)
			So(result.Segments[14].TargetSeconds, ShouldEqual, 446)
			for i := 2; i < schedule.SegmentCount; i += 2 {
				So(result.Segments[i].TargetSeconds, ShouldBeGreaterThan, result.Segments[i-2].TargetSeconds)
			}
		})

		Convey("Neutral strengths leave stations at nominal", func() {
			So(result.Segments[1].TargetSeconds, ShouldEqual, schedule.NominalSkiErg)
			So(result.Segments[15].TargetSeconds, ShouldEqual, schedule.NominalWallBalls)
		})

		Convey("Fatigue climbs by slot and caps at 0.9", func() {
			So(result.Segments[0].FatigueFactor, ShouldEqual, 0.0)
			So(result.Segments[8].FatigueFactor, ShouldEqual, 0.4)
			So(result.Segments[15].FatigueFactor, ShouldEqual, 0.75)
		})

		Convey("The rollup names the fixed danger runs and a moderate outlook", func() {
			So(result.Risk.DangerRuns, ShouldResemble, []int{5, 8})
			So(result.Risk.PrimaryLimiter, ShouldEqual, LimiterPacing)
			So(string(result.Risk.PrimaryLimiter), ShouldEqual, "pacing")
			So(result.Risk.LimiterExplanation, ShouldNotBeEmpty)
			So(result.Risk.BlowUpProbability, ShouldEqual, 0.3)
			So(result.Risk.OverallRisk, ShouldEqual, RiskModerate)
			So(result.Risk.BlowUpZone, ShouldBeEmpty)
		})

		Convey("The deep-fatigue slots grade high, opening at slot 12", func() {
			So(result.Risk.HighRiskSegments, ShouldResemble, []int{12, 13, 14, 15})
		})

		Convey("No goal means no assessment and no penalty flags", func() {
			So(result.Goal, ShouldBeNil)
			So(result.PenaltyWarnings, ShouldBeEmpty)
		})
	})
}

func TestSimulateGoalMode(t *testing.T) {
	Convey("Given the same athlete chasing 1:20:00", t, func() {
		engine := NewEngine()
		profile := intermediateProfile()
		goal := 4800
		profile.GoalTimeSeconds = &goal
		result, err := engine.Simulate(profile)
		So(err, ShouldBeNil)

		Convey("The goal grades as aggressive", func() {
			So(result.Goal, ShouldNotBeNil)
			So(result.Goal.Feasibility, ShouldEqual, FeasibilityAggressive)
			So(result.Goal.PercentDiff, ShouldAlmostEqual, -10.347, 0.001)
			So(result.Goal.Impossible, ShouldBeFalse)
		})

		Convey("The prediction collapses to the goal with low confidence", func() {
			So(result.Prediction.LikelySeconds, ShouldEqual, 4800)
			So(result.Prediction.ConservativeSeconds, ShouldEqual, 4800)
			So(result.Prediction.AggressiveSeconds, ShouldEqual, 4800)
			So(result.Prediction.Confidence, ShouldEqual, 0.4)
		})

		Convey("Segment targets scale toward the goal without station modifiers", func() {
			So(result.Goal.ScaleFactor, ShouldAlmostEqual, 0.8904, 0.0001)
			So(result.Segments[0].TargetSeconds, ShouldEqual, 294)
			So(result.Segments[1].TargetSeconds, ShouldEqual, 214)
		})

		Convey("Late segments grade high risk, early ones moderate", func() {
			So(result.Segments[0].Risk, ShouldEqual, RiskModerate)
			So(result.Segments[15].Risk, ShouldEqual, RiskHigh)
			So(result.Risk.HighRiskSegments, ShouldResemble, []int{9, 10, 11, 12, 13, 14, 15})
		})

		Convey("The rollup reflects the aggressive goal", func() {
			So(result.Risk.PrimaryLimiter, ShouldEqual, LimiterGoalPace)
			So(result.Risk.LimiterExplanation, ShouldNotBeEmpty)
			So(result.Risk.BlowUpProbability, ShouldEqual, 0.5)
			So(result.Risk.OverallRisk, ShouldEqual, RiskHigh)
			So(result.Risk.BlowUpZone, ShouldEqual, "Run 5 (mid-race wall)")
		})
	})

	Convey("Given a goal far beyond the prediction", t, func() {
		engine := NewEngine()
		profile := intermediateProfile()
		goal := 4000
		profile.GoalTimeSeconds = &goal
		result, err := engine.Simulate(profile)
		So(err, ShouldBeNil)

		Convey("It grades too fast with critical risk everywhere", func() {
			So(result.Goal.Feasibility, ShouldEqual, FeasibilityTooFast)
			So(result.Prediction.Confidence, ShouldEqual, 0.15)
			So(result.Risk.BlowUpProbability, ShouldEqual, 0.8)
			So(result.Risk.OverallRisk, ShouldEqual, RiskCritical)
			for _, seg := range result.Segments {
				So(seg.Risk, ShouldEqual, RiskCritical)
			}
		})

		Convey("It is flagged impossible against the open 5K pace", func() {
			So(result.Goal.Impossible, ShouldBeTrue)
			So(result.Goal.ImpossibleNote, ShouldNotBeEmpty)
		})
	})

	Convey("Given a goal slower than the prediction", t, func() {
		engine := NewEngine()
		profile := intermediateProfile()
		goal := 6000
		profile.GoalTimeSeconds = &goal
		result, err := engine.Simulate(profile)
		So(err, ShouldBeNil)

		Convey("It grades easy with high confidence", func() {
			So(result.Goal.Feasibility, ShouldEqual, FeasibilityEasy)
			So(result.Prediction.Confidence, ShouldEqual, 0.9)
			So(result.Risk.PrimaryLimiter, ShouldEqual, LimiterExecution)
			So(result.Risk.LimiterExplanation, ShouldNotBeEmpty)
		})
	})
}

func TestStationModifiers(t *testing.T) {
	Convey("Given profile-driven station adjustments", t, func() {
		engine := NewEngine()

		Convey("Soul-crushing sleds inflate both sled stations", func() {
			p := intermediateProfile()
			p.SledComfort = SledSoulCrushing
			result, err := engine.Simulate(p)
			So(err, ShouldBeNil)
			So(result.Segments[3].TargetSeconds, ShouldEqual, 234)
			So(result.Segments[5].TargetSeconds, ShouldEqual, 312)
		})

		Convey("Comfortable sleds earn a discount", func() {
			p := intermediateProfile()
			p.SledComfort = SledComfortable
			result, err := engine.Simulate(p)
			So(err, ShouldBeNil)
			So(result.Segments[3].TargetSeconds, ShouldEqual, 153)
			So(result.Segments[5].TargetSeconds, ShouldEqual, 204)
		})

		Convey("A weak wall ball set inflates the closer", func() {
			p := intermediateProfile()
			p.WallBallUnbrokenMax = 10
			result, err := engine.Simulate(p)
			So(err, ShouldBeNil)
			So(result.Segments[15].TargetSeconds, ShouldEqual, 468)
		})

		Convey("A big unbroken set earns a discount", func() {
			p := intermediateProfile()
			p.WallBallUnbrokenMax = 50
			result, err := engine.Simulate(p)
			So(err, ShouldBeNil)
			So(result.Segments[15].TargetSeconds, ShouldEqual, 306)
		})
	})
}

func TestTierAndLimiter(t *testing.T) {
	Convey("Given tier classification from the 5K time", t, func() {
		So(TierFor(1100), ShouldEqual, TierElite)
		So(TierFor(1200), ShouldEqual, TierAdvanced)
		So(TierFor(1440), ShouldEqual, TierIntermediate)
		So(TierFor(1800), ShouldEqual, TierIntermediate)
		So(TierFor(1801), ShouldEqual, TierBeginner)
	})

	Convey("Given the tier-specific outputs", t, func() {
		engine := NewEngine()

		Convey("An elite athlete gets the short roxzone and a pacing limiter", func() {
			p := intermediateProfile()
			p.FiveKTimeSeconds = 1100
			result, err := engine.Simulate(p)
			So(err, ShouldBeNil)
			So(result.Tier, ShouldEqual, TierElite)
			So(result.RoxzoneTimeSeconds, ShouldEqual, 180)
			So(result.Risk.PrimaryLimiter, ShouldEqual, LimiterPacing)
			So(result.Risk.BlowUpProbability, ShouldEqual, 0.15)
		})

		Convey("A slow 5K flips the limiter to aerobic capacity", func() {
			p := intermediateProfile()
			p.FiveKTimeSeconds = 1900
			result, err := engine.Simulate(p)
			So(err, ShouldBeNil)
			So(result.Tier, ShouldEqual, TierBeginner)
			So(result.RoxzoneTimeSeconds, ShouldEqual, 420)
			So(result.Risk.PrimaryLimiter, ShouldEqual, LimiterAerobic)
			So(string(result.Risk.PrimaryLimiter), ShouldEqual, "aerobic")
			So(result.Risk.LimiterExplanation, ShouldNotBeEmpty)
			So(result.Risk.BlowUpProbability, ShouldEqual, 0.45)
			So(result.Risk.BlowUpZone, ShouldNotBeEmpty)
		})
	})
}

func TestPenaltyWarnings(t *testing.T) {
	Convey("Given a profile prone to judge calls", t, func() {
		engine := NewEngine()
		p := intermediateProfile()
		p.SledComfort = SledSoulCrushing
		p.WallBallUnbrokenMax = 10
		result, err := engine.Simulate(p)
		So(err, ShouldBeNil)

		Convey("Both the sled pull and wall ball rules are flagged", func() {
			So(result.PenaltyWarnings, ShouldHaveLength, 2)
			So(result.PenaltyWarnings[0].Station, ShouldEqual, "Sled Pull")
			So(result.PenaltyWarnings[1].Station, ShouldEqual, "Wall Balls")
			So(result.PenaltyWarnings[0].FirstOffenseSecs, ShouldEqual, 15)
			So(result.PenaltyWarnings[0].RepeatOffenseSecs, ShouldEqual, 30)
		})
	})
}

func TestDeterminism(t *testing.T) {
	Convey("Given identical inputs", t, func() {
		engine := NewEngine()
		p := intermediateProfile()
		goal := 4800
		p.GoalTimeSeconds = &goal

		first, err := engine.Simulate(p)
		So(err, ShouldBeNil)
		second, err := engine.Simulate(p)
		So(err, ShouldBeNil)

		Convey("The outputs are identical", func() {
			So(reflect.DeepEqual(first, second), ShouldBeTrue)
		})
	})
}

func TestFormatDuration(t *testing.T) {
	Convey("Given duration formatting", t, func() {
		So(FormatDuration(5354), ShouldEqual, "1:29:14")
		So(FormatDuration(330), ShouldEqual, "5:30")
		So(FormatDuration(59), ShouldEqual, "0:59")
		So(FormatDuration(3600), ShouldEqual, "1:00:00")
		So(FormatDuration(-5), ShouldEqual, "0:00")
	})
}
