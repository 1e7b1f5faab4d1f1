package race

import (
	"testing"

	"github.com/okian/roxpace/internal/domain/schedule"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTrackerAdvance(t *testing.T) {
	Convey("Given a tracker at the start line", t, func() {
		tracker := NewSegmentTracker()

		Convey("The first checkpoint records a zero-based split", func() {
			split, ok := tracker.Advance(320)
			So(ok, ShouldBeTrue)
			So(split.SegmentIndex, ShouldEqual, 0)
			So(split.SegmentName, ShouldEqual, "Run 1")
			So(split.SplitSeconds, ShouldEqual, 320)

			p := tracker.Participant()
			So(p.SegmentsCompleted, ShouldEqual, 1)
			So(p.CurrentSegmentIndex, ShouldEqual, 1)
			So(p.ElapsedSeconds, ShouldEqual, 320)
			So(p.LastStationName, ShouldEqual, "Run 1")
		})

		Convey("Subsequent splits are deltas from the previous checkpoint", func() {
			tracker.Advance(320)
			split, ok := tracker.Advance(560)
			So(ok, ShouldBeTrue)
			So(split.SegmentName, ShouldEqual, "SkiErg")
			So(split.ElapsedAtCompletion, ShouldEqual, 560)
			So(split.SplitSeconds, ShouldEqual, 240)
			So(len(tracker.Splits()), ShouldEqual, 2)
		})

		Convey("The split count always matches segments completed", func() {
			elapsed := 0
			for i := 0; i < schedule.SegmentCount; i++ {
				elapsed += 300
				_, ok := tracker.Advance(elapsed)
				So(ok, ShouldBeTrue)
				So(len(tracker.Splits()), ShouldEqual, tracker.Participant().SegmentsCompleted)
			}
		})

		Convey("The seventeenth checkpoint is a no-op", func() {
			elapsed := 0
			for i := 0; i < schedule.SegmentCount; i++ {
				elapsed += 300
				tracker.Advance(elapsed)
			}
			_, ok := tracker.Advance(elapsed + 300)
			So(ok, ShouldBeFalse)
			So(tracker.Participant().SegmentsCompleted, ShouldEqual, 16)
			So(tracker.Participant().CurrentSegmentIndex, ShouldEqual, 15)
			So(tracker.Position().IsFinished, ShouldBeTrue)
		})
	})
}

func TestTrackerUndo(t *testing.T) {
	Convey("Given a tracker with three splits", t, func() {
		tracker := NewSegmentTracker()
		tracker.Advance(330)
		tracker.Advance(570)
		tracker.Advance(930)

		Convey("Undo rolls back to the prior checkpoint", func() {
			So(tracker.Undo(), ShouldBeTrue)
			p := tracker.Participant()
			So(p.SegmentsCompleted, ShouldEqual, 2)
			So(p.ElapsedSeconds, ShouldEqual, 570)
			So(p.LastStationName, ShouldEqual, "SkiErg")
			So(len(tracker.Splits()), ShouldEqual, 2)
		})

		Convey("Undo then advance at the same elapsed reproduces the split", func() {
			original := tracker.Splits()[2]
			tracker.Undo()
			replayed, ok := tracker.Advance(930)
			So(ok, ShouldBeTrue)
			So(replayed, ShouldResemble, original)
			So(replayed.SplitSeconds, ShouldEqual, 360)
		})

		Convey("Undoing everything returns to the start line", func() {
			So(tracker.Undo(), ShouldBeTrue)
			So(tracker.Undo(), ShouldBeTrue)
			So(tracker.Undo(), ShouldBeTrue)
			So(tracker.Undo(), ShouldBeFalse)
			So(tracker.Participant(), ShouldResemble, Participant{})
		})

		Convey("Completed segments stay within bounds under any sequence", func() {
			ops := []bool{true, true, false, true, false, false, false, false, true}
			elapsed := 930
			for _, advance := range ops {
				if advance {
					elapsed += 60
					tracker.Advance(elapsed)
				} else {
					tracker.Undo()
				}
				completed := tracker.Participant().SegmentsCompleted
				So(completed, ShouldBeBetweenOrEqual, 0, schedule.SegmentCount)
				So(len(tracker.Splits()), ShouldEqual, completed)
			}
		})
	})
}
