package race

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock advances only when told to.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, time.June, 6, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.current }

func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func eventOn(day time.Time) *Event {
	return &Event{ID: "evt-1", Name: "City Major", Date: day}
}

func TestSessionPhase(t *testing.T) {
	Convey("Given a fresh session", t, func() {
		clock := newFakeClock()
		session := NewSession(WithClock(clock.Now))

		Convey("Nothing selected means no_race", func() {
			So(session.Phase(), ShouldEqual, PhaseNoRace)
			So(session.Status(), ShouldEqual, StatusIdle)
		})

		Convey("Selecting a future race enters countdown", func() {
			session.Select(eventOn(clock.Now().AddDate(0, 0, 14)))
			So(session.Phase(), ShouldEqual, PhaseCountdown)
		})

		Convey("Selecting a race dated today enters race_day", func() {
			session.Select(eventOn(clock.Now()))
			So(session.Phase(), ShouldEqual, PhaseRaceDay)
		})

		Convey("A multi-day race counts its whole window as race_day", func() {
			event := eventOn(clock.Now().AddDate(0, 0, -1))
			event.EndDate = clock.Now().AddDate(0, 0, 1)
			session.Select(event)
			So(session.Phase(), ShouldEqual, PhaseRaceDay)
		})

		Convey("Phase is frozen once the race is live", func() {
			session.Select(eventOn(clock.Now()))
			So(session.Start(), ShouldBeNil)
			So(session.Phase(), ShouldEqual, PhaseRaceDay)

			clock.Advance(48 * time.Hour)
			session.RefreshPhase()
			So(session.Phase(), ShouldEqual, PhaseRaceDay)

			Convey("And thaws again after reset", func() {
				session.Reset()
				So(session.Phase(), ShouldEqual, PhaseNoRace)
			})
		})
	})
}

func TestSessionClock(t *testing.T) {
	Convey("Given a selected race", t, func() {
		clock := newFakeClock()
		session := NewSession(WithClock(clock.Now))
		session.Select(eventOn(clock.Now()))

		Convey("Starting without a selection fails", func() {
			bare := NewSession(WithClock(clock.Now))
			So(errors.Is(bare.Start(), ErrNoRaceSelected), ShouldBeTrue)
		})

		Convey("Elapsed time accumulates only while running", func() {
			So(session.Start(), ShouldBeNil)
			clock.Advance(90 * time.Second)
			session.TickElapsed()
			So(session.Elapsed(), ShouldEqual, 90)

			session.Pause()
			So(session.Status(), ShouldEqual, StatusPaused)
			clock.Advance(5 * time.Minute)
			session.TickElapsed()
			So(session.Elapsed(), ShouldEqual, 90)

			session.Resume()
			clock.Advance(30 * time.Second)
			session.TickElapsed()
			So(session.Elapsed(), ShouldEqual, 120)
		})

		Convey("Pause and resume are no-ops out of order", func() {
			session.Pause()
			So(session.Status(), ShouldEqual, StatusIdle)
			session.Resume()
			So(session.Status(), ShouldEqual, StatusIdle)
		})

		Convey("Double start is rejected", func() {
			So(session.Start(), ShouldBeNil)
			So(errors.Is(session.Start(), ErrInvalidTransition), ShouldBeTrue)
		})

		Convey("Finish folds the in-flight interval and is terminal", func() {
			So(session.Start(), ShouldBeNil)
			clock.Advance(45 * time.Second)
			So(session.Finish(), ShouldBeNil)
			So(session.Status(), ShouldEqual, StatusFinished)
			So(session.Elapsed(), ShouldEqual, 45)

			clock.Advance(time.Hour)
			session.TickElapsed()
			So(session.Elapsed(), ShouldEqual, 45)
			So(errors.Is(session.Start(), ErrInvalidTransition), ShouldBeTrue)
		})

		Convey("Finish from idle is rejected", func() {
			So(errors.Is(session.Finish(), ErrInvalidTransition), ShouldBeTrue)
		})

		Convey("Selecting a new race clears a finished session", func() {
			So(session.Start(), ShouldBeNil)
			clock.Advance(10 * time.Second)
			So(session.Finish(), ShouldBeNil)

			session.Select(eventOn(clock.Now().AddDate(0, 0, 7)))
			So(session.Status(), ShouldEqual, StatusIdle)
			So(session.Elapsed(), ShouldEqual, 0)
			So(session.Phase(), ShouldEqual, PhaseCountdown)
		})
	})
}
