package wearable

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/roxpace/internal/domain/model"
	"github.com/okian/roxpace/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// scriptedMonitor returns canned readings in order, then repeats the last.
type scriptedMonitor struct {
	readings []Reading
	errs     []error
	calls    int
	started  bool
}

func (m *scriptedMonitor) IsAvailable(context.Context) bool { return true }

func (m *scriptedMonitor) RequestPermissions(context.Context) (bool, error) { return true, nil }

func (m *scriptedMonitor) ReadLatestHR(context.Context) (Reading, error) {
	idx := m.calls
	if idx >= len(m.readings) {
		idx = len(m.readings) - 1
	}
	m.calls++
	if idx < len(m.errs) && m.errs[idx] != nil {
		return Reading{}, m.errs[idx]
	}
	return m.readings[idx], nil
}

func (m *scriptedMonitor) StartMonitoring(context.Context, string) error {
	m.started = true
	return nil
}

func (m *scriptedMonitor) StopMonitoring(context.Context) error {
	m.started = false
	return nil
}

// capturingPublisher remembers what was enqueued.
type capturingPublisher struct {
	samples []model.Sample
	reject  bool
}

func (p *capturingPublisher) Enqueue(_ context.Context, s model.Sample) bool {
	if p.reject {
		return false
	}
	p.samples = append(p.samples, s)
	return true
}

func intPtr(v int) *int { return &v }

func TestPoll(t *testing.T) {
	Convey("Given a poller over a scripted sensor", t, func() {
		ctx := context.Background()
		now := time.Date(2026, time.June, 6, 9, 0, 0, 0, time.UTC)
		maxHR := 190

		Convey("A reading becomes a timestamped sample with max HR attached", func() {
			monitor := &scriptedMonitor{readings: []Reading{{HeartRate: intPtr(162)}}}
			pub := &capturingPublisher{}
			poller := NewPoller(monitor, pub,
				WithMaxHR(func() *int { return &maxHR }),
				WithPollerClock(func() time.Time { return now }),
			)

			poller.Poll(ctx)
			So(pub.samples, ShouldHaveLength, 1)
			So(*pub.samples[0].HeartRate, ShouldEqual, 162)
			So(*pub.samples[0].MaxHeartRate, ShouldEqual, 190)
			So(pub.samples[0].Timestamp, ShouldEqual, now)
		})

		Convey("A sensor error is swallowed and the next poll recovers", func() {
			monitor := &scriptedMonitor{
				readings: []Reading{{}, {HeartRate: intPtr(150)}},
				errs:     []error{errors.New("bluetooth hiccup"), nil},
			}
			pub := &capturingPublisher{}
			poller := NewPoller(monitor, pub, WithMaxHR(func() *int { return &maxHR }))

			poller.Poll(ctx)
			So(pub.samples, ShouldBeEmpty)

			poller.Poll(ctx)
			So(pub.samples, ShouldHaveLength, 1)
		})

		Convey("An empty reading still publishes a no-signal sample", func() {
			monitor := &scriptedMonitor{readings: []Reading{{}}}
			pub := &capturingPublisher{}
			poller := NewPoller(monitor, pub)

			poller.Poll(ctx)
			So(pub.samples, ShouldHaveLength, 1)
			So(pub.samples[0].HeartRate, ShouldBeNil)
		})

		Convey("A rejecting queue does not crash the poll", func() {
			monitor := &scriptedMonitor{readings: []Reading{{HeartRate: intPtr(150)}}}
			pub := &capturingPublisher{reject: true}
			poller := NewPoller(monitor, pub)

			So(func() { poller.Poll(ctx) }, ShouldNotPanic)
		})
	})
}

func TestNoopMonitor(t *testing.T) {
	Convey("Given the no-op double", t, func() {
		ctx := context.Background()
		m := NewNoopMonitor()

		So(m.IsAvailable(ctx), ShouldBeFalse)
		granted, err := m.RequestPermissions(ctx)
		So(granted, ShouldBeFalse)
		So(err, ShouldBeNil)

		Convey("Start and stop are idempotent", func() {
			So(m.StartMonitoring(ctx, "s-1"), ShouldBeNil)
			So(m.StartMonitoring(ctx, "s-1"), ShouldBeNil)
			So(m.StopMonitoring(ctx), ShouldBeNil)
			So(m.StopMonitoring(ctx), ShouldBeNil)
		})
	})
}
