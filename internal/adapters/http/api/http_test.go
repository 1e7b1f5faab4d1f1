package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/roxpace/internal/adapters/http/api"
	"github.com/okian/roxpace/internal/adapters/repository"
	service "github.com/okian/roxpace/internal/app"
	"github.com/okian/roxpace/internal/benchmarks"
	"github.com/okian/roxpace/internal/domain/advisory"
	"github.com/okian/roxpace/internal/domain/model"
	"github.com/okian/roxpace/internal/domain/race"
	"github.com/okian/roxpace/internal/domain/redline"
	"github.com/okian/roxpace/internal/domain/sim"
)

// mockDeps implements api.Dependencies with scriptable behavior.
type mockDeps struct {
	simRecord   *api.SimulationRecord
	simErr      error
	snapshot    api.RaceSnapshot
	selected    *race.Event
	startErr    error
	finishErr   error
	split       race.SegmentSplit
	splitOK     bool
	undone      bool
	accepted    int
	alerts      []redline.Alert
	resolveErr  error
	resolvedIDs []string
	competitors []model.CompetitorSnapshot
	upsertErr   error
	advice      api.AdvicePair
	stats       api.Stats
}

func (m *mockDeps) Simulate(_ context.Context, _ sim.AthleteProfile) (*api.SimulationRecord, error) {
	return m.simRecord, m.simErr
}

func (m *mockDeps) Simulation() *api.SimulationRecord { return m.simRecord }

func (m *mockDeps) Race() api.RaceSnapshot { return m.snapshot }

func (m *mockDeps) SelectRace(_ context.Context, event race.Event) error {
	m.selected = &event
	return nil
}

func (m *mockDeps) StartRace(_ context.Context) error  { return m.startErr }
func (m *mockDeps) PauseRace()                         {}
func (m *mockDeps) ResumeRace()                        {}
func (m *mockDeps) FinishRace(_ context.Context) error { return m.finishErr }
func (m *mockDeps) ResetRace(_ context.Context) error  { return nil }

func (m *mockDeps) Checkpoint(_ *int) (race.SegmentSplit, bool) { return m.split, m.splitOK }
func (m *mockDeps) UndoCheckpoint() bool                        { return m.undone }

func (m *mockDeps) IngestSamples(_ context.Context, _ []model.Sample) int { return m.accepted }

func (m *mockDeps) Alerts() []redline.Alert { return m.alerts }

func (m *mockDeps) ResolveAlert(id string) error {
	if m.resolveErr != nil {
		return m.resolveErr
	}
	m.resolvedIDs = append(m.resolvedIDs, id)
	return nil
}

func (m *mockDeps) UpsertCompetitors(snapshots []model.CompetitorSnapshot) (int, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.competitors = append(m.competitors, snapshots...)
	return len(snapshots), nil
}

func (m *mockDeps) Competitors() []model.CompetitorSnapshot { return m.competitors }

func (m *mockDeps) Advice() api.AdvicePair { return m.advice }

func (m *mockDeps) Benchmark(id string) (benchmarks.Division, bool) { return benchmarks.Lookup(id) }
func (m *mockDeps) Divisions() []benchmarks.Division               { return benchmarks.Divisions() }

func (m *mockDeps) GetStats(_ context.Context) api.Stats { return m.stats }

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSimulateEndpoints(t *testing.T) {
	Convey("Given the simulation routes", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("POST /simulate returns the record", func() {
			deps.simRecord = &api.SimulationRecord{ID: "sim-1"}
			rec := doRequest(mux, http.MethodPost, "/simulate", `{"five_k_time_seconds":1500,"sled_comfort":"manageable","wall_ball_unbroken_max":25}`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var got api.SimulationRecord
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got.ID, ShouldEqual, "sim-1")
		})

		Convey("Malformed JSON is a 400", func() {
			rec := doRequest(mux, http.MethodPost, "/simulate", `{"five_k`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Validation failures map to 400", func() {
			deps.simErr = fmt.Errorf("five_k_time_seconds must be positive: %w", sim.ErrValidation)
			rec := doRequest(mux, http.MethodPost, "/simulate", `{"five_k_time_seconds":-1}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			var resp map[string]string
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["code"], ShouldEqual, "bad_request")
		})

		Convey("Computation failures map to 422", func() {
			deps.simErr = fmt.Errorf("degenerate projection: %w", sim.ErrComputation)
			rec := doRequest(mux, http.MethodPost, "/simulate", `{"five_k_time_seconds":1500}`)
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("GET /simulate/latest is a 404 with no plan", func() {
			rec := doRequest(mux, http.MethodGet, "/simulate/latest", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("GET on the POST route is a 404", func() {
			rec := doRequest(mux, http.MethodGet, "/simulate", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRaceEndpoints(t *testing.T) {
	Convey("Given the race session routes", t, func() {
		deps := &mockDeps{snapshot: api.RaceSnapshot{Phase: race.PhaseNoRace, Status: race.StatusIdle}}
		mux := newMux(deps)

		Convey("GET /race returns the snapshot", func() {
			rec := doRequest(mux, http.MethodGet, "/race", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var snap api.RaceSnapshot
			So(json.Unmarshal(rec.Body.Bytes(), &snap), ShouldBeNil)
			So(snap.Phase, ShouldEqual, race.PhaseNoRace)
		})

		Convey("POST /race/select validates the payload", func() {
			rec := doRequest(mux, http.MethodPost, "/race/select", `{"id":"evt-1","date":"2026-06-06T08:00:00Z"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			rec = doRequest(mux, http.MethodPost, "/race/select", `{"id":"evt-1","name":"City Major","date":"june 6th"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			rec = doRequest(mux, http.MethodPost, "/race/select",
				`{"id":"evt-1","name":"City Major","location":"Berlin","date":"2026-06-06T08:00:00Z","end_date":"2026-06-07T18:00:00Z"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.selected, ShouldNotBeNil)
			So(deps.selected.Name, ShouldEqual, "City Major")
			So(deps.selected.EndDate, ShouldNotBeNil)
		})

		Convey("Transition errors map to 409", func() {
			deps.startErr = fmt.Errorf("already running: %w", race.ErrInvalidTransition)
			rec := doRequest(mux, http.MethodPost, "/race/start", "")
			So(rec.Code, ShouldEqual, http.StatusConflict)

			deps.finishErr = fmt.Errorf("no race selected: %w", race.ErrNoRaceSelected)
			rec = doRequest(mux, http.MethodPost, "/race/finish", "")
			So(rec.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("Pause and resume always return the snapshot", func() {
			So(doRequest(mux, http.MethodPost, "/race/pause", "").Code, ShouldEqual, http.StatusOK)
			So(doRequest(mux, http.MethodPost, "/race/resume", "").Code, ShouldEqual, http.StatusOK)
			So(doRequest(mux, http.MethodPost, "/race/reset", "").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestCheckpointEndpoints(t *testing.T) {
	Convey("Given the checkpoint routes", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("A recorded split comes back in the response", func() {
			deps.split = race.SegmentSplit{SegmentIndex: 0, SegmentName: "Run 1", SplitSeconds: 330, ElapsedAtCompletion: 330}
			deps.splitOK = true

			rec := doRequest(mux, http.MethodPost, "/race/checkpoint", `{"elapsed_seconds":330}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"recorded":true`)
			So(rec.Body.String(), ShouldContainSubstring, `"Run 1"`)
		})

		Convey("An empty body defaults to the session clock", func() {
			deps.splitOK = true
			rec := doRequest(mux, http.MethodPost, "/race/checkpoint", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Negative elapsed is a 400", func() {
			rec := doRequest(mux, http.MethodPost, "/race/checkpoint", `{"elapsed_seconds":-5}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A finished race reports recorded false", func() {
			deps.splitOK = false
			rec := doRequest(mux, http.MethodPost, "/race/checkpoint", "{}")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"recorded":false`)
		})

		Convey("Undo reports whether a split was removed", func() {
			deps.undone = true
			rec := doRequest(mux, http.MethodPost, "/race/checkpoint/undo", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"undone":true`)
		})
	})
}

func TestWearableSync(t *testing.T) {
	Convey("Given the wearable sync route", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)
		body := `{"samples":[{"heart_rate":172,"max_heart_rate":190,"timestamp":"2026-06-06T08:10:00Z"},{"heart_rate":175,"max_heart_rate":190,"timestamp":"2026-06-06T08:10:30Z"}]}`

		Convey("Accepted batches return 202 with counts", func() {
			deps.accepted = 2
			rec := doRequest(mux, http.MethodPost, "/wearable/sync", body)
			So(rec.Code, ShouldEqual, http.StatusAccepted)
			So(rec.Body.String(), ShouldContainSubstring, `"accepted":2`)
			So(rec.Body.String(), ShouldContainSubstring, `"rejected":0`)
		})

		Convey("A saturated queue returns 429", func() {
			deps.accepted = 0
			rec := doRequest(mux, http.MethodPost, "/wearable/sync", body)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("An empty batch is a 400", func() {
			rec := doRequest(mux, http.MethodPost, "/wearable/sync", `{"samples":[]}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAlertEndpoints(t *testing.T) {
	Convey("Given the alert routes", t, func() {
		resolved := time.Date(2026, time.June, 6, 9, 0, 0, 0, time.UTC)
		deps := &mockDeps{alerts: []redline.Alert{
			{ID: "a-1", DurationSeconds: 125},
			{ID: "a-2", DurationSeconds: 140, ResolvedAt: &resolved},
		}}
		mux := newMux(deps)

		Convey("GET /alerts lists everything", func() {
			rec := doRequest(mux, http.MethodGet, "/alerts", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var alerts []redline.Alert
			So(json.Unmarshal(rec.Body.Bytes(), &alerts), ShouldBeNil)
			So(alerts, ShouldHaveLength, 2)
		})

		Convey("The active filter drops resolved alerts", func() {
			rec := doRequest(mux, http.MethodGet, "/alerts?active=true", "")

			var alerts []redline.Alert
			So(json.Unmarshal(rec.Body.Bytes(), &alerts), ShouldBeNil)
			So(alerts, ShouldHaveLength, 1)
			So(alerts[0].ID, ShouldEqual, "a-1")
		})

		Convey("POST /alerts/{id}/resolve resolves by ID", func() {
			rec := doRequest(mux, http.MethodPost, "/alerts/a-1/resolve", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.resolvedIDs, ShouldResemble, []string{"a-1"})
		})

		Convey("An unknown alert is a 404", func() {
			deps.resolveErr = fmt.Errorf("alert %q: %w", "ghost", repository.ErrNotFound)
			rec := doRequest(mux, http.MethodPost, "/alerts/ghost/resolve", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Malformed resolve paths are a 400", func() {
			So(doRequest(mux, http.MethodPost, "/alerts/a-1", "").Code, ShouldEqual, http.StatusBadRequest)
			So(doRequest(mux, http.MethodPost, "/alerts//resolve", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCompetitorEndpoints(t *testing.T) {
	Convey("Given the competitor routes", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("POST stores the batch", func() {
			body := `{"competitors":[{"id":"c-1","name":"Rival","segments_completed":3,"elapsed_seconds":900}]}`
			rec := doRequest(mux, http.MethodPost, "/race/competitors", body)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"stored":1`)
		})

		Convey("A full field maps to 409", func() {
			deps.upsertErr = fmt.Errorf("%w: field capped at 20 competitors", service.ErrFieldFull)
			body := `{"competitors":[{"id":"c-9","segments_completed":1,"elapsed_seconds":300}]}`
			rec := doRequest(mux, http.MethodPost, "/race/competitors", body)
			So(rec.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("GET returns the tracked field", func() {
			deps.competitors = []model.CompetitorSnapshot{{ID: "c-1", SegmentsCompleted: 3}}
			rec := doRequest(mux, http.MethodGet, "/race/competitors", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var field []model.CompetitorSnapshot
			So(json.Unmarshal(rec.Body.Bytes(), &field), ShouldBeNil)
			So(field, ShouldHaveLength, 1)
		})
	})
}

func TestBenchmarkEndpoints(t *testing.T) {
	Convey("Given the benchmark routes", t, func() {
		mux := newMux(&mockDeps{})

		Convey("The list covers the full catalog", func() {
			rec := doRequest(mux, http.MethodGet, "/benchmarks", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var divisions []benchmarks.Division
			So(json.Unmarshal(rec.Body.Bytes(), &divisions), ShouldBeNil)
			So(divisions, ShouldHaveLength, 7)
		})

		Convey("A known division resolves", func() {
			rec := doRequest(mux, http.MethodGet, "/benchmarks/womens_pro", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "Women's Pro")
		})

		Convey("An unknown division is a 404", func() {
			rec := doRequest(mux, http.MethodGet, "/benchmarks/mixed_ultra", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the operational routes", t, func() {
		deps := &mockDeps{
			stats: api.Stats{Status: race.StatusRunning, AlertsTotal: 3},
			advice: api.AdvicePair{
				Coach: advisory.Advice{Rule: "segment_default", Severity: advisory.SeverityInfo},
				Scout: advisory.Advice{Rule: "field_default", Severity: advisory.SeverityInfo},
			},
		}
		mux := newMux(deps)

		Convey("GET /healthz reports ok", func() {
			rec := doRequest(mux, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("GET /stats returns runtime counters", func() {
			rec := doRequest(mux, http.MethodGet, "/stats", "")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var stats api.Stats
			So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
			So(stats.AlertsTotal, ShouldEqual, 3)
		})

		Convey("GET /advice returns both verdicts", func() {
			rec := doRequest(mux, http.MethodGet, "/advice", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "segment_default")
			So(rec.Body.String(), ShouldContainSubstring, "field_default")
		})

		Convey("GET /metrics serves the Prometheus registry", func() {
			rec := doRequest(mux, http.MethodGet, "/metrics", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
