package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/roxpace/internal/adapters/http/api"
	"github.com/okian/roxpace/internal/adapters/repository"
	app "github.com/okian/roxpace/internal/app"
	"github.com/okian/roxpace/internal/config"
	"github.com/okian/roxpace/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestBootstrap(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			_ = os.Setenv("ROXPACE_ADDR", ":8080")
			_ = os.Setenv("ROXPACE_SAMPLE_QUEUE_SIZE", "1000")
			_ = os.Setenv("ROXPACE_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("ROXPACE_ADDR")
				_ = os.Unsetenv("ROXPACE_SAMPLE_QUEUE_SIZE")
				_ = os.Unsetenv("ROXPACE_WORKER_COUNT")
			}()

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.SampleQueueSize, convey.ShouldEqual, 1000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
		})

		convey.Convey("When opening the configured store", func() {
			convey.Convey("The memory driver needs no path", func() {
				store, err := openStore(context.Background(), config.New())
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldHaveSameTypeAs, repository.NewMemoryStore())
				convey.So(store.Close(), convey.ShouldBeNil)
			})

			convey.Convey("The sqlite driver opens the database file", func() {
				cfg := config.New()
				cfg.StoreDriver = "sqlite"
				cfg.StorePath = filepath.Join(t.TempDir(), "state.db")
				store, err := openStore(context.Background(), cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When wiring the HTTP server", func() {
			svc := app.New(app.WithTicks(time.Hour, time.Hour))
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()

			mux := http.NewServeMux()
			api.NewServer(svc).Register(context.Background(), mux)

			srv := &http.Server{Addr: ":0", Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
			convey.So(srv.Handler, convey.ShouldNotBeNil)
		})
	})
}
