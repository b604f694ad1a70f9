package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/fplsquad/internal/adapters/source"
	service "github.com/okian/fplsquad/internal/app"
	"github.com/okian/fplsquad/internal/config"
	"github.com/okian/fplsquad/internal/domain/lineup"
	"github.com/okian/fplsquad/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("FPLSQUAD_ADDR", ":8080")
			t.Setenv("FPLSQUAD_REFRESH_INTERVAL_SEC", "0")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RefreshInterval(), convey.ShouldEqual, time.Duration(0))
			})
		})

		convey.Convey("When testing source selection", func() {
			cfg := config.New(context.Background())

			convey.Convey("Then the live endpoint is used by default", func() {
				_, ok := newSource(cfg, logger.Nop()).(*source.Client)
				convey.So(ok, convey.ShouldBeTrue)
			})

			convey.Convey("And saved payloads win when configured", func() {
				cfg.BootstrapFile = "bootstrap.json"
				cfg.FixturesFile = "fixtures.json"

				fs, ok := newSource(cfg, logger.Nop()).(*source.FileSource)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(fs.BootstrapPath, convey.ShouldEqual, "bootstrap.json")
				convey.So(fs.FixturesPath, convey.ShouldEqual, "fixtures.json")
			})
		})

		convey.Convey("When testing service creation", func() {
			cfg := config.New(context.Background())
			cfg.HistoryPath = filepath.Join(t.TempDir(), "history.csv")

			convey.Convey("Then the service is built from configuration", func() {
				svc, err := newService(cfg, logger.Nop())
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Settings().Formation, convey.ShouldEqual, lineup.DefaultFormation)
				convey.So(svc.GetStats()["history"], convey.ShouldEqual, true)
			})

			convey.Convey("And an unusable formation is rejected", func() {
				cfg.Formation = "6-3-1"

				_, err := newService(cfg, logger.Nop())
				convey.So(errors.Is(err, lineup.ErrInvalidFormation), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMainApplicationRoutes(t *testing.T) {
	convey.Convey("Given the HTTP mux built from defaults", t, func() {
		cfg := config.New(context.Background())
		svc, err := service.New(service.WithLogger(logger.Nop()))
		convey.So(err, convey.ShouldBeNil)
		mux := newMux(cfg, svc)

		get := func(path string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			return rec
		}

		convey.Convey("Then health and docs are served", func() {
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And the plan is unavailable before the first run", func() {
			convey.So(get("/plan").Code, convey.ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When the listen address is empty", func() {
			// An empty env value still overrides the default.
			t.Setenv("FPLSQUAD_ADDR", "")

			convey.Convey("Then run fails before serving", func() {
				err := run(context.Background())
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
