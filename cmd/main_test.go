package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/cricxi/internal/config"
	"github.com/okian/cricxi/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const playersFile = "../internal/app/testdata/players.yaml"

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		ctx := context.Background()

		convey.Convey("When testing configuration loading", func() {
			t.Setenv("CRICXI_ADDR", ":8080")
			t.Setenv("CRICXI_QUEUE_SIZE", "1000")
			t.Setenv("CRICXI_WORKER_COUNT", "4")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the service is built from a config with a players file", func() {
			cfg := config.New(ctx)
			cfg.PlayersFile = playersFile
			cfg.WorkerCount = 2

			svc, err := newService(cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then it should be ready with every configured rule", func() {
				convey.So(svc.Ready(), convey.ShouldBeTrue)
				convey.So(svc.Stats().WorkerCount, convey.ShouldEqual, 2)
				convey.So(len(svc.Rules()), convey.ShouldEqual, 10)
			})

			convey.Convey("Then the mux should serve the API and the docs", func() {
				mux := newMux(ctx, svc)
				for _, path := range []string{"/healthz", "/rules", "/stats", "/openapi.yaml", "/api-docs"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}

				w := httptest.NewRecorder()
				body := strings.NewReader(`{"lines":["S Hope","Credits left 0.5"]}`)
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/resolve", body))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"hope"`)
			})
		})

		convey.Convey("When the service is built without a players file", func() {
			cfg := config.New(ctx)
			svc, err := newService(cfg)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it should not be ready", func() {
				convey.So(svc.Ready(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the rule configuration is invalid", func() {
			cfg := config.New(ctx)
			cfg.Rules.RosterSize = 0

			convey.Convey("Then building the service should fail", func() {
				_, err := newService(cfg)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
