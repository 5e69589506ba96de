package loadgen_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/cricxi/internal/adapters/http/api"
	"github.com/okian/cricxi/internal/adapters/repository"
	service "github.com/okian/cricxi/internal/app"
	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/validation"
	"github.com/okian/cricxi/internal/loadgen"
	"github.com/okian/cricxi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const playersFile = "../app/testdata/players.yaml"

var match = model.MatchContext{TeamA: "WI", TeamB: "AUS"}

func pool(t *testing.T) []model.Player {
	players, err := repository.NewFileSource(playersFile).Players(context.Background())
	if err != nil {
		t.Fatalf("load players: %v", err)
	}
	return players
}

func serve(svc *service.Service) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestGenerate(t *testing.T) {
	Convey("Given the fixture pool", t, func() {
		ctx := context.Background()
		players := pool(t)

		Convey("When drafting with a fixed seed", func() {
			a, err := loadgen.Generate(ctx, players, 20, 7)
			So(err, ShouldBeNil)
			b, err := loadgen.Generate(ctx, players, 20, 7)
			So(err, ShouldBeNil)

			Convey("Then the drafts should repeat", func() {
				So(a, ShouldResemble, b)
			})

			Convey("Then every draft should hold eleven distinct players", func() {
				for _, d := range a {
					So(d.Request.ID, ShouldEqual, d.Roster.ID)
					So(d.Request.PlayerIDs, ShouldHaveLength, 11)
					seen := map[string]bool{}
					for _, id := range d.Request.PlayerIDs {
						So(seen[id], ShouldBeFalse)
						seen[id] = true
					}
					So(seen[d.Request.CaptainID], ShouldBeTrue)
					So(seen[d.Request.ViceCaptainID], ShouldBeTrue)
				}
			})
		})

		Convey("When the pool is empty", func() {
			_, err := loadgen.Generate(ctx, nil, 5, 1)

			Convey("Then it should fail with ErrInvalidConfig", func() {
				So(errors.Is(err, loadgen.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running server with the fixture pool", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithSource(repository.NewFileSource(playersFile)),
			service.WithWorkerCount(2),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		srv := serve(svc)
		defer srv.Close()

		Convey("When a load run submits forty rosters", func() {
			stats, err := loadgen.Run(ctx, loadgen.Config{
				BaseURL:   srv.URL,
				Rosters:   40,
				BatchSize: 7,
				Workers:   3,
				Timeout:   5 * time.Second,
				Seed:      42,
				Match:     match,
			}, pool(t), validation.NewEngine())

			Convey("Then every roster should come back with the local verdict", func() {
				So(err, ShouldBeNil)
				So(stats.RostersDrafted, ShouldEqual, 40)
				So(stats.RostersSubmitted, ShouldEqual, 40)
				So(stats.BatchesSubmitted, ShouldEqual, 6)
				So(stats.BatchesFailed, ShouldEqual, 0)
				So(stats.Valid+stats.Invalid, ShouldEqual, 40)
				So(stats.Mismatches, ShouldEqual, 0)
				So(svc.Stats().RostersValidated, ShouldEqual, 40)
			})
		})
	})

	Convey("Given a server without a player pool", t, func() {
		srv := serve(service.New())
		defer srv.Close()

		Convey("When a load run starts", func() {
			_, err := loadgen.Run(context.Background(), loadgen.Config{BaseURL: srv.URL, Rosters: 1}, pool(t), validation.NewEngine())

			Convey("Then the health check should fail", func() {
				So(errors.Is(err, loadgen.ErrUnhealthy), ShouldBeTrue)
			})
		})
	})
}
