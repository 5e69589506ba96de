package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/cricxi/internal/adapters/http/api"
	"github.com/okian/cricxi/internal/adapters/repository"
	service "github.com/okian/cricxi/internal/app"
	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/resolver"
	"github.com/okian/cricxi/internal/domain/types"
	"github.com/okian/cricxi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const playersFile = "../../../app/testdata/players.yaml"

const validRoster = `{"id":"mine","player_ids":["hope","king","lewis","holder","head","smith","maxwell","starc","cummins","hazlewood","zampa"],"captain_id":"king","vice_captain_id":"starc"}`

// brokenDeps fails every operation with err.
type brokenDeps struct {
	*service.Service
	err error
}

func (b brokenDeps) Resolve(context.Context, resolver.Batch) (resolver.Resolution, error) {
	return resolver.Resolution{}, b.err
}

func (b brokenDeps) Validate(context.Context, model.Roster, model.MatchContext) (types.Report, error) {
	return types.Report{}, b.err
}

func newMux(deps api.Dependencies, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func loadedService() *service.Service {
	svc := service.New(service.WithSource(repository.NewFileSource(playersFile)), service.WithMaxBatchRosters(3))
	if _, err := svc.LoadPlayers(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestHealth(t *testing.T) {
	Convey("Given a server without a player pool", t, func() {
		mux := newMux(service.New())

		Convey("Then /healthz should report loading", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, `"loading"`)
		})

		Convey("Then /resolve should be unavailable", func() {
			w := do(mux, http.MethodPost, "/resolve", `{"lines":["S Hope"]}`)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, "not_ready")
		})
	})

	Convey("Given a server with a player pool", t, func() {
		mux := newMux(loadedService())

		Convey("Then /healthz should be ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
		})

		Convey("Then /metrics should expose the registry", func() {
			do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "cricxi_roster_http_requests_total")
		})

		Convey("Then wrong methods should 404", func() {
			So(do(mux, http.MethodPost, "/healthz", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/resolve", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/validate", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/validate/batch", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/rules", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/stats", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a server with a player pool", t, func() {
		mux := newMux(loadedService(), api.WithMaxBodyBytes(512))

		Convey("When posting OCR lines", func() {
			w := do(mux, http.MethodPost, "/resolve", `{"lines":["S Hope","WK • 9.5cr • T1","Shamar Joseph","xyz123"],"ocr_confidence":0.8}`)

			Convey("Then the resolution should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res resolver.Resolution
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.OCRConfidence, ShouldEqual, 0.8)
				So(res.Results, ShouldHaveLength, 3)
				So(res.Results[0].Player.ID, ShouldEqual, "hope")
				So(res.Results[1].Player.ID, ShouldEqual, "joseph")
				So(res.Results[2].Status, ShouldEqual, types.StatusUnmatched)
				So(res.Counts.Noise, ShouldEqual, 1)
			})
		})

		Convey("When the body is malformed", func() {
			So(do(mux, http.MethodPost, "/resolve", `{"lines":`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/resolve", `{}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body exceeds the limit", func() {
			w := do(mux, http.MethodPost, "/resolve", `{"lines":["`+strings.Repeat("a", 1024)+`"]}`)

			Convey("Then it should be rejected with 413", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})
	})

	Convey("Given a server whose resolver rejects large batches", t, func() {
		svc := service.New(
			service.WithSource(repository.NewFileSource(playersFile)),
			service.WithResolverOptions(resolver.WithMaxBatchLines(1)),
		)
		_, err := svc.LoadPlayers(context.Background())
		So(err, ShouldBeNil)
		mux := newMux(svc)

		Convey("Then an oversized batch should be a 413", func() {
			w := do(mux, http.MethodPost, "/resolve", `{"lines":["S Hope","Shamar Joseph"]}`)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})
	})

	Convey("Given a server whose dependencies fail", t, func() {
		mux := newMux(brokenDeps{Service: loadedService(), err: errors.New("boom")})

		Convey("Then failures should be a 500", func() {
			So(do(mux, http.MethodPost, "/resolve", `{"lines":[]}`).Code, ShouldEqual, http.StatusInternalServerError)
			So(do(mux, http.MethodPost, "/validate", `{"roster":{}}`).Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a server with a player pool", t, func() {
		mux := newMux(loadedService())

		Convey("When validating a roster by ids", func() {
			w := do(mux, http.MethodPost, "/validate", `{"roster":`+validRoster+`,"match":{"team_a":"WI","team_b":"AUS"}}`)

			Convey("Then the report should say valid", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rep types.Report
				So(json.Unmarshal(w.Body.Bytes(), &rep), ShouldBeNil)
				So(rep.IsValid, ShouldBeTrue)
				So(rep.Errors, ShouldBeEmpty)
				So(rep.Score, ShouldAlmostEqual, 92.85, 1e-9)
			})
		})

		Convey("When validating an empty roster", func() {
			w := do(mux, http.MethodPost, "/validate", `{"roster":{"id":"empty","players":[]}}`)

			Convey("Then the verdict should be invalid but the request ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rep types.Report
				So(json.Unmarshal(w.Body.Bytes(), &rep), ShouldBeNil)
				So(rep.IsValid, ShouldBeFalse)
				So(rep.Errors, ShouldContain, "Team must have exactly 11 players")
				So(rep.Suggestions, ShouldNotBeEmpty)
			})
		})

		Convey("When a roster gives both players and ids", func() {
			w := do(mux, http.MethodPost, "/validate", `{"roster":{"players":[{"id":"x"}],"player_ids":["hope"]}}`)

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When validating a batch", func() {
			w := do(mux, http.MethodPost, "/validate/batch", `{"rosters":[`+validRoster+`,{"id":"short","player_ids":["hope"]}],"match":{"team_a":"WI","team_b":"AUS"}}`)

			Convey("Then the batch should be partitioned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out types.Partition
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out.Valid, ShouldHaveLength, 1)
				So(out.Valid[0].ID, ShouldEqual, "mine")
				So(out.Invalid, ShouldHaveLength, 1)
				So(out.Invalid[0].IsValid, ShouldBeFalse)
				So(out.Invalid[0].Errors, ShouldNotBeEmpty)
			})
		})

		Convey("When the batch exceeds the roster limit", func() {
			w := do(mux, http.MethodPost, "/validate/batch", `{"rosters":[{},{},{},{}]}`)

			Convey("Then it should be a 413", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})
	})

	Convey("Given a server without a player pool", t, func() {
		mux := newMux(service.New())

		Convey("Then rosters by id should be unavailable", func() {
			w := do(mux, http.MethodPost, "/validate", `{"roster":`+validRoster+`}`)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Then rosters with full records should still validate", func() {
			w := do(mux, http.MethodPost, "/validate", `{"roster":{"players":[{"id":"a","role":"WK","credit_cost":9}]}}`)
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestRulesAndStats(t *testing.T) {
	Convey("Given a server with a player pool", t, func() {
		mux := newMux(loadedService())

		Convey("When listing rules", func() {
			w := do(mux, http.MethodGet, "/rules", "")

			Convey("Then they should come back in evaluation order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out []struct {
					ID string `json:"id"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out, ShouldHaveLength, 10)
				So(out[0].ID, ShouldEqual, "team-size")
			})
		})

		Convey("When reading stats", func() {
			w := do(mux, http.MethodGet, "/stats", "")

			Convey("Then the pool should be described", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var st service.Stats
				So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
				So(st.Players, ShouldEqual, 15)
				So(st.Rules, ShouldHaveLength, 10)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given operation errors", t, func() {
		cause := errors.New("eof")

		Convey("Then kinds and causes should both unwrap", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: eof")
			So(api.NewKind("api.op", api.ErrNotReady).Error(), ShouldEqual, "api.op: not ready")
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: eof")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}
