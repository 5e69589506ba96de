package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/cricxi/internal/adapters/repository"
	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
)

const poolYAML = `
players:
  - id: hope
    display_name: Shai Hope
    aliases: ["S Hope"]
    origin_team: WI
    role: wicketkeeper
    credit_cost: 9.5
  - display_name: Shamar Joseph
    origin_team: wi
    role: BOWL
    credit_cost: 8
    is_eligible_today: false
`

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return path
}

func TestFileSource(t *testing.T) {
	Convey("Given a YAML player pool", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := writeFile(dir, "players.yaml", poolYAML)

		Convey("When loading the players", func() {
			src := repository.NewFileSource(path)
			players, err := src.Players(ctx)

			Convey("Then roles should be normalized and eligibility defaulted", func() {
				So(err, ShouldBeNil)
				So(src.Path(), ShouldEqual, path)
				So(players, ShouldHaveLength, 2)
				So(players[0].ID, ShouldEqual, "hope")
				So(players[0].Role, ShouldEqual, model.RoleWicketkeeper)
				So(players[0].IsEligibleToday, ShouldBeTrue)
				So(players[1].Role, ShouldEqual, model.RoleBowler)
				So(players[1].IsEligibleToday, ShouldBeFalse)
			})

			Convey("Then a missing id should be derived deterministically", func() {
				So(err, ShouldBeNil)
				id := players[1].ID
				_, perr := uuid.Parse(id)
				So(perr, ShouldBeNil)
				So(id, ShouldEqual, src.DeriveID(model.Player{DisplayName: "SHAMAR  joseph", OriginTeam: "WI"}))

				again, _ := repository.NewFileSource(path).Players(ctx)
				So(again[1].ID, ShouldEqual, id)
			})
		})

		Convey("When loading with a custom namespace", func() {
			players, err := repository.NewFileSource(path, repository.WithNamespace(uuid.NameSpaceDNS)).Players(ctx)
			def, _ := repository.NewFileSource(path).Players(ctx)

			Convey("Then derived ids should differ", func() {
				So(err, ShouldBeNil)
				So(players[1].ID, ShouldNotEqual, def[1].ID)
				So(players[0].ID, ShouldEqual, "hope")
			})
		})

		Convey("When eligibility is not defaulted", func() {
			players, err := repository.NewFileSource(path, repository.WithEligibleByDefault(false)).Players(ctx)

			Convey("Then players omitting it should be ineligible", func() {
				So(err, ShouldBeNil)
				So(players[0].IsEligibleToday, ShouldBeFalse)
			})
		})

		Convey("When building a registry", func() {
			reg, err := repository.LoadRegistry(ctx, repository.NewFileSource(path))

			Convey("Then aliases should be indexed", func() {
				So(err, ShouldBeNil)
				So(reg.Len(), ShouldEqual, 2)
				p, ok := reg.FindByExactAlias("s hope")
				So(ok, ShouldBeTrue)
				So(p.ID, ShouldEqual, "hope")
			})
		})
	})

	Convey("Given broken player pools", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("When the file does not exist", func() {
			_, err := repository.NewFileSource(filepath.Join(dir, "missing.yaml")).Players(ctx)

			Convey("Then it should fail with ErrLoadPlayers", func() {
				So(errors.Is(err, repository.ErrLoadPlayers), ShouldBeTrue)
			})
		})

		Convey("When the YAML is malformed", func() {
			path := writeFile(dir, "bad.yaml", "players: [")
			_, err := repository.NewFileSource(path).Players(ctx)

			Convey("Then it should fail with ErrLoadPlayers", func() {
				So(errors.Is(err, repository.ErrLoadPlayers), ShouldBeTrue)
			})
		})

		Convey("When a player has neither id nor name", func() {
			path := writeFile(dir, "anon.yaml", "players:\n  - origin_team: WI\n    role: BAT\n    credit_cost: 8\n")
			_, err := repository.NewFileSource(path).Players(ctx)

			Convey("Then it should fail with ErrLoadPlayers", func() {
				So(errors.Is(err, repository.ErrLoadPlayers), ShouldBeTrue)
			})
		})

		Convey("When ids collide", func() {
			path := writeFile(dir, "dup.yaml", `
players:
  - {id: a, display_name: Shai Hope, origin_team: WI, role: WK, credit_cost: 9}
  - {id: a, display_name: Jason Holder, origin_team: WI, role: AR, credit_cost: 9}
`)
			_, err := repository.LoadRegistry(ctx, repository.NewFileSource(path))

			Convey("Then the registry error should be wrapped", func() {
				So(errors.Is(err, repository.ErrLoadPlayers), ShouldBeTrue)
				So(errors.Is(err, registry.ErrDuplicateID), ShouldBeTrue)
			})
		})
	})
}

func TestLoadRosterFile(t *testing.T) {
	Convey("Given a YAML roster file", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := writeFile(dir, "roster.yaml", `
id: my-team
player_ids: [hope, joseph]
captain_id: hope
vice_captain_id: joseph
match:
  team_a: WI
  team_b: AUS
`)

		Convey("When loading it", func() {
			f, err := repository.LoadRosterFile(ctx, path)

			Convey("Then ids and match should be read", func() {
				So(err, ShouldBeNil)
				So(f.ID, ShouldEqual, "my-team")
				So(f.PlayerIDs, ShouldResemble, []string{"hope", "joseph"})
				So(f.CaptainID, ShouldEqual, "hope")
				So(f.MatchContext(), ShouldResemble, model.MatchContext{TeamA: "WI", TeamB: "AUS"})
			})
		})

		Convey("When the file lists no players", func() {
			empty := writeFile(dir, "empty.yaml", "id: nobody\n")
			_, err := repository.LoadRosterFile(ctx, empty)

			Convey("Then it should fail with ErrLoadRoster", func() {
				So(errors.Is(err, repository.ErrLoadRoster), ShouldBeTrue)
			})
		})
	})
}
