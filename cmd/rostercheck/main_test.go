package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/cricxi/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("warn")
}

const playersFile = "../../internal/app/testdata/players.yaml"

func runCLI(args []string, stdin string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	convey.Convey("Given the fixture pool", t, func() {
		convey.Convey("When resolving lines from a file", func() {
			out, err := runCLI([]string{"resolve", "-p", playersFile, "testdata/lines.txt"}, "")

			convey.Convey("Then every name line should match", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Shai Hope")
				convey.So(out, convey.ShouldContainSubstring, "Jason Holder")
				convey.So(out, convey.ShouldContainSubstring, "Adam Zampa")
				convey.So(out, convey.ShouldContainSubstring, "matched 3 of 3 name lines (1 noise, 0 not a name)")
			})
		})

		convey.Convey("When resolving stdin as JSON", func() {
			out, err := runCLI([]string{"resolve", "--players", playersFile, "--json", "--ocr-confidence", "0.8"}, "S Hope\n")

			convey.Convey("Then the JSON should carry the player and the confidence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"id": "hope"`)
				convey.So(out, convey.ShouldContainSubstring, `"ocr_confidence": 0.8`)
			})
		})

		convey.Convey("When no player pool is given", func() {
			_, err := runCLI([]string{"resolve"}, "S Hope\n")

			convey.Convey("Then it should fail", func() {
				convey.So(errors.Is(err, errNoPlayers), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidateCommand(t *testing.T) {
	convey.Convey("Given the fixture pool", t, func() {
		convey.Convey("When validating a balanced roster", func() {
			out, err := runCLI([]string{"validate", "-p", playersFile, "--roster", "testdata/roster.yaml"}, "")

			convey.Convey("Then it should be valid", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "VALID")
				convey.So(out, convey.ShouldContainSubstring, "score 92.85")
				convey.So(out, convey.ShouldContainSubstring, "credits 99.5")
			})
		})

		convey.Convey("When validating a roster without armbands", func() {
			out, err := runCLI([]string{"validate", "-p", playersFile, "-r", "testdata/no_captain.yaml"}, "")

			convey.Convey("Then it should be reported invalid with suggestions", func() {
				convey.So(errors.Is(err, errRosterInvalid), convey.ShouldBeTrue)
				convey.So(out, convey.ShouldContainSubstring, "INVALID")
				convey.So(out, convey.ShouldContainSubstring, "Team must have a captain selected")
				convey.So(out, convey.ShouldContainSubstring, "Select a captain")
			})
		})

		convey.Convey("When the roster flag is missing", func() {
			_, err := runCLI([]string{"validate", "-p", playersFile}, "")

			convey.Convey("Then cobra should reject the call", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestRulesCommand(t *testing.T) {
	convey.Convey("When listing rules", t, func() {
		out, err := runCLI([]string{"rules"}, "")

		convey.Convey("Then the default rules should be listed in order", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "team-size")
			convey.So(out, convey.ShouldContainSubstring, "captain-vice-captain-different")
			convey.So(strings.Index(out, "team-size"), convey.ShouldBeLessThan, strings.Index(out, "credit-limit"))
		})
	})
}
