package names_test

import (
	"strings"
	"testing"

	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/names"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw OCR name text", t, func() {
		Convey("When normalizing messy whitespace and case", func() {
			Convey("Then tokens should be collapsed and title-cased", func() {
				So(names.Normalize("  shai   HOPE "), ShouldEqual, "Shai Hope")
				So(names.Normalize("s. hope!"), ShouldEqual, "S. Hope")
				So(names.Normalize("shakib al-hasan"), ShouldEqual, "Shakib Al-hasan")
			})
		})

		Convey("When the text carries diacritics", func() {
			Convey("Then they should be folded", func() {
				So(names.Normalize("Pérez"), ShouldEqual, "Perez")
				So(names.Normalize("Müller Ørjan"), ShouldContainSubstring, "Muller")
			})
		})

		Convey("When the text has no letters", func() {
			Convey("Then the result should be empty", func() {
				So(names.Normalize(""), ShouldEqual, "")
				So(names.Normalize("123 456"), ShouldEqual, "")
				So(names.Normalize("  \t "), ShouldEqual, "")
			})
		})

		Convey("When normalizing twice", func() {
			inputs := []string{
				"S Hope", "  mS   dhONi ", "Pérez", "WK • 9.5cr • T1", "xyz123",
				"AB de Villiers", "o'rourke", "", "...", "Al-Hasan   jr.",
			}

			Convey("Then the result should not change", func() {
				for _, in := range inputs {
					once := names.Normalize(in)
					So(names.Normalize(once), ShouldEqual, once)
				}
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given names that differ only in case and spacing", t, func() {
		Convey("Then their keys should be equal", func() {
			So(names.Key("SHAI   hope"), ShouldEqual, "shai hope")
			So(names.Key("Shai Hope"), ShouldEqual, names.Key("shai hope"))
			So(names.Key("Pérez"), ShouldEqual, "perez")
		})

		Convey("Then empty input should give an empty key", func() {
			So(names.Key(""), ShouldEqual, "")
			So(names.Key("42"), ShouldEqual, "")
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given lines from a fantasy app screenshot", t, func() {
		Convey("When the line is a player name", func() {
			lines := []string{
				"S Hope", "Shamar Joseph", "MS Dhoni", "J. Holder", "R Chase",
				"AB de Villiers", "Kraigg C Brathwaite", "Kusal Mendis", "Jeremy Solozano",
				"Will O'Rourke", "D'Arcy Short", "W O’Rourke",
			}

			Convey("Then it should be classified as a name", func() {
				for _, line := range lines {
					So(names.Classify(line), ShouldEqual, names.Name)
					So(names.IsPlausibleName(line), ShouldBeTrue)
				}
			})
		})

		Convey("When the line is metadata or UI chrome", func() {
			lines := []string{
				"WK • 9.5cr • T1", "BOWL | 8cr | AUS", "9.5cr", "87.5%", "100%)",
				"12:30", "6:5", "42", "Captain", "Wicket-Keepers", "Selected by",
				"IND vs AUS", "ab", strings.Repeat("Long Name ", 4), "--- ---",
			}

			Convey("Then it should be noise", func() {
				for _, line := range lines {
					So(names.Classify(line), ShouldEqual, names.Noise)
					So(names.IsPlausibleName(line), ShouldBeFalse)
				}
			})
		})

		Convey("When the line survives the filters but has no name shape", func() {
			lines := []string{"xyz123", "Chase", "hello world", "Ab1 Cd2"}

			Convey("Then it should not be a name", func() {
				for _, line := range lines {
					So(names.Classify(line), ShouldEqual, names.NotAName)
				}
			})
		})

		Convey("When printing verdicts", func() {
			Convey("Then they should have stable labels", func() {
				So(names.Noise.String(), ShouldEqual, "noise")
				So(names.NotAName.String(), ShouldEqual, "not_a_name")
				So(names.Name.String(), ShouldEqual, "name")
			})
		})
	})
}

func TestFormation(t *testing.T) {
	Convey("Given a metadata row", t, func() {
		Convey("When it is well formed", func() {
			meta, ok := names.ParseMetaRow("WK • 9.5cr • T1")

			Convey("Then role, credits and team tag should be parsed", func() {
				So(ok, ShouldBeTrue)
				So(meta.Role, ShouldEqual, model.RoleWicketkeeper)
				So(meta.Credits, ShouldEqual, 9.5)
				So(meta.TeamTag, ShouldEqual, "T1")
			})
		})

		Convey("When it uses pipes and lowercase", func() {
			meta, ok := names.ParseMetaRow("bowl | 8cr | aus")

			Convey("Then it should still parse", func() {
				So(ok, ShouldBeTrue)
				So(meta.Role, ShouldEqual, model.RoleBowler)
				So(meta.Credits, ShouldEqual, 8.0)
				So(meta.TeamTag, ShouldEqual, "AUS")
			})
		})

		Convey("When it is a name", func() {
			_, ok := names.ParseMetaRow("Shai Hope")

			Convey("Then it should not parse", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given formation section headers", t, func() {
		Convey("Then each should map to its role", func() {
			cases := map[string]model.Role{
				"Wicket-Keepers": model.RoleWicketkeeper,
				"Batters":        model.RoleBatter,
				"batsmen":        model.RoleBatter,
				"All Rounders":   model.RoleAllrounder,
				"BOWLERS":        model.RoleBowler,
			}
			for header, want := range cases {
				role, ok := names.SectionRole(header)
				So(ok, ShouldBeTrue)
				So(role, ShouldEqual, want)
			}
			_, ok := names.SectionRole("Shai Hope")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a formation view", t, func() {
		lines := []string{"Batters", "Shai Hope", "BAT • 9cr • WI", "Bowlers", "Shamar Joseph"}

		Convey("When extracting hints", func() {
			hints := names.ExtractFormation(lines)

			Convey("Then names should carry their section and metadata", func() {
				So(hints, ShouldHaveLength, len(lines))
				So(hints[0].Role(), ShouldEqual, model.Role(""))
				So(hints[1].Section, ShouldEqual, model.RoleBatter)
				So(hints[1].Meta, ShouldNotBeNil)
				So(hints[1].Meta.Credits, ShouldEqual, 9.0)
				So(hints[4].Section, ShouldEqual, model.RoleBowler)
				So(hints[4].Meta, ShouldBeNil)
				So(hints[4].Role(), ShouldEqual, model.RoleBowler)
			})
		})
	})
}
