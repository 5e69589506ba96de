package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then Get and Named should return loggers", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("resolver"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		SetLevel(slog.LevelInfo)
		defer SetLevel(slog.LevelInfo)
		l := New(&buf)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			l.Info(ctx, "resolved", String("line", "S Hope"), Int("count", 2), Float64("confidence", 1), Error(errors.New("boom")))

			Convey("Then the fields and caller should be written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "msg=resolved")
				So(out, ShouldContainSubstring, `line="S Hope"`)
				So(out, ShouldContainSubstring, "count=2")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "source=logger_test.go:")
			})
		})

		Convey("When logging below the level", func() {
			l.Debug(ctx, "hidden")

			Convey("Then nothing should be written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			l.Debug(ctx, "visible")

			Convey("Then debug entries should be written", func() {
				So(buf.String(), ShouldContainSubstring, "msg=visible")
				So(Level(), ShouldEqual, slog.LevelDebug)
			})
		})

		Convey("When using Named and With", func() {
			l.Named("app").With(String("roster", "r1")).Warn(ctx, "invalid")

			Convey("Then the group and bound fields should be written", func() {
				So(buf.String(), ShouldContainSubstring, "app.roster=r1")
				So(buf.String(), ShouldContainSubstring, "level=WARN")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		defer SetLevel(slog.LevelInfo)

		Convey("Then known names should parse", func() {
			So(SetLevelString("WARNING"), ShouldBeNil)
			So(Level(), ShouldEqual, slog.LevelWarn)
			So(SetLevelString(""), ShouldBeNil)
			So(Level(), ShouldEqual, slog.LevelInfo)
			So(SetLevelString("error"), ShouldBeNil)
			So(Level(), ShouldEqual, slog.LevelError)
		})

		Convey("Then unknown names should fail", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
