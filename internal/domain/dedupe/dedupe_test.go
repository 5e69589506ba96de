package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/cricxi/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClaims(t *testing.T) {
	Convey("Given a new claim set", t, func() {
		ctx := context.Background()
		c := dedupe.NewClaims()

		Convey("Then it should be empty", func() {
			So(c, ShouldNotBeNil)
			So(c.Size(), ShouldEqual, 0)
			So(c.IDs(), ShouldBeEmpty)
		})

		Convey("When claiming a new id", func() {
			already := c.Claim(ctx, "p-1")

			Convey("Then it should report a fresh claim", func() {
				So(already, ShouldBeFalse)
				So(c.Claimed("p-1"), ShouldBeTrue)
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("And claiming it again", func() {
				again := c.Claim(ctx, "p-1")

				Convey("Then it should report the existing claim", func() {
					So(again, ShouldBeTrue)
					So(c.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When claiming several ids", func() {
			for _, id := range []string{"b", "a", "c"} {
				So(c.Claim(ctx, id), ShouldBeFalse)
			}

			Convey("Then IDs should keep claim order", func() {
				So(c.IDs(), ShouldResemble, []string{"b", "a", "c"})
			})

			Convey("And releasing one", func() {
				c.Release(ctx, "a")

				Convey("Then it should be claimable again", func() {
					So(c.Claimed("a"), ShouldBeFalse)
					So(c.IDs(), ShouldResemble, []string{"b", "c"})
					So(c.Claim(ctx, "a"), ShouldBeFalse)
				})
			})
		})

		Convey("When releasing an unknown id", func() {
			c.Claim(ctx, "x")
			c.Release(ctx, "missing")

			Convey("Then nothing should change", func() {
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When mutating the returned ids", func() {
			c.Claim(ctx, "x")
			ids := c.IDs()
			ids[0] = "changed"

			Convey("Then the set should be unaffected", func() {
				So(c.Claimed("x"), ShouldBeTrue)
				So(c.Claimed("changed"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a claim set with concurrent access", t, func() {
		ctx := context.Background()
		c := dedupe.NewClaims(dedupe.WithCapacity(100))

		Convey("When many goroutines race for the same ids", func() {
			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				fresh int
			)
			for g := 0; g < 10; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 50; i++ {
						if !c.Claim(ctx, fmt.Sprintf("p-%d", i)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each id should be claimed exactly once", func() {
				So(fresh, ShouldEqual, 50)
				So(c.Size(), ShouldEqual, 50)
			})
		})
	})
}
