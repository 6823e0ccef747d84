package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/rendezvous/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		So(d.Size(), ShouldEqual, 0)

		Convey("When a key is new", func() {
			id, seen := d.SeenAndRecord(ctx, "key-1")

			Convey("Then it is reserved", func() {
				So(seen, ShouldBeFalse)
				So(id, ShouldEqual, "")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the same key arrives while the first is in flight", func() {
				id, seen := d.SeenAndRecord(ctx, "key-1")

				Convey("Then it is seen without an ID yet", func() {
					So(seen, ShouldBeTrue)
					So(id, ShouldEqual, "")
				})
			})

			Convey("And the request completes", func() {
				d.Complete(ctx, "key-1", "rec-42")
				id, seen := d.SeenAndRecord(ctx, "key-1")

				Convey("Then replays return the created ID", func() {
					So(seen, ShouldBeTrue)
					So(id, ShouldEqual, "rec-42")
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the request fails", func() {
				d.Unrecord(ctx, "key-1")

				Convey("Then the key can be reserved again", func() {
					So(d.Size(), ShouldEqual, 0)
					_, seen := d.SeenAndRecord(ctx, "key-1")
					So(seen, ShouldBeFalse)
				})
			})
		})

		Convey("When completing or unrecording an unknown key", func() {
			d.Complete(ctx, "ghost", "x")
			d.Unrecord(ctx, "ghost")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
		}

		Convey("When a fourth key is recorded", func() {
			d.SeenAndRecord(ctx, "key-4")

			Convey("Then the oldest key is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				_, seen := d.SeenAndRecord(ctx, "key-2")
				So(seen, ShouldBeTrue)
				_, seen = d.SeenAndRecord(ctx, "key-1")
				So(seen, ShouldBeFalse)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 500; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
		}

		Convey("Then nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 500)
		})
	})

	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When many goroutines race on the same key", func() {
			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				fresh int
			)
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, seen := d.SeenAndRecord(ctx, "shared"); !seen {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one wins the reservation", func() {
				So(fresh, ShouldEqual, 1)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}
