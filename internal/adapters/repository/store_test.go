package repository_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// tickingClock advances one millisecond per call so creation order is stable.
func tickingClock() func() time.Time {
	var n atomic.Int64
	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Millisecond)
	}
}

func openStore(t *testing.T) *repository.SQLStore {
	t.Helper()
	s, err := repository.Open(context.Background(), repository.DriverSQLite,
		filepath.Join(t.TempDir(), "db", "rendezvous.db"), repository.WithClock(tickingClock()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	Convey("Given an unknown driver", t, func() {
		_, err := repository.Open(context.Background(), "mysql", "x")
		So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
	})

	Convey("Given the same SQLite file opened twice", t, func() {
		path := filepath.Join(t.TempDir(), "twice.db")
		s1, err := repository.Open(context.Background(), repository.DriverSQLite, path)
		So(err, ShouldBeNil)
		_, err = s1.CreateEvent(context.Background(), model.Event{Name: "Relay"})
		So(err, ShouldBeNil)
		So(s1.Close(), ShouldBeNil)

		s2, err := repository.Open(context.Background(), repository.DriverSQLite, path)
		So(err, ShouldBeNil)
		defer s2.Close()

		Convey("Then the schema is reused and data survives", func() {
			c, err := s2.Counts(context.Background())
			So(err, ShouldBeNil)
			So(c.Events, ShouldEqual, 1)
		})
	})
}

func TestEvents(t *testing.T) {
	Convey("Given a store", t, func() {
		ctx := context.Background()
		s := openStore(t)

		late, err := s.CreateEvent(ctx, model.Event{Name: "Tug of War", Category: "sports", Date: "2025-08-02", Time: "15:00"})
		So(err, ShouldBeNil)
		early, err := s.CreateEvent(ctx, model.Event{Name: "Poetry", Category: "arts", Date: "2025-08-02", Time: "09:30"})
		So(err, ShouldBeNil)

		Convey("Then created events have IDs and timestamps", func() {
			So(late.ID, ShouldNotBeEmpty)
			So(late.CreatedAt.IsZero(), ShouldBeFalse)
			So(late.CreatedAt, ShouldEqual, late.UpdatedAt)
		})

		Convey("Then events list by date and time", func() {
			list, err := s.ListEvents(ctx, repository.EventFilter{})
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 2)
			So(list[0].ID, ShouldEqual, early.ID)
		})

		Convey("Then the category filter applies", func() {
			list, err := s.ListEvents(ctx, repository.EventFilter{Category: "sports"})
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 1)
			So(list[0].Name, ShouldEqual, "Tug of War")
		})

		Convey("When an event is updated", func() {
			late.Venue = "Main Field"
			got, err := s.UpdateEvent(ctx, late)

			Convey("Then the change is stored", func() {
				So(err, ShouldBeNil)
				So(got.Venue, ShouldEqual, "Main Field")
				So(got.UpdatedAt.After(got.CreatedAt), ShouldBeTrue)
			})
		})

		Convey("When an event without a name is created", func() {
			_, err := s.CreateEvent(ctx, model.Event{Name: "  "})
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("When unknown events are touched", func() {
			_, err := s.GetEvent(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			_, err = s.UpdateEvent(ctx, model.Event{ID: "missing", Name: "x"})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(errors.Is(s.DeleteEvent(ctx, "missing"), repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestResults(t *testing.T) {
	Convey("Given a store with an event", t, func() {
		ctx := context.Background()
		s := openStore(t)
		ev, err := s.CreateEvent(ctx, model.Event{Name: "Sack Race", Category: "fun"})
		So(err, ShouldBeNil)

		Convey("When a result is created with stale points", func() {
			r, err := s.CreateResult(ctx, model.Result{EventID: ev.ID, Participant: "Ali", Position: 2, Points: 99})

			Convey("Then points are derived and event fields resolved", func() {
				So(err, ShouldBeNil)
				So(r.Points, ShouldEqual, 7)
				So(r.EventName, ShouldEqual, "Sack Race")
				So(r.EventCategory, ShouldEqual, "fun")
				So(r.Photos, ShouldResemble, []string{})
			})

			Convey("And its position changes", func() {
				r.Position = 1
				got, err := s.UpdateResult(ctx, r)
				So(err, ShouldBeNil)
				So(got.Points, ShouldEqual, 10)
			})

			Convey("And photos are attached", func() {
				_, err := s.AddResultPhoto(ctx, r.ID, "photo-a")
				So(err, ShouldBeNil)
				_, err = s.AddResultPhoto(ctx, r.ID, "photo-b")
				So(err, ShouldBeNil)
				got, err := s.AddResultPhoto(ctx, r.ID, "photo-a")
				So(err, ShouldBeNil)
				So(got.Photos, ShouldResemble, []string{"photo-a", "photo-b"})
			})

			Convey("And photos are attached concurrently", func() {
				const n = 20
				var wg sync.WaitGroup
				errs := make(chan error, n)
				for i := range n {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := s.AddResultPhoto(ctx, r.ID, fmt.Sprintf("photo-%02d", i))
						errs <- err
					}()
				}
				wg.Wait()
				close(errs)

				Convey("Then every key persists exactly once", func() {
					for err := range errs {
						So(err, ShouldBeNil)
					}
					got, err := s.GetResult(ctx, r.ID)
					So(err, ShouldBeNil)
					So(len(got.Photos), ShouldEqual, n)
					seen := map[string]bool{}
					for _, k := range got.Photos {
						seen[k] = true
					}
					So(len(seen), ShouldEqual, n)
				})
			})

			Convey("And a photo is attached to a missing result", func() {
				_, err := s.AddResultPhoto(ctx, "missing", "photo-x")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("And the owning event is deleted", func() {
				So(s.DeleteEvent(ctx, ev.ID), ShouldBeNil)
				got, err := s.GetResult(ctx, r.ID)

				Convey("Then the result survives without an event", func() {
					So(err, ShouldBeNil)
					So(got.EventID, ShouldEqual, "")
					So(got.EventName, ShouldEqual, "")
				})
			})
		})

		Convey("When results without an event exist", func() {
			_, err := s.CreateResult(ctx, model.Result{Participant: "Walk-in", Position: 4})
			So(err, ShouldBeNil)
			_, err = s.CreateResult(ctx, model.Result{EventID: ev.ID, Participant: "Bea", Position: 3})
			So(err, ShouldBeNil)
			_, err = s.CreateResult(ctx, model.Result{EventID: ev.ID, Participant: "Cam", Position: 1})
			So(err, ShouldBeNil)

			Convey("Then ListResults returns all in creation order", func() {
				all, err := s.ListResults(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 3)
				So(all[0].Participant, ShouldEqual, "Walk-in")
				So(all[0].EventID, ShouldEqual, "")
			})

			Convey("Then ListResultsByEvent returns that event by position", func() {
				list, err := s.ListResultsByEvent(ctx, ev.ID)
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 2)
				So(list[0].Participant, ShouldEqual, "Cam")
			})
		})

		Convey("When invalid results are submitted", func() {
			_, err := s.CreateResult(ctx, model.Result{Participant: "", Position: 1})
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
			_, err = s.CreateResult(ctx, model.Result{Participant: "Zed", Position: 0})
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("When a missing result is deleted", func() {
			So(errors.Is(s.DeleteResult(ctx, "nope"), repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestGallery(t *testing.T) {
	Convey("Given a store with gallery items", t, func() {
		ctx := context.Background()
		s := openStore(t)
		sunset, err := s.CreateGalleryItem(ctx, model.GalleryItem{
			Title: "Sunset Stage", Description: "Closing night", EventName: "Concert", Category: "music", ImageKey: "k1",
		})
		So(err, ShouldBeNil)
		_, err = s.CreateGalleryItem(ctx, model.GalleryItem{
			Title: "Relay Finish", EventName: "Relay", Category: "sports", ImageKey: "k2",
		})
		So(err, ShouldBeNil)

		Convey("Then search matches title, description and event name", func() {
			list, err := s.ListGallery(ctx, repository.GalleryFilter{Query: "closing"})
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 1)
			So(list[0].ID, ShouldEqual, sunset.ID)

			list, err = s.ListGallery(ctx, repository.GalleryFilter{Query: "RELAY"})
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 1)
		})

		Convey("Then listing is newest first with an optional category", func() {
			list, err := s.ListGallery(ctx, repository.GalleryFilter{})
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 2)
			So(list[0].Title, ShouldEqual, "Relay Finish")

			list, err = s.ListGallery(ctx, repository.GalleryFilter{Category: "music"})
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 1)
		})

		Convey("When an item is liked twice", func() {
			_, err := s.LikeGalleryItem(ctx, sunset.ID)
			So(err, ShouldBeNil)
			got, err := s.LikeGalleryItem(ctx, sunset.ID)

			Convey("Then the counter reflects both likes", func() {
				So(err, ShouldBeNil)
				So(got.LikesCount, ShouldEqual, 2)
			})
		})

		Convey("When an item is updated", func() {
			sunset.Title = "Sunset"
			sunset.ImageKey = "ignored"
			got, err := s.UpdateGalleryItem(ctx, sunset)

			Convey("Then the image key is kept", func() {
				So(err, ShouldBeNil)
				So(got.Title, ShouldEqual, "Sunset")
				So(got.ImageKey, ShouldEqual, "k1")
			})
		})

		Convey("When an item has no image", func() {
			_, err := s.CreateGalleryItem(ctx, model.GalleryItem{Title: "x"})
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("When liking a missing item", func() {
			_, err := s.LikeGalleryItem(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestAnnouncements(t *testing.T) {
	Convey("Given a store with announcements", t, func() {
		ctx := context.Background()
		s := openStore(t)
		welcome, err := s.CreateAnnouncement(ctx, model.Announcement{
			Title: "Welcome", Content: "Gates open at nine", Category: "general", Active: true,
		})
		So(err, ShouldBeNil)
		_, err = s.CreateAnnouncement(ctx, model.Announcement{
			Title: "Storm", Content: "Seek shelter", Priority: model.PriorityUrgent, Category: "safety",
		})
		So(err, ShouldBeNil)

		Convey("Then priority defaults to medium", func() {
			So(welcome.Priority, ShouldEqual, model.PriorityMedium)
			So(welcome.Active, ShouldBeTrue)
		})

		Convey("Then only active announcements are public", func() {
			list, err := s.ListActiveAnnouncements(ctx)
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 1)
			So(list[0].ID, ShouldEqual, welcome.ID)
		})

		Convey("Then filters combine", func() {
			list, err := s.ListAnnouncements(ctx, repository.AnnouncementFilter{Priority: model.PriorityUrgent, Query: "shelter"})
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 1)
			So(list[0].Title, ShouldEqual, "Storm")
		})

		Convey("When an announcement is toggled", func() {
			got, err := s.ToggleAnnouncement(ctx, welcome.ID)
			So(err, ShouldBeNil)
			So(got.Active, ShouldBeFalse)

			got, err = s.ToggleAnnouncement(ctx, welcome.ID)
			So(err, ShouldBeNil)
			So(got.Active, ShouldBeTrue)
		})

		Convey("When audio is attached", func() {
			got, err := s.SetAnnouncementAudio(ctx, welcome.ID, "audio-1")
			So(err, ShouldBeNil)
			So(got.AudioKey, ShouldEqual, "audio-1")
		})

		Convey("When the priority is unknown", func() {
			_, err := s.CreateAnnouncement(ctx, model.Announcement{Title: "x", Content: "y", Priority: "meh"})
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("Then counts and reset cover every table", func() {
			c, err := s.Counts(ctx)
			So(err, ShouldBeNil)
			So(c.Announcements, ShouldEqual, 2)
			So(c.ActiveAnnouncements, ShouldEqual, 1)

			So(s.Reset(ctx), ShouldBeNil)
			c, err = s.Counts(ctx)
			So(err, ShouldBeNil)
			So(c, ShouldResemble, repository.Counts{})
		})
	})
}
