package poster_test

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strconv"
	"sync"
	"testing"

	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/poster"
	"github.com/okian/rendezvous/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func winner() model.Result {
	return model.Result{ID: "r1", EventName: "Tug of War", Participant: "Blue House", Position: 1}
}

func decode(b []byte) image.Image {
	img, err := png.Decode(bytes.NewReader(b))
	So(err, ShouldBeNil)
	return img
}

func TestRender(t *testing.T) {
	Convey("Given a winning result", t, func() {
		r := winner()

		Convey("When rendering with every template", func() {
			for _, tpl := range poster.Templates() {
				out, err := poster.Render(r, tpl.ID)
				So(err, ShouldBeNil)

				Convey("Then "+tpl.ID+" yields an 800x600 PNG", func() {
					img := decode(out)
					So(img.Bounds().Dx(), ShouldEqual, poster.Width)
					So(img.Bounds().Dy(), ShouldEqual, poster.Height)
				})
			}
		})

		Convey("When rendering twice with the same arguments", func() {
			a, errA := poster.Render(r, "neon")
			b, errB := poster.Render(r, "neon")

			Convey("Then the bytes are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(bytes.Equal(a, b), ShouldBeTrue)
			})
		})

		Convey("When rendering concurrently", func() {
			want, err := poster.Render(r, "classic")
			So(err, ShouldBeNil)

			var wg sync.WaitGroup
			got := make([][]byte, 8)
			for i := range got {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					got[i], _ = poster.Render(r, "classic")
				}(i)
			}
			wg.Wait()

			Convey("Then every render matches", func() {
				for _, g := range got {
					So(bytes.Equal(g, want), ShouldBeTrue)
				}
			})
		})

		Convey("When rendering with different templates", func() {
			a, _ := poster.Render(r, "modern")
			b, _ := poster.Render(r, "minimal")

			Convey("Then the posters differ", func() {
				So(bytes.Equal(a, b), ShouldBeFalse)
			})
		})

		Convey("When rendering with an unknown template", func() {
			out, err := poster.Render(r, "vaporwave")

			Convey("Then it fails instead of falling back", func() {
				So(out, ShouldBeNil)
				So(errors.Is(err, poster.ErrUnknownTemplate), ShouldBeTrue)
			})
		})

		Convey("When the position is invalid", func() {
			r.Position = 0
			_, err := poster.Render(r, "modern")

			Convey("Then the scoring error propagates", func() {
				So(errors.Is(err, scoring.ErrInvalidPosition), ShouldBeTrue)
			})
		})

		Convey("When the participant name is very long", func() {
			r.Participant = "The Extraordinarily Long Named Participant From The Far Northern Valley"
			out, err := poster.Render(r, "festival")

			Convey("Then it still renders", func() {
				So(err, ShouldBeNil)
				So(decode(out).Bounds().Dx(), ShouldEqual, poster.Width)
			})
		})
	})
}

func TestBackground(t *testing.T) {
	Convey("Given the modern gradient", t, func() {
		out, err := poster.Render(model.Result{Participant: "x", Position: 5}, "modern")
		So(err, ShouldBeNil)
		img := decode(out)

		Convey("Then the corners carry the gradient endpoints", func() {
			r, g, b, _ := img.At(0, 0).RGBA()
			So([]uint32{r >> 8, g >> 8, b >> 8}, ShouldResemble, []uint32{0x3b, 0x82, 0xf6})

			r, g, b, _ = img.At(poster.Width-1, poster.Height-1).RGBA()
			So(r>>8, ShouldBeBetweenOrEqual, 0x8a, 0x8b)
			So(g>>8, ShouldBeBetweenOrEqual, 0x5c, 0x5d)
			So(b>>8, ShouldEqual, 0xf6)
		})
	})

	Convey("Given the festival template", t, func() {
		out, err := poster.Render(model.Result{Participant: "x", Position: 5}, "festival")
		So(err, ShouldBeNil)
		img := decode(out)

		Convey("Then the background is a flat fill", func() {
			a := img.At(0, 0)
			b := img.At(poster.Width-1, poster.Height-1)
			So(a, ShouldResemble, b)
		})
	})
}

func TestNewSpec(t *testing.T) {
	Convey("Given a sixth-place result with stale stored points", t, func() {
		r := model.Result{EventName: "Relay", Participant: "Teal", Position: 6, Points: 50}
		spec, err := poster.NewSpec(r, "classic")

		Convey("Then label and points derive from the position", func() {
			So(err, ShouldBeNil)
			So(spec, ShouldResemble, poster.Spec{
				TemplateID: "classic", EventName: "Relay", Participant: "Teal", PositionLabel: "6TH", Points: 1,
			})
		})

		Convey("Then the cache key is stable and content addressed", func() {
			So(poster.CacheKey(spec), ShouldEqual, poster.CacheKey(spec))
			other := spec
			other.Participant = "Teal2"
			So(poster.CacheKey(other), ShouldNotEqual, poster.CacheKey(spec))
			So(poster.CacheKey(spec), ShouldStartWith, "classic-")
		})
	})
}

func TestTemplateIDsMatchExactly(t *testing.T) {
	Convey("Given template ids that differ from the table only in case or spacing", t, func() {
		for _, id := range []string{"MODERN", " neon ", "Classic", "festival\n"} {
			Convey("Then "+strconv.Quote(id)+" is rejected", func() {
				_, err := poster.Lookup(id)
				So(errors.Is(err, poster.ErrUnknownTemplate), ShouldBeTrue)

				_, err = poster.Render(winner(), id)
				So(errors.Is(err, poster.ErrUnknownTemplate), ShouldBeTrue)
			})
		}
	})
}

func TestFilename(t *testing.T) {
	Convey("Given results to download", t, func() {
		So(poster.Filename(winner()), ShouldEqual, "Blue House-Tug of War-result.png")
		So(poster.Filename(model.Result{Participant: "Zoë", EventName: "Café/Run"}), ShouldEqual, "Zoe-Cafe_Run-result.png")
		So(poster.Filename(model.Result{Participant: "名前"}), ShouldEqual, "participant-event-result.png")
	})
}

func TestTemplates(t *testing.T) {
	Convey("Given the template table", t, func() {
		list := poster.Templates()

		Convey("Then it lists five distinct templates by id", func() {
			So(len(list), ShouldEqual, 5)
			So(list[0].ID, ShouldEqual, "classic")
			So(list[4].ID, ShouldEqual, "neon")
			seen := map[[3]uint8]bool{}
			for _, tpl := range list {
				key := [3]uint8{tpl.From.R, tpl.From.G, tpl.From.B}
				So(seen[key], ShouldBeFalse)
				seen[key] = true
			}
		})

		Convey("Then the default template exists", func() {
			_, err := poster.Lookup(poster.DefaultTemplate)
			So(err, ShouldBeNil)
		})
	})
}
