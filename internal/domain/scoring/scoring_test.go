package scoring_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/okian/rendezvous/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPointsForPosition(t *testing.T) {
	Convey("Given the fixed points table", t, func() {
		cases := map[int]int{1: 10, 2: 7, 3: 5, 4: 3, 5: 3, 6: 1, 7: 1, 100: 1}

		Convey("Then every placement maps to its points", func() {
			for position, want := range cases {
				got, err := scoring.PointsForPosition(position)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When the placement is below one", func() {
			for _, position := range []int{0, -1, -100} {
				_, err := scoring.PointsForPosition(position)

				Convey("Then it is rejected for "+strconv.Itoa(position), func() {
					So(errors.Is(err, scoring.ErrInvalidPosition), ShouldBeTrue)
				})
			}
		})

		Convey("Then points never increase as placement worsens", func() {
			prev, _ := scoring.PointsForPosition(1)
			for position := 2; position <= 50; position++ {
				cur, err := scoring.PointsForPosition(position)
				So(err, ShouldBeNil)
				So(cur, ShouldBeLessThanOrEqualTo, prev)
				prev = cur
			}
		})
	})
}

func TestPositionLabel(t *testing.T) {
	Convey("Given poster ordinal labels", t, func() {
		for position, want := range map[int]string{1: "1ST", 2: "2ND", 3: "3RD", 4: "4TH", 11: "11TH", 22: "22TH"} {
			got, err := scoring.PositionLabel(position)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := scoring.PositionLabel(0)
		So(errors.Is(err, scoring.ErrInvalidPosition), ShouldBeTrue)
	})
}

func TestPlaceLabel(t *testing.T) {
	Convey("Given public result badges", t, func() {
		for position, want := range map[int]string{1: "1st Place", 2: "2nd Place", 3: "3rd Place", 9: "9th Place"} {
			got, err := scoring.PlaceLabel(position)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := scoring.PlaceLabel(-3)
		So(err, ShouldNotBeNil)
	})
}
