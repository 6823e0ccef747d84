package results_test

import (
	"testing"

	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/results"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() []model.Result {
	return []model.Result{
		{ID: "1", EventName: "Tug of War", Participant: "Blue", Position: 2},
		{ID: "2", EventName: "Sack Race", Participant: "Ali", Position: 3},
		{ID: "3", EventName: "Tug of War", Participant: "Red", Position: 1},
		{ID: "4", EventName: "", Participant: "Orphan", Position: 1},
		{ID: "5", EventName: "Sack Race", Participant: "Bea", Position: 1},
		{ID: "6", EventName: "Sack Race", Participant: "Cam", Position: 3},
		{ID: "7", EventName: "", Participant: "Lost", Position: 4},
	}
}

func TestGroupByEvent(t *testing.T) {
	Convey("Given results across several events", t, func() {
		in := sample()
		before := append([]model.Result(nil), in...)
		groups := results.GroupByEvent(in)

		Convey("Then no result is dropped or duplicated", func() {
			total := 0
			for _, g := range groups {
				total += len(g)
			}
			So(total, ShouldEqual, len(in))
		})

		Convey("Then positions are non-decreasing within each group", func() {
			for _, g := range groups {
				for i := 1; i < len(g); i++ {
					So(g[i].Position, ShouldBeGreaterThanOrEqualTo, g[i-1].Position)
				}
			}
		})

		Convey("Then equal positions keep their input order", func() {
			sack := groups["Sack Race"]
			So(len(sack), ShouldEqual, 3)
			So(sack[0].ID, ShouldEqual, "5")
			So(sack[1].ID, ShouldEqual, "2")
			So(sack[2].ID, ShouldEqual, "6")
		})

		Convey("Then results without an event name share the unknown group", func() {
			unknown := groups[results.UnknownEvent]
			So(len(unknown), ShouldEqual, 2)
			So(unknown[0].Participant, ShouldEqual, "Orphan")
			_, hasEmpty := groups[""]
			So(hasEmpty, ShouldBeFalse)
		})

		Convey("Then the input is left untouched", func() {
			So(in, ShouldResemble, before)
		})
	})

	Convey("Given no results", t, func() {
		groups := results.GroupByEvent(nil)

		Convey("Then there are no groups", func() {
			So(len(groups), ShouldEqual, 0)
		})
	})
}

func TestGroups(t *testing.T) {
	Convey("Given grouped results", t, func() {
		out := results.Groups(sample())

		Convey("Then events are ordered by name with the unknown group last", func() {
			So(len(out), ShouldEqual, 3)
			So(out[0].Event, ShouldEqual, "Sack Race")
			So(out[1].Event, ShouldEqual, "Tug of War")
			So(out[2].Event, ShouldEqual, results.UnknownEvent)
			So(out[1].Results[0].Participant, ShouldEqual, "Red")
		})
	})
}
