package leaderboard_test

import (
	"errors"
	"testing"

	"github.com/okian/rendezvous/internal/domain/leaderboard"
	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	Convey("Given no results", t, func() {
		entries, err := leaderboard.Compute(nil)

		Convey("Then the leaderboard is empty", func() {
			So(err, ShouldBeNil)
			So(entries, ShouldNotBeNil)
			So(len(entries), ShouldEqual, 0)
		})
	})

	Convey("Given results for two participants", t, func() {
		in := []model.Result{
			{Participant: "A", Position: 1, EventID: "e1"},
			{Participant: "A", Position: 3, EventID: "e2"},
			{Participant: "B", Position: 2, EventID: "e1"},
		}
		entries, err := leaderboard.Compute(in)

		Convey("Then totals are summed from positions and ranked", func() {
			So(err, ShouldBeNil)
			So(entries, ShouldResemble, []model.LeaderboardEntry{
				{Rank: 1, Participant: "A", TotalPoints: 15, EventCount: 2},
				{Rank: 2, Participant: "B", TotalPoints: 7, EventCount: 1},
			})
		})
	})

	Convey("Given participants tied on points", t, func() {
		in := []model.Result{
			{Participant: "C", Position: 2},
			{Participant: "B", Position: 1},
			{Participant: "A", Position: 1},
		}
		entries, err := leaderboard.Compute(in)

		Convey("Then ranks are dense and ties are ordered by name", func() {
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 3)
			So(entries[0].Participant, ShouldEqual, "A")
			So(entries[1].Participant, ShouldEqual, "B")
			So(entries[2].Participant, ShouldEqual, "C")
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[1].Rank, ShouldEqual, 1)
			So(entries[2].Rank, ShouldEqual, 2)
		})
	})

	Convey("Given stored points that disagree with the position", t, func() {
		entries, err := leaderboard.Compute([]model.Result{{Participant: "A", Position: 2, Points: 99}})

		Convey("Then the derived value wins", func() {
			So(err, ShouldBeNil)
			So(entries[0].TotalPoints, ShouldEqual, 7)
		})
	})

	Convey("Given names differing only by case or whitespace", t, func() {
		entries, err := leaderboard.Compute([]model.Result{
			{Participant: "ana", Position: 1},
			{Participant: "Ana", Position: 1},
			{Participant: "Ana ", Position: 1},
		})

		Convey("Then each name is its own participant", func() {
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 3)
		})
	})

	Convey("Given repeated results in one event and orphaned results", t, func() {
		entries, err := leaderboard.Compute([]model.Result{
			{Participant: "A", Position: 1, EventID: "e1"},
			{Participant: "A", Position: 4, EventID: "e1"},
			{Participant: "A", Position: 6},
		})

		Convey("Then event count only counts distinct known events", func() {
			So(err, ShouldBeNil)
			So(entries[0].TotalPoints, ShouldEqual, 14)
			So(entries[0].EventCount, ShouldEqual, 1)
		})
	})

	Convey("Given a result with an invalid position", t, func() {
		entries, err := leaderboard.Compute([]model.Result{
			{Participant: "A", Position: 1},
			{Participant: "B", Position: 0},
		})

		Convey("Then the computation fails without partial output", func() {
			So(errors.Is(err, scoring.ErrInvalidPosition), ShouldBeTrue)
			So(entries, ShouldBeNil)
		})
	})

	Convey("Given the same input in a different order", t, func() {
		a := []model.Result{
			{Participant: "X", Position: 2}, {Participant: "Y", Position: 2}, {Participant: "Z", Position: 1},
		}
		b := []model.Result{a[2], a[1], a[0]}
		ea, _ := leaderboard.Compute(a)
		eb, _ := leaderboard.Compute(b)

		Convey("Then the output is identical", func() {
			So(ea, ShouldResemble, eb)
		})
	})
}

func TestTopAndLookup(t *testing.T) {
	Convey("Given a computed leaderboard", t, func() {
		entries, err := leaderboard.Compute([]model.Result{
			{Participant: "A", Position: 1},
			{Participant: "B", Position: 2},
			{Participant: "C", Position: 3},
		})
		So(err, ShouldBeNil)

		Convey("Then Top slices the leading entries", func() {
			So(len(leaderboard.Top(entries, 2)), ShouldEqual, 2)
			So(len(leaderboard.Top(entries, 0)), ShouldEqual, 3)
			So(len(leaderboard.Top(entries, 10)), ShouldEqual, 3)
		})

		Convey("Then Lookup finds participants by exact name", func() {
			e, ok := leaderboard.Lookup(entries, "B")
			So(ok, ShouldBeTrue)
			So(e.Rank, ShouldEqual, 2)

			_, ok = leaderboard.Lookup(entries, "b")
			So(ok, ShouldBeFalse)
		})
	})
}
