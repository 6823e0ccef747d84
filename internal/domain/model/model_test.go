package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPriority(t *testing.T) {
	convey.Convey("Given announcement priorities", t, func() {
		convey.Convey("Then the four known priorities are valid", func() {
			for _, p := range []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent} {
				convey.So(p.Valid(), convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then anything else is rejected", func() {
			convey.So(model.Priority("").Valid(), convey.ShouldBeFalse)
			convey.So(model.Priority("URGENT").Valid(), convey.ShouldBeFalse)
		})
	})
}

func TestResultJSON(t *testing.T) {
	convey.Convey("Given a result without an owning event", t, func() {
		r := model.Result{ID: "r1", Participant: "Ayesha", Position: 2, Points: 7, Photos: []string{"p1"}}

		convey.Convey("When encoded as JSON", func() {
			raw, err := json.Marshal(r)
			convey.So(err, convey.ShouldBeNil)

			var out map[string]any
			convey.So(json.Unmarshal(raw, &out), convey.ShouldBeNil)

			convey.Convey("Then the empty event fields are omitted", func() {
				_, hasEvent := out["event_id"]
				_, hasName := out["event_name"]
				convey.So(hasEvent, convey.ShouldBeFalse)
				convey.So(hasName, convey.ShouldBeFalse)
				convey.So(out["photos"], convey.ShouldResemble, []any{"p1"})
			})
		})
	})
}
