// Package results groups raw results by event for display.
package results

import (
	"cmp"
	"slices"

	"github.com/okian/rendezvous/internal/domain/model"
)

// UnknownEvent is the group key for results without a resolvable event name.
const UnknownEvent = "Unknown Event"

// EventGroup is one event's results in placement order.
type EventGroup struct {
	Event   string         `json:"event"`
	Results []model.Result `json:"results"`
}

// GroupByEvent partitions results by event name. Each group is sorted by
// ascending position, keeping input order for equal positions. The input
// slice is not modified and no empty groups are produced.
func GroupByEvent(in []model.Result) map[string][]model.Result {
	groups := make(map[string][]model.Result)
	for _, r := range in {
		key := r.EventName
		if key == "" {
			key = UnknownEvent
		}
		groups[key] = append(groups[key], r)
	}
	for _, g := range groups {
		slices.SortStableFunc(g, func(a, b model.Result) int {
			return cmp.Compare(a.Position, b.Position)
		})
	}
	return groups
}

// EventNames returns the group keys in sorted order, with UnknownEvent last.
func EventNames(groups map[string][]model.Result) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if a == UnknownEvent || b == UnknownEvent {
			return cmp.Compare(boolRank(a == UnknownEvent), boolRank(b == UnknownEvent))
		}
		return cmp.Compare(a, b)
	})
	return names
}

// Groups is GroupByEvent in a deterministic ordered form.
func Groups(in []model.Result) []EventGroup {
	grouped := GroupByEvent(in)
	out := make([]EventGroup, 0, len(grouped))
	for _, name := range EventNames(grouped) {
		out = append(out, EventGroup{Event: name, Results: grouped[name]})
	}
	return out
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
