// Package leaderboard reduces results into a ranked cross-event standing.
package leaderboard

import (
	"cmp"
	"slices"

	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/scoring"
)

type tally struct {
	points int
	events map[string]struct{}
}

// Compute aggregates results per participant and returns entries ordered by
// rank. Participants are matched by exact name. Totals use points derived
// from position, never the stored value. Ties on total points share a rank
// and are listed by participant name; ranks are dense.
//
// A result with an invalid position fails the whole computation.
func Compute(in []model.Result) ([]model.LeaderboardEntry, error) {
	tallies := make(map[string]*tally)
	for _, r := range in {
		pts, err := scoring.PointsForPosition(r.Position)
		if err != nil {
			return nil, err
		}
		t, ok := tallies[r.Participant]
		if !ok {
			t = &tally{events: make(map[string]struct{})}
			tallies[r.Participant] = t
		}
		t.points += pts
		if r.EventID != "" {
			t.events[r.EventID] = struct{}{}
		}
	}

	entries := make([]model.LeaderboardEntry, 0, len(tallies))
	for name, t := range tallies {
		entries = append(entries, model.LeaderboardEntry{
			Participant: name,
			TotalPoints: t.points,
			EventCount:  len(t.events),
		})
	}
	slices.SortFunc(entries, func(a, b model.LeaderboardEntry) int {
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(a.Participant, b.Participant)
	})

	rank := 0
	for i := range entries {
		if i == 0 || entries[i].TotalPoints != entries[i-1].TotalPoints {
			rank++
		}
		entries[i].Rank = rank
	}
	return entries, nil
}

// Top returns at most n leading entries. n <= 0 returns all of them.
func Top(entries []model.LeaderboardEntry, n int) []model.LeaderboardEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// Lookup finds a participant's entry by exact name.
func Lookup(entries []model.LeaderboardEntry, participant string) (model.LeaderboardEntry, bool) {
	for _, e := range entries {
		if e.Participant == participant {
			return e, true
		}
	}
	return model.LeaderboardEntry{}, false
}
