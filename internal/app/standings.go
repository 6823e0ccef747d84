package service

import (
	"context"

	"github.com/okian/rendezvous/pkg/logger"
	"github.com/okian/rendezvous/pkg/metrics"
)

// RefreshStandings recomputes the leaderboard and publishes its aggregates
// as gauges. The scheduler runs it periodically.
func (s *Service) RefreshStandings(ctx context.Context) error {
	all, err := s.store.ListResults(ctx)
	if err != nil {
		return err
	}
	entries, err := s.Leaderboard(ctx, 0)
	if err != nil {
		return err
	}
	leader := 0
	if len(entries) > 0 {
		leader = entries[0].TotalPoints
	}
	metrics.UpdateStandings(len(entries), len(all), leader)
	s.logger.Debug(ctx, "standings refreshed",
		logger.Int("participants", len(entries)),
		logger.Int("results", len(all)),
		logger.Int("leaderPoints", leader),
	)
	return nil
}
