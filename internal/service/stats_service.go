package service

import (
	"context"
	"fmt"

	"wellplay/internal/model"
	"wellplay/internal/repository"
)

// StatsService persists final game results to player profiles. It implements
// game.StatsSink and is invoked once per finished session, after the
// authoritative in-memory transition.
type StatsService struct {
	statsRepo repository.StatsRepo
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo repository.StatsRepo) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// RecordGameResult implements game.StatsSink. Every ranked player gets a play
// count and points increment; the top-ranked player also gets a win.
func (s *StatsService) RecordGameResult(ctx context.Context, roomID string, rankings []model.RankingEntry) error {
	for _, entry := range rankings {
		won := entry.Rank == 1
		if err := s.statsRepo.IncrementResult(ctx, entry.PlayerID, entry.DisplayName, entry.Score, won); err != nil {
			return fmt.Errorf("failed to record result for player %s in room %s: %w", entry.PlayerID, roomID, err)
		}
	}
	return nil
}

// GetPlayerStats returns a player's aggregate profile, nil if never played.
func (s *StatsService) GetPlayerStats(ctx context.Context, playerID string) (*model.PlayerStats, error) {
	return s.statsRepo.GetByPlayerID(ctx, playerID)
}
