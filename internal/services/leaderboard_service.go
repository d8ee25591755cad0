package services

import (
	"context"
	"log/slog"

	"github.com/campuskit/school-service/internal/cache"
	"github.com/campuskit/school-service/internal/repositories"
)

// LeaderboardService serves class leaderboards from the report repository,
// short-cached in Redis because the aggregation touches every mark of the
// class.
type LeaderboardService struct {
	reports repositories.ReportRepository
	cache   *cache.Cache
	logger  *slog.Logger
}

func NewLeaderboardService(reports repositories.ReportRepository, boardCache *cache.Cache, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{reports: reports, cache: boardCache, logger: logger}
}

func (s *LeaderboardService) ForClass(ctx context.Context, classID string) ([]repositories.LeaderboardEntry, error) {
	var entries []repositories.LeaderboardEntry
	if hit, _ := s.cache.GetJSON(ctx, classID, &entries); hit {
		return entries, nil
	}

	entries, err := s.reports.LeaderboardForClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, classID, entries); err != nil {
		s.logger.Warn("leaderboard cache write failed", "class_id", classID, "error", err)
	}
	return entries, nil
}

// Invalidate drops a class's cached board, called after mark mutations.
func (s *LeaderboardService) Invalidate(ctx context.Context, classID string) {
	s.cache.Delete(ctx, classID)
}
