package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/school-service/internal/repositories"
)

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) repositories.ReportRepository {
	return &reportRepository{db: db}
}

// LeaderboardForClass sums mark scores per student. Ordering is by total
// score descending; rank is assigned positionally, ties share no special
// handling.
func (r *reportRepository) LeaderboardForClass(ctx context.Context, classID string) ([]repositories.LeaderboardEntry, error) {
	var entries []repositories.LeaderboardEntry

	err := r.db.WithContext(ctx).
		Table("marks").
		Select("student_id, SUM(score) AS total_score, SUM(max_score) AS max_score, COUNT(*) AS entries").
		Where("class_id = ?", classID).
		Group("student_id").
		Order("total_score DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, mapError(err, "class leaderboard")
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
