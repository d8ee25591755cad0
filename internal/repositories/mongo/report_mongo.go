package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campuskit/school-service/internal/repositories"
)

type reportRepository struct {
	db *mongo.Database
}

func NewReportRepository(db *mongo.Database) repositories.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) LeaderboardForClass(ctx context.Context, classID string) ([]repositories.LeaderboardEntry, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "class_id", Value: classID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$student_id"},
			{Key: "total_score", Value: bson.D{{Key: "$sum", Value: "$score"}}},
			{Key: "max_score", Value: bson.D{{Key: "$sum", Value: "$max_score"}}},
			{Key: "entries", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total_score", Value: -1}}}},
	}

	cursor, err := r.db.Collection(colMarks).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapError(err, "class leaderboard")
	}
	defer cursor.Close(ctx)

	entries := []repositories.LeaderboardEntry{}
	for cursor.Next(ctx) {
		var row struct {
			StudentID  string  `bson:"_id"`
			TotalScore float64 `bson:"total_score"`
			MaxScore   float64 `bson:"max_score"`
			Entries    int64   `bson:"entries"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, mapError(err, "decode leaderboard row")
		}
		entries = append(entries, repositories.LeaderboardEntry{
			StudentID:  row.StudentID,
			TotalScore: row.TotalScore,
			MaxScore:   row.MaxScore,
			Entries:    row.Entries,
			Rank:       len(entries) + 1,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(err, "leaderboard cursor")
	}
	return entries, nil
}
