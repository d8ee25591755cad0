package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
)

// PostgreSQLRepository implements repositories.Repository over GORM.
type PostgreSQLRepository struct {
	db *gorm.DB

	users      repositories.UserRepository
	students   repositories.Store[models.Student]
	teachers   repositories.Store[models.Teacher]
	classes    repositories.Store[models.Class]
	subjects   repositories.Store[models.Subject]
	timetable  repositories.Store[models.TimetableEntry]
	attendance repositories.Store[models.AttendanceRecord]
	marks      repositories.Store[models.Mark]
	notes      repositories.Store[models.Note]
	events     repositories.Store[models.Event]
	fees       repositories.Store[models.Fee]
	reports    repositories.ReportRepository
}

func NewPostgreSQLRepository(db *gorm.DB) repositories.Repository {
	return &PostgreSQLRepository{
		db:    db,
		users: NewUserRepository(db),

		students: NewStore[models.Student](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "updated_at": "updated_at",
				"full_name": "full_name", "roll_number": "roll_number",
			},
			SearchFields: []string{"full_name", "guardian_name"},
		}),
		teachers: NewStore[models.Teacher](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "full_name": "full_name",
			},
			SearchFields: []string{"full_name", "qualification"},
		}),
		classes: NewStore[models.Class](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "name": "name",
			},
			SearchFields: []string{"name", "section"},
		}),
		subjects: NewStore[models.Subject](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "name": "name", "code": "code",
			},
			SearchFields: []string{"name", "code"},
		}),
		timetable: NewStore[models.TimetableEntry](db, StoreOptions{}),
		attendance: NewStore[models.AttendanceRecord](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "date": "date",
			},
			DefaultSort: "date",
		}),
		marks: NewStore[models.Mark](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "score": "score", "exam_type": "exam_type",
			},
			SearchFields: []string{"exam_type"},
		}),
		notes: NewStore[models.Note](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "title": "title",
			},
			SearchFields: []string{"title", "content"},
		}),
		events: NewStore[models.Event](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "starts_at": "starts_at", "title": "title",
			},
			DefaultSort:  "starts_at",
			SearchFields: []string{"title", "description", "location"},
		}),
		fees: NewStore[models.Fee](db, StoreOptions{
			SortColumns: map[string]string{
				"created_at": "created_at", "due_date": "due_date", "amount": "amount",
			},
			DefaultSort:  "due_date",
			SearchFields: []string{"title", "reference"},
		}),
		reports: NewReportRepository(db),
	}
}

func (r *PostgreSQLRepository) Users() repositories.UserRepository           { return r.users }
func (r *PostgreSQLRepository) Students() repositories.Store[models.Student] { return r.students }
func (r *PostgreSQLRepository) Teachers() repositories.Store[models.Teacher] { return r.teachers }
func (r *PostgreSQLRepository) Classes() repositories.Store[models.Class]    { return r.classes }
func (r *PostgreSQLRepository) Subjects() repositories.Store[models.Subject] { return r.subjects }
func (r *PostgreSQLRepository) Timetable() repositories.Store[models.TimetableEntry] {
	return r.timetable
}
func (r *PostgreSQLRepository) Attendance() repositories.Store[models.AttendanceRecord] {
	return r.attendance
}
func (r *PostgreSQLRepository) Marks() repositories.Store[models.Mark]   { return r.marks }
func (r *PostgreSQLRepository) Notes() repositories.Store[models.Note]   { return r.notes }
func (r *PostgreSQLRepository) Events() repositories.Store[models.Event] { return r.events }
func (r *PostgreSQLRepository) Fees() repositories.Store[models.Fee]     { return r.fees }
func (r *PostgreSQLRepository) Reports() repositories.ReportRepository   { return r.reports }

// WithTransaction executes fn within one database transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPostgreSQLRepository(tx))
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
