package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
)

// Collection names, fixed at compile time.
const (
	colStudents   = "students"
	colTeachers   = "teachers"
	colClasses    = "classes"
	colSubjects   = "subjects"
	colTimetable  = "timetable_entries"
	colAttendance = "attendance_records"
	colMarks      = "marks"
	colNotes      = "notes"
	colEvents     = "events"
	colFees       = "fees"
)

// MongoRepository implements repositories.Repository over the document
// store. It mirrors the relational wiring one collection per entity.
type MongoRepository struct {
	client *mongo.Client
	db     *mongo.Database

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

func NewMongoRepository(client *mongo.Client, database string) repositories.Repository {
	db := client.Database(database)

	return &MongoRepository{
		client: client,
		db:     db,
		users:  NewUserRepository(db),

		students: NewStore[models.Student](db, colStudents, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "updated_at": "updated_at",
				"full_name": "full_name", "roll_number": "roll_number",
			},
			SearchFields: []string{"full_name", "guardian_name"},
		}),
		teachers: NewStore[models.Teacher](db, colTeachers, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "full_name": "full_name",
			},
			SearchFields: []string{"full_name", "qualification"},
		}),
		classes: NewStore[models.Class](db, colClasses, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "name": "name",
			},
			SearchFields: []string{"name", "section"},
		}),
		subjects: NewStore[models.Subject](db, colSubjects, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "name": "name", "code": "code",
			},
			SearchFields: []string{"name", "code"},
		}),
		timetable: NewStore[models.TimetableEntry](db, colTimetable, StoreOptions{}),
		attendance: NewStore[models.AttendanceRecord](db, colAttendance, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "date": "date",
			},
			DefaultSort: "date",
		}),
		marks: NewStore[models.Mark](db, colMarks, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "score": "score", "exam_type": "exam_type",
			},
			SearchFields: []string{"exam_type"},
		}),
		notes: NewStore[models.Note](db, colNotes, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "title": "title",
			},
			SearchFields: []string{"title", "content"},
		}),
		events: NewStore[models.Event](db, colEvents, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "starts_at": "starts_at", "title": "title",
			},
			DefaultSort:  "starts_at",
			SearchFields: []string{"title", "description", "location"},
		}),
		fees: NewStore[models.Fee](db, colFees, StoreOptions{
			SortFields: map[string]string{
				"created_at": "created_at", "due_date": "due_date", "amount": "amount",
			},
			DefaultSort:  "due_date",
			SearchFields: []string{"title", "reference"},
		}),
		reports: NewReportRepository(db),
	}
}

func (r *MongoRepository) Users() repositories.UserRepository                   { return r.users }
func (r *MongoRepository) Students() repositories.Store[models.Student]         { return r.students }
func (r *MongoRepository) Teachers() repositories.Store[models.Teacher]         { return r.teachers }
func (r *MongoRepository) Classes() repositories.Store[models.Class]            { return r.classes }
func (r *MongoRepository) Subjects() repositories.Store[models.Subject]         { return r.subjects }
func (r *MongoRepository) Timetable() repositories.Store[models.TimetableEntry] { return r.timetable }
func (r *MongoRepository) Attendance() repositories.Store[models.AttendanceRecord] {
	return r.attendance
}
func (r *MongoRepository) Marks() repositories.Store[models.Mark]   { return r.marks }
func (r *MongoRepository) Notes() repositories.Store[models.Note]   { return r.notes }
func (r *MongoRepository) Events() repositories.Store[models.Event] { return r.events }
func (r *MongoRepository) Fees() repositories.Store[models.Fee]     { return r.fees }
func (r *MongoRepository) Reports() repositories.ReportRepository   { return r.reports }

// WithTransaction runs fn directly: the document backend offers no
// multi-entity transaction scope here.
func (r *MongoRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *MongoRepository) Close() error {
	return r.client.Disconnect(context.Background())
}
