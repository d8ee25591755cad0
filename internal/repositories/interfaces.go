package repositories

import (
	"context"
	"time"

	"github.com/campuskit/school-service/internal/models"
)

// Record is the capability set a model must carry to flow through a Store:
// identity plus create/update timestamps. models.Base implements it.
type Record interface {
	GetID() string
	SetID(id string)
	StampCreate(now time.Time)
	StampUpdate(now time.Time)
}

// Store is the generic data-access contract every entity controller funnels
// through. The entity (table or collection) is fixed by the type parameter
// at construction; it is never derived from request input.
//
// Delete is idempotent: removing an id that does not exist succeeds. All
// other semantics follow AND-filtering, offset pagination and a filtered
// total count so callers can compute page descriptors.
type Store[T any] interface {
	// Create inserts the record, generating id and timestamps in place.
	Create(ctx context.Context, record *T) error

	// GetByID returns the record or ErrNotFound.
	GetByID(ctx context.Context, id string) (*T, error)

	// List applies filters conjunctively, orders, then slices one page.
	// The returned total is the filtered count before slicing.
	List(ctx context.Context, filters FilterMap, page Page, order Order) ([]*T, int64, error)

	// Update applies a partial field map to the record and returns the
	// stored result. Only the provided fields change; updated_at is
	// refreshed. ErrNotFound when the id is absent.
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)

	// Delete removes the record. Missing ids are a no-op.
	Delete(ctx context.Context, id string) error

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, filters FilterMap) (int64, error)

	// Search matches term case-insensitively as a substring, OR-combined
	// across the store's searchable fields. A store with no searchable
	// fields matches nothing.
	Search(ctx context.Context, term string, page Page) ([]*T, int64, error)
}

// UserFilters narrows identity listings.
type UserFilters struct {
	Role   *models.UserRole
	Status *models.UserStatus
	Query  string
	Limit  int
	Offset int
}

// UserRepository manages identities. Credentials and status transitions go
// through here rather than the generic store so password hashes stay out of
// the shared update path.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	SetStatus(ctx context.Context, id string, status models.UserStatus) error
	SetPasswordHash(ctx context.Context, id string, hash string) error
	Delete(ctx context.Context, id string) error
}

// LeaderboardEntry is one aggregated row of a class leaderboard.
type LeaderboardEntry struct {
	StudentID  string  `json:"student_id"`
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Entries    int64   `json:"entries"`
	Rank       int     `json:"rank"`
}

// ReportRepository runs the aggregations that do not fit the generic store.
type ReportRepository interface {
	LeaderboardForClass(ctx context.Context, classID string) ([]LeaderboardEntry, error)
}

// Repository aggregates every store behind one constructor-injected
// surface, mirroring how handlers receive their dependencies.
type Repository interface {
	Users() UserRepository

	Students() Store[models.Student]
	Teachers() Store[models.Teacher]
	Classes() Store[models.Class]
	Subjects() Store[models.Subject]
	Timetable() Store[models.TimetableEntry]
	Attendance() Store[models.AttendanceRecord]
	Marks() Store[models.Mark]
	Notes() Store[models.Note]
	Events() Store[models.Event]
	Fees() Store[models.Fee]

	Reports() ReportRepository

	// WithTransaction runs fn against a repository bound to one storage
	// transaction where the backend supports it. The document backend has
	// no multi-entity transaction scope and runs fn directly; callers
	// needing atomicity across entities must not assume it there.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}
