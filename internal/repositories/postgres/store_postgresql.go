package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/campuskit/school-service/internal/repositories"
)

// StoreOptions fixes, per entity, which logical sort keys and searchable
// columns exist. Both are whitelists: request input selects among them but
// never reaches SQL as an identifier.
type StoreOptions struct {
	SortColumns  map[string]string
	DefaultSort  string
	SearchFields []string
}

// Store is the relational implementation of repositories.Store. One
// instance per entity; the table comes from the model's TableName.
type Store[T any, PT interface {
	*T
	repositories.Record
}] struct {
	db   *gorm.DB
	opts StoreOptions
}

func NewStore[T any, PT interface {
	*T
	repositories.Record
}](db *gorm.DB, opts StoreOptions) *Store[T, PT] {
	if opts.DefaultSort == "" {
		opts.DefaultSort = "created_at"
	}
	if opts.SortColumns == nil {
		opts.SortColumns = map[string]string{
			"created_at": "created_at",
			"updated_at": "updated_at",
			"id":         "id",
		}
	}
	return &Store[T, PT]{db: db, opts: opts}
}

func (s *Store[T, PT]) Create(ctx context.Context, record *T) error {
	rec := PT(record)
	if rec.GetID() == "" {
		rec.SetID(uuid.New().String())
	}
	rec.StampCreate(time.Now().UTC())

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return mapError(err, "create")
	}
	return nil
}

func (s *Store[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	var out T
	if err := s.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, mapError(err, "get by id")
	}
	return &out, nil
}

func (s *Store[T, PT]) List(ctx context.Context, filters repositories.FilterMap, page repositories.Page, order repositories.Order) ([]*T, int64, error) {
	query := s.db.WithContext(ctx).Model(new(T))
	query = applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, "count")
	}

	query = s.applyOrder(query, order)
	query = query.Limit(page.Limit).Offset(page.Offset())

	var records []*T
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, mapError(err, "list")
	}
	return records, total, nil
}

func (s *Store[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	if len(fields) == 0 {
		return s.GetByID(ctx, id)
	}

	// Identity and creation time are immutable.
	delete(fields, "id")
	delete(fields, "created_at")
	fields["updated_at"] = time.Now().UTC()

	result := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, mapError(result.Error, "update")
	}
	if result.RowsAffected == 0 {
		return nil, repositories.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete is idempotent: a missing id is a successful no-op.
func (s *Store[T, PT]) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error; err != nil {
		return mapError(err, "delete")
	}
	return nil
}

func (s *Store[T, PT]) Count(ctx context.Context, filters repositories.FilterMap) (int64, error) {
	query := s.db.WithContext(ctx).Model(new(T))
	query = applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, mapError(err, "count")
	}
	return total, nil
}

func (s *Store[T, PT]) Search(ctx context.Context, term string, page repositories.Page) ([]*T, int64, error) {
	// A store without searchable fields matches nothing; falling back to
	// an unfiltered listing would make every term a hit.
	if len(s.opts.SearchFields) == 0 || term == "" {
		return []*T{}, 0, nil
	}

	conditions := make([]string, 0, len(s.opts.SearchFields))
	args := make([]any, 0, len(s.opts.SearchFields))
	for _, field := range s.opts.SearchFields {
		conditions = append(conditions, field+" ILIKE ?")
		args = append(args, "%"+term+"%")
	}

	query := s.db.WithContext(ctx).Model(new(T)).Where(strings.Join(conditions, " OR "), args...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, "count search results")
	}

	query = s.applyOrder(query, repositories.Order{})
	query = query.Limit(page.Limit).Offset(page.Offset())

	var records []*T
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, mapError(err, "search")
	}
	return records, total, nil
}

func (s *Store[T, PT]) applyOrder(query *gorm.DB, order repositories.Order) *gorm.DB {
	column, ok := s.opts.SortColumns[order.By]
	if !ok {
		column = s.opts.DefaultSort
	}
	direction := "ASC"
	if order.Desc || !ok {
		direction = "DESC"
	}
	return query.Order(fmt.Sprintf("%s %s", column, direction))
}

// applyFilters translates a FilterMap into WHERE clauses. Field names come
// from handler whitelists, not request input.
func applyFilters(query *gorm.DB, filters repositories.FilterMap) *gorm.DB {
	for _, f := range filters {
		switch f.Op {
		case repositories.OpEqual:
			query = query.Where(f.Field+" = ?", f.Value)
		case repositories.OpGte:
			query = query.Where(f.Field+" >= ?", f.Value)
		case repositories.OpLte:
			query = query.Where(f.Field+" <= ?", f.Value)
		case repositories.OpLike:
			query = query.Where(f.Field+" ILIKE ?", fmt.Sprintf("%%%v%%", f.Value))
		case repositories.OpIn:
			query = query.Where(f.Field+" IN ?", f.Value)
		}
	}
	return query
}

// mapError folds backend errors onto the repository taxonomy. The original
// error stays wrapped for logs; handlers decide what reaches the client.
func mapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: duplicate value for %s", repositories.ErrConstraintViolation, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: referenced record missing (%s)", repositories.ErrConstraintViolation, pgErr.ConstraintName)
		case "23502": // not_null_violation
			return fmt.Errorf("%w: %s is required", repositories.ErrConstraintViolation, pgErr.ColumnName)
		case "23514": // check_violation
			return fmt.Errorf("%w: %s", repositories.ErrConstraintViolation, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("%s failed: %w: %v", operation, repositories.ErrStorageUnavailable, err)
}
