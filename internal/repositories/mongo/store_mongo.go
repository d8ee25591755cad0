package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/campuskit/school-service/internal/repositories"
)

// StoreOptions mirrors the relational store: sort keys and searchable
// fields are fixed per entity at construction.
type StoreOptions struct {
	SortFields   map[string]string
	DefaultSort  string
	SearchFields []string
}

// Store is the document implementation of repositories.Store. One instance
// per collection; ids are the same UUID strings the relational backend
// uses, stored as _id.
type Store[T any, PT interface {
	*T
	repositories.Record
}] struct {
	col  *mongo.Collection
	opts StoreOptions
}

func NewStore[T any, PT interface {
	*T
	repositories.Record
}](db *mongo.Database, collection string, opts StoreOptions) *Store[T, PT] {
	if opts.DefaultSort == "" {
		opts.DefaultSort = "created_at"
	}
	if opts.SortFields == nil {
		opts.SortFields = map[string]string{
			"created_at": "created_at",
			"updated_at": "updated_at",
			"id":         "_id",
		}
	}
	return &Store[T, PT]{col: db.Collection(collection), opts: opts}
}

func (s *Store[T, PT]) Create(ctx context.Context, record *T) error {
	rec := PT(record)
	if rec.GetID() == "" {
		rec.SetID(uuid.New().String())
	}
	rec.StampCreate(time.Now().UTC())

	if _, err := s.col.InsertOne(ctx, record); err != nil {
		return mapError(err, "create")
	}
	return nil
}

func (s *Store[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	var out T
	err := s.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out)
	if err != nil {
		return nil, mapError(err, "get by id")
	}
	return &out, nil
}

func (s *Store[T, PT]) List(ctx context.Context, filters repositories.FilterMap, page repositories.Page, order repositories.Order) ([]*T, int64, error) {
	filter := buildFilter(filters)

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mapError(err, "count")
	}

	opts := options.Find().
		SetSort(s.sortSpec(order)).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	records, err := s.findMany(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *Store[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	if len(fields) == 0 {
		return s.GetByID(ctx, id)
	}

	delete(fields, "id")
	delete(fields, "_id")
	delete(fields, "created_at")

	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	for field, value := range fields {
		set = append(set, bson.E{Key: field, Value: value})
	}

	res, err := s.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, mapError(err, "update")
	}
	if res.MatchedCount == 0 {
		return nil, repositories.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete is idempotent: a missing id is a successful no-op.
func (s *Store[T, PT]) Delete(ctx context.Context, id string) error {
	if _, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return mapError(err, "delete")
	}
	return nil
}

func (s *Store[T, PT]) Count(ctx context.Context, filters repositories.FilterMap) (int64, error) {
	total, err := s.col.CountDocuments(ctx, buildFilter(filters))
	if err != nil {
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

	pattern := bson.D{{Key: "$regex", Value: regexp.QuoteMeta(term)}, {Key: "$options", Value: "i"}}
	or := make(bson.A, 0, len(s.opts.SearchFields))
	for _, field := range s.opts.SearchFields {
		or = append(or, bson.D{{Key: field, Value: pattern}})
	}
	filter := bson.D{{Key: "$or", Value: or}}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mapError(err, "count search results")
	}

	opts := options.Find().
		SetSort(s.sortSpec(repositories.Order{})).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	records, err := s.findMany(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *Store[T, PT]) findMany(ctx context.Context, filter bson.D, opts options.Lister[options.FindOptions]) ([]*T, error) {
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err, "find")
	}
	defer cursor.Close(ctx)

	records := []*T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, mapError(err, "decode")
		}
		records = append(records, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(err, "cursor")
	}
	return records, nil
}

func (s *Store[T, PT]) sortSpec(order repositories.Order) bson.D {
	field, ok := s.opts.SortFields[order.By]
	if !ok {
		field = s.opts.DefaultSort
	}
	direction := 1
	if order.Desc || !ok {
		direction = -1
	}
	return bson.D{{Key: field, Value: direction}}
}

// buildFilter translates a FilterMap into a conjunctive bson filter.
func buildFilter(filters repositories.FilterMap) bson.D {
	filter := bson.D{}
	for _, f := range filters {
		field := f.Field
		if field == "id" {
			field = "_id"
		}
		switch f.Op {
		case repositories.OpEqual:
			filter = append(filter, bson.E{Key: field, Value: f.Value})
		case repositories.OpGte:
			filter = append(filter, bson.E{Key: field, Value: bson.D{{Key: "$gte", Value: f.Value}}})
		case repositories.OpLte:
			filter = append(filter, bson.E{Key: field, Value: bson.D{{Key: "$lte", Value: f.Value}}})
		case repositories.OpLike:
			filter = append(filter, bson.E{Key: field, Value: bson.D{
				{Key: "$regex", Value: regexp.QuoteMeta(fmt.Sprintf("%v", f.Value))},
				{Key: "$options", Value: "i"},
			}})
		case repositories.OpIn:
			filter = append(filter, bson.E{Key: field, Value: bson.D{{Key: "$in", Value: f.Value}}})
		}
	}
	return filter
}

func mapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: duplicate value", repositories.ErrConstraintViolation)
	}
	return fmt.Errorf("%s failed: %w: %v", operation, repositories.ErrStorageUnavailable, err)
}
