package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
)

func TestBuildFilter(t *testing.T) {
	t.Run("empty map", func(t *testing.T) {
		filter := buildFilter(nil)
		if len(filter) != 0 {
			t.Errorf("Expected empty filter, got %+v", filter)
		}
	})

	t.Run("equality and range", func(t *testing.T) {
		var filters repositories.FilterMap
		filters = filters.Where("class_id", "c-1").WhereOp("score", repositories.OpGte, 50.0)

		filter := buildFilter(filters)
		if len(filter) != 2 {
			t.Fatalf("Expected 2 clauses, got %d", len(filter))
		}
		if filter[0].Key != "class_id" || filter[0].Value != "c-1" {
			t.Errorf("Unexpected equality clause: %+v", filter[0])
		}
		rangeClause, ok := filter[1].Value.(bson.D)
		if !ok || rangeClause[0].Key != "$gte" || rangeClause[0].Value != 50.0 {
			t.Errorf("Unexpected range clause: %+v", filter[1])
		}
	})

	t.Run("id maps to _id", func(t *testing.T) {
		filter := buildFilter(repositories.FilterMap{}.Where("id", "x"))
		if filter[0].Key != "_id" {
			t.Errorf("Expected '_id' key, got %q", filter[0].Key)
		}
	})

	t.Run("like escapes regex metacharacters", func(t *testing.T) {
		filter := buildFilter(repositories.FilterMap{}.WhereOp("name", repositories.OpLike, "a.b*"))
		clause, ok := filter[0].Value.(bson.D)
		if !ok {
			t.Fatalf("Expected a bson.D clause, got %T", filter[0].Value)
		}
		if clause[0].Key != "$regex" || clause[0].Value != `a\.b\*` {
			t.Errorf("Unexpected regex clause: %+v", clause)
		}
		if clause[1].Key != "$options" || clause[1].Value != "i" {
			t.Errorf("Expected case-insensitive option, got %+v", clause)
		}
	})

	t.Run("in clause", func(t *testing.T) {
		filter := buildFilter(repositories.FilterMap{}.WhereOp("status", repositories.OpIn, []string{"present", "late"}))
		clause, ok := filter[0].Value.(bson.D)
		if !ok || clause[0].Key != "$in" {
			t.Errorf("Unexpected in clause: %+v", filter[0])
		}
	})
}

func TestSortSpec(t *testing.T) {
	store := &Store[models.Student, *models.Student]{opts: StoreOptions{
		SortFields: map[string]string{
			"name":       "full_name",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
	}}

	t.Run("whitelisted key ascending", func(t *testing.T) {
		spec := store.sortSpec(repositories.Order{By: "name"})
		if spec[0].Key != "full_name" || spec[0].Value != 1 {
			t.Errorf("Unexpected spec: %+v", spec)
		}
	})

	t.Run("whitelisted key descending", func(t *testing.T) {
		spec := store.sortSpec(repositories.Order{By: "name", Desc: true})
		if spec[0].Key != "full_name" || spec[0].Value != -1 {
			t.Errorf("Unexpected spec: %+v", spec)
		}
	})

	t.Run("unknown key falls back to default, newest first", func(t *testing.T) {
		spec := store.sortSpec(repositories.Order{By: "password_hash"})
		if spec[0].Key != "created_at" || spec[0].Value != -1 {
			t.Errorf("Unexpected spec: %+v", spec)
		}
	})
}

func TestMapError(t *testing.T) {
	if err := mapError(nil, "noop"); err != nil {
		t.Errorf("nil error should stay nil, got %v", err)
	}
	if err := mapError(mongo.ErrNoDocuments, "get"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := mapError(errors.New("connection reset"), "find"); !errors.Is(err, repositories.ErrStorageUnavailable) {
		t.Errorf("Expected ErrStorageUnavailable, got %v", err)
	}
}

func TestSearchWithoutSearchFields(t *testing.T) {
	store := &Store[models.Student, *models.Student]{}

	records, total, err := store.Search(context.Background(), "anything", repositories.Page{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 0 || total != 0 {
		t.Errorf("Expected no matches without searchable fields, got %d records, total %d", len(records), total)
	}
}
