package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
	"github.com/campuskit/school-service/internal/validator"
)

// fakeStore is an in-memory Store[models.Student] recording the inputs the
// handler passes down.
type fakeStore struct {
	students map[string]*models.Student

	lastFilters repositories.FilterMap
	lastPage    repositories.Page
	lastFields  map[string]any
}

func newFakeStore(seed ...*models.Student) *fakeStore {
	f := &fakeStore{students: map[string]*models.Student{}}
	for _, s := range seed {
		f.students[s.ID] = s
	}
	return f
}

func (f *fakeStore) Create(ctx context.Context, record *models.Student) error {
	if record.ID == "" {
		record.ID = "generated-id"
	}
	copied := *record
	f.students[record.ID] = &copied
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStore) List(ctx context.Context, filters repositories.FilterMap, page repositories.Page, order repositories.Order) ([]*models.Student, int64, error) {
	f.lastFilters = filters
	f.lastPage = page
	out := make([]*models.Student, 0, len(f.students))
	for _, s := range f.students {
		copied := *s
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Student, error) {
	f.lastFields = fields
	if _, ok := f.students[id]; !ok {
		return nil, repositories.ErrNotFound
	}
	return f.GetByID(ctx, id)
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	delete(f.students, id)
	return nil
}

func (f *fakeStore) Count(ctx context.Context, filters repositories.FilterMap) (int64, error) {
	f.lastFilters = filters
	return int64(len(f.students)), nil
}

func (f *fakeStore) Search(ctx context.Context, term string, page repositories.Page) ([]*models.Student, int64, error) {
	var out []*models.Student
	for _, s := range f.students {
		if strings.Contains(strings.ToLower(s.FullName), strings.ToLower(term)) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func newStudentHandler(store *fakeStore) *ResourceHandler[models.Student] {
	base := NewBaseHandler(testLogger(), false, 10, 100)
	return NewResourceHandler[models.Student](base, store, studentConfig(), validator.New(), nil)
}

func mountStudentRoutes(h *ResourceHandler[models.Student]) *gin.Engine {
	router := gin.New()
	router.GET("/students", h.List)
	router.GET("/students/count", h.Count)
	router.GET("/students/search", h.Search)
	router.GET("/students/:id", h.Get)
	router.POST("/students", h.Create)
	router.PATCH("/students/:id", h.Update)
	router.DELETE("/students/:id", h.Delete)
	return router
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decoding response: %v", err)
	}
	return resp
}

func seedStudent(id, name, classID string) *models.Student {
	return &models.Student{
		Base:       models.Base{ID: id},
		UserID:     "user-" + id,
		FullName:   name,
		ClassID:    classID,
		RollNumber: 1,
	}
}

func TestResourceHandler_List(t *testing.T) {
	store := newFakeStore(seedStudent("s-1", "Alice", "c-1"), seedStudent("s-2", "Bob", "c-2"))
	router := mountStudentRoutes(newStudentHandler(store))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/students?class_id=c-1&page=2&limit=5", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	resp := decodeResponse(t, recorder)
	if !resp.Success {
		t.Error("Expected success envelope")
	}
	if resp.Pagination == nil || resp.Pagination.Page != 2 || resp.Pagination.Limit != 5 {
		t.Errorf("Unexpected pagination: %+v", resp.Pagination)
	}

	// The class_id query parameter must reach the store as a filter.
	if len(store.lastFilters) != 1 || store.lastFilters[0].Field != "class_id" || store.lastFilters[0].Value != "c-1" {
		t.Errorf("Unexpected filters: %+v", store.lastFilters)
	}
	if store.lastPage.Page != 2 || store.lastPage.Limit != 5 {
		t.Errorf("Unexpected page: %+v", store.lastPage)
	}
}

func TestResourceHandler_Get(t *testing.T) {
	store := newFakeStore(seedStudent("s-1", "Alice", "c-1"))
	router := mountStudentRoutes(newStudentHandler(store))

	t.Run("found", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/students/s-1", nil))
		if recorder.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", recorder.Code)
		}
	})

	t.Run("missing id is 404 with the entity name", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/students/absent", nil))
		if recorder.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", recorder.Code)
		}
		if resp := decodeResponse(t, recorder); resp.Message != "student not found" {
			t.Errorf("Unexpected message: %q", resp.Message)
		}
	})
}

func TestResourceHandler_Create(t *testing.T) {
	store := newFakeStore()
	router := mountStudentRoutes(newStudentHandler(store))

	t.Run("valid payload", func(t *testing.T) {
		body := `{"user_id":"u-9","full_name":"Carol","class_id":"c-1","roll_number":7}`
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body)))
		if recorder.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if len(store.students) != 1 {
			t.Errorf("Expected 1 stored student, got %d", len(store.students))
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		body := `{"full_name":"No Class"}`
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body)))
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", recorder.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/students", strings.NewReader("{not json")))
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", recorder.Code)
		}
	})
}

func TestResourceHandler_Update(t *testing.T) {
	store := newFakeStore(seedStudent("s-1", "Alice", "c-1"))
	router := mountStudentRoutes(newStudentHandler(store))

	t.Run("whitelisted fields only", func(t *testing.T) {
		body := `{"full_name":"Alice B","user_id":"hijack","id":"hijack","unknown":"x"}`
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/students/s-1", strings.NewReader(body)))
		if recorder.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if len(store.lastFields) != 1 || store.lastFields["full_name"] != "Alice B" {
			t.Errorf("Expected only full_name to pass the whitelist, got %+v", store.lastFields)
		}
	})

	t.Run("no updatable fields", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/students/s-1", strings.NewReader(`{"id":"x"}`)))
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", recorder.Code)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/students/absent", strings.NewReader(`{"full_name":"X"}`)))
		if recorder.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", recorder.Code)
		}
	})

	t.Run("patched values are validated", func(t *testing.T) {
		store.lastFields = nil
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/students/s-1", strings.NewReader(`{"roll_number":0}`)))
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", recorder.Code, recorder.Body.String())
		}
		response := decodeResponse(t, recorder)
		if !strings.Contains(response.Message, "roll_number") {
			t.Errorf("Expected message to name roll_number, got %q", response.Message)
		}
		if store.lastFields != nil {
			t.Errorf("Expected no store write on validation failure, got %+v", store.lastFields)
		}
	})

	t.Run("mistyped value is rejected", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/students/s-1", strings.NewReader(`{"roll_number":"seven"}`)))
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", recorder.Code)
		}
	})
}

func TestResourceHandler_Delete(t *testing.T) {
	store := newFakeStore(seedStudent("s-1", "Alice", "c-1"))
	router := mountStudentRoutes(newStudentHandler(store))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/students/s-1", nil))
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", recorder.Code)
	}

	// Deleting again is still a success.
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/students/s-1", nil))
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 on repeated delete, got %d", recorder.Code)
	}
}

func TestResourceHandler_Search(t *testing.T) {
	store := newFakeStore(seedStudent("s-1", "Alice", "c-1"), seedStudent("s-2", "Bob", "c-1"))
	router := mountStudentRoutes(newStudentHandler(store))

	t.Run("requires a term", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/students/search", nil))
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", recorder.Code)
		}
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/students/search?q=ali", nil))
		if recorder.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", recorder.Code)
		}
		resp := decodeResponse(t, recorder)
		if resp.Pagination == nil || resp.Pagination.Total != 1 {
			t.Errorf("Expected 1 result, got %+v", resp.Pagination)
		}
	})
}

func TestResourceHandler_Count(t *testing.T) {
	store := newFakeStore(seedStudent("s-1", "Alice", "c-1"))
	router := mountStudentRoutes(newStudentHandler(store))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/students/count?class_id=c-1", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	if len(store.lastFilters) != 1 {
		t.Errorf("Expected the filter to reach the store, got %+v", store.lastFilters)
	}
}
