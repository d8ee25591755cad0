package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
)

// pagedMarkStore serves a fixed set of marks page by page the way the
// relational store would.
type pagedMarkStore struct {
	marks []*models.Mark
}

func (p *pagedMarkStore) Create(ctx context.Context, record *models.Mark) error { return nil }
func (p *pagedMarkStore) GetByID(ctx context.Context, id string) (*models.Mark, error) {
	return nil, repositories.ErrNotFound
}
func (p *pagedMarkStore) List(ctx context.Context, filters repositories.FilterMap, page repositories.Page, order repositories.Order) ([]*models.Mark, int64, error) {
	start := page.Offset()
	if start >= len(p.marks) {
		return nil, int64(len(p.marks)), nil
	}
	end := start + page.Limit
	if end > len(p.marks) {
		end = len(p.marks)
	}
	return p.marks[start:end], int64(len(p.marks)), nil
}
func (p *pagedMarkStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Mark, error) {
	return nil, repositories.ErrNotFound
}
func (p *pagedMarkStore) Delete(ctx context.Context, id string) error { return nil }
func (p *pagedMarkStore) Count(ctx context.Context, filters repositories.FilterMap) (int64, error) {
	return int64(len(p.marks)), nil
}
func (p *pagedMarkStore) Search(ctx context.Context, term string, page repositories.Page) ([]*models.Mark, int64, error) {
	return nil, 0, nil
}

func TestReportService_MarksWorkbook(t *testing.T) {
	// More marks than one export page so the paging loop runs twice.
	marks := make([]*models.Mark, 0, exportPageSize+5)
	for i := 0; i < exportPageSize+5; i++ {
		marks = append(marks, &models.Mark{
			Base: models.Base{
				ID:        "m-" + string(rune('a'+i%26)),
				CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
			StudentID: "s-1",
			SubjectID: "sub-1",
			ClassID:   "c-1",
			ExamType:  "midterm",
			Score:     float64(40 + i%60),
			MaxScore:  100,
			Grade:     "B",
		})
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewReportService(&pagedMarkStore{marks: marks}, logger)

	file, err := service.MarksWorkbook(context.Background(), nil)
	if err != nil {
		t.Fatalf("MarksWorkbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Marks")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != len(marks)+1 {
		t.Fatalf("Expected %d rows including header, got %d", len(marks)+1, len(rows))
	}
	if rows[0][0] != "ID" || rows[0][4] != "Exam" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}
	if rows[1][4] != "midterm" {
		t.Errorf("Unexpected first data row: %v", rows[1])
	}
}

func TestReportService_MarksWorkbookRowCap(t *testing.T) {
	marks := make([]*models.Mark, 0, 12)
	for i := 0; i < 12; i++ {
		marks = append(marks, &models.Mark{
			Base:      models.Base{ID: fmt.Sprintf("m-%d", i)},
			StudentID: "s-1",
			SubjectID: "sub-1",
			ClassID:   "c-1",
			ExamType:  "final",
			Score:     50,
			MaxScore:  100,
			Grade:     "C",
		})
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewReportService(&pagedMarkStore{marks: marks}, logger)
	service.maxRows = 7

	file, err := service.MarksWorkbook(context.Background(), nil)
	if err != nil {
		t.Fatalf("MarksWorkbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Marks")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 7+1 {
		t.Errorf("Expected cap of 7 data rows plus header, got %d rows", len(rows))
	}
}

func TestReportService_MarksWorkbookEmpty(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewReportService(&pagedMarkStore{}, logger)

	file, err := service.MarksWorkbook(context.Background(), nil)
	if err != nil {
		t.Fatalf("MarksWorkbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Marks")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected header only, got %d rows", len(rows))
	}
}
