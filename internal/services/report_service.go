package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
)

// exportPageSize is the page size used when walking the full result set.
const exportPageSize = 100

// exportMaxRows bounds a single workbook so a runaway table cannot pin the
// process.
const exportMaxRows = 10000

// ReportService renders tabular exports.
type ReportService struct {
	marks   repositories.Store[models.Mark]
	logger  *slog.Logger
	maxRows int
}

func NewReportService(marks repositories.Store[models.Mark], logger *slog.Logger) *ReportService {
	return &ReportService{marks: marks, logger: logger, maxRows: exportMaxRows}
}

// MarksWorkbook pages through marks matching the filters and writes them
// into an xlsx workbook.
func (s *ReportService) MarksWorkbook(ctx context.Context, filters repositories.FilterMap) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := "Marks"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"ID", "Student", "Subject", "Class", "Exam", "Score", "Max Score", "Grade", "Recorded At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	truncated := false
	page := repositories.Page{Page: 1, Limit: exportPageSize}
	for {
		marks, total, err := s.marks.List(ctx, filters, page, repositories.Order{By: "created_at"})
		if err != nil {
			return nil, err
		}

		for _, mark := range marks {
			if row-2 >= s.maxRows {
				truncated = true
				break
			}
			values := []any{
				mark.ID, mark.StudentID, mark.SubjectID, mark.ClassID,
				mark.ExamType, mark.Score, mark.MaxScore, mark.Grade,
				mark.CreatedAt.Format("2006-01-02 15:04"),
			}
			for i, value := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := file.SetCellValue(sheet, cell, value); err != nil {
					return nil, fmt.Errorf("write row: %w", err)
				}
			}
			row++
		}

		if truncated || int64(page.Page*page.Limit) >= total || len(marks) == 0 {
			break
		}
		page.Page++
	}

	if truncated {
		s.logger.Warn("marks workbook truncated", "max_rows", s.maxRows)
	}
	s.logger.Info("marks workbook rendered", "rows", row-2)
	return file, nil
}
