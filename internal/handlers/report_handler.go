package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/repositories"
	"github.com/campuskit/school-service/internal/services"
)

// ReportHandler streams xlsx exports.
type ReportHandler struct {
	BaseHandler
	reports *services.ReportService
}

func NewReportHandler(base BaseHandler, reports *services.ReportService) *ReportHandler {
	return &ReportHandler{BaseHandler: base, reports: reports}
}

// MarksExport writes a marks workbook narrowed by the optional class_id,
// subject_id and exam_type query parameters.
func (h *ReportHandler) MarksExport(c *gin.Context) {
	var filters repositories.FilterMap
	if classID := c.Query("class_id"); classID != "" {
		filters = filters.Where("class_id", classID)
	}
	if subjectID := c.Query("subject_id"); subjectID != "" {
		filters = filters.Where("subject_id", subjectID)
	}
	if examType := c.Query("exam_type"); examType != "" {
		filters = filters.Where("exam_type", examType)
	}

	workbook, err := h.reports.MarksWorkbook(c.Request.Context(), filters)
	if err != nil {
		h.Fail(c, err, "")
		return
	}

	filename := fmt.Sprintf("marks-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if _, err := workbook.WriteTo(c.Writer); err != nil {
		h.logger.Error("writing workbook response", "error", err)
		c.Abort()
		return
	}
	c.Status(http.StatusOK)
}
