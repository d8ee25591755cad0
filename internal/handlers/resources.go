package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
	"github.com/campuskit/school-service/internal/services"
)

// parseDate accepts the wire date format used by list filters.
func parseDate(raw string) (any, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD")
	}
	return t, nil
}

func parseRFC3339(raw string) (any, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 timestamp")
	}
	return t, nil
}

// stampActor records the acting identity into a create payload,
// overriding whatever the client sent.
func stampActor(c *gin.Context, set func(id string)) {
	if identity, ok := IdentityFromContext(c); ok {
		set(identity.ID)
	}
}

func studentConfig() ResourceConfig[models.Student] {
	return ResourceConfig[models.Student]{
		Name: "student",
		Filters: []FilterParam{
			{Param: "class_id", Field: "class_id", Op: repositories.OpEqual},
			{Param: "user_id", Field: "user_id", Op: repositories.OpEqual},
			{Param: "name", Field: "full_name", Op: repositories.OpLike},
		},
		UpdatableFields: []string{
			"full_name", "class_id", "roll_number",
			"guardian_name", "guardian_phone", "avatar_url", "admission_date",
		},
	}
}

func teacherConfig() ResourceConfig[models.Teacher] {
	return ResourceConfig[models.Teacher]{
		Name: "teacher",
		Filters: []FilterParam{
			{Param: "user_id", Field: "user_id", Op: repositories.OpEqual},
			{Param: "name", Field: "full_name", Op: repositories.OpLike},
		},
		UpdatableFields: []string{"full_name", "qualification", "phone", "avatar_url"},
	}
}

func classConfig() ResourceConfig[models.Class] {
	return ResourceConfig[models.Class]{
		Name: "class",
		Filters: []FilterParam{
			{Param: "name", Field: "name", Op: repositories.OpLike},
			{Param: "section", Field: "section", Op: repositories.OpEqual},
			{Param: "academic_year", Field: "academic_year", Op: repositories.OpEqual},
			{Param: "teacher_id", Field: "class_teacher_id", Op: repositories.OpEqual},
		},
		UpdatableFields: []string{
			"name", "section", "class_teacher_id", "academic_year", "student_quota",
		},
	}
}

func subjectConfig() ResourceConfig[models.Subject] {
	return ResourceConfig[models.Subject]{
		Name: "subject",
		Filters: []FilterParam{
			{Param: "class_id", Field: "class_id", Op: repositories.OpEqual},
			{Param: "teacher_id", Field: "teacher_id", Op: repositories.OpEqual},
			{Param: "code", Field: "code", Op: repositories.OpEqual},
		},
		UpdatableFields: []string{"name", "code", "class_id", "teacher_id"},
	}
}

func timetableConfig() ResourceConfig[models.TimetableEntry] {
	return ResourceConfig[models.TimetableEntry]{
		Name: "timetable entry",
		Filters: []FilterParam{
			{Param: "class_id", Field: "class_id", Op: repositories.OpEqual},
			{Param: "day", Field: "day_of_week", Op: repositories.OpEqual},
		},
		UpdatableFields: []string{"day_of_week", "slots"},
	}
}

func attendanceConfig() ResourceConfig[models.AttendanceRecord] {
	return ResourceConfig[models.AttendanceRecord]{
		Name: "attendance record",
		Filters: []FilterParam{
			{Param: "student_id", Field: "student_id", Op: repositories.OpEqual},
			{Param: "class_id", Field: "class_id", Op: repositories.OpEqual},
			{Param: "status", Field: "status", Op: repositories.OpEqual},
			{Param: "from", Field: "date", Op: repositories.OpGte, Parse: parseDate},
			{Param: "to", Field: "date", Op: repositories.OpLte, Parse: parseDate},
		},
		UpdatableFields: []string{"status", "date"},
		BeforeCreate: func(c *gin.Context, record *models.AttendanceRecord) {
			stampActor(c, func(id string) { record.RecordedBy = id })
		},
	}
}

func markConfig(leaderboard *services.LeaderboardService) ResourceConfig[models.Mark] {
	return ResourceConfig[models.Mark]{
		Name: "mark",
		Filters: []FilterParam{
			{Param: "student_id", Field: "student_id", Op: repositories.OpEqual},
			{Param: "subject_id", Field: "subject_id", Op: repositories.OpEqual},
			{Param: "class_id", Field: "class_id", Op: repositories.OpEqual},
			{Param: "exam_type", Field: "exam_type", Op: repositories.OpEqual},
		},
		UpdatableFields: []string{"score", "max_score", "grade", "exam_type"},
		BeforeCreate: func(c *gin.Context, record *models.Mark) {
			stampActor(c, func(id string) { record.RecordedBy = id })
		},
		// Rankings aggregate marks per class; any score change makes the
		// cached board stale.
		OnChange: func(ctx context.Context, action string, record *models.Mark) {
			leaderboard.Invalidate(ctx, record.ClassID)
		},
	}
}

func noteConfig() ResourceConfig[models.Note] {
	return ResourceConfig[models.Note]{
		Name: "note",
		Filters: []FilterParam{
			{Param: "subject_id", Field: "subject_id", Op: repositories.OpEqual},
			{Param: "class_id", Field: "class_id", Op: repositories.OpEqual},
		},
		UpdatableFields: []string{"title", "content", "file_url"},
		BeforeCreate: func(c *gin.Context, record *models.Note) {
			stampActor(c, func(id string) { record.PostedBy = id })
		},
	}
}

func eventConfig() ResourceConfig[models.Event] {
	return ResourceConfig[models.Event]{
		Name: "event",
		Filters: []FilterParam{
			{Param: "audience", Field: "audience", Op: repositories.OpEqual},
			{Param: "from", Field: "starts_at", Op: repositories.OpGte, Parse: parseRFC3339},
			{Param: "to", Field: "starts_at", Op: repositories.OpLte, Parse: parseRFC3339},
		},
		UpdatableFields: []string{
			"title", "description", "starts_at", "ends_at",
			"location", "audience", "metadata",
		},
	}
}

func feeConfig() ResourceConfig[models.Fee] {
	return ResourceConfig[models.Fee]{
		Name: "fee",
		Filters: []FilterParam{
			{Param: "student_id", Field: "student_id", Op: repositories.OpEqual},
			{Param: "status", Field: "status", Op: repositories.OpEqual},
			{Param: "due_before", Field: "due_date", Op: repositories.OpLte, Parse: parseDate},
			{Param: "due_after", Field: "due_date", Op: repositories.OpGte, Parse: parseDate},
		},
		UpdatableFields: []string{
			"title", "amount", "due_date", "status", "paid_at", "reference",
		},
	}
}
