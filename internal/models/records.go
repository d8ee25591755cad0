package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

type AttendanceRecord struct {
	Base       `gorm:"embedded" bson:",inline"`
	StudentID  string           `json:"student_id" gorm:"size:36;index:idx_attendance_student_date" bson:"student_id" validate:"required"`
	ClassID    string           `json:"class_id" gorm:"size:36;index" bson:"class_id" validate:"required"`
	Date       time.Time        `json:"date" gorm:"index:idx_attendance_student_date" bson:"date" validate:"required"`
	Status     AttendanceStatus `json:"status" gorm:"size:10;not null" bson:"status" validate:"required,oneof=present absent late"`
	RecordedBy string           `json:"recorded_by" gorm:"size:36" bson:"recorded_by"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

type Mark struct {
	Base       `gorm:"embedded" bson:",inline"`
	StudentID  string  `json:"student_id" gorm:"size:36;index" bson:"student_id" validate:"required"`
	SubjectID  string  `json:"subject_id" gorm:"size:36;index" bson:"subject_id" validate:"required"`
	ClassID    string  `json:"class_id" gorm:"size:36;index" bson:"class_id" validate:"required"`
	ExamType   string  `json:"exam_type" gorm:"size:50;not null" bson:"exam_type" validate:"required,max=50"`
	Score      float64 `json:"score" bson:"score" validate:"min=0"`
	MaxScore   float64 `json:"max_score" bson:"max_score" validate:"required,gtefield=Score"`
	Grade      string  `json:"grade" gorm:"size:5" bson:"grade" validate:"omitempty,max=5"`
	RecordedBy string  `json:"recorded_by" gorm:"size:36" bson:"recorded_by"`
}

func (Mark) TableName() string {
	return "marks"
}
