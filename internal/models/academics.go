package models

import "gorm.io/datatypes"

type Class struct {
	Base         `gorm:"embedded" bson:",inline"`
	Name         string `json:"name" gorm:"not null;size:100;uniqueIndex:idx_class_name_section" bson:"name" validate:"required,max=100"`
	Section      string `json:"section" gorm:"size:10;uniqueIndex:idx_class_name_section" bson:"section" validate:"omitempty,max=10"`
	ClassTeacher string `json:"class_teacher_id" gorm:"column:class_teacher_id;size:36;index" bson:"class_teacher_id" validate:"omitempty"`
	AcademicYear string `json:"academic_year" gorm:"size:20" bson:"academic_year" validate:"omitempty,max=20"`
	StudentQuota int    `json:"student_quota" bson:"student_quota" validate:"omitempty,min=0"`
}

func (Class) TableName() string {
	return "classes"
}

type Subject struct {
	Base      `gorm:"embedded" bson:",inline"`
	Name      string `json:"name" gorm:"not null;size:100" bson:"name" validate:"required,max=100"`
	Code      string `json:"code" gorm:"size:20;index" bson:"code" validate:"omitempty,max=20"`
	ClassID   string `json:"class_id" gorm:"size:36;index" bson:"class_id" validate:"required"`
	TeacherID string `json:"teacher_id" gorm:"size:36;index" bson:"teacher_id" validate:"omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

// TimetableEntry holds one weekday of a class timetable. Slots is a JSON
// array of {period, subject_id, starts_at, ends_at} objects; its shape is
// owned by the client.
type TimetableEntry struct {
	Base      `gorm:"embedded" bson:",inline"`
	ClassID   string         `json:"class_id" gorm:"size:36;index:idx_timetable_class_day" bson:"class_id" validate:"required"`
	DayOfWeek string         `json:"day_of_week" gorm:"size:10;index:idx_timetable_class_day" bson:"day_of_week" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Slots     datatypes.JSON `json:"slots" bson:"slots" validate:"required"`
}

func (TimetableEntry) TableName() string {
	return "timetable_entries"
}
