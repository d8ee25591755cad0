package models

import (
	"time"

	"gorm.io/datatypes"
)

// Note is study material shared with a class. FileURL is an opaque link;
// the service never touches the file itself.
type Note struct {
	Base      `gorm:"embedded" bson:",inline"`
	Title     string `json:"title" gorm:"not null;size:200" bson:"title" validate:"required,max=200"`
	Content   string `json:"content" gorm:"type:text" bson:"content" validate:"omitempty,max=10000"`
	SubjectID string `json:"subject_id" gorm:"size:36;index" bson:"subject_id" validate:"required"`
	ClassID   string `json:"class_id" gorm:"size:36;index" bson:"class_id" validate:"required"`
	FileURL   string `json:"file_url" gorm:"size:500" bson:"file_url" validate:"omitempty,url"`
	PostedBy  string `json:"posted_by" gorm:"size:36" bson:"posted_by"`
}

func (Note) TableName() string {
	return "notes"
}

type Event struct {
	Base        `gorm:"embedded" bson:",inline"`
	Title       string         `json:"title" gorm:"not null;size:200" bson:"title" validate:"required,max=200"`
	Description string         `json:"description" gorm:"type:text" bson:"description" validate:"omitempty,max=5000"`
	StartsAt    time.Time      `json:"starts_at" gorm:"index" bson:"starts_at" validate:"required"`
	EndsAt      *time.Time     `json:"ends_at,omitempty" bson:"ends_at,omitempty"`
	Location    string         `json:"location" gorm:"size:200" bson:"location" validate:"omitempty,max=200"`
	Audience    string         `json:"audience" gorm:"size:20;default:all" bson:"audience" validate:"omitempty,oneof=all students teachers"`
	Metadata    datatypes.JSON `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

func (Event) TableName() string {
	return "events"
}
