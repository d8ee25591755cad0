package models

import "time"

// Student is the role-specific profile owned by a user with RoleStudent.
type Student struct {
	Base          `gorm:"embedded" bson:",inline"`
	UserID        string     `json:"user_id" gorm:"uniqueIndex;size:36" bson:"user_id" validate:"required"`
	FullName      string     `json:"full_name" gorm:"not null;size:100" bson:"full_name" validate:"required,max=100"`
	ClassID       string     `json:"class_id" gorm:"size:36;index" bson:"class_id" validate:"required"`
	RollNumber    int        `json:"roll_number" gorm:"not null" bson:"roll_number" validate:"required,min=1"`
	GuardianName  string     `json:"guardian_name" gorm:"size:100" bson:"guardian_name" validate:"omitempty,max=100"`
	GuardianPhone string     `json:"guardian_phone" gorm:"size:20" bson:"guardian_phone" validate:"omitempty,max=20"`
	AvatarURL     *string    `json:"avatar_url,omitempty" gorm:"size:500" bson:"avatar_url,omitempty" validate:"omitempty,url"`
	AdmissionDate *time.Time `json:"admission_date,omitempty" bson:"admission_date,omitempty"`
}

func (Student) TableName() string {
	return "students"
}

// Teacher is the role-specific profile owned by a user with RoleTeacher.
type Teacher struct {
	Base          `gorm:"embedded" bson:",inline"`
	UserID        string  `json:"user_id" gorm:"uniqueIndex;size:36" bson:"user_id" validate:"required"`
	FullName      string  `json:"full_name" gorm:"not null;size:100" bson:"full_name" validate:"required,max=100"`
	Qualification string  `json:"qualification" gorm:"size:200" bson:"qualification" validate:"omitempty,max=200"`
	Phone         string  `json:"phone" gorm:"size:20" bson:"phone" validate:"omitempty,max=20"`
	AvatarURL     *string `json:"avatar_url,omitempty" gorm:"size:500" bson:"avatar_url,omitempty" validate:"omitempty,url"`
}

func (Teacher) TableName() string {
	return "teachers"
}
