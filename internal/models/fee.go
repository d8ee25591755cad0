package models

import "time"

type FeeStatus string

const (
	FeePending FeeStatus = "pending"
	FeePaid    FeeStatus = "paid"
	FeeOverdue FeeStatus = "overdue"
)

type Fee struct {
	Base      `gorm:"embedded" bson:",inline"`
	StudentID string     `json:"student_id" gorm:"size:36;index" bson:"student_id" validate:"required"`
	Title     string     `json:"title" gorm:"not null;size:200" bson:"title" validate:"required,max=200"`
	Amount    float64    `json:"amount" gorm:"not null" bson:"amount" validate:"required,gt=0"`
	DueDate   time.Time  `json:"due_date" gorm:"index" bson:"due_date" validate:"required"`
	Status    FeeStatus  `json:"status" gorm:"size:10;default:pending" bson:"status" validate:"omitempty,oneof=pending paid overdue"`
	PaidAt    *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	Reference string     `json:"reference" gorm:"size:100" bson:"reference" validate:"omitempty,max=100"`
}

func (Fee) TableName() string {
	return "fees"
}
