package models

import "time"

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleTeacher    UserRole = "teacher"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// ValidRole reports whether the string names a known role.
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
)

// User is the authenticated principal. Role and status live here; the
// role-specific profile (Student or Teacher row) references the user by id.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null;size:100" bson:"username"`
	Email        *string    `json:"email,omitempty" gorm:"uniqueIndex;size:255" bson:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty" gorm:"size:20" bson:"phone,omitempty"`
	PasswordHash string     `json:"-" gorm:"not null;size:255" bson:"password_hash"`
	Role         UserRole   `json:"role" gorm:"not null;size:20;index" bson:"role"`
	Status       UserStatus `json:"status" gorm:"not null;size:20;default:active" bson:"status"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
