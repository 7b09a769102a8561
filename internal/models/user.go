package models

import "time"

const (
	// RoleParent marks an adult account holder with login credentials.
	RoleParent = "parent"
	// RoleStudent marks a child profile; students typically have no credentials.
	RoleStudent = "student"
)

// User represents a member of a family, either a parent or a student.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FamilyID        uint      `gorm:"not null;index" json:"family_id"`
	Role            string    `gorm:"size:16;not null;index" json:"role"`
	FirstName       string    `gorm:"size:128;not null" json:"first_name"`
	LastName        string    `gorm:"size:128;not null" json:"last_name"`
	Email           *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	PasswordHash    string    `gorm:"size:255" json:"-"`
	IsPrimaryParent bool      `gorm:"default:false" json:"is_primary_parent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Family  Family          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Profile *StudentProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// IsStudent reports whether the user is a child profile.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}
