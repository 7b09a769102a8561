package models

import "time"

// StudentProfile holds the per-child learning state attached to a student user.
// PointsTotal mirrors the LessonProgress ledger and is refreshed on every
// completion write; the ledger stays the source of truth for display.
type StudentProfile struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	FamilyID       uint       `gorm:"not null;index" json:"family_id"`
	BirthDate      *time.Time `json:"birth_date"`
	CurrentGradeID *uint      `gorm:"index" json:"current_grade_id"`
	PointsTotal    int        `gorm:"default:0" json:"points_total"`
	CurrentStreak  int        `gorm:"default:0" json:"current_streak"`
	LongestStreak  int        `gorm:"default:0" json:"longest_streak"`
	LastLessonDate *time.Time `json:"last_lesson_date"`
	Notes          string     `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	CurrentGrade *Grade `gorm:"foreignKey:CurrentGradeID" json:"current_grade,omitempty"`
}
