package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// ProgressStatusNotStarted is the implicit state before any interaction.
	ProgressStatusNotStarted = "not_started"
	// ProgressStatusInProgress marks a lesson the student has opened.
	ProgressStatusInProgress = "in_progress"
	// ProgressStatusCompleted marks a finished lesson; CompletedAt must be set.
	ProgressStatusCompleted = "completed"
)

// LessonProgress is the one row per (student, lesson) completion record.
// Rows are created lazily on first interaction and updated, never deleted.
type LessonProgress struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_lesson_progress_key" json:"student_id"`
	LessonID     uint       `gorm:"not null;uniqueIndex:idx_lesson_progress_key" json:"lesson_id"`
	Status       string     `gorm:"size:16;not null;default:not_started" json:"status"`
	PointsEarned int        `gorm:"default:0" json:"points_earned"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Lesson Lesson `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lesson"`
}

// IsCompleted reports whether the lesson has been finished.
func (p LessonProgress) IsCompleted() bool {
	return p.Status == ProgressStatusCompleted
}

// ActivityResponse records the latest attempt for one (student, activity) pair.
// Repeat submissions upsert by key; only the most recent attempt counts.
type ActivityResponse struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_activity_response_key" json:"student_id"`
	ActivityID   uint           `gorm:"not null;uniqueIndex:idx_activity_response_key" json:"activity_id"`
	// Text affinity: payloads can be bare JSON scalars (e.g. a choice
	// index), which must round-trip unchanged on every driver.
	ResponseData datatypes.JSON `gorm:"type:text" json:"response_data"`
	IsCorrect    bool           `gorm:"not null" json:"is_correct"`
	PointsEarned int            `gorm:"default:0" json:"points_earned"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Activity Activity `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"activity"`
}
