package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// ActivityTypeMultipleChoice asks the student to pick one option by index.
	ActivityTypeMultipleChoice = "multiple_choice"
	// ActivityTypeTrueFalse asks the student for a boolean answer.
	ActivityTypeTrueFalse = "true_false"
	// ActivityTypeFillBlank asks for free text matched against accepted answers.
	ActivityTypeFillBlank = "fill_blank"
	// ActivityTypeMemoryVerse is self-attested practice with no answer to check.
	ActivityTypeMemoryVerse = "memory_verse"
)

// Activity is a gradable interactive question within a lesson. Data holds the
// activity-type-specific answer key payload.
type Activity struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	LessonID     uint           `gorm:"not null;index" json:"lesson_id"`
	ActivityType string         `gorm:"size:32;not null" json:"activity_type"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Instructions string         `gorm:"type:text" json:"instructions"`
	QuestionText string         `gorm:"type:text" json:"question_text"`
	Data         datatypes.JSON `gorm:"type:json" json:"data"`
	Points       int            `gorm:"default:10" json:"points"`
	Hint         *string        `gorm:"type:text" json:"hint,omitempty"`
	Explanation  string         `gorm:"type:text" json:"explanation"`
	OrderIndex   int            `gorm:"index" json:"order_index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Lesson Lesson `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
