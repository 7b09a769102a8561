package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Lesson is the atomic unit of curriculum content, scheduled on a
// (week_number, day_number) slot within its course.
type Lesson struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	CourseID            uint      `gorm:"not null;index" json:"course_id"`
	UnitID              uint      `gorm:"not null;index" json:"unit_id"`
	Title               string    `gorm:"size:255;not null" json:"title"`
	WeekNumber          int       `gorm:"not null;index" json:"week_number"`
	DayNumber           int       `gorm:"not null;index" json:"day_number"`
	OrderIndex          int       `gorm:"index" json:"order_index"`
	EstimatedMinutes    int       `gorm:"default:20" json:"estimated_minutes"`
	ObjectivesRaw       string    `gorm:"column:objectives;type:text" json:"-"`
	TeacherScript       string    `gorm:"type:text" json:"teacher_script,omitempty"`
	DiscussionQuestions string    `gorm:"type:text" json:"discussion_questions,omitempty"`
	ClosingPrayer       string    `gorm:"type:text" json:"closing_prayer,omitempty"`
	IsActive            bool      `gorm:"not null" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Course        Course               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
	Unit          Unit                 `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"unit"`
	ContentBlocks []LessonContentBlock `gorm:"foreignKey:LessonID" json:"content_blocks,omitempty"`
	Activities    []Activity           `gorm:"foreignKey:LessonID" json:"activities,omitempty"`

	Objectives []string `gorm:"-" json:"objectives"`
}

// BeforeSave flattens the objectives list into its stored form.
func (l *Lesson) BeforeSave(tx *gorm.DB) error {
	l.ObjectivesRaw = encodeLines(l.Objectives)
	if l.DayNumber < 1 {
		l.DayNumber = 1
	}
	if l.DayNumber > 5 {
		l.DayNumber = 5
	}
	return nil
}

// AfterFind hydrates the objectives list after loading from the database.
func (l *Lesson) AfterFind(tx *gorm.DB) error {
	l.Objectives = decodeLines(l.ObjectivesRaw)
	return nil
}

const (
	// ContentTypeScripture is a scripture passage block.
	ContentTypeScripture = "scripture"
	// ContentTypeStory is a narrative block.
	ContentTypeStory = "story"
	// ContentTypeVocabulary is a vocabulary block.
	ContentTypeVocabulary = "vocabulary"
	// ContentTypeNote is a parent-facing teaching note.
	ContentTypeNote = "note"
	// ContentTypeOther covers any block outside the known kinds.
	ContentTypeOther = "other"
)

// LessonContentBlock is one ordered passage of lesson material.
type LessonContentBlock struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LessonID    uint      `gorm:"not null;index" json:"lesson_id"`
	ContentType string    `gorm:"size:32;not null" json:"content_type"`
	Title       string    `gorm:"size:255" json:"title"`
	Body        string    `gorm:"type:text" json:"body"`
	OrderIndex  int       `gorm:"index" json:"order_index"`
	// No column default: a default tag would make GORM drop explicit
	// false values on insert, and false is what keeps parent notes
	// hidden from students.
	ForStudent  bool      `gorm:"not null" json:"for_student"`
	AudioEnable bool      `gorm:"default:false" json:"audio_enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeSave collapses unknown content types into the fallback kind.
func (b *LessonContentBlock) BeforeSave(tx *gorm.DB) error {
	switch b.ContentType {
	case ContentTypeScripture, ContentTypeStory, ContentTypeVocabulary, ContentTypeNote:
	default:
		b.ContentType = ContentTypeOther
	}
	return nil
}

func encodeLines(lines []string) string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n")
}

func decodeLines(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
