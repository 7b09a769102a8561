package models

import "time"

// Grade is an ordered reference entry ("Kindergarten".."8th Grade").
type Grade struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	OrderIndex int       `gorm:"index" json:"order_index"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Subject is a named curriculum category with a display color.
type Subject struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Color      string    `gorm:"size:16" json:"color"`
	OrderIndex int       `gorm:"index" json:"order_index"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Course binds a subject to a grade level and spans a number of weeks.
type Course struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GradeID    uint      `gorm:"not null;index" json:"grade_id"`
	SubjectID  uint      `gorm:"not null;index" json:"subject_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	TotalWeeks int       `gorm:"default:36" json:"total_weeks"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Grade   Grade   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Subject Subject `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject"`
}

// Unit groups one week of lessons inside a course and may carry a memory verse.
type Unit struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CourseID       uint      `gorm:"not null;index" json:"course_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	WeekNumber     int       `gorm:"not null" json:"week_number"`
	MemoryVerse    string    `gorm:"type:text" json:"memory_verse"`
	VerseReference string    `gorm:"size:128" json:"verse_reference"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Course Course `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
