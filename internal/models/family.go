package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Family is the account unit grouping parents and their children.
type Family struct {
	ID                  uint                     `gorm:"primaryKey" json:"id"`
	Name                string                   `gorm:"size:255;not null" json:"name"`
	Email               string                   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	TrialEndsAt         time.Time                `json:"trial_ends_at"`
	SchoolDays          datatypes.JSONSlice[int] `gorm:"type:json" json:"school_days"`
	CurriculumStartDate *time.Time               `json:"curriculum_start_date"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
	Users               []User                   `json:"-"`
}

// DefaultSchoolDays is the Monday-Friday schedule assigned at registration.
var DefaultSchoolDays = []int{1, 2, 3, 4, 5}

// BeforeCreate assigns the default school week when none was chosen.
func (f *Family) BeforeCreate(tx *gorm.DB) error {
	if len(f.SchoolDays) == 0 {
		f.SchoolDays = datatypes.NewJSONSlice(DefaultSchoolDays)
	}
	return nil
}

// IsSchoolDay reports whether the given weekday index (1=Monday..5=Friday)
// is part of the family's school week.
func (f Family) IsSchoolDay(day int) bool {
	for _, d := range f.SchoolDays {
		if d == day {
			return true
		}
	}
	return false
}

// TrialExpired reports whether the family's trial window has lapsed.
func (f Family) TrialExpired(reference time.Time) bool {
	return !f.TrialEndsAt.IsZero() && reference.After(f.TrialEndsAt)
}
