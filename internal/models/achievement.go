package models

import "time"

// Achievement is a badge in the catalog students can earn.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:64" json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StudentAchievement records which student earned which badge, and when.
type StudentAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StudentID     uint      `gorm:"not null;uniqueIndex:idx_student_achievement_key" json:"student_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_student_achievement_key" json:"achievement_id"`
	EarnedAt      time.Time `gorm:"not null" json:"earned_at"`

	Achievement Achievement `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"achievement"`
}
