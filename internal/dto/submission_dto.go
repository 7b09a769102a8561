package dto

import (
	"encoding/json"
	"time"
)

// SubmitAnswerRequest carries one student answer. Answer is type-dependent:
// an option index, a boolean, free text, or a memory-verse acknowledgement.
type SubmitAnswerRequest struct {
	Answer json.RawMessage `json:"answer" validate:"required"`
}

// SubmitAnswerResponse reports the grading outcome for one submission.
type SubmitAnswerResponse struct {
	ActivityID   uint   `json:"activity_id"`
	Supported    bool   `json:"supported"`
	IsCorrect    bool   `json:"is_correct"`
	PointsEarned int    `json:"points_earned"`
	Explanation  string `json:"explanation,omitempty"`
}

// LessonProgressResponse serializes a student's progress row for one lesson.
type LessonProgressResponse struct {
	LessonID     uint       `json:"lesson_id"`
	StudentID    uint       `json:"student_id"`
	Status       string     `json:"status"`
	PointsEarned int        `json:"points_earned"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// CompleteLessonResponse wraps the final progress row plus any badges the
// completion unlocked and the student's updated streak.
type CompleteLessonResponse struct {
	Progress        LessonProgressResponse `json:"progress"`
	CurrentStreak   int                    `json:"current_streak"`
	LongestStreak   int                    `json:"longest_streak"`
	PointsTotal     int                    `json:"points_total"`
	NewAchievements []AchievementResponse  `json:"new_achievements"`
}
