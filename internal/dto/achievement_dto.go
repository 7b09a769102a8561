package dto

import (
	"time"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// AchievementResponse serializes one badge from the catalog, with the earned
// timestamp populated when returned for a specific student.
type AchievementResponse struct {
	ID          uint       `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

// NewAchievementResponse converts a catalog entry into a DTO.
func NewAchievementResponse(model models.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:          model.ID,
		Code:        model.Code,
		Name:        model.Name,
		Description: model.Description,
		Icon:        model.Icon,
	}
}

// NewEarnedAchievementResponse converts a student award, including when it
// was earned.
func NewEarnedAchievementResponse(model models.StudentAchievement) AchievementResponse {
	response := NewAchievementResponse(model.Achievement)
	earned := model.EarnedAt
	response.EarnedAt = &earned
	return response
}

// NewAchievementResponseSlice maps the badge catalog.
func NewAchievementResponseSlice(achievements []models.Achievement) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(achievements))
	for _, achievement := range achievements {
		out = append(out, NewAchievementResponse(achievement))
	}
	return out
}

// NewEarnedAchievementResponseSlice maps a student's earned badges.
func NewEarnedAchievementResponseSlice(earned []models.StudentAchievement) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(earned))
	for _, award := range earned {
		out = append(out, NewEarnedAchievementResponse(award))
	}
	return out
}
