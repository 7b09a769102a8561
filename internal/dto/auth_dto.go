package dto

import (
	"time"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// RegisterRequest creates a family account with its primary parent.
type RegisterRequest struct {
	FamilyName string `json:"family_name" validate:"required,min=2,max=255"`
	FirstName  string `json:"first_name" validate:"required,min=1,max=128"`
	LastName   string `json:"last_name" validate:"required,min=1,max=128"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest authenticates a parent.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AddChildRequest enrolls a student under the caller's family.
type AddChildRequest struct {
	FirstName string     `json:"first_name" validate:"required,min=1,max=128"`
	LastName  string     `json:"last_name" validate:"required,min=1,max=128"`
	BirthDate *time.Time `json:"birth_date"`
	GradeID   *uint      `json:"grade_id"`
}

// AuthResponse carries the signed token plus the authenticated parent.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse serializes a family member.
type UserResponse struct {
	ID              uint             `json:"id"`
	FamilyID        uint             `json:"family_id"`
	Role            string           `json:"role"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Email           *string          `json:"email,omitempty"`
	IsPrimaryParent bool             `json:"is_primary_parent"`
	Profile         *ProfileResponse `json:"profile,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ProfileResponse serializes the learning state attached to a student.
type ProfileResponse struct {
	BirthDate      *time.Time `json:"birth_date"`
	CurrentGradeID *uint      `json:"current_grade_id"`
	GradeName      string     `json:"grade_name,omitempty"`
	PointsTotal    int        `json:"points_total"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	Notes          string     `json:"notes,omitempty"`
}

// FamilyResponse serializes the family account.
type FamilyResponse struct {
	ID                  uint       `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	TrialEndsAt         time.Time  `json:"trial_ends_at"`
	SchoolDays          []int      `json:"school_days"`
	CurriculumStartDate *time.Time `json:"curriculum_start_date"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	response := UserResponse{
		ID:              model.ID,
		FamilyID:        model.FamilyID,
		Role:            model.Role,
		FirstName:       model.FirstName,
		LastName:        model.LastName,
		Email:           model.Email,
		IsPrimaryParent: model.IsPrimaryParent,
		CreatedAt:       model.CreatedAt,
	}

	if model.Profile != nil {
		profile := ProfileResponse{
			BirthDate:      model.Profile.BirthDate,
			CurrentGradeID: model.Profile.CurrentGradeID,
			PointsTotal:    model.Profile.PointsTotal,
			CurrentStreak:  model.Profile.CurrentStreak,
			LongestStreak:  model.Profile.LongestStreak,
			Notes:          model.Profile.Notes,
		}
		if model.Profile.CurrentGrade != nil {
			profile.GradeName = model.Profile.CurrentGrade.Name
		}
		response.Profile = &profile
	}

	return response
}

// NewFamilyResponse converts a Family model into a DTO.
func NewFamilyResponse(model models.Family) FamilyResponse {
	return FamilyResponse{
		ID:                  model.ID,
		Name:                model.Name,
		Email:               model.Email,
		TrialEndsAt:         model.TrialEndsAt,
		SchoolDays:          model.SchoolDays,
		CurriculumStartDate: model.CurriculumStartDate,
	}
}
