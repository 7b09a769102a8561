package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/repository"
)

// Badge codes awarded by the completion rules below.
const (
	AchievementFirstLesson   = "first_lesson"
	AchievementWeekStreak    = "week_streak"
	AchievementPointsHundred = "points_100"
	AchievementSharpshooter  = "sharpshooter"
)

// sharpshooterMinGraded is the minimum graded responses before accuracy
// badges are considered, so one lucky answer does not award them.
const sharpshooterMinGraded = 10

// ProgressSnapshot carries the student's standing at evaluation time.
type ProgressSnapshot struct {
	LessonsCompleted int
	PointsTotal      int
	CurrentStreak    int
	GradedResponses  int
	CorrectResponses int
}

// AchievementEvaluator awards badges after a lesson completion.
type AchievementEvaluator interface {
	EvaluateCompletion(ctx context.Context, studentID uint, snapshot ProgressSnapshot) ([]models.StudentAchievement, error)
}

// AchievementService exposes the badge catalog and per-student awards.
type AchievementService interface {
	AchievementEvaluator
	ListCatalog(ctx context.Context) ([]dto.AchievementResponse, error)
	ListEarned(ctx context.Context, studentID uint) ([]dto.AchievementResponse, error)
}

type achievementService struct {
	repo   repository.AchievementRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewAchievementService constructs the achievement service.
func NewAchievementService(repo repository.AchievementRepository, logger zerolog.Logger) AchievementService {
	return &achievementService{
		repo:   repo,
		logger: logger.With().Str("component", "achievement_service").Logger(),
		now:    time.Now,
	}
}

func (s *achievementService) ListCatalog(ctx context.Context) ([]dto.AchievementResponse, error) {
	achievements, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAchievementResponseSlice(achievements), nil
}

func (s *achievementService) ListEarned(ctx context.Context, studentID uint) ([]dto.AchievementResponse, error) {
	earned, err := s.repo.ListEarnedByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewEarnedAchievementResponseSlice(earned), nil
}

// EvaluateCompletion applies the award rules against the snapshot. Awards are
// idempotent: a badge already earned is skipped, so re-evaluating after every
// completion is safe.
func (s *achievementService) EvaluateCompletion(ctx context.Context, studentID uint, snapshot ProgressSnapshot) ([]models.StudentAchievement, error) {
	codes := make([]string, 0, 4)
	if snapshot.LessonsCompleted >= 1 {
		codes = append(codes, AchievementFirstLesson)
	}
	if snapshot.CurrentStreak >= 7 {
		codes = append(codes, AchievementWeekStreak)
	}
	if snapshot.PointsTotal >= 100 {
		codes = append(codes, AchievementPointsHundred)
	}
	if snapshot.GradedResponses >= sharpshooterMinGraded &&
		snapshot.CorrectResponses*100 >= snapshot.GradedResponses*90 {
		codes = append(codes, AchievementSharpshooter)
	}

	var awarded []models.StudentAchievement
	for _, code := range codes {
		achievement, err := s.repo.GetByCode(ctx, code)
		if err != nil {
			// A missing catalog entry means the seed has not run; skip quietly.
			continue
		}

		award := models.StudentAchievement{
			StudentID:     studentID,
			AchievementID: achievement.ID,
			EarnedAt:      s.now().UTC(),
		}
		created, err := s.repo.Award(ctx, &award)
		if err != nil {
			return awarded, err
		}
		if created {
			award.Achievement = achievement
			awarded = append(awarded, award)
			s.logger.Info().Uint("student_id", studentID).Str("code", code).Msg("achievement earned")
		}
	}

	return awarded, nil
}

// CatalogDefaults returns the built-in badge catalog used by seeding.
func CatalogDefaults() []models.Achievement {
	return []models.Achievement{
		{Code: AchievementFirstLesson, Name: "First Steps", Description: "Complete your first lesson.", Icon: "star"},
		{Code: AchievementWeekStreak, Name: "Faithful Week", Description: "Learn seven days in a row.", Icon: "flame"},
		{Code: AchievementPointsHundred, Name: "Century Scholar", Description: "Earn 100 points.", Icon: "trophy"},
		{Code: AchievementSharpshooter, Name: "Sharpshooter", Description: "Keep your accuracy at 90% or better.", Icon: "target"},
	}
}
