package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/observability"
	"github.com/hearthschool/hearth-go-api/internal/repository"
)

// ErrLessonNotFound indicates the lesson was not located.
var ErrLessonNotFound = errors.New("lesson not found")

// LessonProgressService tracks lesson starts and completions, maintaining the
// student's points cache, streak and badges as side effects.
type LessonProgressService interface {
	Start(ctx context.Context, studentID, lessonID uint) (dto.LessonProgressResponse, error)
	Complete(ctx context.Context, studentID, lessonID uint) (dto.CompleteLessonResponse, error)
}

type lessonProgressService struct {
	lessons      repository.LessonRepository
	progress     repository.ProgressRepository
	profiles     repository.StudentProfileRepository
	achievements AchievementEvaluator
	cache        *redis.Client
	events       EventPublisher
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewLessonProgressService constructs the lesson progress service.
func NewLessonProgressService(lessons repository.LessonRepository, progress repository.ProgressRepository, profiles repository.StudentProfileRepository, achievements AchievementEvaluator, cache *redis.Client, events EventPublisher, logger zerolog.Logger) LessonProgressService {
	return &lessonProgressService{
		lessons:      lessons,
		progress:     progress,
		profiles:     profiles,
		achievements: achievements,
		cache:        cache,
		events:       events,
		logger:       logger.With().Str("component", "lesson_progress_service").Logger(),
		tracer:       otel.Tracer("github.com/hearthschool/hearth-go-api/internal/service/lesson_progress"),
		now:          time.Now,
	}
}

// Start marks a lesson as opened. Starting an already completed lesson is a
// no-op so revisiting finished material never regresses the record.
func (s *lessonProgressService) Start(ctx context.Context, studentID, lessonID uint) (dto.LessonProgressResponse, error) {
	if _, err := s.lessons.GetByID(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonProgressResponse{}, ErrLessonNotFound
		}
		return dto.LessonProgressResponse{}, err
	}

	existing, err := s.progress.GetLessonProgress(ctx, studentID, lessonID)
	if err == nil && existing.IsCompleted() {
		return newLessonProgressResponse(existing), nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.LessonProgressResponse{}, err
	}

	startedAt := existing.StartedAt
	if startedAt == nil {
		now := s.now().UTC()
		startedAt = &now
	}

	row := models.LessonProgress{
		StudentID: studentID,
		LessonID:  lessonID,
		Status:    models.ProgressStatusInProgress,
		StartedAt: startedAt,
	}
	if err := s.progress.UpsertLessonProgress(ctx, &row); err != nil {
		return dto.LessonProgressResponse{}, err
	}

	return newLessonProgressResponse(row), nil
}

// Complete finishes a lesson: the lesson's points become the sum of the
// student's graded responses for it, the profile points cache is rebuilt from
// the ledger, and the streak and badge rules run. Completing the same lesson
// again refreshes points but leaves streak and badges alone.
func (s *lessonProgressService) Complete(ctx context.Context, studentID, lessonID uint) (dto.CompleteLessonResponse, error) {
	ctx, span := s.tracer.Start(ctx, "progress.complete_lesson", trace.WithAttributes(
		attribute.Int64("progress.student_id", int64(studentID)),
		attribute.Int64("progress.lesson_id", int64(lessonID)),
	))
	defer span.End()

	if _, err := s.lessons.GetByID(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CompleteLessonResponse{}, ErrLessonNotFound
		}
		span.RecordError(err)
		return dto.CompleteLessonResponse{}, err
	}

	alreadyCompleted := false
	existing, err := s.progress.GetLessonProgress(ctx, studentID, lessonID)
	if err == nil {
		alreadyCompleted = existing.IsCompleted()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		return dto.CompleteLessonResponse{}, err
	}

	responses, err := s.progress.ListResponsesForLesson(ctx, studentID, lessonID)
	if err != nil {
		span.RecordError(err)
		return dto.CompleteLessonResponse{}, err
	}
	lessonPoints := 0
	for _, response := range responses {
		lessonPoints += response.PointsEarned
	}

	now := s.now().UTC()
	startedAt := existing.StartedAt
	if startedAt == nil {
		startedAt = &now
	}
	completedAt := existing.CompletedAt
	if completedAt == nil {
		completedAt = &now
	}

	row := models.LessonProgress{
		StudentID:    studentID,
		LessonID:     lessonID,
		Status:       models.ProgressStatusCompleted,
		PointsEarned: lessonPoints,
		StartedAt:    startedAt,
		CompletedAt:  completedAt,
	}
	if err := s.progress.UpsertLessonProgress(ctx, &row); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "progress_upsert_failed")
		return dto.CompleteLessonResponse{}, err
	}

	profile, err := s.profiles.GetByUserID(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return dto.CompleteLessonResponse{}, err
	}

	ledger, err := s.progress.ListLessonProgressByStudent(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return dto.CompleteLessonResponse{}, err
	}
	pointsTotal := 0
	lessonsCompleted := 0
	for _, entry := range ledger {
		if entry.IsCompleted() {
			pointsTotal += entry.PointsEarned
			lessonsCompleted++
		}
	}

	if !alreadyCompleted {
		profile.CurrentStreak = nextStreak(profile.LastLessonDate, now, profile.CurrentStreak)
		if profile.CurrentStreak > profile.LongestStreak {
			profile.LongestStreak = profile.CurrentStreak
		}
		profile.LastLessonDate = &now
	}
	profile.PointsTotal = pointsTotal
	if err := s.profiles.Update(ctx, &profile); err != nil {
		span.RecordError(err)
		return dto.CompleteLessonResponse{}, err
	}

	var newAwards []models.StudentAchievement
	if s.achievements != nil && !alreadyCompleted {
		allResponses, err := s.progress.ListResponsesByStudent(ctx, studentID)
		if err != nil {
			span.RecordError(err)
			return dto.CompleteLessonResponse{}, err
		}
		correct := 0
		for _, response := range allResponses {
			if response.IsCorrect {
				correct++
			}
		}

		newAwards, err = s.achievements.EvaluateCompletion(ctx, studentID, ProgressSnapshot{
			LessonsCompleted: lessonsCompleted,
			PointsTotal:      pointsTotal,
			CurrentStreak:    profile.CurrentStreak,
			GradedResponses:  len(allResponses),
			CorrectResponses: correct,
		})
		if err != nil {
			s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("achievement evaluation failed")
		}
	}

	invalidateProgressCaches(ctx, s.cache, s.logger, studentID, profile.FamilyID)

	if !alreadyCompleted {
		observability.LessonsCompleted().Inc()
	}

	if s.events != nil && !alreadyCompleted {
		s.events.Publish(SubjectLessonCompleted, LessonCompletedEvent{
			StudentID:    studentID,
			LessonID:     lessonID,
			PointsEarned: lessonPoints,
			Streak:       profile.CurrentStreak,
			CompletedAt:  now,
		})
	}

	span.SetAttributes(
		attribute.Int("progress.lesson_points", lessonPoints),
		attribute.Int("progress.streak", profile.CurrentStreak),
	)

	achievements := make([]dto.AchievementResponse, 0, len(newAwards))
	for _, award := range newAwards {
		achievements = append(achievements, dto.NewEarnedAchievementResponse(award))
	}

	return dto.CompleteLessonResponse{
		Progress:        newLessonProgressResponse(row),
		CurrentStreak:   profile.CurrentStreak,
		LongestStreak:   profile.LongestStreak,
		PointsTotal:     profile.PointsTotal,
		NewAchievements: achievements,
	}, nil
}

func newLessonProgressResponse(row models.LessonProgress) dto.LessonProgressResponse {
	return dto.LessonProgressResponse{
		LessonID:     row.LessonID,
		StudentID:    row.StudentID,
		Status:       row.Status,
		PointsEarned: row.PointsEarned,
		StartedAt:    row.StartedAt,
		CompletedAt:  row.CompletedAt,
	}
}

// nextStreak applies the daily streak rule: a completion the day after the
// last one extends the run, a longer gap restarts it, and repeats within the
// same day leave it untouched.
func nextStreak(last *time.Time, today time.Time, current int) int {
	if last != nil {
		lastDay := dateOf(*last)
		todayDay := dateOf(today)
		if lastDay.Equal(todayDay) {
			if current < 1 {
				return 1
			}
			return current
		}
		if lastDay.AddDate(0, 0, 1).Equal(todayDay) {
			return current + 1
		}
	}
	return 1
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
