package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/grading"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/observability"
	"github.com/hearthschool/hearth-go-api/internal/repository"
)

var (
	// ErrActivityNotFound indicates the activity was not located.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrInvalidAnswerKey indicates the stored answer key is unreadable. This
	// is a content defect, not a student error.
	ErrInvalidAnswerKey = errors.New("activity answer key is invalid")
	// ErrInvalidAnswer indicates the submitted answer does not match the shape
	// the activity expects.
	ErrInvalidAnswer = errors.New("submitted answer has the wrong shape")
)

// ActivityResponseService grades student submissions and records the latest
// attempt per activity.
type ActivityResponseService interface {
	Submit(ctx context.Context, studentID, activityID uint, payload dto.SubmitAnswerRequest) (dto.SubmitAnswerResponse, error)
}

type activityResponseService struct {
	activities repository.ActivityRepository
	progress   repository.ProgressRepository
	profiles   repository.StudentProfileRepository
	cache      *redis.Client
	events     EventPublisher
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewActivityResponseService constructs the grading write path.
func NewActivityResponseService(activities repository.ActivityRepository, progress repository.ProgressRepository, profiles repository.StudentProfileRepository, cache *redis.Client, events EventPublisher, logger zerolog.Logger) ActivityResponseService {
	return &activityResponseService{
		activities: activities,
		progress:   progress,
		profiles:   profiles,
		cache:      cache,
		events:     events,
		logger:     logger.With().Str("component", "activity_response_service").Logger(),
		tracer:     otel.Tracer("github.com/hearthschool/hearth-go-api/internal/service/activity_response"),
		now:        time.Now,
	}
}

// Submit decodes the activity's answer key, grades the answer and upserts the
// response row. Unsupported activity types are reported back but never
// persisted, so the ledgers only ever contain gradable attempts.
func (s *activityResponseService) Submit(ctx context.Context, studentID, activityID uint, payload dto.SubmitAnswerRequest) (dto.SubmitAnswerResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.submit", trace.WithAttributes(
		attribute.Int64("grading.student_id", int64(studentID)),
		attribute.Int64("grading.activity_id", int64(activityID)),
	))
	defer span.End()

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitAnswerResponse{}, ErrActivityNotFound
		}
		span.RecordError(err)
		return dto.SubmitAnswerResponse{}, err
	}
	span.SetAttributes(attribute.String("grading.activity_type", activity.ActivityType))

	key, err := grading.DecodeKey(activity.ActivityType, json.RawMessage(activity.Data))
	if err != nil {
		s.logger.Error().Err(err).Uint("activity_id", activityID).Msg("stored answer key failed to decode")
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_answer_key")
		return dto.SubmitAnswerResponse{}, ErrInvalidAnswerKey
	}

	if _, unsupported := key.(grading.UnsupportedKey); unsupported {
		observability.ActivitiesGraded().WithLabelValues(activity.ActivityType, "unsupported").Inc()
		return dto.SubmitAnswerResponse{
			ActivityID: activityID,
			Supported:  false,
		}, nil
	}

	answer, err := grading.DecodeAnswer(key, payload.Answer)
	if err != nil {
		if errors.Is(err, grading.ErrEmptyAnswer) {
			return dto.SubmitAnswerResponse{}, grading.ErrEmptyAnswer
		}
		return dto.SubmitAnswerResponse{}, ErrInvalidAnswer
	}

	result := grading.Grade(key, answer, activity.Points)

	response := models.ActivityResponse{
		StudentID:    studentID,
		ActivityID:   activityID,
		ResponseData: datatypes.JSON(payload.Answer),
		IsCorrect:    result.Correct,
		PointsEarned: result.PointsEarned,
	}
	if err := s.progress.UpsertResponse(ctx, &response); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "response_upsert_failed")
		return dto.SubmitAnswerResponse{}, err
	}

	outcome := "incorrect"
	if result.Correct {
		outcome = "correct"
	}
	observability.ActivitiesGraded().WithLabelValues(activity.ActivityType, outcome).Inc()
	span.SetAttributes(
		attribute.Bool("grading.correct", result.Correct),
		attribute.Int("grading.points_earned", result.PointsEarned),
	)

	var familyID uint
	if profile, err := s.profiles.GetByUserID(ctx, studentID); err == nil {
		familyID = profile.FamilyID
	}
	invalidateProgressCaches(ctx, s.cache, s.logger, studentID, familyID)

	if s.events != nil {
		s.events.Publish(SubjectActivityResponded, ActivityRespondedEvent{
			StudentID:    studentID,
			ActivityID:   activityID,
			ActivityType: activity.ActivityType,
			IsCorrect:    result.Correct,
			PointsEarned: result.PointsEarned,
			RespondedAt:  s.now().UTC(),
		})
	}

	return dto.SubmitAnswerResponse{
		ActivityID:   activityID,
		Supported:    true,
		IsCorrect:    result.Correct,
		PointsEarned: result.PointsEarned,
		Explanation:  activity.Explanation,
	}, nil
}
