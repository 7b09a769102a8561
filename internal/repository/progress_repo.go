package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// ProgressRepository defines persistence operations for the two per-student
// ledgers: lesson progress and activity responses. Both upsert by their
// natural key; rows are never deleted.
type ProgressRepository interface {
	GetLessonProgress(ctx context.Context, studentID, lessonID uint) (models.LessonProgress, error)
	UpsertLessonProgress(ctx context.Context, progress *models.LessonProgress) error
	ListLessonProgressByStudent(ctx context.Context, studentID uint) ([]models.LessonProgress, error)
	GetResponse(ctx context.Context, studentID, activityID uint) (models.ActivityResponse, error)
	UpsertResponse(ctx context.Context, response *models.ActivityResponse) error
	ListResponsesByStudent(ctx context.Context, studentID uint) ([]models.ActivityResponse, error)
	ListResponsesForLesson(ctx context.Context, studentID, lessonID uint) ([]models.ActivityResponse, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository instantiates the repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetLessonProgress(ctx context.Context, studentID, lessonID uint) (models.LessonProgress, error) {
	var progress models.LessonProgress
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("lesson_id = ?", lessonID).
		First(&progress).Error; err != nil {
		return models.LessonProgress{}, err
	}

	return progress, nil
}

func (r *progressRepository) UpsertLessonProgress(ctx context.Context, progress *models.LessonProgress) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "points_earned", "started_at", "completed_at", "updated_at"}),
	}).Create(progress).Error
}

func (r *progressRepository) ListLessonProgressByStudent(ctx context.Context, studentID uint) ([]models.LessonProgress, error) {
	var rows []models.LessonProgress
	if err := r.db.WithContext(ctx).
		Preload("Lesson").
		Where("student_id = ?", studentID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *progressRepository) GetResponse(ctx context.Context, studentID, activityID uint) (models.ActivityResponse, error) {
	var response models.ActivityResponse
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("activity_id = ?", activityID).
		First(&response).Error; err != nil {
		return models.ActivityResponse{}, err
	}

	return response, nil
}

// UpsertResponse keeps only the most recent attempt per (student, activity):
// last write wins.
func (r *progressRepository) UpsertResponse(ctx context.Context, response *models.ActivityResponse) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "activity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"response_data", "is_correct", "points_earned", "updated_at"}),
	}).Create(response).Error
}

func (r *progressRepository) ListResponsesByStudent(ctx context.Context, studentID uint) ([]models.ActivityResponse, error) {
	var rows []models.ActivityResponse
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *progressRepository) ListResponsesForLesson(ctx context.Context, studentID, lessonID uint) ([]models.ActivityResponse, error) {
	var rows []models.ActivityResponse
	if err := r.db.WithContext(ctx).
		Joins("JOIN activities ON activities.id = activity_responses.activity_id").
		Where("activity_responses.student_id = ?", studentID).
		Where("activities.lesson_id = ?", lessonID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
