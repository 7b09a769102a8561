package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// LessonFilter narrows lesson listings to a schedule slot.
type LessonFilter struct {
	WeekNumber *int
	DayNumber  *int
	ActiveOnly bool
}

// LessonRepository defines persistence operations for lessons and their
// content blocks.
type LessonRepository interface {
	ListByCourses(ctx context.Context, courseIDs []uint, filter LessonFilter) ([]models.Lesson, error)
	GetByID(ctx context.Context, id uint) (models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	CreateContentBlock(ctx context.Context, block *models.LessonContentBlock) error
	CountActiveByCourse(ctx context.Context, courseID uint) (int64, error)
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository instantiates the repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) ListByCourses(ctx context.Context, courseIDs []uint, filter LessonFilter) ([]models.Lesson, error) {
	if len(courseIDs) == 0 {
		return []models.Lesson{}, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Lesson{}).
		Preload("Course").
		Preload("Course.Subject").
		Where("course_id IN ?", courseIDs)

	if filter.WeekNumber != nil {
		query = query.Where("week_number = ?", *filter.WeekNumber)
	}
	if filter.DayNumber != nil {
		query = query.Where("day_number = ?", *filter.DayNumber)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	// Lesson ID breaks order_index ties so repeated renders stay stable.
	var lessons []models.Lesson
	if err := query.
		Order("day_number ASC").
		Order("order_index ASC").
		Order("id ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	return lessons, nil
}

func (r *lessonRepository) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Subject").
		Preload("Unit").
		Preload("ContentBlocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		First(&lesson, id).Error; err != nil {
		return models.Lesson{}, err
	}

	return lesson, nil
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepository) CreateContentBlock(ctx context.Context, block *models.LessonContentBlock) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *lessonRepository) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Where("is_active = ?", true).
		Count(&total).Error

	return total, err
}
