package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// CurriculumRepository defines persistence operations for the curriculum
// reference hierarchy: grades, subjects, courses and units.
type CurriculumRepository interface {
	ListGrades(ctx context.Context, activeOnly bool) ([]models.Grade, error)
	GetGrade(ctx context.Context, id uint) (models.Grade, error)
	ListSubjects(ctx context.Context, activeOnly bool) ([]models.Subject, error)
	ListCoursesByGrade(ctx context.Context, gradeID uint, activeOnly bool) ([]models.Course, error)
	GetCourse(ctx context.Context, id uint) (models.Course, error)
	ListUnitsByCourse(ctx context.Context, courseID uint) ([]models.Unit, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	CreateUnit(ctx context.Context, unit *models.Unit) error
	UpsertGrades(ctx context.Context, grades []models.Grade) (int64, error)
	UpsertSubjects(ctx context.Context, subjects []models.Subject) (int64, error)
}

type curriculumRepository struct {
	db *gorm.DB
}

// NewCurriculumRepository instantiates a GORM-backed repository.
func NewCurriculumRepository(db *gorm.DB) CurriculumRepository {
	return &curriculumRepository{db: db}
}

func (r *curriculumRepository) ListGrades(ctx context.Context, activeOnly bool) ([]models.Grade, error) {
	query := r.db.WithContext(ctx).Model(&models.Grade{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var grades []models.Grade
	if err := query.Order("order_index ASC").Find(&grades).Error; err != nil {
		return nil, err
	}

	return grades, nil
}

func (r *curriculumRepository) GetGrade(ctx context.Context, id uint) (models.Grade, error) {
	var grade models.Grade
	if err := r.db.WithContext(ctx).First(&grade, id).Error; err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *curriculumRepository) ListSubjects(ctx context.Context, activeOnly bool) ([]models.Subject, error) {
	query := r.db.WithContext(ctx).Model(&models.Subject{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var subjects []models.Subject
	if err := query.Order("order_index ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}

	return subjects, nil
}

func (r *curriculumRepository) ListCoursesByGrade(ctx context.Context, gradeID uint, activeOnly bool) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{}).
		Preload("Subject").
		Where("grade_id = ?", gradeID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *curriculumRepository) GetCourse(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Grade").
		First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *curriculumRepository) ListUnitsByCourse(ctx context.Context, courseID uint) ([]models.Unit, error) {
	var units []models.Unit
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("week_number ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}

	return units, nil
}

func (r *curriculumRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *curriculumRepository) CreateUnit(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *curriculumRepository) UpsertGrades(ctx context.Context, grades []models.Grade) (int64, error) {
	if len(grades) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"order_index", "is_active", "updated_at"}),
	}).Create(&grades)

	return result.RowsAffected, result.Error
}

func (r *curriculumRepository) UpsertSubjects(ctx context.Context, subjects []models.Subject) (int64, error) {
	if len(subjects) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"color", "order_index", "is_active", "updated_at"}),
	}).Create(&subjects)

	return result.RowsAffected, result.Error
}
