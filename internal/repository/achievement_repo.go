package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// AchievementRepository defines persistence operations for the badge catalog
// and per-student awards.
type AchievementRepository interface {
	List(ctx context.Context) ([]models.Achievement, error)
	GetByCode(ctx context.Context, code string) (models.Achievement, error)
	ListEarnedByStudent(ctx context.Context, studentID uint) ([]models.StudentAchievement, error)
	Award(ctx context.Context, award *models.StudentAchievement) (bool, error)
	UpsertCatalog(ctx context.Context, achievements []models.Achievement) (int64, error)
}

type achievementRepository struct {
	db *gorm.DB
}

// NewAchievementRepository instantiates the repository.
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) List(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}

	return achievements, nil
}

func (r *achievementRepository) GetByCode(ctx context.Context, code string) (models.Achievement, error) {
	var achievement models.Achievement
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&achievement).Error; err != nil {
		return models.Achievement{}, err
	}

	return achievement, nil
}

func (r *achievementRepository) ListEarnedByStudent(ctx context.Context, studentID uint) ([]models.StudentAchievement, error) {
	var earned []models.StudentAchievement
	if err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("student_id = ?", studentID).
		Order("earned_at DESC").
		Find(&earned).Error; err != nil {
		return nil, err
	}

	return earned, nil
}

// Award records a badge for a student. Repeat awards are no-ops; the boolean
// reports whether a new row was written.
func (r *achievementRepository) Award(ctx context.Context, award *models.StudentAchievement) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(award)

	return result.RowsAffected > 0, result.Error
}

func (r *achievementRepository) UpsertCatalog(ctx context.Context, achievements []models.Achievement) (int64, error) {
	if len(achievements) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "updated_at"}),
	}).Create(&achievements)

	return result.RowsAffected, result.Error
}
