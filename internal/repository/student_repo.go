package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// StudentProfileRepository defines persistence operations for student profiles.
type StudentProfileRepository interface {
	Create(ctx context.Context, profile *models.StudentProfile) error
	GetByUserID(ctx context.Context, userID uint) (models.StudentProfile, error)
	Update(ctx context.Context, profile *models.StudentProfile) error
}

type studentProfileRepository struct {
	db *gorm.DB
}

// NewStudentProfileRepository instantiates the repository.
func NewStudentProfileRepository(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepository{db: db}
}

func (r *studentProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *studentProfileRepository) GetByUserID(ctx context.Context, userID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).
		Preload("CurrentGrade").
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *studentProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
