package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// UserRepository defines persistence operations for family members.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	ListStudentsByFamily(ctx context.Context, familyID uint) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates the repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.CurrentGrade").
		First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) ListStudentsByFamily(ctx context.Context, familyID uint) ([]models.User, error) {
	var students []models.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.CurrentGrade").
		Where("family_id = ?", familyID).
		Where("role = ?", models.RoleStudent).
		Order("created_at ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}
