package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// FamilyRepository defines persistence operations for family accounts.
type FamilyRepository interface {
	Create(ctx context.Context, family *models.Family) error
	GetByID(ctx context.Context, id uint) (models.Family, error)
	Update(ctx context.Context, family *models.Family) error
}

type familyRepository struct {
	db *gorm.DB
}

// NewFamilyRepository instantiates a GORM-backed repository.
func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) Create(ctx context.Context, family *models.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *familyRepository) GetByID(ctx context.Context, id uint) (models.Family, error) {
	var family models.Family
	if err := r.db.WithContext(ctx).First(&family, id).Error; err != nil {
		return models.Family{}, err
	}

	return family, nil
}

func (r *familyRepository) Update(ctx context.Context, family *models.Family) error {
	return r.db.WithContext(ctx).Save(family).Error
}
