package repositories

import (
	"context"

	"gorm.io/gorm"

	"tierlist-restful/models"
)

type TierlistRepository interface {
	Create(ctx context.Context, tierlist *models.Tierlist) error
	FindByID(ctx context.Context, id uint) (*models.Tierlist, error)
	FindAll(ctx context.Context) ([]models.Tierlist, error)
	FindByCreators(ctx context.Context, userIDs []uint) ([]models.Tierlist, error)
	CountByCreator(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, tierlist *models.Tierlist) error
	Delete(ctx context.Context, tierlist *models.Tierlist) error
}

type tierlistRepository struct {
	db *gorm.DB
}

func NewTierlistRepository(db *gorm.DB) TierlistRepository {
	return &tierlistRepository{db: db}
}

func (r *tierlistRepository) Create(ctx context.Context, tierlist *models.Tierlist) error {
	return r.db.WithContext(ctx).Create(tierlist).Error
}

func (r *tierlistRepository) FindByID(ctx context.Context, id uint) (*models.Tierlist, error) {
	var tierlist models.Tierlist
	if err := r.db.WithContext(ctx).First(&tierlist, id).Error; err != nil {
		return nil, err
	}
	return &tierlist, nil
}

func (r *tierlistRepository) FindAll(ctx context.Context) ([]models.Tierlist, error) {
	var tierlists []models.Tierlist
	if err := r.db.WithContext(ctx).Order("id").Find(&tierlists).Error; err != nil {
		return nil, err
	}
	return tierlists, nil
}

func (r *tierlistRepository) FindByCreators(ctx context.Context, userIDs []uint) ([]models.Tierlist, error) {
	var tierlists []models.Tierlist
	if len(userIDs) == 0 {
		return tierlists, nil
	}
	err := r.db.WithContext(ctx).
		Where("created_by IN ?", userIDs).
		Order("id").
		Find(&tierlists).Error
	if err != nil {
		return nil, err
	}
	return tierlists, nil
}

func (r *tierlistRepository) CountByCreator(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tierlist{}).Where("created_by = ?", userID).Count(&count).Error
	return count, err
}

func (r *tierlistRepository) Update(ctx context.Context, tierlist *models.Tierlist) error {
	return r.db.WithContext(ctx).Save(tierlist).Error
}

func (r *tierlistRepository) Delete(ctx context.Context, tierlist *models.Tierlist) error {
	return r.db.WithContext(ctx).Delete(tierlist).Error
}
