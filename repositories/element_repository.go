package repositories

import (
	"context"

	"gorm.io/gorm"

	"tierlist-restful/models"
)

type ElementRepository interface {
	Create(ctx context.Context, element *models.Element) error
	FindByID(ctx context.Context, id uint) (*models.Element, error)
	FindAll(ctx context.Context) ([]models.Element, error)
	FindByCategories(ctx context.Context, categoryIDs []uint) ([]models.Element, error)
	Update(ctx context.Context, element *models.Element) error
	Delete(ctx context.Context, element *models.Element) error
	DeleteByCategories(ctx context.Context, categoryIDs []uint) error
}

type elementRepository struct {
	db *gorm.DB
}

func NewElementRepository(db *gorm.DB) ElementRepository {
	return &elementRepository{db: db}
}

func (r *elementRepository) Create(ctx context.Context, element *models.Element) error {
	return r.db.WithContext(ctx).Create(element).Error
}

func (r *elementRepository) FindByID(ctx context.Context, id uint) (*models.Element, error) {
	var element models.Element
	if err := r.db.WithContext(ctx).First(&element, id).Error; err != nil {
		return nil, err
	}
	return &element, nil
}

func (r *elementRepository) FindAll(ctx context.Context) ([]models.Element, error) {
	var elements []models.Element
	if err := r.db.WithContext(ctx).Order("id").Find(&elements).Error; err != nil {
		return nil, err
	}
	return elements, nil
}

func (r *elementRepository) FindByCategories(ctx context.Context, categoryIDs []uint) ([]models.Element, error) {
	var elements []models.Element
	if len(categoryIDs) == 0 {
		return elements, nil
	}
	err := r.db.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("id").
		Find(&elements).Error
	if err != nil {
		return nil, err
	}
	return elements, nil
}

func (r *elementRepository) Update(ctx context.Context, element *models.Element) error {
	return r.db.WithContext(ctx).Save(element).Error
}

func (r *elementRepository) Delete(ctx context.Context, element *models.Element) error {
	return r.db.WithContext(ctx).Delete(element).Error
}

func (r *elementRepository) DeleteByCategories(ctx context.Context, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("category_id IN ?", categoryIDs).Delete(&models.Element{}).Error
}
