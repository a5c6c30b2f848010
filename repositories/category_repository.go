package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tierlist-restful/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByTierlists(ctx context.Context, tierlistIDs []uint) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, category *models.Category) error
	DeleteByTierlist(ctx context.Context, tierlistID uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// "order" is a reserved word; clause.Column lets each dialect quote it.
func byDisplayOrder(db *gorm.DB) *gorm.DB {
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByTierlists returns the categories of the given tierlists in display order.
func (r *categoryRepository) FindByTierlists(ctx context.Context, tierlistIDs []uint) ([]models.Category, error) {
	var categories []models.Category
	if len(tierlistIDs) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(byDisplayOrder).
		Where("tierlist_id IN ?", tierlistIDs).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Delete(category).Error
}

func (r *categoryRepository) DeleteByTierlist(ctx context.Context, tierlistID uint) error {
	return r.db.WithContext(ctx).Where("tierlist_id = ?", tierlistID).Delete(&models.Category{}).Error
}
