package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tierlist-restful/apperrors"
	"tierlist-restful/models"
	"tierlist-restful/repositories"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.CategoryView, error)
	GetCategory(ctx context.Context, id uint) (models.CategoryView, error)
	CreateCategory(ctx context.Context, input *CreateCategoryInput) (models.CategoryView, error)
	UpdateCategory(ctx context.Context, id uint, input *UpdateCategoryInput) (models.CategoryView, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	store  *repositories.Store
	logger *zap.Logger
}

var _ CategoryService = (*categoryService)(nil)

func NewCategoryService(store *repositories.Store, logger *zap.Logger) CategoryService {
	return &categoryService{store: store, logger: logger.Named("categories")}
}

func categoryNotFound(id uint) *apperrors.Error {
	return apperrors.NotFound("Category %d not found", id)
}

func (s *categoryService) ListCategories(ctx context.Context) ([]models.CategoryView, error) {
	categories, err := s.store.Categories.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Database error retrieving categories", err)
	}
	views, err := s.store.Trees().Categories(ctx, categories)
	if err != nil {
		return nil, apperrors.Internal("Database error retrieving categories", err)
	}
	return views, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (models.CategoryView, error) {
	category, err := s.store.Categories.FindByID(ctx, id)
	if err != nil {
		return models.CategoryView{}, translate(err, categoryNotFound(id), "Database error retrieving category")
	}
	views, err := s.store.Trees().Categories(ctx, []models.Category{*category})
	if err != nil {
		return models.CategoryView{}, apperrors.Internal("Database error retrieving category", err)
	}
	return views[0], nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (models.CategoryView, error) {
	category := models.Category{
		TierlistID: input.TierlistID,
		Name:       strings.TrimSpace(input.Name),
		Order:      *input.Order,
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Tierlists.FindByID(ctx, input.TierlistID); err != nil {
			return translate(err, tierlistNotFound(input.TierlistID), "Database error checking tierlist")
		}
		return tx.Categories.Create(ctx, &category)
	})
	if err != nil {
		return models.CategoryView{}, translate(err, nil, "Failed to create category")
	}

	s.logger.Info("Category created", zap.Uint("category_id", category.ID), zap.Uint("tierlist_id", category.TierlistID))
	return category.Serialize(nil), nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, input *UpdateCategoryInput) (models.CategoryView, error) {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		category, err := tx.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		category.Name = strings.TrimSpace(input.Name)
		category.Order = *input.Order
		return tx.Categories.Update(ctx, category)
	})
	if err != nil {
		return models.CategoryView{}, translate(err, categoryNotFound(id), "Failed to save category updates")
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes the category and its elements. The parent tierlist
// stays, even when this was its last category.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		category, err := tx.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Elements.DeleteByCategories(ctx, []uint{id}); err != nil {
			return err
		}
		return tx.Categories.Delete(ctx, category)
	})
	if err != nil {
		return translate(err, categoryNotFound(id), "Failed to delete category")
	}
	s.logger.Info("Category deleted", zap.Uint("category_id", id))
	return nil
}
