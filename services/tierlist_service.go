package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tierlist-restful/apperrors"
	"tierlist-restful/models"
	"tierlist-restful/repositories"
)

type TierlistService interface {
	ListTierlists(ctx context.Context) ([]models.TierlistView, error)
	GetTierlist(ctx context.Context, id uint) (models.TierlistView, error)
	CreateTierlist(ctx context.Context, input *CreateTierlistInput) (models.TierlistView, error)
	UpdateTierlist(ctx context.Context, id uint, input *UpdateTierlistInput) (models.TierlistView, error)
	DeleteTierlist(ctx context.Context, id uint) error
}

type tierlistService struct {
	store  *repositories.Store
	logger *zap.Logger
}

var _ TierlistService = (*tierlistService)(nil)

func NewTierlistService(store *repositories.Store, logger *zap.Logger) TierlistService {
	return &tierlistService{store: store, logger: logger.Named("tierlists")}
}

func tierlistNotFound(id uint) *apperrors.Error {
	return apperrors.NotFound("Tierlist %d not found", id)
}

func (s *tierlistService) ListTierlists(ctx context.Context) ([]models.TierlistView, error) {
	tierlists, err := s.store.Tierlists.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Database error retrieving tierlists", err)
	}
	views, err := s.store.Trees().Tierlists(ctx, tierlists)
	if err != nil {
		return nil, apperrors.Internal("Database error retrieving tierlists", err)
	}
	return views, nil
}

func (s *tierlistService) GetTierlist(ctx context.Context, id uint) (models.TierlistView, error) {
	tierlist, err := s.store.Tierlists.FindByID(ctx, id)
	if err != nil {
		return models.TierlistView{}, translate(err, tierlistNotFound(id), "Database error retrieving tierlist")
	}
	views, err := s.store.Trees().Tierlists(ctx, []models.Tierlist{*tierlist})
	if err != nil {
		return models.TierlistView{}, apperrors.Internal("Database error retrieving tierlist", err)
	}
	return views[0], nil
}

// CreateTierlist fails with NotFound when created_by names no user.
func (s *tierlistService) CreateTierlist(ctx context.Context, input *CreateTierlistInput) (models.TierlistView, error) {
	tierlist := models.Tierlist{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.FindByID(ctx, input.CreatedBy); err != nil {
			return translate(err, userNotFound(input.CreatedBy), "Database error checking tierlist owner")
		}
		return tx.Tierlists.Create(ctx, &tierlist)
	})
	if err != nil {
		return models.TierlistView{}, translate(err, nil, "Failed to create tierlist")
	}

	s.logger.Info("Tierlist created", zap.Uint("tierlist_id", tierlist.ID), zap.Uint("created_by", tierlist.CreatedBy))
	return tierlist.Serialize(nil), nil
}

func (s *tierlistService) UpdateTierlist(ctx context.Context, id uint, input *UpdateTierlistInput) (models.TierlistView, error) {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		tierlist, err := tx.Tierlists.FindByID(ctx, id)
		if err != nil {
			return err
		}
		tierlist.Title = strings.TrimSpace(input.Title)
		tierlist.Description = input.Description
		return tx.Tierlists.Update(ctx, tierlist)
	})
	if err != nil {
		return models.TierlistView{}, translate(err, tierlistNotFound(id), "Failed to save tierlist updates")
	}
	return s.GetTierlist(ctx, id)
}

// DeleteTierlist removes the tierlist together with its categories and
// their elements.
func (s *tierlistService) DeleteTierlist(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		tierlist, err := tx.Tierlists.FindByID(ctx, id)
		if err != nil {
			return err
		}
		categories, err := tx.Categories.FindByTierlists(ctx, []uint{id})
		if err != nil {
			return err
		}
		categoryIDs := make([]uint, len(categories))
		for i, c := range categories {
			categoryIDs[i] = c.ID
		}
		if err := tx.Elements.DeleteByCategories(ctx, categoryIDs); err != nil {
			return err
		}
		if err := tx.Categories.DeleteByTierlist(ctx, id); err != nil {
			return err
		}
		return tx.Tierlists.Delete(ctx, tierlist)
	})
	if err != nil {
		return translate(err, tierlistNotFound(id), "Failed to delete tierlist")
	}
	s.logger.Info("Tierlist deleted", zap.Uint("tierlist_id", id))
	return nil
}
