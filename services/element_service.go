package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tierlist-restful/apperrors"
	"tierlist-restful/models"
	"tierlist-restful/repositories"
)

type ElementService interface {
	ListElements(ctx context.Context) ([]models.ElementView, error)
	GetElement(ctx context.Context, id uint) (models.ElementView, error)
	// CreateElement stores upload, when given, and references it from the
	// new element. Otherwise input.Img must name an already stored image.
	CreateElement(ctx context.Context, input *CreateElementInput, upload *ImageUpload) (models.ElementView, error)
	UpdateElement(ctx context.Context, id uint, input *UpdateElementInput, upload *ImageUpload) (models.ElementView, error)
	DeleteElement(ctx context.Context, id uint) error
}

type elementService struct {
	store  *repositories.Store
	images ImageStorage
	logger *zap.Logger
}

var _ ElementService = (*elementService)(nil)

func NewElementService(store *repositories.Store, images ImageStorage, logger *zap.Logger) ElementService {
	return &elementService{store: store, images: images, logger: logger.Named("elements")}
}

func elementNotFound(id uint) *apperrors.Error {
	return apperrors.NotFound("Element %d not found", id)
}

func (s *elementService) ListElements(ctx context.Context) ([]models.ElementView, error) {
	elements, err := s.store.Elements.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Database error retrieving elements", err)
	}
	return s.store.Trees().Elements(elements), nil
}

func (s *elementService) GetElement(ctx context.Context, id uint) (models.ElementView, error) {
	element, err := s.store.Elements.FindByID(ctx, id)
	if err != nil {
		return models.ElementView{}, translate(err, elementNotFound(id), "Database error retrieving element")
	}
	return element.Serialize(), nil
}

func (s *elementService) CreateElement(ctx context.Context, input *CreateElementInput, upload *ImageUpload) (models.ElementView, error) {
	// The parent is checked before anything is written to disk.
	if _, err := s.store.Categories.FindByID(ctx, input.CategoryID); err != nil {
		return models.ElementView{}, translate(err, categoryNotFound(input.CategoryID), "Database error checking category")
	}

	img, stored, err := s.resolveImage(input.Img, upload)
	if err != nil {
		return models.ElementView{}, err
	}

	element := models.Element{
		CategoryID: input.CategoryID,
		Name:       strings.TrimSpace(input.Name),
		Img:        img,
	}
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Categories.FindByID(ctx, input.CategoryID); err != nil {
			return translate(err, categoryNotFound(input.CategoryID), "Database error checking category")
		}
		return tx.Elements.Create(ctx, &element)
	})
	if err != nil {
		s.discard(stored)
		return models.ElementView{}, translate(err, nil, "Failed to create element")
	}

	s.logger.Info("Element created", zap.Uint("element_id", element.ID), zap.Uint("category_id", element.CategoryID))
	return element.Serialize(), nil
}

func (s *elementService) UpdateElement(ctx context.Context, id uint, input *UpdateElementInput, upload *ImageUpload) (models.ElementView, error) {
	if _, err := s.store.Elements.FindByID(ctx, id); err != nil {
		return models.ElementView{}, translate(err, elementNotFound(id), "Database error retrieving element")
	}

	var (
		img    *string
		stored string
		err    error
	)
	if upload != nil || !input.KeepImage {
		img, stored, err = s.resolveImage(input.Img, upload)
		if err != nil {
			return models.ElementView{}, err
		}
	}

	var element *models.Element
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		element, err = tx.Elements.FindByID(ctx, id)
		if err != nil {
			return err
		}
		element.Name = strings.TrimSpace(input.Name)
		if upload != nil || !input.KeepImage {
			element.Img = img
		}
		return tx.Elements.Update(ctx, element)
	})
	if err != nil {
		s.discard(stored)
		return models.ElementView{}, translate(err, elementNotFound(id), "Failed to save element updates")
	}
	return element.Serialize(), nil
}

// DeleteElement removes the row only. The image file stays on disk since
// other elements may reference the same filename.
func (s *elementService) DeleteElement(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		element, err := tx.Elements.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return tx.Elements.Delete(ctx, element)
	})
	if err != nil {
		return translate(err, elementNotFound(id), "Failed to delete element")
	}
	s.logger.Info("Element deleted", zap.Uint("element_id", id))
	return nil
}

// resolveImage returns the filename an element should reference. When upload
// is given the file is stored and its name is also returned as stored, so the
// caller can remove it if the row is never written.
func (s *elementService) resolveImage(ref *string, upload *ImageUpload) (img *string, stored string, err error) {
	if upload != nil {
		name, err := s.images.Save(upload.Filename, upload.Content)
		if err != nil {
			return nil, "", err
		}
		return &name, name, nil
	}
	if ref == nil || *ref == "" {
		return nil, "", nil
	}
	if err := s.images.CheckName(*ref); err != nil {
		return nil, "", err
	}
	name := *ref
	return &name, "", nil
}

func (s *elementService) discard(stored string) {
	if stored == "" {
		return
	}
	if err := s.images.Remove(stored); err != nil {
		s.logger.Warn("Failed to remove image of unsaved element", zap.String("filename", stored), zap.Error(err))
	}
}
