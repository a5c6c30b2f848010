package services

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// ImageStorage is the part of storage.ImageStore the services depend on.
type ImageStorage interface {
	Save(originalName string, r io.Reader) (string, error)
	CheckName(name string) error
	Path(name string) (string, error)
	Remove(name string) error
}

type ImageService interface {
	// UploadImage stores an image on its own and returns the stored filename,
	// which elements can later reference.
	UploadImage(ctx context.Context, upload ImageUpload) (string, error)
	// ImagePath resolves a stored filename to its path on disk.
	ImagePath(ctx context.Context, name string) (string, error)
}

type imageService struct {
	images ImageStorage
	logger *zap.Logger
}

func NewImageService(images ImageStorage, logger *zap.Logger) ImageService {
	return &imageService{images: images, logger: logger.Named("uploads")}
}

func (s *imageService) UploadImage(ctx context.Context, upload ImageUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := s.images.Save(upload.Filename, upload.Content)
	if err != nil {
		return "", err
	}
	s.logger.Info("Image uploaded", zap.String("filename", name))
	return name, nil
}

func (s *imageService) ImagePath(_ context.Context, name string) (string, error) {
	return s.images.Path(name)
}
