// Package storage keeps uploaded images in a flat local directory. Rows
// reference images by bare filename only.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tierlist-restful/apperrors"
)

const (
	sniffLen        = 3072
	maxNameAttempts = 5
)

var allowedMIME = []string{"image/png", "image/jpeg", "image/gif"}

type ImageStore struct {
	dir    string
	sniff  bool
	logger *zap.Logger
}

// NewImageStore creates dir when missing.
func NewImageStore(dir string, sniffContent bool, logger *zap.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", dir, err)
	}
	return &ImageStore{dir: dir, sniff: sniffContent, logger: logger.Named("images")}, nil
}

func (s *ImageStore) Dir() string { return s.dir }

// Save validates and writes the image read from r under a sanitized form of
// originalName and returns the stored filename. A name already taken on disk
// gets a random suffix instead of being overwritten. The content becomes
// visible under its final name only once fully written.
func (s *ImageStore) Save(originalName string, r io.Reader) (string, error) {
	name, err := s.save(originalName, r)
	switch {
	case err == nil:
		uploadsTotal.WithLabelValues(resultStored).Inc()
	case apperrors.KindOf(err) == apperrors.KindInternal:
		uploadsTotal.WithLabelValues(resultFailed).Inc()
		s.logger.Error("Failed to store image", zap.String("filename", originalName), zap.Error(err))
	default:
		uploadsTotal.WithLabelValues(resultRejected).Inc()
		s.logger.Info("Rejected image upload", zap.String("filename", originalName), zap.Error(err))
	}
	return name, err
}

func (s *ImageStore) save(originalName string, r io.Reader) (string, error) {
	if originalName == "" {
		return "", apperrors.FileRejected("No selected file")
	}
	safe := SanitizeFilename(originalName)
	if safe == "" {
		return "", apperrors.FileRejected("Invalid filename %q", originalName)
	}
	if !AllowedFile(safe) {
		return "", apperrors.FileRejected("File not allowed: %q (allowed: png, jpg, jpeg, gif)", originalName)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	switch {
	case errors.Is(err, io.EOF):
		return "", apperrors.FileRejected("File %q is empty", originalName)
	case err != nil && !errors.Is(err, io.ErrUnexpectedEOF):
		return "", readError(err)
	}
	head = head[:n]

	if s.sniff {
		mt := mimetype.Detect(head)
		if !mimetype.EqualsAny(mt.String(), allowedMIME...) {
			return "", apperrors.FileRejected("File content is %s, not an allowed image", mt.String())
		}
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", apperrors.Internal("Failed to store image", err)
	}
	tmpPath := tmp.Name()
	written, err := io.Copy(tmp, io.MultiReader(bytes.NewReader(head), r))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", readError(err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", apperrors.Internal("Failed to store image", err)
	}

	final, err := s.reserve(safe)
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", apperrors.Internal("Failed to store image", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, final)); err != nil {
		_ = os.Remove(tmpPath)
		_ = os.Remove(filepath.Join(s.dir, final))
		return "", apperrors.Internal("Failed to store image", err)
	}

	uploadBytes.Add(float64(written))
	s.logger.Debug("Stored image", zap.String("filename", final), zap.Int64("bytes", written))
	return final, nil
}

// reserve claims a free name by creating an empty placeholder exclusively.
func (s *ImageStore) reserve(name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 0; i < maxNameAttempts; i++ {
		f, err := os.OpenFile(filepath.Join(s.dir, candidate), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return candidate, f.Close()
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		candidate = base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ext
	}
	return "", fmt.Errorf("no free filename for %q after %d attempts", name, maxNameAttempts)
}

// CheckName validates a filename supplied by a client as a reference to an
// already stored image.
func (s *ImageStore) CheckName(name string) error {
	if name == "" || SanitizeFilename(name) != name || !AllowedFile(name) {
		return apperrors.FileRejected("Invalid image reference %q", name)
	}
	if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.FileRejected("Image %q has not been uploaded", name)
		}
		return apperrors.Internal("Failed to check image", err)
	}
	return nil
}

// Path returns the on-disk path of a stored image, or NotFound.
func (s *ImageStore) Path(name string) (string, error) {
	if name == "" || SanitizeFilename(name) != name {
		return "", apperrors.NotFound("Image %q not found", name)
	}
	p := filepath.Join(s.dir, name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", apperrors.NotFound("Image %q not found", name)
	}
	return p, nil
}

// Remove deletes a stored image; a missing file is not an error.
func (s *ImageStore) Remove(name string) error {
	if name == "" || SanitizeFilename(name) != name {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func readError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.TooLarge("Request body exceeds %d bytes", maxErr.Limit)
	}
	return apperrors.Internal("Failed to read upload", err)
}
