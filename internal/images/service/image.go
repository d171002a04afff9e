package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	imageserrors "roombook/internal/images/errors"
	"roombook/internal/images/repository"
	"roombook/internal/images/storage"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

type ImageService interface {
	Upload(ctx context.Context, originalFilename, caption string, r io.Reader) (*model.DisplayImage, error)
	Replace(ctx context.Context, id, originalFilename, caption string, r io.Reader) (*model.DisplayImage, error)
	GetAll(ctx context.Context) ([]*model.DisplayImage, error)
	GetActive(ctx context.Context) ([]*model.DisplayImage, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type imageService struct {
	repo  repository.ImageRepository
	store *storage.DiskStore
	cfg   *config.Config
}

func NewImageService(repo repository.ImageRepository, store *storage.DiskStore, cfg *config.Config) ImageService {
	return &imageService{
		repo:  repo,
		store: store,
		cfg:   cfg,
	}
}

// Upload stores the image under a generated name; the original filename only
// contributes its extension. New images start active.
func (s *imageService) Upload(ctx context.Context, originalFilename, caption string, r io.Reader) (*model.DisplayImage, error) {
	storedName, written, err := s.storeFile(originalFilename, r)
	if err != nil {
		return nil, err
	}

	image := &model.DisplayImage{
		Filename: storedName,
		Caption:  sanitizer.TrimAndNormalize(caption),
		Active:   true,
	}

	if err := s.repo.Create(ctx, image); err != nil {
		if removeErr := s.store.Remove(storedName); removeErr != nil {
			s.cfg.Log.Warn("Failed to remove orphaned upload", "filename", storedName, "error", removeErr)
		}
		s.cfg.Log.Error("Failed to record uploaded image", "error", err)
		return nil, apperrors.Internal("Failed to record image", err)
	}

	s.cfg.Log.Info("Display image uploaded", "id", image.ID, "filename", storedName, "bytes", written)
	return image, nil
}

// Replace stores the new file first, then swaps the record and removes the
// file it previously pointed at.
func (s *imageService) Replace(ctx context.Context, id, originalFilename, caption string, r io.Reader) (*model.DisplayImage, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Image ID cannot be empty")
	}

	storedName, written, err := s.storeFile(originalFilename, r)
	if err != nil {
		return nil, err
	}

	normalized := sanitizer.TrimAndNormalize(caption)
	previous, err := s.repo.ReplaceFile(ctx, id, storedName, normalized)
	if err != nil {
		if removeErr := s.store.Remove(storedName); removeErr != nil {
			s.cfg.Log.Warn("Failed to remove orphaned upload", "filename", storedName, "error", removeErr)
		}
		if errors.Is(err, imageserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Image", id)
		}
		if errors.Is(err, imageserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid image ID format")
		}
		s.cfg.Log.Error("Failed to replace display image", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to replace image", err)
	}

	if removeErr := s.store.Remove(previous.Filename); removeErr != nil {
		s.cfg.Log.Warn("Failed to remove replaced image file", "filename", previous.Filename, "error", removeErr)
	}

	updated := *previous
	updated.Filename = storedName
	updated.Caption = normalized

	s.cfg.Log.Info("Display image replaced", "id", id, "filename", storedName, "bytes", written)
	return &updated, nil
}

func (s *imageService) storeFile(originalFilename string, r io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", 0, apperrors.InvalidInput(fmt.Sprintf(
			"Unsupported image type %q, allowed: png, jpg, jpeg, gif", ext,
		))
	}

	storedName := uuid.New().String() + ext
	written, err := s.store.Save(storedName, io.LimitReader(r, s.cfg.MaxUploadSize+1))
	if err != nil {
		s.cfg.Log.Error("Failed to store uploaded image", "error", err)
		return "", 0, apperrors.Internal("Failed to store image", err)
	}
	if written > s.cfg.MaxUploadSize {
		if removeErr := s.store.Remove(storedName); removeErr != nil {
			s.cfg.Log.Warn("Failed to remove oversized upload", "filename", storedName, "error", removeErr)
		}
		return "", 0, apperrors.InvalidInput(fmt.Sprintf(
			"Image exceeds the maximum upload size of %d bytes", s.cfg.MaxUploadSize,
		))
	}

	return storedName, written, nil
}

func (s *imageService) GetAll(ctx context.Context) ([]*model.DisplayImage, error) {
	images, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list display images", "error", err)
		return nil, apperrors.Internal("Failed to retrieve images", err)
	}
	return images, nil
}

func (s *imageService) GetActive(ctx context.Context) ([]*model.DisplayImage, error) {
	images, err := s.repo.FindActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list active display images", "error", err)
		return nil, apperrors.Internal("Failed to retrieve images", err)
	}
	return images, nil
}

func (s *imageService) SetActive(ctx context.Context, id string, active bool) error {
	if id == "" {
		return apperrors.InvalidInput("Image ID cannot be empty")
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, imageserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Image", id)
		}
		if errors.Is(err, imageserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid image ID format")
		}
		s.cfg.Log.Error("Failed to update display image", "id", id, "error", err)
		return apperrors.Internal("Failed to update image", err)
	}

	s.cfg.Log.Info("Display image visibility changed", "id", id, "active", active)
	return nil
}

func (s *imageService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Image ID cannot be empty")
	}

	image, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, imageserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Image", id)
		}
		if errors.Is(err, imageserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid image ID format")
		}
		s.cfg.Log.Error("Failed to delete display image", "id", id, "error", err)
		return apperrors.Internal("Failed to delete image", err)
	}

	if err := s.store.Remove(image.Filename); err != nil {
		// Record is gone; an orphaned file is only a cleanup concern.
		s.cfg.Log.Warn("Failed to remove image file", "filename", image.Filename, "error", err)
	}

	s.cfg.Log.Info("Display image deleted", "id", id, "filename", image.Filename)
	return nil
}
