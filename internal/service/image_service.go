package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/repository"
)

// Storage is the remote asset store contract. Implementations report any
// failure as a plain error; the services translate it to
// ErrStorageUnavailable.
type Storage interface {
	Upload(ctx context.Context, data []byte, name string) (string, error)
	Delete(ctx context.Context, source string) error
}

// ImageService owns image rows and their assignment to ads. Assignment is
// validate-then-write: a batch never leaves partial rows behind on failure.
type ImageService struct {
	images  repository.ImageRepository
	storage Storage
	log     logger.Logger
}

func NewImageService(images repository.ImageRepository, storage Storage, log logger.Logger) *ImageService {
	return &ImageService{
		images:  images,
		storage: storage,
		log:     log,
	}
}

// Upload stores the raw image remotely and records an unassigned row for it.
func (s *ImageService) Upload(ctx context.Context, data []byte, name string) (*entity.AdImage, error) {
	source, err := s.storage.Upload(ctx, data, name)
	if err != nil {
		s.log.Errorf("ImageService.Upload: remote store upload failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	img := &entity.AdImage{Source: source}
	id, err := s.images.Create(ctx, img)
	if err != nil {
		s.log.Errorf("ImageService.Upload: failed to save image row: %v", err)
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	img.ID = id

	s.log.Infof("Uploaded image %s (%s)", id, source)
	return img, nil
}

// Remove deletes the image row and its stored object.
func (s *ImageService) Remove(ctx context.Context, imageID string) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to get image %s: %w", imageID, err)
	}

	if err := s.images.Delete(ctx, img.ID); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}

	if err := s.storage.Delete(ctx, img.Source); err != nil {
		s.log.Errorf("ImageService.Remove: remote store delete failed for %s: %v", img.Source, err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s.log.Infof("Removed image %s", imageID)
	return nil
}

// AssignPreview copies the image source onto the ad's preview field and
// deletes the promoted row; once the URI lives on the ad the row has no
// purpose of its own.
func (s *ImageService) AssignPreview(ctx context.Context, ad *entity.Ad, imageID string) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrImageNotFound, imageID)
		}
		return fmt.Errorf("failed to get image %s: %w", imageID, err)
	}

	ad.PreviewImageSource = img.Source
	if err := s.images.Delete(ctx, img.ID); err != nil {
		return fmt.Errorf("failed to delete promoted preview image %s: %w", imageID, err)
	}
	return nil
}

// AssignNonPreview attaches the images to the ad in input order, starting at
// order 2. The whole batch is validated before anything is written.
func (s *ImageService) AssignNonPreview(ctx context.Context, ad *entity.Ad, imageIDs []string) ([]entity.AdImage, error) {
	staged, err := s.stageNonPreview(ctx, imageIDs)
	if err != nil {
		return nil, err
	}
	if err := s.commitNonPreview(ctx, ad.ID, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

// stageNonPreview resolves and validates the batch without writing: every
// image must exist, be unassigned, and fit under the gallery cap.
func (s *ImageService) stageNonPreview(ctx context.Context, imageIDs []string) ([]entity.AdImage, error) {
	staged := make([]entity.AdImage, 0, len(imageIDs))
	order := entity.MinImageOrder
	for _, imageID := range imageIDs {
		img, err := s.images.GetByID(ctx, imageID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrImageNotFound, imageID)
			}
			return nil, fmt.Errorf("failed to get image %s: %w", imageID, err)
		}
		if img.Assigned() {
			return nil, fmt.Errorf("%w: %s", ErrImageInUse, imageID)
		}
		if order > entity.MaxImageOrder {
			return nil, ErrTooManyImages
		}
		img.Order = order
		staged = append(staged, *img)
		order++
	}
	return staged, nil
}

func (s *ImageService) commitNonPreview(ctx context.Context, adID string, staged []entity.AdImage) error {
	for i := range staged {
		staged[i].AdID = adID
		if err := s.images.Update(ctx, &staged[i]); err != nil {
			return fmt.Errorf("failed to assign image %s to ad %s: %w", staged[i].ID, adID, err)
		}
	}
	return nil
}

// ListForAd returns the ad's gallery rows in display order.
func (s *ImageService) ListForAd(ctx context.Context, adID string) ([]entity.AdImage, error) {
	images, err := s.images.ListByAd(ctx, adID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images of ad %s: %w", adID, err)
	}
	return images, nil
}

// DeleteFromStore removes a stored object by its source URI.
func (s *ImageService) DeleteFromStore(ctx context.Context, source string) error {
	if err := s.storage.Delete(ctx, source); err != nil {
		s.log.Errorf("ImageService.DeleteFromStore: remote store delete failed for %s: %v", source, err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Dissociate detaches the rows from their ad. The rows stay around as
// unassigned until the cleanup job collects them.
func (s *ImageService) Dissociate(ctx context.Context, images []entity.AdImage) error {
	for i := range images {
		images[i].AdID = ""
		if err := s.images.Update(ctx, &images[i]); err != nil {
			return fmt.Errorf("failed to dissociate image %s: %w", images[i].ID, err)
		}
	}
	return nil
}

// Reattach restores a previously dissociated gallery, used by the edit
// compensation path.
func (s *ImageService) Reattach(ctx context.Context, adID string, images []entity.AdImage) error {
	for i := range images {
		images[i].AdID = adID
		if err := s.images.Update(ctx, &images[i]); err != nil {
			return fmt.Errorf("failed to reattach image %s to ad %s: %w", images[i].ID, adID, err)
		}
	}
	return nil
}
