package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/countryhouse/ads-service/internal/adapter/nats"
	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/repository"
)

const (
	natsSubjectAdCreated      = "ad.created"
	natsSubjectAdUpdated      = "ad.updated"
	natsSubjectAdCancelled    = "ad.cancelled"
	natsSubjectAdAccomplished = "ad.accomplished"
)

type AdService interface {
	Create(ctx context.Context, actor entity.Actor, fields entity.AdFields, imageIDs []string) (*entity.Ad, error)
	Edit(ctx context.Context, actor entity.Actor, adID string, fields entity.AdFields, imageIDs []string) (*entity.Ad, error)
	Cancel(ctx context.Context, actor entity.Actor, adID string) error
	GetByID(ctx context.Context, adID string) (*entity.Ad, error)
	Search(ctx context.Context, params repository.ListAdsParams) (*repository.ListAdsResult, error)
}

type adService struct {
	ads       repository.AdRepository
	images    *ImageService
	cache     repository.AdCache
	publisher nats.MessagePublisher
	log       logger.Logger
	cacheTTL  time.Duration
}

func NewAdService(
	ads repository.AdRepository,
	images *ImageService,
	cache repository.AdCache,
	publisher nats.MessagePublisher,
	log logger.Logger,
	cacheTTL time.Duration,
) AdService {
	return &adService{
		ads:       ads,
		images:    images,
		cache:     cache,
		publisher: publisher,
		log:       log,
		cacheTTL:  cacheTTL,
	}
}

// Create validates the fields, publishes the ad and wires up its images: the
// first id becomes the preview, the rest the ordered gallery. The gallery
// batch is validated before any write so a bad id leaves nothing assigned.
func (s *adService) Create(ctx context.Context, actor entity.Actor, fields entity.AdFields, imageIDs []string) (*entity.Ad, error) {
	ad, err := entity.NewAd(actor.ID, fields)
	if err != nil {
		return nil, err
	}

	var staged []entity.AdImage
	if len(imageIDs) > 1 {
		staged, err = s.images.stageNonPreview(ctx, imageIDs[1:])
		if err != nil {
			return nil, err
		}
	}
	if len(imageIDs) > 0 {
		if err := s.images.AssignPreview(ctx, ad, imageIDs[0]); err != nil {
			return nil, err
		}
	}

	adID, err := s.ads.Create(ctx, ad)
	if err != nil {
		s.log.Errorf("AdService.Create: failed to save ad for user %s: %v", actor.ID, err)
		return nil, fmt.Errorf("failed to save ad: %w", err)
	}
	ad.ID = adID

	if len(staged) > 0 {
		if err := s.images.commitNonPreview(ctx, adID, staged); err != nil {
			return nil, err
		}
	}

	if err := s.publisher.Publish(ctx, natsSubjectAdCreated, ad); err != nil {
		s.log.Warnf("Failed to publish ad created event for ad %s: %v", adID, err)
	}

	s.log.Infof("Ad %s created by user %s", adID, actor.ID)
	return ad, nil
}

// Cancel moves the ad to CANCELLED. Any non-terminal status may be
// cancelled; terminal ads refuse the transition.
func (s *adService) Cancel(ctx context.Context, actor entity.Actor, adID string) error {
	ad, err := s.getAd(ctx, adID)
	if err != nil {
		return err
	}
	if !IsAllowed(actor, ActionCancelAd, Resource{AdAuthorID: ad.AuthorID}) {
		s.log.Warnf("User %s is not allowed to cancel ad %s", actor.ID, adID)
		return ErrForbidden
	}
	if ad.Status.Terminal() {
		s.log.Warnf("Cannot cancel ad %s with status %s", adID, ad.Status)
		return ErrForbidden
	}

	if err := s.updateAdStatus(ctx, ad, entity.AdStatusCancelled); err != nil {
		return err
	}
	s.invalidate(ctx, adID)

	if err := s.publisher.Publish(ctx, natsSubjectAdCancelled, ad); err != nil {
		s.log.Warnf("Failed to publish ad cancelled event for ad %s: %v", adID, err)
	}

	s.log.Infof("Ad %s cancelled by user %s", adID, actor.ID)
	return nil
}

// Edit replaces the ad's fields and image set. The previous gallery is
// dissociated and the previous preview object removed from the remote store.
// If the remote delete fails after the entity changes were committed, the
// gallery associations are compensated back to their pre-edit state and the
// caller sees ErrStorageUnavailable; the text-field changes stay committed.
func (s *adService) Edit(ctx context.Context, actor entity.Actor, adID string, fields entity.AdFields, imageIDs []string) (*entity.Ad, error) {
	if err := fields.Validate(entity.MaxEditDescriptionLength); err != nil {
		return nil, err
	}

	ad, err := s.getAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if !IsAllowed(actor, ActionEditAd, Resource{AdAuthorID: ad.AuthorID}) {
		s.log.Warnf("User %s is not allowed to edit ad %s", actor.ID, adID)
		return nil, ErrForbidden
	}

	previousPreview := ad.PreviewImageSource
	previousImages, err := s.images.ListForAd(ctx, adID)
	if err != nil {
		return nil, err
	}

	// Validate the whole incoming gallery before mutating anything.
	var staged []entity.AdImage
	if len(imageIDs) > 1 {
		staged, err = s.images.stageNonPreview(ctx, imageIDs[1:])
		if err != nil {
			return nil, err
		}
	}

	if err := ad.ApplyEdit(fields); err != nil {
		return nil, err
	}
	if len(imageIDs) > 0 {
		if err := s.images.AssignPreview(ctx, ad, imageIDs[0]); err != nil {
			return nil, err
		}
	}

	if err := s.ads.Update(ctx, ad); err != nil {
		s.log.Errorf("AdService.Edit: failed to update ad %s: %v", adID, err)
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}
	if len(staged) > 0 {
		if err := s.images.commitNonPreview(ctx, adID, staged); err != nil {
			return nil, err
		}
	}
	if err := s.images.Dissociate(ctx, previousImages); err != nil {
		return nil, err
	}
	s.invalidate(ctx, adID)

	if previousPreview != "" {
		if err := s.images.DeleteFromStore(ctx, previousPreview); err != nil {
			s.compensateEdit(ctx, adID, previousImages, staged)
			return nil, err
		}
	}

	if err := s.publisher.Publish(ctx, natsSubjectAdUpdated, ad); err != nil {
		s.log.Warnf("Failed to publish ad updated event for ad %s: %v", adID, err)
	}

	s.log.Infof("Ad %s updated by user %s", adID, actor.ID)
	return ad, nil
}

func (s *adService) GetByID(ctx context.Context, adID string) (*entity.Ad, error) {
	cached, err := s.cache.Get(ctx, adID)
	if err != nil {
		s.log.Warnf("Ad cache lookup failed for ad %s: %v", adID, err)
	} else if cached != nil {
		return cached, nil
	}

	ad, err := s.getAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, ad, s.cacheTTL); err != nil {
		s.log.Warnf("Failed to cache ad %s: %v", adID, err)
	}
	return ad, nil
}

func (s *adService) Search(ctx context.Context, params repository.ListAdsParams) (*repository.ListAdsResult, error) {
	result, err := s.ads.List(ctx, params)
	if err != nil {
		s.log.Errorf("AdService.Search: failed to list ads: %v", err)
		return nil, fmt.Errorf("failed to search ads: %w", err)
	}
	return result, nil
}

func (s *adService) getAd(ctx context.Context, adID string) (*entity.Ad, error) {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, fmt.Errorf("failed to get ad %s: %w", adID, err)
	}
	return ad, nil
}

// updateAdStatus performs a version-guarded status change; a lost race
// surfaces as ErrConflict. The in-memory ad is kept in step on success.
func (s *adService) updateAdStatus(ctx context.Context, ad *entity.Ad, status entity.AdStatus) error {
	err := s.ads.UpdateStatus(ctx, repository.UpdateAdStatusParams{
		AdID:    ad.ID,
		Status:  status,
		Version: ad.Version,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return ErrConflict
		}
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdNotFound
		}
		return fmt.Errorf("failed to update status of ad %s: %w", ad.ID, err)
	}
	ad.Status = status
	ad.Version++
	ad.UpdatedAt = time.Now().UTC()
	return nil
}

// compensateEdit restores the pre-edit gallery associations: the previous
// rows are reattached and the freshly assigned ones detached. Best effort;
// failures are only logged since the caller already sees the storage error.
func (s *adService) compensateEdit(ctx context.Context, adID string, previous, assigned []entity.AdImage) {
	if err := s.images.Dissociate(ctx, assigned); err != nil {
		s.log.Errorf("Edit compensation: failed to detach new images of ad %s: %v", adID, err)
	}
	if err := s.images.Reattach(ctx, adID, previous); err != nil {
		s.log.Errorf("Edit compensation: failed to reattach previous images of ad %s: %v", adID, err)
	}
	s.invalidate(ctx, adID)
}

func (s *adService) invalidate(ctx context.Context, adID string) {
	if err := s.cache.Delete(ctx, adID); err != nil {
		s.log.Warnf("Failed to invalidate cached ad %s: %v", adID, err)
	}
}
