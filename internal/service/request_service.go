package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/countryhouse/ads-service/internal/adapter/email"
	"github.com/countryhouse/ads-service/internal/adapter/nats"
	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/repository"
)

const (
	natsSubjectRequestCreated  = "request.created"
	natsSubjectRequestAccepted = "request.accepted"
	natsSubjectRequestRejected = "request.rejected"
)

type RequestService interface {
	Create(ctx context.Context, actor entity.Actor, adID, comment string) (*entity.Request, error)
	Edit(ctx context.Context, actor entity.Actor, requestID, comment string) (*entity.Request, error)
	Delete(ctx context.Context, actor entity.Actor, requestID string) error
	Accept(ctx context.Context, actor entity.Actor, requestID string) error
	Reject(ctx context.Context, actor entity.Actor, requestID string) error
	Accomplish(ctx context.Context, actor entity.Actor, requestID string) error
	ListForAd(ctx context.Context, actor entity.Actor, adID string, skip, limit int64) ([]entity.Request, error)
}

type requestService struct {
	requests  repository.RequestRepository
	ads       repository.AdRepository
	cache     repository.AdCache
	publisher nats.MessagePublisher
	sender    email.EmailSender
	log       logger.Logger
}

func NewRequestService(
	requests repository.RequestRepository,
	ads repository.AdRepository,
	cache repository.AdCache,
	publisher nats.MessagePublisher,
	sender email.EmailSender,
	log logger.Logger,
) RequestService {
	return &requestService{
		requests:  requests,
		ads:       ads,
		cache:     cache,
		publisher: publisher,
		sender:    sender,
		log:       log,
	}
}

// Create files a pending request against a published ad.
func (s *requestService) Create(ctx context.Context, actor entity.Actor, adID, comment string) (*entity.Request, error) {
	ad, err := s.getAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad.Status != entity.AdStatusPublished {
		s.log.Warnf("Cannot add request to ad %s with status %s", adID, ad.Status)
		return nil, ErrAdNotPublished
	}

	request, err := entity.NewRequest(adID, actor, comment)
	if err != nil {
		return nil, err
	}

	requestID, err := s.requests.Create(ctx, request)
	if err != nil {
		s.log.Errorf("RequestService.Create: failed to save request for ad %s: %v", adID, err)
		return nil, fmt.Errorf("failed to save request: %w", err)
	}
	request.ID = requestID

	if err := s.publisher.Publish(ctx, natsSubjectRequestCreated, request); err != nil {
		s.log.Warnf("Failed to publish request created event for request %s: %v", requestID, err)
	}

	s.log.Infof("Request %s created by user %s for ad %s", requestID, actor.ID, adID)
	return request, nil
}

// Edit replaces the comment; the status is untouched.
func (s *requestService) Edit(ctx context.Context, actor entity.Actor, requestID, comment string) (*entity.Request, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !IsAllowed(actor, ActionEditRequest, Resource{ContractorID: request.ContractorID}) {
		s.log.Warnf("User %s is not allowed to edit request %s", actor.ID, requestID)
		return nil, ErrForbidden
	}
	if err := entity.ValidateComment(comment); err != nil {
		return nil, err
	}

	request.Comment = comment
	request.UpdatedAt = time.Now().UTC()
	if err := s.requests.Update(ctx, request); err != nil {
		s.log.Errorf("RequestService.Edit: failed to update request %s: %v", requestID, err)
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	s.log.Infof("Request %s updated by user %s", requestID, actor.ID)
	return request, nil
}

// Delete removes the request entirely, whatever its status.
func (s *requestService) Delete(ctx context.Context, actor entity.Actor, requestID string) error {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if !IsAllowed(actor, ActionDeleteRequest, Resource{ContractorID: request.ContractorID}) {
		s.log.Warnf("User %s is not allowed to delete request %s", actor.ID, requestID)
		return ErrForbidden
	}

	if err := s.requests.Delete(ctx, requestID); err != nil {
		s.log.Errorf("RequestService.Delete: failed to delete request %s: %v", requestID, err)
		return fmt.Errorf("failed to delete request: %w", err)
	}

	s.log.Infof("Request %s deleted by user %s", requestID, actor.ID)
	return nil
}

// Accept decides the winner: the ad moves to ACCEPTED under its version
// guard, every sibling request is rejected in bulk, the target becomes
// ACCEPTED. A lost race on the ad surfaces as ErrConflict before any request
// is touched.
func (s *requestService) Accept(ctx context.Context, actor entity.Actor, requestID string) error {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != entity.RequestStatusPending {
		s.log.Warnf("Cannot accept request %s because it already has status %s", requestID, request.Status)
		return ErrForbidden
	}

	ad, err := s.getAdOfRequest(ctx, request)
	if err != nil {
		return err
	}
	if !IsAllowed(actor, ActionAcceptRequest, Resource{AdAuthorID: ad.AuthorID}) {
		s.log.Warnf("User %s is not allowed to accept request %s", actor.ID, requestID)
		return ErrForbidden
	}

	if err := s.updateAdStatus(ctx, ad, entity.AdStatusAccepted); err != nil {
		return err
	}

	// Every sibling loses, regardless of its prior status.
	if err := s.requests.UpdateStatusByAd(ctx, ad.ID, entity.RequestStatusRejected); err != nil {
		s.log.Errorf("RequestService.Accept: failed to reject sibling requests of ad %s: %v", ad.ID, err)
		return fmt.Errorf("failed to reject sibling requests: %w", err)
	}
	if err := s.requests.UpdateStatus(ctx, requestID, entity.RequestStatusAccepted); err != nil {
		s.log.Errorf("RequestService.Accept: failed to accept request %s: %v", requestID, err)
		return fmt.Errorf("failed to accept request: %w", err)
	}
	s.invalidate(ctx, ad.ID)

	if err := s.publisher.Publish(ctx, natsSubjectRequestAccepted, request); err != nil {
		s.log.Warnf("Failed to publish request accepted event for request %s: %v", requestID, err)
	}
	s.notifyContractor(ctx, request, ad)

	s.log.Infof("Request %s for ad %s accepted", requestID, ad.ID)
	return nil
}

// Reject declines a single pending request; the ad and the sibling requests
// are untouched.
func (s *requestService) Reject(ctx context.Context, actor entity.Actor, requestID string) error {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != entity.RequestStatusPending {
		s.log.Warnf("Cannot reject request %s because it already has status %s", requestID, request.Status)
		return ErrForbidden
	}

	ad, err := s.getAdOfRequest(ctx, request)
	if err != nil {
		return err
	}
	if !IsAllowed(actor, ActionRejectRequest, Resource{AdAuthorID: ad.AuthorID}) {
		s.log.Warnf("User %s is not allowed to reject request %s", actor.ID, requestID)
		return ErrForbidden
	}

	if err := s.requests.UpdateStatus(ctx, requestID, entity.RequestStatusRejected); err != nil {
		s.log.Errorf("RequestService.Reject: failed to reject request %s: %v", requestID, err)
		return fmt.Errorf("failed to reject request: %w", err)
	}

	if err := s.publisher.Publish(ctx, natsSubjectRequestRejected, request); err != nil {
		s.log.Warnf("Failed to publish request rejected event for request %s: %v", requestID, err)
	}

	s.log.Infof("Request %s for ad %s rejected", requestID, ad.ID)
	return nil
}

// Accomplish marks the ad as done. Only the contractor of the accepted
// request (or an admin) may do this, and only while the request is ACCEPTED.
// The request itself keeps its ACCEPTED status; only the ad moves on.
func (s *requestService) Accomplish(ctx context.Context, actor entity.Actor, requestID string) error {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != entity.RequestStatusAccepted {
		s.log.Warnf("Cannot accomplish request %s because it has status %s", requestID, request.Status)
		return ErrForbidden
	}
	if !IsAllowed(actor, ActionAccomplishRequest, Resource{ContractorID: request.ContractorID}) {
		s.log.Warnf("User %s is not allowed to accomplish request %s", actor.ID, requestID)
		return ErrForbidden
	}

	ad, err := s.getAdOfRequest(ctx, request)
	if err != nil {
		return err
	}

	if err := s.updateAdStatus(ctx, ad, entity.AdStatusAccomplished); err != nil {
		return err
	}
	s.invalidate(ctx, ad.ID)

	if err := s.publisher.Publish(ctx, natsSubjectAdAccomplished, ad); err != nil {
		s.log.Warnf("Failed to publish ad accomplished event for ad %s: %v", ad.ID, err)
	}

	s.log.Infof("Request %s for ad %s accomplished", requestID, ad.ID)
	return nil
}

// ListForAd returns the requests filed against the ad, visible to its author
// and admins.
func (s *requestService) ListForAd(ctx context.Context, actor entity.Actor, adID string, skip, limit int64) ([]entity.Request, error) {
	ad, err := s.getAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if !IsAllowed(actor, ActionViewAdRequests, Resource{AdAuthorID: ad.AuthorID}) {
		s.log.Warnf("User %s is not allowed to view requests of ad %s", actor.ID, adID)
		return nil, ErrForbidden
	}

	requests, err := s.requests.ListByAd(ctx, repository.ListRequestsParams{
		AdID:  adID,
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		s.log.Errorf("RequestService.ListForAd: failed to list requests of ad %s: %v", adID, err)
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *requestService) getRequest(ctx context.Context, requestID string) (*entity.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request %s: %w", requestID, err)
	}
	return request, nil
}

func (s *requestService) getAd(ctx context.Context, adID string) (*entity.Ad, error) {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, fmt.Errorf("failed to get ad %s: %w", adID, err)
	}
	return ad, nil
}

// getAdOfRequest resolves the parent ad; orphaned requests (ad removed)
// report the ad as missing.
func (s *requestService) getAdOfRequest(ctx context.Context, request *entity.Request) (*entity.Ad, error) {
	if request.AdID == "" {
		return nil, ErrAdNotFound
	}
	return s.getAd(ctx, request.AdID)
}

func (s *requestService) updateAdStatus(ctx context.Context, ad *entity.Ad, status entity.AdStatus) error {
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
	return nil
}

func (s *requestService) invalidate(ctx context.Context, adID string) {
	if err := s.cache.Delete(ctx, adID); err != nil {
		s.log.Warnf("Failed to invalidate cached ad %s: %v", adID, err)
	}
}

func (s *requestService) notifyContractor(ctx context.Context, request *entity.Request, ad *entity.Ad) {
	if s.sender == nil || request.ContractorEmail == "" {
		return
	}
	subject := "Your request was accepted"
	body := fmt.Sprintf("Your request for the ad %q was accepted by its owner.", ad.Title)
	if err := s.sender.Send(ctx, []string{request.ContractorEmail}, subject, "", body); err != nil {
		s.log.Warnf("Failed to notify contractor %s about accepted request %s: %v", request.ContractorID, request.ID, err)
	}
}
