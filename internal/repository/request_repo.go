package repository

import (
	"context"

	"github.com/countryhouse/ads-service/internal/domain/entity"
)

type ListRequestsParams struct {
	AdID  string
	Skip  int64
	Limit int64
}

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) (string, error)
	GetByID(ctx context.Context, requestID string) (*entity.Request, error)
	Update(ctx context.Context, request *entity.Request) error
	Delete(ctx context.Context, requestID string) error
	UpdateStatus(ctx context.Context, requestID string, status entity.RequestStatus) error
	// UpdateStatusByAd applies the status to every request attached to the ad.
	UpdateStatusByAd(ctx context.Context, adID string, status entity.RequestStatus) error
	ListByAd(ctx context.Context, params ListRequestsParams) ([]entity.Request, error)
}
