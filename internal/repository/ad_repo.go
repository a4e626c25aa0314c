package repository

import (
	"context"

	"github.com/countryhouse/ads-service/internal/domain/entity"
)

// UpdateAdStatusParams is a version-guarded status change. The update only
// applies when the stored version still matches; a stale version yields
// ErrOptimisticLock.
type UpdateAdStatusParams struct {
	AdID    string
	Status  entity.AdStatus
	Version int
}

type ListAdsParams struct {
	Search   string
	AuthorID string
	Status   entity.AdStatus
	Skip     int64
	Limit    int64
}

type ListAdsResult struct {
	Ads        []entity.Ad
	TotalCount int64
}

type AdRepository interface {
	Create(ctx context.Context, ad *entity.Ad) (string, error)
	GetByID(ctx context.Context, adID string) (*entity.Ad, error)
	Update(ctx context.Context, ad *entity.Ad) error
	UpdateStatus(ctx context.Context, params UpdateAdStatusParams) error
	List(ctx context.Context, params ListAdsParams) (*ListAdsResult, error)
}
