package repository

import (
	"context"

	"github.com/countryhouse/ads-service/internal/domain/entity"
)

type ImageRepository interface {
	Create(ctx context.Context, image *entity.AdImage) (string, error)
	GetByID(ctx context.Context, imageID string) (*entity.AdImage, error)
	Update(ctx context.Context, image *entity.AdImage) error
	Delete(ctx context.Context, imageID string) error
	// ListByAd returns the ad's gallery rows sorted by their order value.
	ListByAd(ctx context.Context, adID string) ([]entity.AdImage, error)
}
