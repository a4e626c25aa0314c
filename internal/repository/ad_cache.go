package repository

import (
	"context"
	"time"

	"github.com/countryhouse/ads-service/internal/domain/entity"
)

// AdCache is a read-through cache for single-ad lookups. Get returns
// (nil, nil) on a miss.
type AdCache interface {
	Get(ctx context.Context, adID string) (*entity.Ad, error)
	Set(ctx context.Context, ad *entity.Ad, ttl time.Duration) error
	Delete(ctx context.Context, adID string) error
}
