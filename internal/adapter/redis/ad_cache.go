package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const adCacheKeyPrefix = "ad_cache:"

type adCache struct {
	client *redis.Client
}

func NewAdCache(client *redis.Client) repository.AdCache {
	return &adCache{client: client}
}

func adCacheKey(adID string) string {
	return adCacheKeyPrefix + adID
}

func (c *adCache) Get(ctx context.Context, adID string) (*entity.Ad, error) {
	data, err := c.client.Get(ctx, adCacheKey(adID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ad %s from cache: %w", adID, err)
	}

	var ad entity.Ad
	if err := json.Unmarshal(data, &ad); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached ad %s: %w", adID, err)
	}
	return &ad, nil
}

func (c *adCache) Set(ctx context.Context, ad *entity.Ad, ttl time.Duration) error {
	data, err := json.Marshal(ad)
	if err != nil {
		return fmt.Errorf("failed to marshal ad %s for cache: %w", ad.ID, err)
	}

	if err := c.client.Set(ctx, adCacheKey(ad.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache ad %s: %w", ad.ID, err)
	}
	return nil
}

func (c *adCache) Delete(ctx context.Context, adID string) error {
	if err := c.client.Del(ctx, adCacheKey(adID)).Err(); err != nil {
		return fmt.Errorf("failed to delete ad %s from cache: %w", adID, err)
	}
	return nil
}
