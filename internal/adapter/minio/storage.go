package minio

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/countryhouse/ads-service/internal/app/config"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/google/uuid"
	miniosdk "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const objectKeyPrefix = "photos/"

// Storage keeps ad images in a MinIO bucket. Upload returns the public
// object URL; Delete takes that same URL back.
type Storage struct {
	client *miniosdk.Client
	bucket string
	log    logger.Logger
}

func NewStorage(ctx context.Context, cfg config.MinIOConfig, log logger.Logger) (*Storage, error) {
	client, err := miniosdk.New(cfg.Endpoint, &miniosdk.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	err = client.MakeBucket(ctx, cfg.Bucket, miniosdk.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		log:    log,
	}, nil
}

func (s *Storage) Upload(ctx context.Context, data []byte, name string) (string, error) {
	ext := filepath.Ext(name)
	objectKey := fmt.Sprintf("%s%s%s", objectKeyPrefix, uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), miniosdk.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.log.Debugf("Uploaded object %s (%d bytes) as %s", objectKey, len(data), fileURL)
	return fileURL, nil
}

func (s *Storage) Delete(ctx context.Context, source string) error {
	objectKey, err := s.objectKeyFromURL(source)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, miniosdk.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s from bucket %s: %w", objectKey, s.bucket, err)
	}
	return nil
}

func (s *Storage) objectKeyFromURL(source string) (string, error) {
	marker := "/" + s.bucket + "/"
	idx := strings.Index(source, marker)
	if idx < 0 {
		return "", fmt.Errorf("source URL %q does not belong to bucket %s", source, s.bucket)
	}
	return source[idx+len(marker):], nil
}
