package service

import (
	"context"
	"time"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/platform/logger"
	"github.com/countryhouse/ads-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAdRepository struct {
	mock.Mock
}

func (m *MockAdRepository) Create(ctx context.Context, ad *entity.Ad) (string, error) {
	args := m.Called(ctx, ad)
	return args.String(0), args.Error(1)
}

func (m *MockAdRepository) GetByID(ctx context.Context, adID string) (*entity.Ad, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ad), args.Error(1)
}

func (m *MockAdRepository) Update(ctx context.Context, ad *entity.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *MockAdRepository) UpdateStatus(ctx context.Context, params repository.UpdateAdStatusParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockAdRepository) List(ctx context.Context, params repository.ListAdsParams) (*repository.ListAdsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListAdsResult), args.Error(1)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, request *entity.Request) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, requestID string) (*entity.Request, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Request), args.Error(1)
}

func (m *MockRequestRepository) Update(ctx context.Context, request *entity.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) Delete(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, requestID string, status entity.RequestStatus) error {
	args := m.Called(ctx, requestID, status)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateStatusByAd(ctx context.Context, adID string, status entity.RequestStatus) error {
	args := m.Called(ctx, adID, status)
	return args.Error(0)
}

func (m *MockRequestRepository) ListByAd(ctx context.Context, params repository.ListRequestsParams) ([]entity.Request, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Request), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Create(ctx context.Context, image *entity.AdImage) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

func (m *MockImageRepository) GetByID(ctx context.Context, imageID string) (*entity.AdImage, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdImage), args.Error(1)
}

func (m *MockImageRepository) Update(ctx context.Context, image *entity.AdImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

func (m *MockImageRepository) ListByAd(ctx context.Context, adID string) ([]entity.AdImage, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AdImage), args.Error(1)
}

type MockAdCache struct {
	mock.Mock
}

func (m *MockAdCache) Get(ctx context.Context, adID string) (*entity.Ad, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ad), args.Error(1)
}

func (m *MockAdCache) Set(ctx context.Context, ad *entity.Ad, ttl time.Duration) error {
	args := m.Called(ctx, ad, ttl)
	return args.Error(0)
}

func (m *MockAdCache) Delete(ctx context.Context, adID string) error {
	args := m.Called(ctx, adID)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func (m *MockPublisher) PublishRaw(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, data []byte, name string) (string, error) {
	args := m.Called(ctx, data, name)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, source string) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	args := m.Called(ctx, to, subject, bodyHTML, bodyText)
	return args.Error(0)
}

type noopLogger struct{}

func (noopLogger) Debug(args ...interface{})                   {}
func (noopLogger) Debugf(template string, args ...interface{}) {}
func (noopLogger) Info(args ...interface{})                    {}
func (noopLogger) Infof(template string, args ...interface{})  {}
func (noopLogger) Warn(args ...interface{})                    {}
func (noopLogger) Warnf(template string, args ...interface{})  {}
func (noopLogger) Error(args ...interface{})                   {}
func (noopLogger) Errorf(template string, args ...interface{}) {}
func (noopLogger) Fatal(args ...interface{})                   {}
func (noopLogger) Fatalf(template string, args ...interface{}) {}
func (l noopLogger) With(args ...interface{}) logger.Logger    { return l }
