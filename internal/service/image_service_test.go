package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestImageService_Upload(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	data := []byte{0xFF, 0xD8}
	storage.On("Upload", mock.Anything, data, "roof.jpg").Return("http://store/photos/abc.jpg", nil)
	images.On("Create", mock.Anything, mock.MatchedBy(func(img *entity.AdImage) bool {
		return img.Source == "http://store/photos/abc.jpg" && img.AdID == ""
	})).Return("img1", nil)

	img, err := svc.Upload(context.Background(), data, "roof.jpg")

	require.NoError(t, err)
	assert.Equal(t, "img1", img.ID)
	assert.Empty(t, img.AdID)
}

func TestImageService_Upload_StoreDown(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	_, err := svc.Upload(context.Background(), []byte{1}, "roof.jpg")

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	images.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImageService_AssignPreview_PromotesAndDeletesRow(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	images.On("GetByID", mock.Anything, "img1").Return(&entity.AdImage{ID: "img1", Source: "u1"}, nil)
	images.On("Delete", mock.Anything, "img1").Return(nil)

	ad := &entity.Ad{ID: "ad1"}
	err := svc.AssignPreview(context.Background(), ad, "img1")

	require.NoError(t, err)
	assert.Equal(t, "u1", ad.PreviewImageSource)
	images.AssertExpectations(t)
}

// The gallery keeps the input order, numbered from 2 upward.
func TestImageService_AssignNonPreview_OrdersFromTwo(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	ids := []string{"i1", "i2", "i3"}
	for _, id := range ids {
		images.On("GetByID", mock.Anything, id).Return(&entity.AdImage{ID: id, Source: "u-" + id}, nil)
	}
	var orders []int
	images.On("Update", mock.Anything, mock.AnythingOfType("*entity.AdImage")).Run(func(args mock.Arguments) {
		img := args.Get(1).(*entity.AdImage)
		assert.Equal(t, "ad1", img.AdID)
		orders = append(orders, img.Order)
	}).Return(nil)

	staged, err := svc.AssignNonPreview(context.Background(), &entity.Ad{ID: "ad1"}, ids)

	require.NoError(t, err)
	require.Len(t, staged, 3)
	assert.Equal(t, []int{2, 3, 4}, orders)
}

// One bad id in the batch and nothing at all is written.
func TestImageService_AssignNonPreview_MissingImageWritesNothing(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	images.On("GetByID", mock.Anything, "i1").Return(&entity.AdImage{ID: "i1"}, nil)
	images.On("GetByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	_, err := svc.AssignNonPreview(context.Background(), &entity.Ad{ID: "ad1"}, []string{"i1", "gone", "i3"})

	assert.ErrorIs(t, err, ErrImageNotFound)
	images.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestImageService_AssignNonPreview_ImageAlreadyInUse(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	images.On("GetByID", mock.Anything, "i1").Return(&entity.AdImage{ID: "i1"}, nil)
	images.On("GetByID", mock.Anything, "taken").Return(&entity.AdImage{ID: "taken", AdID: "other-ad"}, nil)

	_, err := svc.AssignNonPreview(context.Background(), &entity.Ad{ID: "ad1"}, []string{"i1", "taken"})

	assert.ErrorIs(t, err, ErrImageInUse)
	images.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// Orders run 2 through 8, so a batch of eight non-preview images is one too
// many.
func TestImageService_AssignNonPreview_TooManyImages(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	var ids []string
	for i := 0; i < entity.MaxImageOrder; i++ {
		id := fmt.Sprintf("i%d", i)
		ids = append(ids, id)
		images.On("GetByID", mock.Anything, id).Return(&entity.AdImage{ID: id}, nil).Maybe()
	}

	_, err := svc.AssignNonPreview(context.Background(), &entity.Ad{ID: "ad1"}, ids)

	assert.ErrorIs(t, err, ErrTooManyImages)
	images.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestImageService_Remove(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	images.On("GetByID", mock.Anything, "img1").Return(&entity.AdImage{ID: "img1", Source: "u1"}, nil)
	images.On("Delete", mock.Anything, "img1").Return(nil)
	storage.On("Delete", mock.Anything, "u1").Return(nil)

	err := svc.Remove(context.Background(), "img1")

	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestImageService_Remove_NotFound(t *testing.T) {
	images := new(MockImageRepository)
	storage := new(MockStorage)
	svc := NewImageService(images, storage, noopLogger{})

	images.On("GetByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	err := svc.Remove(context.Background(), "gone")

	assert.ErrorIs(t, err, ErrImageNotFound)
}
