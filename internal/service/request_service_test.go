package service

import (
	"context"
	"testing"
	"time"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type requestServiceMocks struct {
	requests  *MockRequestRepository
	ads       *MockAdRepository
	cache     *MockAdCache
	publisher *MockPublisher
	sender    *MockEmailSender
}

func newRequestServiceForTest() (RequestService, requestServiceMocks) {
	m := requestServiceMocks{
		requests:  new(MockRequestRepository),
		ads:       new(MockAdRepository),
		cache:     new(MockAdCache),
		publisher: new(MockPublisher),
		sender:    new(MockEmailSender),
	}
	svc := NewRequestService(m.requests, m.ads, m.cache, m.publisher, m.sender, noopLogger{})
	return svc, m
}

func pendingRequest(id, adID, contractorID string) *entity.Request {
	now := time.Now().UTC()
	return &entity.Request{
		ID:              id,
		Comment:         "I can do this next week",
		ContractorID:    contractorID,
		ContractorEmail: contractorID + "@example.com",
		AdID:            adID,
		Status:          entity.RequestStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestRequestService_Create_Pending(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.ads.On("GetByID", mock.Anything, "ad1").Return(publishedAd("ad1", "author1"), nil)
	m.requests.On("Create", mock.Anything, mock.AnythingOfType("*entity.Request")).Return("req1", nil)
	m.publisher.On("Publish", mock.Anything, "request.created", mock.Anything).Return(nil)

	contractor := entity.Actor{ID: "contractor1", Email: "c1@example.com"}
	request, err := svc.Create(context.Background(), contractor, "ad1", "I can start on Monday")

	require.NoError(t, err)
	assert.Equal(t, "req1", request.ID)
	assert.Equal(t, entity.RequestStatusPending, request.Status)
	assert.Equal(t, "contractor1", request.ContractorID)
	assert.Equal(t, "c1@example.com", request.ContractorEmail)
}

func TestRequestService_Create_AdNotPublished(t *testing.T) {
	svc, m := newRequestServiceForTest()

	ad := publishedAd("ad1", "author1")
	ad.Status = entity.AdStatusAccepted
	m.ads.On("GetByID", mock.Anything, "ad1").Return(ad, nil)

	_, err := svc.Create(context.Background(), entity.Actor{ID: "contractor1"}, "ad1", "")

	assert.ErrorIs(t, err, ErrAdNotPublished)
	m.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRequestService_Create_AdMissing(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.ads.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	_, err := svc.Create(context.Background(), entity.Actor{ID: "contractor1"}, "missing", "")

	assert.ErrorIs(t, err, ErrAdNotFound)
}

// Accepting rejects every sibling in bulk and only then promotes the target,
// after the ad itself has moved to ACCEPTED under its version guard.
func TestRequestService_Accept_RejectsSiblingsThenPromotesTarget(t *testing.T) {
	svc, m := newRequestServiceForTest()

	var sequence []string

	m.requests.On("GetByID", mock.Anything, "req1").Return(pendingRequest("req1", "ad1", "contractor1"), nil)
	m.ads.On("GetByID", mock.Anything, "ad1").Return(publishedAd("ad1", "author1"), nil)
	m.ads.On("UpdateStatus", mock.Anything, repository.UpdateAdStatusParams{
		AdID: "ad1", Status: entity.AdStatusAccepted, Version: 1,
	}).Run(func(mock.Arguments) {
		sequence = append(sequence, "ad-accepted")
	}).Return(nil)
	m.requests.On("UpdateStatusByAd", mock.Anything, "ad1", entity.RequestStatusRejected).Run(func(mock.Arguments) {
		sequence = append(sequence, "siblings-rejected")
	}).Return(nil)
	m.requests.On("UpdateStatus", mock.Anything, "req1", entity.RequestStatusAccepted).Run(func(mock.Arguments) {
		sequence = append(sequence, "target-accepted")
	}).Return(nil)
	m.cache.On("Delete", mock.Anything, "ad1").Return(nil)
	m.publisher.On("Publish", mock.Anything, "request.accepted", mock.Anything).Return(nil)
	m.sender.On("Send", mock.Anything, []string{"contractor1@example.com"}, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := svc.Accept(context.Background(), entity.Actor{ID: "author1"}, "req1")

	require.NoError(t, err)
	assert.Equal(t, []string{"ad-accepted", "siblings-rejected", "target-accepted"}, sequence)
	m.sender.AssertExpectations(t)
}

func TestRequestService_Accept_NotPending(t *testing.T) {
	svc, m := newRequestServiceForTest()

	request := pendingRequest("req1", "ad1", "contractor1")
	request.Status = entity.RequestStatusRejected
	m.requests.On("GetByID", mock.Anything, "req1").Return(request, nil)

	err := svc.Accept(context.Background(), entity.Actor{ID: "author1"}, "req1")

	assert.ErrorIs(t, err, ErrForbidden)
	m.ads.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	m.requests.AssertNotCalled(t, "UpdateStatusByAd", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestService_Accept_NotAdAuthor(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.requests.On("GetByID", mock.Anything, "req1").Return(pendingRequest("req1", "ad1", "contractor1"), nil)
	m.ads.On("GetByID", mock.Anything, "ad1").Return(publishedAd("ad1", "author1"), nil)

	err := svc.Accept(context.Background(), entity.Actor{ID: "contractor1"}, "req1")

	assert.ErrorIs(t, err, ErrForbidden)
	m.ads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

// A lost optimistic-lock race on the ad must abort before any request row is
// touched.
func TestRequestService_Accept_LostRaceTouchesNoRequests(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.requests.On("GetByID", mock.Anything, "req1").Return(pendingRequest("req1", "ad1", "contractor1"), nil)
	m.ads.On("GetByID", mock.Anything, "ad1").Return(publishedAd("ad1", "author1"), nil)
	m.ads.On("UpdateStatus", mock.Anything, mock.Anything).Return(repository.ErrOptimisticLock)

	err := svc.Accept(context.Background(), entity.Actor{ID: "author1"}, "req1")

	assert.ErrorIs(t, err, ErrConflict)
	m.requests.AssertNotCalled(t, "UpdateStatusByAd", mock.Anything, mock.Anything, mock.Anything)
	m.requests.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestService_Accept_OrphanedRequest(t *testing.T) {
	svc, m := newRequestServiceForTest()

	request := pendingRequest("req1", "", "contractor1")
	m.requests.On("GetByID", mock.Anything, "req1").Return(request, nil)

	err := svc.Accept(context.Background(), entity.Actor{ID: "author1"}, "req1")

	assert.ErrorIs(t, err, ErrAdNotFound)
	m.ads.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRequestService_Reject_LeavesAdAndSiblingsAlone(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.requests.On("GetByID", mock.Anything, "req1").Return(pendingRequest("req1", "ad1", "contractor1"), nil)
	m.ads.On("GetByID", mock.Anything, "ad1").Return(publishedAd("ad1", "author1"), nil)
	m.requests.On("UpdateStatus", mock.Anything, "req1", entity.RequestStatusRejected).Return(nil)
	m.publisher.On("Publish", mock.Anything, "request.rejected", mock.Anything).Return(nil)

	err := svc.Reject(context.Background(), entity.Actor{ID: "author1"}, "req1")

	require.NoError(t, err)
	m.ads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	m.requests.AssertNotCalled(t, "UpdateStatusByAd", mock.Anything, mock.Anything, mock.Anything)
}

// Accomplish only moves the ad; the accepted request keeps its status.
func TestRequestService_Accomplish_AdMovesRequestStays(t *testing.T) {
	svc, m := newRequestServiceForTest()

	request := pendingRequest("req1", "ad1", "contractor1")
	request.Status = entity.RequestStatusAccepted
	ad := publishedAd("ad1", "author1")
	ad.Status = entity.AdStatusAccepted

	m.requests.On("GetByID", mock.Anything, "req1").Return(request, nil)
	m.ads.On("GetByID", mock.Anything, "ad1").Return(ad, nil)
	m.ads.On("UpdateStatus", mock.Anything, repository.UpdateAdStatusParams{
		AdID: "ad1", Status: entity.AdStatusAccomplished, Version: 1,
	}).Return(nil)
	m.cache.On("Delete", mock.Anything, "ad1").Return(nil)
	m.publisher.On("Publish", mock.Anything, "ad.accomplished", mock.Anything).Return(nil)

	err := svc.Accomplish(context.Background(), entity.Actor{ID: "contractor1"}, "req1")

	require.NoError(t, err)
	m.requests.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, entity.RequestStatusAccepted, request.Status)
}

func TestRequestService_Accomplish_RequestNotAccepted(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.requests.On("GetByID", mock.Anything, "req1").Return(pendingRequest("req1", "ad1", "contractor1"), nil)

	err := svc.Accomplish(context.Background(), entity.Actor{ID: "contractor1"}, "req1")

	assert.ErrorIs(t, err, ErrForbidden)
	m.ads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestRequestService_Accomplish_NotContractor(t *testing.T) {
	svc, m := newRequestServiceForTest()

	request := pendingRequest("req1", "ad1", "contractor1")
	request.Status = entity.RequestStatusAccepted
	m.requests.On("GetByID", mock.Anything, "req1").Return(request, nil)

	err := svc.Accomplish(context.Background(), entity.Actor{ID: "author1"}, "req1")

	assert.ErrorIs(t, err, ErrForbidden)
	m.ads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestRequestService_Edit_OnlyContractor(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.requests.On("GetByID", mock.Anything, "req1").Return(pendingRequest("req1", "ad1", "contractor1"), nil)

	_, err := svc.Edit(context.Background(), entity.Actor{ID: "author1"}, "req1", "new comment")

	assert.ErrorIs(t, err, ErrForbidden)
	m.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRequestService_Edit_CommentTooLong(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.requests.On("GetByID", mock.Anything, "req1").Return(pendingRequest("req1", "ad1", "contractor1"), nil)

	long := string(make([]byte, entity.MaxCommentLength+1))
	_, err := svc.Edit(context.Background(), entity.Actor{ID: "contractor1"}, "req1", long)

	var ve *entity.ValidationError
	assert.ErrorAs(t, err, &ve)
	m.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRequestService_Delete_ByContractor(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.requests.On("GetByID", mock.Anything, "req1").Return(pendingRequest("req1", "ad1", "contractor1"), nil)
	m.requests.On("Delete", mock.Anything, "req1").Return(nil)

	err := svc.Delete(context.Background(), entity.Actor{ID: "contractor1"}, "req1")

	require.NoError(t, err)
	m.requests.AssertExpectations(t)
}

func TestRequestService_ListForAd_OnlyAuthorOrAdmin(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.ads.On("GetByID", mock.Anything, "ad1").Return(publishedAd("ad1", "author1"), nil)

	_, err := svc.ListForAd(context.Background(), entity.Actor{ID: "contractor1"}, "ad1", 0, 20)

	assert.ErrorIs(t, err, ErrForbidden)
	m.requests.AssertNotCalled(t, "ListByAd", mock.Anything, mock.Anything)
}

func TestRequestService_ListForAd_ByAuthor(t *testing.T) {
	svc, m := newRequestServiceForTest()

	m.ads.On("GetByID", mock.Anything, "ad1").Return(publishedAd("ad1", "author1"), nil)
	m.requests.On("ListByAd", mock.Anything, repository.ListRequestsParams{AdID: "ad1", Skip: 0, Limit: 20}).
		Return([]entity.Request{*pendingRequest("req1", "ad1", "contractor1")}, nil)

	requests, err := svc.ListForAd(context.Background(), entity.Actor{ID: "author1"}, "ad1", 0, 20)

	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "req1", requests[0].ID)
}
