package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/countryhouse/ads-service/internal/app/config"
	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const requestCollectionName = "requests"

type requestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.RequestRepository {
	return &requestRepository{
		collection: client.Database(cfg.Database).Collection(requestCollectionName),
	}
}

func (r *requestRepository) Create(ctx context.Context, request *entity.Request) (string, error) {
	doc, err := toRequestDocument(request)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *requestRepository) GetByID(ctx context.Context, requestID string) (*entity.Request, error) {
	objID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, fmt.Errorf("invalid request ID format: %w", repository.ErrNotFound)
	}

	var doc requestDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get request by ID %s: %w", requestID, err)
	}
	return toDomainRequest(&doc), nil
}

func (r *requestRepository) Update(ctx context.Context, request *entity.Request) error {
	objID, err := primitive.ObjectIDFromHex(request.ID)
	if err != nil {
		return fmt.Errorf("invalid request ID format for update: %w", repository.ErrUpdateFailed)
	}

	update := bson.M{
		"$set": bson.M{
			"comment":    request.Comment,
			"updated_at": request.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update request %s: %w", request.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, requestID string) error {
	objID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return fmt.Errorf("invalid request ID format for delete: %w", repository.ErrDeleteFailed)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete request %s: %w", requestID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, requestID string, status entity.RequestStatus) error {
	objID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return fmt.Errorf("invalid request ID format for update status: %w", repository.ErrUpdateFailed)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update status of request %s: %w", requestID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *requestRepository) UpdateStatusByAd(ctx context.Context, adID string, status entity.RequestStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}

	_, err := r.collection.UpdateMany(ctx, bson.M{"ad_id": adID}, update)
	if err != nil {
		return fmt.Errorf("failed to update statuses of requests for ad %s: %w", adID, err)
	}
	return nil
}

func (r *requestRepository) ListByAd(ctx context.Context, params repository.ListRequestsParams) ([]entity.Request, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Skip > 0 {
		findOptions.SetSkip(params.Skip)
	}
	if params.Limit > 0 {
		findOptions.SetLimit(params.Limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"ad_id": params.AdID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of ad %s: %w", params.AdID, err)
	}
	defer cursor.Close(ctx)

	var docs []requestDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed requests: %w", err)
	}

	requests := make([]entity.Request, len(docs))
	for i := range docs {
		requests[i] = *toDomainRequest(&docs[i])
	}
	return requests, nil
}
