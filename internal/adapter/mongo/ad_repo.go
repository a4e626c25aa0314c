package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/countryhouse/ads-service/internal/app/config"
	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const adCollectionName = "ads"

type adRepository struct {
	collection *mongo.Collection
}

func NewAdRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.AdRepository {
	return &adRepository{
		collection: client.Database(cfg.Database).Collection(adCollectionName),
	}
}

func (r *adRepository) Create(ctx context.Context, ad *entity.Ad) (string, error) {
	doc, err := toAdDocument(ad)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create ad: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *adRepository) GetByID(ctx context.Context, adID string) (*entity.Ad, error) {
	objID, err := primitive.ObjectIDFromHex(adID)
	if err != nil {
		return nil, fmt.Errorf("invalid ad ID format: %w", repository.ErrNotFound)
	}

	var doc adDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ad by ID %s: %w", adID, err)
	}
	return toDomainAd(&doc), nil
}

// Update rewrites the editable fields. Status and version are deliberately
// left alone; status moves only through the guarded UpdateStatus.
func (r *adRepository) Update(ctx context.Context, ad *entity.Ad) error {
	objID, err := primitive.ObjectIDFromHex(ad.ID)
	if err != nil {
		return fmt.Errorf("invalid ad ID format for update: %w", repository.ErrUpdateFailed)
	}

	update := bson.M{
		"$set": bson.M{
			"title":                 ad.Title,
			"description":           ad.Description,
			"address":               ad.Address,
			"budget":                ad.Budget,
			"contact_number":        ad.ContactNumber,
			"preview_image_source":  ad.PreviewImageSource,
			"accomplish_from_date":  ad.AccomplishFromDate,
			"accomplish_until_date": ad.AccomplishUntilDate,
			"updated_at":            ad.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update ad %s: %w", ad.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *adRepository) UpdateStatus(ctx context.Context, params repository.UpdateAdStatusParams) error {
	objID, err := primitive.ObjectIDFromHex(params.AdID)
	if err != nil {
		return fmt.Errorf("invalid ad ID format for update status: %w", repository.ErrUpdateFailed)
	}

	filter := bson.M{
		"_id":     objID,
		"version": params.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     params.Status,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update status of ad %s: %w", params.AdID, err)
	}

	if result.MatchedCount == 0 {
		var existing adDocument
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && existing.Version != params.Version {
			return repository.ErrOptimisticLock
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *adRepository) List(ctx context.Context, params repository.ListAdsParams) (*repository.ListAdsResult, error) {
	filter := bson.M{}
	if params.Search != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{
			Pattern: regexp.QuoteMeta(params.Search),
			Options: "i",
		}}
	}
	if params.AuthorID != "" {
		filter["author_id"] = params.AuthorID
	}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Skip > 0 {
		findOptions.SetSkip(params.Skip)
	}
	if params.Limit > 0 {
		findOptions.SetLimit(params.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []adDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed ads: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count ads: %w", err)
	}

	ads := make([]entity.Ad, len(docs))
	for i := range docs {
		ads[i] = *toDomainAd(&docs[i])
	}
	return &repository.ListAdsResult{
		Ads:        ads,
		TotalCount: totalCount,
	}, nil
}
