package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/countryhouse/ads-service/internal/app/config"
	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/countryhouse/ads-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const imageCollectionName = "ad_images"

type imageRepository struct {
	collection *mongo.Collection
}

func NewImageRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ImageRepository {
	return &imageRepository{
		collection: client.Database(cfg.Database).Collection(imageCollectionName),
	}
}

func (r *imageRepository) Create(ctx context.Context, image *entity.AdImage) (string, error) {
	doc := imageDocument{
		Source: image.Source,
		AdID:   image.AdID,
		Order:  image.Order,
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create image: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *imageRepository) GetByID(ctx context.Context, imageID string) (*entity.AdImage, error) {
	objID, err := primitive.ObjectIDFromHex(imageID)
	if err != nil {
		return nil, fmt.Errorf("invalid image ID format: %w", repository.ErrNotFound)
	}

	var doc imageDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image by ID %s: %w", imageID, err)
	}
	return toDomainImage(&doc), nil
}

// Update rewrites the assignment fields; an empty AdID detaches the row.
func (r *imageRepository) Update(ctx context.Context, image *entity.AdImage) error {
	objID, err := primitive.ObjectIDFromHex(image.ID)
	if err != nil {
		return fmt.Errorf("invalid image ID format for update: %w", repository.ErrUpdateFailed)
	}

	update := bson.M{
		"$set": bson.M{
			"ad_id": image.AdID,
			"order": image.Order,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update image %s: %w", image.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *imageRepository) Delete(ctx context.Context, imageID string) error {
	objID, err := primitive.ObjectIDFromHex(imageID)
	if err != nil {
		return fmt.Errorf("invalid image ID format for delete: %w", repository.ErrDeleteFailed)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *imageRepository) ListByAd(ctx context.Context, adID string) ([]entity.AdImage, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"ad_id": adID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list images of ad %s: %w", adID, err)
	}
	defer cursor.Close(ctx)

	var docs []imageDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed images: %w", err)
	}

	images := make([]entity.AdImage, len(docs))
	for i := range docs {
		images[i] = *toDomainImage(&docs[i])
	}
	return images, nil
}
