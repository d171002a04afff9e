package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	imageserrors "roombook/internal/images/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

const (
	CollectionName = "display_images"
)

type mongoImageRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type ImageRepository interface {
	Create(ctx context.Context, image *model.DisplayImage) error
	FindByID(ctx context.Context, id string) (*model.DisplayImage, error)
	FindAll(ctx context.Context) ([]*model.DisplayImage, error)
	FindActive(ctx context.Context) ([]*model.DisplayImage, error)
	SetActive(ctx context.Context, id string, active bool) error
	ReplaceFile(ctx context.Context, id, filename, caption string) (*model.DisplayImage, error)
	Delete(ctx context.Context, id string) (*model.DisplayImage, error)
}

func NewMongoImageRepository(cfg *config.Config) ImageRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoImageRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoImageRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoImageRepository) Create(ctx context.Context, image *model.DisplayImage) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	image.UploadedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, image)
	if err != nil {
		return fmt.Errorf("failed to create display image: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		image.ID = oid.Hex()
	}
	return nil
}

func (r *mongoImageRepository) FindByID(ctx context.Context, id string) (*model.DisplayImage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", imageserrors.ErrInvalidID, id)
	}

	var image model.DisplayImage
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, imageserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find display image: %w", err)
	}

	return &image, nil
}

func (r *mongoImageRepository) FindAll(ctx context.Context) ([]*model.DisplayImage, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoImageRepository) FindActive(ctx context.Context) ([]*model.DisplayImage, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *mongoImageRepository) find(ctx context.Context, filter bson.M) ([]*model.DisplayImage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find display images: %w", err)
	}
	defer cursor.Close(ctx)

	var images []*model.DisplayImage
	if err = cursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to decode display images: %w", err)
	}

	return images, nil
}

func (r *mongoImageRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", imageserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"active": active}})
	if err != nil {
		return fmt.Errorf("failed to update display image: %w", err)
	}

	if result.MatchedCount == 0 {
		return imageserrors.ErrNotFound
	}

	return nil
}

// ReplaceFile swaps the stored filename and caption and returns the previous
// record so the caller can clean up the old file.
func (r *mongoImageRepository) ReplaceFile(ctx context.Context, id, filename, caption string) (*model.DisplayImage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", imageserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"filename":    filename,
		"caption":     caption,
		"uploaded_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	var previous model.DisplayImage
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update).Decode(&previous)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, imageserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to replace display image: %w", err)
	}

	return &previous, nil
}

// Delete removes the record and returns it so the caller can clean up the
// stored file.
func (r *mongoImageRepository) Delete(ctx context.Context, id string) (*model.DisplayImage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", imageserrors.ErrInvalidID, id)
	}

	var image model.DisplayImage
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, imageserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete display image: %w", err)
	}

	return &image, nil
}
