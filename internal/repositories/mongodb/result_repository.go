package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepository implements the repositories.ResultRepository interface.
// Values are stored as the raw JSON bytes of the outcome; a pending result
// stores null.
type ResultRepository struct {
	collection *mongo.Collection
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(db *mongo.Database) repositories.ResultRepository {
	return &ResultRepository{
		collection: db.Collection("results"),
	}
}

// Create inserts a result
func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	if _, err := r.collection.InsertOne(ctx, result); err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// FindByID finds a result by ID
func (r *ResultRepository) FindByID(ctx context.Context, id string) (*models.Result, error) {
	var result models.Result
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find result: %w", err)
	}
	return &result, nil
}

// FindByDrawID lists the results of a draw, newest first
func (r *ResultRepository) FindByDrawID(ctx context.Context, drawID string) ([]*models.Result, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"drawId": drawID}, opts)
}

// FindLatest returns the most recent result of a draw
func (r *ResultRepository) FindLatest(ctx context.Context, drawID string) (*models.Result, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var result models.Result
	err := r.collection.FindOne(ctx, bson.M{"drawId": drawID}, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest result: %w", err)
	}
	return &result, nil
}

// CountByDrawID counts the results of a draw
func (r *ResultRepository) CountByDrawID(ctx context.Context, drawID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"drawId": drawID})
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}

// DeleteOldest removes the oldest result of a draw
func (r *ResultRepository) DeleteOldest(ctx context.Context, drawID string) error {
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	err := r.collection.FindOneAndDelete(ctx, bson.M{"drawId": drawID}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repositories.ErrNotFound
		}
		return fmt.Errorf("failed to delete oldest result: %w", err)
	}
	return nil
}

// FindDue lists pending results whose schedule date has passed
func (r *ResultRepository) FindDue(ctx context.Context, drawID string, now time.Time) ([]*models.Result, error) {
	filter := bson.M{
		"drawId":       drawID,
		"value":        nil,
		"scheduleDate": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, filter, opts)
}

// Resolve sets the value of a pending result. The filter on a null value makes
// concurrent resolutions write at most once.
func (r *ResultRepository) Resolve(ctx context.Context, id string, value json.RawMessage) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "value": nil},
		bson.M{"$set": bson.M{"value": value}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to resolve result: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// DeleteByDrawID removes every result of a draw
func (r *ResultRepository) DeleteByDrawID(ctx context.Context, drawID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"drawId": drawID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *ResultRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Result, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.Result
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []*models.Result{}
	}
	return results, nil
}
