package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SecretSantaRepository implements the repositories.SecretSantaRepository interface
type SecretSantaRepository struct {
	santas  *mongo.Collection
	results *mongo.Collection
}

// NewSecretSantaRepository creates a new SecretSantaRepository
func NewSecretSantaRepository(db *mongo.Database) repositories.SecretSantaRepository {
	return &SecretSantaRepository{
		santas:  db.Collection("secret_santas"),
		results: db.Collection("secret_santa_results"),
	}
}

// Create inserts a secret santa together with its pairings
func (r *SecretSantaRepository) Create(ctx context.Context, santa *models.SecretSanta, results []*models.SecretSantaResult) error {
	if _, err := r.santas.InsertOne(ctx, santa); err != nil {
		return fmt.Errorf("failed to insert secret santa: %w", err)
	}
	if len(results) == 0 {
		return nil
	}
	docs := make([]interface{}, len(results))
	for i, res := range results {
		docs[i] = res
	}
	if _, err := r.results.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert secret santa results: %w", err)
	}
	return nil
}

// FindByID finds a secret santa by ID
func (r *SecretSantaRepository) FindByID(ctx context.Context, id string) (*models.SecretSanta, error) {
	var santa models.SecretSanta
	if err := r.santas.FindOne(ctx, bson.M{"_id": id}).Decode(&santa); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find secret santa: %w", err)
	}
	return &santa, nil
}

// FindResultByID finds a single pairing
func (r *SecretSantaRepository) FindResultByID(ctx context.Context, id string) (*models.SecretSantaResult, error) {
	var result models.SecretSantaResult
	if err := r.results.FindOne(ctx, bson.M{"_id": id}).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find secret santa result: %w", err)
	}
	return &result, nil
}

// FindResultsBySecretSantaID lists every pairing of a secret santa, including invalidated ones
func (r *SecretSantaRepository) FindResultsBySecretSantaID(ctx context.Context, secretSantaID string) ([]*models.SecretSantaResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.results.Find(ctx, bson.M{"secretSantaId": secretSantaID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find secret santa results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.SecretSantaResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []*models.SecretSantaResult{}
	}
	return results, nil
}

// CreateResult inserts a single pairing
func (r *SecretSantaRepository) CreateResult(ctx context.Context, result *models.SecretSantaResult) error {
	if _, err := r.results.InsertOne(ctx, result); err != nil {
		return fmt.Errorf("failed to insert secret santa result: %w", err)
	}
	return nil
}

// UpdateResult replaces a pairing
func (r *SecretSantaRepository) UpdateResult(ctx context.Context, result *models.SecretSantaResult) error {
	res, err := r.results.ReplaceOne(ctx, bson.M{"_id": result.ID}, result)
	if err != nil {
		return fmt.Errorf("failed to update secret santa result: %w", err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// InvalidateResult flips a still valid pairing to invalid. The filter on the
// flag makes concurrent resends of one pairing invalidate it once.
func (r *SecretSantaRepository) InvalidateResult(ctx context.Context, id string) (bool, error) {
	res, err := r.results.UpdateOne(ctx,
		bson.M{"_id": id, "valid": true},
		bson.M{"$set": bson.M{"valid": false}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to invalidate secret santa result: %w", err)
	}
	return res.ModifiedCount == 1, nil
}
