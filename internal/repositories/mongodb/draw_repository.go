package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DrawRepository implements the repositories.DrawRepository interface
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) repositories.DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// Create creates a new draw
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	if draw.CreatedAt.IsZero() {
		draw.CreatedAt = time.Now()
	}
	if draw.UpdatedAt.IsZero() {
		draw.UpdatedAt = draw.CreatedAt
	}
	if _, err := r.collection.InsertOne(ctx, draw); err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}
	return nil
}

// FindByID finds a draw by its public ID
func (r *DrawRepository) FindByID(ctx context.Context, id string) (*models.Draw, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByPrivateID finds a draw by its owner ID
func (r *DrawRepository) FindByPrivateID(ctx context.Context, privateID string) (*models.Draw, error) {
	return r.findOne(ctx, bson.M{"privateId": privateID})
}

func (r *DrawRepository) findOne(ctx context.Context, filter bson.M) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, filter).Decode(&draw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find draw: %w", err)
	}
	return &draw, nil
}

// Update replaces a draw
func (r *DrawRepository) Update(ctx context.Context, draw *models.Draw) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": draw.ID}, draw)
	if err != nil {
		return fmt.Errorf("failed to update draw: %w", err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a draw by ID
func (r *DrawRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete draw: %w", err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindCreatedBefore finds draws created before cutoff
func (r *DrawRepository) FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Draw, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find draws: %w", err)
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.Draw{}
	}
	return draws, nil
}
