package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ArowuTest/draws-backend/internal/models"
)

// ErrNotFound is returned by every repository when the requested document does not exist
var ErrNotFound = errors.New("not found")

// DrawRepository defines the interface for draw data operations
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	FindByID(ctx context.Context, id string) (*models.Draw, error)
	FindByPrivateID(ctx context.Context, privateID string) (*models.Draw, error)
	Update(ctx context.Context, draw *models.Draw) error
	Delete(ctx context.Context, id string) error
	// FindCreatedBefore lists draws created before cutoff, oldest first
	FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Draw, error)
}

// ResultRepository defines the interface for result data operations.
// Results of a draw are ordered by CreatedAt.
type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	FindByID(ctx context.Context, id string) (*models.Result, error)
	// FindByDrawID lists the results of a draw, newest first
	FindByDrawID(ctx context.Context, drawID string) ([]*models.Result, error)
	FindLatest(ctx context.Context, drawID string) (*models.Result, error)
	CountByDrawID(ctx context.Context, drawID string) (int64, error)
	// DeleteOldest removes the result with the smallest CreatedAt
	DeleteOldest(ctx context.Context, drawID string) error
	// FindDue lists pending results scheduled at or before now, oldest first
	FindDue(ctx context.Context, drawID string, now time.Time) ([]*models.Result, error)
	// Resolve writes value only if the result is still pending and reports
	// whether it did
	Resolve(ctx context.Context, id string, value json.RawMessage) (bool, error)
	DeleteByDrawID(ctx context.Context, drawID string) (int64, error)
}

// SecretSantaRepository defines the interface for secret santa data operations
type SecretSantaRepository interface {
	Create(ctx context.Context, santa *models.SecretSanta, results []*models.SecretSantaResult) error
	FindByID(ctx context.Context, id string) (*models.SecretSanta, error)
	FindResultByID(ctx context.Context, id string) (*models.SecretSantaResult, error)
	FindResultsBySecretSantaID(ctx context.Context, secretSantaID string) ([]*models.SecretSantaResult, error)
	CreateResult(ctx context.Context, result *models.SecretSantaResult) error
	UpdateResult(ctx context.Context, result *models.SecretSantaResult) error
	// InvalidateResult clears the valid flag only if it is still set and
	// reports whether it did
	InvalidateResult(ctx context.Context, id string) (bool, error)
}
