package services

import (
	"context"
	"time"

	"github.com/ArowuTest/draws-backend/internal/models"
)

// DrawService defines the interface for draw-related operations.
// Mutations are addressed by the private id; reads accept either id.
type DrawService interface {
	// CreateDraw validates and stores a new draw of any kind
	CreateDraw(ctx context.Context, draw *models.Draw) (*models.Draw, error)

	// GetDraw retrieves a draw by public or private id. owner reports whether
	// the private id was used.
	GetDraw(ctx context.Context, id string) (draw *models.Draw, owner bool, err error)

	// AddParticipants appends participants, skipping repeated facebook ids
	AddParticipants(ctx context.Context, privateID string, participants []models.Participant) (*models.Draw, error)

	// AddPrizes appends prizes to a raffle or comment draw
	AddPrizes(ctx context.Context, privateID string, prizes []models.Prize) (*models.Draw, error)

	// DeleteDraw removes a draw and all of its results
	DeleteDraw(ctx context.Context, privateID string) error

	// PurgeDraws removes draws not used since before the cutoff
	PurgeDraws(ctx context.Context, olderThan time.Duration, dryRun bool) ([]*models.Draw, error)

	// ExportDraw returns the draw together with its results
	ExportDraw(ctx context.Context, id string) (*models.DrawExport, error)
}

// TossService defines the result lifecycle of draws
type TossService interface {
	// Toss generates a result now
	Toss(ctx context.Context, privateID string) (*models.Result, error)

	// ScheduleToss stores a pending result resolved once at has passed
	ScheduleToss(ctx context.Context, privateID string, at time.Time) (*models.Result, error)

	// ResolvePending fills the value of every due scheduled result of the draw
	ResolvePending(ctx context.Context, draw *models.Draw) (int, error)

	// Retoss replaces the comment awarded to one prize in the latest result
	Retoss(ctx context.Context, privateID, prizeID string) (*models.Result, error)

	// Results lists the results of a draw, newest first, after resolving due ones
	Results(ctx context.Context, id string) ([]*models.Result, error)
}

// SecretSantaService defines the secret santa operations
type SecretSantaService interface {
	Create(ctx context.Context, req *models.SecretSantaRequest) (*models.SecretSanta, error)
	Reveal(ctx context.Context, resultID string) (*models.SecretSantaResult, error)
	Resend(ctx context.Context, secretSantaID, resultID, email string) (*models.SecretSantaResult, error)
	AdminResults(ctx context.Context, secretSantaID string) ([]*models.SecretSantaResult, error)
}

// AuthService defines the admin authentication operations
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}
