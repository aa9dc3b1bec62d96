package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/draws-backend/internal/engine"
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SecretSantaServiceImpl implements SecretSantaService
var _ SecretSantaService = (*SecretSantaServiceImpl)(nil)

// SecretSantaServiceImpl solves, stores and delivers secret santa pairings
type SecretSantaServiceImpl struct {
	repo      repositories.SecretSantaRepository
	notifier  Notifier
	locks     *drawLocks
	newSource random.Factory
	now       func() time.Time
}

// NewSecretSantaService creates a new SecretSantaServiceImpl
func NewSecretSantaService(repo repositories.SecretSantaRepository, notifier Notifier) *SecretSantaServiceImpl {
	return &SecretSantaServiceImpl{
		repo:      repo,
		notifier:  notifier,
		locks:     newDrawLocks(),
		newSource: random.NewUnseeded,
		now:       time.Now,
	}
}

// WithRandom replaces the source factory, for tests
func (s *SecretSantaServiceImpl) WithRandom(factory random.Factory) *SecretSantaServiceImpl {
	s.newSource = factory
	return s
}

// Create solves the pairings, stores one record per participant and notifies
// every participant
func (s *SecretSantaServiceImpl) Create(ctx context.Context, req *models.SecretSantaRequest) (*models.SecretSanta, error) {
	names := make([]string, len(req.Participants))
	emails := make(map[string]string, len(req.Participants))
	exclusions := make(map[string][]string, len(req.Participants))
	for i, p := range req.Participants {
		name := strings.TrimSpace(p.Name)
		names[i] = name
		emails[name] = p.Email
		for _, excluded := range p.Exclusions {
			exclusions[name] = append(exclusions[name], strings.TrimSpace(excluded))
		}
	}

	assignments, err := engine.SolveSecretSanta(s.newSource(), names, exclusions)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	santa := &models.SecretSanta{ID: uuid.NewString(), Language: req.Language, CreatedAt: now}
	if santa.Language == "" {
		santa.Language = "en"
	}
	results := make([]*models.SecretSantaResult, len(assignments))
	for i, a := range assignments {
		results[i] = &models.SecretSantaResult{
			ID:            uuid.NewString(),
			SecretSantaID: santa.ID,
			Source:        a.Source,
			Target:        a.Target,
			Email:         emails[a.Source],
			Valid:         true,
			CreatedAt:     now,
		}
	}
	if err := s.repo.Create(ctx, santa, results); err != nil {
		slog.Error("Failed to store secret santa", "error", err)
		return nil, fmt.Errorf("failed to save secret santa: %w", err)
	}

	for _, result := range results {
		s.notify(ctx, santa, result)
	}
	slog.Info("Secret santa created", "secretSantaId", santa.ID, "participants", len(results))
	return santa, nil
}

// Reveal returns a pairing and marks it as seen. Superseded pairings are gone.
func (s *SecretSantaServiceImpl) Reveal(ctx context.Context, resultID string) (*models.SecretSantaResult, error) {
	result, err := s.repo.FindResultByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to find secret santa result: %w", err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("secret santa result %s was superseded: %w", resultID, repositories.ErrNotFound)
	}
	if !result.Revealed {
		result.Revealed = true
		if err := s.repo.UpdateResult(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to mark result revealed: %w", err)
		}
	}
	return result, nil
}

// Resend replaces an unrevealed pairing with a new record for the same pair,
// optionally to a corrected email. The new record is stored before the old
// one is invalidated, so the pair always keeps exactly one valid record.
func (s *SecretSantaServiceImpl) Resend(ctx context.Context, secretSantaID, resultID, email string) (*models.SecretSantaResult, error) {
	santa, err := s.repo.FindByID(ctx, secretSantaID)
	if err != nil {
		return nil, fmt.Errorf("failed to find secret santa: %w", err)
	}
	unlock := s.locks.lock(santa.ID)
	defer unlock()

	old, err := s.repo.FindResultByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to find secret santa result: %w", err)
	}
	if old.SecretSantaID != santa.ID || !old.Valid {
		return nil, fmt.Errorf("secret santa result %s: %w", resultID, repositories.ErrNotFound)
	}
	if old.Revealed {
		return nil, engine.InvalidConfig("the result was already revealed")
	}

	result := &models.SecretSantaResult{
		ID:            uuid.NewString(),
		SecretSantaID: santa.ID,
		Source:        old.Source,
		Target:        old.Target,
		Email:         old.Email,
		Valid:         true,
		CreatedAt:     s.now().UTC().Truncate(time.Millisecond),
	}
	if email != "" {
		result.Email = email
	}
	if err := s.repo.CreateResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	invalidated, err := s.repo.InvalidateResult(ctx, old.ID)
	if err == nil && !invalidated {
		// another resend of the same pairing won
		err = fmt.Errorf("secret santa result %s was superseded: %w", old.ID, repositories.ErrNotFound)
	}
	if err != nil {
		if _, rbErr := s.repo.InvalidateResult(ctx, result.ID); rbErr != nil {
			slog.Error("Failed to roll back resent result", "error", rbErr, "resultId", result.ID)
		}
		return nil, fmt.Errorf("failed to invalidate result: %w", err)
	}
	s.notify(ctx, santa, result)
	slog.Info("Secret santa result resent", "secretSantaId", santa.ID, "previousResultId", old.ID, "resultId", result.ID)
	return result, nil
}

// AdminResults lists the current pairings of a secret santa without targets
func (s *SecretSantaServiceImpl) AdminResults(ctx context.Context, secretSantaID string) ([]*models.SecretSantaResult, error) {
	if _, err := s.repo.FindByID(ctx, secretSantaID); err != nil {
		return nil, fmt.Errorf("failed to find secret santa: %w", err)
	}
	results, err := s.repo.FindResultsBySecretSantaID(ctx, secretSantaID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.SecretSantaResult, 0, len(results))
	for _, r := range results {
		if !r.Valid {
			continue
		}
		r.Target = ""
		out = append(out, r)
	}
	return out, nil
}

func (s *SecretSantaServiceImpl) notify(ctx context.Context, santa *models.SecretSanta, result *models.SecretSantaResult) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifySecretSanta(ctx, santa, result); err != nil {
		slog.Warn("Failed to notify secret santa participant", "error", err, "resultId", result.ID)
	}
}
