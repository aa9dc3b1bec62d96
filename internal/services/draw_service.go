package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/draws-backend/internal/engine"
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"github.com/ArowuTest/draws-backend/pkg/socialapi"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl handles draw configuration and related entities
type DrawServiceImpl struct {
	drawRepo   repositories.DrawRepository
	resultRepo repositories.ResultRepository
	locks      *drawLocks
	now        func() time.Time
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(drawRepo repositories.DrawRepository, resultRepo repositories.ResultRepository) *DrawServiceImpl {
	return &DrawServiceImpl{
		drawRepo:   drawRepo,
		resultRepo: resultRepo,
		locks:      newDrawLocks(),
		now:        time.Now,
	}
}

// WithClock replaces the time source, for tests
func (s *DrawServiceImpl) WithClock(now func() time.Time) *DrawServiceImpl {
	s.now = now
	return s
}

// CreateDraw validates and stores a new draw
func (s *DrawServiceImpl) CreateDraw(ctx context.Context, draw *models.Draw) (*models.Draw, error) {
	if !draw.Kind.Valid() {
		return nil, engine.InvalidConfig("unknown draw kind %q", draw.Kind)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	draw.ID = uuid.NewString()
	draw.PrivateID = uuid.NewString()
	draw.CreatedAt = now
	draw.UpdatedAt = now

	participants := draw.Participants
	draw.Participants = nil
	if err := appendParticipants(draw, participants, now); err != nil {
		return nil, err
	}
	for i := range draw.Prizes {
		if err := preparePrize(&draw.Prizes[i], now); err != nil {
			return nil, err
		}
	}
	if err := validateDraw(draw); err != nil {
		return nil, err
	}

	if err := s.drawRepo.Create(ctx, draw); err != nil {
		slog.Error("Failed to create draw in repository", "error", err, "kind", draw.Kind)
		return nil, fmt.Errorf("failed to save draw: %w", err)
	}
	slog.Info("Draw created", "drawId", draw.ID, "kind", draw.Kind)
	return draw, nil
}

// GetDraw retrieves a draw by private id first, then by public id
func (s *DrawServiceImpl) GetDraw(ctx context.Context, id string) (*models.Draw, bool, error) {
	draw, err := s.drawRepo.FindByPrivateID(ctx, id)
	if err == nil {
		return draw, true, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to find draw: %w", err)
	}
	draw, err = s.drawRepo.FindByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find draw %s: %w", id, err)
	}
	return draw, false, nil
}

// AddParticipants appends participants to a draw that has them
func (s *DrawServiceImpl) AddParticipants(ctx context.Context, privateID string, participants []models.Participant) (*models.Draw, error) {
	return s.update(ctx, privateID, func(draw *models.Draw, now time.Time) error {
		switch draw.Kind {
		case models.DrawKindRaffle, models.DrawKindLottery, models.DrawKindGroups,
			models.DrawKindTournament, models.DrawKindShifts:
		default:
			return engine.InvalidConfig("%s draws do not take participants", draw.Kind)
		}
		before := len(draw.Participants)
		if err := appendParticipants(draw, participants, now); err != nil {
			return err
		}
		slog.Info("Participants added", "drawId", draw.ID, "added", len(draw.Participants)-before, "skipped", len(participants)-(len(draw.Participants)-before))
		return nil
	})
}

// AddPrizes appends prizes to a draw that awards them
func (s *DrawServiceImpl) AddPrizes(ctx context.Context, privateID string, prizes []models.Prize) (*models.Draw, error) {
	return s.update(ctx, privateID, func(draw *models.Draw, now time.Time) error {
		if draw.Kind != models.DrawKindRaffle && !draw.Kind.UsesComments() {
			return engine.InvalidConfig("%s draws do not take prizes", draw.Kind)
		}
		for i := range prizes {
			if err := preparePrize(&prizes[i], now); err != nil {
				return err
			}
		}
		draw.Prizes = append(draw.Prizes, prizes...)
		return nil
	})
}

// update applies change under the draw lock and stores the draw only if the
// changed configuration is still valid
func (s *DrawServiceImpl) update(ctx context.Context, privateID string, change func(*models.Draw, time.Time) error) (*models.Draw, error) {
	draw, err := s.drawRepo.FindByPrivateID(ctx, privateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find draw: %w", err)
	}
	unlock := s.locks.lock(draw.ID)
	defer unlock()

	// reload under the lock so concurrent updates are not lost
	draw, err = s.drawRepo.FindByID(ctx, draw.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find draw: %w", err)
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	if err := change(draw, now); err != nil {
		return nil, err
	}
	if err := validateDraw(draw); err != nil {
		return nil, err
	}
	draw.UpdatedAt = now
	if err := s.drawRepo.Update(ctx, draw); err != nil {
		slog.Error("Failed to update draw", "error", err, "drawId", draw.ID)
		return nil, fmt.Errorf("failed to update draw: %w", err)
	}
	return draw, nil
}

// DeleteDraw removes a draw and cascades to its results
func (s *DrawServiceImpl) DeleteDraw(ctx context.Context, privateID string) error {
	draw, err := s.drawRepo.FindByPrivateID(ctx, privateID)
	if err != nil {
		return fmt.Errorf("failed to find draw: %w", err)
	}
	return s.delete(ctx, draw)
}

func (s *DrawServiceImpl) delete(ctx context.Context, draw *models.Draw) error {
	unlock := s.locks.lock(draw.ID)
	defer unlock()

	removed, err := s.resultRepo.DeleteByDrawID(ctx, draw.ID)
	if err != nil {
		return fmt.Errorf("failed to delete results of draw %s: %w", draw.ID, err)
	}
	if err := s.drawRepo.Delete(ctx, draw.ID); err != nil {
		return fmt.Errorf("failed to delete draw %s: %w", draw.ID, err)
	}
	slog.Info("Draw deleted", "drawId", draw.ID, "results", removed)
	return nil
}

// PurgeDraws removes draws whose latest usage is older than olderThan. The
// latest usage of a draw is the newest of its creation time and the creation
// and schedule times of its results.
func (s *DrawServiceImpl) PurgeDraws(ctx context.Context, olderThan time.Duration, dryRun bool) ([]*models.Draw, error) {
	cutoff := s.now().UTC().Add(-olderThan)
	candidates, err := s.drawRepo.FindCreatedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list purge candidates: %w", err)
	}

	purged := []*models.Draw{}
	for _, draw := range candidates {
		results, err := s.resultRepo.FindByDrawID(ctx, draw.ID)
		if err != nil {
			return purged, fmt.Errorf("failed to list results of draw %s: %w", draw.ID, err)
		}
		lastUsage := draw.CreatedAt
		for _, r := range results {
			if usage := r.LastUsage(); usage.After(lastUsage) {
				lastUsage = usage
			}
		}
		if !lastUsage.Before(cutoff) {
			continue
		}
		if !dryRun {
			if err := s.delete(ctx, draw); err != nil {
				return purged, err
			}
		}
		purged = append(purged, draw)
	}
	slog.Info("Purge finished", "cutoff", cutoff, "candidates", len(candidates), "purged", len(purged), "dryRun", dryRun)
	return purged, nil
}

// ExportDraw returns a draw with all of its results
func (s *DrawServiceImpl) ExportDraw(ctx context.Context, id string) (*models.DrawExport, error) {
	draw, _, err := s.GetDraw(ctx, id)
	if err != nil {
		return nil, err
	}
	results, err := s.resultRepo.FindByDrawID(ctx, draw.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return &models.DrawExport{Draw: draw, Results: results}, nil
}

// appendParticipants assigns ids to the new participants and appends them,
// skipping any whose facebook id is already on the draw
func appendParticipants(draw *models.Draw, participants []models.Participant, now time.Time) error {
	seen := make(map[string]bool, len(draw.Participants))
	for _, p := range draw.Participants {
		if p.FacebookID != "" {
			seen[p.FacebookID] = true
		}
	}
	for _, p := range participants {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return engine.InvalidConfig("participant name cannot be empty")
		}
		if p.FacebookID != "" {
			if seen[p.FacebookID] {
				continue
			}
			seen[p.FacebookID] = true
		}
		p.ID = uuid.NewString()
		p.CreatedAt = now
		draw.Participants = append(draw.Participants, p)
	}
	return nil
}

func preparePrize(p *models.Prize, now time.Time) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return engine.InvalidConfig("prize name cannot be empty")
	}
	p.ID = uuid.NewString()
	p.CreatedAt = now
	return nil
}

// validateDraw runs the configuration check of the draw's generator. Comment
// draws also need a post URL the providers understand.
func validateDraw(draw *models.Draw) error {
	if draw.Kind.UsesComments() {
		if _, err := socialapi.MediaID(socialapi.Platform(draw.Kind), draw.PostURL); err != nil {
			return engine.Wrap(engine.KindInvalidURL, err, "the post url is not valid")
		}
		if draw.MinMentions < 0 {
			return engine.InvalidConfig("min_mentions cannot be negative")
		}
	}
	gen, err := engine.New(draw, nil)
	if err != nil {
		return err
	}
	return gen.Validate()
}
