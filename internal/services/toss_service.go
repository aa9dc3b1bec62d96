package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/draws-backend/internal/engine"
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// DefaultResultsLimit is the number of results kept per draw
const DefaultResultsLimit = 50

// Compile-time check to ensure TossServiceImpl implements TossService
var _ TossService = (*TossServiceImpl)(nil)

// TossServiceImpl generates, schedules and resolves results
type TossServiceImpl struct {
	drawRepo     repositories.DrawRepository
	resultRepo   repositories.ResultRepository
	comments     CommentFetcher
	resultsLimit int
	locks        *drawLocks
	newSource    random.Factory
	now          func() time.Time
}

// NewTossService creates a new TossServiceImpl. comments may be nil when no
// comment draws are served.
func NewTossService(
	drawRepo repositories.DrawRepository,
	resultRepo repositories.ResultRepository,
	comments CommentFetcher,
	resultsLimit int,
) *TossServiceImpl {
	if resultsLimit <= 0 {
		resultsLimit = DefaultResultsLimit
	}
	return &TossServiceImpl{
		drawRepo:     drawRepo,
		resultRepo:   resultRepo,
		comments:     comments,
		resultsLimit: resultsLimit,
		locks:        newDrawLocks(),
		newSource:    random.NewUnseeded,
		now:          time.Now,
	}
}

// WithClock replaces the time source, for tests
func (s *TossServiceImpl) WithClock(now func() time.Time) *TossServiceImpl {
	s.now = now
	return s
}

// WithRandom replaces the source factory, for tests
func (s *TossServiceImpl) WithRandom(factory random.Factory) *TossServiceImpl {
	s.newSource = factory
	return s
}

// Toss checks the draw, generates a result and stores it
func (s *TossServiceImpl) Toss(ctx context.Context, privateID string) (*models.Result, error) {
	draw, err := s.drawRepo.FindByPrivateID(ctx, privateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find draw: %w", err)
	}
	gen, err := s.generator(ctx, draw)
	if err != nil {
		return nil, err
	}
	value, err := engine.Toss(gen, s.newSource())
	if err != nil {
		slog.Warn("Draw toss rejected", "drawId", draw.ID, "kind", draw.Kind, "error", err)
		return nil, err
	}

	unlock := s.locks.lock(draw.ID)
	defer unlock()
	result := &models.Result{ID: uuid.NewString(), DrawID: draw.ID, Value: value}
	if err := s.insert(ctx, result); err != nil {
		return nil, err
	}
	slog.Info("Draw tossed", "drawId", draw.ID, "kind", draw.Kind, "resultId", result.ID)
	return result, nil
}

// ScheduleToss stores a pending result. Readiness is only checked when the
// result is resolved, since the draw may change before then.
func (s *TossServiceImpl) ScheduleToss(ctx context.Context, privateID string, at time.Time) (*models.Result, error) {
	draw, err := s.drawRepo.FindByPrivateID(ctx, privateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find draw: %w", err)
	}
	if !at.After(s.now()) {
		return nil, engine.InvalidConfig("schedule_date must be in the future")
	}

	unlock := s.locks.lock(draw.ID)
	defer unlock()
	scheduled := at.UTC().Truncate(time.Millisecond)
	result := &models.Result{ID: uuid.NewString(), DrawID: draw.ID, ScheduleDate: &scheduled}
	if err := s.insert(ctx, result); err != nil {
		return nil, err
	}
	slog.Info("Draw toss scheduled", "drawId", draw.ID, "resultId", result.ID, "scheduleDate", scheduled)
	return result, nil
}

// ResolvePending fills every due scheduled result of draw. When the draw is
// not ready the results stay pending and are retried on the next call.
func (s *TossServiceImpl) ResolvePending(ctx context.Context, draw *models.Draw) (int, error) {
	due, err := s.resultRepo.FindDue(ctx, draw.ID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to find due results: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	gen, err := s.generator(ctx, draw)
	if err == nil {
		err = engine.Check(gen)
	}
	if err != nil {
		if engine.IsValidation(err) {
			slog.Info("Scheduled results left pending", "drawId", draw.ID, "pending", len(due), "reason", err)
			return 0, nil
		}
		return 0, err
	}

	resolved := 0
	for _, result := range due {
		value, err := engine.Toss(gen, s.newSource())
		if err != nil {
			return resolved, err
		}
		ok, err := s.resultRepo.Resolve(ctx, result.ID, value)
		if err != nil {
			return resolved, err
		}
		if ok {
			resolved++
		}
	}
	slog.Info("Scheduled results resolved", "drawId", draw.ID, "resolved", resolved)
	return resolved, nil
}

// Retoss clones the latest result of a comment draw, replacing only the
// comment awarded to prizeID
func (s *TossServiceImpl) Retoss(ctx context.Context, privateID, prizeID string) (*models.Result, error) {
	draw, err := s.drawRepo.FindByPrivateID(ctx, privateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find draw: %w", err)
	}
	if !draw.Kind.UsesComments() {
		return nil, engine.InvalidConfig("%s draws cannot be retossed", draw.Kind)
	}

	unlock := s.locks.lock(draw.ID)
	defer unlock()

	latest, err := s.resultRepo.FindLatest(ctx, draw.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, engine.NotReady("results", 1, "the draw has not been tossed yet")
		}
		return nil, fmt.Errorf("failed to find latest result: %w", err)
	}
	if latest.Pending() {
		return nil, engine.NotReady("results", 1, "the latest result is still pending")
	}

	gen, err := s.generator(ctx, draw)
	if err != nil {
		return nil, err
	}
	if err := engine.Check(gen); err != nil {
		return nil, err
	}
	fresh := gen.(*engine.CommentRaffle).Comments

	value, err := engine.ReplaceSlot(s.newSource(), latest.Value, prizeID, fresh)
	if err != nil {
		return nil, err
	}
	result := &models.Result{ID: uuid.NewString(), DrawID: draw.ID, Value: value}
	if err := s.insert(ctx, result); err != nil {
		return nil, err
	}
	slog.Info("Draw retossed", "drawId", draw.ID, "prizeId", prizeID, "resultId", result.ID, "previousResultId", latest.ID)
	return result, nil
}

// Results resolves due results and lists the draw's results, newest first
func (s *TossServiceImpl) Results(ctx context.Context, id string) ([]*models.Result, error) {
	draw, err := s.drawRepo.FindByPrivateID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		draw, err = s.drawRepo.FindByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find draw: %w", err)
	}
	if _, err := s.ResolvePending(ctx, draw); err != nil {
		return nil, err
	}
	return s.resultRepo.FindByDrawID(ctx, draw.ID)
}

// generator builds the draw's generator, fetching comments for comment draws
// once the configuration is known to be valid
func (s *TossServiceImpl) generator(ctx context.Context, draw *models.Draw) (engine.Generator, error) {
	gen, err := engine.New(draw, nil)
	if err != nil {
		return nil, err
	}
	if !draw.Kind.UsesComments() {
		return gen, nil
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	comments, err := fetchComments(ctx, s.comments, draw)
	if err != nil {
		return nil, err
	}
	return engine.New(draw, comments)
}

// insert stores result with a creation time later than every other result of
// the draw, evicting the oldest ones so the draw keeps at most resultsLimit.
// Callers hold the draw lock.
func (s *TossServiceImpl) insert(ctx context.Context, result *models.Result) error {
	createdAt := s.now().UTC().Truncate(time.Millisecond)
	latest, err := s.resultRepo.FindLatest(ctx, result.DrawID)
	switch {
	case err == nil:
		if !createdAt.After(latest.CreatedAt) {
			createdAt = latest.CreatedAt.Add(time.Millisecond)
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("failed to find latest result: %w", err)
	}
	result.CreatedAt = createdAt

	count, err := s.resultRepo.CountByDrawID(ctx, result.DrawID)
	if err != nil {
		return fmt.Errorf("failed to count results: %w", err)
	}
	for ; count >= int64(s.resultsLimit); count-- {
		if err := s.resultRepo.DeleteOldest(ctx, result.DrawID); err != nil {
			return fmt.Errorf("failed to evict oldest result: %w", err)
		}
	}

	if err := s.resultRepo.Create(ctx, result); err != nil {
		slog.Error("Failed to store result", "error", err, "drawId", result.DrawID)
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}
