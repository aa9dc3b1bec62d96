package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/repositories"
)

// ResultRepository keeps results in process memory
type ResultRepository struct {
	mu      sync.RWMutex
	results map[string]*models.Result
}

// NewResultRepository creates an empty ResultRepository
func NewResultRepository() *ResultRepository {
	return &ResultRepository{results: make(map[string]*models.Result)}
}

var _ repositories.ResultRepository = (*ResultRepository)(nil)

func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.ID] = cloneResult(result)
	return nil
}

func (r *ResultRepository) FindByID(ctx context.Context, id string) (*models.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneResult(result), nil
}

func (r *ResultRepository) FindByDrawID(ctx context.Context, drawID string) ([]*models.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := r.byDraw(drawID)
	slices.Reverse(results)
	return results, nil
}

func (r *ResultRepository) FindLatest(ctx context.Context, drawID string) (*models.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := r.byDraw(drawID)
	if len(results) == 0 {
		return nil, repositories.ErrNotFound
	}
	return results[len(results)-1], nil
}

func (r *ResultRepository) CountByDrawID(ctx context.Context, drawID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, result := range r.results {
		if result.DrawID == drawID {
			n++
		}
	}
	return n, nil
}

func (r *ResultRepository) DeleteOldest(ctx context.Context, drawID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := r.byDraw(drawID)
	if len(results) == 0 {
		return repositories.ErrNotFound
	}
	delete(r.results, results[0].ID)
	return nil
}

func (r *ResultRepository) FindDue(ctx context.Context, drawID string, now time.Time) ([]*models.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	due := []*models.Result{}
	for _, result := range r.byDraw(drawID) {
		if result.Due(now) {
			due = append(due, result)
		}
	}
	return due, nil
}

func (r *ResultRepository) Resolve(ctx context.Context, id string, value json.RawMessage) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if !result.Pending() {
		return false, nil
	}
	result.Value = slices.Clone(value)
	return true, nil
}

func (r *ResultRepository) DeleteByDrawID(ctx context.Context, drawID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, result := range r.results {
		if result.DrawID == drawID {
			delete(r.results, id)
			n++
		}
	}
	return n, nil
}

// byDraw returns copies of the draw's results, oldest first. Ties on
// CreatedAt fall back to the ID so the order is stable.
func (r *ResultRepository) byDraw(drawID string) []*models.Result {
	results := []*models.Result{}
	for _, result := range r.results {
		if result.DrawID == drawID {
			results = append(results, cloneResult(result))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func cloneResult(r *models.Result) *models.Result {
	cp := *r
	cp.Value = slices.Clone(r.Value)
	if r.ScheduleDate != nil {
		at := *r.ScheduleDate
		cp.ScheduleDate = &at
	}
	return &cp
}
