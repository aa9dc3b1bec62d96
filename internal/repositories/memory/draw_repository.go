package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/repositories"
)

// DrawRepository keeps draws in process memory. It backs the memory storage
// driver and the service tests.
type DrawRepository struct {
	mu    sync.RWMutex
	draws map[string]*models.Draw
}

// NewDrawRepository creates an empty DrawRepository
func NewDrawRepository() *DrawRepository {
	return &DrawRepository{draws: make(map[string]*models.Draw)}
}

var _ repositories.DrawRepository = (*DrawRepository)(nil)

func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if draw.CreatedAt.IsZero() {
		draw.CreatedAt = time.Now()
	}
	if draw.UpdatedAt.IsZero() {
		draw.UpdatedAt = draw.CreatedAt
	}
	r.draws[draw.ID] = cloneDraw(draw)
	return nil
}

func (r *DrawRepository) FindByID(ctx context.Context, id string) (*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	draw, ok := r.draws[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneDraw(draw), nil
}

func (r *DrawRepository) FindByPrivateID(ctx context.Context, privateID string) (*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, draw := range r.draws {
		if draw.PrivateID == privateID {
			return cloneDraw(draw), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *DrawRepository) Update(ctx context.Context, draw *models.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.draws[draw.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.draws[draw.ID] = cloneDraw(draw)
	return nil
}

func (r *DrawRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.draws[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.draws, id)
	return nil
}

func (r *DrawRepository) FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	draws := []*models.Draw{}
	for _, draw := range r.draws {
		if draw.CreatedAt.Before(cutoff) {
			draws = append(draws, cloneDraw(draw))
		}
	}
	sort.Slice(draws, func(i, j int) bool { return draws[i].CreatedAt.Before(draws[j].CreatedAt) })
	return draws, nil
}

func cloneDraw(d *models.Draw) *models.Draw {
	cp := *d
	cp.Metadata = slices.Clone(d.Metadata)
	cp.ItemsSet1 = slices.Clone(d.ItemsSet1)
	cp.ItemsSet2 = slices.Clone(d.ItemsSet2)
	cp.Intervals = slices.Clone(d.Intervals)
	cp.Participants = slices.Clone(d.Participants)
	cp.Prizes = slices.Clone(d.Prizes)
	return &cp
}
