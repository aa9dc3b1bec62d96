package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/repositories"
)

// SecretSantaRepository keeps secret santas and their pairings in process memory
type SecretSantaRepository struct {
	mu      sync.RWMutex
	santas  map[string]models.SecretSanta
	results map[string]models.SecretSantaResult
}

// NewSecretSantaRepository creates an empty SecretSantaRepository
func NewSecretSantaRepository() *SecretSantaRepository {
	return &SecretSantaRepository{
		santas:  make(map[string]models.SecretSanta),
		results: make(map[string]models.SecretSantaResult),
	}
}

var _ repositories.SecretSantaRepository = (*SecretSantaRepository)(nil)

func (r *SecretSantaRepository) Create(ctx context.Context, santa *models.SecretSanta, results []*models.SecretSantaResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.santas[santa.ID] = *santa
	for _, res := range results {
		r.results[res.ID] = *res
	}
	return nil
}

func (r *SecretSantaRepository) FindByID(ctx context.Context, id string) (*models.SecretSanta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	santa, ok := r.santas[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &santa, nil
}

func (r *SecretSantaRepository) FindResultByID(ctx context.Context, id string) (*models.SecretSantaResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &result, nil
}

func (r *SecretSantaRepository) FindResultsBySecretSantaID(ctx context.Context, secretSantaID string) ([]*models.SecretSantaResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := []*models.SecretSantaResult{}
	for _, res := range r.results {
		if res.SecretSantaID == secretSantaID {
			res := res
			results = append(results, &res)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

func (r *SecretSantaRepository) CreateResult(ctx context.Context, result *models.SecretSantaResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.ID] = *result
	return nil
}

func (r *SecretSantaRepository) InvalidateResult(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if !result.Valid {
		return false, nil
	}
	result.Valid = false
	r.results[id] = result
	return true, nil
}

func (r *SecretSantaRepository) UpdateResult(ctx context.Context, result *models.SecretSantaResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.results[result.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.results[result.ID] = *result
	return nil
}
