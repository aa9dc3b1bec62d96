package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/draws-backend/internal/engine"
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"github.com/ArowuTest/draws-backend/internal/repositories/memory"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*models.SecretSantaResult
}

func (n *recordingNotifier) NotifySecretSanta(ctx context.Context, santa *models.SecretSanta, result *models.SecretSantaResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := *result
	n.sent = append(n.sent, &cp)
	return nil
}

func newSecretSantaFixture() (*SecretSantaServiceImpl, *memory.SecretSantaRepository, *recordingNotifier) {
	repo := memory.NewSecretSantaRepository()
	notifier := &recordingNotifier{}
	return NewSecretSantaService(repo, notifier).WithRandom(seededFactory()), repo, notifier
}

func santaRequest() *models.SecretSantaRequest {
	return &models.SecretSantaRequest{
		Participants: []models.SecretSantaParticipant{
			{Name: "Ada", Email: "ada@example.com", Exclusions: []string{"Alan"}},
			{Name: "Alan", Email: "alan@example.com"},
			{Name: "Grace", Email: "grace@example.com"},
		},
	}
}

func TestSecretSanta_Create(t *testing.T) {
	ctx := context.Background()
	svc, repo, notifier := newSecretSantaFixture()

	santa, err := svc.Create(ctx, santaRequest())
	require.NoError(t, err)
	assert.Equal(t, "en", santa.Language)

	results, err := repo.FindResultsBySecretSantaID(ctx, santa.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)
	targets := map[string]string{}
	for _, r := range results {
		assert.True(t, r.Valid)
		assert.NotEqual(t, r.Source, r.Target)
		targets[r.Source] = r.Target
	}
	assert.Equal(t, "Grace", targets["Ada"])
	assert.Len(t, notifier.sent, 3)
}

func TestSecretSanta_CreateUnsatisfiable(t *testing.T) {
	svc, _, notifier := newSecretSantaFixture()
	req := &models.SecretSantaRequest{
		Participants: []models.SecretSantaParticipant{
			{Name: "A", Email: "a@example.com", Exclusions: []string{"C"}},
			{Name: "B", Email: "b@example.com", Exclusions: []string{"C"}},
			{Name: "C", Email: "c@example.com", Exclusions: []string{"B"}},
		},
	}
	_, err := svc.Create(context.Background(), req)
	assert.Equal(t, engine.KindUnsatisfiable, engine.KindOf(err))
	assert.Empty(t, notifier.sent)
}

func TestSecretSanta_RevealAndResend(t *testing.T) {
	ctx := context.Background()
	svc, repo, notifier := newSecretSantaFixture()
	santa, err := svc.Create(ctx, santaRequest())
	require.NoError(t, err)
	results, err := repo.FindResultsBySecretSantaID(ctx, santa.ID)
	require.NoError(t, err)
	first, second := results[0], results[1]

	revealed, err := svc.Reveal(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, revealed.Revealed)
	assert.Equal(t, first.Target, revealed.Target)

	_, err = svc.Resend(ctx, santa.ID, first.ID, "")
	assert.Equal(t, engine.KindInvalidConfiguration, engine.KindOf(err), "revealed pairings are not resent")

	resent, err := svc.Resend(ctx, santa.ID, second.ID, "fixed@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, second.ID, resent.ID)
	assert.Equal(t, second.Source, resent.Source)
	assert.Equal(t, second.Target, resent.Target)
	assert.Equal(t, "fixed@example.com", resent.Email)
	assert.Equal(t, "fixed@example.com", notifier.sent[len(notifier.sent)-1].Email)

	_, err = svc.Reveal(ctx, second.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound), "superseded pairing")

	_, err = svc.Resend(ctx, "other", resent.ID, "")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	admin, err := svc.AdminResults(ctx, santa.ID)
	require.NoError(t, err)
	require.Len(t, admin, 3)
	for _, r := range admin {
		assert.Empty(t, r.Target)
		assert.True(t, r.Valid)
		assert.NotEqual(t, second.ID, r.ID)
	}
}

type failingResultRepo struct {
	*memory.SecretSantaRepository
	err error
}

func (r failingResultRepo) CreateResult(ctx context.Context, result *models.SecretSantaResult) error {
	return r.err
}

func validResults(t *testing.T, repo repositories.SecretSantaRepository, santaID string) []*models.SecretSantaResult {
	t.Helper()
	results, err := repo.FindResultsBySecretSantaID(context.Background(), santaID)
	require.NoError(t, err)
	var valid []*models.SecretSantaResult
	for _, r := range results {
		if r.Valid {
			valid = append(valid, r)
		}
	}
	return valid
}

func TestSecretSanta_ResendKeepsOldRecordWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newSecretSantaFixture()
	santa, err := svc.Create(ctx, santaRequest())
	require.NoError(t, err)
	before := validResults(t, repo, santa.ID)
	require.Len(t, before, 3)

	broken := NewSecretSantaService(failingResultRepo{SecretSantaRepository: repo, err: errors.New("disk full")}, nil)
	_, err = broken.Resend(ctx, santa.ID, before[0].ID, "")
	require.Error(t, err)

	after := validResults(t, repo, santa.ID)
	require.Len(t, after, 3)
	ids := make([]string, len(after))
	for i, r := range after {
		ids[i] = r.ID
	}
	assert.Contains(t, ids, before[0].ID)
}

func TestSecretSanta_ConcurrentResendsLeaveOneValidRecord(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newSecretSantaFixture()
	santa, err := svc.Create(ctx, santaRequest())
	require.NoError(t, err)
	target := validResults(t, repo, santa.ID)[0]

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Resend(ctx, santa.ID, target.ID, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.True(t, errors.Is(err, repositories.ErrNotFound))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	valid := validResults(t, repo, santa.ID)
	require.Len(t, valid, 3)
	sources := map[string]int{}
	for _, r := range valid {
		sources[r.Source]++
	}
	assert.Equal(t, map[string]int{"Ada": 1, "Alan": 1, "Grace": 1}, sources)
}

func TestInvalidateResult_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSecretSantaRepository()
	require.NoError(t, repo.CreateResult(ctx, &models.SecretSantaResult{ID: "r1", Valid: true}))

	ok, err := repo.InvalidateResult(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.InvalidateResult(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.InvalidateResult(ctx, "missing")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
