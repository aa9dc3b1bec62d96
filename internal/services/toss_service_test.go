package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/draws-backend/internal/engine"
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/pkg/socialapi"
)

func createNumberDraw(t *testing.T, f *fixture) *models.Draw {
	t.Helper()
	draw, err := f.draws.CreateDraw(context.Background(), &models.Draw{
		Kind:            models.DrawKindRandomNumber,
		RangeMin:        1,
		RangeMax:        100,
		NumberOfResults: 1,
	})
	require.NoError(t, err)
	return draw
}

func createInstagramDraw(t *testing.T, f *fixture, prizes ...string) *models.Draw {
	t.Helper()
	draw := &models.Draw{Kind: models.DrawKindInstagram, PostURL: "https://www.instagram.com/p/BAB/"}
	for _, name := range prizes {
		draw.Prizes = append(draw.Prizes, models.Prize{Name: name})
	}
	draw, err := f.draws.CreateDraw(context.Background(), draw)
	require.NoError(t, err)
	return draw
}

func TestToss_KeepsLatestResults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(DefaultResultsLimit)
	draw := createNumberDraw(t, f)

	ids := make([]string, 0, 51)
	for i := 0; i < 51; i++ {
		result, err := f.tosses.Toss(ctx, draw.PrivateID)
		require.NoError(t, err)
		ids = append(ids, result.ID)
	}

	results, err := f.tosses.Results(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, results, 50)
	assert.Equal(t, ids[50], results[0].ID)
	for i, r := range results {
		assert.NotEqual(t, ids[0], r.ID)
		if i > 0 {
			assert.True(t, r.CreatedAt.Before(results[i-1].CreatedAt), "results must be newest first")
		}
	}
}

func TestToss_NotReady(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)
	draw, err := f.draws.CreateDraw(ctx, &models.Draw{
		Kind:   models.DrawKindRaffle,
		Prizes: []models.Prize{{Name: "bike"}},
	})
	require.NoError(t, err)

	_, err = f.tosses.Toss(ctx, draw.PrivateID)
	require.Error(t, err)
	var engineErr *engine.Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, engine.KindNotReady, engineErr.Kind)
	assert.Equal(t, "participants", engineErr.Field)
	assert.Equal(t, 1, engineErr.Minimum)

	results, err := f.tosses.Results(ctx, draw.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestToss_UnknownDraw(t *testing.T) {
	f := newFixture(0)
	_, err := f.tosses.Toss(context.Background(), "missing")
	assert.Error(t, err)
	assert.False(t, engine.IsValidation(err))
}

func TestScheduleToss_ResolvedOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)
	draw := createNumberDraw(t, f)

	scheduled, err := f.tosses.ScheduleToss(ctx, draw.PrivateID, f.clock.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, scheduled.Pending())

	results, err := f.tosses.Results(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Pending(), "not due yet")

	f.clock.Advance(2 * time.Hour)

	var wg sync.WaitGroup
	var mu sync.Mutex
	resolved := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := f.tosses.ResolvePending(ctx, draw)
			assert.NoError(t, err)
			mu.Lock()
			resolved += n
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, resolved)

	first, err := f.tosses.Results(ctx, draw.PrivateID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.False(t, first[0].Pending())

	second, err := f.tosses.Results(ctx, draw.ID)
	require.NoError(t, err)
	assert.Equal(t, first[0].Value, second[0].Value)
}

func TestScheduleToss_PastDate(t *testing.T) {
	f := newFixture(0)
	draw := createNumberDraw(t, f)

	_, err := f.tosses.ScheduleToss(context.Background(), draw.PrivateID, f.clock.Now().Add(-time.Minute))
	assert.Equal(t, engine.KindInvalidConfiguration, engine.KindOf(err))
}

func TestScheduleToss_StaysPendingUntilReady(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)
	draw, err := f.draws.CreateDraw(ctx, &models.Draw{
		Kind:   models.DrawKindRaffle,
		Prizes: []models.Prize{{Name: "bike"}},
	})
	require.NoError(t, err)

	_, err = f.tosses.ScheduleToss(ctx, draw.PrivateID, f.clock.Now().Add(time.Minute))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	results, err := f.tosses.Results(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Pending())

	_, err = f.draws.AddParticipants(ctx, draw.PrivateID, []models.Participant{{Name: "Ada"}})
	require.NoError(t, err)

	results, err = f.tosses.Results(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Pending())

	var winners []models.RaffleWinner
	require.NoError(t, json.Unmarshal(results[0].Value, &winners))
	require.Len(t, winners, 1)
	assert.Equal(t, "Ada", winners[0].Participant.Name)
}

func TestRetoss_ReplacesOnlyOneSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)
	f.fetcher.comments = fakeComments("ana", "bob", "cid", "dan", "eve")
	draw := createInstagramDraw(t, f, "first", "second")

	tossed, err := f.tosses.Toss(ctx, draw.PrivateID)
	require.NoError(t, err)

	retossed, err := f.tosses.Retoss(ctx, draw.PrivateID, draw.Prizes[0].ID)
	require.NoError(t, err)
	assert.True(t, retossed.CreatedAt.After(tossed.CreatedAt))

	var before, after []json.RawMessage
	require.NoError(t, json.Unmarshal(tossed.Value, &before))
	require.NoError(t, json.Unmarshal(retossed.Value, &after))
	require.Len(t, after, 2)
	assert.Equal(t, string(before[1]), string(after[1]))

	var oldSlot, newSlot models.CommentWinner
	require.NoError(t, json.Unmarshal(before[0], &oldSlot))
	require.NoError(t, json.Unmarshal(after[0], &newSlot))
	assert.Equal(t, oldSlot.Prize, newSlot.Prize)
	assert.NotEqual(t, oldSlot.Comment, newSlot.Comment)

	latest, err := f.tosses.Results(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, retossed.ID, latest[0].ID)
}

func TestRetoss_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("not tossed yet", func(t *testing.T) {
		f := newFixture(0)
		f.fetcher.comments = fakeComments("ana", "bob")
		draw := createInstagramDraw(t, f, "first")
		_, err := f.tosses.Retoss(ctx, draw.PrivateID, draw.Prizes[0].ID)
		assert.Equal(t, engine.KindNotReady, engine.KindOf(err))
	})

	t.Run("unknown prize", func(t *testing.T) {
		f := newFixture(0)
		f.fetcher.comments = fakeComments("ana", "bob")
		draw := createInstagramDraw(t, f, "first")
		_, err := f.tosses.Toss(ctx, draw.PrivateID)
		require.NoError(t, err)
		_, err = f.tosses.Retoss(ctx, draw.PrivateID, "nope")
		assert.Equal(t, engine.KindNotFound, engine.KindOf(err))
	})

	t.Run("no other comment", func(t *testing.T) {
		f := newFixture(0)
		f.fetcher.comments = fakeComments("ana")
		draw := createInstagramDraw(t, f, "first")
		_, err := f.tosses.Toss(ctx, draw.PrivateID)
		require.NoError(t, err)
		_, err = f.tosses.Retoss(ctx, draw.PrivateID, draw.Prizes[0].ID)
		assert.Equal(t, engine.KindNotReady, engine.KindOf(err))
	})

	t.Run("not a comment draw", func(t *testing.T) {
		f := newFixture(0)
		draw := createNumberDraw(t, f)
		_, err := f.tosses.Retoss(ctx, draw.PrivateID, "any")
		assert.Equal(t, engine.KindInvalidConfiguration, engine.KindOf(err))
	})
}

func TestToss_CommentProviderFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want engine.ErrorKind
	}{
		{name: "no comments", err: socialapi.ErrNotFound, want: engine.KindNotFound},
		{name: "bad url", err: socialapi.ErrInvalidURL, want: engine.KindInvalidURL},
		{name: "timeout", err: socialapi.ErrTimeout, want: engine.KindUpstreamUnavailable},
		{name: "down", err: socialapi.ErrUnavailable, want: engine.KindUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(0)
			f.fetcher.err = tt.err
			draw := createInstagramDraw(t, f, "first")
			_, err := f.tosses.Toss(context.Background(), draw.PrivateID)
			assert.Equal(t, tt.want, engine.KindOf(err))
		})
	}
}
