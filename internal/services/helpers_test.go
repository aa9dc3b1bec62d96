package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ArowuTest/draws-backend/internal/random"
	"github.com/ArowuTest/draws-backend/internal/repositories/memory"
	"github.com/ArowuTest/draws-backend/pkg/socialapi"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seededFactory hands out sources with increasing seeds so every toss differs
// but the test run is repeatable
func seededFactory() random.Factory {
	var mu sync.Mutex
	var seed uint64
	return func() random.Source {
		mu.Lock()
		defer mu.Unlock()
		seed++
		return random.New(seed)
	}
}

type fakeFetcher struct {
	mu       sync.Mutex
	comments []socialapi.Comment
	err      error
	calls    int
}

func (f *fakeFetcher) GetComments(ctx context.Context, platform socialapi.Platform, postURL string, minMentions int) ([]socialapi.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.comments) == 0 {
		return nil, socialapi.ErrNotFound
	}
	return append([]socialapi.Comment(nil), f.comments...), nil
}

func fakeComments(usernames ...string) []socialapi.Comment {
	out := make([]socialapi.Comment, len(usernames))
	for i, u := range usernames {
		out[i] = socialapi.Comment{
			ID:       fmt.Sprintf("c%d", i),
			Text:     "count me in @friend @other",
			Username: u,
			UserID:   "uid-" + u,
			Userpic:  "https://pics.example/" + u,
		}
	}
	return out
}

type fixture struct {
	clock   *testClock
	fetcher *fakeFetcher
	draws   *DrawServiceImpl
	tosses  *TossServiceImpl
	results *memory.ResultRepository
}

func newFixture(limit int) *fixture {
	clock := newTestClock()
	fetcher := &fakeFetcher{}
	drawRepo := memory.NewDrawRepository()
	resultRepo := memory.NewResultRepository()
	return &fixture{
		clock:   clock,
		fetcher: fetcher,
		draws:   NewDrawService(drawRepo, resultRepo).WithClock(clock.Now),
		tosses: NewTossService(drawRepo, resultRepo, fetcher, limit).
			WithClock(clock.Now).
			WithRandom(seededFactory()),
		results: resultRepo,
	}
}
