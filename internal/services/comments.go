package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/draws-backend/internal/engine"
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/pkg/socialapi"
)

// CommentFetcher loads the comments a comment draw is tossed against.
// *socialapi.Client implements it.
type CommentFetcher interface {
	GetComments(ctx context.Context, platform socialapi.Platform, postURL string, minMentions int) ([]socialapi.Comment, error)
}

var _ CommentFetcher = (*socialapi.Client)(nil)

// fetchComments loads the comments of a comment draw and classifies provider
// failures as validation errors
func fetchComments(ctx context.Context, fetcher CommentFetcher, draw *models.Draw) ([]models.Comment, error) {
	if fetcher == nil {
		return nil, engine.Wrap(engine.KindUpstreamUnavailable, errors.New("no comment provider configured"), "comments cannot be fetched")
	}
	fetched, err := fetcher.GetComments(ctx, socialapi.Platform(draw.Kind), draw.PostURL, draw.MinMentions)
	if err != nil {
		switch {
		case errors.Is(err, socialapi.ErrInvalidURL):
			return nil, engine.Wrap(engine.KindInvalidURL, err, "the post url is not valid")
		case errors.Is(err, socialapi.ErrNotFound):
			return nil, engine.Wrap(engine.KindNotFound, err, "the post has no comments")
		case errors.Is(err, socialapi.ErrTimeout), errors.Is(err, socialapi.ErrUnavailable):
			return nil, engine.Wrap(engine.KindUpstreamUnavailable, err, "comments are temporarily unavailable")
		default:
			return nil, fmt.Errorf("failed to fetch comments: %w", err)
		}
	}

	comments := make([]models.Comment, len(fetched))
	for i, c := range fetched {
		comments[i] = models.Comment{
			ID:       c.ID,
			Text:     c.Text,
			URL:      c.URL,
			Username: c.Username,
			UserID:   c.UserID,
			Userpic:  c.Userpic,
		}
	}
	return comments, nil
}
