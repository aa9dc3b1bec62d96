package engine

import (
	"encoding/json"
	"fmt"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
)

// CommentRaffle pairs prizes with fetched social media comments. Comments are
// de-duplicated by author before shuffling so one user wins at most once
// unless prizes outnumber authors.
type CommentRaffle struct {
	Prizes   []models.Prize
	Comments []models.Comment
}

func (g *CommentRaffle) Validate() error {
	if len(g.Prizes) == 0 {
		return InvalidConfig("prizes cannot be empty")
	}
	return nil
}

func (g *CommentRaffle) Ready() error {
	if len(DedupComments(g.Comments)) < 1 {
		return NotReady("comments", 1, "the post needs to have at least 1 matching comment")
	}
	return nil
}

func (g *CommentRaffle) Generate(src random.Source) (any, error) {
	comments := random.Shuffled(src, DedupComments(g.Comments))
	out := make([]models.CommentWinner, len(g.Prizes))
	for i, prize := range g.Prizes {
		out[i] = models.CommentWinner{
			Prize:   prize.Ref(),
			Comment: comments[i%len(comments)],
		}
	}
	return out, nil
}

// DedupComments keeps the first comment of every username, preserving order
func DedupComments(comments []models.Comment) []models.Comment {
	seen := make(map[string]struct{}, len(comments))
	out := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.Username]; ok {
			continue
		}
		seen[c.Username] = struct{}{}
		out = append(out, c)
	}
	return out
}

type commentSlot struct {
	Prize   json.RawMessage `json:"prize"`
	Comment models.Comment  `json:"comment"`
}

// ReplaceSlot swaps the comment of the first item awarded to prizeID for a
// comment by a different author from fresh. The fresh pool is de-duplicated and shuffled
// with src. Every other item of value is kept byte for byte.
func ReplaceSlot(src random.Source, value json.RawMessage, prizeID string, fresh []models.Comment) (json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, fmt.Errorf("failed to decode result value: %w", err)
	}

	idx := -1
	var slot commentSlot
	for i, item := range items {
		var ref struct {
			Prize struct {
				ID string `json:"id"`
			} `json:"prize"`
		}
		if err := json.Unmarshal(item, &ref); err != nil {
			return nil, fmt.Errorf("failed to decode result item %d: %w", i, err)
		}
		if ref.Prize.ID == prizeID {
			if err := json.Unmarshal(item, &slot); err != nil {
				return nil, fmt.Errorf("failed to decode result item %d: %w", i, err)
			}
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, NotFound("prize %q is not part of the latest result", prizeID)
	}

	candidates := random.Shuffled(src, DedupComments(fresh))
	replaced := false
	for _, c := range candidates {
		if c.Username != slot.Comment.Username {
			slot.Comment = c
			replaced = true
			break
		}
	}
	if !replaced {
		return nil, NotReady("comments", 1, "there is no other comment to pick for prize %q", prizeID)
	}

	item, err := json.Marshal(slot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result item: %w", err)
	}
	items[idx] = item

	out, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result value: %w", err)
	}
	return out, nil
}
