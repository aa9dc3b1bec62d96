package engine

import (
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
)

// Tournament builds a single elimination bracket
type Tournament struct {
	Participants []models.Participant
}

func (g *Tournament) Validate() error { return nil }

func (g *Tournament) Ready() error {
	if len(g.Participants) < 1 {
		return NotReady("participants", 1, "the draw needs to have at least 1 participant")
	}
	return nil
}

func (g *Tournament) Generate(src random.Source) (any, error) {
	return BuildBracket(src, g.Participants)
}

type bracketNode struct {
	match   models.BracketMatch
	feeders []int
	won     bool
	dead    bool
}

// BuildBracket returns the matches of a bracket for participants, leaf round
// first. Matches 2k and 2k+1 of a round feed match k of the next one. Byes are
// resolved before returning: a match left with a single participant once its
// feeders are settled is won by that participant, who moves on to the next
// match, possibly creating another bye there.
func BuildBracket(src random.Source, participants []models.Participant) ([]models.BracketMatch, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyBracket
	}

	size := 2
	for size < len(participants) {
		size *= 2
	}

	nodes := make([]bracketNode, 0, size-1)
	prevOffset, prevCount := -1, 0
	for count := size / 2; count >= 1; count /= 2 {
		offset := len(nodes)
		for i := 0; i < count; i++ {
			node := bracketNode{match: models.BracketMatch{
				ID:           offset + i,
				Participants: []models.ParticipantRef{},
			}}
			if count > 1 {
				next := offset + count + i/2
				node.match.NextMatchID = &next
			}
			if prevCount > 0 {
				node.feeders = []int{prevOffset + 2*i, prevOffset + 2*i + 1}
			}
			nodes = append(nodes, node)
		}
		prevOffset, prevCount = offset, count
	}

	for i, p := range random.Shuffled(src, participants) {
		leaf := &nodes[i/2]
		leaf.match.Participants = append(leaf.match.Participants, p.Ref())
	}

	queue := make([]int, 0, len(nodes))
	for i := 0; i < size/2; i++ {
		queue = append(queue, i)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		node := &nodes[id]
		if node.won || node.dead || !feedersSettled(nodes, node.feeders) {
			continue
		}

		switch len(node.match.Participants) {
		case 0:
			if !feedersDead(nodes, node.feeders) {
				continue
			}
			node.dead = true
		case 1:
			winner := node.match.Participants[0]
			winnerID := winner.ID
			node.match.WinnerID = &winnerID
			node.won = true
			if next := node.match.NextMatchID; next != nil {
				nodes[*next].match.Participants = append(nodes[*next].match.Participants, winner)
			}
		default:
			continue
		}

		if next := node.match.NextMatchID; next != nil {
			queue = append(queue, *next)
		}
	}

	out := make([]models.BracketMatch, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].match
	}
	return out, nil
}

func feedersSettled(nodes []bracketNode, feeders []int) bool {
	for _, f := range feeders {
		if !nodes[f].won && !nodes[f].dead {
			return false
		}
	}
	return true
}

func feedersDead(nodes []bracketNode, feeders []int) bool {
	for _, f := range feeders {
		if !nodes[f].dead {
			return false
		}
	}
	return true
}
