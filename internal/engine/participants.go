package engine

import (
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
)

// Raffle awards every prize, in stored order, to shuffled participants
// taken round-robin. Participants repeat when there are more prizes.
type Raffle struct {
	Prizes       []models.Prize
	Participants []models.Participant
}

func (g *Raffle) Validate() error {
	if len(g.Prizes) == 0 {
		return InvalidConfig("prizes cannot be empty")
	}
	return nil
}

func (g *Raffle) Ready() error {
	if len(g.Participants) < 1 {
		return NotReady("participants", 1, "the draw needs to have at least 1 participant")
	}
	return nil
}

func (g *Raffle) Generate(src random.Source) (any, error) {
	participants := random.Shuffled(src, g.Participants)
	out := make([]models.RaffleWinner, len(g.Prizes))
	for i, prize := range g.Prizes {
		out[i] = models.RaffleWinner{
			Prize:       prize.Ref(),
			Participant: participants[i%len(participants)].Ref(),
		}
	}
	return out, nil
}

// Lottery picks Count distinct winners
type Lottery struct {
	Participants []models.Participant
	Count        int
}

func (g *Lottery) Validate() error {
	return validateCount(g.Count)
}

func (g *Lottery) Ready() error {
	if len(g.Participants) < g.Count {
		return NotReady("participants", g.Count, "the draw needs to have at least %d participants", g.Count)
	}
	return nil
}

func (g *Lottery) Generate(src random.Source) (any, error) {
	participants := random.Shuffled(src, g.Participants)
	out := make([]models.ParticipantRef, g.Count)
	for i := range out {
		out[i] = participants[i].Ref()
	}
	return out, nil
}

// Groups deals shuffled participants into Groups buckets round-robin
type Groups struct {
	Participants []models.Participant
	Groups       int
}

func (g *Groups) Validate() error {
	if g.Groups < 1 {
		return InvalidConfig("number_of_groups must be at least 1")
	}
	return nil
}

func (g *Groups) Ready() error {
	if len(g.Participants) < 1 {
		return NotReady("participants", 1, "the draw needs to have at least 1 participant")
	}
	return nil
}

func (g *Groups) Generate(src random.Source) (any, error) {
	participants := random.Shuffled(src, g.Participants)
	out := make([][]models.ParticipantRef, g.Groups)
	for i := range out {
		out[i] = []models.ParticipantRef{}
	}
	for i, p := range participants {
		out[i%g.Groups] = append(out[i%g.Groups], p.Ref())
	}
	return out, nil
}

// Shifts assigns shuffled participants to the stored intervals positionally.
// Having more participants than intervals is a readiness failure, so
// participants can be added before the intervals that will hold them.
type Shifts struct {
	Intervals    []models.Interval
	Participants []models.Participant
}

func (g *Shifts) Validate() error {
	if len(g.Intervals) == 0 {
		return InvalidConfig("intervals cannot be empty")
	}
	for i, iv := range g.Intervals {
		if iv.EndTime.Before(iv.StartTime) {
			return InvalidConfig("interval %d ends before it starts", i)
		}
	}
	return nil
}

func (g *Shifts) Ready() error {
	if len(g.Participants) < 1 {
		return NotReady("participants", 1, "the draw needs to have at least 1 participant")
	}
	if len(g.Intervals) < len(g.Participants) {
		return NotReady("intervals", len(g.Participants), "the draw needs to have at least %d intervals", len(g.Participants))
	}
	return nil
}

func (g *Shifts) Generate(src random.Source) (any, error) {
	participants := random.Shuffled(src, g.Participants)
	out := make([]models.ShiftAssignment, len(participants))
	for i, p := range participants {
		out[i] = models.ShiftAssignment{
			Interval:     g.Intervals[i],
			Participants: []models.ParticipantRef{p.Ref()},
		}
	}
	return out, nil
}
