package engine

import (
	"encoding/json"
	"fmt"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
)

// Generator produces the outcome of a single toss for one draw kind.
// Implementations are pure: they read their own fields and the Source only.
type Generator interface {
	// Validate checks that the configuration is internally consistent.
	Validate() error
	// Ready checks that the related entities allow a toss right now.
	Ready() error
	// Generate returns the JSON-serializable outcome.
	Generate(src random.Source) (any, error)
}

// New builds the generator for draw. comments is only read by comment
// raffles and must already be fetched by the caller.
func New(draw *models.Draw, comments []models.Comment) (Generator, error) {
	switch draw.Kind {
	case models.DrawKindRandomNumber:
		return &RandomNumber{
			Min:          draw.RangeMin,
			Max:          draw.RangeMax,
			Count:        draw.NumberOfResults,
			AllowRepeats: draw.AllowRepeatedResults,
		}, nil
	case models.DrawKindLetter:
		return &Letter{Count: draw.NumberOfResults, AllowRepeats: draw.AllowRepeatedResults}, nil
	case models.DrawKindRaffle:
		return &Raffle{Prizes: draw.Prizes, Participants: draw.Participants}, nil
	case models.DrawKindLottery:
		return &Lottery{Participants: draw.Participants, Count: draw.NumberOfResults}, nil
	case models.DrawKindGroups:
		return &Groups{Participants: draw.Participants, Groups: draw.NumberOfGroups}, nil
	case models.DrawKindLink:
		return &Link{Set1: draw.ItemsSet1, Set2: draw.ItemsSet2}, nil
	case models.DrawKindSpinner:
		return Spinner{}, nil
	case models.DrawKindCoin:
		return Coin{}, nil
	case models.DrawKindTournament:
		return &Tournament{Participants: draw.Participants}, nil
	case models.DrawKindShifts:
		return &Shifts{Intervals: draw.Intervals, Participants: draw.Participants}, nil
	case models.DrawKindInstagram, models.DrawKindTiktok:
		return &CommentRaffle{Prizes: draw.Prizes, Comments: comments}, nil
	default:
		return nil, InvalidConfig("unknown draw kind %q", draw.Kind)
	}
}

// Check runs the configuration and readiness checks in order
func Check(gen Generator) error {
	if err := gen.Validate(); err != nil {
		return err
	}
	return gen.Ready()
}

// Toss checks gen and encodes its outcome as a Result value
func Toss(gen Generator, src random.Source) (json.RawMessage, error) {
	if err := Check(gen); err != nil {
		return nil, err
	}
	outcome, err := gen.Generate(src)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(outcome)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outcome: %w", err)
	}
	return value, nil
}
