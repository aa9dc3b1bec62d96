package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
)

func makeParticipants(n int) []models.Participant {
	out := make([]models.Participant, n)
	for i := range out {
		out[i] = models.Participant{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Participant %d", i)}
	}
	return out
}

func makePrizes(n int) []models.Prize {
	out := make([]models.Prize, n)
	for i := range out {
		out[i] = models.Prize{ID: fmt.Sprintf("z%d", i), Name: fmt.Sprintf("Prize %d", i)}
	}
	return out
}

func TestRaffle_Cycling(t *testing.T) {
	tests := []struct {
		name         string
		participants int
		prizes       int
	}{
		{name: "fewer participants than prizes", participants: 2, prizes: 5},
		{name: "equal", participants: 3, prizes: 3},
		{name: "more participants than prizes", participants: 6, prizes: 2},
		{name: "single participant", participants: 1, prizes: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &Raffle{Prizes: makePrizes(tt.prizes), Participants: makeParticipants(tt.participants)}
			require.NoError(t, Check(gen))

			out, err := gen.Generate(random.New(11))
			require.NoError(t, err)
			winners := out.([]models.RaffleWinner)
			require.Len(t, winners, tt.prizes)

			counts := make(map[string]int)
			for i, w := range winners {
				assert.Equal(t, gen.Prizes[i].ID, w.Prize.ID, "prizes keep their stored order")
				counts[w.Participant.ID]++
			}
			if tt.participants < tt.prizes {
				assert.Len(t, counts, tt.participants, "every participant wins at least once")
			} else {
				assert.Len(t, counts, tt.prizes, "nobody wins twice")
			}
		})
	}
}

func TestRaffle_Readiness(t *testing.T) {
	gen := &Raffle{Prizes: makePrizes(1)}
	err := Check(gen)
	require.Error(t, err)
	assert.Equal(t, KindNotReady, KindOf(err))

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "participants", verr.Field)
	assert.Equal(t, 1, verr.Minimum)

	assert.Equal(t, KindInvalidConfiguration, KindOf(Check(&Raffle{Participants: makeParticipants(2)})))
}

func TestLottery(t *testing.T) {
	gen := &Lottery{Participants: makeParticipants(10), Count: 3}
	require.NoError(t, Check(gen))

	out, err := gen.Generate(random.New(2))
	require.NoError(t, err)
	winners := out.([]models.ParticipantRef)
	require.Len(t, winners, 3)
	seen := make(map[string]bool)
	for _, w := range winners {
		assert.False(t, seen[w.ID])
		seen[w.ID] = true
	}

	err = Check(&Lottery{Participants: makeParticipants(2), Count: 3})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindNotReady, verr.Kind)
	assert.Equal(t, 3, verr.Minimum)
}

func TestGroups_RoundRobin(t *testing.T) {
	gen := &Groups{Participants: makeParticipants(7), Groups: 3}
	require.NoError(t, Check(gen))

	out, err := gen.Generate(random.New(4))
	require.NoError(t, err)
	groups := out.([][]models.ParticipantRef)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0], 3)
	assert.Len(t, groups[1], 2)
	assert.Len(t, groups[2], 2)

	out, err = (&Groups{Participants: makeParticipants(1), Groups: 3}).Generate(random.New(4))
	require.NoError(t, err)
	groups = out.([][]models.ParticipantRef)
	assert.NotNil(t, groups[2], "empty groups encode as [] rather than null")

	assert.Equal(t, KindInvalidConfiguration, KindOf((&Groups{Groups: 0}).Validate()))
}

func TestShifts(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	intervals := []models.Interval{
		{StartTime: start, EndTime: start.Add(time.Hour)},
		{StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour)},
		{StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour)},
	}

	gen := &Shifts{Intervals: intervals, Participants: makeParticipants(2)}
	require.NoError(t, Check(gen))
	out, err := gen.Generate(random.New(8))
	require.NoError(t, err)
	shifts := out.([]models.ShiftAssignment)
	require.Len(t, shifts, 2)
	assert.Equal(t, intervals[0], shifts[0].Interval)
	assert.Equal(t, intervals[1], shifts[1].Interval)
	assert.NotEqual(t, shifts[0].Participants[0].ID, shifts[1].Participants[0].ID)

	tooMany := &Shifts{Intervals: intervals[:1], Participants: makeParticipants(2)}
	require.NoError(t, tooMany.Validate())
	err = Check(tooMany)
	var notReady *Error
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, KindNotReady, notReady.Kind)
	assert.Equal(t, "intervals", notReady.Field)
	assert.Equal(t, 2, notReady.Minimum)

	inverted := &Shifts{Intervals: []models.Interval{{StartTime: start.Add(time.Hour), EndTime: start}}}
	assert.Equal(t, KindInvalidConfiguration, KindOf(inverted.Validate()))

	assert.Equal(t, KindNotReady, KindOf(Check(&Shifts{Intervals: intervals})))
}
