package engine

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
)

func TestRandomNumber_DistinctWithinRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int64
		count    int
	}{
		{name: "whole range", min: 1, max: 10, count: 10},
		{name: "single value", min: 7, max: 7, count: 1},
		{name: "negative bounds", min: -5, max: 5, count: 6},
		{name: "huge range", min: math.MinInt64, max: math.MaxInt64, count: 50},
		{name: "sparse", min: 0, max: 1_000_000, count: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < 20; seed++ {
				gen := &RandomNumber{Min: tt.min, Max: tt.max, Count: tt.count}
				require.NoError(t, Check(gen))

				out, err := gen.Generate(random.New(seed))
				require.NoError(t, err)
				values := out.([]int64)
				require.Len(t, values, tt.count)

				seen := make(map[int64]bool)
				for _, v := range values {
					assert.GreaterOrEqual(t, v, tt.min)
					assert.LessOrEqual(t, v, tt.max)
					assert.False(t, seen[v], "value %d repeated", v)
					seen[v] = true
				}
			}
		})
	}
}

func TestRandomNumber_Repeats(t *testing.T) {
	gen := &RandomNumber{Min: 1, Max: 2, Count: 100, AllowRepeats: true}
	require.NoError(t, Check(gen))

	out, err := gen.Generate(random.New(1))
	require.NoError(t, err)
	values := out.([]int64)
	require.Len(t, values, 100)
	for _, v := range values {
		assert.Contains(t, []int64{1, 2}, v)
	}
}

func TestRandomNumber_Validate(t *testing.T) {
	tests := []struct {
		name string
		gen  *RandomNumber
	}{
		{name: "inverted range", gen: &RandomNumber{Min: 10, Max: 1, Count: 1}},
		{name: "zero results", gen: &RandomNumber{Min: 1, Max: 10, Count: 0}},
		{name: "too many results", gen: &RandomNumber{Min: 1, Max: 100000, Count: maxRequests + 1}},
		{name: "more distinct than range", gen: &RandomNumber{Min: 1, Max: 5, Count: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gen.Validate()
			require.Error(t, err)
			assert.Equal(t, KindInvalidConfiguration, KindOf(err))
		})
	}

	require.NoError(t, (&RandomNumber{Min: 1, Max: 5, Count: 6, AllowRepeats: true}).Validate())
}

func TestLetter(t *testing.T) {
	gen := &Letter{Count: 26}
	require.NoError(t, Check(gen))

	out, err := gen.Generate(random.New(3))
	require.NoError(t, err)
	letters := out.([]string)
	require.Len(t, letters, 26)
	assert.ElementsMatch(t, []string{
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
		"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	}, letters)

	assert.Equal(t, KindInvalidConfiguration, KindOf((&Letter{Count: 27}).Validate()))
	require.NoError(t, (&Letter{Count: 27, AllowRepeats: true}).Validate())
}

func TestSpinnerAndCoin(t *testing.T) {
	src := random.New(9)
	for i := 0; i < 200; i++ {
		out, err := Spinner{}.Generate(src)
		require.NoError(t, err)
		n := out.(int)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, SpinnerMax)
	}

	value, err := Toss(Coin{}, src)
	require.NoError(t, err)
	var sides []string
	require.NoError(t, json.Unmarshal(value, &sides))
	require.Len(t, sides, 1)
	assert.Contains(t, []string{CoinHead, CoinTail}, sides[0])
}

func TestLink_PairsByPosition(t *testing.T) {
	gen := &Link{Set1: []string{"a", "a", "b"}, Set2: []string{"x", "y", "z"}}
	require.NoError(t, Check(gen))

	out, err := gen.Generate(random.New(5))
	require.NoError(t, err)
	pairs := out.([]models.LinkPair)
	require.Len(t, pairs, 3)

	var left, right []string
	for _, p := range pairs {
		left = append(left, p.Element1)
		right = append(right, p.Element2)
	}
	assert.ElementsMatch(t, gen.Set1, left)
	assert.ElementsMatch(t, gen.Set2, right)

	assert.Equal(t, KindInvalidConfiguration, KindOf((&Link{Set1: []string{"a"}}).Validate()))
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(&models.Draw{Kind: "dice"}, nil)
	require.Error(t, err)
	assert.Equal(t, KindInvalidConfiguration, KindOf(err))
}

func TestToss_SameSeedSameValue(t *testing.T) {
	draw := &models.Draw{Kind: models.DrawKindRandomNumber, RangeMin: 1, RangeMax: 1000, NumberOfResults: 5}
	gen, err := New(draw, nil)
	require.NoError(t, err)

	a, err := Toss(gen, random.New(42))
	require.NoError(t, err)
	b, err := Toss(gen, random.New(42))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}
