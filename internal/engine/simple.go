package engine

import (
	"math"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/random"
)

const (
	alphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	SpinnerMax  = 259
	CoinHead    = "HEAD"
	CoinTail    = "TAIL"
	maxRequests = 10000
)

// RandomNumber draws Count integers from [Min, Max]
type RandomNumber struct {
	Min          int64
	Max          int64
	Count        int
	AllowRepeats bool
}

func (g *RandomNumber) Validate() error {
	if g.Min > g.Max {
		return InvalidConfig("invalid_range: range_min %d is greater than range_max %d", g.Min, g.Max)
	}
	if err := validateCount(g.Count); err != nil {
		return err
	}
	if !g.AllowRepeats && uint64(g.Count)-1 > uint64(g.Max)-uint64(g.Min) {
		return InvalidConfig("cannot draw %d distinct numbers from [%d, %d]", g.Count, g.Min, g.Max)
	}
	return nil
}

func (g *RandomNumber) Ready() error { return nil }

func (g *RandomNumber) Generate(src random.Source) (any, error) {
	if g.AllowRepeats {
		out := make([]int64, g.Count)
		for i := range out {
			out[i] = random.Int64Range(src, g.Min, g.Max)
		}
		return out, nil
	}
	return sampleDistinct(src, g.Min, g.Max, g.Count), nil
}

// Letter draws Count letters from A-Z
type Letter struct {
	Count        int
	AllowRepeats bool
}

func (g *Letter) Validate() error {
	if err := validateCount(g.Count); err != nil {
		return err
	}
	if !g.AllowRepeats && g.Count > len(alphabet) {
		return InvalidConfig("cannot draw %d distinct letters from %d", g.Count, len(alphabet))
	}
	return nil
}

func (g *Letter) Ready() error { return nil }

func (g *Letter) Generate(src random.Source) (any, error) {
	var idx []int64
	if g.AllowRepeats {
		idx = make([]int64, g.Count)
		for i := range idx {
			idx[i] = int64(src.IntN(len(alphabet)))
		}
	} else {
		idx = sampleDistinct(src, 0, int64(len(alphabet)-1), g.Count)
	}
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = alphabet[n : n+1]
	}
	return out, nil
}

// Spinner lands on one of 260 positions
type Spinner struct{}

func (Spinner) Validate() error { return nil }
func (Spinner) Ready() error    { return nil }

func (Spinner) Generate(src random.Source) (any, error) {
	return src.IntN(SpinnerMax + 1), nil
}

// Coin flips a single coin; the outcome is a one element list
type Coin struct{}

func (Coin) Validate() error { return nil }
func (Coin) Ready() error    { return nil }

func (Coin) Generate(src random.Source) (any, error) {
	return []string{random.Choice(src, []string{CoinHead, CoinTail})}, nil
}

// Link pairs two independently shuffled item lists position by position.
// Duplicated values are kept; pairing is by index, not by value.
type Link struct {
	Set1 []string
	Set2 []string
}

func (g *Link) Validate() error {
	if len(g.Set1) == 0 || len(g.Set2) == 0 {
		return InvalidConfig("both item sets must contain at least one item")
	}
	return nil
}

func (g *Link) Ready() error { return nil }

func (g *Link) Generate(src random.Source) (any, error) {
	items1 := random.Shuffled(src, g.Set1)
	items2 := random.Shuffled(src, g.Set2)
	n := min(len(items1), len(items2))
	out := make([]models.LinkPair, n)
	for i := 0; i < n; i++ {
		out[i] = models.LinkPair{Element1: items1[i], Element2: items2[i]}
	}
	return out, nil
}

func validateCount(n int) error {
	if n < 1 {
		return InvalidConfig("number_of_results must be at least 1")
	}
	if n > maxRequests {
		return InvalidConfig("number_of_results must be at most %d", maxRequests)
	}
	return nil
}

// sampleDistinct returns n distinct values of [lo, hi] in uniformly random
// order. It uses Floyd's subset sampling, which needs exactly n draws, and a
// shuffle, giving the same distribution as redrawing on collision without an
// unbounded loop. Callers guarantee 1 <= n <= hi-lo+1.
func sampleDistinct(src random.Source, lo, hi int64, n int) []int64 {
	span := uint64(hi) - uint64(lo)
	seen := make(map[uint64]struct{}, n)
	out := make([]int64, 0, n)
	for j := span - uint64(n-1); ; j++ {
		var t uint64
		if j == math.MaxUint64 {
			t = src.Uint64()
		} else {
			t = src.Uint64N(j + 1)
		}
		if _, dup := seen[t]; dup {
			t = j
		}
		seen[t] = struct{}{}
		out = append(out, int64(uint64(lo)+t))
		if j == span {
			break
		}
	}
	random.Shuffle(src, out)
	return out
}
