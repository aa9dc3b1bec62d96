package engine

import (
	"github.com/ArowuTest/draws-backend/internal/random"
)

// Assignment means Source gives a present to Target
type Assignment struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

const maxGreedyAttempts = 50

// SolveSecretSanta assigns every participant a target other than themselves,
// honoring each participant's own exclusion list (exclusions are directed).
//
// A few randomized greedy passes are tried first. When all of them dead-end
// the solver switches to an exact construction that keeps a perfect matching
// of the remaining participants and only commits an assignment that still
// leaves one, so it reports KindUnsatisfiable only when no assignment exists.
func SolveSecretSanta(src random.Source, participants []string, exclusions map[string][]string) ([]Assignment, error) {
	n := len(participants)
	if n == 0 {
		return nil, InvalidConfig("participants cannot be empty")
	}
	index := make(map[string]int, n)
	for i, name := range participants {
		if _, dup := index[name]; dup {
			return nil, InvalidConfig("participant %q is listed twice", name)
		}
		index[name] = i
	}

	allowed := make([][]bool, n)
	for i := range allowed {
		allowed[i] = make([]bool, n)
		for j := range allowed[i] {
			allowed[i][j] = i != j
		}
		for _, excluded := range exclusions[participants[i]] {
			j, ok := index[excluded]
			if !ok {
				return nil, InvalidConfig("participant %q excludes unknown %q", participants[i], excluded)
			}
			allowed[i][j] = false
		}
	}

	targets, ok := greedyAssign(src, allowed, min(max(n, 1), maxGreedyAttempts))
	if !ok {
		targets, ok = exactAssign(src, allowed)
	}
	if !ok {
		return nil, &Error{Kind: KindUnsatisfiable, Message: "no assignment satisfies the exclusions"}
	}

	out := make([]Assignment, n)
	for i, t := range targets {
		out[i] = Assignment{Source: participants[i], Target: participants[t]}
	}
	return out, nil
}

func greedyAssign(src random.Source, allowed [][]bool, attempts int) ([]int, bool) {
	n := len(allowed)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	candidates := make([]int, 0, n)

attempt:
	for a := 0; a < attempts; a++ {
		random.Shuffle(src, order)
		used := make([]bool, n)
		targets := make([]int, n)
		for _, s := range order {
			candidates = candidates[:0]
			for t := 0; t < n; t++ {
				if allowed[s][t] && !used[t] {
					candidates = append(candidates, t)
				}
			}
			if len(candidates) == 0 {
				continue attempt
			}
			t := random.Choice(src, candidates)
			used[t] = true
			targets[s] = t
		}
		return targets, true
	}
	return nil, false
}

// matcher holds a perfect matching from sources to targets. Fixed sources
// keep their target while the others are rerouted along augmenting paths.
type matcher struct {
	allowed [][]bool
	target  []int
	owner   []int
	fixed   []bool
}

func (m *matcher) augment(s int, seen []bool) bool {
	for t, ok := range m.allowed[s] {
		if !ok || seen[t] {
			continue
		}
		seen[t] = true
		o := m.owner[t]
		if o == -1 || (!m.fixed[o] && m.augment(o, seen)) {
			m.target[s] = t
			m.owner[t] = s
			return true
		}
	}
	return false
}

// fix commits s -> t if the other unfixed sources can still be matched
func (m *matcher) fix(s, t int) bool {
	if m.target[s] == t {
		m.fixed[s] = true
		return true
	}
	u, prev := m.owner[t], m.target[s]
	if m.fixed[u] {
		return false
	}
	target := append([]int(nil), m.target...)
	owner := append([]int(nil), m.owner...)

	m.target[s], m.owner[t] = t, s
	m.owner[prev], m.target[u] = -1, -1
	m.fixed[s] = true
	seen := make([]bool, len(m.allowed))
	seen[t] = true
	if m.augment(u, seen) {
		return true
	}

	m.target, m.owner = target, owner
	m.fixed[s] = false
	return false
}

func exactAssign(src random.Source, allowed [][]bool) ([]int, bool) {
	n := len(allowed)
	m := &matcher{
		allowed: allowed,
		target:  make([]int, n),
		owner:   make([]int, n),
		fixed:   make([]bool, n),
	}
	for i := 0; i < n; i++ {
		m.target[i], m.owner[i] = -1, -1
	}
	for s := 0; s < n; s++ {
		if !m.augment(s, make([]bool, n)) {
			return nil, false
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	random.Shuffle(src, order)
	for _, s := range order {
		candidates := make([]int, 0, n)
		for t := 0; t < n; t++ {
			if allowed[s][t] {
				candidates = append(candidates, t)
			}
		}
		random.Shuffle(src, candidates)
		for _, t := range candidates {
			if m.fix(s, t) {
				break
			}
		}
	}
	return m.target, true
}
