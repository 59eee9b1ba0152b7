// Package ladder models the marketplace's discrete price ladder.
//
// Legal prices sit on a tiered grid that coarsens as prices grow. The
// exact breakpoints are marketplace policy, so they are taken as a
// configurable table rather than hard-coded; Default returns the
// published tiers.
package ladder

import "fmt"

// Tier is one band of the ladder: all prices up to Ceiling move in
// multiples of Step. The last tier has Ceiling 0, meaning unbounded.
type Tier struct {
	Ceiling int
	Step    int
}

// Ladder maps raw values onto the price grid. Both operations are pure
// and total.
type Ladder struct {
	tiers []Tier
}

// Default returns the marketplace's published tier table.
func Default() *Ladder {
	l, _ := New([]Tier{
		{Ceiling: 1_000, Step: 50},
		{Ceiling: 10_000, Step: 100},
		{Ceiling: 50_000, Step: 250},
		{Ceiling: 100_000, Step: 500},
		{Ceiling: 0, Step: 1_000},
	})
	return l
}

// New builds a ladder from a tier table. Ceilings must be strictly
// ascending with the final tier unbounded, and every boundary must sit
// on the grid of both adjacent tiers so rounding never leaves the ladder.
func New(tiers []Tier) (*Ladder, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("ladder: at least one tier required")
	}
	prev := 0
	for i, t := range tiers {
		if t.Step < 1 {
			return nil, fmt.Errorf("ladder: tier %d step must be >= 1", i)
		}
		last := i == len(tiers)-1
		if last {
			if t.Ceiling != 0 {
				return nil, fmt.Errorf("ladder: final tier must be unbounded (ceiling 0)")
			}
		} else {
			if t.Ceiling <= prev {
				return nil, fmt.Errorf("ladder: tier %d ceiling %d not ascending", i, t.Ceiling)
			}
			if t.Ceiling%t.Step != 0 {
				return nil, fmt.Errorf("ladder: tier %d ceiling %d not a multiple of step %d", i, t.Ceiling, t.Step)
			}
		}
		if prev%t.Step != 0 {
			return nil, fmt.Errorf("ladder: tier %d floor %d not a multiple of step %d", i, prev, t.Step)
		}
		prev = t.Ceiling
	}
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return &Ladder{tiers: out}, nil
}

// Round returns the ladder point nearest to v, ties rounding up.
// Idempotent: Round(Round(x)) == Round(x).
func (l *Ladder) Round(v int) int {
	min := l.tiers[0].Step
	if v <= min {
		return min
	}
	t := l.tierFor(v)
	return (v + t.Step/2) / t.Step * t.Step
}

// Increment returns the smallest ladder value strictly greater than
// current, the minimal legal raise over an existing bid.
func (l *Ladder) Increment(current int) int {
	min := l.tiers[0].Step
	if current < min {
		return min
	}
	t := l.tierFor(current + 1)
	return current/t.Step*t.Step + t.Step
}

// tierFor returns the tier whose band contains v.
func (l *Ladder) tierFor(v int) Tier {
	for _, t := range l.tiers[:len(l.tiers)-1] {
		if v <= t.Ceiling {
			return t
		}
	}
	return l.tiers[len(l.tiers)-1]
}
