package engine

import (
	"errors"
	"fmt"
	"slices"
)

// ScoringPolicy maps chain length to a base score.
// ChainScores[i] is the base score of a chain of length i+MinChainLength;
// longer chains use the last entry. ComboStep is added to the multiplier
// after each removal cycle of a cascade.
type ScoringPolicy struct {
	ChainScores []int
	ComboStep   int
}

// DefaultScoringPolicy returns 60/120/180 for lengths 3, 4 and 5+.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		ChainScores: []int{60, 120, 180},
		ComboStep:   1,
	}
}

// NewScoringPolicy validates and returns a policy. Scores must be positive
// and non-decreasing so a longer chain never scores less.
func NewScoringPolicy(chainScores []int, comboStep int) (ScoringPolicy, error) {
	p := ScoringPolicy{ChainScores: slices.Clone(chainScores), ComboStep: comboStep}
	if err := p.Validate(); err != nil {
		return ScoringPolicy{}, err
	}
	return p, nil
}

// Validate checks the policy invariants.
func (p ScoringPolicy) Validate() error {
	if len(p.ChainScores) == 0 {
		return errors.New("scoring: chain scores must not be empty")
	}
	if p.ComboStep < 0 {
		return fmt.Errorf("scoring: combo step %d must not be negative", p.ComboStep)
	}
	for i, s := range p.ChainScores {
		if s <= 0 {
			return fmt.Errorf("scoring: score for length %d must be positive, got %d", i+MinChainLength, s)
		}
		if i > 0 && s < p.ChainScores[i-1] {
			return fmt.Errorf("scoring: score for length %d (%d) is below length %d (%d)",
				i+MinChainLength, s, i+MinChainLength-1, p.ChainScores[i-1])
		}
	}
	return nil
}

// Base returns the unmultiplied score of a chain of the given length.
// Lengths below MinChainLength score nothing.
func (p ScoringPolicy) Base(length int) int {
	if length < MinChainLength || len(p.ChainScores) == 0 {
		return 0
	}
	i := min(length-MinChainLength, len(p.ChainScores)-1)
	return p.ChainScores[i]
}

// Score returns the score of a chain under the given combo multiplier.
func (p ScoringPolicy) Score(length, multiplier int) int {
	return p.Base(length) * multiplier
}

// Combo tracks the multiplier of the current player turn.
type Combo struct {
	policy     ScoringPolicy
	multiplier int
}

func newCombo(policy ScoringPolicy) Combo {
	return Combo{policy: policy, multiplier: 1}
}

// Multiplier returns the multiplier the next removal cycle scores with.
func (c *Combo) Multiplier() int {
	return c.multiplier
}

// Reset sets the multiplier back to 1. Called once per player turn.
func (c *Combo) Reset() {
	c.multiplier = 1
}

// score fills in each chain's score with the current multiplier and
// returns their total.
func (c *Combo) score(chains []Chain) int {
	total := 0
	for i := range chains {
		chains[i].Score = c.policy.Score(chains[i].Len(), c.multiplier)
		total += chains[i].Score
	}
	return total
}

// advance moves to the next cascade cycle.
func (c *Combo) advance() {
	c.multiplier += c.policy.ComboStep
}
