package config

import "math"

// EndlessProgression calculates round targets for endless mode.
type EndlessProgression struct {
	cfg CrunchEndless
}

// NewEndlessProgression creates a new progression.
func NewEndlessProgression(cfg CrunchEndless) *EndlessProgression {
	return &EndlessProgression{cfg: cfg}
}

// Target returns the score needed to clear a round (0-based), growing
// geometrically from the layout's own target. Rounded to a multiple of 10.
func (p *EndlessProgression) Target(baseTarget, round int) int {
	growth := math.Max(p.cfg.TargetGrowth, 1.0)
	target := float64(baseTarget) * math.Pow(growth, float64(max(round, 0)))
	return max(int(math.Round(target/10))*10, baseTarget)
}

// Moves returns the move allowance of every round.
func (p *EndlessProgression) Moves() int {
	return max(p.cfg.MovesPerRound, 1)
}
