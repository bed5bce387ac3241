package engine

// Fall records a piece that moved down during compaction.
// Piece holds the new position; FromRow is where it started.
type Fall struct {
	Piece   Piece
	FromRow int
}

// Distance returns how many rows the piece dropped.
func (f Fall) Distance() int {
	return f.FromRow - f.Piece.Row
}

// Cycle is one remove, compact, refill round of a cascade.
type Cycle struct {
	Multiplier int
	Chains     []Chain
	Falls      [][]Fall
	NewPieces  [][]Piece
	Score      int
}

// DetectChains returns every chain currently on the board, horizontal
// ones first, scored with the current combo multiplier. The board is not
// modified, so calling it twice returns the same chains.
func (l *Level) DetectChains() []Chain {
	chains := findChains(l.grid)
	l.combo.score(chains)
	return chains
}

// RemoveMatches clears every piece that belongs to a chain and returns the
// chains, scored with the current multiplier. The multiplier then advances
// so the next cycle of the cascade scores higher. No chains is a normal
// outcome and returns nil without touching the multiplier.
func (l *Level) RemoveMatches() []Chain {
	chains := findChains(l.grid)
	if len(chains) == 0 {
		return nil
	}
	l.combo.score(chains)

	for _, chain := range chains {
		for _, p := range chain.Pieces {
			// Pieces shared by two chains are cleared twice; that is harmless.
			l.grid.slots[l.grid.index(p.Column, p.Row)] = slot{}
		}
	}
	l.combo.advance()
	return chains
}

// FillHoles drops pieces down each column into the lowest free playable
// cells, keeping their order. Blocked cells are obstacles: a piece never
// passes one, so the cells under an obstacle are left for TopUp.
// The result lists the moved pieces per affected column, bottom-up.
func (l *Level) FillHoles() [][]Fall {
	g := l.grid
	var columns [][]Fall

	for column := 0; column < g.Columns(); column++ {
		var falls []Fall
		target := -1 // lowest free cell in the current segment, -1 when none
		for row := 0; row < g.Rows(); row++ {
			if !g.IsPlayable(column, row) {
				target = -1
				continue
			}
			if g.TypeAt(column, row) == TileNone {
				if target < 0 {
					target = row
				}
				continue
			}
			if target < 0 {
				continue
			}
			p := g.move(C(column, row), C(column, target))
			falls = append(falls, Fall{Piece: p, FromRow: row})
			target++
		}
		if len(falls) > 0 {
			columns = append(columns, falls)
		}
	}

	return columns
}

// TopUp creates a random piece in every empty playable cell. The result
// lists the new pieces per affected column, top-down.
func (l *Level) TopUp() [][]Piece {
	g := l.grid
	var columns [][]Piece

	for column := 0; column < g.Columns(); column++ {
		var created []Piece
		for row := g.Rows() - 1; row >= 0; row-- {
			if !g.IsPlayable(column, row) || g.TypeAt(column, row) != TileNone {
				continue
			}
			p, err := g.Set(column, row, RandomTileType(l.rng, l.tileTypes))
			if err != nil {
				// Unreachable: the cell is in bounds and playable.
				panic(err)
			}
			created = append(created, p)
		}
		if len(created) > 0 {
			columns = append(columns, created)
		}
	}

	return columns
}

// ResetComboMultiplier sets the multiplier back to 1.
func (l *Level) ResetComboMultiplier() {
	l.combo.Reset()
}

// ComboMultiplier returns the multiplier the next removal scores with.
func (l *Level) ComboMultiplier() int {
	return l.combo.Multiplier()
}

// Resolve runs remove, compact and refill cycles until the board holds no
// chain, then refreshes the possible swap cache. It does not reset the
// multiplier; Play does that once per turn.
func (l *Level) Resolve() []Cycle {
	var cycles []Cycle
	for {
		multiplier := l.combo.Multiplier()
		chains := l.RemoveMatches()
		if len(chains) == 0 {
			break
		}
		cycle := Cycle{
			Multiplier: multiplier,
			Chains:     chains,
			Falls:      l.FillHoles(),
			NewPieces:  l.TopUp(),
		}
		for _, c := range chains {
			cycle.Score += c.Score
		}
		cycles = append(cycles, cycle)
		l.logger.Debug("cascade cycle", "multiplier", multiplier, "chains", len(chains), "score", cycle.Score)
	}
	l.DetectPossibleSwaps()
	return cycles
}
