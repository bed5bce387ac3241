package config

import (
	_ "embed"
)

//go:embed defaults/crunch.yaml
var defaultCrunchYAML []byte

// DefaultCrunchConfig returns the default Crunch configuration.
func DefaultCrunchConfig() CrunchConfig {
	return CrunchConfig{
		Board: CrunchBoard{
			TileTypes:          6,
			MaxShuffleAttempts: 100,
		},
		Scoring: CrunchScoring{
			ChainScores: []int{60, 120, 180},
			ComboStep:   1,
		},
		Gameplay: CrunchGameplay{
			ShuffleCostsMove: true,
			ExtraMoves:       0,
			LevelClearTicks:  90,
			MessageTicks:     60,
		},
		Endless: CrunchEndless{
			TargetGrowth:  1.25,
			MovesPerRound: 20,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "crunch", "crunch_endless":
		return defaultCrunchYAML
	default:
		return nil
	}
}
