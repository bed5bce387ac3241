// Package config provides YAML-based game configuration loading and
// difficulty presets for Crunch.
package config

import (
	"fmt"
	"strings"
)

// CrunchConfig contains all configuration for the Crunch game.
type CrunchConfig struct {
	Board    CrunchBoard    `yaml:"board"`
	Scoring  CrunchScoring  `yaml:"scoring"`
	Gameplay CrunchGameplay `yaml:"gameplay"`
	Endless  CrunchEndless  `yaml:"endless"`
}

// CrunchBoard defines board generation parameters.
type CrunchBoard struct {
	TileTypes          int `yaml:"tile_types"`
	MaxShuffleAttempts int `yaml:"max_shuffle_attempts"`
}

// CrunchScoring defines the scoring curve and combo growth.
type CrunchScoring struct {
	ChainScores []int `yaml:"chain_scores"` // Index 0 is a chain of three
	ComboStep   int   `yaml:"combo_step"`
}

// CrunchGameplay defines move accounting and UI pacing.
type CrunchGameplay struct {
	ShuffleCostsMove bool `yaml:"shuffle_costs_move"`
	ExtraMoves       int  `yaml:"extra_moves"`       // Added to every level's move allowance
	LevelClearTicks  int  `yaml:"level_clear_ticks"` // Banner duration between levels
	MessageTicks     int  `yaml:"message_ticks"`     // Combo/hint message duration
}

// CrunchEndless defines the endless mode progression.
type CrunchEndless struct {
	TargetGrowth  float64 `yaml:"target_growth"`
	MovesPerRound int     `yaml:"moves_per_round"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// MinMoves is the smallest move allowance a preset can leave a level with.
const MinMoves = 5

// ParseDifficultyPreset parses a preset name. The empty string means no
// preset and is returned as-is.
func ParseDifficultyPreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyCrunchPreset modifies the config based on a difficulty preset.
// Easy plays with five tile types and five extra moves per level, hard
// takes three moves away.
func ApplyCrunchPreset(cfg *CrunchConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Board.TileTypes = min(cfg.Board.TileTypes, 5)
		cfg.Gameplay.ExtraMoves = 5
	case DifficultyHard:
		cfg.Gameplay.ExtraMoves = -3
	}
}

// MovesFor returns the move allowance for a level after ExtraMoves.
// A penalty never takes a level below MinMoves.
func (c CrunchConfig) MovesFor(levelMoves int) int {
	return max(levelMoves+c.Gameplay.ExtraMoves, min(levelMoves, MinMoves))
}
