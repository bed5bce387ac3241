package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"
)

// configFile is the name looked up in each search directory.
const configFile = "crunch.yaml"

// SearchPaths lists the files LoadCrunch tries when no path is given,
// most specific first.
func SearchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".crunch", "configs", configFile))
	}
	return append(paths, filepath.Join("configs", configFile))
}

// LoadCrunch returns the game config. An explicit path must exist and
// parse. Otherwise the first readable file from SearchPaths wins, and the
// embedded defaults are used when none is. Files are decoded over the
// defaults, so they only need the keys they change.
func LoadCrunch(customPath string) (CrunchConfig, error) {
	if customPath != "" {
		cfg, err := readCrunch(customPath)
		if err != nil {
			return DefaultCrunchConfig(), err
		}
		return cfg, nil
	}

	for _, path := range SearchPaths() {
		// Broken optional files are skipped.
		if cfg, err := readCrunch(path); err == nil {
			return cfg, nil
		}
	}

	cfg, err := decodeCrunch(defaultCrunchYAML)
	if err != nil {
		return DefaultCrunchConfig(), nil
	}
	return cfg, nil
}

func readCrunch(path string) (CrunchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CrunchConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := decodeCrunch(data)
	if err != nil {
		return CrunchConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// decodeCrunch applies data over the defaults. A list in the file
// replaces the default list instead of merging into it.
func decodeCrunch(data []byte) (CrunchConfig, error) {
	cfg := DefaultCrunchConfig()
	cfg.Scoring.ChainScores = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CrunchConfig{}, err
	}
	if len(cfg.Scoring.ChainScores) == 0 {
		cfg.Scoring.ChainScores = DefaultCrunchConfig().Scoring.ChainScores
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c CrunchConfig) Validate() error {
	var errs []error
	if c.Board.TileTypes < engine.MinTileTypes || c.Board.TileTypes > engine.TileTypeCount {
		errs = append(errs, fmt.Errorf("board.tile_types must be in [%d,%d], got %d",
			engine.MinTileTypes, engine.TileTypeCount, c.Board.TileTypes))
	}
	if c.Board.MaxShuffleAttempts < 1 {
		errs = append(errs, fmt.Errorf("board.max_shuffle_attempts must be positive, got %d", c.Board.MaxShuffleAttempts))
	}
	if _, err := c.ScoringPolicy(); err != nil {
		errs = append(errs, err)
	}
	if c.Gameplay.LevelClearTicks < 0 || c.Gameplay.MessageTicks < 0 {
		errs = append(errs, errors.New("gameplay ticks must not be negative"))
	}
	if c.Endless.TargetGrowth < 1 {
		errs = append(errs, fmt.Errorf("endless.target_growth must be at least 1, got %g", c.Endless.TargetGrowth))
	}
	if c.Endless.MovesPerRound < 1 {
		errs = append(errs, fmt.Errorf("endless.moves_per_round must be positive, got %d", c.Endless.MovesPerRound))
	}
	return errors.Join(errs...)
}

// ScoringPolicy converts the scoring section for the engine.
func (c CrunchConfig) ScoringPolicy() (engine.ScoringPolicy, error) {
	return engine.NewScoringPolicy(c.Scoring.ChainScores, c.Scoring.ComboStep)
}

// LevelOptions returns the engine options this config implies.
func (c CrunchConfig) LevelOptions() ([]engine.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	policy, err := c.ScoringPolicy()
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithTileTypes(c.Board.TileTypes),
		engine.WithMaxShuffleAttempts(c.Board.MaxShuffleAttempts),
		engine.WithScoring(policy),
	}, nil
}
