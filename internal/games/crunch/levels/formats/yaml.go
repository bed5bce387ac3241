// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"
)

// YAMLLevel represents the on-disk structure of a level file.
// JSON files use the same keys; camelCase aliases are accepted for the
// older targetScore/maximumMoves spelling.
type YAMLLevel struct {
	ID           int         `yaml:"id"`
	Name         string      `yaml:"name"`
	Size         *YAMLSize   `yaml:"size,omitempty"`
	Tiles        [][]int     `yaml:"tiles"`
	Pieces       []YAMLPiece `yaml:"pieces,omitempty"`
	TargetScore  int         `yaml:"target_score"`
	TargetAlias  int         `yaml:"targetScore"`
	Moves        int         `yaml:"moves"`
	MaximumMoves int         `yaml:"maximumMoves"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// YAMLPiece is a fixed initial piece. Row 0 is the bottom row.
type YAMLPiece struct {
	Column int    `yaml:"column"`
	Row    int    `yaml:"row"`
	Type   string `yaml:"type"` // name or catalogue number
}

// Level represents a parsed level ready for use.
type Level struct {
	ID          int
	Name        string
	Columns     int
	Rows        int
	Cells       []engine.CellState // row-major, row 0 at the bottom
	Pieces      []engine.FixedPiece
	TargetScore int
	MaxMoves    int
}

// ParseYAML parses a YAML level file. fallbackID is used when the file
// has no id of its own; pass 0 to require one.
func ParseYAML(data []byte, fallbackID int) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, &engine.LevelFormatError{Field: "document", Reason: err.Error()}
	}
	if yl.ID == 0 {
		yl.ID = fallbackID
	}
	return yl.toLevel()
}

// ParseJSON parses a JSON level file. JSON is a subset of YAML, so the
// YAML decoder reads it with the same field names. Files in the older
// shape carry no id and rely on fallbackID.
func ParseJSON(data []byte, fallbackID int) (Level, error) {
	return ParseYAML(data, fallbackID)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

func (yl YAMLLevel) toLevel() (Level, error) {
	if yl.ID <= 0 {
		return Level{}, formatErr("id", "must be a positive number, got %d", yl.ID)
	}
	if len(yl.Tiles) == 0 {
		return Level{}, formatErr("tiles", "missing")
	}

	rows := len(yl.Tiles)
	columns := len(yl.Tiles[0])
	if yl.Size != nil && (yl.Size.Columns != columns || yl.Size.Rows != rows) {
		return Level{}, formatErr("size", "declared %dx%d but tiles are %dx%d",
			yl.Size.Columns, yl.Size.Rows, columns, rows)
	}
	if columns == 0 {
		return Level{}, formatErr("tiles", "first row is empty")
	}

	// The first line of the matrix is the top row of the board.
	cells := make([]engine.CellState, columns*rows)
	for line, values := range yl.Tiles {
		if len(values) != columns {
			return Level{}, formatErr("tiles", "line %d has %d cells, want %d", line+1, len(values), columns)
		}
		row := rows - 1 - line
		for column, v := range values {
			switch v {
			case 0:
				cells[row*columns+column] = engine.CellBlocked
			case 1:
				cells[row*columns+column] = engine.CellPlayable
			default:
				return Level{}, formatErr("tiles", "line %d column %d: value %d is not 0 or 1", line+1, column+1, v)
			}
		}
	}

	target := firstPositive(yl.TargetScore, yl.TargetAlias)
	if target <= 0 {
		return Level{}, formatErr("target_score", "must be positive")
	}
	moves := firstPositive(yl.Moves, yl.MaximumMoves)
	if moves <= 0 {
		return Level{}, formatErr("moves", "must be positive")
	}

	pieces := make([]engine.FixedPiece, 0, len(yl.Pieces))
	for i, p := range yl.Pieces {
		t, err := engine.ParseTileType(p.Type)
		if err != nil {
			return Level{}, formatErr(fmt.Sprintf("pieces[%d].type", i), "%v", err)
		}
		pieces = append(pieces, engine.FixedPiece{Column: p.Column, Row: p.Row, Type: t})
	}

	name := yl.Name
	if name == "" {
		name = fmt.Sprintf("Level %d", yl.ID)
	}

	return Level{
		ID:          yl.ID,
		Name:        name,
		Columns:     columns,
		Rows:        rows,
		Cells:       cells,
		Pieces:      pieces,
		TargetScore: target,
		MaxMoves:    moves,
	}, nil
}

// Layout builds the engine layout for the level.
func (l *Level) Layout() (*engine.Layout, error) {
	return engine.NewLayout(l.Columns, l.Rows, l.Cells)
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func formatErr(field, format string, args ...any) error {
	return &engine.LevelFormatError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
