package formats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"
)

func TestParseYAML(t *testing.T) {
	lvl, err := ParseYAML([]byte(`
id: 7
name: Seven
size: { columns: 3, rows: 2 }
target_score: 900
moves: 12
tiles:
  - [0, 1, 1]
  - [1, 1, 1]
pieces:
  - { column: 2, row: 1, type: sugar_cookie }
`))
	require.NoError(t, err)

	assert.Equal(t, 7, lvl.ID)
	assert.Equal(t, "Seven", lvl.Name)
	assert.Equal(t, 3, lvl.Columns)
	assert.Equal(t, 2, lvl.Rows)
	assert.Equal(t, 900, lvl.TargetScore)
	assert.Equal(t, 12, lvl.MaxMoves)
	assert.Equal(t, []engine.CellState{
		engine.CellPlayable, engine.CellPlayable, engine.CellPlayable, // row 0
		engine.CellBlocked, engine.CellPlayable, engine.CellPlayable, // row 1
	}, lvl.Cells)
	assert.Equal(t, []engine.FixedPiece{{Column: 2, Row: 1, Type: engine.TileSugarCookie}}, lvl.Pieces)

	layout, err := lvl.Layout()
	require.NoError(t, err)
	assert.Equal(t, 5, layout.PlayableCount())
}

func TestParseJSONLegacyKeys(t *testing.T) {
	lvl, err := ParseJSON([]byte(`{"id": 1, "tiles": [[1,1],[1,1]], "targetScore": 1000, "moves": 15}`), 0)
	require.NoError(t, err)
	assert.Equal(t, 1000, lvl.TargetScore)
	assert.Equal(t, 15, lvl.MaxMoves)
	assert.Equal(t, "Level 1", lvl.Name)

	lvl, err = ParseJSON([]byte(`{"id": 2, "tiles": [[1]], "target_score": 5, "maximumMoves": 3}`), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, lvl.MaxMoves)
}

func TestParseJSONWithoutID(t *testing.T) {
	doc := []byte(`{"tiles": [[1,1,1],[1,1,1],[1,1,1]], "targetScore": 1000, "moves": 15}`)

	lvl, err := ParseJSON(doc, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, lvl.ID)
	assert.Equal(t, "Level 3", lvl.Name)
	assert.Equal(t, 1000, lvl.TargetScore)

	lvl, err = ParseJSON([]byte(`{"id": 7, "tiles": [[1]], "targetScore": 1, "moves": 1}`), 3)
	require.NoError(t, err)
	assert.Equal(t, 7, lvl.ID, "an id in the file wins")

	_, err = ParseJSON(doc, 0)
	var lfe *engine.LevelFormatError
	require.True(t, errors.As(err, &lfe), "got %v", err)
	assert.Equal(t, "id", lfe.Field)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"syntax", "id: [", "document"},
		{"no id", "tiles: [[1]]\ntarget_score: 1\nmoves: 1", "id"},
		{"no tiles", "id: 1\ntarget_score: 1\nmoves: 1", "tiles"},
		{"empty row", "id: 1\ntiles: [[]]\ntarget_score: 1\nmoves: 1", "tiles"},
		{"ragged", "id: 1\ntiles: [[1, 1], [1]]\ntarget_score: 1\nmoves: 1", "tiles"},
		{"bad cell", "id: 1\ntiles: [[1, 2]]\ntarget_score: 1\nmoves: 1", "tiles"},
		{"size mismatch", "id: 1\nsize: {columns: 3, rows: 1}\ntiles: [[1, 1]]\ntarget_score: 1\nmoves: 1", "size"},
		{"no target", "id: 1\ntiles: [[1]]\nmoves: 1", "target_score"},
		{"no moves", "id: 1\ntiles: [[1]]\ntarget_score: 1", "moves"},
		{"bad piece", "id: 1\ntiles: [[1]]\ntarget_score: 1\nmoves: 1\npieces: [{column: 0, row: 0, type: 9}]", "pieces[0].type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc), 0)
			var lfe *engine.LevelFormatError
			require.True(t, errors.As(err, &lfe), "got %v", err)
			assert.Equal(t, tt.field, lfe.Field)
		})
	}
}

func TestFormatExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{".yaml", ".yml", ".json"}, FormatExtensions())
}
