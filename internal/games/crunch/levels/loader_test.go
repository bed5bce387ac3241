package levels

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-crunch/internal/dependencies/random"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"
	"github.com/vovakirdan/tui-crunch/internal/testutil"
)

func testLoader(root string) *Loader {
	l := NewLoader(root)
	l.Logger = testutil.NopLogger()
	return l
}

func TestLoadAllSortsAndSkips(t *testing.T) {
	levels, err := testLoader(filepath.Join("testdata", "valid")).LoadAll()
	require.NoError(t, err)
	require.Len(t, levels, 3)

	legacy := levels[0]
	assert.Equal(t, 10, legacy.ID)
	assert.Equal(t, "Level 10", legacy.Name)
	assert.Equal(t, 500, legacy.TargetScore)
	assert.Equal(t, 8, legacy.MaxMoves)
	assert.Equal(t, filepath.ToSlash(filepath.Join("testdata", "valid", "nested", "legacy.json")), legacy.FilePath)

	small := levels[1]
	assert.Equal(t, 20, small.ID)
	assert.Equal(t, "Small", small.Name, "first file with an id wins")
	assert.Equal(t, 4, small.Columns)
	assert.Equal(t, 3, small.Rows)
	assert.Equal(t, []engine.FixedPiece{
		{Column: 0, Row: 0, Type: engine.TileDonut},
		{Column: 1, Row: 0, Type: engine.TileDanish},
	}, small.Pieces)

	// Files in the original shape have no id; the file name supplies it.
	named := levels[2]
	assert.Equal(t, 30, named.ID)
	assert.Equal(t, "Level 30", named.Name)
	assert.Equal(t, 300, named.TargetScore)
	assert.Equal(t, 12, named.MaxMoves)
}

func TestIDFromName(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Level_3.json", 3},
		{"levels/level_12.yaml", 12},
		{"round7.yml", 7},
		{"small.yml", 0},
		{"Level_.json", 0},
		{"42.json", 42},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, idFromName(tt.name), tt.name)
	}
}

func TestTilesFirstLineIsTopRow(t *testing.T) {
	lvl, err := testLoader(filepath.Join("testdata", "valid")).LoadByID(20)
	require.NoError(t, err)

	layout, err := lvl.Layout()
	require.NoError(t, err)
	assert.False(t, layout.IsPlayable(3, 2), "top right is cut")
	assert.True(t, layout.IsPlayable(3, 0))
	assert.Equal(t, 11, layout.PlayableCount())
}

func TestLoadByIDNotFound(t *testing.T) {
	_, err := testLoader(filepath.Join("testdata", "valid")).LoadByID(99)
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestListIDs(t *testing.T) {
	ids, err := testLoader(filepath.Join("testdata", "valid")).ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, ids)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		file  string
		field string
	}{
		{"ragged.yaml", "tiles"},
		{"bad_piece.yaml", "pieces[0].type"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join("testdata", "invalid", tt.file)
			_, err := LoadFile(path)
			var lfe *engine.LevelFormatError
			require.True(t, errors.As(err, &lfe), "got %v", err)
			assert.Equal(t, tt.field, lfe.Field)
			assert.Equal(t, path, lfe.Path)
		})
	}

	_, err := LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInvalidDirectoryYieldsNothing(t *testing.T) {
	levels, err := testLoader(filepath.Join("testdata", "invalid")).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestNewLevelFixedPieceOnBlockedCell(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocked.yaml")
	data := []byte(`id: 3
target_score: 10
moves: 2
tiles:
  - [0, 1, 1]
  - [1, 1, 1]
pieces:
  - { column: 0, row: 1, type: croissant }
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	lvl, err := LoadFile(path)
	require.NoError(t, err)

	_, err = lvl.NewLevel()
	var lfe *engine.LevelFormatError
	require.True(t, errors.As(err, &lfe))
	assert.Equal(t, "pieces[0]", lfe.Field)
	assert.Equal(t, path, lfe.Path)
}

func TestCampaignLevelsArePlayable(t *testing.T) {
	loader := Campaign()
	loader.Logger = testutil.NopLogger()

	levels, err := loader.LoadAll()
	require.NoError(t, err)
	require.Len(t, levels, 6)

	for i, lvl := range levels {
		assert.Equal(t, i+1, lvl.ID)
		assert.Equal(t, engine.DefaultColumns, lvl.Columns, lvl.Name)
		assert.Equal(t, engine.DefaultRows, lvl.Rows, lvl.Name)
		if i > 0 {
			assert.Greater(t, lvl.TargetScore, levels[i-1].TargetScore)
		}

		board, err := lvl.NewLevel(engine.WithRandom(random.New(int64(lvl.ID))))
		require.NoError(t, err, lvl.Name)
		_, err = board.Shuffle()
		require.NoError(t, err, lvl.Name)
		assert.Empty(t, board.DetectChains())
		for _, fp := range lvl.Pieces {
			assert.Equal(t, fp.Type, board.Grid().TypeAt(fp.Column, fp.Row))
		}
	}
}
