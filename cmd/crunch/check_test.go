package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"
)

const openLevel = `id: %ID%
name: "Open"
target_score: 100
moves: 10
tiles:
  - [1, 1, 1, 1, 1]
  - [1, 1, 1, 1, 1]
  - [1, 1, 1, 1, 1]
  - [1, 1, 1, 1, 1]
  - [1, 1, 1, 1, 1]
`

// Too small for any chain of three.
const stuckLevel = `id: 9
target_score: 100
moves: 10
tiles:
  - [1, 1]
  - [1, 1]
`

func writeLevel(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func level(id string) string {
	return strings.ReplaceAll(openLevel, "%ID%", id)
}

func TestLevelFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeLevel(t, dir, "a.yaml", level("1"))
	writeLevel(t, dir, "nested/b.yml", level("2"))
	writeLevel(t, dir, "nested/c.json", `{"id": 3, "target_score": 10, "moves": 5, "tiles": [[1,1,1]]}`)
	writeLevel(t, dir, "notes.txt", "not a level")

	files, err := levelFiles([]string{dir})
	if err != nil {
		t.Fatalf("levelFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("found %d files, want 3: %v", len(files), files)
	}

	files, err = levelFiles([]string{a})
	if err != nil {
		t.Fatalf("levelFiles: %v", err)
	}
	if len(files) != 1 || files[0] != a {
		t.Errorf("files = %v, want [%s]", files, a)
	}

	if _, err := levelFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestCheckLevels(t *testing.T) {
	dir := t.TempDir()
	good := writeLevel(t, dir, "good.yaml", level("1"))
	dup := writeLevel(t, dir, "dup.yaml", level("1"))
	stuck := writeLevel(t, dir, "stuck.yaml", stuckLevel)
	broken := writeLevel(t, dir, "broken.yaml", "id: [")

	results := checkLevels([]string{good, dup, stuck, broken}, 1, []engine.Option{engine.WithMaxShuffleAttempts(5)})
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	if r := results[0]; r.Err != nil || r.Swaps == 0 || r.Level.ID != 1 {
		t.Errorf("good level: %+v", r)
	}
	if results[1].Err == nil {
		t.Error("duplicate id should fail")
	}
	var unsolvable *engine.UnsolvableLevelError
	if !errors.As(results[2].Err, &unsolvable) {
		t.Errorf("stuck level err = %v, want UnsolvableLevelError", results[2].Err)
	}
	if results[3].Err == nil {
		t.Error("broken file should fail")
	}
}

func TestCheckLevelsDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := writeLevel(t, dir, "good.yaml", level("1"))

	first := checkLevels([]string{path}, 42, nil)[0]
	second := checkLevels([]string{path}, 42, nil)[0]
	if first.Err != nil || second.Err != nil {
		t.Fatalf("errors: %v, %v", first.Err, second.Err)
	}
	if first.Swaps != second.Swaps {
		t.Errorf("swap counts differ: %d vs %d", first.Swaps, second.Swaps)
	}
}
