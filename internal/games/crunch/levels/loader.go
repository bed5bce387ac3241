// Package levels provides level loading for Crunch: level files on disk
// and the campaign embedded in the binary.
// This package depends on engine but engine does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch/levels/formats"
)

// ErrLevelNotFound is returned by LoadByID for an unknown ID.
var ErrLevelNotFound = errors.New("level not found")

//go:embed campaign/*.yaml campaign/*.json
var campaignFS embed.FS

// Level represents a complete level definition.
type Level struct {
	formats.Level
	FilePath string
}

// Definition converts the level into the engine's input.
func (l *Level) Definition() (engine.Definition, error) {
	layout, err := l.Layout()
	if err != nil {
		return engine.Definition{}, &engine.LevelFormatError{Path: l.FilePath, Field: "tiles", Reason: err.Error()}
	}
	return engine.Definition{
		ID:          l.ID,
		Name:        l.Name,
		Layout:      layout,
		Pieces:      l.Pieces,
		TargetScore: l.TargetScore,
		MaxMoves:    l.MaxMoves,
	}, nil
}

// NewLevel builds an engine level, ready to shuffle.
func (l *Level) NewLevel(opts ...engine.Option) (*engine.Level, error) {
	def, err := l.Definition()
	if err != nil {
		return nil, err
	}
	lvl, err := engine.NewLevel(def, opts...)
	if err != nil {
		return nil, withPath(err, l.FilePath)
	}
	return lvl, nil
}

// Loader handles loading levels from a directory tree.
type Loader struct {
	Root   string
	FS     fs.FS
	Logger *log.Logger
}

// NewLoader creates a loader for a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, FS: os.DirFS(root), Logger: log.Default()}
}

// Campaign returns a loader over the levels built into the binary.
func Campaign() *Loader {
	sub, err := fs.Sub(campaignFS, "campaign")
	if err != nil {
		// Unreachable: the directory is embedded at build time.
		panic(err)
	}
	return &Loader{Root: "campaign", FS: sub, Logger: log.Default()}
}

// LoadAll loads every level file under the root, sorted by ID. Files that
// do not parse are logged and skipped; when two files claim one ID the
// first found wins.
func (l *Loader) LoadAll() ([]Level, error) {
	var out []Level
	owner := make(map[int]string)

	walk := func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if _, ok := parsers[strings.ToLower(path.Ext(name))]; !ok {
			return nil
		}

		lvl, err := l.load(name)
		switch {
		case err != nil:
			l.warn("skipping level file", "path", lvl.FilePath, "err", err)
		case owner[lvl.ID] != "":
			l.warn("skipping duplicate level id", "id", lvl.ID, "path", lvl.FilePath, "first", owner[lvl.ID])
		default:
			owner[lvl.ID] = lvl.FilePath
			out = append(out, lvl)
		}
		return nil
	}
	if err := fs.WalkDir(l.FS, ".", walk); err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	slices.SortFunc(out, func(a, b Level) int { return a.ID - b.ID })
	return out, nil
}

// LoadByID returns the level with the given ID.
func (l *Loader) LoadByID(id int) (Level, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	i := slices.IndexFunc(all, func(lvl Level) bool { return lvl.ID == id })
	if i < 0 {
		return Level{}, fmt.Errorf("%w: %d", ErrLevelNotFound, id)
	}
	return all[i], nil
}

// ListIDs returns the IDs LoadAll would return, in order.
func (l *Loader) ListIDs() ([]int, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(all))
	for _, lvl := range all {
		ids = append(ids, lvl.ID)
	}
	return ids, nil
}

func (l *Loader) load(name string) (Level, error) {
	shown := path.Join(filepath.ToSlash(l.Root), name)
	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return Level{FilePath: shown}, fmt.Errorf("reading file %s: %w", shown, err)
	}
	return parse(data, shown)
}

func (l *Loader) warn(msg string, keyvals ...any) {
	if l.Logger != nil {
		l.Logger.Warn(msg, keyvals...)
	}
}

// LoadFile loads a single level file from disk.
func LoadFile(filename string) (Level, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Level{FilePath: filename}, fmt.Errorf("reading file %s: %w", filename, err)
	}
	return parse(data, filename)
}

// parsers maps a lower-case file extension to its format.
var parsers = map[string]func(data []byte, fallbackID int) (formats.Level, error){
	".yaml": formats.ParseYAML,
	".yml":  formats.ParseYAML,
	".json": formats.ParseJSON,
}

func parse(data []byte, filename string) (Level, error) {
	ext := strings.ToLower(path.Ext(filename))
	parseFormat, ok := parsers[ext]
	if !ok {
		return Level{FilePath: filename}, fmt.Errorf("%s: unsupported extension %q", filename, ext)
	}
	parsed, err := parseFormat(data, idFromName(filename))
	if err != nil {
		return Level{FilePath: filename}, withPath(err, filename)
	}
	return Level{Level: parsed, FilePath: filename}, nil
}

// idFromName reads the number a file name ends with, so Level_3.json is
// level 3. It returns 0 when the name has no trailing number.
func idFromName(filename string) int {
	stem := strings.TrimSuffix(path.Base(filepath.ToSlash(filename)), path.Ext(filename))
	digits := stem[strings.LastIndexFunc(stem, func(r rune) bool { return r < '0' || r > '9' })+1:]
	id, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return id
}

// withPath stamps the file name onto a format error.
func withPath(err error, filename string) error {
	var lfe *engine.LevelFormatError
	if errors.As(err, &lfe) && lfe.Path == "" {
		lfe.Path = filename
	}
	return err
}
