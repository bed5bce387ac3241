// Package registry maps game mode IDs to factories. Modes register from an
// init function so the platform can start them by name.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-crunch/internal/core"
)

// ErrUnknownGame is returned by Create for an ID nothing registered.
var ErrUnknownGame = errors.New("unknown game")

// Game is one playable mode. Implementations hold pure game logic; the
// platform owns input, timing and the terminal.
type Game interface {
	// ID is the stable name used on the command line and in saved scores.
	ID() string
	Title() string

	// Reset starts over with the given screen size and seed. It is called
	// before the first Step and again on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick with the actions seen since the last one.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a fresh game.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries []entry
	byID    = map[string]int{}
)

// Register adds a mode. It panics when id is already taken.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := byID[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	byID[id] = len(entries)
	entries = append(entries, entry{
		info:    GameInfo{ID: id, Title: f().Title()},
		factory: f,
	})
}

func lookup(id string) (entry, bool) {
	mu.RLock()
	defer mu.RUnlock()

	i, ok := byID[id]
	if !ok {
		return entry{}, false
	}
	return entries[i], true
}

// List returns the registered modes in registration order.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	infos := make([]GameInfo, len(entries))
	for i, e := range entries {
		infos[i] = e.info
	}
	return infos
}

// Title returns the display name of a mode, or id when it is unknown.
func Title(id string) string {
	if e, ok := lookup(id); ok {
		return e.info.Title
	}
	return id
}

// Create builds a new instance of the mode registered as id.
func Create(id string) (Game, error) {
	e, ok := lookup(id)
	if !ok {
		return nil, fmt.Errorf("registry: %w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	_, ok := lookup(id)
	return ok
}
