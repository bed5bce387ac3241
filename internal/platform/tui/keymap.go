package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-crunch/internal/core"
)

// quitKeys end the program from any screen.
var quitKeys = []string{"ctrl+c", "q"}

// gameBindings lists the keys of each in-game action.
var gameBindings = []struct {
	action core.Action
	keys   []string
}{
	{core.ActionUp, []string{"w", "up", "k"}},
	{core.ActionDown, []string{"s", "down", "j"}},
	{core.ActionLeft, []string{"a", "left"}},
	{core.ActionRight, []string{"d", "right", "l"}},
	{core.ActionConfirm, []string{" ", "enter"}},
	{core.ActionHint, []string{"h", "?"}},
	{core.ActionShuffle, []string{"x"}},
	{core.ActionBack, []string{"b", "esc"}},
	{core.ActionPause, []string{"p"}},
	{core.ActionRestart, []string{"r"}},
}

// MenuAction is what a key means on a menu screen.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

var menuBindings = []struct {
	action MenuAction
	keys   []string
}{
	{MenuActionUp, []string{"w", "up", "k"}},
	{MenuActionDown, []string{"s", "down", "j"}},
	{MenuActionSelect, []string{"enter", " "}},
	{MenuActionBack, []string{"b", "esc"}},
	{MenuActionScoreboard, []string{"tab"}},
}

// KeyMapper turns key presses into game and menu actions.
type KeyMapper struct {
	game map[string]core.Action
	menu map[string]MenuAction
}

// NewKeyMapper returns a mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	km := &KeyMapper{
		game: make(map[string]core.Action),
		menu: make(map[string]MenuAction),
	}
	for _, b := range gameBindings {
		for _, k := range b.keys {
			km.game[k] = b.action
		}
	}
	for _, b := range menuBindings {
		for _, k := range b.keys {
			km.menu[k] = b.action
		}
	}
	for _, k := range quitKeys {
		km.game[k] = core.ActionQuit
		km.menu[k] = MenuActionQuit
	}
	return km
}

// MapKey returns the game action bound to a key, ActionNone if there is
// none, and whether the key asks to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (core.Action, bool) {
	action := km.game[msg.String()]
	return action, action == core.ActionQuit
}

// MapKeyToFrame records the key's action in frame. Quit is reported to the
// caller instead of being recorded.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, quit := km.MapKey(msg)
	if !quit {
		frame.Set(action)
	}
	return quit
}

// MapKeyToMenuAction returns the menu action bound to a key.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return km.menu[msg.String()]
}
