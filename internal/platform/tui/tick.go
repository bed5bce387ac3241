// Package tui runs crunch in a terminal: the Bubble Tea loop, key mapping,
// menus, the scoreboard and the SSH front end.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one game step.
type TickMsg time.Time

// tickInterval is the time between steps at the given rate. Rates below
// one step per second are raised to one.
func tickInterval(rate int) time.Duration {
	return time.Second / time.Duration(max(rate, 1))
}

// tickCmd schedules the next TickMsg.
func tickCmd(rate int) tea.Cmd {
	return tea.Tick(tickInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
