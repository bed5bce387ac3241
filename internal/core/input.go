package core

import "strings"

// Action is a player intent, independent of the key that produced it.
type Action uint8

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionConfirm        // Space, Enter: pick a piece or swap with the picked one
	ActionHint           // H
	ActionShuffle        // X
	ActionBack           // B, Escape
	ActionRestart        // R
	ActionQuit           // Q, Ctrl+C
	ActionPause          // P
	actionCount
)

var actionNames = [actionCount]string{
	"None", "Up", "Down", "Left", "Right", "Confirm",
	"Hint", "Shuffle", "Back", "Restart", "Quit", "Pause",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "Unknown"
}

// InputFrame is the set of actions seen during one tick. The zero value is
// an empty frame.
type InputFrame struct {
	bits uint32
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// FrameOf returns a frame with the given actions set.
func FrameOf(actions ...Action) InputFrame {
	var f InputFrame
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks a as triggered. ActionNone and unknown actions are ignored.
func (f *InputFrame) Set(a Action) {
	if a > ActionNone && a < actionCount {
		f.bits |= 1 << a
	}
}

// Has reports whether a was triggered.
func (f InputFrame) Has(a Action) bool {
	return a < actionCount && f.bits&(1<<a) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f.bits == 0
}

// Clear drops every action.
func (f *InputFrame) Clear() {
	f.bits = 0
}

// String lists the triggered actions, e.g. "Left+Confirm".
func (f InputFrame) String() string {
	var names []string
	for a := ActionNone + 1; a < actionCount; a++ {
		if f.Has(a) {
			names = append(names, a.String())
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "+")
}
