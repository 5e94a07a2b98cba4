// ABOUTME: Keyboard dispatch for the playback controls
// ABOUTME: Classifies every key instead of silently swallowing unknowns
package input

import (
	"unicode/utf8"

	"github.com/dmuffler/dmuffler-go/internal/engine"
)

// Action is an input-level intent. Most map 1:1 onto engine commands; the
// pedal tap is consumed by the continuous driver instead.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePlay
	ActionPitchUp
	ActionPitchDown
	ActionReset
	ActionPedalTap
	ActionQuit
)

// KeyClass tags the dispatch result for every key press.
type KeyClass int

const (
	KeyRecognized KeyClass = iota
	KeyIgnored              // known special key with no binding
	KeyUnrecognized         // printable key with no binding
)

// Classify maps a bubbletea key string to an action. Special keys without a
// binding are ignored, unbound printable keys are reported as unrecognized.
func Classify(key string) (Action, KeyClass) {
	switch key {
	case " ", "space":
		return ActionTogglePlay, KeyRecognized
	case "up":
		return ActionPitchUp, KeyRecognized
	case "down":
		return ActionPitchDown, KeyRecognized
	case "r", "R":
		return ActionReset, KeyRecognized
	case "g", "G":
		return ActionPedalTap, KeyRecognized
	case "q", "esc", "ctrl+c":
		return ActionQuit, KeyRecognized
	}

	if utf8.RuneCountInString(key) > 1 {
		return ActionNone, KeyIgnored
	}
	return ActionNone, KeyUnrecognized
}

// Command translates an action into its engine command. The second return
// is false for actions the engine does not handle directly.
func (a Action) Command() (engine.Command, bool) {
	switch a {
	case ActionTogglePlay:
		return engine.Command{Op: engine.OpTogglePlay}, true
	case ActionPitchUp:
		return engine.Command{Op: engine.OpPitchUp}, true
	case ActionPitchDown:
		return engine.Command{Op: engine.OpPitchDown}, true
	case ActionReset:
		return engine.Command{Op: engine.OpReset}, true
	case ActionQuit:
		return engine.Command{Op: engine.OpQuit}, true
	}
	return engine.Command{}, false
}
