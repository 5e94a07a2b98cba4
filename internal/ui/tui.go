// ABOUTME: TUI initialization and control channels
// ABOUTME: Wraps the bubbletea program for the muffler console
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmuffler/dmuffler-go/internal/engine"
)

// Control holds the channels the TUI drives the rest of the app through.
type Control struct {
	Commands  chan engine.Command
	PedalTaps chan struct{}
	Quit      chan struct{}
}

// NewControl creates the control channel set.
func NewControl() *Control {
	return &Control{
		Commands:  make(chan engine.Command, 16),
		PedalTaps: make(chan struct{}, 16),
		Quit:      make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model.
func NewModel(ctrl *Control) Model {
	return Model{
		pitchFactor: engine.NeutralPitch,
		ctrl:        ctrl,
	}
}

// Run starts the TUI.
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
