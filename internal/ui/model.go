// ABOUTME: Bubbletea model for the muffler console
// ABOUTME: Renders playback state and routes keys through input dispatch
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmuffler/dmuffler-go/internal/engine"
	"github.com/dmuffler/dmuffler-go/internal/input"
)

// Model represents the TUI state.
type Model struct {
	// Playback
	playing     bool
	pitchFactor float64
	semitones   float64
	sound       string
	positionSec float64
	durationSec float64

	// Stats
	rendered int64
	silent   int64
	shifted  int64

	// Key dispatch
	keysIgnored      int64
	keysUnrecognized int64

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int

	ctrl *Control
}

// StatusMsg updates the TUI from an engine snapshot.
type StatusMsg struct {
	Status engine.Status
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// handleKey routes keyboard input through the tagged dispatch.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Debug overlay is a UI concern, not a playback control.
	if msg.String() == "d" {
		m.showDebug = !m.showDebug
		return m, nil
	}

	action, class := input.Classify(msg.String())

	switch class {
	case input.KeyIgnored:
		m.keysIgnored++
		return m, nil
	case input.KeyUnrecognized:
		m.keysUnrecognized++
		return m, nil
	}

	switch action {
	case input.ActionQuit:
		m.sendQuit()
		return m, tea.Quit
	case input.ActionPedalTap:
		m.sendPedalTap()
		return m, nil
	}

	if cmd, ok := action.Command(); ok {
		m.sendCommand(cmd)
	}
	return m, nil
}

// sendCommand forwards an engine command without blocking the UI loop.
func (m Model) sendCommand(cmd engine.Command) {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Commands <- cmd:
	default:
	}
}

func (m Model) sendPedalTap() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.PedalTaps <- struct{}{}:
	default:
	}
}

func (m Model) sendQuit() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Quit <- struct{}{}:
	default:
	}
}

// applyStatus updates the model from an engine snapshot.
func (m *Model) applyStatus(msg StatusMsg) {
	st := msg.Status

	m.playing = st.Playing
	m.pitchFactor = st.PitchFactor
	m.semitones = st.Semitones
	m.sound = st.Sound
	m.rendered = st.Stats.Rendered
	m.silent = st.Stats.Silent
	m.shifted = st.Stats.Shifted

	if st.SampleRate > 0 {
		m.positionSec = float64(st.Cursor) / float64(st.SampleRate)
		m.durationSec = float64(st.ClipLen) / float64(st.SampleRate)
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderPlayback()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders the banner and playback state.
func (m Model) renderHeader() string {
	state := "Paused"
	if m.playing {
		state = "Playing"
	}

	return fmt.Sprintf(`┌─ DMuffler ───────────────────────────────────────────┐
│ Status: %-45s │
│ Sound:  %-45s │
├──────────────────────────────────────────────────────┤
`, state, m.sound)
}

// renderPlayback renders pitch and position.
func (m Model) renderPlayback() string {
	pitchBar := renderBar(m.pitchFactor, engine.MinPitchFactor, engine.MaxPitchFactor, 20)

	return fmt.Sprintf("│ Pitch:  [%s] %.2fx (%+.1f st)%-7s │\n"+
		"│ Pos:    %6.1fs / %6.1fs%-28s │\n",
		pitchBar, m.pitchFactor, m.semitones, "",
		m.positionSec, m.durationSec, "")
}

// renderStats renders block statistics.
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Blocks: %d rendered, %d shifted, %d silent%-10s │
`, m.rendered, m.shifted, m.silent, "")
}

// renderDebug renders key-dispatch counters.
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:  keys ignored: %d, unrecognized: %d%-11s │
`, m.keysIgnored, m.keysUnrecognized, "")
}

// renderHelp renders keyboard shortcuts.
func (m Model) renderHelp() string {
	return `│ space:Play/Pause  ↑/↓:Pitch  g:Gas  r:Reset  q:Quit │
└──────────────────────────────────────────────────────┘
`
}

// renderBar renders value's position inside [min, max] as a bar.
func renderBar(value, min, max float64, width int) string {
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	filled := int((value - min) / (max - min) * float64(width))

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}
