// ABOUTME: Tests for the TUI model
// ABOUTME: Tests status updates, key routing and dispatch counters
package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmuffler/dmuffler-go/internal/engine"
)

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)

	if model.playing {
		t.Error("expected paused initially")
	}
	if model.pitchFactor != engine.NeutralPitch {
		t.Errorf("expected neutral pitch initially, got %v", model.pitchFactor)
	}
	if model.showDebug {
		t.Error("expected showDebug false initially")
	}
}

func TestApplyStatus(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{Status: engine.Status{
		Playing:     true,
		PitchFactor: 1.5,
		Semitones:   7.02,
		Cursor:      44100,
		ClipLen:     88200,
		SampleRate:  44100,
		Sound:       "mclaren_f1.wav",
		Stats:       engine.Stats{Rendered: 10, Silent: 2, Shifted: 8},
	}})

	if !model.playing {
		t.Error("expected playing after status update")
	}
	if model.pitchFactor != 1.5 {
		t.Errorf("expected pitch factor 1.5, got %v", model.pitchFactor)
	}
	if model.sound != "mclaren_f1.wav" {
		t.Errorf("expected sound name set, got %q", model.sound)
	}
	if model.positionSec != 1.0 {
		t.Errorf("expected position 1.0s, got %v", model.positionSec)
	}
	if model.durationSec != 2.0 {
		t.Errorf("expected duration 2.0s, got %v", model.durationSec)
	}
	if model.shifted != 8 {
		t.Errorf("expected 8 shifted blocks, got %d", model.shifted)
	}
}

func TestKeyForwardsEngineCommand(t *testing.T) {
	ctrl := NewControl()
	model := NewModel(ctrl)

	model.Update(keyMsg(" "))

	select {
	case cmd := <-ctrl.Commands:
		if cmd.Op != engine.OpTogglePlay {
			t.Errorf("expected toggle play, got op %d", cmd.Op)
		}
	default:
		t.Fatal("expected command on control channel")
	}
}

func TestKeyPedalTap(t *testing.T) {
	ctrl := NewControl()
	model := NewModel(ctrl)

	model.Update(keyMsg("g"))

	select {
	case <-ctrl.PedalTaps:
	default:
		t.Fatal("expected pedal tap on control channel")
	}
}

func TestKeyQuit(t *testing.T) {
	ctrl := NewControl()
	model := NewModel(ctrl)

	_, cmd := model.Update(keyMsg("q"))

	if cmd == nil {
		t.Fatal("expected tea.Quit command")
	}

	select {
	case <-ctrl.Quit:
	default:
		t.Fatal("expected quit signal on control channel")
	}
}

func TestKeyDebugToggle(t *testing.T) {
	model := NewModel(nil)

	updated, _ := model.Update(keyMsg("d"))
	m := updated.(Model)

	if !m.showDebug {
		t.Error("expected showDebug toggled on")
	}
}

func TestKeyCounters(t *testing.T) {
	model := NewModel(nil)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyTab})
	m := updated.(Model)
	if m.keysIgnored != 1 {
		t.Errorf("expected 1 ignored key, got %d", m.keysIgnored)
	}

	updated, _ = m.Update(keyMsg("z"))
	m = updated.(Model)
	if m.keysUnrecognized != 1 {
		t.Errorf("expected 1 unrecognized key, got %d", m.keysUnrecognized)
	}
}

func TestViewBeforeSize(t *testing.T) {
	model := NewModel(nil)

	if model.View() != "Loading..." {
		t.Error("expected loading placeholder before first size message")
	}
}

func TestRenderBar(t *testing.T) {
	bar := renderBar(engine.NeutralPitch, engine.MinPitchFactor, engine.MaxPitchFactor, 12)

	if len([]rune(bar)) != 12 {
		t.Errorf("expected 12-cell bar, got %d", len([]rune(bar)))
	}

	empty := renderBar(engine.MinPitchFactor, engine.MinPitchFactor, engine.MaxPitchFactor, 12)
	for _, r := range empty {
		if r == '█' {
			t.Error("expected empty bar at minimum value")
			break
		}
	}
}
