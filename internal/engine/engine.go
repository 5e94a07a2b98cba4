// ABOUTME: Playback controller goroutine
// ABOUTME: Single owner of playback state, renders blocks, applies commands
package engine

import (
	"log"
	"sync"

	"github.com/dmuffler/dmuffler-go/internal/audio"
)

// Loader loads a clip for a sound name. Injected so the engine does not
// touch the filesystem directly.
type Loader func(name string) (*audio.Clip, string, error)

// Config holds engine configuration.
type Config struct {
	Clip   *audio.Clip
	Sound  string // catalog name of the initial clip
	Frames int    // samples per rendered block
	Loader Loader // optional, enables OpSelectSound
}

// Stats counts rendered block types.
type Stats struct {
	Rendered int64 // blocks emitted in total
	Silent   int64 // all-zero blocks (paused, exhausted or shift failure)
	Shifted  int64 // blocks that went through the pitch shifter
}

// Status is a snapshot of the engine for UIs and the remote link.
type Status struct {
	Playing     bool
	PitchFactor float64
	Semitones   float64
	Cursor      int
	ClipLen     int
	SampleRate  int
	Sound       string
	Stats       Stats
}

// Engine renders fixed-size audio blocks from a decoded clip. A single
// goroutine owns all mutable state; input drivers and the remote link only
// ever send commands, which removes the shared-scalar races the two-thread
// design suffered from.
type Engine struct {
	config   Config
	clip     *audio.Clip
	state    State
	stats    Stats
	commands chan Command
	blocks   chan []int16

	mu       sync.Mutex
	snapshot Status
}

// New creates an engine for the given clip.
func New(config Config) *Engine {
	e := &Engine{
		config:   config,
		clip:     config.Clip,
		commands: make(chan Command, 16),
		blocks:   make(chan []int16, 4),
		state: State{
			PitchFactor: NeutralPitch,
			Running:     true,
		},
	}
	e.publish()
	return e
}

// Commands returns the channel input drivers send on.
func (e *Engine) Commands() chan<- Command {
	return e.commands
}

// Blocks returns the rendered block channel. It is closed when the engine
// stops, so consumers can simply range over it.
func (e *Engine) Blocks() <-chan []int16 {
	return e.blocks
}

// Status returns a snapshot of the current playback state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Run is the engine loop. It renders one block ahead and holds it until the
// output side takes it, applying any commands that arrive in between. The
// small block channel plus the blocking audio write downstream provide the
// pacing; no rendering happens on the device thread. The loop exits when
// OpQuit clears Running.
func (e *Engine) Run() {
	defer close(e.blocks)

	var pending []int16
	for e.state.Running {
		if pending == nil {
			pending = e.renderBlock()
		}

		select {
		case cmd := <-e.commands:
			e.apply(cmd)
		case e.blocks <- pending:
			pending = nil
		}
		e.publish()
	}
}

// renderBlock produces exactly Frames samples. Paused or exhausted playback
// emits silence; otherwise the next raw samples are pitch-shifted and the
// tail is zero-padded. A shift failure degrades the block to silence.
func (e *Engine) renderBlock() []int16 {
	out := make([]int16, e.config.Frames)
	e.stats.Rendered++

	if !e.state.Playing || e.state.Cursor >= len(e.clip.Samples) {
		e.stats.Silent++
		return out
	}

	end := e.state.Cursor + e.config.Frames
	if end > len(e.clip.Samples) {
		end = len(e.clip.Samples)
	}
	raw := e.clip.Samples[e.state.Cursor:end]

	shifted, err := Shift(raw, e.state.PitchFactor)
	if err != nil {
		log.Printf("Pitch shift failed, emitting silence: %v", err)
		e.stats.Silent++
		e.state.Cursor = end
		return out
	}
	copy(out, shifted)
	e.stats.Shifted++

	// The cursor advances by the raw input frame count, not by the
	// source span the shifted output represents, so higher pitch
	// factors also finish the clip sooner.
	e.state.Cursor = end

	return out
}

// apply mutates state for one command. OpQuit clears Running, which ends
// the Run loop on its next pass.
func (e *Engine) apply(cmd Command) {
	switch cmd.Op {
	case OpTogglePlay:
		e.state.Playing = !e.state.Playing
		log.Printf("Playback: %s", playState(e.state.Playing))

	case OpPitchUp:
		e.state.PitchFactor = ClampPitch(e.state.PitchFactor + PitchStep)
		log.Printf("Pitch factor: %.1f", e.state.PitchFactor)

	case OpPitchDown:
		e.state.PitchFactor = ClampPitch(e.state.PitchFactor - PitchStep)
		log.Printf("Pitch factor: %.1f", e.state.PitchFactor)

	case OpPitchDelta:
		e.state.PitchFactor = ClampPitch(e.state.PitchFactor + cmd.Delta)

	case OpPitchRelax:
		e.state.PitchFactor = relaxToward(e.state.PitchFactor, NeutralPitch, cmd.Delta)

	case OpReset:
		e.state.Cursor = 0
		log.Printf("Playback reset")

	case OpSelectSound:
		e.selectSound(cmd.Sound)

	case OpQuit:
		e.state.Running = false
		e.state.Playing = false
		log.Printf("Engine shutting down")
	}
}

// selectSound swaps the clip. An unknown or unloadable sound keeps the
// current clip playing.
func (e *Engine) selectSound(name string) {
	if e.config.Loader == nil {
		log.Printf("WARNING: no sound loader configured, keeping %s", e.config.Sound)
		return
	}

	clip, resolved, err := e.config.Loader(name)
	if err != nil {
		log.Printf("WARNING: failed to load sound %q, keeping %s: %v", name, e.config.Sound, err)
		return
	}

	e.clip = clip
	e.config.Sound = resolved
	e.state.Cursor = 0
	log.Printf("Engine sound changed to %s", resolved)
}

// publish refreshes the snapshot read by Status.
func (e *Engine) publish() {
	e.mu.Lock()
	e.snapshot = Status{
		Playing:     e.state.Playing,
		PitchFactor: e.state.PitchFactor,
		Semitones:   Semitones(e.state.PitchFactor),
		Cursor:      e.state.Cursor,
		ClipLen:     len(e.clip.Samples),
		SampleRate:  e.clip.SampleRate,
		Sound:       e.config.Sound,
		Stats:       e.stats,
	}
	e.mu.Unlock()
}

// relaxToward moves value toward target by step without overshooting.
func relaxToward(value, target, step float64) float64 {
	switch {
	case value > target:
		value -= step
		if value < target {
			value = target
		}
	case value < target:
		value += step
		if value > target {
			value = target
		}
	}
	return value
}

func playState(playing bool) string {
	if playing {
		return "Playing"
	}
	return "Paused"
}
