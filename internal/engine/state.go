// ABOUTME: Playback state and engine command definitions
// ABOUTME: State is owned exclusively by the engine goroutine
package engine

// Pitch factor bounds and step sizes. The factor is a multiplicative
// frequency scalar; 0.5 is one octave down, 2.0 one octave up.
const (
	MinPitchFactor = 0.5
	MaxPitchFactor = 2.0
	NeutralPitch   = 1.0
	PitchStep      = 0.1
)

// State is the mutable playback record. Only the engine goroutine reads or
// writes it; everything else goes through the command channel.
type State struct {
	Playing     bool
	Cursor      int
	PitchFactor float64
	Running     bool
}

// Op identifies an engine command.
type Op int

const (
	OpTogglePlay Op = iota
	OpPitchUp
	OpPitchDown
	OpPitchDelta
	OpPitchRelax
	OpReset
	OpSelectSound
	OpQuit
)

// Command is a state mutation request sent to the engine goroutine.
type Command struct {
	Op    Op
	Delta float64 // OpPitchDelta, OpPitchRelax
	Sound string  // OpSelectSound
}

// ClampPitch brings a pitch factor back into [MinPitchFactor, MaxPitchFactor].
func ClampPitch(factor float64) float64 {
	if factor < MinPitchFactor {
		return MinPitchFactor
	}
	if factor > MaxPitchFactor {
		return MaxPitchFactor
	}
	return factor
}
