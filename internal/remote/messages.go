// ABOUTME: Companion-app protocol message definitions
// ABOUTME: JSON control messages exchanged over the websocket link
package remote

// Message is the top-level wrapper for all protocol messages.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ServerHello is sent to a companion app right after it connects.
type ServerHello struct {
	ServerID string      `json:"server_id"`
	Name     string      `json:"name"`
	Version  string      `json:"version"`
	Sounds   []SoundInfo `json:"sounds"`
}

// SoundInfo describes one catalog entry. The IDs are stable and shared
// with the app.
type SoundInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StateUpdate reports the current playback state to connected apps.
type StateUpdate struct {
	Playing     bool    `json:"playing"`
	PitchFactor float64 `json:"pitch_factor"`
	Semitones   float64 `json:"semitones"`
	Sound       string  `json:"sound"`
	Volume      int     `json:"volume"`
	Muted       bool    `json:"muted"`
}

// ControlCommand is a playback or output command from a companion app.
// Commands: play_pause, pitch_up, pitch_down, reset, set_sound,
// set_volume, set_muted.
type ControlCommand struct {
	Command string `json:"command"`
	SoundID int    `json:"sound_id,omitempty"`
	Volume  int    `json:"volume,omitempty"`
	Muted   bool   `json:"muted,omitempty"`
}
