// ABOUTME: Audio device output using the oto library
// ABOUTME: Pipe-fed persistent player with software volume control
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Output feeds rendered blocks to the audio device. The persistent player
// pulls bytes from a pipe, so the device thread never runs render code;
// WriteBlock blocks at the device's real-time pace, which is what paces the
// engine loop upstream.
type Output struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int
	ready      bool

	// volume and muted are set from control goroutines while the device
	// writer reads them in WriteBlock.
	mu     sync.Mutex
	volume int
	muted  bool
}

// New creates an audio output.
func New() *Output {
	return &Output{volume: 100}
}

// Open initializes the device for the given format.
func (o *Output) Open(sampleRate, channels int) error {
	if o.otoCtx != nil {
		// oto allows one context per process; a second Open with the
		// same format reuses it.
		if o.sampleRate == sampleRate && o.channels == channels {
			return nil
		}
		return fmt.Errorf("output already open with %dHz %dch", o.sampleRate, o.channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()

	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// WriteBlock outputs one rendered block, blocking until the device has
// taken it.
func (o *Output) WriteBlock(samples []int16) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}

	scaled := applyVolume(samples, o.GetVolume(), o.IsMuted())

	if _, err := o.pipeWriter.Write(blockToBytes(scaled)); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// SetVolume sets the volume (0-100).
func (o *Output) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.mu.Lock()
	o.volume = volume
	o.mu.Unlock()
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state.
func (o *Output) SetMuted(muted bool) {
	o.mu.Lock()
	o.muted = muted
	o.mu.Unlock()
	log.Printf("Muted: %v", muted)
}

// GetVolume returns current volume.
func (o *Output) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// IsMuted returns mute state.
func (o *Output) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

// Close releases the device resources.
func (o *Output) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.ready = false
	}
	return nil
}

// blockToBytes converts int16 samples to little-endian bytes.
func blockToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out
}

// applyVolume applies volume and mute with clipping protection.
func applyVolume(samples []int16, volume int, muted bool) []int16 {
	multiplier := getVolumeMultiplier(volume, muted)

	result := make([]int16, len(samples))
	for i, sample := range samples {
		scaled := float64(sample) * multiplier

		if scaled > math.MaxInt16 {
			scaled = math.MaxInt16
		} else if scaled < math.MinInt16 {
			scaled = math.MinInt16
		}

		result[i] = int16(scaled)
	}

	return result
}

// getVolumeMultiplier calculates the volume multiplier.
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
