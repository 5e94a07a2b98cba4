// ABOUTME: Audio type definitions
// ABOUTME: Defines the decoded clip a playback session is built on
package audio

import "time"

// Clip is an immutable decoded sample sequence. Clips are mono int16 at a
// fixed sample rate, loaded once at startup and never mutated afterwards.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// Downmix folds interleaved multi-channel samples into mono by averaging
// each frame. Mono input is returned unchanged.
func Downmix(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += int(samples[i*channels+ch])
		}
		mono[i] = int16(sum / channels)
	}
	return mono
}
