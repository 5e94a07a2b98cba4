// ABOUTME: Block pitch shifter
// ABOUTME: Linear interpolation resampling fitted back to the block length
package engine

import (
	"fmt"
	"math"
)

// Semitones maps a pitch factor to its semitone shift.
func Semitones(factor float64) float64 {
	return 12 * math.Log2(factor)
}

// Shift resamples block by factor using linear interpolation and fits the
// result to the input length. Factors above 1 read through the block faster
// and leave a zero-padded tail; factors below 1 read slower and the excess
// is truncated, so every output block is exactly len(block) samples.
func Shift(block []int16, factor float64) ([]int16, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return nil, fmt.Errorf("invalid pitch factor: %v", factor)
	}

	out := make([]int16, len(block))
	if factor == NeutralPitch || len(block) < 2 {
		copy(out, block)
		return out, nil
	}

	pos := 0.0
	for i := range out {
		idx := int(pos)
		if idx >= len(block)-1 {
			break
		}
		frac := pos - float64(idx)
		sample := float64(block[idx])*(1-frac) + float64(block[idx+1])*frac
		out[i] = int16(sample)
		pos += factor
	}

	return out, nil
}
