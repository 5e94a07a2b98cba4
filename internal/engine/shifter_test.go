// ABOUTME: Tests for the block pitch shifter
// ABOUTME: Tests semitone mapping, length fitting and failure modes
package engine

import (
	"math"
	"testing"
)

func TestSemitones(t *testing.T) {
	cases := []struct {
		factor float64
		want   float64
	}{
		{1.0, 0},
		{2.0, 12},
		{0.5, -12},
	}

	for _, c := range cases {
		got := Semitones(c.factor)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Semitones(%v) = %v, want %v", c.factor, got, c.want)
		}
	}
}

func TestShiftIdentity(t *testing.T) {
	block := []int16{100, 200, 300, 400}

	out, err := Shift(block, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != len(block) {
		t.Fatalf("expected %d samples, got %d", len(block), len(out))
	}
	for i := range block {
		if out[i] != block[i] {
			t.Errorf("sample %d: expected %d, got %d", i, block[i], out[i])
		}
	}
}

func TestShiftPreservesLength(t *testing.T) {
	block := make([]int16, 256)
	for i := range block {
		block[i] = int16(i * 10)
	}

	for _, factor := range []float64{0.5, 0.8, 1.2, 2.0} {
		out, err := Shift(block, factor)
		if err != nil {
			t.Fatalf("factor %v: unexpected error: %v", factor, err)
		}
		if len(out) != len(block) {
			t.Errorf("factor %v: expected %d samples, got %d", factor, len(block), len(out))
		}
	}
}

func TestShiftZeroPadsTail(t *testing.T) {
	// Factor 2.0 reads through the block twice as fast, so roughly the
	// second half of the output must be zero padding.
	block := make([]int16, 100)
	for i := range block {
		block[i] = 1000
	}

	out, err := Shift(block, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 60; i < len(out); i++ {
		if out[i] != 0 {
			t.Errorf("expected zero padding at sample %d, got %d", i, out[i])
		}
	}

	if out[0] == 0 {
		t.Error("expected shifted audio at block start")
	}
}

func TestShiftInterpolates(t *testing.T) {
	// Halfway between two samples at factor 0.5.
	block := []int16{0, 100, 200, 300}

	out, err := Shift(block, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[1] != 50 {
		t.Errorf("expected interpolated sample 50, got %d", out[1])
	}
}

func TestShiftInvalidFactor(t *testing.T) {
	block := []int16{1, 2, 3, 4}

	for _, factor := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Shift(block, factor); err == nil {
			t.Errorf("expected error for factor %v", factor)
		}
	}
}
