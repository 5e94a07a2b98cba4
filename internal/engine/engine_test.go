// ABOUTME: Tests for the playback controller
// ABOUTME: Tests silence, tail padding, reset, clamping and shutdown
package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/dmuffler/dmuffler-go/internal/audio"
)

func testClip(n int) *audio.Clip {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(i%100 + 1) // never zero
	}
	return &audio.Clip{Samples: samples, SampleRate: 44100}
}

func newTestEngine(clipLen, frames int) *Engine {
	return New(Config{
		Clip:   testClip(clipLen),
		Sound:  "test.wav",
		Frames: frames,
	})
}

func allZero(block []int16) bool {
	for _, s := range block {
		if s != 0 {
			return false
		}
	}
	return true
}

func TestSilenceWhenPaused(t *testing.T) {
	e := newTestEngine(1000, 64)

	block := e.renderBlock()

	if len(block) != 64 {
		t.Fatalf("expected 64 samples, got %d", len(block))
	}
	if !allZero(block) {
		t.Error("expected all-zero block while paused")
	}
	if e.state.Cursor != 0 {
		t.Errorf("paused render must not advance cursor, got %d", e.state.Cursor)
	}
}

func TestRenderAdvancesCursor(t *testing.T) {
	e := newTestEngine(1000, 64)
	e.apply(Command{Op: OpTogglePlay})

	block := e.renderBlock()

	if allZero(block) {
		t.Error("expected audio in rendered block")
	}
	if e.state.Cursor != 64 {
		t.Errorf("expected cursor 64, got %d", e.state.Cursor)
	}
}

func TestTailPadding(t *testing.T) {
	e := newTestEngine(100, 64)
	e.apply(Command{Op: OpTogglePlay})
	e.state.Cursor = 80 // 20 samples remaining

	block := e.renderBlock()

	if len(block) != 64 {
		t.Fatalf("expected full 64-sample block, got %d", len(block))
	}
	for i := 20; i < len(block); i++ {
		if block[i] != 0 {
			t.Fatalf("expected zero padding at sample %d, got %d", i, block[i])
		}
	}
	if e.state.Cursor != 100 {
		t.Errorf("expected cursor at clip end (100), got %d", e.state.Cursor)
	}
}

func TestExhaustedClipEmitsSilence(t *testing.T) {
	e := newTestEngine(100, 64)
	e.apply(Command{Op: OpTogglePlay})
	e.state.Cursor = 100

	if !allZero(e.renderBlock()) {
		t.Error("expected silence after clip exhaustion")
	}
}

func TestReset(t *testing.T) {
	e := newTestEngine(1000, 64)
	e.state.Cursor = 512

	e.apply(Command{Op: OpReset})

	if e.state.Cursor != 0 {
		t.Errorf("expected cursor 0 after reset, got %d", e.state.Cursor)
	}
}

func TestPitchStepClamped(t *testing.T) {
	e := newTestEngine(1000, 64)

	for i := 0; i < 30; i++ {
		e.apply(Command{Op: OpPitchUp})
	}
	if e.state.PitchFactor != MaxPitchFactor {
		t.Errorf("expected pitch clamped at %v, got %v", MaxPitchFactor, e.state.PitchFactor)
	}

	for i := 0; i < 30; i++ {
		e.apply(Command{Op: OpPitchDown})
	}
	if e.state.PitchFactor != MinPitchFactor {
		t.Errorf("expected pitch clamped at %v, got %v", MinPitchFactor, e.state.PitchFactor)
	}
}

func TestPitchDeltaClamped(t *testing.T) {
	e := newTestEngine(1000, 64)

	e.apply(Command{Op: OpPitchDelta, Delta: 100})
	if e.state.PitchFactor != MaxPitchFactor {
		t.Errorf("expected %v, got %v", MaxPitchFactor, e.state.PitchFactor)
	}

	e.apply(Command{Op: OpPitchDelta, Delta: -100})
	if e.state.PitchFactor != MinPitchFactor {
		t.Errorf("expected %v, got %v", MinPitchFactor, e.state.PitchFactor)
	}
}

func TestPitchRelaxDoesNotOvershoot(t *testing.T) {
	e := newTestEngine(1000, 64)

	e.state.PitchFactor = 1.05
	e.apply(Command{Op: OpPitchRelax, Delta: 0.1})
	if e.state.PitchFactor != NeutralPitch {
		t.Errorf("expected relax to stop at neutral, got %v", e.state.PitchFactor)
	}

	e.state.PitchFactor = 0.95
	e.apply(Command{Op: OpPitchRelax, Delta: 0.1})
	if e.state.PitchFactor != NeutralPitch {
		t.Errorf("expected relax to stop at neutral, got %v", e.state.PitchFactor)
	}
}

func TestSelectSoundFallback(t *testing.T) {
	e := New(Config{
		Clip:   testClip(1000),
		Sound:  "test.wav",
		Frames: 64,
		Loader: func(name string) (*audio.Clip, string, error) {
			return nil, "", errors.New("no such sound")
		},
	})
	e.state.Cursor = 100

	e.apply(Command{Op: OpSelectSound, Sound: "bogus.wav"})

	if e.config.Sound != "test.wav" {
		t.Errorf("expected current sound kept, got %s", e.config.Sound)
	}
	if e.state.Cursor != 100 {
		t.Error("failed sound selection must not disturb the cursor")
	}
}

func TestSelectSoundSwapsClip(t *testing.T) {
	other := testClip(50)
	e := New(Config{
		Clip:   testClip(1000),
		Sound:  "test.wav",
		Frames: 64,
		Loader: func(name string) (*audio.Clip, string, error) {
			return other, name, nil
		},
	})
	e.state.Cursor = 900

	e.apply(Command{Op: OpSelectSound, Sound: "other.wav"})

	if e.config.Sound != "other.wav" {
		t.Errorf("expected sound other.wav, got %s", e.config.Sound)
	}
	if e.state.Cursor != 0 {
		t.Errorf("expected cursor reset on sound change, got %d", e.state.Cursor)
	}
	if e.clip != other {
		t.Error("expected clip swapped")
	}
}

func TestQuitStopsEngine(t *testing.T) {
	e := newTestEngine(1000, 64)

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	e.Commands() <- Command{Op: OpQuit}

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("engine did not stop within bounded time after quit")
	}

	if e.Status().Playing {
		t.Error("expected playback stopped after quit")
	}
	if e.state.Running {
		t.Error("expected running flag cleared after quit")
	}

	// Blocks channel must be closed so consumers drain out.
	deadline := time.After(500 * time.Millisecond)
	for {
		select {
		case _, ok := <-e.Blocks():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("blocks channel not closed after quit")
		}
	}
}

func TestStatusSnapshot(t *testing.T) {
	e := newTestEngine(1000, 64)
	e.apply(Command{Op: OpTogglePlay})
	e.apply(Command{Op: OpPitchUp})
	e.publish()

	st := e.Status()
	if !st.Playing {
		t.Error("expected playing status")
	}
	if st.PitchFactor != 1.1 {
		t.Errorf("expected pitch factor 1.1, got %v", st.PitchFactor)
	}
	if st.ClipLen != 1000 {
		t.Errorf("expected clip length 1000, got %d", st.ClipLen)
	}
	if st.Sound != "test.wav" {
		t.Errorf("expected sound test.wav, got %s", st.Sound)
	}
}
