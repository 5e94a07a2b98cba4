// ABOUTME: Continuous gas-pedal input driver
// ABOUTME: Ramps pitch while the pedal key is held, relaxes toward neutral
package input

import (
	"context"
	"sync"
	"time"

	"github.com/dmuffler/dmuffler-go/internal/engine"
)

// Pedal defaults. Terminals deliver key repeats rather than key state, so a
// repeat refreshes a short hold window; once the window lapses the pedal
// counts as released and pitch relaxes back toward neutral.
const (
	DefaultPollInterval = 25 * time.Millisecond
	DefaultHoldWindow   = 150 * time.Millisecond
	DefaultRampStep     = 0.02
	DefaultRelaxStep    = 0.02
)

// Pedal is the continuous input driver. Its poll loop emits pitch deltas on
// the engine command channel; it never touches playback state itself.
type Pedal struct {
	commands chan<- engine.Command
	interval time.Duration
	hold     time.Duration
	ramp     float64
	relax    float64
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	lastTap time.Time
}

// NewPedal creates a pedal driver feeding the given command channel.
func NewPedal(commands chan<- engine.Command) *Pedal {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pedal{
		commands: commands,
		interval: DefaultPollInterval,
		hold:     DefaultHoldWindow,
		ramp:     DefaultRampStep,
		relax:    DefaultRelaxStep,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Tap registers a pedal key press, refreshing the hold window.
func (p *Pedal) Tap() {
	p.mu.Lock()
	p.lastTap = time.Now()
	p.mu.Unlock()
}

// Held reports whether the pedal currently counts as pressed.
func (p *Pedal) Held() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.lastTap.IsZero() && time.Since(p.lastTap) < p.hold
}

// Run polls the pedal state at a fixed interval until stopped.
func (p *Pedal) Run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.send(p.tick())
		case <-p.ctx.Done():
			return
		}
	}
}

// tick produces the command for one poll: ramp up while held, relax toward
// neutral otherwise.
func (p *Pedal) tick() engine.Command {
	if p.Held() {
		return engine.Command{Op: engine.OpPitchDelta, Delta: p.ramp}
	}
	return engine.Command{Op: engine.OpPitchRelax, Delta: p.relax}
}

// send delivers a command without wedging on shutdown.
func (p *Pedal) send(cmd engine.Command) {
	select {
	case p.commands <- cmd:
	case <-p.ctx.Done():
	}
}

// Stop terminates the poll loop.
func (p *Pedal) Stop() {
	p.cancel()
}
