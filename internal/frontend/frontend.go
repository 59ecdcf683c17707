// Package frontend contains the parts shared by all frontends that drive
// an engine: the engine contract and the pacing of cycles against the
// 60 Hz timer frequency.
package frontend

import (
	"github.com/retroenv/xipe/internal/display"
	"github.com/retroenv/xipe/internal/input"
)

// TimerFrequency is the rate in Hz at which the delay and sound timers
// are ticked and the frontends present frames.
const TimerFrequency = 60

// Machine is the engine interface that frontends drive.
// The engine has to be configured for externally ticked timers.
type Machine interface {
	RunCycle() error
	TickTimers()
	NeedsRedraw() bool
	AcknowledgeRedraw()
	Framebuffer() display.Frame
	PressKey(key input.Key)
	ReleaseKey(key input.Key)
}

// Pacer distributes a cycle rate over timer ticks. Fractional cycles are
// carried over, so that every second runs exactly the configured number
// of cycles.
type Pacer struct {
	rate      int
	remainder int
}

// NewPacer returns a pacer for the given number of cycles per second.
func NewPacer(cyclesPerSecond int) *Pacer {
	return &Pacer{
		rate: max(cyclesPerSecond, 1),
	}
}

// Next returns the number of cycles to run until the next timer tick.
func (p *Pacer) Next() int {
	p.remainder += p.rate
	n := p.remainder / TimerFrequency
	p.remainder %= TimerFrequency
	return n
}

// RunFrame runs the given number of cycles followed by one timer tick.
// Execution stops at the first cycle error, the timers are not ticked in
// that case.
func RunFrame(m Machine, cycles int) error {
	for range cycles {
		if err := m.RunCycle(); err != nil {
			return err
		}
	}
	m.TickTimers()
	return nil
}
