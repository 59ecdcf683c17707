package vm

import (
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// Audio receives tone signals from the sound timer.
type Audio interface {
	// BeginTone is called when the sound timer expires.
	BeginTone()
	// EndTone is called on reset and when the sound timer is explicitly set to 0.
	EndTone()
}

// Random provides the bytes used by the random instruction.
type Random interface {
	Byte() uint8
}

// TimerMode defines how the delay and sound timers are driven.
type TimerMode int

const (
	// TimersPerCycle decrements both timers once per executed cycle.
	TimersPerCycle TimerMode = iota
	// TimersExternal leaves the timer ticks to the caller, which has to call
	// TickTimers at 60 Hz.
	TimersExternal
)

// UnknownOpcodePolicy defines how opcodes without an instruction are handled.
type UnknownOpcodePolicy int

const (
	// IgnoreUnknown treats unknown opcodes as no-ops.
	IgnoreUnknown UnknownOpcodePolicy = iota
	// HaltOnUnknown stops the execution with ErrUnknownOpcode.
	HaltOnUnknown
)

// Option configures an engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug and trace output.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRandom sets the random source, tests use it to get deterministic results.
func WithRandom(random Random) Option {
	return func(e *Engine) {
		if random != nil {
			e.random = random
		}
	}
}

// WithTimerMode sets how timers are ticked.
func WithTimerMode(mode TimerMode) Option {
	return func(e *Engine) {
		e.timerMode = mode
	}
}

// WithUnknownOpcodes sets the handling of unknown opcodes.
func WithUnknownOpcodes(policy UnknownOpcodePolicy) Option {
	return func(e *Engine) {
		e.unknownPolicy = policy
	}
}

// WithTrace enables logging of every executed instruction at debug level.
func WithTrace(enabled bool) Option {
	return func(e *Engine) {
		e.trace = enabled
	}
}

type systemRandom struct{}

func (systemRandom) Byte() uint8 {
	return uint8(rand.UintN(256))
}

type silence struct{}

func (silence) BeginTone() {}
func (silence) EndTone()   {}
