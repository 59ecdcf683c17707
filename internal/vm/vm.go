// Package vm implements the execution engine of the virtual machine.
// The engine is a synchronous state machine without internal locking,
// callers have to serialize all calls into an engine.
package vm

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/display"
	"github.com/retroenv/xipe/internal/input"
	"github.com/retroenv/xipe/internal/machine"
)

// Engine fetches, decodes and executes instructions and owns the complete
// machine state, framebuffer and input latch.
type Engine struct {
	state   *machine.State
	display *display.Display
	keypad  *input.Keypad

	audio  Audio
	random Random
	logger *log.Logger

	timerMode     TimerMode
	unknownPolicy UnknownOpcodePolicy
	trace         bool

	waiting      bool
	waitRegister uint8
	halt         *HaltError
}

// New returns a new engine with a freshly initialized machine state.
// A nil audio sink disables tone signalling.
func New(audio Audio, opts ...Option) *Engine {
	if audio == nil {
		audio = silence{}
	}

	e := &Engine{
		state:   machine.New(),
		display: display.New(),
		keypad:  input.New(),
		audio:   audio,
		random:  systemRandom{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		e.logger = log.NewWithConfig(cfg)
	}
	return e
}

// Load copies the program into memory at the program start. An oversized
// program is rejected and leaves the engine state untouched. Load does not
// reset the engine, call Reset first when swapping programs.
func (e *Engine) Load(program []byte) error {
	if err := e.state.Load(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return nil
}

// Reset restores the state of a newly created engine: memory is cleared
// and the font reloaded, registers, stack, timers and the framebuffer are
// cleared and a pending key wait or halt condition is discarded.
// Pressed keys are kept as they mirror the host input device.
func (e *Engine) Reset() {
	e.state.Reset()
	e.display.Reset()
	e.waiting = false
	e.waitRegister = 0
	e.halt = nil
	e.audio.EndTone()
}

// NeedsRedraw returns whether the framebuffer changed since the last
// call to AcknowledgeRedraw.
func (e *Engine) NeedsRedraw() bool {
	return e.display.Dirty()
}

// AcknowledgeRedraw marks the current framebuffer as presented.
func (e *Engine) AcknowledgeRedraw() {
	e.display.Acknowledge()
}

// Framebuffer returns a copy of the current framebuffer.
func (e *Engine) Framebuffer() display.Frame {
	return e.display.Snapshot()
}

// PressKey marks the logical key as pressed.
func (e *Engine) PressKey(key input.Key) {
	e.keypad.Press(key)
}

// ReleaseKey marks the logical key as released.
func (e *Engine) ReleaseKey(key input.Key) {
	e.keypad.Release(key)
}

// WaitingForKey returns the target register if the engine is waiting for a key press.
func (e *Engine) WaitingForKey() (uint8, bool) {
	return e.waitRegister, e.waiting
}

// Halted returns the error that stopped the execution or nil.
func (e *Engine) Halted() error {
	if e.halt == nil {
		return nil
	}
	return e.halt
}

// State returns a copy of the machine state.
func (e *Engine) State() machine.State {
	return *e.state
}
