package vm

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/instruction"
	"github.com/retroenv/xipe/internal/machine"
)

// RunCycle executes one instruction. While the engine waits for a key
// press, the cycle only polls the keypad and the wait is resolved by the
// lowest pressed key without fetching a new instruction.
// In TimersPerCycle mode the timers are ticked after the instruction.
func (e *Engine) RunCycle() error {
	if e.halt != nil {
		return e.halt
	}

	if e.waiting {
		e.pollKey()
	} else if err := e.step(); err != nil {
		return err
	}

	if e.timerMode == TimersPerCycle {
		e.tickTimers()
	}
	return nil
}

// TickTimers decrements the delay and sound timers by one. The tone is
// started when the sound timer expires. It is meant to be called at 60 Hz
// by engines configured with TimersExternal.
func (e *Engine) TickTimers() {
	if e.halt != nil {
		return
	}
	e.tickTimers()
}

func (e *Engine) tickTimers() {
	if e.state.Delay > 0 {
		e.state.Delay--
	}

	switch e.state.Sound {
	case 0:
	case 1:
		e.state.Sound = 0
		e.audio.BeginTone()
	default:
		e.state.Sound--
	}
}

func (e *Engine) pollKey() {
	key, ok := e.keypad.FirstPressed()
	if !ok {
		return
	}
	e.state.V[e.waitRegister] = uint8(key)
	e.waiting = false
}

func (e *Engine) step() error {
	pc := e.state.PC
	opcode, err := e.state.Fetch(pc)
	if err != nil {
		return e.halted(pc, 0, err)
	}

	ins := instruction.Decode(opcode)
	if e.trace {
		e.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode),
			log.String("instruction", ins.String()))
	}

	next, err := e.execute(pc, ins)
	if err != nil {
		return e.halted(pc, opcode, err)
	}
	e.state.PC = next
	return nil
}

func (e *Engine) halted(pc, opcode uint16, err error) error {
	e.halt = &HaltError{
		PC:         pc,
		Opcode:     opcode,
		StackDepth: e.state.SP,
		Err:        err,
	}
	return e.halt
}

// setFlagged stores an arithmetic result followed by its flag, so that for
// operations targeting VF the flag value wins.
func (e *Engine) setFlagged(x, result uint8, flag bool) {
	e.state.V[x] = result
	e.state.V[machine.FlagRegister] = boolToFlag(flag)
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
