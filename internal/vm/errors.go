package vm

import (
	"errors"
	"fmt"
)

// ErrUnknownOpcode is returned for opcodes without an instruction when the
// engine is configured with HaltOnUnknown.
var ErrUnknownOpcode = errors.New("unknown opcode")

// HaltError describes a fatal condition that stopped the execution.
// Once halted, every further cycle returns the same error until the
// engine is reset.
type HaltError struct {
	PC         uint16
	Opcode     uint16
	StackDepth int
	Err        error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("execution halted at $%04X (opcode $%04X, stack depth %d): %v",
		e.PC, e.Opcode, e.StackDepth, e.Err)
}

func (e *HaltError) Unwrap() error {
	return e.Err
}
