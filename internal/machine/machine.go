// Package machine contains the memory and register bank of the virtual machine.
package machine

import (
	"errors"
	"fmt"
)

// Memory layout constants.
//
//	0x000-0x04F: font glyphs (16 × 5 bytes)
//	0x050-0x1FF: unused interpreter area
//	0x200-0xFFF: program space (3584 bytes)
const (
	MemorySize     = 4096
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart

	// LastFetchAddress is the highest address an opcode can be fetched from,
	// both opcode bytes have to be inside of memory.
	LastFetchAddress = MemorySize - 2

	RegisterCount = 16
	StackSize     = 16

	// FlagRegister is the index of VF, used by arithmetic, shift and draw
	// instructions to report carry, borrow, shifted out bits and collisions.
	FlagRegister = 0xF
)

var (
	// ErrProgramTooLarge is returned when a program does not fit into the program space.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrAddressOutOfRange is returned for memory accesses outside of the 4 KiB address space.
	ErrAddressOutOfRange = errors.New("memory address out of range")
	// ErrStackOverflow is returned when a call exceeds the maximum nesting depth.
	ErrStackOverflow = errors.New("call stack overflow")
	// ErrStackUnderflow is returned when a return is executed with an empty stack.
	ErrStackUnderflow = errors.New("call stack underflow")
)

// State holds all mutable machine state. It is a plain value type,
// assigning it creates an independent copy.
type State struct {
	Memory [MemorySize]byte
	V      [RegisterCount]uint8
	I      uint16
	PC     uint16

	Stack [StackSize]uint16
	SP    int

	Delay uint8
	Sound uint8
}

// New returns a state with the font preloaded and the program counter
// pointing to the program start.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset clears memory, registers, stack and timers and reloads the font.
func (s *State) Reset() {
	*s = State{PC: ProgramStart}
	copy(s.Memory[FontAddress:], Font[:])
}

// Load copies the program into memory at the program start.
// An oversized program is rejected without modifying the state.
func (s *State) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the maximum of %d bytes",
			ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(s.Memory[ProgramStart:], program)
	return nil
}

// Fetch returns the big-endian opcode stored at the given address.
func (s *State) Fetch(address uint16) (uint16, error) {
	if address > LastFetchAddress {
		return 0, fmt.Errorf("%w: fetching opcode at $%04X", ErrAddressOutOfRange, address)
	}
	return uint16(s.Memory[address])<<8 | uint16(s.Memory[address+1]), nil
}

// ReadMemory returns the byte at the given address.
func (s *State) ReadMemory(address uint16) (byte, error) {
	if int(address) >= MemorySize {
		return 0, fmt.Errorf("%w: reading $%04X", ErrAddressOutOfRange, address)
	}
	return s.Memory[address], nil
}

// WriteMemory stores a byte at the given address.
func (s *State) WriteMemory(address uint16, value byte) error {
	if int(address) >= MemorySize {
		return fmt.Errorf("%w: writing $%04X", ErrAddressOutOfRange, address)
	}
	s.Memory[address] = value
	return nil
}

// MemoryRange returns the memory slice [address, address+length).
// The returned slice aliases the state memory.
func (s *State) MemoryRange(address uint16, length int) ([]byte, error) {
	end := int(address) + length
	if end > MemorySize {
		return nil, fmt.Errorf("%w: accessing $%04X-$%04X", ErrAddressOutOfRange, address, end-1)
	}
	return s.Memory[address:end], nil
}

// Push stores a return address on the call stack.
func (s *State) Push(address uint16) error {
	if s.SP >= StackSize {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, s.SP)
	}
	s.Stack[s.SP] = address
	s.SP++
	return nil
}

// Pop removes and returns the most recent return address from the call stack.
func (s *State) Pop() (uint16, error) {
	if s.SP <= 0 {
		return 0, ErrStackUnderflow
	}
	s.SP--
	return s.Stack[s.SP], nil
}
