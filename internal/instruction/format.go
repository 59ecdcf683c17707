package instruction

import "fmt"

// machineCallName is used for the legacy machine code call, which has no
// kind in the shared opcode table.
const machineCallName = "sys"

// Name returns the assembler mnemonic of the instruction.
// Unknown opcodes have no mnemonic and return an empty string.
func (i Instruction) Name() string {
	if i.Kind == MachineCall {
		return machineCallName
	}
	if int(i.Kind) >= KindCount {
		return ""
	}
	ins := decoding.mnemonics[i.Kind]
	if ins == nil {
		return ""
	}
	return ins.Name
}

// Operands returns the formatted operands of the instruction.
func (i Instruction) Operands() string {
	switch i.Kind {
	case MachineCall, Jump, Call:
		return fmt.Sprintf("$%03X", i.NNN)
	case JumpOffset:
		return fmt.Sprintf("V0, $%03X", i.NNN)
	case LoadIndex:
		return fmt.Sprintf("I, $%03X", i.NNN)

	case SkipEqualImmediate, SkipNotEqualImmediate, LoadImmediate, AddImmediate, Random:
		return fmt.Sprintf("V%X, $%02X", i.X, i.KK)

	case SkipEqualRegister, SkipNotEqualRegister, Move, Or, And, Xor, AddRegister, Sub, SubReverse:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)

	case ShiftRight, ShiftLeft, SkipKeyPressed, SkipKeyNotPressed:
		return fmt.Sprintf("V%X", i.X)

	case Draw:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)

	case LoadDelay:
		return fmt.Sprintf("V%X, DT", i.X)
	case WaitKey:
		return fmt.Sprintf("V%X, K", i.X)
	case SetDelay:
		return fmt.Sprintf("DT, V%X", i.X)
	case SetSound:
		return fmt.Sprintf("ST, V%X", i.X)
	case AddIndex:
		return fmt.Sprintf("I, V%X", i.X)
	case LoadFont:
		return fmt.Sprintf("F, V%X", i.X)
	case StoreBCD:
		return fmt.Sprintf("B, V%X", i.X)
	case StoreRegisters:
		return fmt.Sprintf("[I], V%X", i.X)
	case LoadRegisters:
		return fmt.Sprintf("V%X, [I]", i.X)
	}
	return ""
}

// String returns the disassembled instruction. Unknown opcodes are
// rendered as a data word directive.
func (i Instruction) String() string {
	name := i.Name()
	if name == "" {
		return fmt.Sprintf(".word $%04X", i.Opcode)
	}
	if operands := i.Operands(); operands != "" {
		return name + " " + operands
	}
	return name
}
