package instruction

import "github.com/retroenv/retrogolib/arch/cpu/chip8"

// opcodeKinds maps the pattern values of the shared CHIP-8 opcode table
// to instruction kinds.
var opcodeKinds = map[uint16]Kind{
	0x00E0: ClearDisplay,
	0x00EE: Return,
	0x1000: Jump,
	0x2000: Call,
	0x3000: SkipEqualImmediate,
	0x4000: SkipNotEqualImmediate,
	0x5000: SkipEqualRegister,
	0x6000: LoadImmediate,
	0x7000: AddImmediate,
	0x8000: Move,
	0x8001: Or,
	0x8002: And,
	0x8003: Xor,
	0x8004: AddRegister,
	0x8005: Sub,
	0x8006: ShiftRight,
	0x8007: SubReverse,
	0x800E: ShiftLeft,
	0x9000: SkipNotEqualRegister,
	0xA000: LoadIndex,
	0xB000: JumpOffset,
	0xC000: Random,
	0xD000: Draw,
	0xE09E: SkipKeyPressed,
	0xE0A1: SkipKeyNotPressed,
	0xF007: LoadDelay,
	0xF00A: WaitKey,
	0xF015: SetDelay,
	0xF018: SetSound,
	0xF01E: AddIndex,
	0xF029: LoadFont,
	0xF033: StoreBCD,
	0xF055: StoreRegisters,
	0xF065: LoadRegisters,
}

type pattern struct {
	mask  uint16
	value uint16
	kind  Kind
}

type decodeTable struct {
	patterns  [16][]pattern
	mnemonics [KindCount]*chip8.Instruction
}

var decoding = newDecodeTable()

// newDecodeTable groups the opcode patterns of the shared opcode table by
// their first nibble. Patterns without a kind, like the legacy machine
// code call, are left out.
func newDecodeTable() *decodeTable {
	t := &decodeTable{}
	for nibble := range 16 {
		for _, op := range chip8.Opcodes[nibble] {
			kind, ok := opcodeKinds[op.Info.Value]
			if !ok || op.Instruction == nil {
				continue
			}
			t.patterns[nibble] = append(t.patterns[nibble], pattern{
				mask:  op.Info.Mask,
				value: op.Info.Value,
				kind:  kind,
			})
			if t.mnemonics[kind] == nil {
				t.mnemonics[kind] = op.Instruction
			}
		}
	}
	return t
}

// Decode classifies a 16-bit opcode by matching it against the opcode
// patterns of its first nibble.
func Decode(opcode uint16) Instruction {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0x0F,
		Y:      uint8(opcode>>4) & 0x0F,
		N:      uint8(opcode) & 0x0F,
		KK:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}
	ins.Kind = decodeKind(opcode)
	return ins
}

func decodeKind(opcode uint16) Kind {
	firstNibble := opcode >> 12
	for _, p := range decoding.patterns[firstNibble] {
		if p.mask&opcode == p.value {
			return p.kind
		}
	}

	if firstNibble == 0x0 {
		return MachineCall
	}
	return Unknown
}
