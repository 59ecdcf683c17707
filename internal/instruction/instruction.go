// Package instruction implements the opcode decoder of the virtual machine.
// Decoding is a pure function that maps every 16-bit value to exactly one
// instruction kind, unmapped values decode to Unknown.
package instruction

// Size is the size of an encoded instruction in bytes.
const Size = 2

// Kind identifies a decoded instruction.
type Kind uint8

// Instruction kinds, the comments show the encoded nibble pattern.
const (
	Unknown               Kind = iota
	ClearDisplay               // 00E0
	Return                     // 00EE
	MachineCall                // 0nnn
	Jump                       // 1nnn
	Call                       // 2nnn
	SkipEqualImmediate         // 3xkk
	SkipNotEqualImmediate      // 4xkk
	SkipEqualRegister          // 5xy0
	LoadImmediate              // 6xkk
	AddImmediate               // 7xkk
	Move                       // 8xy0
	Or                         // 8xy1
	And                        // 8xy2
	Xor                        // 8xy3
	AddRegister                // 8xy4
	Sub                        // 8xy5
	ShiftRight                 // 8xy6
	SubReverse                 // 8xy7
	ShiftLeft                  // 8xyE
	SkipNotEqualRegister       // 9xy0
	LoadIndex                  // Annn
	JumpOffset                 // Bnnn
	Random                     // Cxkk
	Draw                       // Dxyn
	SkipKeyPressed             // Ex9E
	SkipKeyNotPressed          // ExA1
	LoadDelay                  // Fx07
	WaitKey                    // Fx0A
	SetDelay                   // Fx15
	SetSound                   // Fx18
	AddIndex                   // Fx1E
	LoadFont                   // Fx29
	StoreBCD                   // Fx33
	StoreRegisters             // Fx55
	LoadRegisters              // Fx65
)

// KindCount is the number of instruction kinds including Unknown.
const KindCount = int(LoadRegisters) + 1

var kindNames = [KindCount]string{
	Unknown:               "Unknown",
	ClearDisplay:          "ClearDisplay",
	Return:                "Return",
	MachineCall:           "MachineCall",
	Jump:                  "Jump",
	Call:                  "Call",
	SkipEqualImmediate:    "SkipEqualImmediate",
	SkipNotEqualImmediate: "SkipNotEqualImmediate",
	SkipEqualRegister:     "SkipEqualRegister",
	LoadImmediate:         "LoadImmediate",
	AddImmediate:          "AddImmediate",
	Move:                  "Move",
	Or:                    "Or",
	And:                   "And",
	Xor:                   "Xor",
	AddRegister:           "AddRegister",
	Sub:                   "Sub",
	ShiftRight:            "ShiftRight",
	SubReverse:            "SubReverse",
	ShiftLeft:             "ShiftLeft",
	SkipNotEqualRegister:  "SkipNotEqualRegister",
	LoadIndex:             "LoadIndex",
	JumpOffset:            "JumpOffset",
	Random:                "Random",
	Draw:                  "Draw",
	SkipKeyPressed:        "SkipKeyPressed",
	SkipKeyNotPressed:     "SkipKeyNotPressed",
	LoadDelay:             "LoadDelay",
	WaitKey:               "WaitKey",
	SetDelay:              "SetDelay",
	SetSound:              "SetSound",
	AddIndex:              "AddIndex",
	LoadFont:              "LoadFont",
	StoreBCD:              "StoreBCD",
	StoreRegisters:        "StoreRegisters",
	LoadRegisters:         "LoadRegisters",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) >= KindCount {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// IsSkip returns whether the kind conditionally skips the next instruction.
func (k Kind) IsSkip() bool {
	switch k {
	case SkipEqualImmediate, SkipNotEqualImmediate, SkipEqualRegister,
		SkipNotEqualRegister, SkipKeyPressed, SkipKeyNotPressed:
		return true
	default:
		return false
	}
}

// Instruction is a decoded opcode with all operand fields extracted.
// Fields that the kind does not use are still filled from the opcode.
type Instruction struct {
	Kind   Kind
	Opcode uint16

	X   uint8  // second nibble, register index
	Y   uint8  // third nibble, register index
	N   uint8  // fourth nibble
	KK  uint8  // low byte, immediate value
	NNN uint16 // low 12 bits, address
}
