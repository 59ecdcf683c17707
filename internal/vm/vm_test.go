package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/display"
	"github.com/retroenv/xipe/internal/machine"
)

type recordingAudio struct {
	begins int
	ends   int
}

func (a *recordingAudio) BeginTone() { a.begins++ }
func (a *recordingAudio) EndTone()   { a.ends++ }

type fixedRandom uint8

func (r fixedRandom) Byte() uint8 { return uint8(r) }

func program(opcodes ...uint16) []byte {
	b := make([]byte, 0, 2*len(opcodes))
	for _, op := range opcodes {
		b = append(b, byte(op>>8), byte(op))
	}
	return b
}

func newTestEngine(t *testing.T, opts []Option, opcodes ...uint16) (*Engine, *recordingAudio) {
	t.Helper()
	audio := &recordingAudio{}
	opts = append([]Option{WithLogger(log.NewTestLogger(t)), WithRandom(fixedRandom(0xFF))}, opts...)
	e := New(audio, opts...)
	assert.NoError(t, e.Load(program(opcodes...)))
	return e, audio
}

func runCycles(t *testing.T, e *Engine, n int) {
	t.Helper()
	for range n {
		assert.NoError(t, e.RunCycle())
	}
}

func TestLoadImmediateAllRegisters(t *testing.T) {
	for r := range uint16(machine.RegisterCount) {
		e, _ := newTestEngine(t, nil, 0x6000|r<<8|0xA5)
		runCycles(t, e, 1)
		st := e.State()
		assert.Equal(t, uint8(0xA5), st.V[r])
		assert.Equal(t, uint16(machine.ProgramStart+2), st.PC)
	}
}

//nolint:funlen
func TestArithmeticFlags(t *testing.T) {
	tests := []struct {
		name   string
		x, y   uint8
		opcode uint16
		result uint8
		flag   uint8
	}{
		{"add carry", 0xFF, 0x01, 0x8014, 0x00, 1},
		{"add no carry", 0x10, 0x01, 0x8014, 0x11, 0},
		{"sub borrow", 0x00, 0x01, 0x8015, 0xFF, 0},
		{"sub no borrow", 0x05, 0x05, 0x8015, 0x00, 1},
		{"subn no borrow", 0x01, 0x05, 0x8017, 0x04, 1},
		{"subn borrow", 0x05, 0x01, 0x8017, 0xFC, 0},
		{"shr", 0b00000011, 0x00, 0x8016, 0b00000001, 1},
		{"shr even", 0b00000010, 0x00, 0x8016, 0b00000001, 0},
		{"shl", 0x81, 0x00, 0x801E, 0x02, 1},
		{"shl no carry", 0x41, 0x00, 0x801E, 0x82, 0},
		{"or", 0xF0, 0x0F, 0x8011, 0xFF, 0},
		{"and", 0xF0, 0x3C, 0x8012, 0x30, 0},
		{"xor", 0xFF, 0x0F, 0x8013, 0xF0, 0},
		{"move", 0x00, 0x42, 0x8010, 0x42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, nil,
				0x6000|uint16(tt.x),
				0x6100|uint16(tt.y),
				tt.opcode)
			runCycles(t, e, 3)

			st := e.State()
			assert.Equal(t, tt.result, st.V[0])
			assert.Equal(t, tt.flag, st.V[machine.FlagRegister])
		})
	}
}

func TestFlagRegisterAsDestination(t *testing.T) {
	// VF = 0xFF; VF += 0x01 stores the carry, not the sum
	e, _ := newTestEngine(t, nil, 0x6FFF, 0x6101, 0x8F14)
	runCycles(t, e, 3)
	assert.Equal(t, uint8(1), e.State().V[machine.FlagRegister])

	// VF = 0x02; VF >>= 1 stores the shifted out bit
	e, _ = newTestEngine(t, nil, 0x6F02, 0x8FF6)
	runCycles(t, e, 2)
	assert.Equal(t, uint8(0), e.State().V[machine.FlagRegister])
}

func TestAddImmediateWrapsWithoutFlag(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x6FFF, 0x6001, 0x70FF)
	runCycles(t, e, 3)
	st := e.State()
	assert.Equal(t, uint8(0x00), st.V[0])
	assert.Equal(t, uint8(0xFF), st.V[machine.FlagRegister])
}

func TestCallReturn(t *testing.T) {
	// 0x200: call 0x206, 0x202: ld V0, 1, 0x206: ret
	e, _ := newTestEngine(t, nil, 0x2206, 0x6001, 0x0000, 0x00EE)

	runCycles(t, e, 1)
	st := e.State()
	assert.Equal(t, uint16(0x206), st.PC)
	assert.Equal(t, 1, st.SP)

	runCycles(t, e, 1)
	st = e.State()
	assert.Equal(t, uint16(0x202), st.PC)
	assert.Equal(t, 0, st.SP)

	runCycles(t, e, 1)
	assert.Equal(t, uint8(1), e.State().V[0])
}

func TestJumps(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x1208, 0x0000, 0x0000, 0x0000, 0x6010, 0xB200)
	runCycles(t, e, 1)
	assert.Equal(t, uint16(0x208), e.State().PC)

	runCycles(t, e, 2)
	assert.Equal(t, uint16(0x210), e.State().PC)
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		skip   bool
	}{
		{"se immediate taken", 0x3005, true},
		{"se immediate not taken", 0x3006, false},
		{"sne immediate taken", 0x4006, true},
		{"sne immediate not taken", 0x4005, false},
		{"se register taken", 0x5010, true},
		{"se register not taken", 0x5020, false},
		{"sne register taken", 0x9020, true},
		{"sne register not taken", 0x9010, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// V0 = 5, V1 = 5, V2 = 6
			e, _ := newTestEngine(t, nil, 0x6005, 0x6105, 0x6206, tt.opcode)
			runCycles(t, e, 4)

			expected := uint16(machine.ProgramStart + 8)
			if tt.skip {
				expected += 2
			}
			assert.Equal(t, expected, e.State().PC)
		})
	}
}

func TestKeySkips(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x6007, 0xE09E, 0x0000, 0xE0A1)
	e.PressKey(0x7)
	runCycles(t, e, 2)
	assert.Equal(t, uint16(0x206), e.State().PC)

	e.ReleaseKey(0x7)
	runCycles(t, e, 1)
	assert.Equal(t, uint16(0x20A), e.State().PC)

	// key values above 0xF are never pressed
	e, _ = newTestEngine(t, nil, 0x6017, 0xE0A1)
	runCycles(t, e, 2)
	assert.Equal(t, uint16(0x206), e.State().PC)
}

func TestDrawSelfCancelAndCollision(t *testing.T) {
	// I = font glyph 0, V0 = 3, V1 = 4, draw twice
	e, _ := newTestEngine(t, nil, 0xA000, 0x6003, 0x6104, 0xD015, 0xD015)

	runCycles(t, e, 4)
	assert.True(t, e.NeedsRedraw())
	assert.Equal(t, uint8(0), e.State().V[machine.FlagRegister])
	frame := e.Framebuffer()
	assert.True(t, frame.Pixel(3, 4))

	runCycles(t, e, 1)
	assert.Equal(t, uint8(1), e.State().V[machine.FlagRegister])
	assert.Equal(t, display.Frame{}, e.Framebuffer())

	e.AcknowledgeRedraw()
	assert.False(t, e.NeedsRedraw())
}

func TestDrawCollisionKeepsFlagFromXOR(t *testing.T) {
	// VF preset to 1, non overlapping draw has to clear it
	e, _ := newTestEngine(t, nil, 0x6F01, 0xA000, 0xD001)
	runCycles(t, e, 3)
	assert.Equal(t, uint8(0), e.State().V[machine.FlagRegister])
}

func TestClearDisplay(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0xA000, 0xD005, 0x00E0)
	runCycles(t, e, 2)
	e.AcknowledgeRedraw()

	runCycles(t, e, 1)
	assert.True(t, e.NeedsRedraw())
	assert.Equal(t, display.Frame{}, e.Framebuffer())
}

func TestResetRestoresInitialState(t *testing.T) {
	e, audio := newTestEngine(t, nil, 0x6042, 0xA300, 0x2200)
	runCycles(t, e, 3)

	e.Reset()
	st := e.State()
	for i := machine.ProgramStart; i < machine.MemorySize; i++ {
		assert.Equal(t, byte(0), st.Memory[i])
	}
	assert.Equal(t, [machine.RegisterCount]uint8{}, st.V)
	assert.Equal(t, uint16(0), st.I)
	assert.Equal(t, uint16(machine.ProgramStart), st.PC)
	assert.Equal(t, 0, st.SP)
	assert.Equal(t, machine.Font[0], st.Memory[machine.FontAddress])
	assert.Equal(t, 1, audio.ends)
	assert.True(t, e.NeedsRedraw())
}

func TestLoadTooLarge(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x6042)
	err := e.Load(make([]byte, machine.MaxProgramSize+1))
	assert.True(t, errors.Is(err, machine.ErrProgramTooLarge))

	runCycles(t, e, 1)
	assert.Equal(t, uint8(0x42), e.State().V[0])
}

func TestRegisterDumpLoadRoundTrip(t *testing.T) {
	const k = 5
	opcodes := make([]uint16, 0, 16)
	for r := range uint16(k + 1) {
		opcodes = append(opcodes, 0x6000|r<<8|(0x10+r))
	}
	opcodes = append(opcodes,
		0xA300, // I = 0x300
		0xF555, // dump V0..V5
		0x6000, // V0 = 0
		0x6500, // V5 = 0
		0xA300, // I = 0x300
		0xF565, // load V0..V5
	)
	e, _ := newTestEngine(t, nil, opcodes...)

	runCycles(t, e, k+3)
	st := e.State()
	assert.Equal(t, uint16(0x300+k+1), st.I)
	for r := range k + 1 {
		assert.Equal(t, byte(0x10+r), st.Memory[0x300+r])
	}

	runCycles(t, e, 4)
	st = e.State()
	assert.Equal(t, uint16(0x300+k+1), st.I)
	for r := range k + 1 {
		assert.Equal(t, uint8(0x10+r), st.V[r])
	}
	assert.Equal(t, uint8(0), st.V[k+1])
}

func TestStoreBCD(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x607B, 0xA400, 0xF033)
	runCycles(t, e, 3)
	st := e.State()
	assert.Equal(t, byte(1), st.Memory[0x400])
	assert.Equal(t, byte(2), st.Memory[0x401])
	assert.Equal(t, byte(3), st.Memory[0x402])
	assert.Equal(t, uint16(0x400), st.I)
}

func TestIndexInstructions(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0xAFFF, 0x60FF, 0xF01E, 0x610B, 0xF129)
	runCycles(t, e, 3)
	assert.Equal(t, uint16(0x10FE), e.State().I)
	assert.Equal(t, uint8(0), e.State().V[machine.FlagRegister])

	runCycles(t, e, 2)
	assert.Equal(t, machine.GlyphAddress(0xB), e.State().I)
}

func TestRandomUsesSource(t *testing.T) {
	e, _ := newTestEngine(t, []Option{WithRandom(fixedRandom(0xAB))}, 0xC30F)
	runCycles(t, e, 1)
	assert.Equal(t, uint8(0x0B), e.State().V[3])
}

func TestWaitForKey(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x6342, 0xF30A, 0x6401)
	runCycles(t, e, 2)

	reg, waiting := e.WaitingForKey()
	assert.True(t, waiting)
	assert.Equal(t, uint8(3), reg)

	runCycles(t, e, 5)
	st := e.State()
	assert.Equal(t, uint8(0x42), st.V[3])
	assert.Equal(t, uint16(0x204), st.PC)
	_, waiting = e.WaitingForKey()
	assert.True(t, waiting)

	e.PressKey(0x7)
	runCycles(t, e, 1)
	st = e.State()
	assert.Equal(t, uint8(7), st.V[3])
	assert.Equal(t, uint8(0), st.V[4])
	_, waiting = e.WaitingForKey()
	assert.False(t, waiting)

	runCycles(t, e, 1)
	assert.Equal(t, uint8(1), e.State().V[4])
}

func TestWaitForKeyTicksTimers(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x6010, 0xF015, 0xF10A)
	runCycles(t, e, 3)
	delay := e.State().Delay

	runCycles(t, e, 4)
	assert.Equal(t, delay-4, e.State().Delay)
}

func TestTimersPerCycle(t *testing.T) {
	e, audio := newTestEngine(t, nil, 0x6003, 0xF015, 0xF018, 0x1206)

	runCycles(t, e, 3)
	st := e.State()
	// delay was set in cycle 2 and ticked twice
	assert.Equal(t, uint8(1), st.Delay)
	assert.Equal(t, uint8(2), st.Sound)
	assert.Equal(t, 0, audio.begins)

	runCycles(t, e, 2)
	assert.Equal(t, 1, audio.begins)
	assert.Equal(t, uint8(0), e.State().Sound)
	assert.Equal(t, uint8(0), e.State().Delay)

	runCycles(t, e, 5)
	assert.Equal(t, 1, audio.begins)
}

func TestTimersExternal(t *testing.T) {
	e, audio := newTestEngine(t, []Option{WithTimerMode(TimersExternal)}, 0x6001, 0xF018, 0xF015, 0x1206)
	runCycles(t, e, 10)
	assert.Equal(t, uint8(1), e.State().Sound)
	assert.Equal(t, uint8(1), e.State().Delay)
	assert.Equal(t, 0, audio.begins)

	e.TickTimers()
	assert.Equal(t, 1, audio.begins)
	assert.Equal(t, uint8(0), e.State().Sound)
	assert.Equal(t, uint8(0), e.State().Delay)
}

func TestSetSoundZeroEndsTone(t *testing.T) {
	e, audio := newTestEngine(t, nil, 0x6000, 0xF018)
	runCycles(t, e, 2)
	assert.Equal(t, 1, audio.ends)
}

func TestUnknownOpcodes(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0xFFFF, 0x0123, 0x6001)
	runCycles(t, e, 3)
	assert.Equal(t, uint8(1), e.State().V[0])

	e, _ = newTestEngine(t, []Option{WithUnknownOpcodes(HaltOnUnknown)}, 0x6001, 0xFFFF)
	runCycles(t, e, 1)
	err := e.RunCycle()
	assert.True(t, errors.Is(err, ErrUnknownOpcode))

	var halt *HaltError
	assert.True(t, errors.As(err, &halt))
	assert.Equal(t, uint16(0x202), halt.PC)
	assert.Equal(t, uint16(0xFFFF), halt.Opcode)
}

func TestStackOverflowHalts(t *testing.T) {
	// call self recursively
	e, _ := newTestEngine(t, nil, 0x2200)
	runCycles(t, e, machine.StackSize)

	err := e.RunCycle()
	assert.True(t, errors.Is(err, machine.ErrStackOverflow))
	var halt *HaltError
	assert.True(t, errors.As(err, &halt))
	assert.Equal(t, machine.StackSize, halt.StackDepth)
	assert.Equal(t, uint16(0x2200), halt.Opcode)

	// halted engine keeps reporting the same error
	assert.Equal(t, err, e.RunCycle())
	assert.Equal(t, err, e.Halted())

	e.Reset()
	assert.NoError(t, e.Halted())
}

func TestStackUnderflowHalts(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x00EE)
	err := e.RunCycle()
	assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
	assert.ErrorContains(t, err, "stack depth 0")
}

func TestMemoryBoundsHalt(t *testing.T) {
	tests := []struct {
		name    string
		opcodes []uint16
	}{
		{"fetch past end", []uint16{0x1FFF}},
		{"draw past end", []uint16{0xAFFE, 0xD005}},
		{"bcd past end", []uint16{0xAFFE, 0xF033}},
		{"dump past end", []uint16{0xAFFF, 0xF155}},
		{"load past end", []uint16{0xAFFF, 0xF165}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, nil, tt.opcodes...)
			var err error
			for range len(tt.opcodes) + 1 {
				if err = e.RunCycle(); err != nil {
					break
				}
			}
			assert.True(t, errors.Is(err, machine.ErrAddressOutOfRange))
		})
	}
}

func TestFetchLastWord(t *testing.T) {
	e, _ := newTestEngine(t, nil, 0x1FFE)
	runCycles(t, e, 2) // jump, then execute the zero word at $0FFE
	assert.Equal(t, uint16(0x1000), e.State().PC)

	err := e.RunCycle()
	assert.True(t, errors.Is(err, machine.ErrAddressOutOfRange))
	var halt *HaltError
	assert.True(t, errors.As(err, &halt))
	assert.Equal(t, uint16(0x1000), halt.PC)
}

func TestMachineCallIgnored(t *testing.T) {
	e, _ := newTestEngine(t, []Option{WithTrace(true)}, 0x0300, 0x6001)
	runCycles(t, e, 2)
	assert.Equal(t, uint8(1), e.State().V[0])
}

func TestNilAudio(t *testing.T) {
	e := New(nil, WithLogger(log.NewTestLogger(t)))
	assert.NoError(t, e.Load(program(0x6001, 0xF018, 0x1204)))
	runCycles(t, e, 3)
	e.Reset()
}
