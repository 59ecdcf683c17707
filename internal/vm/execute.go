package vm

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/input"
	"github.com/retroenv/xipe/internal/instruction"
	"github.com/retroenv/xipe/internal/machine"
)

// execute runs a decoded instruction and returns the address of the next
// instruction.
func (e *Engine) execute(pc uint16, ins instruction.Instruction) (uint16, error) {
	s := e.state
	next := pc + instruction.Size
	skip := next + instruction.Size
	vx := s.V[ins.X]
	vy := s.V[ins.Y]

	switch ins.Kind {
	case instruction.ClearDisplay:
		e.display.Clear()

	case instruction.Return:
		addr, err := s.Pop()
		if err != nil {
			return 0, err
		}
		return addr, nil

	case instruction.MachineCall:
		e.logger.Debug("Ignoring machine code routine call",
			log.Hex("pc", pc),
			log.Hex("address", ins.NNN))

	case instruction.Jump:
		return ins.NNN, nil

	case instruction.Call:
		if err := s.Push(next); err != nil {
			return 0, err
		}
		return ins.NNN, nil

	case instruction.SkipEqualImmediate:
		if vx == ins.KK {
			return skip, nil
		}
	case instruction.SkipNotEqualImmediate:
		if vx != ins.KK {
			return skip, nil
		}
	case instruction.SkipEqualRegister:
		if vx == vy {
			return skip, nil
		}
	case instruction.SkipNotEqualRegister:
		if vx != vy {
			return skip, nil
		}

	case instruction.LoadImmediate:
		s.V[ins.X] = ins.KK
	case instruction.AddImmediate:
		s.V[ins.X] = vx + ins.KK

	case instruction.Move:
		s.V[ins.X] = vy
	case instruction.Or:
		s.V[ins.X] = vx | vy
	case instruction.And:
		s.V[ins.X] = vx & vy
	case instruction.Xor:
		s.V[ins.X] = vx ^ vy
	case instruction.AddRegister:
		sum := uint16(vx) + uint16(vy)
		e.setFlagged(ins.X, uint8(sum), sum > 0xFF)
	case instruction.Sub:
		e.setFlagged(ins.X, vx-vy, vx >= vy)
	case instruction.SubReverse:
		e.setFlagged(ins.X, vy-vx, vy >= vx)
	case instruction.ShiftRight:
		e.setFlagged(ins.X, vx>>1, vx&0x01 != 0)
	case instruction.ShiftLeft:
		e.setFlagged(ins.X, vx<<1, vx&0x80 != 0)

	case instruction.LoadIndex:
		s.I = ins.NNN
	case instruction.JumpOffset:
		return ins.NNN + uint16(s.V[0]), nil
	case instruction.Random:
		s.V[ins.X] = e.random.Byte() & ins.KK

	case instruction.Draw:
		return next, e.draw(ins, vx, vy)

	case instruction.SkipKeyPressed:
		if e.keypad.IsPressed(input.Key(vx)) {
			return skip, nil
		}
	case instruction.SkipKeyNotPressed:
		if !e.keypad.IsPressed(input.Key(vx)) {
			return skip, nil
		}

	case instruction.LoadDelay:
		s.V[ins.X] = s.Delay
	case instruction.WaitKey:
		e.waiting = true
		e.waitRegister = ins.X
	case instruction.SetDelay:
		s.Delay = vx
	case instruction.SetSound:
		s.Sound = vx
		if vx == 0 {
			e.audio.EndTone()
		}

	case instruction.AddIndex:
		s.I += uint16(vx)
	case instruction.LoadFont:
		s.I = machine.GlyphAddress(vx)
	case instruction.StoreBCD:
		return next, e.storeBCD(vx)
	case instruction.StoreRegisters:
		return next, e.storeRegisters(ins.X)
	case instruction.LoadRegisters:
		return next, e.loadRegisters(ins.X)

	default:
		if e.unknownPolicy == HaltOnUnknown {
			return 0, ErrUnknownOpcode
		}
		e.logger.Debug("Ignoring unknown opcode",
			log.Hex("pc", pc),
			log.Hex("opcode", ins.Opcode))
	}

	return next, nil
}

func (e *Engine) draw(ins instruction.Instruction, vx, vy uint8) error {
	sprite, err := e.state.MemoryRange(e.state.I, int(ins.N))
	if err != nil {
		return err
	}
	collision := e.display.Draw(int(vx), int(vy), sprite)
	e.state.V[machine.FlagRegister] = boolToFlag(collision)
	return nil
}

func (e *Engine) storeBCD(value uint8) error {
	digits, err := e.state.MemoryRange(e.state.I, 3)
	if err != nil {
		return err
	}
	digits[0] = value / 100
	digits[1] = value / 10 % 10
	digits[2] = value % 10
	return nil
}

// storeRegisters writes V0..Vx to memory starting at I and advances I past
// the written bytes.
func (e *Engine) storeRegisters(x uint8) error {
	count := int(x) + 1
	mem, err := e.state.MemoryRange(e.state.I, count)
	if err != nil {
		return err
	}
	copy(mem, e.state.V[:count])
	e.state.I += uint16(count)
	return nil
}

// loadRegisters reads V0..Vx from memory starting at I and advances I past
// the read bytes.
func (e *Engine) loadRegisters(x uint8) error {
	count := int(x) + 1
	mem, err := e.state.MemoryRange(e.state.I, count)
	if err != nil {
		return err
	}
	copy(e.state.V[:count], mem)
	e.state.I += uint16(count)
	return nil
}
