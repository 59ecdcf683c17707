// Package listing writes a disassembly listing of a cartridge.
package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/xipe/internal/instruction"
	"github.com/retroenv/xipe/internal/machine"
)

const (
	startLabel  = "Start"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
)

// Options of the listing writer.
type Options struct {
	HexComments    bool
	OffsetComments bool
}

// NewOptions returns the default options with all comments enabled.
func NewOptions() Options {
	return Options{
		HexComments:    true,
		OffsetComments: true,
	}
}

type line struct {
	address uint16
	data    []byte
	code    string
}

// Writer writes the listing of a program that is loaded at the program start.
type Writer struct {
	program []byte
	options Options
	writer  io.Writer

	calls set.Set[uint16]
	jumps set.Set[uint16]
}

// New creates a new listing writer.
func New(program []byte, writer io.Writer, options Options) *Writer {
	return &Writer{
		program: program,
		options: options,
		writer:  writer,
		calls:   set.New[uint16](),
		jumps:   set.New[uint16](),
	}
}

// Write decodes the program linearly in instruction steps and writes all
// instructions with their labels and comments.
func (w *Writer) Write() error {
	lines := w.decode()

	if err := w.writeHeader(); err != nil {
		return err
	}

	for i, l := range lines {
		if err := w.writeLabel(i, l.address); err != nil {
			return err
		}
		if err := w.writeCodeLine(l); err != nil {
			return err
		}
	}
	return nil
}

// decode splits the program into lines and collects all branch targets.
func (w *Writer) decode() []line {
	lines := make([]line, 0, len(w.program)/instruction.Size+1)
	var decoded []instruction.Instruction

	for offset := 0; offset < len(w.program); offset += instruction.Size {
		address := uint16(machine.ProgramStart + offset)
		if offset+1 >= len(w.program) {
			lines = append(lines, line{
				address: address,
				data:    w.program[offset:],
				code:    fmt.Sprintf(".byte $%02X", w.program[offset]),
			})
			break
		}

		opcode := uint16(w.program[offset])<<8 | uint16(w.program[offset+1])
		ins := instruction.Decode(opcode)
		switch ins.Kind {
		case instruction.Call:
			w.calls.Add(ins.NNN)
		case instruction.Jump:
			w.jumps.Add(ins.NNN)
		}

		decoded = append(decoded, ins)
		lines = append(lines, line{
			address: address,
			data:    w.program[offset : offset+instruction.Size],
		})
	}

	for i, ins := range decoded {
		lines[i].code = w.code(ins)
	}
	return lines
}

// code returns the assembly text of an instruction, branch targets that are
// part of the program are referenced by label.
func (w *Writer) code(ins instruction.Instruction) string {
	if ins.Kind != instruction.Call && ins.Kind != instruction.Jump {
		return ins.String()
	}
	if !w.inProgram(ins.NNN) {
		return ins.String()
	}
	return fmt.Sprintf("%s %s", ins.Name(), w.label(ins.NNN))
}

func (w *Writer) inProgram(address uint16) bool {
	return address >= machine.ProgramStart && int(address) < machine.ProgramStart+len(w.program)
}

// label returns the label name of an address or an empty string.
func (w *Writer) label(address uint16) string {
	switch {
	case address == machine.ProgramStart:
		return startLabel
	case w.calls.Contains(address):
		return fmt.Sprintf(funcNaming, address)
	case w.jumps.Contains(address):
		return fmt.Sprintf(labelNaming, address)
	default:
		return ""
	}
}

func (w *Writer) writeHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; Program size: %d bytes\n", len(w.program)); err != nil {
		return fmt.Errorf("writing program size: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Code base address: $%04x\n\n", machine.ProgramStart); err != nil {
		return fmt.Errorf("writing code base address: %w", err)
	}
	return nil
}

func (w *Writer) writeLabel(index int, address uint16) error {
	name := w.label(address)
	if name == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w.writer, "%s:\n", name); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w *Writer) writeCodeLine(l line) error {
	comment := w.comment(l)
	if comment == "" {
		if _, err := fmt.Fprintf(w.writer, "  %s\n", l.code); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintf(w.writer, "  %-30s ; %s\n", l.code, comment); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w *Writer) comment(l line) string {
	var comments []string
	if w.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", l.address))
	}
	if w.options.HexComments {
		hex := make([]string, 0, len(l.data))
		for _, b := range l.data {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}
		comments = append(comments, strings.Join(hex, " "))
	}
	return strings.Join(comments, "  ")
}
