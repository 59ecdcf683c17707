// Package terminal implements a frontend that renders to a text terminal
// and reads the keypad from the terminal input.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/display"
	"github.com/retroenv/xipe/internal/frontend"
	"github.com/retroenv/xipe/internal/input"
	"golang.org/x/term"
)

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03

	// DefaultHoldTime is the time that a typed key stays pressed. Terminals
	// only report key presses, releases are emulated.
	DefaultHoldTime = 150 * time.Millisecond
)

// ErrNotTerminal is returned when the standard input is not a terminal.
var ErrNotTerminal = errors.New("standard input is not a terminal")

// Options of the terminal frontend.
type Options struct {
	CyclesPerSecond int
	HoldTime        time.Duration
}

// Terminal drives a machine from a timer loop, all machine calls happen on
// the goroutine that runs the loop.
type Terminal struct {
	logger  *log.Logger
	machine frontend.Machine
	out     io.Writer
	pacer   *frontend.Pacer
	keys    *heldKeys
}

// New returns a terminal frontend writing frames to out.
func New(logger *log.Logger, machine frontend.Machine, out io.Writer, opts Options) *Terminal {
	holdTime := opts.HoldTime
	if holdTime <= 0 {
		holdTime = DefaultHoldTime
	}
	return &Terminal{
		logger:  logger,
		machine: machine,
		out:     out,
		pacer:   frontend.NewPacer(opts.CyclesPerSecond),
		keys:    newHeldKeys(holdTime),
	}
}

// Run switches the terminal to raw mode and runs the machine until Escape
// or Ctrl+C is typed, the context is cancelled or the machine halts.
func Run(ctx context.Context, logger *log.Logger, machine frontend.Machine, opts Options) (err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (width < display.Width || height < Rows) {
		logger.Warn("Terminal is smaller than the display",
			log.Int("columns", width),
			log.Int("rows", height))
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting terminal raw mode: %w", err)
	}
	defer func() {
		_, _ = io.WriteString(os.Stdout, showCursor)
		if restoreErr := term.Restore(fd, state); restoreErr != nil && err == nil {
			err = fmt.Errorf("restoring terminal: %w", restoreErr)
		}
	}()

	if _, err := io.WriteString(os.Stdout, clearScreen+hideCursor); err != nil {
		return fmt.Errorf("preparing terminal: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := New(logger, machine, os.Stdout, opts)
	return t.Loop(ctx, readInput(ctx, os.Stdin))
}

// Loop processes input and runs one frame per timer tick. A closed input
// channel ends the loop.
func (t *Terminal) Loop(ctx context.Context, inputs <-chan []byte) error {
	ticker := time.NewTicker(time.Second / frontend.TimerFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("running terminal frontend: %w", ctx.Err())

		case data, ok := <-inputs:
			if !ok || t.handleInput(data, time.Now()) {
				return nil
			}

		case now := <-ticker.C:
			if err := t.frame(now); err != nil {
				return err
			}
		}
	}
}

// handleInput presses the keys of typed characters and returns whether the
// user requested to quit.
func (t *Terminal) handleInput(data []byte, now time.Time) bool {
	if len(data) == 0 {
		return false
	}
	if len(data) == 1 && data[0] == keyEscape {
		return true
	}
	if data[0] == keyEscape {
		// escape sequence of a special key
		return false
	}

	for _, b := range data {
		if b == keyCtrlC {
			return true
		}
		key, ok := input.KeyForRune(rune(b))
		if !ok {
			continue
		}
		t.keys.press(key, now)
		t.machine.PressKey(key)
	}
	return false
}

func (t *Terminal) frame(now time.Time) error {
	for _, key := range t.keys.expire(now) {
		t.machine.ReleaseKey(key)
	}

	if err := frontend.RunFrame(t.machine, t.pacer.Next()); err != nil {
		return err
	}

	if !t.machine.NeedsRedraw() {
		return nil
	}
	frame := t.machine.Framebuffer()
	if err := Render(t.out, &frame); err != nil {
		return err
	}
	t.machine.AcknowledgeRedraw()
	return nil
}

// readInput forwards everything read from r until a read fails or the
// context is cancelled. A goroutine blocked in Read exits after the next
// input arrives.
func readInput(ctx context.Context, r io.Reader) <-chan []byte {
	ch := make(chan []byte)
	go func() {
		defer close(ch)
		buf := make([]byte, 16)
		for ctx.Err() == nil {
			n, err := r.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				select {
				case ch <- data:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// heldKeys tracks the release time of typed keys.
type heldKeys struct {
	holdTime time.Duration
	until    [input.KeyCount]time.Time
}

func newHeldKeys(holdTime time.Duration) *heldKeys {
	return &heldKeys{holdTime: holdTime}
}

func (h *heldKeys) press(key input.Key, now time.Time) {
	h.until[key] = now.Add(h.holdTime)
}

// expire returns all keys whose hold time has passed.
func (h *heldKeys) expire(now time.Time) []input.Key {
	var released []input.Key
	for i, until := range h.until {
		if until.IsZero() || now.Before(until) {
			continue
		}
		h.until[i] = time.Time{}
		released = append(released, input.Key(i))
	}
	return released
}
