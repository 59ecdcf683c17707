package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/xipe/internal/display"
)

// ANSI control sequences.
const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Rows is the number of terminal rows that a frame occupies, every
// character cell shows two vertically stacked pixels.
const Rows = display.Height / 2

// halfBlocks is indexed by top pixel | bottom pixel<<1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// Render writes the frame starting at the top left corner of the terminal.
// Lines are terminated by CR LF as the terminal is in raw mode.
func Render(w io.Writer, frame *display.Frame) error {
	var sb strings.Builder
	sb.Grow(len(cursorHome) + Rows*(display.Width*3+2))
	sb.WriteString(cursorHome)

	for row := range Rows {
		for x := range display.Width {
			index := 0
			if frame.Pixel(x, 2*row) {
				index |= 1
			}
			if frame.Pixel(x, 2*row+1) {
				index |= 2
			}
			sb.WriteString(halfBlocks[index])
		}
		sb.WriteString("\r\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
