// Package display implements the monochrome framebuffer of the virtual machine.
package display

// Framebuffer dimensions in pixels.
const (
	Width  = 64
	Height = 32

	// MaxSpriteRows is the maximum height of a sprite.
	MaxSpriteRows = 15
)

// Frame is a row-major copy of all pixels, index = x + y*Width.
type Frame [Width * Height]bool

// Pixel returns the pixel at the given position, positions outside of the
// frame are unset.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f[x+y*Width]
}

// Display owns the pixel grid and tracks whether it changed since the
// last acknowledgement.
type Display struct {
	pixels Frame
	dirty  bool
}

// New returns a cleared display.
func New() *Display {
	return &Display{}
}

// Clear unsets all pixels.
func (d *Display) Clear() {
	for i, set := range d.pixels {
		if set {
			d.pixels[i] = false
			d.dirty = true
		}
	}
}

// Reset clears the display and marks it for redraw.
func (d *Display) Reset() {
	d.pixels = Frame{}
	d.dirty = true
}

// Draw XORs the sprite rows onto the grid with its top left corner at x, y.
// Each sprite byte is one row with the most significant bit being the
// leftmost pixel. Pixels that fall outside of the grid are clipped, the
// sprite does not wrap around. Rows beyond MaxSpriteRows are ignored.
// It returns whether any set pixel was unset by the draw.
func (d *Display) Draw(x, y int, sprite []byte) bool {
	if len(sprite) > MaxSpriteRows {
		sprite = sprite[:MaxSpriteRows]
	}

	var collision bool
	for row, line := range sprite {
		py := y + row
		if py < 0 || py >= Height {
			continue
		}

		for column := range 8 {
			if line&(0x80>>column) == 0 {
				continue
			}
			px := x + column
			if px < 0 || px >= Width {
				continue
			}

			i := px + py*Width
			if d.pixels[i] {
				collision = true
			}
			d.pixels[i] = !d.pixels[i]
			d.dirty = true
		}
	}
	return collision
}

// Pixel returns whether the pixel at the given position is set.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels.Pixel(x, y)
}

// Snapshot returns a copy of the current pixel grid.
func (d *Display) Snapshot() Frame {
	return d.pixels
}

// Dirty returns whether the grid changed since the last acknowledgement.
func (d *Display) Dirty() bool {
	return d.dirty
}

// Acknowledge marks the current grid as presented.
func (d *Display) Acknowledge() {
	d.dirty = false
}
