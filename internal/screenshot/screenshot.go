// Package screenshot converts framebuffers to images.
package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/retroenv/xipe/internal/display"
	"golang.org/x/image/draw"
)

// Pixel colors.
var (
	Foreground = color.RGBA{R: 0xE0, G: 0xF0, B: 0xE0, A: 0xFF}
	Background = color.RGBA{R: 0x10, G: 0x18, B: 0x10, A: 0xFF}
)

// Image returns the frame as an image with every pixel scaled to a
// scale × scale square. Scales below 1 are treated as 1.
func Image(frame *display.Frame, scale int) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, display.Width, display.Height))
	for y := range display.Height {
		for x := range display.Width {
			c := Background
			if frame.Pixel(x, y) {
				c = Foreground
			}
			src.SetRGBA(x, y, c)
		}
	}

	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, display.Width*scale, display.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes the scaled frame as PNG to w.
func Encode(w io.Writer, frame *display.Frame, scale int) error {
	if err := png.Encode(w, Image(frame, scale)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Save writes the scaled frame as PNG file.
func Save(fileName string, frame *display.Frame, scale int) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", fileName, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing file '%s': %w", fileName, closeErr)
		}
	}()

	return Encode(f, frame, scale)
}
