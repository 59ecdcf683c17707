package screenshot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/xipe/internal/display"
)

func testFrame() *display.Frame {
	d := display.New()
	d.Draw(0, 0, []byte{0x80})
	d.Draw(display.Width-1, display.Height-1, []byte{0x80})
	frame := d.Snapshot()
	return &frame
}

func TestImageScaled(t *testing.T) {
	img := Image(testFrame(), 3)
	assert.Equal(t, display.Width*3, img.Bounds().Dx())
	assert.Equal(t, display.Height*3, img.Bounds().Dy())

	assert.Equal(t, Foreground, img.RGBAAt(0, 0))
	assert.Equal(t, Foreground, img.RGBAAt(2, 2))
	assert.Equal(t, Background, img.RGBAAt(3, 0))
	assert.Equal(t, Foreground, img.RGBAAt(display.Width*3-1, display.Height*3-1))
}

func TestImageUnscaled(t *testing.T) {
	img := Image(testFrame(), 0)
	assert.Equal(t, display.Width, img.Bounds().Dx())
	assert.Equal(t, Foreground, img.RGBAAt(0, 0))
	assert.Equal(t, Background, img.RGBAAt(1, 0))
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Encode(&buf, testFrame(), 2))

	img, err := png.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, display.Width*2, img.Bounds().Dx())
}

func TestSave(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "frame.png")
	assert.NoError(t, Save(fileName, testFrame(), 1))

	data, err := os.ReadFile(fileName)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	err = Save(filepath.Join(t.TempDir(), "missing", "frame.png"), testFrame(), 1)
	assert.ErrorContains(t, err, "creating file")
}
