package fileprocessor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/machine"
	"github.com/retroenv/xipe/internal/options"
)

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.ch8", "b.ch8", "c.txt"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{0x00, 0xE0}, 0o600))
	}

	opts := options.New()
	opts.Batch = filepath.Join(dir, "*.ch8")
	files, err := GetFilesToProcess(&opts)
	assert.NoError(t, err)
	assert.Len(t, files, 2)

	opts = options.New()
	opts.Input = "game.ch8"
	files, err = GetFilesToProcess(&opts)
	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "game.ch8", files[0])

	opts.Batch = "[" // malformed pattern
	_, err = GetFilesToProcess(&opts)
	assert.ErrorContains(t, err, "globbing batch pattern")
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name     string
		frontend string
		disasm   bool
		output   string
		batch    bool
		expected string
	}{
		{"explicit output", options.FrontendHeadless, false, "shot.png", false, "shot.png"},
		{"headless default", options.FrontendHeadless, false, "", false, "roms/pong.png"},
		{"window has no output", options.FrontendWindow, false, "", false, ""},
		{"listing to console", options.FrontendWindow, true, "", false, ""},
		{"batch listing", options.FrontendHeadless, true, "ignored.asm", true, "roms/pong.asm"},
		{"batch screenshot", options.FrontendHeadless, false, "ignored.png", true, "roms/pong.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.New()
			opts.Frontend = tt.frontend
			opts.Disasm = tt.disasm
			opts.Output = tt.output
			assert.Equal(t, tt.expected, OutputFilename(opts, "roms/pong.ch8", tt.batch))
		})
	}
}

func TestGenerateOutputFilename(t *testing.T) {
	assert.Equal(t, "games/maze.asm", GenerateOutputFilename("games/maze.ch8", ListingExtension))
	assert.Equal(t, "maze.png", GenerateOutputFilename("maze", ScreenshotExtension))
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clear.ch8")
	assert.NoError(t, os.WriteFile(input, []byte{0x00, 0xE0, 0x12, 0x02}, 0o600))

	opts := options.New()
	opts.Frontend = options.FrontendHeadless
	opts.Quiet = true
	opts.Cycles = 10
	opts.Input = input
	opts.Output = OutputFilename(opts, input, true)

	assert.NoError(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts))
	_, err := os.Stat(filepath.Join(dir, "clear.png"))
	assert.NoError(t, err)

	opts.Input = filepath.Join(dir, "big.ch8")
	assert.NoError(t, os.WriteFile(opts.Input, make([]byte, machine.MaxProgramSize+1), 0o600))
	err = ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.True(t, errors.Is(err, machine.ErrProgramTooLarge))
	assert.ErrorContains(t, err, "big.ch8")
}

func TestPrintBanner(t *testing.T) {
	opts := options.New()
	PrintBanner(log.NewTestLogger(t), opts, "1.0.0", "abcdef0123", "2026-01-01")

	opts.Quiet = true
	PrintBanner(log.NewTestLogger(t), opts, "dev", "", "")
}
