//go:build !headless

// Package window implements a frontend that renders into a desktop window
// and reads the keypad from the keyboard.
package window

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/display"
	"github.com/retroenv/xipe/internal/frontend"
	"github.com/retroenv/xipe/internal/screenshot"
)

// Options of the window frontend.
type Options struct {
	Title           string
	Scale           int
	CyclesPerSecond int

	// Reset is called when F5 is pressed, it restarts the running program.
	Reset func() error
}

// Game implements the ebiten game interface. Ebiten calls all methods from
// its game loop goroutine, which makes it the only user of the machine.
type Game struct {
	ctx     context.Context
	logger  *log.Logger
	machine frontend.Machine
	pacer   *frontend.Pacer
	reset   func() error

	image *ebiten.Image
}

// New returns a game driving the machine.
func New(ctx context.Context, logger *log.Logger, machine frontend.Machine, opts Options) *Game {
	return &Game{
		ctx:     ctx,
		logger:  logger,
		machine: machine,
		pacer:   frontend.NewPacer(opts.CyclesPerSecond),
		reset:   opts.Reset,
	}
}

// Run opens the window and runs the machine until the window is closed,
// Escape is pressed, the context is cancelled or the machine halts.
// It has to be called from the main goroutine.
func Run(ctx context.Context, logger *log.Logger, machine frontend.Machine, opts Options) error {
	scale := max(opts.Scale, 1)
	ebiten.SetWindowSize(display.Width*scale, display.Height*scale)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetTPS(frontend.TimerFrequency)

	game := New(ctx, logger, machine, opts)
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("running window frontend: %w", err)
	}
	return nil
}

// Update is called at the timer frequency and runs one frame worth of cycles.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || ebiten.IsWindowBeingClosed() || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) && g.reset != nil {
		if err := g.reset(); err != nil {
			return fmt.Errorf("resetting: %w", err)
		}
		g.logger.Info("Program restarted")
	}

	for _, mapping := range keyMap {
		if ebiten.IsKeyPressed(mapping.host) {
			g.machine.PressKey(mapping.key)
		} else {
			g.machine.ReleaseKey(mapping.key)
		}
	}

	if err := frontend.RunFrame(g.machine, g.pacer.Next()); err != nil {
		return err
	}
	return nil
}

// Draw presents the framebuffer, it is only converted when it changed.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(display.Width, display.Height)
		g.writeFrame()
	} else if g.machine.NeedsRedraw() {
		g.writeFrame()
	}
	screen.DrawImage(g.image, nil)
}

func (g *Game) writeFrame() {
	frame := g.machine.Framebuffer()
	g.image.WritePixels(screenshot.Image(&frame, 1).Pix)
	g.machine.AcknowledgeRedraw()
}

// Layout returns the logical screen size, ebiten scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return display.Width, display.Height
}
