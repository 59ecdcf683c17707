// Package pipeline orchestrates the stages of loading and running or
// listing a cartridge.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/audio"
	"github.com/retroenv/xipe/internal/config"
	"github.com/retroenv/xipe/internal/frontend/headless"
	"github.com/retroenv/xipe/internal/frontend/terminal"
	"github.com/retroenv/xipe/internal/frontend/window"
	"github.com/retroenv/xipe/internal/listing"
	"github.com/retroenv/xipe/internal/loader"
	"github.com/retroenv/xipe/internal/options"
	"github.com/retroenv/xipe/internal/screenshot"
	"github.com/retroenv/xipe/internal/vm"
)

const windowTitle = "xipe"

// Pipeline orchestrates the complete workflow for one cartridge.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(logger),
	}
}

// Execute loads the input cartridge and either writes its listing or runs it
// with the selected frontend.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) error {
	program, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}

	p.printInfo(opts, program)

	if opts.Disasm {
		return p.writeListing(program, opts)
	}
	return p.Run(ctx, program, opts)
}

// WriteListing writes the disassembly listing of the program to w.
func (p *Pipeline) WriteListing(program []byte, opts options.Program, w io.Writer) error {
	writer := listing.New(program, w, config.ListingOptions(opts))
	if err := writer.Write(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// Run executes the program with the frontend of the options. In headless
// mode a screenshot of the final frame is written to the output file, also
// when the execution halted.
func (p *Pipeline) Run(ctx context.Context, program []byte, opts options.Program) (err error) {
	var runner *headless.Runner
	var clock audio.Clock
	if opts.Frontend == options.FrontendHeadless {
		clock = func() time.Duration {
			if runner == nil {
				return 0
			}
			return runner.Elapsed()
		}
	}

	sink, closeAudio, err := p.createAudio(opts, clock)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeAudio(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	engine := vm.New(sink, config.EngineOptions(p.logger, opts)...)
	reset := func() error {
		engine.Reset()
		if err := engine.Load(program); err != nil {
			return fmt.Errorf("loading program: %w", err)
		}
		return nil
	}
	if err := reset(); err != nil {
		return err
	}

	switch opts.Frontend {
	case options.FrontendWindow:
		err = window.Run(ctx, p.logger, engine, window.Options{
			Title:           windowTitle + " - " + filepath.Base(opts.Input),
			Scale:           opts.Scale,
			CyclesPerSecond: opts.Rate,
			Reset:           reset,
		})

	case options.FrontendTerminal:
		err = terminal.Run(ctx, p.logger, engine, terminal.Options{
			CyclesPerSecond: opts.Rate,
		})

	case options.FrontendHeadless:
		runner = headless.New(p.logger, engine, opts.Rate)
		err = runner.Run(ctx, opts.Cycles)
		if shotErr := p.saveScreenshot(engine, opts); shotErr != nil {
			return errors.Join(err, shotErr)
		}

	default:
		return fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}

	return err
}

// createAudio returns the tone sink for the options and a function that
// releases all devices and finalizes recordings.
func (p *Pipeline) createAudio(opts options.Program, clock audio.Clock) (audio.Sink, func() error, error) {
	var sinks audio.Multi
	var closers []func() error

	if !opts.Mute {
		switch opts.Frontend {
		case options.FrontendWindow:
			beeper, err := audio.NewBeeper(p.logger)
			if err != nil {
				p.logger.Warn("Audio output not available", log.Err(err))
				break
			}
			sinks = append(sinks, beeper)
			closers = append(closers, beeper.Close)

		case options.FrontendTerminal:
			sinks = append(sinks, audio.NewBell(os.Stdout))
		}
	}

	if opts.Record != "" {
		file, err := os.Create(opts.Record)
		if err != nil {
			return nil, nil, fmt.Errorf("creating recording file %s: %w", opts.Record, err)
		}
		recorder := audio.NewRecorder(file, clock)
		sinks = append(sinks, recorder)
		closers = append(closers, recorder.Close, file.Close)
	}

	closeAll := func() error {
		var errs []error
		for _, closer := range closers {
			if err := closer(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			return fmt.Errorf("closing audio: %w", err)
		}
		return nil
	}
	return sinks, closeAll, nil
}

func (p *Pipeline) saveScreenshot(engine *vm.Engine, opts options.Program) error {
	if opts.Output == "" {
		return nil
	}

	frame := engine.Framebuffer()
	if err := screenshot.Save(opts.Output, &frame, opts.Scale); err != nil {
		return fmt.Errorf("saving screenshot: %w", err)
	}
	p.logger.Debug("Screenshot written", log.String("file", opts.Output))
	return nil
}

func (p *Pipeline) writeListing(program []byte, opts options.Program) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok && writer != os.Stdout {
			_ = closer.Close()
		}
	}()

	return p.WriteListing(program, opts, writer)
}

// printInfo prints information about the cartridge being processed.
func (p *Pipeline) printInfo(opts options.Program, program []byte) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing cartridge",
		log.String("file", opts.Input),
		log.Int("size", len(program)),
		log.String("frontend", opts.Frontend),
	)
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}
