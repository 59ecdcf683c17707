// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/xipe/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := options.New()
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Input == "" && opts.Batch == "" {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: xipe [options] <cartridge file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after cartridge file, please pass the cartridge file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(options.Frontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(options.Frontends, ", "))
	}

	// batch processing has no interactive device
	if opts.Batch != "" {
		opts.Frontend = options.FrontendHeadless
	}

	if opts.Rate <= 0 {
		return fmt.Errorf("invalid cycle rate %d, has to be positive", opts.Rate)
	}
	if opts.Cycles < 0 {
		return fmt.Errorf("invalid cycle count %d, can not be negative", opts.Cycles)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("invalid scale %d, has to be positive", opts.Scale)
	}

	if opts.Trace {
		opts.Debug = true
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input cartridge file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, listings are printed on console and screenshots named after the input if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask headless with automatic output file naming, for example *.ch8")
	flags.StringVar(&opts.Record, "record", "", "name of a .wav file to record the tone output to")
	flags.StringVar(&opts.Frontend, "f", opts.Frontend, "frontend to run the cartridge with (window/terminal/headless)")
	flags.BoolVar(&opts.Disasm, "disasm", false, "write a disassembly listing of the cartridge instead of running it")
	flags.IntVar(&opts.Rate, "rate", opts.Rate, "number of executed cycles per second")
	flags.IntVar(&opts.Cycles, "cycles", opts.Cycles, "number of cycles to run in headless mode before writing the screenshot")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "pixel scale of the window and of screenshots")
	flags.BoolVar(&opts.Strict, "strict", false, "halt the execution on unknown opcodes")
	flags.BoolVar(&opts.Mute, "mute", false, "disable the audio output")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, enables debug logging")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output offsets in comments")
}
