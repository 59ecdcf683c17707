// Package fileprocessor handles the selection and processing of input files
package fileprocessor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/options"
	"github.com/retroenv/xipe/internal/pipeline"
)

// Output file extensions.
const (
	ListingExtension    = ".asm"
	ScreenshotExtension = ".png"
)

// ProcessFile handles the complete processing of a single cartridge file
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	p := pipeline.New(logger)
	if err := p.Execute(ctx, opts); err != nil {
		return fmt.Errorf("processing %s: %w", opts.Input, err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// OutputFilename returns the output file name for an input file. Batch runs
// always derive the name from the input file, single runs only when no
// output was given and a file is produced: listings without an output file
// are printed on the console, interactive frontends produce no output file.
func OutputFilename(opts options.Program, inputFile string, batch bool) string {
	if opts.Output != "" && !batch {
		return opts.Output
	}

	switch {
	case opts.Disasm && batch:
		return GenerateOutputFilename(inputFile, ListingExtension)
	case opts.Disasm:
		return ""
	case opts.Frontend == options.FrontendHeadless:
		return GenerateOutputFilename(inputFile, ScreenshotExtension)
	default:
		return ""
	}
}

// GenerateOutputFilename generates output filename for a given input file
func GenerateOutputFilename(inputFile, extension string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + extension
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("xipe", log.String("version", buildinfo.Version(version, commit, date)))
}
