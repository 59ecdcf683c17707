// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/listing"
	"github.com/retroenv/xipe/internal/options"
	"github.com/retroenv/xipe/internal/vm"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// EngineOptions returns the engine options for the program options.
// Frontends tick the timers at 60 Hz, so timers are always decoupled
// from the instruction execution.
func EngineOptions(logger *log.Logger, opts options.Program) []vm.Option {
	policy := vm.IgnoreUnknown
	if opts.Strict {
		policy = vm.HaltOnUnknown
	}

	return []vm.Option{
		vm.WithLogger(logger),
		vm.WithTimerMode(vm.TimersExternal),
		vm.WithUnknownOpcodes(policy),
		vm.WithTrace(opts.Trace),
	}
}

// ListingOptions returns the listing writer options for the program options.
func ListingOptions(opts options.Program) listing.Options {
	return listing.Options{
		HexComments:    !opts.NoHexComments,
		OffsetComments: !opts.NoOffsets,
	}
}
