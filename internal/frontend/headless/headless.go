// Package headless runs an engine without any input or output device for a
// fixed number of cycles.
package headless

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/frontend"
)

// Runner executes cycles as fast as possible while keeping the ratio of
// cycles to timer ticks of the configured rate.
type Runner struct {
	logger  *log.Logger
	machine frontend.Machine
	pacer   *frontend.Pacer
	rate    int

	executed int
}

// New returns a runner for the machine.
func New(logger *log.Logger, machine frontend.Machine, cyclesPerSecond int) *Runner {
	return &Runner{
		logger:  logger,
		machine: machine,
		pacer:   frontend.NewPacer(cyclesPerSecond),
		rate:    max(cyclesPerSecond, 1),
	}
}

// Run executes the given number of cycles. It returns early when the
// context is cancelled or the machine halts.
func (r *Runner) Run(ctx context.Context, cycles int) error {
	for r.executed < cycles {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running cycles: %w", err)
		}

		n := min(r.pacer.Next(), cycles-r.executed)
		for range n {
			if err := r.machine.RunCycle(); err != nil {
				return fmt.Errorf("running cycle %d: %w", r.executed, err)
			}
			r.executed++
		}
		r.machine.TickTimers()
	}

	r.logger.Debug("Headless run finished", log.Int("cycles", r.executed))
	return nil
}

// Executed returns the number of executed cycles.
func (r *Runner) Executed() int {
	return r.executed
}

// Elapsed returns the emulated time of the executed cycles.
func (r *Runner) Elapsed() time.Duration {
	return time.Duration(r.executed) * time.Second / time.Duration(r.rate)
}
