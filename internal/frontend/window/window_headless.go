//go:build headless

// Package window implements a frontend that renders into a desktop window.
// Builds with the headless tag do not include window support.
package window

import (
	"context"
	"errors"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/frontend"
)

// ErrUnavailable is returned by Run in builds without window support.
var ErrUnavailable = errors.New("window frontend is not included in this build")

// Options of the window frontend.
type Options struct {
	Title           string
	Scale           int
	CyclesPerSecond int
	Reset           func() error
}

// Run returns ErrUnavailable.
func Run(_ context.Context, _ *log.Logger, _ frontend.Machine, _ Options) error {
	return ErrUnavailable
}
