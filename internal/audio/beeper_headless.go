//go:build headless

package audio

import "github.com/retroenv/retrogolib/log"

var _ Sink = (*Beeper)(nil)

// Beeper is a silent stand-in for builds without audio device support.
type Beeper struct{}

// NewBeeper returns a silent beeper.
func NewBeeper(logger *log.Logger) (*Beeper, error) {
	logger.Debug("Audio device support not included in build")
	return &Beeper{}, nil
}

// BeginTone implements Sink.
func (b *Beeper) BeginTone() {}

// EndTone implements Sink.
func (b *Beeper) EndTone() {}

// Close implements io.Closer.
func (b *Beeper) Close() error {
	return nil
}
