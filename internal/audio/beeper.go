//go:build !headless

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/retroenv/retrogolib/log"
)

var _ Sink = (*Beeper)(nil)

// Beeper plays a square wave tone on the default audio device.
// Tones stop after ToneDuration unless they are ended earlier.
type Beeper struct {
	logger *log.Logger

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	stop   *time.Timer
}

// NewBeeper opens the default audio device.
func NewBeeper(logger *log.Logger) (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	logger.Debug("Audio device opened", log.Int("sample_rate", SampleRate))

	return &Beeper{
		logger: logger,
		ctx:    ctx,
		player: ctx.NewPlayer(newSquareWave(SampleRate, ToneFrequency)),
	}, nil
}

// BeginTone starts the tone or extends a playing one.
func (b *Beeper) BeginTone() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stop != nil {
		b.stop.Stop()
	}
	b.stop = time.AfterFunc(ToneDuration, b.EndTone)

	if !b.player.IsPlaying() {
		b.player.Play()
	}
}

// EndTone stops the tone.
func (b *Beeper) EndTone() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stop != nil {
		b.stop.Stop()
		b.stop = nil
	}
	if b.player.IsPlaying() {
		b.player.Pause()
	}
}

// Close stops the tone and releases the player.
func (b *Beeper) Close() error {
	b.EndTone()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
