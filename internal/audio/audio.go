// Package audio provides the tone sinks that the execution engine signals
// when the sound timer expires.
package audio

import (
	"encoding/binary"
	"time"
)

// Tone parameters shared by all sinks that produce samples.
const (
	SampleRate    = 44100
	ToneFrequency = 440

	// ToneDuration is the time after which a started tone stops on its own
	// if it was not ended explicitly.
	ToneDuration = 200 * time.Millisecond

	amplitude = 0x2000
)

// Sink receives tone signals. The engine audio interface is satisfied by
// every sink of this package.
type Sink interface {
	BeginTone()
	EndTone()
}

var (
	_ Sink = Nop{}
	_ Sink = Multi{}
)

// Nop is a sink that ignores all signals.
type Nop struct{}

// BeginTone implements Sink.
func (Nop) BeginTone() {}

// EndTone implements Sink.
func (Nop) EndTone() {}

// Multi forwards all signals to every contained sink.
type Multi []Sink

// BeginTone implements Sink.
func (m Multi) BeginTone() {
	for _, s := range m {
		s.BeginTone()
	}
}

// EndTone implements Sink.
func (m Multi) EndTone() {
	for _, s := range m {
		s.EndTone()
	}
}

// squareWave generates an endless mono square wave as signed 16 bit
// little endian samples.
type squareWave struct {
	period int
	phase  int
}

func newSquareWave(sampleRate, frequency int) *squareWave {
	return &squareWave{
		period: max(sampleRate/frequency, 2),
	}
}

// sample returns the next sample value and advances the phase.
func (w *squareWave) sample() int {
	v := amplitude
	if w.phase >= w.period/2 {
		v = -amplitude
	}
	w.phase = (w.phase + 1) % w.period
	return v
}

// Read fills p with complete samples, a trailing odd byte is left unused.
func (w *squareWave) Read(p []byte) (int, error) {
	n := len(p) &^ 1
	for i := 0; i < n; i += 2 {
		binary.LittleEndian.PutUint16(p[i:], uint16(int16(w.sample())))
	}
	return n, nil
}
