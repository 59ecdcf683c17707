package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	recordBitDepth  = 16
	recordChunkSize = 4096
	wavFormatPCM    = 1
)

var _ Sink = (*Recorder)(nil)

// Clock returns the time elapsed since the start of the recording.
type Clock func() time.Duration

type toneSpan struct {
	start time.Duration
	end   time.Duration
}

// Recorder captures tone signals on a timeline and renders them as a
// mono 16 bit PCM WAV file when it is closed.
type Recorder struct {
	w     io.WriteSeeker
	clock Clock

	mu    sync.Mutex
	spans []toneSpan
}

// NewRecorder returns a recorder writing to w. A nil clock measures the
// wall clock time since the creation of the recorder.
func NewRecorder(w io.WriteSeeker, clock Clock) *Recorder {
	if clock == nil {
		start := time.Now()
		clock = func() time.Duration {
			return time.Since(start)
		}
	}
	return &Recorder{
		w:     w,
		clock: clock,
	}
}

// BeginTone starts a tone at the current clock time. A tone that is still
// playing is extended.
func (r *Recorder) BeginTone() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	end := now + ToneDuration

	if n := len(r.spans); n > 0 && r.spans[n-1].end >= now {
		r.spans[n-1].end = end
		return
	}
	r.spans = append(r.spans, toneSpan{start: now, end: end})
}

// EndTone cuts a playing tone at the current clock time.
func (r *Recorder) EndTone() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	if n := len(r.spans); n > 0 && r.spans[n-1].end > now {
		r.spans[n-1].end = now
	}
}

// Close renders the timeline up to the current clock time or the end of
// the last tone, whichever is later, and finalizes the WAV data. The
// underlying writer is not closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	length := r.clock()
	if n := len(r.spans); n > 0 {
		length = max(length, r.spans[n-1].end)
	}
	total := sampleIndex(length)

	enc := wav.NewEncoder(r.w, SampleRate, recordBitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           make([]int, 0, recordChunkSize),
		SourceBitDepth: recordBitDepth,
	}

	wave := newSquareWave(SampleRate, ToneFrequency)
	span := 0
	for i := range total {
		for span < len(r.spans) && sampleIndex(r.spans[span].end) <= i {
			span++
		}

		value := 0
		if span < len(r.spans) && sampleIndex(r.spans[span].start) <= i {
			value = wave.sample()
		}
		buf.Data = append(buf.Data, value)

		if len(buf.Data) == recordChunkSize {
			if err := enc.Write(buf); err != nil {
				return fmt.Errorf("writing samples: %w", err)
			}
			buf.Data = buf.Data[:0]
		}
	}

	if len(buf.Data) > 0 {
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav data: %w", err)
	}
	return nil
}

func sampleIndex(d time.Duration) int {
	return int(d * SampleRate / time.Second)
}
