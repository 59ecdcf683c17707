package audio

import (
	"io"
	"sync"
)

var _ Sink = (*Bell)(nil)

const bellCharacter = "\a"

// Bell rings the terminal bell when a tone begins.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a bell writing to w, usually the terminal.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// BeginTone implements Sink.
func (b *Bell) BeginTone() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, bellCharacter)
}

// EndTone implements Sink.
func (b *Bell) EndTone() {}
