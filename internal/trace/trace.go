// Package trace renders the per-unit debug line written after every dispatch
// and the sinks that collect it. Comparing two peers' traces line by line
// pins down the first unit whose state diverged.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Line is the state of one unit right before its checksum fold.
type Line struct {
	Cycle  uint64
	Slot   int
	Ident  string // "unit-killed" once the type is gone
	State  int
	Action int // -1 for an empty queue
	Player int // -1 for no owner
	Refs   uint32
	Seed   uint32 // synchronized random seed
	X, Y   int    // tile
	IX, IY int    // pixel offset
}

// Format renders the line, newline included.
func (l Line) Format() string {
	return fmt.Sprintf("%d: %d %s S%d-%d P%d Refs %d: %X %d,%d %d,%d\n",
		l.Cycle, l.Slot, l.Ident, l.State, l.Action, l.Player,
		l.Refs, l.Seed, l.X, l.Y, l.IX, l.IY)
}

// Sink receives trace lines. Sinks are a side channel: an error is reported
// once by the caller and never affects the simulation.
type Sink interface {
	Record(l Line) error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(Line) error { return nil }

// WriterSink writes formatted lines to an io.Writer.
type WriterSink struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

func (s *WriterSink) Record(l Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.WriteString(l.Format())
	return err
}

// Flush pushes buffered lines to the underlying writer.
func (s *WriterSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
