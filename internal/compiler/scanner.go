package compiler

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/roach88/bfc/internal/ir"
)

// Scanner yields the commands of a source stream, skipping every other
// character. Input is decoded as UTF-8 unless a byte order mark selects
// UTF-16; invalid bytes decode to U+FFFD and are skipped like any comment.
type Scanner struct {
	r    *bufio.Reader
	line int
	col  int
}

// NewScanner wraps src. The scanner buffers internally.
func NewScanner(src io.Reader) *Scanner {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &Scanner{
		r:    bufio.NewReader(transform.NewReader(src, dec)),
		line: 1,
	}
}

// Next returns the next command and its position.
// Returns io.EOF after the last command; any other error is a read failure.
func (s *Scanner) Next() (ir.Command, Pos, error) {
	for {
		r, _, err := s.r.ReadRune()
		if err != nil {
			return 0, Pos{}, err
		}
		if r == '\n' {
			s.line++
			s.col = 0
			continue
		}
		s.col++
		if c, ok := ir.Decode(r); ok {
			return c, Pos{Line: s.line, Column: s.col}, nil
		}
	}
}

// Encoder coalesces repeatable commands into runs and hands every finished
// run, or singleton, to emit in source order.
type Encoder struct {
	emit    func(ir.Run) error
	pending ir.Run
	active  bool
}

// NewEncoder creates an encoder that flushes into emit.
func NewEncoder(emit func(ir.Run) error) *Encoder {
	return &Encoder{emit: emit}
}

// Push feeds one command. A kind change, a non-repeatable command or a
// saturated count flushes the pending run first.
func (e *Encoder) Push(c ir.Command) error {
	if e.active && e.pending.Kind == c && e.pending.Extend() {
		return nil
	}
	if err := e.Flush(); err != nil {
		return err
	}
	if c.Repeatable() {
		e.pending = ir.Run{Kind: c, Count: 1}
		e.active = true
		return nil
	}
	return e.emit(ir.Run{Kind: c, Count: 1})
}

// Flush emits the pending run, if any.
func (e *Encoder) Flush() error {
	if !e.active {
		return nil
	}
	run := e.pending
	e.pending = ir.Run{}
	e.active = false
	return e.emit(run)
}
