package compiler

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/bfc/internal/ir"
	"github.com/roach88/bfc/internal/target"
)

// Options configures one translation.
type Options struct {
	// Target selects the backend; empty means target.Default.
	Target string

	// InitialCells is the explicit tape capacity hint. If nil, the hint is
	// the number of '>' characters in the source.
	InitialCells *int
}

// Stats summarizes one translation. It is returned for failed
// translations too, describing how far the pass got.
type Stats struct {
	Target     string         `json:"target"`
	Statements int            `json:"statements"`
	PerCommand map[string]int `json:"per_command"`
	Helpers    []string       `json:"helpers"`
	Capacity   int            `json:"capacity"`
	Estimated  bool           `json:"capacity_estimated"`
	Depth      int            `json:"depth"`
}

// translator owns the per-invocation state of a single forward pass.
type translator struct {
	backend target.Backend
	w       *bufio.Writer
	enc     *Encoder
	bal     BalanceValidator
	est     CellEstimator
	helpers HelperSet
	pos     Pos
	stats   *Stats
}

// Translate reads Brainfuck source from src and streams the equivalent
// target program to dst, in a single pass.
//
// Errors:
//   - *SyntaxError UnmatchedCloseBracket: returned at the offending ']';
//     whatever reached dst is partial and must be discarded.
//   - *SyntaxError UnmatchedOpenBracket: returned after the complete program
//     (body, initializer, helpers) was written; the caller must still
//     discard it.
//   - *IOError: reading src or writing dst failed.
func Translate(src io.Reader, dst io.Writer, opts Options) (*Stats, error) {
	backend, err := target.Lookup(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", ErrCodeInvalidOption, err)
	}
	if opts.InitialCells != nil && *opts.InitialCells < 0 {
		return nil, fmt.Errorf("[%s] initial cells must be non-negative, got %d", ErrCodeInvalidOption, *opts.InitialCells)
	}

	t := &translator{
		backend: backend,
		w:       bufio.NewWriter(dst),
		est:     NewCellEstimator(opts.InitialCells),
		stats: &Stats{
			Target:     backend.Name(),
			PerCommand: map[string]int{},
		},
	}
	t.enc = NewEncoder(t.statement)

	if err := t.run(NewScanner(src)); err != nil {
		t.finishStats()
		return t.stats, err
	}
	t.finishStats()

	slog.Debug("translation finished",
		"target", t.stats.Target,
		"statements", t.stats.Statements,
		"helpers", t.stats.Helpers,
		"capacity", t.stats.Capacity,
		"depth", t.stats.Depth,
	)

	// Reported last: the artifact above is complete but unusable.
	return t.stats, t.bal.Finish()
}

// TranslateString is Translate over in-memory text.
// On UnmatchedOpenBracket the returned code is the complete, invalid program.
func TranslateString(src string, opts Options) (string, *Stats, error) {
	var out strings.Builder
	stats, err := Translate(strings.NewReader(src), &out, opts)
	return out.String(), stats, err
}

func (t *translator) run(sc *Scanner) error {
	if err := t.write(t.backend.Prologue()); err != nil {
		return err
	}

	for {
		c, pos, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &IOError{Op: "read", Err: err}
		}
		t.pos = pos
		t.est.Observe(c)
		if err := t.enc.Push(c); err != nil {
			return err
		}
	}
	if err := t.enc.Flush(); err != nil {
		return err
	}

	if err := t.write(t.backend.Initializer(t.est.Capacity())); err != nil {
		return err
	}
	if err := t.helpers.Emit(t.w, t.backend); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	if err := t.w.Flush(); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// statement is the encoder's sink. Loop brackets are validated here, so
// an unmatched ']' aborts before anything is written for it.
func (t *translator) statement(run ir.Run) error {
	depth := t.bal.Depth()
	switch run.Kind {
	case ir.LoopStart:
		t.bal.Open(t.pos)
	case ir.LoopEnd:
		if err := t.bal.Close(t.pos); err != nil {
			return err
		}
		depth = t.bal.Depth()
	}

	t.helpers.Mark(run.Kind)
	t.stats.Statements++
	t.stats.PerCommand[run.Kind.String()]++
	return t.write(t.backend.Statement(run, depth))
}

func (t *translator) write(s string) error {
	if _, err := t.w.WriteString(s); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

func (t *translator) finishStats() {
	t.stats.Helpers = t.helpers.Names(t.backend)
	t.stats.Capacity = t.est.Capacity()
	t.stats.Estimated = t.est.Estimated()
	t.stats.Depth = t.bal.Depth()
}
