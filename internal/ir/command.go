package ir

import "fmt"

// Command is one of the eight Brainfuck instructions.
type Command uint8

const (
	Inc       Command = iota // +
	Dec                      // -
	MoveRight                // >
	MoveLeft                 // <
	Read                     // ,
	Write                    // .
	LoopStart                // [
	LoopEnd                  // ]
)

// NumCommands is the size of the command alphabet.
const NumCommands = 8

// Commands lists every command in declaration order.
// Helper definitions are emitted in this order.
var Commands = [NumCommands]Command{Inc, Dec, MoveRight, MoveLeft, Read, Write, LoopStart, LoopEnd}

// Decode maps a source character to its command.
// ok is false for every character outside the alphabet; those are comments.
func Decode(r rune) (c Command, ok bool) {
	switch r {
	case '+':
		return Inc, true
	case '-':
		return Dec, true
	case '>':
		return MoveRight, true
	case '<':
		return MoveLeft, true
	case ',':
		return Read, true
	case '.':
		return Write, true
	case '[':
		return LoopStart, true
	case ']':
		return LoopEnd, true
	}
	return 0, false
}

// Symbol returns the source character for c.
func (c Command) Symbol() rune {
	switch c {
	case Inc:
		return '+'
	case Dec:
		return '-'
	case MoveRight:
		return '>'
	case MoveLeft:
		return '<'
	case Read:
		return ','
	case Write:
		return '.'
	case LoopStart:
		return '['
	case LoopEnd:
		return ']'
	}
	return '?'
}

// Repeatable reports whether consecutive occurrences of c are coalesced into a Run.
func (c Command) Repeatable() bool {
	switch c {
	case Inc, Dec, MoveRight, MoveLeft:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (c Command) String() string {
	switch c {
	case Inc:
		return "Inc"
	case Dec:
		return "Dec"
	case MoveRight:
		return "MoveRight"
	case MoveLeft:
		return "MoveLeft"
	case Read:
		return "Read"
	case Write:
		return "Write"
	case LoopStart:
		return "LoopStart"
	case LoopEnd:
		return "LoopEnd"
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

// Run is a maximal sequence of one repeatable command.
// Singleton commands are represented as a Run with Count 1.
type Run struct {
	Kind  Command `json:"kind"`
	Count uint64  `json:"count"`
}

// MaxRunCount is the saturation point of Run.Count.
const MaxRunCount = ^uint64(0)

// Extend adds one occurrence to the run.
// Reports false, leaving the run unchanged, once Count is MaxRunCount.
func (r *Run) Extend() bool {
	if r.Count == MaxRunCount {
		return false
	}
	r.Count++
	return true
}

// CellBits is the byte value Inc and Dec runs are reduced to.
// Cells wrap modulo 256, so only Count mod 256 is observable.
func (r Run) CellBits() uint8 {
	return uint8(r.Count)
}
