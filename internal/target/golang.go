package target

import (
	"fmt"

	"github.com/roach88/bfc/internal/ir"
)

type goBackend struct{}

func (goBackend) Name() string            { return Go }
func (goBackend) Ext() string             { return ".go" }
func (goBackend) DefaultCompiler() string { return "go" }

// The import block precedes every helper, so imports are referenced
// unconditionally; the set of helpers is only known after the body.
const goPrologue = `// Code generated by bfc. DO NOT EDIT.

package main

import (
	"bufio"
	"io"
	"os"
)

// Reference imports to suppress errors if they are not otherwise used.
var (
	_ = bufio.NewReader
	_ = io.EOF
	_ = os.Stdout
)

func main() {
	var stdinBuf []byte
	bufP := 0
	v := initCells()
	i := 0
	v = append(v, 0)
	_, _, _ = stdinBuf, bufP, i
`

func (goBackend) Prologue() string { return goPrologue }

func (goBackend) Statement(run ir.Run, depth int) string {
	var stmt string
	switch run.Kind {
	case ir.Inc:
		stmt = fmt.Sprintf("cinc(v, i, %d)", run.CellBits())
	case ir.Dec:
		stmt = fmt.Sprintf("cdec(v, i, %d)", run.CellBits())
	case ir.MoveRight:
		stmt = fmt.Sprintf("pinc(&v, &i, %d)", run.Count)
	case ir.MoveLeft:
		stmt = fmt.Sprintf("pdec(&i, %d)", run.Count)
	case ir.Read:
		stmt = "if !rc(v, i, &stdinBuf, &bufP) {\n" + indent("\t", depth+1) + "return\n" + indent("\t", depth) + "}"
	case ir.Write:
		stmt = "wc(v[i])"
	case ir.LoopStart:
		stmt = "for v[i] != 0 {"
	case ir.LoopEnd:
		stmt = "}"
	}
	return indent("\t", depth) + stmt + "\n"
}

// Initializer keeps the capacity in a variable so an oversized hint fails
// at run time, as an allocation, rather than as a compile error.
func (goBackend) Initializer(capacity int) string {
	return fmt.Sprintf(`}

func initCells() []byte {
	cells := %d
	return make([]byte, 0, cells)
}
`, capacity)
}

func (goBackend) Helper(c ir.Command) (string, bool) {
	switch c {
	case ir.Inc:
		return `
func cinc(v []byte, i int, x byte) {
	v[i] += x
}
`, true
	case ir.Dec:
		return `
func cdec(v []byte, i int, x byte) {
	v[i] -= x
}
`, true
	case ir.MoveRight:
		return `
const maxIndex = int(^uint(0) >> 1)

func pinc(v *[]byte, i *int, x uint64) {
	if x > uint64(maxIndex-*i) {
		panic("Right bound reached.")
	}
	*i += int(x)
	if *i >= len(*v) {
		*v = append(*v, make([]byte, *i+1-len(*v))...)
	}
}
`, true
	case ir.MoveLeft:
		return `
func pdec(i *int, x uint64) {
	if x > uint64(*i) {
		panic("Left bound reached.")
	}
	*i -= int(x)
}
`, true
	case ir.Read:
		return `
var stdin = bufio.NewReader(os.Stdin)

func rc(v []byte, i int, buf *[]byte, bufP *int) bool {
	if *bufP >= len(*buf) {
		line, err := stdin.ReadBytes('\n')
		if err != nil && err != io.EOF {
			panic("Couldn't read from stdin.")
		}
		if len(line) == 0 {
			return false
		}
		*buf = line
		*bufP = 0
	}
	v[i] = (*buf)[*bufP]
	*bufP++
	return true
}
`, true
	case ir.Write:
		return `
func wc(c byte) {
	if _, err := os.Stdout.Write([]byte{c}); err != nil {
		panic("Couldn't write to stdout.")
	}
}
`, true
	}
	return "", false
}

// BuildArgs produces "go build [-o out] [-gcflags ...] flags... file.go".
// Opt "0" disables optimizations and inlining; any other level is the default build.
func (goBackend) BuildArgs(b Build) []string {
	args := []string{"build"}
	if b.Output != "" {
		args = append(args, "-o", b.Output)
	}
	if b.Opt == "0" {
		args = append(args, "-gcflags=all=-N -l")
	}
	args = append(args, b.Flags...)
	return append(args, b.Source)
}
