package compiler

import (
	"io"

	"github.com/roach88/bfc/internal/ir"
	"github.com/roach88/bfc/internal/target"
)

// HelperSet records which commands were emitted, one bit per command.
type HelperSet uint8

// Mark flags c as used.
func (h *HelperSet) Mark(c ir.Command) {
	*h |= 1 << c
}

// Used reports whether c was marked.
func (h HelperSet) Used(c ir.Command) bool {
	return h&(1<<c) != 0
}

// Names lists the used commands with a helper definition in b, in command order.
func (h HelperSet) Names(b target.Backend) []string {
	names := []string{}
	for _, c := range ir.Commands {
		if _, ok := b.Helper(c); ok && h.Used(c) {
			names = append(names, c.String())
		}
	}
	return names
}

// Emit appends every used helper definition from b to w.
// Must be called only after the whole body has been emitted.
func (h HelperSet) Emit(w io.Writer, b target.Backend) error {
	for _, c := range ir.Commands {
		if !h.Used(c) {
			continue
		}
		src, ok := b.Helper(c)
		if !ok {
			continue
		}
		if _, err := io.WriteString(w, src); err != nil {
			return err
		}
	}
	return nil
}
