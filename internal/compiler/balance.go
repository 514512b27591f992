package compiler

// BalanceValidator tracks loop nesting depth.
// The depth is checked before every decrement and never goes negative.
type BalanceValidator struct {
	depth int
	outer Pos // position of the '[' that opened the outermost live loop
}

// Depth returns the current nesting depth.
func (b *BalanceValidator) Depth() int {
	return b.depth
}

// Open records a '[' at pos.
func (b *BalanceValidator) Open(pos Pos) {
	if b.depth == 0 {
		b.outer = pos
	}
	b.depth++
}

// Close records a ']' at pos. Fails with UnmatchedCloseBracket at depth 0.
func (b *BalanceValidator) Close(pos Pos) error {
	if b.depth == 0 {
		return newUnmatchedClose(pos)
	}
	b.depth--
	return nil
}

// Finish checks the end-of-input invariant: every loop was closed.
func (b *BalanceValidator) Finish() error {
	if b.depth != 0 {
		return newUnmatchedOpen(b.outer)
	}
	return nil
}
