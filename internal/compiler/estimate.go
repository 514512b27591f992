package compiler

import (
	"math"

	"github.com/roach88/bfc/internal/ir"
)

// CellEstimator computes the tape's initial capacity hint.
// An explicit count is used verbatim; otherwise every '>' counts once,
// saturating at math.MaxInt.
type CellEstimator struct {
	explicit bool
	n        int
}

// NewCellEstimator creates an estimator. initial may be nil.
func NewCellEstimator(initial *int) CellEstimator {
	if initial != nil {
		return CellEstimator{explicit: true, n: *initial}
	}
	return CellEstimator{}
}

// Observe counts c if it is a MoveRight and no explicit count was given.
func (e *CellEstimator) Observe(c ir.Command) {
	if e.explicit || c != ir.MoveRight {
		return
	}
	if e.n < math.MaxInt {
		e.n++
	}
}

// Capacity returns the hint.
func (e CellEstimator) Capacity() int {
	return e.n
}

// Estimated reports whether the hint came from counting.
func (e CellEstimator) Estimated() bool {
	return !e.explicit
}
