package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bfc/internal/ir"
	"github.com/roach88/bfc/internal/target"
)

func TestHelperSetMark(t *testing.T) {
	var h HelperSet
	for _, c := range ir.Commands {
		assert.False(t, h.Used(c))
	}

	h.Mark(ir.Write)
	h.Mark(ir.Write)
	h.Mark(ir.LoopEnd)

	assert.True(t, h.Used(ir.Write))
	assert.True(t, h.Used(ir.LoopEnd))
	assert.False(t, h.Used(ir.Read))
}

func TestHelperSetEmitOrder(t *testing.T) {
	b, err := target.Lookup(target.Rust)
	require.NoError(t, err)

	var h HelperSet
	h.Mark(ir.Write)
	h.Mark(ir.Inc)
	h.Mark(ir.LoopStart)

	var out strings.Builder
	require.NoError(t, h.Emit(&out, b))

	inc, _ := b.Helper(ir.Inc)
	wc, _ := b.Helper(ir.Write)
	assert.Equal(t, inc+wc, out.String())
	assert.Equal(t, []string{"Inc", "Write"}, h.Names(b))
}

func TestCellEstimator(t *testing.T) {
	e := NewCellEstimator(nil)
	e.Observe(ir.MoveRight)
	e.Observe(ir.MoveLeft)
	e.Observe(ir.MoveRight)
	assert.Equal(t, 2, e.Capacity())
	assert.True(t, e.Estimated())

	n := 100
	e = NewCellEstimator(&n)
	e.Observe(ir.MoveRight)
	assert.Equal(t, 100, e.Capacity())
	assert.False(t, e.Estimated())
}

func TestCellEstimatorSaturates(t *testing.T) {
	e := CellEstimator{n: int(^uint(0) >> 1)}
	e.Observe(ir.MoveRight)
	assert.Equal(t, int(^uint(0)>>1), e.Capacity())
}
