package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameerakhatoon/ccfront/pkgs/token"
	"github.com/sameerakhatoon/ccfront/pkgs/types"
)

func TestArenaHandlesAreStable(t *testing.T) {
	a := NewArena()
	first := a.New(Number, token.Position{Line: 1, Column: 1})
	a.At(first).NumValue = 42

	// Growing the arena must not invalidate earlier handles.
	held := a.At(first)
	for i := 0; i < 1000; i++ {
		a.New(Blank, token.Position{})
	}
	assert.Same(t, held, a.At(first))
	assert.EqualValues(t, 42, a.At(first).NumValue)
}

func TestZeroHandleIsSentinel(t *testing.T) {
	a := NewArena()
	h := a.New(Number, token.Position{})
	assert.True(t, h.Valid())
	assert.False(t, Handle(0).Valid())
	assert.Equal(t, 2, a.Len(), "sentinel plus one node")
}

func TestDataTypeRefRoundTrip(t *testing.T) {
	a := NewArena()
	dt := &types.DataType{Kind: types.Int, SizeBytes: 4}
	ref := a.NewDataType(dt)
	assert.Same(t, dt, a.DataType(ref))
	assert.Nil(t, a.DataType(0))
}

func TestSprintExpressionTree(t *testing.T) {
	a := NewArena()
	l := a.New(Number, token.Position{})
	a.At(l).NumValue = 1
	r := a.New(Number, token.Position{})
	a.At(r).NumValue = 2
	e := a.New(Expression, token.Position{})
	n := a.At(e)
	n.Left, n.HasLeft = l, true
	n.Right, n.HasRight = r, true
	n.Op = "+"

	out := Sprint(a, e)
	require.Contains(t, out, `Expression("+")`)
	assert.Contains(t, out, "Number(1, Int)")
	assert.Contains(t, out, "Number(2, Int)")
}
