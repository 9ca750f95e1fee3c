package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackRootIsGlobal(t *testing.T) {
	s := NewStack()
	assert.Equal(t, s.Root(), s.Current())
	assert.Nil(t, s.Root().Parent)
	assert.Equal(t, Global, s.Root().Flags)
}

func TestNewScopeParentChain(t *testing.T) {
	s := NewStack()
	fn := s.NewScope(FunctionScope)
	blk := s.NewScope(BlockScope)

	assert.Equal(t, blk, s.Current())
	assert.Equal(t, fn, blk.Parent)
	assert.Equal(t, s.Root(), fn.Parent)

	s.FinishScope()
	assert.Equal(t, fn, s.Current())
	s.FinishScope()
	assert.Equal(t, s.Root(), s.Current())
}

func TestFinishScopeNeverPopsGlobal(t *testing.T) {
	s := NewStack()
	s.FinishScope()
	assert.Equal(t, s.Root(), s.Current())
}

func TestPushEntityAccumulatesSize(t *testing.T) {
	s := NewStack()
	sc := s.NewScope(BlockScope)
	sc.PushEntity(&Entity{ElementSize: 4}, 4)
	sc.PushEntity(&Entity{ElementSize: 1}, 1)
	assert.Equal(t, 5, sc.Size)
}

func TestLastEntity(t *testing.T) {
	s := NewStack()
	sc := s.NewScope(BlockScope)
	assert.Nil(t, LastEntity(sc))

	first := &Entity{StackOffset: -4}
	second := &Entity{StackOffset: -8}
	sc.PushEntity(first, 4)
	sc.PushEntity(second, 4)
	assert.Equal(t, second, LastEntity(sc))
}

func TestLastEntityStopAt(t *testing.T) {
	s := NewStack()
	outer := s.NewScope(FunctionScope)
	outer.PushEntity(&Entity{StackOffset: 8}, 4)
	inner := s.NewScope(BlockScope)

	// Empty inner scope falls through to the outer one.
	got := LastEntityStopAt(inner, s.Root())
	require.NotNil(t, got)
	assert.Equal(t, 8, got.StackOffset)

	// Stopping at the outer scope hides its entities.
	assert.Nil(t, LastEntityStopAt(inner, outer))
}
