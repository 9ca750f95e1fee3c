package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareAndLookup(t *testing.T) {
	tab := NewTable()
	require.NoError(t, tab.Declare(Symbol{Name: "x", Kind: NodeSymbol, Node: 7}))

	sym, ok := tab.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, NodeSymbol, sym.Kind)
	assert.EqualValues(t, 7, sym.Node)
}

func TestDuplicateInSameFrameRejected(t *testing.T) {
	tab := NewTable()
	require.NoError(t, tab.Declare(Symbol{Name: "x", Kind: NodeSymbol}))
	assert.Error(t, tab.Declare(Symbol{Name: "x", Kind: NodeSymbol}))
	assert.Error(t, tab.Declare(Symbol{Name: "x", Kind: NativeFunctionSymbol}))
}

func TestLookupDoesNotWalkOuterFrames(t *testing.T) {
	tab := NewTable()
	require.NoError(t, tab.Declare(Symbol{Name: "global", Kind: NodeSymbol}))

	tab.PushFrame()
	_, ok := tab.Lookup("global")
	assert.False(t, ok, "lookup must scan the current frame only")

	// Same name in a fresh frame is not a duplicate.
	assert.NoError(t, tab.Declare(Symbol{Name: "global", Kind: NodeSymbol}))

	tab.PopFrame()
	_, ok = tab.Lookup("global")
	assert.True(t, ok)
}

func TestPopNeverDropsLastFrame(t *testing.T) {
	tab := NewTable()
	tab.PopFrame()
	assert.Equal(t, 1, tab.Depth())
}

func TestFrameDepth(t *testing.T) {
	tab := NewTable()
	assert.Equal(t, 1, tab.Depth())
	tab.PushFrame()
	tab.PushFrame()
	assert.Equal(t, 3, tab.Depth())
	tab.PopFrame()
	assert.Equal(t, 2, tab.Depth())
}
