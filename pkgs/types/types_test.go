package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// padding(v, n) + v is a multiple of n, and padding(v, n) < n.
func TestPaddingInvariant(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		for v := 0; v < 64; v++ {
			pad := Padding(v, n)
			assert.Zero(t, (v+pad)%n, "v=%d n=%d", v, n)
			assert.Less(t, pad, n, "v=%d n=%d", v, n)
		}
	}
}

func TestPaddingDegenerateDivisor(t *testing.T) {
	assert.Zero(t, Padding(7, 0))
	assert.Zero(t, Padding(7, -4))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 8, AlignUp(5, 4))
	assert.Equal(t, 4, AlignUp(4, 4))
	assert.Equal(t, 0, AlignUp(0, 4))
}

func TestPrimitiveSizes(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Void, SizeZero},
		{Char, SizeByte},
		{Short, SizeWord},
		{Int, SizeDword},
		{Float, SizeDword},
		{Double, SizeDword},
		{Long, SizeDword},
	}
	for _, tc := range cases {
		d := &DataType{Kind: tc.kind}
		ApplyPrimitiveSize(d, nil)
		assert.Equal(t, tc.want, d.SizeBytes, tc.kind.String())
	}
}

type capturedWarning struct{ msgs []string }

func (c *capturedWarning) Warnf(format string, args ...interface{}) {
	c.msgs = append(c.msgs, fmt.Sprintf(format, args...))
}

func TestLongLongClampsWithWarning(t *testing.T) {
	w := &capturedWarning{}
	d := &DataType{Kind: Long, Secondary: &DataType{Kind: Long}, Flags: HasSecondary}
	ApplyPrimitiveSize(d, w)
	assert.Equal(t, SizeDword, d.SizeBytes)
	assert.Len(t, w.msgs, 1)
}

func TestLongDoubleAddsSecondary(t *testing.T) {
	d := &DataType{Kind: Long, Secondary: &DataType{Kind: Double}, Flags: HasSecondary}
	ApplyPrimitiveSize(d, nil)
	assert.Equal(t, SizeDword+SizeDword, d.SizeBytes)
}

func TestPointerCollapsesToDword(t *testing.T) {
	d := &DataType{Kind: Char, SizeBytes: SizeByte, PointerLevel: 1, Flags: Pointer}
	assert.Equal(t, SizeDword, d.Size())
}

func TestArrayBracketsSize(t *testing.T) {
	b := ArrayBrackets{{Number: 3}, {Number: 4}}
	assert.Equal(t, 12, b.TotalSize(1))
	assert.Equal(t, 48, b.TotalSize(4))
	assert.Equal(t, 4, b.SizeFrom(1, 1))
}

func TestArrayBracketsEmptyDimensionIgnored(t *testing.T) {
	b := ArrayBrackets{{Empty: true}, {Number: 4}}
	assert.Equal(t, 4, b.TotalSize(1))
}

func TestSecondaryAllowedForType(t *testing.T) {
	assert.True(t, SecondaryAllowedForType(Long))
	assert.True(t, SecondaryAllowedForType(Short))
	assert.True(t, SecondaryAllowedForType(Float))
	assert.True(t, SecondaryAllowedForType(Double))
	assert.False(t, SecondaryAllowedForType(Int))
	assert.False(t, SecondaryAllowedForType(Char))
	assert.False(t, SecondaryAllowedForType(Void))
}

func TestIsPrimitive(t *testing.T) {
	assert.True(t, (&DataType{Kind: Int}).IsPrimitive())
	assert.False(t, (&DataType{Kind: Struct}).IsPrimitive())
	assert.False(t, (&DataType{Kind: Int, PointerLevel: 1}).IsPrimitive())
	assert.False(t, (&DataType{Kind: Int, Flags: Array}).IsPrimitive())
}
