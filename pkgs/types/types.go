// Package types implements the parser's DataType model: primitive and
// aggregate kinds, the modifier flag set, and the size/alignment
// arithmetic that struct layout and stack-offset computation share.
package types

import "fmt"

// Kind is the DataType discriminant.
type Kind int

const (
	Void Kind = iota
	Int
	Char
	Float
	Double
	Long
	Short
	Struct
	Union
	Unknown
)

var kindNames = [...]string{
	Void: "void", Int: "int", Char: "char", Float: "float", Double: "double",
	Long: "long", Short: "short", Struct: "struct", Union: "union", Unknown: "unknown",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Flags is the modifier bit-set carried by every DataType.
type Flags uint16

const (
	Signed Flags = 1 << iota
	Static
	Const
	Pointer
	Array
	Extern
	Restrict
	IgnoreTypeCheck
	HasSecondary
	AnonAggregate
	Literal
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Size constants. A pointer is always DWORD; long long is
// clamped to DWORD with a warning.
const (
	SizeZero   = 0
	SizeByte   = 1
	SizeWord   = 2
	SizeDword  = 4
	SizeDdword = 8
)

// BracketExpr is one `[N]` of a declarator's array-bracket chain. Number is
// the literal value (array brackets only ever hold number literals at
// declarator time); Empty marks an elided size (`T x[]`).
type BracketExpr struct {
	Number int64
	Empty  bool
}

// ArrayBrackets is an ordered bracket-expression chain.
type ArrayBrackets []BracketExpr

// SizeFrom computes the element size times the product of every bracket's
// literal value at index >= from.
func (a ArrayBrackets) SizeFrom(elemSize int, from int) int {
	total := elemSize
	for i := from; i < len(a); i++ {
		if a[i].Empty {
			continue
		}
		total *= int(a[i].Number)
	}
	return total
}

// TotalSize is SizeFrom(elemSize, 0): the full array size.
func (a ArrayBrackets) TotalSize(elemSize int) int {
	return a.SizeFrom(elemSize, 0)
}

// DataType is the parser's internal type representation.
type DataType struct {
	Kind          Kind
	Name          string
	SizeBytes     int
	PointerLevel  int
	Flags         Flags
	Secondary     *DataType
	ArrayBrackets ArrayBrackets

	// StructNodeRef/UnionNodeRef are arena handles (see pkgs/ast) to the
	// node that defines this aggregate type. Stored as plain ints here so
	// this package has no import-cycle dependency on pkgs/ast; the parser
	// is responsible for interpreting them.
	StructNodeRef int32
	UnionNodeRef  int32
	HasStructRef  bool
	HasUnionRef   bool
}

// IsAggregate reports whether this type is a struct or union.
func (d *DataType) IsAggregate() bool {
	return d.Kind == Struct || d.Kind == Union
}

// IsPrimitive reports whether this type is neither an aggregate nor a
// pointer/array. Only primitive fields participate in alignment.
func (d *DataType) IsPrimitive() bool {
	return !d.IsAggregate() && d.PointerLevel == 0 && !d.Flags.Has(Array)
}

// Size returns the in-memory size of this type: pointers collapse to
// SizeDword regardless of the pointee, arrays multiply the element size by
// every bracket's literal value, otherwise SizeBytes applies directly.
func (d *DataType) Size() int {
	if d.PointerLevel > 0 {
		return SizeDword
	}
	if d.Flags.Has(Array) {
		return d.ArrayBrackets.TotalSize(d.SizeBytes)
	}
	return d.SizeBytes
}

// baseSize returns void/char/short/int-family sizes, before any `long long`
// clamp or secondary-type addition.
func baseSize(k Kind) int {
	switch k {
	case Void:
		return SizeZero
	case Char:
		return SizeByte
	case Short:
		return SizeWord
	case Int, Float, Double, Long:
		return SizeDword
	default:
		return SizeDword
	}
}

// Warner receives non-fatal diagnostics raised while sizing a type (the
// `long long` clamp, notably). Kept as a narrow interface rather than
// importing pkgs/ccerrors, to avoid a dependency cycle.
type Warner interface {
	Warnf(format string, args ...interface{})
}

// ApplyPrimitiveSize assigns SizeBytes for a primitive DataType and folds in
// its Secondary type, if any. `long long` is folded to
// DWORD with a warning; `long double`/other secondary combinations add the
// secondary's size on top of the primary's.
func ApplyPrimitiveSize(d *DataType, w Warner) {
	d.SizeBytes = baseSize(d.Kind)
	if d.Secondary == nil {
		return
	}
	d.Secondary.SizeBytes = baseSize(d.Secondary.Kind)
	if d.Kind == Long && d.Secondary.Kind == Long {
		if w != nil {
			w.Warnf("'long long' folded to 32-bit")
		}
		d.SizeBytes = SizeDword
		return
	}
	d.SizeBytes += d.Secondary.SizeBytes
}

// SecondaryAllowedForType reports whether `kind` may carry a secondary
// primitive word.
func SecondaryAllowedForType(kind Kind) bool {
	switch kind {
	case Float, Double, Long, Short:
		return true
	default:
		return false
	}
}

// Padding returns the number of bytes needed to round `value` up to a
// multiple of `to`. Returns 0 when `to <= 0` or value is already aligned,
// which also covers layouts where no primitive field contributes padding.
func Padding(value, to int) int {
	if to <= 0 || value%to == 0 {
		return 0
	}
	return (to - value%to) % to
}

// AlignUp rounds `value` up to the next multiple of `to`.
func AlignUp(value, to int) int {
	return value + Padding(value, to)
}
