// Package ast implements the node arena: every parsed node lives in a
// single growable slice and is referred to by a stable Handle rather than a
// Go pointer, so the AST's cyclic back-references are plain integers instead of
// pointer cycles the garbage collector has to reason about.
package ast

import (
	"github.com/sameerakhatoon/ccfront/pkgs/token"
	"github.com/sameerakhatoon/ccfront/pkgs/types"
)

// Handle is a stable reference into an Arena. The zero Handle (0) is never
// issued by Arena.New, so it doubles as a "no node" sentinel; callers use
// HasX bool fields alongside optional handles rather than relying on zero.
type Handle int32

// Kind is the Node tagged-union discriminant.
type Kind int

const (
	Number Kind = iota
	String
	Identifier
	Expression
	ExpressionParens
	Unary
	Ternary
	Bracket
	Variable
	VariableList
	Function
	Body
	Struct
	Union
	Cast
	Statement
	Blank
)

var kindNames = [...]string{
	Number: "Number", String: "String", Identifier: "Identifier",
	Expression: "Expression", ExpressionParens: "ExpressionParens", Unary: "Unary",
	Ternary: "Ternary", Bracket: "Bracket", Variable: "Variable",
	VariableList: "VariableList", Function: "Function", Body: "Body",
	Struct: "Struct", Union: "Union", Cast: "Cast", Statement: "Statement", Blank: "Blank",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// StatementKind discriminates the Statement node variant.
type StatementKind int

const (
	StmtIf StatementKind = iota
	StmtElse
	StmtReturn
	StmtFor
	StmtWhile
	StmtDoWhile
	StmtSwitch
	StmtCase
	StmtDefault
	StmtBreak
	StmtContinue
	StmtGoto
	StmtLabel
	StmtExpression
)

// BindedTo records a node's enclosing body/function, the AST's other major
// back-reference.
type BindedTo struct {
	HasBody     bool
	Body        Handle
	HasFunction bool
	Function    Handle
}

// Node is the tagged-variant struct every AST node is stored as. Only the
// fields relevant to Kind are meaningful; a single flat struct keeps nodes
// handle-addressable in the arena, which Go's interface-based variant
// pattern would not allow.
type Node struct {
	Kind Kind
	Pos  token.Position
	Bind BindedTo

	// Number
	NumValue uint64
	NumKind  token.NumericKind

	// String / Identifier
	Text string

	// Expression / ExpressionParens / Unary / Cast operand(s)
	Left, Right Handle
	HasLeft     bool
	HasRight    bool
	Op          string
	Inner       Handle
	HasInner    bool

	// Ternary
	True, False Handle

	// Variable
	DType          DataTypeRef
	VarName        string
	HasValue       bool
	Value          Handle
	Padding        int
	AlignedOffset  int
	StackOffset    int
	HasStackOffset bool

	// VariableList
	Vars []Handle

	// Function
	ReturnType       DataTypeRef
	FuncName         string
	Args             []Handle
	ArgsStackAdd     int
	HasBody          bool
	FuncBody         Handle
	StackSize        int
	Variadic         bool
	Native           bool

	// Body
	Statements      []Handle
	Size            int
	Padded          bool
	HasLargestVar   bool
	LargestVarNode  Handle

	// Struct / Union
	AggName     string
	AggBody     Handle
	HasAggVar   bool
	AggVar      Handle
	AnonAgg     bool

	// Cast
	CastType DataTypeRef

	// Statement
	Stmt        StatementKind
	Cond        Handle
	HasCond     bool
	Then        Handle
	HasThen     bool
	ElseBranch  Handle
	HasElse     bool
	Init        Handle
	HasInit     bool
	Post        Handle
	HasPost     bool
	Label       string
	Cases       []Handle
	HasDefault  bool
}

// DataTypeRef is a thin, arena-friendly handle to a types.DataType value.
// DataTypes are stored in the Arena's own slice alongside nodes so that a
// node can be copied by value without duplicating (or losing track of) the
// type it carries.
type DataTypeRef int32

// Arena is the single backing store for every node and datatype produced
// while compiling one translation unit. It is discarded wholesale when the
// compile process ends.
//
// Both slices hold pointers, not values: parsing routines routinely hold a
// *Node obtained from At across further calls to New while building a
// node's children (e.g. a statement node created before its body is
// parsed), and a []Node slice's backing array can relocate on append,
// silently stranding any such pointer. A []*Node slice may itself
// reallocate, but the Node values it points at never move.
type Arena struct {
	nodes []*Node
	types []*types.DataType
}

// NewArena creates an empty arena. Index 0 is reserved as the "no node"
// sentinel for both nodes and datatypes.
func NewArena() *Arena {
	a := &Arena{}
	a.nodes = append(a.nodes, nil) // handle 0 == nil node
	a.types = append(a.types, nil)
	return a
}

// New appends a fresh node of the given kind/position and returns its
// handle.
func (a *Arena) New(kind Kind, pos token.Position) Handle {
	a.nodes = append(a.nodes, &Node{Kind: kind, Pos: pos})
	return Handle(len(a.nodes) - 1)
}

// At dereferences a handle. Handle 0 returns nil (the sentinel slot) and an
// out-of-range handle panics; callers are expected to guard with HasX flags
// rather than dereference a sentinel, matching the arena's
// non-owning-reference discipline.
func (a *Arena) At(h Handle) *Node {
	return a.nodes[h]
}

// Valid reports whether h refers to a real node (not the zero sentinel).
func (h Handle) Valid() bool { return h != 0 }

// NewDataType boxes t in the arena and returns a reference to it.
func (a *Arena) NewDataType(t *types.DataType) DataTypeRef {
	a.types = append(a.types, t)
	return DataTypeRef(len(a.types) - 1)
}

// DataType returns the value stored at ref, or nil for the zero ref.
func (a *Arena) DataType(ref DataTypeRef) *types.DataType {
	if ref == 0 {
		return nil
	}
	return a.types[ref]
}

// Len reports how many nodes (including the sentinel) the arena holds.
func (a *Arena) Len() int { return len(a.nodes) }
