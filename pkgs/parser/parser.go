// Package parser implements the recursive-descent parser: it consumes the
// token stream the lexer produced and builds an annotated AST in an
// ast.Arena, resolving scope offsets and symbol bindings as it goes.
//
// Sub-parsers communicate through a side stack of pending node handles
// their callers pop off of, rather than threading a return value through
// every parse function; the stack is an explicit nodeStack field rather
// than a package-level global so parsers stay reentrant.
package parser

import (
	"log/slog"
	"os"

	"github.com/sameerakhatoon/ccfront/pkgs/ast"
	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/fixup"
	"github.com/sameerakhatoon/ccfront/pkgs/scope"
	"github.com/sameerakhatoon/ccfront/pkgs/symtab"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

// History carries parse-context flags down through recursive calls. Switch
// case/default collection doesn't fit this by-value struct (a case nested
// several parseStatement calls below a switch needs to mutate the same
// list its enclosing parseSwitch reads back), so that state lives on the
// Parser's switchStack instead; see statements.go.
type History struct {
	InsideExpression             bool
	InsideUnion                  bool
	IsUpwardStack                bool
	IsGlobalScope                bool
	InsideStructure              bool
	InsideFunctionBody           bool
	InsideSwitch                 bool
	ParenthesesIsNotFunctionCall bool
}

// clone copies h by value. History has no pointer fields, so a shallow
// copy is a full one; the method marks each recursive call site that takes
// its own context.
func (h History) clone() History { return h }

// Parser drives one translation unit from a flat token slice to a populated
// Arena plus resolved scopes/symbols.
type Parser struct {
	tokens []token.Token
	pos    int

	arena   *ast.Arena
	scopes  *scope.Stack
	symbols *symtab.Table
	fixups  *fixup.System

	nodeStack []ast.Handle

	currentBody     ast.Handle
	currentFunction ast.Handle

	rootsAccum []ast.Handle

	typeNameIndex int
	logger        *slog.Logger

	// aggregates maps a struct/union tag to the arena handle of its
	// defining body, so a later "struct Foo bar;" reference (or a fixup
	// retried after the tag's definition is parsed) can find its size.
	aggregates map[string]ast.Handle

	// largestVars tracks, per currently-open block scope, the largest
	// primitive local variable declared directly in it.
	largestVars map[*scope.Scope]*largestTrack

	// switchStack holds the case/default handles collected for each
	// currently-open switch statement, innermost last.
	switchStack []*switchFrame
}

type largestTrack struct {
	size int
	node ast.Handle
}

type switchFrame struct {
	cases      []ast.Handle
	hasDefault bool
}

// New creates a parser over tokens, sharing arena with whatever other
// compilation stage (e.g. a future codegen pass) needs to outlive this
// parse.
func New(tokens []token.Token, arena *ast.Arena) *Parser {
	level := slog.LevelInfo
	if os.Getenv("CCFRONT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return &Parser{
		tokens:     tokens,
		arena:      arena,
		scopes:     scope.NewStack(),
		symbols:    symtab.NewTable(),
		fixups:     fixup.NewSystem(),
		logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		aggregates: make(map[string]ast.Handle),
	}
}

// Arena exposes the backing node store.
func (p *Parser) Arena() *ast.Arena { return p.arena }

// Roots returns the handles parsed so far, in source order.
func (p *Parser) Roots() []ast.Handle { return p.rootsAccum }

// Symbols exposes the symbol-table stack, for downstream code generation.
func (p *Parser) Symbols() *symtab.Table { return p.symbols }

// Scopes exposes the scope stack.
func (p *Parser) Scopes() *scope.Stack { return p.scopes }

// RegisterNativeFunction pre-declares name as a native function in the
// current (global, before parsing starts) symbol frame; a later definition
// of the same name is marked native rather than redeclared.
func (p *Parser) RegisterNativeFunction(name string) error {
	return p.symbols.Declare(symtab.Symbol{Name: name, Kind: symtab.NativeFunctionSymbol})
}

// --- token cursor -----------------------------------------------------

func (p *Parser) skipIgnored() {
	for p.pos < len(p.tokens) {
		t := &p.tokens[p.pos]
		if t.Kind == token.Newline || t.Kind == token.Comment ||
			(t.Kind == token.Symbol && t.Sym == '\\') {
			p.pos++
			continue
		}
		break
	}
}

// peek returns the next meaningful token without consuming it, or nil at
// end of stream.
func (p *Parser) peek() *token.Token {
	p.skipIgnored()
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

// next consumes and returns the next meaningful token, or nil at end of
// stream.
func (p *Parser) next() *token.Token {
	p.skipIgnored()
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) lastPos() token.Position {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		return p.tokens[p.pos-1].Pos
	}
	return token.Position{}
}

func (p *Parser) expectSymbol(c byte) {
	t := p.next()
	if t == nil || t.Kind != token.Symbol || t.Sym != c {
		ccerrors.Fatalf(p.lastPos(), "expecting symbol %q", string(rune(c)))
	}
}

func (p *Parser) expectOperator(op string) {
	t := p.next()
	if t == nil || t.Kind != token.Operator || t.Text != op {
		ccerrors.Fatalf(p.lastPos(), "expecting operator %q", op)
	}
}

func (p *Parser) isNextOperator(op string) bool {
	t := p.peek()
	return t != nil && t.Kind == token.Operator && t.Text == op
}

func (p *Parser) isNextSymbol(c byte) bool {
	t := p.peek()
	return t != nil && t.Kind == token.Symbol && t.Sym == c
}

func (p *Parser) isNextKeyword(text string) bool {
	t := p.peek()
	return t != nil && t.Kind == token.Keyword && t.Text == text
}

// newNode allocates a node in the arena and stamps its BindedTo
// back-references from the parser's current body/function.
func (p *Parser) newNode(kind ast.Kind, pos token.Position) ast.Handle {
	h := p.arena.New(kind, pos)
	n := p.arena.At(h)
	if p.currentBody.Valid() {
		n.Bind.HasBody = true
		n.Bind.Body = p.currentBody
	}
	if p.currentFunction.Valid() {
		n.Bind.HasFunction = true
		n.Bind.Function = p.currentFunction
	}
	return h
}

// --- node stack ---------------------------------------------------------

func (p *Parser) pushNode(h ast.Handle) { p.nodeStack = append(p.nodeStack, h) }

func (p *Parser) popNode() ast.Handle {
	if len(p.nodeStack) == 0 {
		return 0
	}
	h := p.nodeStack[len(p.nodeStack)-1]
	p.nodeStack = p.nodeStack[:len(p.nodeStack)-1]
	return h
}

func (p *Parser) peekNodeOrNil() (ast.Handle, bool) {
	if len(p.nodeStack) == 0 {
		return 0, false
	}
	return p.nodeStack[len(p.nodeStack)-1], true
}

func isExpressionable(a *ast.Arena, h ast.Handle) bool {
	if !h.Valid() {
		return false
	}
	switch a.At(h).Kind {
	case ast.Expression, ast.ExpressionParens, ast.Unary, ast.Identifier, ast.Number, ast.String, ast.Ternary, ast.Cast:
		return true
	default:
		return false
	}
}

func (p *Parser) peekNodeExpressionableOrNil() (ast.Handle, bool) {
	h, ok := p.peekNodeOrNil()
	if !ok || !isExpressionable(p.arena, h) {
		return 0, false
	}
	return h, true
}

