package parser

import (
	"github.com/sameerakhatoon/ccfront/pkgs/ast"
	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/symtab"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

// parseExpressionable repeatedly parses single expression terms until one
// fails to advance the stream.
func (p *Parser) parseExpressionable(h History) {
	for p.parseExpressionableSingle(h) {
	}
}

// parseExpressionableSingle parses one term of an expression and reports
// whether parsing should continue.
func (p *Parser) parseExpressionableSingle(h History) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	h.InsideExpression = true
	switch t.Kind {
	case token.Number:
		p.parseSingleTokenToNode()
		return true
	case token.String:
		p.parseSingleTokenToNode()
		return true
	case token.Identifier:
		p.parseIdentifier(h)
		return true
	case token.Operator:
		if isUnaryOnlyOperator(t.Text) {
			p.parseUnary(h)
			return true
		}
		if t.Text == "(" {
			p.parseParenthesesOrCall(h)
			return true
		}
		if _, ok := p.peekNodeExpressionableOrNil(); !ok && isPrefixOperator(t.Text) {
			// No left operand: negation, dereference, address-of, unary plus.
			p.parseUnary(h)
			return true
		}
		p.parseExpression(h)
		return true
	case token.Keyword:
		if t.Text == "sizeof" {
			p.parseSizeof(h)
			return true
		}
		return false
	default:
		return false
	}
}

func isUnaryOnlyOperator(op string) bool {
	switch op {
	case "!", "~", "++", "--":
		return true
	default:
		return false
	}
}

// isPrefixOperator lists the binary operators that double as prefix unary
// operators when nothing precedes them.
func isPrefixOperator(op string) bool {
	switch op {
	case "-", "+", "*", "&":
		return true
	default:
		return false
	}
}

func (p *Parser) parseSingleTokenToNode() {
	t := p.next()
	var h ast.Handle
	switch t.Kind {
	case token.Number:
		h = p.newNode(ast.Number, t.Pos)
		n := p.arena.At(h)
		n.NumValue = t.NumValue
		n.NumKind = t.NumKind
	case token.String:
		h = p.newNode(ast.String, t.Pos)
		p.arena.At(h).Text = t.Text
	case token.Identifier:
		h = p.newNode(ast.Identifier, t.Pos)
		p.arena.At(h).Text = t.Text
	default:
		ccerrors.Fatalf(t.Pos, "this isn't a single token that can be parsed to a node")
	}
	p.pushNode(h)
}

func (p *Parser) parseIdentifier(h History) {
	t := p.peek()
	if t == nil || t.Kind != token.Identifier {
		ccerrors.Fatalf(p.lastPos(), "expected an identifier")
	}
	p.parseSingleTokenToNode()
}

// parseUnary handles the prefix operators the reorder machinery never
// produces a node for: logical not, bitwise not,
// pre-increment/decrement, and the binary spellings used as prefixes.
func (p *Parser) parseUnary(h History) {
	opTok := p.next()
	p.parseExpressionableSingle(h.clone())
	inner := p.popNode()
	hn := p.newNode(ast.Unary, opTok.Pos)
	n := p.arena.At(hn)
	n.Op = opTok.Text
	n.Inner = inner
	n.HasInner = true
	p.pushNode(hn)
}

// parseParenthesesOrCall handles `(` as a cast, a parenthesized
// sub-expression, or, when ParenthesesIsNotFunctionCall is clear and a
// prior expressionable node sits on the stack, a function call whose
// argument list is kept as the inner expression.
func (p *Parser) parseParenthesesOrCall(h History) {
	open := p.next() // consume '('

	if t := p.peek(); t != nil && t.Kind == token.Keyword &&
		(keywordIsDatatype(t.Text) || isKeywordVariableModifier(t.Text)) {
		dt := p.parseDatatype()
		p.expectSymbol(')')
		p.parseExpressionableSingle(h.clone())
		operand := p.popNode()
		hn := p.newNode(ast.Cast, open.Pos)
		n := p.arena.At(hn)
		n.CastType = p.arena.NewDataType(dt)
		n.Inner = operand
		n.HasInner = true
		p.pushNode(hn)
		return
	}

	// A prior expressionable node on the stack is the callee of a function
	// call; without one this is just a grouping.
	var callee ast.Handle
	hasCallee := false
	if !h.ParenthesesIsNotFunctionCall {
		if c, ok := p.peekNodeExpressionableOrNil(); ok {
			callee = c
			hasCallee = true
			p.popNode()
		}
	}

	hn := p.newNode(ast.ExpressionParens, open.Pos)
	inner := History{InsideExpression: true}
	if p.isNextSymbol(')') {
		p.next()
	} else {
		p.parseExpressionable(inner)
		exprNode := p.popNode()
		p.expectSymbolOrOperatorClose()
		n := p.arena.At(hn)
		n.Inner = exprNode
		n.HasInner = true
	}

	if hasCallee {
		p.pushNode(p.makeExpressionNode(callee, hn, "()", open.Pos))
		return
	}
	p.pushNode(hn)
}

// expectSymbolOrOperatorClose consumes the ')' that closes a parenthesized
// group. The lexer reports ')' as a Symbol token.
func (p *Parser) expectSymbolOrOperatorClose() {
	p.expectSymbol(')')
}

// parseSizeof implements both call forms, sizeof(<datatype>) and
// sizeof <expr>, folding either to a Number node holding the byte size.
func (p *Parser) parseSizeof(h History) {
	kw := p.next() // "sizeof"
	parenthesized := p.isNextOperator("(")
	if parenthesized {
		p.next()
	}
	var size int
	if t := p.peek(); t != nil && (t.Kind == token.Keyword && (keywordIsDatatype(t.Text) || isKeywordVariableModifier(t.Text))) {
		dt := p.parseDatatype()
		size = dt.Size()
	} else {
		p.parseExpressionable(h.clone())
		exprNode := p.popNode()
		if !exprNode.Valid() {
			ccerrors.Fatalf(kw.Pos, "sizeof needs a type or an expression operand")
		}
		size = p.sizeOfExpressionNode(exprNode)
	}
	if parenthesized {
		p.expectSymbol(')')
	}
	hn := p.newNode(ast.Number, kw.Pos)
	n := p.arena.At(hn)
	n.NumValue = uint64(size)
	n.NumKind = token.Int
	p.pushNode(hn)
}

// sizeOfExpressionNode returns a conservative size estimate for an
// already-parsed expression subtree used as sizeof's operand. Identifier
// operands resolve through the symbol table when possible; anything else
// defaults to a DWORD, matching the front end's general "unknown widths
// default to register size" stance.
func (p *Parser) sizeOfExpressionNode(h ast.Handle) int {
	n := p.arena.At(h)
	if n.Kind == ast.Identifier {
		if sym, ok := p.symbols.Lookup(n.Text); ok && sym.Kind == symtab.NodeSymbol {
			if varNode := p.arena.At(ast.Handle(sym.Node)); varNode.Kind == ast.Variable {
				if dt := p.arena.DataType(varNode.DType); dt != nil {
					return dt.Size()
				}
			}
		}
	}
	return 4
}
