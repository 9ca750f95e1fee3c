package parser

import (
	"github.com/sameerakhatoon/ccfront/pkgs/ast"
	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

// parseExpression dispatches on the pending operator's text: '?' builds a
// ternary, '[' a subscript, anything else falls through to the ordinary
// binary-operator path, including ',', which builds a comma expression
// like any other operator in the precedence table.
func (p *Parser) parseExpression(h History) {
	t := p.peek()
	if t == nil {
		return
	}
	switch t.Text {
	case "?":
		p.parseTernary(h)
	case "[":
		p.parseSubscript(h)
	default:
		p.parseNormalExpression(h)
	}
}

func (p *Parser) parseNormalExpression(h History) {
	opTok := p.peek()
	if opTok == nil {
		return
	}
	operator := opTok.Text
	leftNode, ok := p.peekNodeExpressionableOrNil()
	if !ok {
		ccerrors.Fatalf(opTok.Pos, "operator %q has no left operand", operator)
	}
	p.next() // consume the operator
	p.popNode()

	p.parseOperatorExpression(h.clone(), operator)
	rightNode := p.popNode()

	exprNode := p.makeExpressionNode(leftNode, rightNode, operator, opTok.Pos)
	p.reorderExpression(&exprNode)
	p.pushNode(exprNode)
}

// parseOperatorExpression parses the right-hand operand of a binary
// operator. Kept separate from parseExpressionable to leave room for
// operator-specific associativity handling; none is needed beyond what
// parseExpressionable already does, so it delegates straight through.
func (p *Parser) parseOperatorExpression(h History, operator string) {
	p.parseExpressionable(h)
}

// parseTernary implements `cond ? trueBranch : falseBranch`: the condition is already on the node stack when '?' is
// encountered, the same calling convention parentheses/subscript/binary
// operators use.
func (p *Parser) parseTernary(h History) {
	cond, ok := p.peekNodeExpressionableOrNil()
	if !ok {
		ccerrors.Fatalf(p.lastPos(), "ternary '?' has no condition")
	}
	p.popNode()
	q := p.next() // '?'
	p.parseExpressionable(h.clone())
	trueNode := p.popNode()
	p.expectSymbol(':')
	p.parseExpressionable(h.clone())
	falseNode := p.popNode()

	tern := p.newNode(ast.Ternary, q.Pos)
	tn := p.arena.At(tern)
	tn.True = trueNode
	tn.False = falseNode

	wrapper := p.makeExpressionNode(cond, tern, "?", q.Pos)
	p.pushNode(wrapper)
}

// parseSubscript implements `expr[index]` / a bare `[index]` bracket node.
func (p *Parser) parseSubscript(h History) {
	left, hasLeft := p.peekNodeExpressionableOrNil()
	if hasLeft {
		p.popNode()
	}
	open := p.next() // '['
	p.parseExpressionable(h.clone())
	inner := p.popNode()
	p.expectSymbol(']')

	br := p.newNode(ast.Bracket, open.Pos)
	bn := p.arena.At(br)
	bn.Inner = inner
	bn.HasInner = true

	if hasLeft {
		p.pushNode(p.makeExpressionNode(left, br, "[]", open.Pos))
		return
	}
	p.pushNode(br)
}

// makeExpressionNode allocates an Expression(left, right, op) node in the
// arena.
func (p *Parser) makeExpressionNode(left, right ast.Handle, op string, pos token.Position) ast.Handle {
	h := p.newNode(ast.Expression, pos)
	n := p.arena.At(h)
	n.Left = left
	n.HasLeft = true
	n.Right = right
	n.HasRight = true
	n.Op = op
	return h
}
