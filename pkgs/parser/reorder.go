package parser

import "github.com/sameerakhatoon/ccfront/pkgs/ast"

// reorderExpression re-balances a freshly formed Expression(L, R, op) node
// so the tree reflects operator precedence instead of naive left-to-right
// recursive-descent nesting.
//
// Given Expression(L, R, op): if L is not itself an Expression but R is,
// and op outranks R's operator, rotate so the tighter-binding operator ends
// up lower in the tree, replacing the node with
// Expression(Expression(L, R.Left, op), R.Right, R.Op), then recursively
// reorder both new children. A narrower post-rotation pass additionally
// handles array-subscript-then-assignment and function-call-then-comma
// shapes, where the left side is already an Expression but still needs its
// right sibling's left operand pulled under the root.
func (p *Parser) reorderExpression(h *ast.Handle) {
	n := p.arena.At(*h)
	if n.Kind != ast.Expression || !n.HasLeft || !n.HasRight {
		return
	}
	left := p.arena.At(n.Left)
	right := p.arena.At(n.Right)

	if left.Kind != ast.Expression && right.Kind == ast.Expression {
		if leftHasHigherPrecedence(n.Op, right.Op) {
			newLeft := p.makeExpressionNode(n.Left, right.Left, n.Op, n.Pos)
			newNode := p.makeExpressionNode(newLeft, right.Right, right.Op, right.Pos)
			*h = newNode
			p.reorderExpression(&newLeft)
			nn := p.arena.At(newNode)
			nn.Left = newLeft
			rightChild := nn.Right
			p.reorderExpression(&rightChild)
			nn.Right = rightChild
			return
		}
	}
	p.reorderPostRotations(h)
}

// reorderPostRotations handles the two shapes the main rule's "L is not an
// Expression" precondition skips, moving the right operand's left child
// under the root: a subscript on the left with an assignment on the right
// (`a[0] + b = v` roots at '=', with `a[0] + b` as its left operand) and a
// call on the left with a comma expression on the right (`f(a) + b, c`
// roots at ',', with `f(a) + b` as its left operand).
func (p *Parser) reorderPostRotations(h *ast.Handle) {
	n := p.arena.At(*h)
	left := p.arena.At(n.Left)
	right := p.arena.At(n.Right)
	if left.Kind != ast.Expression || right.Kind != ast.Expression {
		return
	}

	isSubscriptAssign := left.Op == "[]" && isAssignmentOperator(right.Op)
	isCallArgs := left.Op == "()" && right.Op == ","
	if !isSubscriptAssign && !isCallArgs {
		return
	}

	newLeft := p.makeExpressionNode(n.Left, right.Left, n.Op, n.Pos)
	p.reorderExpression(&newLeft)
	newNode := p.makeExpressionNode(newLeft, right.Right, right.Op, right.Pos)
	*h = newNode
}

func isAssignmentOperator(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=":
		return true
	default:
		return false
	}
}
