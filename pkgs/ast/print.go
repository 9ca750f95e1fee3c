package ast

import (
	"fmt"
	"strings"
)

// Sprint renders the subtree rooted at h as an indented tree for the
// `--dump-ast` diagnostic flag. Purely a debugging aid; the parser never
// consults it.
func Sprint(a *Arena, h Handle) string {
	var b strings.Builder
	sprintNode(&b, a, h, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func sprintNode(b *strings.Builder, a *Arena, h Handle, depth int) {
	if !h.Valid() {
		indent(b, depth)
		b.WriteString("<nil>\n")
		return
	}
	n := a.At(h)
	indent(b, depth)
	switch n.Kind {
	case Number:
		fmt.Fprintf(b, "Number(%d, %s)\n", n.NumValue, n.NumKind)
	case String:
		fmt.Fprintf(b, "String(%q)\n", n.Text)
	case Identifier:
		fmt.Fprintf(b, "Identifier(%s)\n", n.Text)
	case Expression:
		fmt.Fprintf(b, "Expression(%q)\n", n.Op)
		sprintNode(b, a, n.Left, depth+1)
		sprintNode(b, a, n.Right, depth+1)
	case ExpressionParens:
		b.WriteString("ExpressionParens\n")
		sprintNode(b, a, n.Inner, depth+1)
	case Unary:
		fmt.Fprintf(b, "Unary(%q)\n", n.Op)
		sprintNode(b, a, n.Inner, depth+1)
	case Ternary:
		b.WriteString("Ternary\n")
		sprintNode(b, a, n.True, depth+1)
		sprintNode(b, a, n.False, depth+1)
	case Bracket:
		b.WriteString("Bracket\n")
		sprintNode(b, a, n.Inner, depth+1)
	case Variable:
		fmt.Fprintf(b, "Variable(%s)\n", n.VarName)
		if n.HasValue {
			sprintNode(b, a, n.Value, depth+1)
		}
	case VariableList:
		b.WriteString("VariableList\n")
		for _, v := range n.Vars {
			sprintNode(b, a, v, depth+1)
		}
	case Function:
		fmt.Fprintf(b, "Function(%s)\n", n.FuncName)
		for _, arg := range n.Args {
			sprintNode(b, a, arg, depth+1)
		}
		if n.HasBody {
			sprintNode(b, a, n.FuncBody, depth+1)
		}
	case Body:
		fmt.Fprintf(b, "Body(size=%d)\n", n.Size)
		for _, s := range n.Statements {
			sprintNode(b, a, s, depth+1)
		}
	case Struct:
		fmt.Fprintf(b, "Struct(%s)\n", n.AggName)
		sprintNode(b, a, n.AggBody, depth+1)
	case Union:
		fmt.Fprintf(b, "Union(%s)\n", n.AggName)
		sprintNode(b, a, n.AggBody, depth+1)
	case Cast:
		b.WriteString("Cast\n")
		sprintNode(b, a, n.Inner, depth+1)
	case Statement:
		fmt.Fprintf(b, "Statement(%d)\n", n.Stmt)
		if n.HasCond {
			sprintNode(b, a, n.Cond, depth+1)
		}
		if n.HasThen {
			sprintNode(b, a, n.Then, depth+1)
		}
		if n.HasElse {
			sprintNode(b, a, n.ElseBranch, depth+1)
		}
	case Blank:
		b.WriteString("Blank\n")
	default:
		fmt.Fprintf(b, "Node(kind=%d)\n", n.Kind)
	}
}
