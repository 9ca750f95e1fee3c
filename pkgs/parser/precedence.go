package parser

// Associativity records which direction a precedence group binds in.
type Associativity int

const (
	LeftToRight Associativity = iota
	RightToLeft
)

// PrecedenceGroup is one row of the operator table: a set of operator
// spellings that share a precedence level and associativity.
type PrecedenceGroup struct {
	Operators     []string
	Associativity Associativity
}

// operatorPrecedence is ordered tightest-binding first, loosest last.
var operatorPrecedence = []PrecedenceGroup{
	{Operators: []string{"->", "->*", "::", ".*", "<=>"}, Associativity: LeftToRight},
	{Operators: []string{"*", "/", "%"}, Associativity: LeftToRight},
	{Operators: []string{"+", "-"}, Associativity: LeftToRight},
	{Operators: []string{"<<", ">>"}, Associativity: LeftToRight},
	{Operators: []string{"<", ">", "<=", ">="}, Associativity: LeftToRight},
	{Operators: []string{"==", "!="}, Associativity: LeftToRight},
	{Operators: []string{"&"}, Associativity: LeftToRight},
	{Operators: []string{"^"}, Associativity: LeftToRight},
	{Operators: []string{"|"}, Associativity: LeftToRight},
	{Operators: []string{"&&"}, Associativity: LeftToRight},
	{Operators: []string{"||"}, Associativity: LeftToRight},
	{Operators: []string{"?:"}, Associativity: RightToLeft},
	{Operators: []string{"=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>="}, Associativity: RightToLeft},
	{Operators: []string{","}, Associativity: RightToLeft},
}

// precedenceIndex returns the table row operator belongs to, and the row
// itself, or (-1, nil) if operator doesn't participate in reordering (e.g.
// unary-only operators).
func precedenceIndex(operator string) (int, *PrecedenceGroup) {
	for i := range operatorPrecedence {
		g := &operatorPrecedence[i]
		for _, op := range g.Operators {
			if op == operator {
				return i, g
			}
		}
	}
	return -1, nil
}

// leftHasHigherPrecedence decides whether a left-rooted expression node
// should absorb a right-rooted child of lower precedence.
func leftHasHigherPrecedence(left, right string) bool {
	if left == right {
		return false
	}
	leftIdx, leftGroup := precedenceIndex(left)
	rightIdx, _ := precedenceIndex(right)
	if leftGroup != nil && leftGroup.Associativity == RightToLeft {
		return false
	}
	return leftIdx <= rightIdx
}
