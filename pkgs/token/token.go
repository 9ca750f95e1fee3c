package token

import "fmt"

// Kind is the discriminant of the Token tagged union.
type Kind int

const (
	Identifier Kind = iota
	Keyword
	Operator
	Symbol
	String
	Comment
	Newline
	Number
)

var kindNames = [...]string{
	Identifier: "Identifier",
	Keyword:    "Keyword",
	Operator:   "Operator",
	Symbol:     "Symbol",
	String:     "String",
	Comment:    "Comment",
	Newline:    "Newline",
	Number:     "Number",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NumericKind further classifies Number tokens.
type NumericKind int

const (
	Int NumericKind = iota
	Long
	Float
	Double
)

var numericKindNames = [...]string{
	Int:    "Int",
	Long:   "Long",
	Float:  "Float",
	Double: "Double",
}

func (n NumericKind) String() string {
	if int(n) >= 0 && int(n) < len(numericKindNames) {
		return numericKindNames[n]
	}
	return fmt.Sprintf("NumericKind(%d)", int(n))
}

// Token is the lexer's output unit. Exactly the fields relevant to a given
// Kind are meaningful; unused fields are left zero.
type Token struct {
	Kind Kind
	Pos  Position

	Text string // Identifier/Keyword/Operator name, String contents, Comment body
	Sym  byte   // Symbol character

	NumValue uint64      // Number token value
	NumKind  NumericKind // Number token subtype

	// IsWhitespace is true when at least one space or tab follows this
	// token before the next one. A newline sets no flag; it is its own
	// Newline token.
	IsWhitespace bool

	// BracketContext holds the raw bytes consumed between the innermost
	// still-open '(' and this token's emission point, or "" if the token
	// was produced outside any open parenthesis.
	BracketContext string
	InBracket      bool
}

// IsKeyword reports whether this token is the keyword with the given text.
func (t Token) IsKeyword(text string) bool {
	return t.Kind == Keyword && t.Text == text
}

// IsOperator reports whether this token is the operator with the given text.
func (t Token) IsOperator(text string) bool {
	return t.Kind == Operator && t.Text == text
}

// IsSymbol reports whether this token is the symbol character c.
func (t Token) IsSymbol(c byte) bool {
	return t.Kind == Symbol && t.Sym == c
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier, Keyword, Operator, String, Comment:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	case Symbol:
		return fmt.Sprintf("Symbol(%q)", t.Sym)
	case Number:
		return fmt.Sprintf("Number(%d, %s)", t.NumValue, t.NumKind)
	case Newline:
		return "Newline"
	default:
		return fmt.Sprintf("Token(kind=%d)", t.Kind)
	}
}
