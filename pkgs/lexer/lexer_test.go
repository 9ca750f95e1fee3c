package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameerakhatoon/ccfront/pkgs/source"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

func lexString(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(source.NewStringReader(src), "")
	return l.Lex()
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexerIdentifierAndKeyword(t *testing.T) {
	toks := lexString(t, "int foo")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Keyword, toks[0].Kind)
	assert.Equal(t, "int", toks[0].Text)
	assert.Equal(t, token.Identifier, toks[1].Kind)
	assert.Equal(t, "foo", toks[1].Text)
	assert.True(t, toks[0].IsWhitespace)
}

func TestLexerDecimalNumberWithLongSuffix(t *testing.T) {
	toks := lexString(t, "42L")
	require.Len(t, toks, 1)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.EqualValues(t, 42, toks[0].NumValue)
	assert.Equal(t, token.Long, toks[0].NumKind)
}

func TestLexerMultiCharOperator(t *testing.T) {
	toks := lexString(t, "a <<= b")
	kindsGot := kinds(toks)
	assert.Equal(t, []token.Kind{token.Identifier, token.Operator, token.Identifier}, kindsGot)
	assert.Equal(t, "<<=", toks[1].Text)
}

func TestLexerInvalidOperatorFlushesBackAllButFirst(t *testing.T) {
	// '@' isn't a lexable character, but "~~" isn't a valid 2-char operator
	// either; readOperator should keep only the first '~'.
	toks := lexString(t, "~~b")
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.Operator, toks[0].Kind)
	assert.Equal(t, "~", toks[0].Text)
}

func TestLexerBracketContextCapturedInsideParens(t *testing.T) {
	toks := lexString(t, "(a+b)")
	var inBracket int
	for _, tk := range toks {
		if tk.InBracket {
			inBracket++
		}
	}
	assert.Greater(t, inBracket, 0)
}

func TestLexerIncludeAngleString(t *testing.T) {
	toks := lexString(t, "include <stdio.h>")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Keyword, toks[0].Kind)
	assert.Equal(t, token.String, toks[1].Kind)
	assert.Equal(t, "stdio.h", toks[1].Text)
}

func TestLexerLessThanOutsideIncludeIsOperator(t *testing.T) {
	toks := lexString(t, "a < b")
	assert.Equal(t, token.Operator, toks[1].Kind)
	assert.Equal(t, "<", toks[1].Text)
}

func TestLexerLineComment(t *testing.T) {
	toks := lexString(t, "// hello\nint")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Comment, toks[0].Kind)
	assert.Equal(t, " hello", toks[0].Text)
	assert.Equal(t, token.Newline, toks[1].Kind)
}

func TestLexerMultiLineComment(t *testing.T) {
	toks := lexString(t, "/* a */int")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Comment, toks[0].Kind)
	assert.Equal(t, token.Keyword, toks[1].Kind)
}

func TestLexerCharLiteralEscape(t *testing.T) {
	toks := lexString(t, `'\n'`)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.EqualValues(t, '\n', toks[0].NumValue)
}

func TestLexerStringLiteral(t *testing.T) {
	toks := lexString(t, `"hi"`)
	require.Len(t, toks, 1)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hi", toks[0].Text)
}

func TestLexerStringLiteralEscapes(t *testing.T) {
	toks := lexString(t, `"a\nb"`)
	require.Len(t, toks, 1)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "a\nb", toks[0].Text)

	toks = lexString(t, `"col\tumn \\ end"`)
	require.Len(t, toks, 1)
	assert.Equal(t, "col\tumn \\ end", toks[0].Text)
}

func TestLexerSymbols(t *testing.T) {
	toks := lexString(t, "{};")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Symbol, toks[0].Kind)
	assert.Equal(t, byte('{'), toks[0].Sym)
}

func TestLexerIdentifierStartingWithXOrBIsNotMisread(t *testing.T) {
	toks := lexString(t, "xyz bar")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, "xyz", toks[0].Text)
	assert.Equal(t, token.Identifier, toks[1].Kind)
	assert.Equal(t, "bar", toks[1].Text)
}

func TestLexerBalancedParensLeaveDepthZero(t *testing.T) {
	// An unmatched ')' drives lexEndExpression below zero, a fatal
	// ccerrors.Fatalf call that exits the process, so it is not invoked
	// here; this checks the exprCount bookkeeping on balanced input.
	l := New(source.NewStringReader("(a)"), "")
	toks := l.Lex()
	assert.Equal(t, 0, l.exprCount)
	_ = toks
}
