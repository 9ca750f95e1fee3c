package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionStringWithFile(t *testing.T) {
	p := Position{Line: 3, Column: 9, File: "main.c"}
	assert.Equal(t, "line 3, column 9 in file main.c", p.String())
}

func TestPositionStringWithoutFile(t *testing.T) {
	p := Position{Line: 1, Column: 1}
	assert.Equal(t, "line 1, column 1", p.String())
}

func TestTokenPredicates(t *testing.T) {
	kw := Token{Kind: Keyword, Text: "include"}
	assert.True(t, kw.IsKeyword("include"))
	assert.False(t, kw.IsKeyword("int"))
	assert.False(t, kw.IsOperator("include"))

	op := Token{Kind: Operator, Text: "<<"}
	assert.True(t, op.IsOperator("<<"))
	assert.False(t, op.IsOperator("<"))

	sym := Token{Kind: Symbol, Sym: '{'}
	assert.True(t, sym.IsSymbol('{'))
	assert.False(t, sym.IsSymbol('}'))
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, `Keyword("int")`, Token{Kind: Keyword, Text: "int"}.String())
	assert.Equal(t, `Symbol('{')`, Token{Kind: Symbol, Sym: '{'}.String())
	assert.Equal(t, "Number(42, Long)", Token{Kind: Number, NumValue: 42, NumKind: Long}.String())
	assert.Equal(t, "Newline", Token{Kind: Newline}.String())
}
