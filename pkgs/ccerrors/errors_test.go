package ccerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

func TestCompileErrorFormat(t *testing.T) {
	e := &CompileError{
		Pos:     token.Position{Line: 7, Column: 3, File: "x.c"},
		Message: "expecting symbol \";\"",
	}
	assert.Equal(t, `Error: expecting symbol ";" on line 7, column 3 in file x.c`, e.Error())
}

func TestSuggestFindsNearMiss(t *testing.T) {
	keywords := []string{"return", "struct", "switch", "while"}
	assert.Equal(t, "return", Suggest("retrun", keywords))
	assert.Equal(t, "struct", Suggest("strcut", keywords))
}

func TestSuggestRejectsDistantNames(t *testing.T) {
	keywords := []string{"return", "struct"}
	assert.Empty(t, Suggest("abcdefgh", keywords))
}

func TestWrapAddsContext(t *testing.T) {
	err := Wrap(assert.AnError, "reading input")
	assert.ErrorContains(t, err, "reading input")
	assert.ErrorIs(t, err, assert.AnError)
}
