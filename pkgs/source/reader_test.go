package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringReaderNextAndPeek(t *testing.T) {
	r := NewStringReader("ab")
	assert.Equal(t, byte('a'), r.Peek())
	assert.Equal(t, byte('a'), r.Next())
	assert.Equal(t, byte('b'), r.Peek())
	assert.Equal(t, byte('b'), r.Next())
	assert.Equal(t, byte(EOF), r.Next())
	assert.Equal(t, byte(EOF), r.Peek())
}

func TestPushBackReturnsCharacterToFront(t *testing.T) {
	r := NewStringReader("xy")
	c := r.Next()
	r.PushBack(c)
	assert.Equal(t, byte('x'), r.Peek())
	assert.Equal(t, byte('x'), r.Next())
	assert.Equal(t, byte('y'), r.Next())
}

func TestPushBackAtEOF(t *testing.T) {
	r := NewStringReader("")
	assert.Equal(t, byte(EOF), r.Next())
	r.PushBack('z')
	assert.Equal(t, byte('z'), r.Next())
	assert.Equal(t, byte(EOF), r.Next())
}

func TestFileReaderCarriesPath(t *testing.T) {
	r := NewFileReader("/tmp/a.c", []byte("int"))
	assert.Equal(t, "/tmp/a.c", r.Path)
	assert.Equal(t, byte('i'), r.Next())
}
