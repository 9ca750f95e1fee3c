// Package source implements the character-stream collaborator consumed by
// the lexer: next/peek/push-back over either a file or
// an in-memory buffer, the latter playing the role of the classic
// yy_scan_string entry point.
package source

// EOF is the sentinel byte returned once the stream is exhausted.
const EOF = 0

// Reader is the capability interface the lexer depends on. Two
// implementations exist below; callers pick one based on where the source
// text comes from.
type Reader interface {
	// Next consumes and returns the next byte, advancing position
	// bookkeeping. Returns EOF once exhausted.
	Next() byte
	// Peek returns the next byte without consuming it.
	Peek() byte
	// PushBack returns c to the front of the stream. At most one byte of
	// push-back is guaranteed.
	PushBack(c byte)
}

// buffer is the shared implementation backing both File and String readers:
// once a file is read it is just bytes in memory, same as a literal string.
type buffer struct {
	data     []byte
	pos      int
	pushedOK bool
	pushed   byte
}

func (b *buffer) Next() byte {
	if b.pushedOK {
		b.pushedOK = false
		return b.pushed
	}
	if b.pos >= len(b.data) {
		return EOF
	}
	c := b.data[b.pos]
	b.pos++
	return c
}

func (b *buffer) Peek() byte {
	if b.pushedOK {
		return b.pushed
	}
	if b.pos >= len(b.data) {
		return EOF
	}
	return b.data[b.pos]
}

func (b *buffer) PushBack(c byte) {
	b.pushed = c
	b.pushedOK = true
}

// FileReader reads a file already loaded into memory. The compiler reads the
// whole file up front and hands the bytes here.
type FileReader struct {
	buffer
	Path string
}

// NewFileReader wraps the contents of a file already read from disk.
func NewFileReader(path string, contents []byte) *FileReader {
	return &FileReader{buffer: buffer{data: contents}, Path: path}
}

// StringReader lexes a literal string, analogous to flex's yy_scan_string.
type StringReader struct {
	buffer
}

// NewStringReader wraps a literal source string.
func NewStringReader(s string) *StringReader {
	return &StringReader{buffer: buffer{data: []byte(s)}}
}
