// Package lexer implements the tokenizer: it dispatches
// on the peeked byte to a family of make-token functions, tracks line/column
// position itself (the source.Reader it drives is purely byte-oriented),
// captures the raw text inside the innermost open parenthesis onto every
// token produced while nested, and treats `<...>` as a string only
// immediately after the `include` keyword.
package lexer

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/source"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

var keywords = map[string]bool{
	"unsigned": true, "signed": true, "char": true, "short": true, "int": true,
	"float": true, "double": true, "long": true, "void": true, "struct": true,
	"union": true, "static": true, "__ignore_typecheck__": true, "return": true,
	"include": true, "sizeof": true, "if": true, "else": true, "while": true,
	"for": true, "do": true, "break": true, "continue": true, "switch": true,
	"case": true, "default": true, "goto": true, "typedef": true, "const": true,
	"extern": true, "restrict": true,
}

// IsKeyword reports whether text is a reserved word.
func IsKeyword(text string) bool { return keywords[text] }

// KeywordList returns every reserved word, for fuzzy "did you mean"
// suggestions.
func KeywordList() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}

// isSingleOperatorChar is the one predicate the lexer uses everywhere a
// bare operator character must be recognized; keeping it single-sourced
// keeps it consistent with the validOperators set below.
func isSingleOperatorChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '=', '!', '&', '|', '^', '<', '>', '?', '~', '[', '(', ',', '.':
		return true
	default:
		return false
	}
}

var validOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "=": true, "!": true,
	"&": true, "|": true, "^": true, "<": true, ">": true, "?": true, "~": true,
	"[": true, "(": true, "{": true, ",": true, ".": true, ":": true, ";": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "==": true,
	"!=": true, "&&": true, "||": true, "++": true, "--": true, "<<": true,
	">>": true, "<=": true, ">=": true, "<<=": true, ">>=": true, "->": true,
	"->*": true, "::": true, ".*": true, "...": true, "<=>": true, "?:": true,
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_'
}

// Lexer drives a source.Reader into a flat token slice.
type Lexer struct {
	reader source.Reader
	pos    token.Position
	file   string

	exprCount  int
	bracketBuf []byte

	tokens []token.Token
	logger *slog.Logger
}

// New creates a Lexer reading from r, reporting positions against file (may
// be "" for in-memory sources).
func New(r source.Reader, file string) *Lexer {
	level := slog.LevelInfo
	if os.Getenv("CCFRONT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return &Lexer{
		reader: r,
		pos:    token.Position{Line: 1, Column: 1, File: file},
		file:   file,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// Lex runs the lexer to completion, returning every token it produced.
func (l *Lexer) Lex() []token.Token {
	for {
		t := l.readNextToken()
		if t == nil {
			break
		}
		l.tokens = append(l.tokens, *t)
	}
	l.logger.Debug("lexing finished",
		slog.String("file", l.file),
		slog.Int("tokens", len(l.tokens)),
		slog.Int("lines", l.pos.Line))
	return l.tokens
}

func (l *Lexer) peekChar() byte { return l.reader.Peek() }

// nextChar consumes one byte, updates line/column, and mirrors it into the
// bracket-context buffer while inside a parenthesized expression.
func (l *Lexer) nextChar() byte {
	c := l.reader.Next()
	if l.isInExpression() {
		l.bracketBuf = append(l.bracketBuf, c)
	}
	l.pos.Column++
	if c == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	}
	return c
}

// pushChar undoes one nextChar: the byte rejoins the read queue, the column
// steps back, and any bracket-context capture of it is dropped so a re-read
// doesn't record it twice.
func (l *Lexer) pushChar(c byte) {
	l.reader.PushBack(c)
	if l.pos.Column > 1 {
		l.pos.Column--
	}
	if l.isInExpression() && len(l.bracketBuf) > 0 {
		l.bracketBuf = l.bracketBuf[:len(l.bracketBuf)-1]
	}
}

func (l *Lexer) lastToken() *token.Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

func (l *Lexer) lexNewExpression() { l.exprCount++ }

func (l *Lexer) isInExpression() bool { return l.exprCount > 0 }

func (l *Lexer) lexEndExpression() {
	l.exprCount--
	if l.exprCount < 0 {
		ccerrors.Fatalf(l.pos, "unmatched parenthesis / you closed the expression you never opened")
	}
}

// finish stamps pos and bracket context onto t and returns it.
func (l *Lexer) finish(t token.Token) *token.Token {
	t.Pos = l.pos
	if l.isInExpression() {
		t.InBracket = true
		t.BracketContext = string(l.bracketBuf)
	}
	return &t
}

func (l *Lexer) readNextToken() *token.Token {
	if t := l.handleComment(); t != nil {
		return t
	}
	c := l.peekChar()
	switch {
	case isDigit(c):
		return l.makeTokenGivenNumber()
	case isSingleOperatorChar(c):
		return l.makeTokenGivenOperatorOrString()
	case c == '{' || c == '}' || c == ':' || c == ';' || c == '#' || c == ')' || c == ']' || c == '\\':
		return l.makeTokenGivenSymbol()
	case c == '"':
		return l.makeTokenGivenString('"', '"')
	case c == ' ', c == '\t':
		return l.handleWhitespace()
	case c == source.EOF:
		return nil
	case c == '\n':
		return l.handleNewline()
	case c == '\'':
		return l.makeTokenGivenQuote()
	default:
		t := l.readSpecialToken()
		if t == nil {
			ccerrors.Fatalf(l.pos, "unknown character %q", string(rune(c)))
		}
		return t
	}
}

func (l *Lexer) handleWhitespace() *token.Token {
	if last := l.lastToken(); last != nil {
		last.IsWhitespace = true
	}
	l.nextChar()
	return l.readNextToken()
}

func (l *Lexer) handleNewline() *token.Token {
	l.nextChar()
	return l.finish(token.Token{Kind: token.Newline})
}

func (l *Lexer) handleComment() *token.Token {
	if l.peekChar() != '/' {
		return nil
	}
	l.nextChar()
	switch l.peekChar() {
	case '/':
		l.nextChar()
		return l.makeTokenGivenOneLineComment()
	case '*':
		l.nextChar()
		return l.makeTokenGivenMultiLineComment()
	default:
		l.pushChar('/')
		return l.makeTokenGivenOperatorOrString()
	}
}

func (l *Lexer) makeTokenGivenOneLineComment() *token.Token {
	var b strings.Builder
	for c := l.peekChar(); c != '\n' && c != source.EOF; c = l.peekChar() {
		b.WriteByte(c)
		l.nextChar()
	}
	return l.finish(token.Token{Kind: token.Comment, Text: b.String()})
}

func (l *Lexer) makeTokenGivenMultiLineComment() *token.Token {
	var b strings.Builder
	for {
		c := l.peekChar()
		for c != '*' && c != source.EOF {
			b.WriteByte(c)
			l.nextChar()
			c = l.peekChar()
		}
		if c == source.EOF {
			ccerrors.Fatalf(l.pos, "unexpected end of file in multi-line comment")
		}
		l.nextChar() // consume '*'
		if l.peekChar() == '/' {
			l.nextChar()
			break
		}
		b.WriteByte('*')
	}
	return l.finish(token.Token{Kind: token.Comment, Text: b.String()})
}

func (l *Lexer) readNumberString() string {
	var b strings.Builder
	for c := l.peekChar(); isDigit(c); c = l.peekChar() {
		b.WriteByte(c)
		l.nextChar()
	}
	return b.String()
}

func numberSuffixKind(c byte) token.NumericKind {
	switch c {
	case 'L':
		return token.Long
	case 'f':
		return token.Float
	case 'd':
		return token.Double
	default:
		return token.Int
	}
}

func (l *Lexer) makeTokenGivenNumberAsValue(n uint64) *token.Token {
	kind := numberSuffixKind(l.peekChar())
	if kind != token.Int {
		l.nextChar()
	}
	return l.finish(token.Token{Kind: token.Number, NumValue: n, NumKind: kind})
}

// makeTokenGivenNumber reads a decimal literal, or, when it is a bare "0"
// immediately followed by 'x' or 'b', switches to the hex/binary special
// forms.
func (l *Lexer) makeTokenGivenNumber() *token.Token {
	s := l.readNumberString()
	if s == "0" {
		switch l.peekChar() {
		case 'x':
			return l.makeTokenGivenSpecialNumberHex()
		case 'b':
			return l.makeTokenGivenSpecialNumberBinary()
		}
	}
	n, _ := strconv.ParseUint(s, 10, 64)
	return l.makeTokenGivenNumberAsValue(n)
}

func (l *Lexer) makeTokenGivenOperatorOrString() *token.Token {
	c := l.peekChar()
	if c == '<' {
		if last := l.lastToken(); last != nil && last.Kind == token.Keyword && last.Text == "include" {
			return l.makeTokenGivenString('<', '>')
		}
	}
	op := l.readOperator()
	t := l.finish(token.Token{Kind: token.Operator, Text: op})
	if c == '(' {
		l.lexNewExpression()
	}
	return t
}

func (l *Lexer) readOperator() string {
	c := l.nextChar()
	var b strings.Builder
	b.WriteByte(c)
	next := l.peekChar()
	if isSingleOperatorChar(next) {
		b.WriteByte(next)
		l.nextChar()
	}
	op := b.String()
	if !validOperators[op] {
		// Flush back everything but the first character.
		for i := len(op) - 1; i >= 1; i-- {
			l.pushChar(op[i])
		}
		op = op[:1]
	}
	return op
}

func (l *Lexer) makeTokenGivenSymbol() *token.Token {
	c := l.nextChar()
	if c == ')' {
		l.lexEndExpression()
	}
	return l.finish(token.Token{Kind: token.Symbol, Sym: c})
}

func (l *Lexer) makeTokenGivenIdentifierOrKeyword() *token.Token {
	var b strings.Builder
	for c := l.peekChar(); isIdentPart(c); c = l.peekChar() {
		b.WriteByte(c)
		l.nextChar()
	}
	text := b.String()
	if IsKeyword(text) {
		return l.finish(token.Token{Kind: token.Keyword, Text: text})
	}
	return l.finish(token.Token{Kind: token.Identifier, Text: text})
}

func (l *Lexer) readSpecialToken() *token.Token {
	c := l.peekChar()
	if isAlpha(c) || c == '_' {
		return l.makeTokenGivenIdentifierOrKeyword()
	}
	return nil
}

// makeTokenGivenSpecialNumberHex parses the digits after a "0x" prefix.
func (l *Lexer) makeTokenGivenSpecialNumberHex() *token.Token {
	l.nextChar() // consume 'x'
	s := l.readHexNumberString()
	n, _ := strconv.ParseUint(s, 16, 64)
	return l.finish(token.Token{Kind: token.Number, NumValue: n})
}

func (l *Lexer) readHexNumberString() string {
	var b strings.Builder
	for c := l.peekChar(); isHexDigit(c); c = l.peekChar() {
		b.WriteByte(c)
		l.nextChar()
	}
	return b.String()
}

func (l *Lexer) makeTokenGivenSpecialNumberBinary() *token.Token {
	l.nextChar() // consume 'b'
	s := l.readNumberString()
	l.validateBinaryNumber(s)
	n, _ := strconv.ParseUint(s, 2, 64)
	return l.makeTokenGivenNumberAsValue(n)
}

func (l *Lexer) validateBinaryNumber(s string) {
	for _, c := range []byte(s) {
		if c != '0' && c != '1' {
			ccerrors.Fatalf(l.pos, "invalid binary number %q", s)
		}
	}
}

func (l *Lexer) makeTokenGivenString(start, end byte) *token.Token {
	got := l.nextChar()
	if got != start {
		ccerrors.Fatalf(l.pos, "expected %q to start string, got %q", string(rune(start)), string(rune(got)))
	}
	var b strings.Builder
	c := l.nextChar()
	for c != end && c != source.EOF {
		if c == '\\' {
			c = getEscapeCharacter(l.nextChar())
		}
		b.WriteByte(c)
		c = l.nextChar()
	}
	return l.finish(token.Token{Kind: token.String, Text: b.String()})
}

// makeTokenGivenQuote handles a character literal, folding it straight to
// a Number token holding the character's value.
func (l *Lexer) makeTokenGivenQuote() *token.Token {
	l.assertNextChar('\'')
	c := l.nextChar()
	if c == '\\' {
		c = l.nextChar()
		c = getEscapeCharacter(c)
	}
	if closing := l.nextChar(); closing != '\'' {
		ccerrors.Fatalf(l.pos, "did not close the opened quote")
	}
	return l.finish(token.Token{Kind: token.Number, NumValue: uint64(c), NumKind: token.Int})
}

// getEscapeCharacter maps the four supported escapes: \n \\ \t \'.
// \", \r, \0 and \xNN are intentionally outside the accepted subset.
func getEscapeCharacter(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case '\\':
		return '\\'
	case 't':
		return '\t'
	case '\'':
		return '\''
	default:
		return 0
	}
}

func (l *Lexer) assertNextChar(expected byte) byte {
	c := l.nextChar()
	if c != expected {
		ccerrors.Fatalf(l.pos, "expected %q, got %q", string(rune(expected)), string(rune(c)))
	}
	return c
}
