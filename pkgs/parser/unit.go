package parser

import (
	"log/slog"

	"github.com/sameerakhatoon/ccfront/pkgs/ast"
	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/lexer"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

// ParseUnit parses the whole token stream into top-level root nodes, then
// asserts every registered fixup reached a fixpoint.
func (p *Parser) ParseUnit() []ast.Handle {
	for p.peek() != nil {
		p.parseNextToken()
		if h, ok := p.peekNodeOrNil(); ok {
			p.rootsAccum = append(p.rootsAccum, h)
			p.popNode()
		}
	}
	if !p.fixups.ResolveAll() {
		ccerrors.Fatalf(p.lastPos(), "unresolved forward type reference at end of translation unit")
	}
	p.logger.Debug("parse finished",
		slog.Int("roots", len(p.rootsAccum)),
		slog.Int("nodes", p.arena.Len()))
	return p.rootsAccum
}

func (p *Parser) parseNextToken() {
	t := p.peek()
	if t == nil {
		return
	}
	switch t.Kind {
	case token.Number, token.String, token.Identifier:
		p.parseExpressionable(History{})
	case token.Keyword:
		p.parseKeywordForGlobal()
	case token.Symbol:
		p.parseSymbol()
	default:
		p.next()
	}
}

func (p *Parser) parseKeywordForGlobal() {
	p.parseKeyword(History{IsGlobalScope: true})
}

func (p *Parser) parseSymbol() {
	if p.isNextSymbol('{') {
		var size int
		body := p.parseBody(&size, History{IsGlobalScope: true})
		p.pushNode(body)
		return
	}
	// An unexpected symbol at top level (e.g. a stray ';') is just consumed.
	p.next()
}

var variableModifierKeywords = map[string]bool{
	"unsigned": true, "signed": true, "static": true, "const": true,
	"extern": true, "__ignore_typecheck__": true,
}

func isKeywordVariableModifier(v string) bool { return variableModifierKeywords[v] }

var datatypeKeywords = map[string]bool{
	"int": true, "char": true, "float": true, "double": true, "void": true,
	"long": true, "short": true, "struct": true, "union": true,
}

func keywordIsDatatype(v string) bool { return datatypeKeywords[v] }

var statementKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "do": true, "switch": true,
	"case": true, "default": true, "break": true, "continue": true,
	"return": true, "goto": true, "typedef": true,
}

// parseKeyword dispatches a keyword token to whichever construct it starts:
// a variable/function/struct/union declaration, a control-flow statement,
// or sizeof used as a value.
func (p *Parser) parseKeyword(h History) {
	t := p.peek()
	if t == nil || t.Kind != token.Keyword {
		ccerrors.Fatalf(p.lastPos(), "expected keyword")
	}
	switch {
	case t.Text == "sizeof":
		p.parseSizeof(h)
	case isKeywordVariableModifier(t.Text) || keywordIsDatatype(t.Text):
		p.parseVariableOrFunctionOrStructOrUnion(h)
	case t.Text == "include":
		p.parseInclude(h)
	case statementKeywords[t.Text]:
		p.parseStatementKeyword(h)
	default:
		suggestion := ccerrors.Suggest(t.Text, lexer.KeywordList())
		if suggestion != "" {
			ccerrors.Fatalf(t.Pos, "unexpected keyword %q (did you mean %q?)", t.Text, suggestion)
		}
		ccerrors.Fatalf(t.Pos, "unexpected keyword %q", t.Text)
	}
}

func (p *Parser) parseInclude(h History) {
	kw := p.next() // "include"
	pathTok := p.next()
	if pathTok == nil || pathTok.Kind != token.String {
		ccerrors.Fatalf(kw.Pos, "expecting a path after include")
	}
	hn := p.newNode(ast.String, pathTok.Pos)
	p.arena.At(hn).Text = pathTok.Text
	p.pushNode(hn)
}
