package parser

import (
	"github.com/sameerakhatoon/ccfront/pkgs/ast"
	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/scope"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
	"github.com/sameerakhatoon/ccfront/pkgs/types"
)

// parseBody parses either a brace-delimited block or (when no `{` follows,
// e.g. a bodyless `if`) a single statement, pushing a fresh block scope and
// symbol frame whenever the body isn't the translation unit's own top
// level. *size receives the block's total local-variable footprint, padded
// up to its largest local's natural alignment.
func (p *Parser) parseBody(size *int, h History) ast.Handle {
	var pos token.Position
	if t := p.peek(); t != nil {
		pos = t.Pos
	}
	bh := p.newNode(ast.Body, pos)
	prevBody := p.currentBody
	p.currentBody = bh
	defer func() { p.currentBody = prevBody }()

	// Each nested block gets its own scope with offsets starting fresh from
	// zero rather than continuing the enclosing function's running total:
	// sibling blocks with non-overlapping lifetimes (an if's then-branch and
	// its else-branch, say) are allowed to reuse the same stack slots.
	pushesScope := h.InsideFunctionBody || !h.IsGlobalScope
	var bodyScope *scope.Scope
	if pushesScope {
		bodyScope = p.scopes.NewScope(scope.BlockScope)
		p.symbols.PushFrame()
	}

	var stmts []ast.Handle
	if p.isNextSymbol('{') {
		p.next()
		for !p.isNextSymbol('}') {
			if p.peek() == nil {
				ccerrors.Fatalf(pos, "unterminated block")
			}
			stmts = append(stmts, p.parseStatement(h.clone()))
		}
		p.next()
	} else {
		stmts = append(stmts, p.parseStatement(h.clone()))
	}

	bn := p.arena.At(bh)
	bn.Statements = stmts

	if pushesScope {
		if t, ok := p.largestVars[bodyScope]; ok {
			bn.HasLargestVar = true
			bn.LargestVarNode = t.node
			total := types.AlignUp(bodyScope.Size, fieldAlignment(t.size))
			bn.Padded = total != bodyScope.Size
			bn.Size = total
			delete(p.largestVars, bodyScope)
		} else {
			bn.Size = bodyScope.Size
		}
		p.scopes.FinishScope()
		p.symbols.PopFrame()
	}

	if size != nil {
		*size = bn.Size
	}
	return bh
}

// parseStatement parses one statement: a nested block, a declaration, a
// control-flow keyword, a bare `;`, or an expression statement.
func (p *Parser) parseStatement(h History) ast.Handle {
	t := p.peek()
	if t == nil {
		ccerrors.Fatalf(p.lastPos(), "expected a statement")
	}
	switch t.Kind {
	case token.Keyword:
		switch {
		case statementKeywords[t.Text]:
			return p.parseStatementKeyword(h)
		case isKeywordVariableModifier(t.Text) || keywordIsDatatype(t.Text):
			p.parseVariableOrFunctionOrStructOrUnion(h)
			return p.popNode()
		}
	case token.Symbol:
		switch {
		case t.Sym == '{':
			var size int
			return p.parseBody(&size, h.clone())
		case t.Sym == ';':
			p.next()
			return p.newNode(ast.Blank, t.Pos)
		}
	}
	return p.finishExpressionStatement(h)
}

// finishExpressionStatement parses one expressionable term and consumes the
// terminator that follows it: `:` turns a bare identifier into a label
// instead of an expression statement, otherwise a trailing `;` is consumed
// if present.
func (p *Parser) finishExpressionStatement(h History) ast.Handle {
	start := p.peek()
	p.parseExpressionable(h.clone())
	node := p.popNode()

	if p.isNextSymbol(':') {
		if n := p.arena.At(node); n.Kind == ast.Identifier {
			p.next()
			hn := p.newNode(ast.Statement, start.Pos)
			sn := p.arena.At(hn)
			sn.Stmt = ast.StmtLabel
			sn.Label = n.Text
			return hn
		}
	}

	if p.isNextSymbol(';') {
		p.next()
	}
	return node
}

// parseStatementKeyword dispatches a control-flow keyword to its dedicated
// parser.
func (p *Parser) parseStatementKeyword(h History) ast.Handle {
	t := p.peek()
	switch t.Text {
	case "if":
		return p.parseIf(h)
	case "while":
		return p.parseWhile(h)
	case "do":
		return p.parseDoWhile(h)
	case "for":
		return p.parseFor(h)
	case "switch":
		return p.parseSwitch(h)
	case "case":
		return p.parseCase(h)
	case "default":
		return p.parseDefault(h)
	case "return":
		return p.parseReturn(h)
	case "goto":
		return p.parseGoto(h)
	case "break":
		return p.parseSimpleKeywordStatement(ast.StmtBreak)
	case "continue":
		return p.parseSimpleKeywordStatement(ast.StmtContinue)
	case "typedef":
		return p.parseTypedef()
	default:
		ccerrors.Fatalf(t.Pos, "unhandled statement keyword %q", t.Text)
		return 0
	}
}

func (p *Parser) parseIf(h History) ast.Handle {
	kw := p.next() // "if"
	p.expectOperator("(")
	p.parseExpressionable(h.clone())
	cond := p.popNode()
	p.expectSymbol(')')

	var size int
	then := p.parseBody(&size, h.clone())

	hn := p.newNode(ast.Statement, kw.Pos)
	n := p.arena.At(hn)
	n.Stmt = ast.StmtIf
	n.Cond, n.HasCond = cond, true
	n.Then, n.HasThen = then, true

	if p.isNextKeyword("else") {
		p.next()
		var elseNode ast.Handle
		if p.isNextKeyword("if") {
			elseNode = p.parseIf(h.clone())
		} else {
			var elseSize int
			elseNode = p.parseBody(&elseSize, h.clone())
		}
		n.ElseBranch, n.HasElse = elseNode, true
	}
	return hn
}

func (p *Parser) parseWhile(h History) ast.Handle {
	kw := p.next() // "while"
	p.expectOperator("(")
	p.parseExpressionable(h.clone())
	cond := p.popNode()
	p.expectSymbol(')')

	var size int
	body := p.parseBody(&size, h.clone())

	hn := p.newNode(ast.Statement, kw.Pos)
	n := p.arena.At(hn)
	n.Stmt = ast.StmtWhile
	n.Cond, n.HasCond = cond, true
	n.Then, n.HasThen = body, true
	return hn
}

func (p *Parser) parseDoWhile(h History) ast.Handle {
	kw := p.next() // "do"
	var size int
	body := p.parseBody(&size, h.clone())

	if !p.isNextKeyword("while") {
		ccerrors.Fatalf(p.lastPos(), "expected 'while' after do-block")
	}
	p.next()
	p.expectOperator("(")
	p.parseExpressionable(h.clone())
	cond := p.popNode()
	p.expectSymbol(')')
	if p.isNextSymbol(';') {
		p.next()
	}

	hn := p.newNode(ast.Statement, kw.Pos)
	n := p.arena.At(hn)
	n.Stmt = ast.StmtDoWhile
	n.Cond, n.HasCond = cond, true
	n.Then, n.HasThen = body, true
	return hn
}

// parseFor parses `for (init; cond; post) body`, each of the three clauses
// optional (down to a bare `for (;;)`). init may itself
// be a declaration (`for (int i = 0; ...)`), so it is parsed through the
// same declaration/expression dispatch a top-level statement uses.
func (p *Parser) parseFor(h History) ast.Handle {
	kw := p.next() // "for"
	p.expectOperator("(")

	var init ast.Handle
	hasInit := !p.isNextSymbol(';')
	if hasInit {
		if t := p.peek(); t != nil && t.Kind == token.Keyword &&
			(isKeywordVariableModifier(t.Text) || keywordIsDatatype(t.Text)) {
			p.parseVariableOrFunctionOrStructOrUnion(h.clone())
			init = p.popNode()
		} else {
			p.parseExpressionable(h.clone())
			init = p.popNode()
		}
	}
	if p.isNextSymbol(';') {
		p.next()
	}

	var cond ast.Handle
	hasCond := !p.isNextSymbol(';')
	if hasCond {
		p.parseExpressionable(h.clone())
		cond = p.popNode()
	}
	if p.isNextSymbol(';') {
		p.next()
	}

	var post ast.Handle
	hasPost := !p.isNextSymbol(')')
	if hasPost {
		p.parseExpressionable(h.clone())
		post = p.popNode()
	}
	p.expectSymbol(')')

	var size int
	body := p.parseBody(&size, h.clone())

	hn := p.newNode(ast.Statement, kw.Pos)
	n := p.arena.At(hn)
	n.Stmt = ast.StmtFor
	if hasInit {
		n.Init, n.HasInit = init, true
	}
	if hasCond {
		n.Cond, n.HasCond = cond, true
	}
	if hasPost {
		n.Post, n.HasPost = post, true
	}
	n.Then, n.HasThen = body, true
	return hn
}

// parseSwitch parses `switch (cond) { case ...: ... default: ... }`,
// collecting the case/default statements its body encounters via
// switchStack rather than through History.
func (p *Parser) parseSwitch(h History) ast.Handle {
	kw := p.next() // "switch"
	p.expectOperator("(")
	p.parseExpressionable(h.clone())
	cond := p.popNode()
	p.expectSymbol(')')

	p.switchStack = append(p.switchStack, &switchFrame{})
	inner := h.clone()
	inner.InsideSwitch = true
	var size int
	body := p.parseBody(&size, inner)
	frame := p.switchStack[len(p.switchStack)-1]
	p.switchStack = p.switchStack[:len(p.switchStack)-1]

	hn := p.newNode(ast.Statement, kw.Pos)
	n := p.arena.At(hn)
	n.Stmt = ast.StmtSwitch
	n.Cond, n.HasCond = cond, true
	n.Then, n.HasThen = body, true
	n.Cases = frame.cases
	n.HasDefault = frame.hasDefault
	return hn
}

func (p *Parser) parseCase(h History) ast.Handle {
	kw := p.next() // "case"
	p.parseExpressionable(h.clone())
	val := p.popNode()
	if p.arena.At(val).Kind != ast.Number {
		ccerrors.Fatalf(kw.Pos, "case expression must be a number literal")
	}
	if p.isNextSymbol(':') {
		p.next()
	}

	hn := p.newNode(ast.Statement, kw.Pos)
	n := p.arena.At(hn)
	n.Stmt = ast.StmtCase
	n.Cond, n.HasCond = val, true

	if len(p.switchStack) > 0 {
		top := p.switchStack[len(p.switchStack)-1]
		top.cases = append(top.cases, hn)
	}
	return hn
}

func (p *Parser) parseDefault(h History) ast.Handle {
	kw := p.next() // "default"
	if p.isNextSymbol(':') {
		p.next()
	}

	hn := p.newNode(ast.Statement, kw.Pos)
	p.arena.At(hn).Stmt = ast.StmtDefault

	if len(p.switchStack) > 0 {
		p.switchStack[len(p.switchStack)-1].hasDefault = true
	}
	return hn
}

func (p *Parser) parseReturn(h History) ast.Handle {
	kw := p.next() // "return"
	hn := p.newNode(ast.Statement, kw.Pos)
	n := p.arena.At(hn)
	n.Stmt = ast.StmtReturn
	if !p.isNextSymbol(';') {
		p.parseExpressionable(h.clone())
		n.Cond, n.HasCond = p.popNode(), true
	}
	if p.isNextSymbol(';') {
		p.next()
	}
	return hn
}

func (p *Parser) parseGoto(h History) ast.Handle {
	kw := p.next() // "goto"
	t := p.peek()
	if t == nil || t.Kind != token.Identifier {
		ccerrors.Fatalf(p.lastPos(), "expected a label after goto")
	}
	p.next()

	hn := p.newNode(ast.Statement, kw.Pos)
	n := p.arena.At(hn)
	n.Stmt = ast.StmtGoto
	n.Label = t.Text
	if p.isNextSymbol(';') {
		p.next()
	}
	return hn
}

func (p *Parser) parseSimpleKeywordStatement(kind ast.StatementKind) ast.Handle {
	kw := p.next()
	if p.isNextSymbol(';') {
		p.next()
	}
	hn := p.newNode(ast.Statement, kw.Pos)
	p.arena.At(hn).Stmt = kind
	return hn
}

// parseTypedef rejects a typedef declaration. The keyword is lexed so
// diagnostics can name it, but the accepted language has no type aliases;
// there is nothing to recover to, so the error is fatal like any other.
func (p *Parser) parseTypedef() ast.Handle {
	t := p.peek()
	ccerrors.Fatalf(t.Pos, "typedef is not supported")
	return 0
}
