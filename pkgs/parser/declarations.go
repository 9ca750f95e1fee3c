package parser

import (
	"github.com/sameerakhatoon/ccfront/pkgs/ast"
	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/scope"
	"github.com/sameerakhatoon/ccfront/pkgs/symtab"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
	"github.com/sameerakhatoon/ccfront/pkgs/types"
)

// declarator is one name in a comma-separated declarator list sharing a
// single leading datatype (`int a, b[4], *c;`).
type declarator struct {
	name     string
	brackets types.ArrayBrackets
	pos      token.Position
}

// parseVariableOrFunctionOrStructOrUnion parses one declaration starting at
// a datatype keyword: a struct/union definition (optionally followed by an
// inline instance declarator), a lone tag reference/forward declaration, or
// a name followed by either a parameter list and body (a function) or a
// variable declarator list.
func (p *Parser) parseVariableOrFunctionOrStructOrUnion(h History) {
	start := p.peek()
	dt := p.parseDatatype()

	if dt.IsAggregate() && p.isNextSymbol('{') {
		aggNode := p.parseAggregateBody(start, dt)
		if p.isNextSymbol(';') {
			p.next()
			p.pushNode(aggNode)
			return
		}
		// Inline declarator: `struct S { ... } x;`. The instance hangs off
		// the aggregate node, and an anonymous tag takes the declarator's
		// name.
		p.parseVariableDeclaratorList(start, dt, h)
		varNode := p.popNode()
		agg := p.arena.At(aggNode)
		agg.HasAggVar = true
		agg.AggVar = varNode
		if agg.AnonAgg {
			if vn := p.arena.At(varNode); vn.Kind == ast.Variable {
				delete(p.aggregates, agg.AggName)
				agg.AggName = vn.VarName
				dt.Name = vn.VarName
				p.aggregates[agg.AggName] = aggNode
			}
		}
		p.pushNode(aggNode)
		return
	}

	if dt.IsAggregate() {
		// Bind to an already-parsed tag eagerly so the declarators below see
		// a real size; a still-undefined tag is deferred per-variable in
		// declareVariable.
		if agg, ok := p.aggregates[dt.Name]; ok {
			p.bindAggregateRef(dt, agg)
		}
	}

	if p.isNextSymbol(';') {
		p.next()
		p.pushNode(p.newNode(ast.Blank, start.Pos))
		return
	}

	p.parseVariableDeclaratorList(start, dt, h)
}

// parseVariableDeclaratorList reads the first declarator name after a
// datatype and either hands off to parseFunction (name followed by `(`) or
// collects a comma-separated run of variable declarators, pushing a single
// Variable node or, for more than one declarator, a VariableList.
func (p *Parser) parseVariableDeclaratorList(start *token.Token, dt *types.DataType, h History) {
	nameTok := p.peek()
	if nameTok == nil || nameTok.Kind != token.Identifier {
		ccerrors.Fatalf(p.lastPos(), "expected a declarator name")
	}
	p.next()
	name := nameTok.Text

	if p.isNextOperator("(") {
		p.parseFunction(start, dt, name, h)
		return
	}

	declarators := []declarator{{name: name, brackets: p.parseArrayBrackets(), pos: nameTok.Pos}}
	for p.isNextOperator(",") {
		p.next()
		t := p.peek()
		if t == nil || t.Kind != token.Identifier {
			ccerrors.Fatalf(p.lastPos(), "expected a declarator name")
		}
		p.next()
		declarators = append(declarators, declarator{name: t.Text, brackets: p.parseArrayBrackets(), pos: t.Pos})
	}

	var vars []ast.Handle
	for _, d := range declarators {
		vars = append(vars, p.declareVariable(dt, d, h))
	}

	if p.isNextOperator("=") {
		p.next()
		p.parseExpressionable(h.clone())
		val := p.popNode()
		if len(vars) == 1 {
			vn := p.arena.At(vars[0])
			vn.HasValue = true
			vn.Value = val
		}
	}

	if p.isNextSymbol(';') {
		p.next()
	}

	if len(vars) == 1 {
		p.pushNode(vars[0])
		return
	}
	listNode := p.newNode(ast.VariableList, start.Pos)
	p.arena.At(listNode).Vars = vars
	p.pushNode(listNode)
}

// parseArrayBrackets consumes a run of `[N]`/`[]` declarator suffixes.
func (p *Parser) parseArrayBrackets() types.ArrayBrackets {
	var brackets types.ArrayBrackets
	for p.isNextOperator("[") {
		p.next()
		if p.isNextSymbol(']') {
			p.next()
			brackets = append(brackets, types.BracketExpr{Empty: true})
			continue
		}
		t := p.next()
		if t == nil || t.Kind != token.Number {
			ccerrors.Fatalf(p.lastPos(), "expected an array size")
		}
		p.expectSymbol(']')
		brackets = append(brackets, types.BracketExpr{Number: int64(t.NumValue)})
	}
	return brackets
}

func (p *Parser) newVariableNode(pos token.Position, dt *types.DataType, name string) ast.Handle {
	vh := p.newNode(ast.Variable, pos)
	vn := p.arena.At(vh)
	vn.DType = p.arena.NewDataType(dt)
	vn.VarName = name
	return vh
}

// declareVariable allocates a Variable node for one declarator, applying
// its array brackets to a private copy of the shared base datatype,
// assigning a stack offset when the declarator lives in a function body or
// argument list, and registering the name in the current symbol frame.
func (p *Parser) declareVariable(base *types.DataType, d declarator, h History) ast.Handle {
	dt := *base
	dt.ArrayBrackets = d.brackets
	if len(d.brackets) > 0 {
		dt.Flags |= types.Array
	}

	vh := p.newVariableNode(d.pos, &dt, d.name)
	if dt.IsAggregate() && !dt.HasStructRef && !dt.HasUnionRef {
		p.resolveAggregateRef(&dt)
	}
	size := dt.Size()

	switch {
	case h.InsideFunctionBody:
		sc := p.scopes.Current()
		offset := -(sc.Size + size)
		vn := p.arena.At(vh)
		vn.StackOffset = offset
		vn.HasStackOffset = true
		ent := &scope.Entity{VariableNode: int32(vh), StackOffset: offset, HasOffset: true, ElementSize: size, IsPrimitive: dt.IsPrimitive()}
		sc.PushEntity(ent, size)
		p.considerVar(sc, vh, size, dt.IsPrimitive())
	case h.IsUpwardStack:
		sc := p.scopes.Current()
		fn := p.arena.At(p.currentFunction)
		offset := fn.ArgsStackAdd + sc.Size
		vn := p.arena.At(vh)
		vn.StackOffset = offset
		vn.HasStackOffset = true
		ent := &scope.Entity{VariableNode: int32(vh), StackOffset: offset, HasOffset: true, ElementSize: size, IsPrimitive: dt.IsPrimitive()}
		sc.PushEntity(ent, size)
	}

	if err := p.symbols.Declare(symtab.Symbol{Name: d.name, Kind: symtab.NodeSymbol, Node: int32(vh)}); err != nil {
		ccerrors.Fatalf(d.pos, "%s", err.Error())
	}
	return vh
}

func (p *Parser) considerVar(sc *scope.Scope, vh ast.Handle, size int, isPrimitive bool) {
	if !isPrimitive {
		return
	}
	if p.largestVars == nil {
		p.largestVars = map[*scope.Scope]*largestTrack{}
	}
	t := p.largestVars[sc]
	if t == nil {
		t = &largestTrack{}
		p.largestVars[sc] = t
	}
	if size > t.size {
		t.size = size
		t.node = vh
	}
}

// parseFunction parses the parameter list and, unless the declaration ends
// at `;` (a prototype), the body of a function declarator. Argument offsets
// grow upward from ArgsStackAdd (a base word for the return address, plus a
// second word when the function returns an aggregate by hidden pointer);
// local variable offsets, computed while parsing the body, grow downward
// from zero.
func (p *Parser) parseFunction(start *token.Token, dt *types.DataType, name string, h History) {
	p.expectOperator("(")

	fnHandle := p.newNode(ast.Function, start.Pos)
	fn := p.arena.At(fnHandle)
	fn.ReturnType = p.arena.NewDataType(dt)
	fn.FuncName = name
	fn.ArgsStackAdd = types.SizeDword
	if dt.IsAggregate() {
		fn.ArgsStackAdd += types.SizeDword
	}
	if sym, ok := p.symbols.Lookup(name); ok && sym.Kind == symtab.NativeFunctionSymbol {
		// A pre-registered native symbol already owns the name; the parsed
		// function just gets marked.
		fn.Native = true
	} else if err := p.symbols.Declare(symtab.Symbol{Name: name, Kind: symtab.NodeSymbol, Node: int32(fnHandle)}); err != nil {
		ccerrors.Fatalf(p.lastPos(), "%s", err.Error())
	}

	prevFunction := p.currentFunction
	p.currentFunction = fnHandle
	defer func() { p.currentFunction = prevFunction }()

	p.scopes.NewScope(scope.FunctionScope)
	p.symbols.PushFrame()
	argHist := h.clone()
	argHist.IsUpwardStack = true
	argHist.IsGlobalScope = false
	argHist.InsideFunctionBody = false

	var args []ast.Handle
	if !p.isNextSymbol(')') {
		for {
			// The lexer's two-character munch never fuses "...", so the
			// variadic marker arrives as a run of '.' operator tokens.
			if t := p.peek(); t != nil && t.Kind == token.Operator && (t.Text == "..." || t.Text == ".") {
				p.next()
				for p.isNextOperator(".") {
					p.next()
				}
				fn.Variadic = true
				break
			}
			argDt := p.parseDatatype()
			nameTok := p.next()
			if nameTok == nil || nameTok.Kind != token.Identifier {
				ccerrors.Fatalf(p.lastPos(), "expected a parameter name")
			}
			d := declarator{name: nameTok.Text, brackets: p.parseArrayBrackets(), pos: nameTok.Pos}
			args = append(args, p.declareVariable(argDt, d, argHist))
			if p.isNextOperator(",") {
				p.next()
				continue
			}
			break
		}
	}
	p.expectSymbol(')')
	fn.Args = args

	if p.isNextSymbol(';') {
		p.next()
		p.symbols.PopFrame()
		p.scopes.FinishScope()
		p.pushNode(fnHandle)
		return
	}

	bodyHist := h.clone()
	bodyHist.InsideFunctionBody = true
	bodyHist.IsGlobalScope = false

	var bodySize int
	bodyHandle := p.parseBody(&bodySize, bodyHist)
	fn.HasBody = true
	fn.FuncBody = bodyHandle
	fn.StackSize = bodySize
	p.symbols.PopFrame()
	p.scopes.FinishScope()
	p.pushNode(fnHandle)
}

func aggKind(dt *types.DataType) ast.Kind {
	if dt.Kind == types.Union {
		return ast.Union
	}
	return ast.Struct
}

// fieldAlignment approximates a type's natural alignment from its size:
// byte fields need no alignment, everything wider aligns to the next
// power-of-two boundary of 2 or 4 bytes, and anything larger than a DWORD
// (such as the 8-byte `long double`) aligns to 8.
func fieldAlignment(size int) int {
	switch {
	case size <= 1:
		return 1
	case size <= 2:
		return 2
	case size <= 4:
		return 4
	default:
		return 8
	}
}

// parseAggregateBody parses `{ member ; member ; ... }` and computes each
// member's offset: struct members are laid out sequentially with padding
// inserted to align each primitive field and the whole aggregate; union members all sit at offset 0 and the aggregate's
// size is the largest member's size, with no padding between members (seed
// scenario 4).
func (p *Parser) parseAggregateBody(start *token.Token, dt *types.DataType) ast.Handle {
	open := p.next() // '{'

	aggHandle := p.newNode(aggKind(dt), start.Pos)
	agg := p.arena.At(aggHandle)
	agg.AggName = dt.Name
	agg.AnonAgg = dt.Flags.Has(types.AnonAggregate)

	p.symbols.PushFrame()
	var flags scope.Flags
	if dt.Kind == types.Union {
		flags = scope.UnionScope
	} else {
		flags = scope.StructScope
	}
	bodyScope := p.scopes.NewScope(flags)

	var members []ast.Handle
	maxAlign := 1
	for !p.isNextSymbol('}') {
		if p.peek() == nil {
			ccerrors.Fatalf(open.Pos, "unterminated struct/union body")
		}
		memberDt := p.parseDatatype()
		nameTok := p.next()
		if nameTok == nil || nameTok.Kind != token.Identifier {
			ccerrors.Fatalf(p.lastPos(), "expected a field name")
		}
		brackets := p.parseArrayBrackets()
		memberDt.ArrayBrackets = brackets
		if len(brackets) > 0 {
			memberDt.Flags |= types.Array
		}
		p.expectSymbol(';')
		if memberDt.IsAggregate() {
			p.resolveAggregateRef(memberDt)
		}

		fieldSize := memberDt.Size()
		varHandle := p.newVariableNode(nameTok.Pos, memberDt, nameTok.Text)

		if dt.Kind == types.Union {
			p.placeUnionField(bodyScope, varHandle, fieldSize, memberDt.IsPrimitive())
		} else {
			// Only primitive fields are padded into alignment; arrays,
			// pointers and nested aggregates pack at the running offset.
			align := 1
			if memberDt.IsPrimitive() {
				align = fieldAlignment(fieldSize)
				if align > maxAlign {
					maxAlign = align
				}
			}
			p.placeStructField(bodyScope, varHandle, fieldSize, align, memberDt.IsPrimitive())
		}

		if err := p.symbols.Declare(symtab.Symbol{Name: nameTok.Text, Kind: symtab.NodeSymbol, Node: int32(varHandle)}); err != nil {
			ccerrors.Fatalf(nameTok.Pos, "%s", err.Error())
		}
		members = append(members, varHandle)
	}
	p.expectSymbol('}')
	p.scopes.FinishScope()
	p.symbols.PopFrame()

	var total int
	if dt.Kind == types.Union {
		total = bodyScope.Size
	} else {
		total = types.AlignUp(bodyScope.Size, maxAlign)
	}

	bodyHandle := p.newNode(ast.Body, open.Pos)
	body := p.arena.At(bodyHandle)
	body.Statements = members
	body.Size = total
	body.Padded = total != bodyScope.Size

	agg = p.arena.At(aggHandle)
	agg.AggBody = bodyHandle
	agg.Size = total
	if dt.Kind == types.Struct {
		agg.Padding = total - bodyScope.Size
	}
	dt.SizeBytes = total

	if err := p.symbols.Declare(symtab.Symbol{Name: dt.Name, Kind: symtab.NodeSymbol, Node: int32(aggHandle)}); err != nil {
		ccerrors.Fatalf(start.Pos, "%s", err.Error())
	}

	if dt.Kind == types.Struct {
		dt.StructNodeRef = int32(aggHandle)
		dt.HasStructRef = true
	} else {
		dt.UnionNodeRef = int32(aggHandle)
		dt.HasUnionRef = true
	}
	p.aggregates[dt.Name] = aggHandle
	return aggHandle
}

func (p *Parser) placeStructField(sc *scope.Scope, vh ast.Handle, size, align int, isPrimitive bool) {
	before := sc.Size
	offset := types.AlignUp(before, align)
	vn := p.arena.At(vh)
	vn.AlignedOffset = offset
	vn.Padding = offset - before
	ent := &scope.Entity{VariableNode: int32(vh), StackOffset: offset, HasOffset: true, ElementSize: size, IsPrimitive: isPrimitive}
	sc.PushEntity(ent, (offset-before)+size)
}

func (p *Parser) placeUnionField(sc *scope.Scope, vh ast.Handle, size int, isPrimitive bool) {
	vn := p.arena.At(vh)
	vn.AlignedOffset = 0
	ent := &scope.Entity{VariableNode: int32(vh), StackOffset: 0, HasOffset: true, ElementSize: size, IsPrimitive: isPrimitive}
	sc.PushEntity(ent, 0)
	if size > sc.Size {
		sc.Size = size
	}
}

// resolveAggregateRef binds dt (a bare `struct Foo`/`union Foo` reference,
// no body of its own) to the tag's defining body if it has already been
// parsed, or registers a fixup to bind it once that body is seen later in
// the translation unit.
func (p *Parser) resolveAggregateRef(dt *types.DataType) {
	if h, ok := p.aggregates[dt.Name]; ok {
		p.bindAggregateRef(dt, h)
		return
	}
	name := dt.Name
	target := dt
	p.fixups.Register(func(interface{}) bool {
		h, ok := p.aggregates[name]
		if !ok {
			return false
		}
		p.bindAggregateRef(target, h)
		return true
	}, nil, nil)
}

func (p *Parser) bindAggregateRef(dt *types.DataType, aggHandle ast.Handle) {
	agg := p.arena.At(aggHandle)
	dt.SizeBytes = agg.Size
	if dt.Kind == types.Struct {
		dt.StructNodeRef = int32(aggHandle)
		dt.HasStructRef = true
	} else {
		dt.UnionNodeRef = int32(aggHandle)
		dt.HasUnionRef = true
	}
}
