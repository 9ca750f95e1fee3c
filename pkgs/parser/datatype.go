package parser

import (
	"fmt"

	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
	"github.com/sameerakhatoon/ccfront/pkgs/types"
)

// warnAt adapts a fixed source position to types.Warner so
// types.ApplyPrimitiveSize can raise the `long long` clamp warning through
// ccerrors.Warnf without pkgs/types depending on pkgs/ccerrors.
type warnAt token.Position

func (w warnAt) Warnf(format string, args ...interface{}) {
	ccerrors.Warnf(token.Position(w), format, args...)
}

func typeKeywordToKind(name string) types.Kind {
	switch name {
	case "void":
		return types.Void
	case "char":
		return types.Char
	case "short":
		return types.Short
	case "int":
		return types.Int
	case "float":
		return types.Float
	case "double":
		return types.Double
	case "long":
		return types.Long
	case "struct":
		return types.Struct
	case "union":
		return types.Union
	default:
		return types.Unknown
	}
}

// parseDatatype reads leading modifier keywords, the base type keyword, an
// optional secondary primitive, the struct/union tag (real or generated),
// pointer-level stars, and trailing modifiers, producing a fully sized
// types.DataType.
func (p *Parser) parseDatatype() *types.DataType {
	dt := &types.DataType{Flags: types.Signed}
	p.parseDatatypeModifiers(dt)

	t := p.peek()
	if t == nil || t.Kind != token.Keyword || !keywordIsDatatype(t.Text) {
		ccerrors.Fatalf(p.lastPos(), "expected a type")
	}
	baseTok := p.next()
	dt.Kind = typeKeywordToKind(baseTok.Text)
	dt.Name = baseTok.Text

	if dt.Kind == types.Struct || dt.Kind == types.Union {
		p.parseAggregateTag(dt)
	} else {
		p.parseSecondaryPrimitive(dt)
		types.ApplyPrimitiveSize(dt, warnAt(baseTok.Pos))
	}

	p.parseDatatypeModifiers(dt)
	p.parsePointerLevels(dt)
	return dt
}

// parseDatatypeModifiers consumes any run of modifier keywords in either
// position the grammar allows them, leading or trailing a base type.
// `unsigned` clears the default Signed flag; every other
// modifier just sets its own bit.
func (p *Parser) parseDatatypeModifiers(dt *types.DataType) {
	for {
		t := p.peek()
		if t == nil || t.Kind != token.Keyword || !isKeywordVariableModifier(t.Text) {
			return
		}
		p.next()
		switch t.Text {
		case "unsigned":
			dt.Flags &^= types.Signed
		case "signed":
			dt.Flags |= types.Signed
		case "static":
			dt.Flags |= types.Static
		case "const":
			dt.Flags |= types.Const
		case "extern":
			dt.Flags |= types.Extern
		case "__ignore_typecheck__":
			dt.Flags |= types.IgnoreTypeCheck
		}
	}
}

// parseAggregateTag reads the tag name following `struct`/`union`, or
// generates `customtypename_<n>` for an anonymous aggregate.
func (p *Parser) parseAggregateTag(dt *types.DataType) {
	if t := p.peek(); t != nil && t.Kind == token.Identifier {
		p.next()
		dt.Name = t.Text
		return
	}
	dt.Name = p.nextAnonTypeName()
	dt.Flags |= types.AnonAggregate
}

func (p *Parser) nextAnonTypeName() string {
	name := fmt.Sprintf("customtypename_%d", p.typeNameIndex)
	p.typeNameIndex++
	return name
}

// parseSecondaryPrimitive reads the optional second primitive keyword for
// combinations like `long long` and `long double`. Only
// `float double long short` may carry a secondary word.
func (p *Parser) parseSecondaryPrimitive(dt *types.DataType) {
	t := p.peek()
	if t == nil || t.Kind != token.Keyword || !keywordIsDatatype(t.Text) {
		return
	}
	if t.Text == "struct" || t.Text == "union" {
		return
	}
	if !types.SecondaryAllowedForType(dt.Kind) {
		return
	}
	p.next()
	dt.Secondary = &types.DataType{Kind: typeKeywordToKind(t.Text), Name: t.Text}
	dt.Flags |= types.HasSecondary
}

// parsePointerLevels consumes a run of `*` tokens, each adding one pointer
// level.
func (p *Parser) parsePointerLevels(dt *types.DataType) {
	for p.isNextOperator("*") {
		p.next()
		dt.PointerLevel++
	}
	if dt.PointerLevel > 0 {
		dt.Flags |= types.Pointer
	}
}
