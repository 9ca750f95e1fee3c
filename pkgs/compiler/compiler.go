// Package compiler wires the front end's stages together: read source,
// lex, parse, and hand back the annotated AST plus symbol tables for a
// downstream code generator.
package compiler

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"

	"github.com/sameerakhatoon/ccfront/pkgs/ast"
	"github.com/sameerakhatoon/ccfront/pkgs/ccerrors"
	"github.com/sameerakhatoon/ccfront/pkgs/lexer"
	"github.com/sameerakhatoon/ccfront/pkgs/parser"
	"github.com/sameerakhatoon/ccfront/pkgs/scope"
	"github.com/sameerakhatoon/ccfront/pkgs/source"
	"github.com/sameerakhatoon/ccfront/pkgs/symtab"
	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

// version is the raw build version; Version() canonicalizes it.
const version = "v0.1.0"

// Version returns the canonical semver form of the front end's version.
func Version() string {
	if v := semver.Canonical(version); v != "" {
		return v
	}
	return version
}

// Status is the top-level compile result.
type Status int

const (
	Success Status = iota
	FailedWithErrors
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failed with errors"
}

// Flags adjusts a compile run.
type Flags uint8

const (
	WarnAsError Flags = 1 << iota
	DumpTokens
	DumpAST
)

// Unit is one fully front-ended translation unit: the root node vector, the
// arena every node lives in, and the scope/symbol state the parser built.
// Downstream code generation consumes this and nothing else.
type Unit struct {
	InPath  string
	Tokens  []token.Token
	Roots   []ast.Handle
	Arena   *ast.Arena
	Scopes  *scope.Stack
	Symbols *symtab.Table
}

// NativeFunctions lists the names pre-registered as native before parsing;
// a parsed definition matching one is marked native rather than
// redeclared. Empty by default; a host embedding the front end appends its
// runtime's builtins here.
var NativeFunctions []string

func compile(r source.Reader, inPath string, flags Flags) *Unit {
	ccerrors.SetWarningsAreErrors(flags&WarnAsError != 0)
	lx := lexer.New(r, inPath)
	tokens := lx.Lex()
	if flags&DumpTokens != 0 {
		for _, t := range tokens {
			fmt.Fprintln(os.Stderr, t)
		}
	}

	arena := ast.NewArena()
	p := parser.New(tokens, arena)
	for _, name := range NativeFunctions {
		// A duplicate here only means the host listed a name twice.
		_ = p.RegisterNativeFunction(name)
	}
	roots := p.ParseUnit()

	return &Unit{
		InPath:  inPath,
		Tokens:  tokens,
		Roots:   roots,
		Arena:   arena,
		Scopes:  p.Scopes(),
		Symbols: p.Symbols(),
	}
}

// CompileFile runs the whole front end over the file at inPath. outPath,
// when non-empty, receives the AST dump, the only output this front end
// itself produces; machine code is the downstream generator's job.
func CompileFile(inPath, outPath string, flags Flags) (*Unit, Status, error) {
	contents, err := os.ReadFile(inPath)
	if err != nil {
		return nil, FailedWithErrors, errors.Wrapf(err, "reading %s", inPath)
	}
	unit := compile(source.NewFileReader(inPath, contents), inPath, flags)

	if flags&DumpAST != 0 || outPath != "" {
		dump := dumpRoots(unit)
		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(dump), 0o644); err != nil {
				return unit, FailedWithErrors, errors.Wrapf(err, "writing %s", outPath)
			}
		}
		if flags&DumpAST != 0 {
			fmt.Fprint(os.Stdout, dump)
		}
	}
	return unit, Success, nil
}

// CompileString runs the front end over an in-memory source string, the
// buffer-backed analogue of CompileFile.
func CompileString(src string, flags Flags) (*Unit, Status, error) {
	unit := compile(source.NewStringReader(src), "", flags)
	if flags&DumpAST != 0 {
		fmt.Fprint(os.Stdout, dumpRoots(unit))
	}
	return unit, Success, nil
}

func dumpRoots(u *Unit) string {
	var out string
	for _, h := range u.Roots {
		out += ast.Sprint(u.Arena, h)
	}
	return out
}
