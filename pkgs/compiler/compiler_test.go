package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mod/semver"

	"github.com/sameerakhatoon/ccfront/pkgs/ast"
)

func TestCompileStringProducesRoots(t *testing.T) {
	unit, status, err := CompileString("int a = 1 + 2;", 0)
	require.NoError(t, err)
	assert.Equal(t, Success, status)
	require.Len(t, unit.Roots, 1)
	assert.Equal(t, ast.Variable, unit.Arena.At(unit.Roots[0]).Kind)
	assert.NotEmpty(t, unit.Tokens)
	assert.NotNil(t, unit.Symbols)
	assert.NotNil(t, unit.Scopes)
}

func TestCompileFileReadsSourceAndWritesDump(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.c")
	out := filepath.Join(dir, "prog.ast")
	require.NoError(t, os.WriteFile(in, []byte("int f(int x) { return x; }\n"), 0o644))

	unit, status, err := CompileFile(in, out, 0)
	require.NoError(t, err)
	assert.Equal(t, Success, status)
	assert.Equal(t, in, unit.InPath)
	require.Len(t, unit.Roots, 1)

	dump, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(dump), "Function(f)")
}

func TestCompileFileMissingInput(t *testing.T) {
	_, status, err := CompileFile("/nonexistent/prog.c", "", 0)
	require.Error(t, err)
	assert.Equal(t, FailedWithErrors, status)
}

func TestCompileWholeProgram(t *testing.T) {
	src := `struct Point { int x; int y; };

int manhattan(struct Point p) {
	int dx;
	int dy;
	dx = p.x;
	dy = p.y;
	return dx + dy;
}
`
	unit, status, err := CompileString(src, 0)
	require.NoError(t, err)
	assert.Equal(t, Success, status)
	require.Len(t, unit.Roots, 2)
	assert.Equal(t, ast.Struct, unit.Arena.At(unit.Roots[0]).Kind)
	assert.Equal(t, ast.Function, unit.Arena.At(unit.Roots[1]).Kind)
}

func TestVersionIsCanonicalSemver(t *testing.T) {
	assert.True(t, semver.IsValid(Version()))
	assert.Equal(t, Version(), semver.Canonical(Version()))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failed with errors", FailedWithErrors.String())
}
