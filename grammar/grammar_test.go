package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futil/grammar"
	"futil/internal/ast"
	"futil/internal/errors"
)

func TestCounter(t *testing.T) {
	ns, err := grammar.ParseFile(`../examples/counter.futil`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	assert.Equal(t, "counter", ns.Name)
	require.Len(t, ns.Components, 1)

	main := ns.Components[0]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, []*ast.Portdef{{Pos: main.Inputs[0].Pos, Name: "go", Width: 1}}, main.Inputs)
	assert.Equal(t, "done", main.Outputs[0].Name)
	assert.Len(t, main.Structure, 12)

	reg, ok := main.Structure[0].(*ast.Std)
	require.True(t, ok)
	assert.Equal(t, "i", reg.Name)
	assert.Equal(t, ast.Compinst{Name: "std_reg", Params: []int64{32}}, reg.Instance)
	assert.Equal(t, 5, reg.Pos.Line)
	assert.Equal(t, 7, reg.Pos.Column)

	wire, ok := main.Structure[8].(*ast.Wire)
	require.True(t, ok)
	assert.Equal(t, "go -> i.write_en;", wire.String())
	assert.IsType(t, &ast.ThisPort{}, wire.Src)
	assert.IsType(t, &ast.CompPort{}, wire.Dest)

	seq, ok := main.Control.(*ast.Seq)
	require.True(t, ok)
	require.Len(t, seq.Stmts, 2)
	assert.Equal(t, "enable lt;", seq.Stmts[0].String())

	loop, ok := seq.Stmts[1].(*ast.While)
	require.True(t, ok)
	assert.Equal(t, "lt.out", loop.Cond.String())
	assert.Equal(t, []string{"add", "i"}, loop.Body.(*ast.Enable).Comps)
}

func TestBranches(t *testing.T) {
	ns, err := grammar.ParseFile(`../examples/branches.futil`)
	require.NoError(t, err)
	require.Len(t, ns.Components, 2)

	maxComp := ns.Components[0]
	assert.Len(t, maxComp.Inputs, 2)
	ifen, ok := maxComp.Control.(*ast.Ifen)
	require.True(t, ok)
	assert.Equal(t, "gt.out", ifen.Cond.String())
	assert.IsType(t, &ast.Enable{}, ifen.Tbranch)
	assert.IsType(t, &ast.Print{}, ifen.Fbranch)

	main := ns.Components[1]
	decl, ok := main.Structure[0].(*ast.Decl)
	require.True(t, ok)
	assert.Equal(t, "max", decl.Component)

	par, ok := main.Control.(*ast.Par)
	require.True(t, ok)
	require.Len(t, par.Stmts, 2)
	ifNode, ok := par.Stmts[1].(*ast.If)
	require.True(t, ok)
	assert.IsType(t, &ast.Empty{}, ifNode.Tbranch)
	assert.IsType(t, &ast.Empty{}, ifNode.Fbranch)
}

func TestBlockShapes(t *testing.T) {
	tests := []struct {
		name    string
		control string
		want    string
	}{
		{"no statements", ``, "empty;"},
		{"one statement", `enable a;`, "enable a;"},
		{"two statements", `enable a; enable b;`, "seq {\n  enable a;\n  enable b;\n}"},
		{"explicit seq of one", `seq { enable a; }`, "seq {\n  enable a;\n}"},
		{"empty seq", `seq { }`, "seq {\n}"},
		{"bare enable", `enable;`, "enable;"},
		{"disable list", `disable a, b;`, "disable a, b;"},
		{"while with block", `while c.out { enable a; enable b; }`, "while c.out {\n  enable a;\n  enable b;\n}"},
		{"if without else", `if c.out { enable a; }`, "if c.out {\n  enable a;\n}"},
		{"if with empty else", `if c.out { enable a; } else { }`, "if c.out {\n  enable a;\n}"},
		{"ifen with else", `ifen c.out { enable a; } else { enable b; }`, "ifen c.out {\n  enable a;\n} else {\n  enable b;\n}"},
		{"seq body prints as bare block", `while c.out { seq { enable a; enable b; } }`, "while c.out {\n  enable a;\n  enable b;\n}"},
		{"single seq body keeps its keyword", `while c.out { seq { enable a; } }`, "while c.out {\n  seq {\n    enable a;\n  }\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "namespace n { component m() -> () { structure { } control { " + tt.control + " } } }"
			ns, err := grammar.ParseString("test.futil", src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ns.Components[0].Control.String())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, path := range []string{`../examples/counter.futil`, `../examples/branches.futil`} {
		t.Run(path, func(t *testing.T) {
			first, err := grammar.ParseFile(path)
			require.NoError(t, err)

			printed := first.String()
			second, err := grammar.ParseString("printed.futil", printed)
			require.NoError(t, err, printed)

			assert.Equal(t, printed, second.String())
		})
	}
}

func TestCommentsAreIgnored(t *testing.T) {
	src := `// leading
namespace n { // after brace
  component m(x: 4) -> () {
    structure { cell r = std_reg(4); // trailing
      x -> r.in; }
    control { }
  }
}`
	ns, err := grammar.ParseString("c.futil", src)
	require.NoError(t, err)
	assert.Len(t, ns.Components[0].Structure, 2)
}

func TestNegativeIntegers(t *testing.T) {
	ns, err := grammar.ParseString("n.futil",
		"namespace n { component m(x: -1) -> () { structure { cell k = std_const(8, -3); } control { } } }")
	require.NoError(t, err)
	comp := ns.Components[0]
	assert.Equal(t, int64(-1), comp.Inputs[0].Width)
	assert.Equal(t, []int64{8, -3}, comp.Structure[0].(*ast.Std).Instance.Params)
}

func TestSyntaxError(t *testing.T) {
	_, err := grammar.ParseString("bad.futil", "namespace n {\n  component m() -> () {\n    structure { cell = ; }\n  }\n}")
	require.Error(t, err)

	var syntax *grammar.SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, "bad.futil", syntax.Pos.Filename)
	assert.Equal(t, 3, syntax.Pos.Line)
	assert.NotEmpty(t, syntax.Message)

	diag := syntax.Diagnostic()
	assert.Equal(t, errors.ErrorSyntax, diag.Code)
	assert.True(t, diag.IsError())
	assert.Equal(t, syntax.Pos, diag.Position)
}

func TestParseFileMissing(t *testing.T) {
	_, err := grammar.ParseFile("does-not-exist.futil")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
