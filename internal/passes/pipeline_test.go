package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futil/grammar"
	"futil/internal/errors"
	"futil/internal/ir"
	"futil/internal/primitives"
)

func lowerFile(t *testing.T, path string) *ir.Context {
	t.Helper()
	ns, err := grammar.ParseFile(path)
	require.NoError(t, err)
	ctx, diags := ir.BuildContext(ns, primitives.Default())
	require.False(t, errors.HasErrors(diags), "%v", diags)
	return ctx
}

func TestDefaultPipelineOnExamples(t *testing.T) {
	ctx := lowerFile(t, "../../examples/counter.futil")

	diags, err := DefaultPipeline().Run(ctx)
	require.NoError(t, err)
	assert.False(t, errors.HasErrors(diags), "%v", diags)

	comp := ctx.Components[0]
	for _, g := range comp.Groups {
		assert.Len(t, g.DoneDrivers(), 1, g.Name)
	}

	// enable add, i inside the loop is now a par of single enables
	loop := comp.Control.(*ir.Seq).Stmts[1].(*ir.While)
	assert.Equal(t, &ir.Par{Stmts: []ir.Control{
		&ir.Enable{Groups: []string{"add"}},
		&ir.Enable{Groups: []string{"i"}},
	}}, loop.Body)
}

func TestPipelineStopsComponentAfterErrors(t *testing.T) {
	ns, err := grammar.ParseString("t.futil", `namespace t {
  component bad() -> () {
    structure { cell r = std_reg(1); }
    control { enable ghost; }
  }
  component good() -> () {
    structure { cell r = std_reg(1); cell k = std_const(1, 1); k.out -> r.in; }
    control { enable r; }
  }
}`)
	require.NoError(t, err)
	ctx, diags := ir.BuildContext(ns, primitives.Default())
	require.Empty(t, diags)

	diags, err = DefaultPipeline().Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{errors.ErrorUndefinedGroup}, codes(diags))

	// The bad component was not desugared further, the good one was fully processed
	good, _ := ctx.FindComponent("good")
	r, _ := good.FindGroup("r")
	assert.Len(t, r.DoneDrivers(), 1)
}

func TestPipelineReportsMissingCondition(t *testing.T) {
	ctx := lowerFile(t, "../../examples/counter.futil")
	comp := ctx.Components[0]
	comp.Control = &ir.While{Body: &ir.Enable{Groups: []string{"lt", "add", "i"}}}

	diags, err := DefaultPipeline().Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{errors.ErrorInvalidCondition}, codes(diags))
}

// corrupter leaves a dangling reference behind.
type corrupter struct{}

func (corrupter) Name() string        { return "corrupter" }
func (corrupter) Description() string { return "drops a group that is still read elsewhere" }

func (corrupter) Apply(comp *ir.Component, _ *Diagnostics) bool {
	victim := comp.AddGroup(ir.NewGroup("victim"))
	g := comp.Groups[0]
	g.AddAssignment(g.Done(), victim.Done(), nil)
	comp.RemoveGroup("victim")
	return true
}

func TestPipelineFailsFastOnInvariantViolation(t *testing.T) {
	ctx := lowerFile(t, "../../examples/counter.futil")
	after := &DriveDone{}

	diags, err := NewPipeline(corrupter{}, after).Run(ctx)
	require.Error(t, err)

	var inv *ir.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, err.Error(), "pass corrupter")
	require.NotEmpty(t, diags)
	assert.Equal(t, errors.ErrorOwnershipViolation, diags[len(diags)-1].Code)

	// DriveDone never ran
	for _, g := range ctx.Components[0].Groups {
		assert.Empty(t, g.DoneDrivers(), g.Name)
	}
}

func TestParsePipeline(t *testing.T) {
	p, err := ParsePipeline("well-formed, dead-groups")
	require.NoError(t, err)
	require.Len(t, p.Passes(), 2)
	assert.Equal(t, "dead-groups", p.Passes()[1].Name())

	p, err = ParsePipeline("default,dead-groups")
	require.NoError(t, err)
	assert.Len(t, p.Passes(), len(DefaultPipeline().Passes())+1)

	_, err = ParsePipeline("well-formed,nope")
	assert.ErrorContains(t, err, `unknown pass "nope"`)
}

func TestRegistryNames(t *testing.T) {
	for _, name := range Names() {
		pass, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, pass.Name())
		assert.NotEmpty(t, pass.Description())
	}
}
