package ir

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wellFormedComponent() *Component {
	comp := NewComponent("main")
	comp.Signature.AddPort("go", 1, Output)
	r := comp.AddCell(NewCell("r", Prototype{Type: PrimitiveCell, Name: "std_reg", Params: []int64{1}}))
	in := r.AddPort("in", 1, Input)
	done := r.AddPort("done", 1, Output)

	g := comp.AddGroup(NewGroup("r"))
	g.AddAssignment(in, comp.Constant(1, 1).Ports[0], PortGuard{Port: g.Go()})
	g.AddAssignment(g.Done(), done, nil)
	comp.Control = &While{Port: done, Body: &Enable{Groups: []string{"r"}}}
	return comp
}

func TestVerifyAcceptsWellFormedComponent(t *testing.T) {
	assert.NoError(t, Verify(wellFormedComponent()))
	assert.NoError(t, Verify(NewComponent("empty")))
}

func TestVerifyDetectsOwnershipViolations(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(*Component)
		message string
	}{
		{
			name: "port adopted by another cell",
			corrupt: func(c *Component) {
				r, _ := c.FindCell("r")
				other := c.AddCell(NewCell("other", Prototype{Type: PrimitiveCell}))
				other.Ports = append(other.Ports, r.Ports[0])
			},
			message: "back-reference disagrees",
		},
		{
			name: "assignment to a foreign port",
			corrupt: func(c *Component) {
				foreign := NewCell("x", Prototype{Type: PrimitiveCell}).AddPort("in", 1, Input)
				g, _ := c.FindGroup("r")
				g.AddAssignment(foreign, c.Constant(1, 1).Ports[0], nil)
			},
			message: "no cell or group of the component owns",
		},
		{
			name: "guard reads a removed group's hole",
			corrupt: func(c *Component) {
				stale := c.AddGroup(NewGroup("stale"))
				r, _ := c.FindGroup("r")
				r.Assignments[0].Guard = PortGuard{Port: stale.Done()}
				c.RemoveGroup("stale")
			},
			message: "guard in group r",
		},
		{
			name: "condition from another component",
			corrupt: func(c *Component) {
				c.Control = &If{Port: NewComponent("other").Signature.AddPort("go", 1, Output), Tbranch: &Empty{}, Fbranch: &Empty{}}
			},
			message: "control condition",
		},
		{
			name: "nil assignment source",
			corrupt: func(c *Component) {
				g, _ := c.FindGroup("r")
				g.Assignments = append(g.Assignments, &Assignment{Dst: g.Done()})
			},
			message: "nil port used as source",
		},
		{
			name: "duplicate group",
			corrupt: func(c *Component) {
				c.Groups = append(c.Groups, NewGroup("r"))
			},
			message: "duplicate group r",
		},
		{
			name: "hole with data direction",
			corrupt: func(c *Component) {
				g, _ := c.FindGroup("r")
				g.Go().Direction = Input
			},
			message: "has direction input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := wellFormedComponent()
			tt.corrupt(comp)

			err := Verify(comp)
			require.Error(t, err)

			var inv *InvariantError
			require.True(t, errors.As(err, &inv))
			assert.Equal(t, "main", inv.Component)
			assert.Contains(t, inv.Message, tt.message)
			assert.Same(t, inv, errors.Cause(err))

			// The stack recorded where verification failed
			assert.Contains(t, fmt.Sprintf("%+v", err), "ir.Verify")
		})
	}
}

func TestVerifyIgnoresMissingCondition(t *testing.T) {
	comp := wellFormedComponent()
	comp.Control = &While{Body: &Empty{}}
	assert.NoError(t, Verify(comp))
}
