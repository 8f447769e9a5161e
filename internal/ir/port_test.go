package ir

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPortReturnsAddedPorts(t *testing.T) {
	cell := NewCell("r", Prototype{Type: PrimitiveCell, Name: "std_reg", Params: []int64{32}})
	added := []*Port{
		cell.AddPort("in", 32, Input),
		cell.AddPort("write_en", 1, Input),
		cell.AddPort("out", 32, Output),
	}

	for _, want := range added {
		got, ok := cell.FindPort(want.Name)
		require.True(t, ok, want.Name)
		assert.Same(t, want, got)

		parent, ok := got.Parent().Cell()
		require.True(t, ok)
		assert.Same(t, cell, parent)
	}

	for _, missing := range []string{"", "done", "IN", "out "} {
		p, ok := cell.FindPort(missing)
		assert.False(t, ok, missing)
		assert.Nil(t, p)
	}
}

func TestAddPortDuplicatePanics(t *testing.T) {
	cell := NewCell("r", Prototype{Type: PrimitiveCell})
	cell.AddPort("out", 1, Output)
	assert.Panics(t, func() { cell.AddPort("out", 8, Output) })
}

func TestFindHole(t *testing.T) {
	g := NewGroup("incr")

	goHole, ok := g.FindHole(GoHole)
	require.True(t, ok)
	assert.Same(t, g.Go(), goHole)
	assert.Equal(t, Inout, goHole.Direction)
	assert.Equal(t, uint64(1), goHole.Width)
	assert.True(t, goHole.IsHole())

	_, ok = g.FindHole("write_en")
	assert.False(t, ok)

	parent, ok := goHole.Parent().Group()
	require.True(t, ok)
	assert.Same(t, g, parent)
}

func TestFindGoHoleRegardlessOfInsertionOrder(t *testing.T) {
	orders := [][]string{
		{"go", "done", "ready"},
		{"ready", "done", "go"},
		{"done", "go"},
		{"a", "b", "c", "go"},
	}
	for _, order := range orders {
		t.Run(fmt.Sprint(order), func(t *testing.T) {
			// Bypass NewGroup so that "go" is inserted in the order under test
			g := &Group{Name: "g", Attributes: map[string]uint64{}}
			var want *Port
			for _, name := range order {
				h := g.AddHole(name, 1)
				if name == GoHole {
					want = h
				}
			}
			got, ok := g.FindHole(GoHole)
			require.True(t, ok)
			assert.Same(t, want, got)
		})
	}
}

func TestPortString(t *testing.T) {
	cell := NewCell("lt", Prototype{Type: PrimitiveCell, Name: "std_lt"})
	out := cell.AddPort("out", 1, Output)
	g := NewGroup("cond")

	assert.Equal(t, "lt.out", out.String())
	assert.Equal(t, "cond[done]", g.Done().String())
}

func TestParentNameFollowsRename(t *testing.T) {
	cell := NewCell("a", Prototype{Type: PrimitiveCell})
	p := cell.AddPort("out", 1, Output)
	cell.Name = "b"

	name, ok := p.Parent().Name()
	require.True(t, ok)
	assert.Equal(t, "b", name)
}

// holeOfDroppedGroup returns a hole whose group is no longer reachable from
// anything but the hole's own back-reference.
func holeOfDroppedGroup(t *testing.T) *Port {
	comp := NewComponent("main")
	comp.AddGroup(NewGroup("incr"))
	g, ok := comp.FindGroup("incr")
	require.True(t, ok)
	hole := g.Done()

	_, removed := comp.RemoveGroup("incr")
	require.True(t, removed)
	return hole
}

func TestDroppedGroupIsGoneFromBackReference(t *testing.T) {
	hole := holeOfDroppedGroup(t)
	runtime.GC()

	g, ok := hole.Parent().Group()
	assert.False(t, ok, "back-reference kept the group alive")
	assert.Nil(t, g)

	_, ok = hole.Parent().Name()
	assert.False(t, ok)
	assert.True(t, hole.Parent().IsGroup())
	assert.Equal(t, "incr?[done]", hole.String())
}

func TestDroppedCellIsGoneFromBackReference(t *testing.T) {
	port := func() *Port {
		cell := NewCell("r", Prototype{Type: PrimitiveCell})
		return cell.AddPort("out", 32, Output)
	}()
	runtime.GC()

	_, ok := port.Parent().Cell()
	assert.False(t, ok)
	_, ok = port.Parent().Group()
	assert.False(t, ok)
	assert.Equal(t, "r?.out", port.String())
}

func TestDirectionRoles(t *testing.T) {
	assert.True(t, Output.CanDrive())
	assert.False(t, Output.CanBeDriven())
	assert.True(t, Input.CanBeDriven())
	assert.False(t, Input.CanDrive())
	assert.True(t, Inout.CanDrive())
	assert.True(t, Inout.CanBeDriven())
}
