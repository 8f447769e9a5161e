package ir

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Hole names every group is created with.
const (
	GoHole   = "go"
	DoneHole = "done"
)

// Assignment is a guarded dataflow edge: Dst takes Src's value while Guard
// holds. A nil Guard is unconditionally true.
type Assignment struct {
	Dst   *Port
	Src   *Port
	Guard Guard
}

func (a *Assignment) String() string {
	if a.Guard == nil {
		return fmt.Sprintf("%s = %s;", a.Dst, a.Src)
	}
	return fmt.Sprintf("%s = %s ? %s;", a.Dst, a.Guard, a.Src)
}

// Group is a named bundle of guarded assignments that the control program
// schedules as one activity. All of its assignments are active at the same
// time; their order carries no meaning.
type Group struct {
	Name        string
	Assignments []*Assignment
	Holes       []*Port
	Attributes  map[string]uint64
}

// NewGroup creates a group with its go and done holes.
func NewGroup(name string) *Group {
	g := &Group{Name: name, Attributes: make(map[string]uint64)}
	g.AddHole(GoHole, 1)
	g.AddHole(DoneHole, 1)
	return g
}

// AddHole creates a control-signal port owned by this group. Hole names are
// unique; adding a duplicate panics.
func (g *Group) AddHole(name string, width uint64) *Port {
	if _, exists := g.FindHole(name); exists {
		panic(fmt.Sprintf("ir: group %s already has a hole named %s", g.Name, name))
	}
	h := &Port{Name: name, Width: width, Direction: Inout, parent: parentOfGroup(g)}
	g.Holes = append(g.Holes, h)
	return h
}

// FindHole returns the hole with the given name, or false if there is none.
func (g *Group) FindHole(name string) (*Port, bool) {
	for _, h := range g.Holes {
		if h.Name == name {
			return h, true
		}
	}
	return nil, false
}

func (g *Group) Go() *Port {
	h, _ := g.FindHole(GoHole)
	return h
}

func (g *Group) Done() *Port {
	h, _ := g.FindHole(DoneHole)
	return h
}

func (g *Group) AddAssignment(dst, src *Port, guard Guard) *Assignment {
	a := &Assignment{Dst: dst, Src: src, Guard: guard}
	g.Assignments = append(g.Assignments, a)
	return a
}

// DoneDrivers returns the assignments that write this group's done hole.
func (g *Group) DoneDrivers() []*Assignment {
	done := g.Done()
	var drivers []*Assignment
	for _, a := range g.Assignments {
		if done != nil && a.Dst == done {
			drivers = append(drivers, a)
		}
	}
	return drivers
}

// AttributeString renders the attribute map in a stable order, e.g. `<"static"=1>`.
func (g *Group) AttributeString() string {
	if len(g.Attributes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(g.Attributes))
	for _, k := range slices.Sorted(maps.Keys(g.Attributes)) {
		parts = append(parts, fmt.Sprintf("%q=%d", k, g.Attributes[k]))
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
