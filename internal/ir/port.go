package ir

import (
	"fmt"
	"weak"
)

// Direction of a port on a cell or group.
type Direction int

const (
	// Input port: can be the destination of an assignment.
	Input Direction = iota
	// Output port: can be the source of an assignment.
	Output
	// Inout is only used by group holes.
	Inout
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	case Inout:
		return "inout"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// CanDrive reports whether a port with this direction may be an assignment source.
func (d Direction) CanDrive() bool { return d == Output || d == Inout }

// CanBeDriven reports whether a port with this direction may be an assignment destination.
func (d Direction) CanBeDriven() bool { return d == Input || d == Inout }

type parentKind uint8

const (
	noParent parentKind = iota
	cellParent
	groupParent
)

// PortParent is the back-reference from a port to the cell or group that
// owns it. It holds a weak pointer: it never keeps the parent alive, and
// upgrading it fails once the parent has been reclaimed.
type PortParent struct {
	kind  parentKind
	name  string
	cell  weak.Pointer[Cell]
	group weak.Pointer[Group]
}

func parentOfCell(c *Cell) PortParent {
	return PortParent{kind: cellParent, name: c.Name, cell: weak.Make(c)}
}

func parentOfGroup(g *Group) PortParent {
	return PortParent{kind: groupParent, name: g.Name, group: weak.Make(g)}
}

// IsCell reports whether the port was created on a cell, even if that cell is gone.
func (p PortParent) IsCell() bool { return p.kind == cellParent }

// IsGroup reports whether the port is a group hole, even if that group is gone.
func (p PortParent) IsGroup() bool { return p.kind == groupParent }

// Cell upgrades the back-reference. It returns false if the parent is a
// group or has been reclaimed.
func (p PortParent) Cell() (*Cell, bool) {
	if p.kind != cellParent {
		return nil, false
	}
	c := p.cell.Value()
	return c, c != nil
}

// Group upgrades the back-reference. It returns false if the parent is a
// cell or has been reclaimed.
func (p PortParent) Group() (*Group, bool) {
	if p.kind != groupParent {
		return nil, false
	}
	g := p.group.Value()
	return g, g != nil
}

// Name returns the parent's current name, or false if the parent is gone.
func (p PortParent) Name() (string, bool) {
	switch p.kind {
	case cellParent:
		if c, ok := p.Cell(); ok {
			return c.Name, true
		}
	case groupParent:
		if g, ok := p.Group(); ok {
			return g.Name, true
		}
	}
	return "", false
}

// Port is a named, fixed-width connection point. Ports are shared by
// pointer: the owning cell or group, assignments, guards and control nodes
// all refer to the same *Port.
type Port struct {
	Name      string
	Width     uint64
	Direction Direction
	parent    PortParent
}

func (p *Port) Parent() PortParent { return p.parent }

// IsHole reports whether the port is a group's control signal.
func (p *Port) IsHole() bool { return p.parent.IsGroup() }

// String renders "cell.port" for cell ports and "group[hole]" for holes.
func (p *Port) String() string {
	name, ok := p.parent.Name()
	if !ok {
		// The name at creation time keeps stale references readable in diagnostics.
		name = p.parent.name + "?"
	}
	if p.parent.IsGroup() {
		return fmt.Sprintf("%s[%s]", name, p.Name)
	}
	return name + "." + p.Name
}
