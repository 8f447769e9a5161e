package ir

import "fmt"

// ThisCellName is the name of the cell that stands for a component's own
// signature. User cells may not use it.
const ThisCellName = "this"

// SignatureGroupName names the group that collects wires into the
// component's own ports. It is always active and never scheduled, and no
// cell can share its name.
const SignatureGroupName = ThisCellName

// Component strictly owns its cells and groups; everything else in the
// graph refers to them without ownership.
type Component struct {
	Name string
	// Signature is the ThisComponent cell. Component inputs appear on it as
	// Output ports (readable inside the component) and component outputs as
	// Input ports (drivable inside the component).
	Signature *Cell
	Cells     []*Cell
	Groups    []*Group
	Control   Control
}

func NewComponent(name string) *Component {
	return &Component{
		Name:      name,
		Signature: NewCell(ThisCellName, Prototype{Type: ThisComponent}),
		Control:   &Empty{},
	}
}

// AddCell adds a cell. Cell names are unique per component; a duplicate
// panics, so callers building from user input check FindCell first.
func (c *Component) AddCell(cell *Cell) *Cell {
	if _, exists := c.FindCell(cell.Name); exists {
		panic(fmt.Sprintf("ir: component %s already has a cell named %s", c.Name, cell.Name))
	}
	c.Cells = append(c.Cells, cell)
	return cell
}

// FindCell looks a cell up by name. The signature cell is found under ThisCellName.
func (c *Component) FindCell(name string) (*Cell, bool) {
	if name == ThisCellName {
		return c.Signature, true
	}
	for _, cell := range c.Cells {
		if cell.Name == name {
			return cell, true
		}
	}
	return nil, false
}

// CellNames lists user and constant cells in insertion order.
func (c *Component) CellNames() []string {
	names := make([]string, len(c.Cells))
	for i, cell := range c.Cells {
		names[i] = cell.Name
	}
	return names
}

// Constant returns the cell for a (value, width) constant, creating it on
// first use. Repeated requests return the same cell.
func (c *Component) Constant(value, width uint64) *Cell {
	if cell, ok := c.FindCell(ConstantName(value, width)); ok {
		return cell
	}
	return c.AddCell(NewConstantCell(value, width))
}

// AddGroup adds a group. Group names are unique per component.
func (c *Component) AddGroup(g *Group) *Group {
	if _, exists := c.FindGroup(g.Name); exists {
		panic(fmt.Sprintf("ir: component %s already has a group named %s", c.Name, g.Name))
	}
	c.Groups = append(c.Groups, g)
	return g
}

func (c *Component) FindGroup(name string) (*Group, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// RemoveGroup drops the component's ownership of the named group. Any hole
// still referenced elsewhere keeps only a dead back-reference.
func (c *Component) RemoveGroup(name string) (*Group, bool) {
	for i, g := range c.Groups {
		if g.Name == name {
			c.Groups = append(c.Groups[:i:i], c.Groups[i+1:]...)
			return g, true
		}
	}
	return nil, false
}

// GroupNames lists groups in insertion order.
func (c *Component) GroupNames() []string {
	names := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		names[i] = g.Name
	}
	return names
}

// Context is the lowered form of a whole namespace.
type Context struct {
	Name       string
	Components []*Component
}

func (ctx *Context) FindComponent(name string) (*Component, bool) {
	for _, c := range ctx.Components {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
