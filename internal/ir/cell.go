package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// CellType is the kind of unit a cell instantiates.
type CellType int

const (
	// PrimitiveCell is constructed from a primitive library definition.
	PrimitiveCell CellType = iota
	// ComponentCell instantiates a user-defined component.
	ComponentCell
	// ThisComponent represents the enclosing component's own signature.
	ThisComponent
	// ConstantCell is a synthesized constant source.
	ConstantCell
)

func (t CellType) String() string {
	switch t {
	case PrimitiveCell:
		return "primitive"
	case ComponentCell:
		return "component"
	case ThisComponent:
		return "this"
	case ConstantCell:
		return "constant"
	}
	return fmt.Sprintf("CellType(%d)", int(t))
}

// Prototype records what a cell was instantiated from.
type Prototype struct {
	Type CellType
	// Name of the primitive or component. Empty for ThisComponent and constants.
	Name   string
	Params []int64
	// Value and Width are only meaningful for constants.
	Value uint64
	Width uint64
}

func (p Prototype) String() string {
	switch p.Type {
	case PrimitiveCell:
		params := make([]string, len(p.Params))
		for i, v := range p.Params {
			params[i] = strconv.FormatInt(v, 10)
		}
		return fmt.Sprintf("%s(%s)", p.Name, strings.Join(params, ", "))
	case ComponentCell:
		return p.Name
	case ThisComponent:
		return "this"
	case ConstantCell:
		return fmt.Sprintf("const(%d, %d)", p.Value, p.Width)
	}
	return "?"
}

// Cell is an instantiated unit owning an ordered list of uniquely named ports.
type Cell struct {
	Name      string
	Prototype Prototype
	Ports     []*Port
}

func NewCell(name string, proto Prototype) *Cell {
	return &Cell{Name: name, Prototype: proto}
}

// NewConstantCell creates the canonical cell for a (value, width) constant.
func NewConstantCell(value, width uint64) *Cell {
	c := NewCell(ConstantName(value, width), Prototype{Type: ConstantCell, Value: value, Width: width})
	c.AddPort("out", width, Output)
	return c
}

// ConstantName returns the canonical name for the cell generated to
// represent a (value, width) constant.
func ConstantName(value, width uint64) string {
	return fmt.Sprintf("_%d_%d", value, width)
}

// AddPort creates a port owned by this cell. Port names are unique per
// cell; adding a duplicate is an invariant violation and panics.
func (c *Cell) AddPort(name string, width uint64, dir Direction) *Port {
	if _, exists := c.FindPort(name); exists {
		panic(fmt.Sprintf("ir: cell %s already has a port named %s", c.Name, name))
	}
	p := &Port{Name: name, Width: width, Direction: dir, parent: parentOfCell(c)}
	c.Ports = append(c.Ports, p)
	return p
}

// FindPort returns the port with the given name, or false if there is none.
func (c *Cell) FindPort(name string) (*Port, bool) {
	for _, p := range c.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// PortNames lists the cell's port names in declaration order.
func (c *Cell) PortNames() []string {
	names := make([]string, len(c.Ports))
	for i, p := range c.Ports {
		names[i] = p.Name
	}
	return names
}

func (c *Cell) IsConstant() bool { return c.Prototype.Type == ConstantCell }
