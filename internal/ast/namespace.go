package ast

// Namespace is the root of a parsed FuTIL program.
// Example: "namespace prog { component main() -> () { ... } }"
type Namespace struct {
	Pos        Position
	Name       string
	Components []*Component
}

// Component is a single hardware component definition: its interface,
// the cells and wires that make up its structure, and the control program
// that schedules them.
type Component struct {
	Pos       Position
	Name      string
	Inputs    []*Portdef
	Outputs   []*Portdef
	Structure []Structure
	Control   Control
}

// Portdef declares a port of a component signature.
// Example: "left: 32"
type Portdef struct {
	Pos   Position
	Name  string
	Width int64
}

// Port is a reference to a port in structure or control.
// The set of implementations is closed: *CompPort and *ThisPort.
type Port interface {
	Node
	portNode()
}

// CompPort names a port on a cell of the enclosing component.
// Example: "r.out"
type CompPort struct {
	Pos       Position
	Component string
	Port      string
}

// ThisPort names a port of the enclosing component's own signature.
// Example: "done"
type ThisPort struct {
	Pos  Position
	Port string
}

func (*CompPort) portNode() {}
func (*ThisPort) portNode() {}

// FindComponent returns the component with the given name.
func (n *Namespace) FindComponent(name string) (*Component, bool) {
	for _, c := range n.Components {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
