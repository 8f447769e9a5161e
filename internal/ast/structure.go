package ast

// Structure is a statement of a component's structure section.
// The set of implementations is closed: *Decl, *Std and *Wire.
type Structure interface {
	Node
	structureNode()
}

// Decl instantiates a user-defined component.
// Example: "cell a0 = adder;"
type Decl struct {
	Pos       Position
	Name      string
	Component string
}

// Compinst names a primitive and the parameters it is instantiated with.
type Compinst struct {
	Name   string
	Params []int64
}

// Std instantiates a primitive from the primitive library.
// Example: "cell r = std_reg(32);"
type Std struct {
	Pos      Position
	Name     string
	Instance Compinst
}

// Wire is an unconditional point-to-point connection.
// Example: "k.out -> r.in;"
type Wire struct {
	Pos  Position
	Src  Port
	Dest Port
}

func (*Decl) structureNode() {}
func (*Std) structureNode()  {}
func (*Wire) structureNode() {}
