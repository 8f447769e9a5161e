package ast

// Control is a node of the surface control tree.
// The set of implementations is closed; see the concrete types below.
type Control interface {
	Node
	controlNode()
}

// Seq runs its statements one after another.
type Seq struct {
	Pos   Position
	Stmts []Control
}

// Par runs its statements concurrently and finishes when all of them have.
type Par struct {
	Pos   Position
	Stmts []Control
}

// If samples Cond combinationally and runs one branch.
type If struct {
	Pos     Position
	Cond    Port
	Tbranch Control
	Fbranch Control
}

// Ifen enables the logic producing Cond for one step before sampling it.
type Ifen struct {
	Pos     Position
	Cond    Port
	Tbranch Control
	Fbranch Control
}

// While runs Body for as long as Cond holds, testing before every iteration.
type While struct {
	Pos  Position
	Cond Port
	Body Control
}

// Print is a debugging statement with no hardware meaning.
type Print struct {
	Pos Position
	Var string
}

// Enable activates the named components.
// Example: "enable a, b;"
type Enable struct {
	Pos   Position
	Comps []string
}

// Disable deactivates the named components.
type Disable struct {
	Pos   Position
	Comps []string
}

// Empty does nothing and is done immediately.
type Empty struct {
	Pos Position
}

func (*Seq) controlNode()     {}
func (*Par) controlNode()     {}
func (*If) controlNode()      {}
func (*Ifen) controlNode()    {}
func (*While) controlNode()   {}
func (*Print) controlNode()   {}
func (*Enable) controlNode()  {}
func (*Disable) controlNode() {}
func (*Empty) controlNode()   {}
