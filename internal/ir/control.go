package ir

// Control is the scheduling tree of a component. Its leaves name groups.
// The set of node kinds is closed: code that needs to look at every kind
// implements Visitor, which has no default case to fall through to.
type Control interface {
	Accept(v Visitor)
	control()
}

// Visitor has one method per control node kind.
type Visitor interface {
	VisitSeq(*Seq)
	VisitPar(*Par)
	VisitIf(*If)
	VisitIfen(*Ifen)
	VisitWhile(*While)
	VisitEnable(*Enable)
	VisitDisable(*Disable)
	VisitPrint(*Print)
	VisitEmpty(*Empty)
}

// Seq runs its children one at a time, in order.
type Seq struct {
	Stmts []Control
}

// Par starts all of its children together and finishes when all are done.
type Par struct {
	Stmts []Control
}

// If samples Port combinationally and runs exactly one branch.
type If struct {
	Port    *Port
	Tbranch Control
	Fbranch Control
}

// Ifen enables the activity producing Port for one step before sampling it.
type Ifen struct {
	Port    *Port
	Tbranch Control
	Fbranch Control
}

// While re-tests Port before every iteration, including the first.
type While struct {
	Port *Port
	Body Control
}

// Enable activates the named groups. Names are kept exactly as written.
type Enable struct {
	Groups []string
}

// Disable deactivates the named groups.
type Disable struct {
	Groups []string
}

// Print is a debugging no-op.
type Print struct {
	Var string
}

// Empty is immediately done.
type Empty struct{}

func (*Seq) control()     {}
func (*Par) control()     {}
func (*If) control()      {}
func (*Ifen) control()    {}
func (*While) control()   {}
func (*Enable) control()  {}
func (*Disable) control() {}
func (*Print) control()   {}
func (*Empty) control()   {}

func (c *Seq) Accept(v Visitor)     { v.VisitSeq(c) }
func (c *Par) Accept(v Visitor)     { v.VisitPar(c) }
func (c *If) Accept(v Visitor)      { v.VisitIf(c) }
func (c *Ifen) Accept(v Visitor)    { v.VisitIfen(c) }
func (c *While) Accept(v Visitor)   { v.VisitWhile(c) }
func (c *Enable) Accept(v Visitor)  { v.VisitEnable(c) }
func (c *Disable) Accept(v Visitor) { v.VisitDisable(c) }
func (c *Print) Accept(v Visitor)   { v.VisitPrint(c) }
func (c *Empty) Accept(v Visitor)   { v.VisitEmpty(c) }

// Walk calls fn on c and then on each descendant, pre-order. Returning false
// from fn skips the node's children.
func Walk(c Control, fn func(Control) bool) {
	if c == nil {
		return
	}
	c.Accept(&walker{fn: fn})
}

type walker struct {
	fn func(Control) bool
}

func (w *walker) children(cs ...Control) {
	for _, c := range cs {
		if c != nil {
			c.Accept(w)
		}
	}
}

func (w *walker) VisitSeq(c *Seq) {
	if w.fn(c) {
		w.children(c.Stmts...)
	}
}

func (w *walker) VisitPar(c *Par) {
	if w.fn(c) {
		w.children(c.Stmts...)
	}
}

func (w *walker) VisitIf(c *If) {
	if w.fn(c) {
		w.children(c.Tbranch, c.Fbranch)
	}
}

func (w *walker) VisitIfen(c *Ifen) {
	if w.fn(c) {
		w.children(c.Tbranch, c.Fbranch)
	}
}

func (w *walker) VisitWhile(c *While) {
	if w.fn(c) {
		w.children(c.Body)
	}
}

func (w *walker) VisitEnable(c *Enable)   { w.fn(c) }
func (w *walker) VisitDisable(c *Disable) { w.fn(c) }
func (w *walker) VisitPrint(c *Print)     { w.fn(c) }
func (w *walker) VisitEmpty(c *Empty)     { w.fn(c) }

// EnabledGroups returns every group name mentioned by an Enable or Disable
// in c, in traversal order and without duplicates.
func EnabledGroups(c Control) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(groups []string) {
		for _, g := range groups {
			if !seen[g] {
				seen[g] = true
				names = append(names, g)
			}
		}
	}
	Walk(c, func(n Control) bool {
		switch n := n.(type) {
		case *Enable:
			add(n.Groups)
		case *Disable:
			add(n.Groups)
		}
		return true
	})
	return names
}

// ConditionPorts returns the condition ports of every If, Ifen and While in c.
func ConditionPorts(c Control) []*Port {
	var ports []*Port
	Walk(c, func(n Control) bool {
		switch n := n.(type) {
		case *If:
			ports = append(ports, n.Port)
		case *Ifen:
			ports = append(ports, n.Port)
		case *While:
			ports = append(ports, n.Port)
		}
		return true
	})
	return ports
}
