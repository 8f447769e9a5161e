package ir

import "fmt"

// Guard is a boolean expression over ports. The set of implementations is
// closed; a nil Guard means "always true".
type Guard interface {
	String() string
	// Eval evaluates the guard given the current value of every port.
	Eval(value func(*Port) uint64) bool
	// Ports appends every port the guard reads to dst.
	Ports(dst []*Port) []*Port
	guard()
}

// CompOp is a comparison operator between two ports.
type CompOp string

const (
	Eq  CompOp = "=="
	Neq CompOp = "!="
	Lt  CompOp = "<"
	Gt  CompOp = ">"
	Leq CompOp = "<="
	Geq CompOp = ">="
)

// TrueGuard always holds. It exists so rewrites can spell "true" explicitly.
type TrueGuard struct{}

// PortGuard holds when the port's value is non-zero.
type PortGuard struct{ Port *Port }

type NotGuard struct{ Inner Guard }

type AndGuard struct{ Left, Right Guard }

type OrGuard struct{ Left, Right Guard }

// CompGuard compares the values of two ports.
type CompGuard struct {
	Op          CompOp
	Left, Right *Port
}

func (TrueGuard) guard() {}
func (PortGuard) guard() {}
func (NotGuard) guard()  {}
func (AndGuard) guard()  {}
func (OrGuard) guard()   {}
func (CompGuard) guard() {}

func (TrueGuard) String() string   { return "1'd1" }
func (g PortGuard) String() string { return g.Port.String() }
func (g NotGuard) String() string  { return "!" + wrap(g.Inner) }
func (g AndGuard) String() string  { return wrap(g.Left) + " & " + wrap(g.Right) }
func (g OrGuard) String() string   { return wrap(g.Left) + " | " + wrap(g.Right) }
func (g CompGuard) String() string { return fmt.Sprintf("%s %s %s", g.Left, g.Op, g.Right) }

func wrap(g Guard) string {
	switch g.(type) {
	case AndGuard, OrGuard, CompGuard:
		return "(" + g.String() + ")"
	}
	return g.String()
}

func (TrueGuard) Eval(func(*Port) uint64) bool     { return true }
func (g PortGuard) Eval(v func(*Port) uint64) bool { return v(g.Port) != 0 }
func (g NotGuard) Eval(v func(*Port) uint64) bool  { return !g.Inner.Eval(v) }
func (g AndGuard) Eval(v func(*Port) uint64) bool  { return g.Left.Eval(v) && g.Right.Eval(v) }
func (g OrGuard) Eval(v func(*Port) uint64) bool   { return g.Left.Eval(v) || g.Right.Eval(v) }

func (g CompGuard) Eval(v func(*Port) uint64) bool {
	l, r := v(g.Left), v(g.Right)
	switch g.Op {
	case Eq:
		return l == r
	case Neq:
		return l != r
	case Lt:
		return l < r
	case Gt:
		return l > r
	case Leq:
		return l <= r
	case Geq:
		return l >= r
	}
	panic(fmt.Sprintf("ir: unknown comparison %q", g.Op))
}

func (TrueGuard) Ports(dst []*Port) []*Port   { return dst }
func (g PortGuard) Ports(dst []*Port) []*Port { return append(dst, g.Port) }
func (g NotGuard) Ports(dst []*Port) []*Port  { return g.Inner.Ports(dst) }
func (g AndGuard) Ports(dst []*Port) []*Port  { return g.Right.Ports(g.Left.Ports(dst)) }
func (g OrGuard) Ports(dst []*Port) []*Port   { return g.Right.Ports(g.Left.Ports(dst)) }
func (g CompGuard) Ports(dst []*Port) []*Port { return append(dst, g.Left, g.Right) }

// And conjoins two guards, treating nil as true.
func And(a, b Guard) Guard {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return AndGuard{Left: a, Right: b}
}

// Or disjoins two guards. nil is true, so an Or with nil is nil.
func Or(a, b Guard) Guard {
	if a == nil || b == nil {
		return nil
	}
	return OrGuard{Left: a, Right: b}
}

// Not negates g. The negation of "always true" is an explicit Not(TrueGuard).
func Not(g Guard) Guard {
	if g == nil {
		return NotGuard{Inner: TrueGuard{}}
	}
	if n, ok := g.(NotGuard); ok {
		return n.Inner
	}
	return NotGuard{Inner: g}
}

// GuardString renders a possibly-nil guard.
func GuardString(g Guard) string {
	if g == nil {
		return "1'd1"
	}
	return g.String()
}

// EvalGuard evaluates a possibly-nil guard.
func EvalGuard(g Guard, value func(*Port) uint64) bool {
	return g == nil || g.Eval(value)
}
