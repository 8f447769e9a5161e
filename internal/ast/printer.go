package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// indentBlock prefixes every line of s with two spaces.
func indentBlock(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func (n *Namespace) String() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("namespace %s {\n", n.Name))
	for _, c := range n.Components {
		b.WriteString(indentBlock(c.String()) + "\n")
	}
	b.WriteString("}")

	return b.String()
}

func (c *Component) String() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("component %s(%s) -> (%s) {\n",
		c.Name, portdefList(c.Inputs), portdefList(c.Outputs)))

	b.WriteString("  structure {\n")
	for _, s := range c.Structure {
		b.WriteString("    " + s.String() + "\n")
	}
	b.WriteString("  }\n")

	ctrl := c.Control
	if ctrl == nil {
		ctrl = &Empty{}
	}
	b.WriteString("  control {\n")
	b.WriteString(indentBlock(indentBlock(ctrl.String())) + "\n")
	b.WriteString("  }\n")
	b.WriteString("}")

	return b.String()
}

func portdefList(defs []*Portdef) string {
	parts := make([]string, len(defs))
	for i, d := range defs {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}

func (p *Portdef) String() string {
	return fmt.Sprintf("%s: %d", p.Name, p.Width)
}

func (p *CompPort) String() string {
	return p.Component + "." + p.Port
}

func (p *ThisPort) String() string {
	return p.Port
}

func (d *Decl) String() string {
	return fmt.Sprintf("cell %s = %s;", d.Name, d.Component)
}

func (s *Std) String() string {
	params := make([]string, len(s.Instance.Params))
	for i, p := range s.Instance.Params {
		params[i] = strconv.FormatInt(p, 10)
	}
	return fmt.Sprintf("cell %s = %s(%s);", s.Name, s.Instance.Name, strings.Join(params, ", "))
}

func (w *Wire) String() string {
	return fmt.Sprintf("%s -> %s;", w.Src, w.Dest)
}

func blockString(stmts []Control) string {
	if len(stmts) == 0 {
		return "{\n}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, s := range stmts {
		b.WriteString(indentBlock(s.String()) + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// bodyString prints a branch or loop body. A multi-statement Seq is written
// as a bare block, which is how the parser reads such a block back.
func bodyString(c Control) string {
	if s, ok := c.(*Seq); ok && len(s.Stmts) > 1 {
		return blockString(s.Stmts)
	}
	return blockString([]Control{c})
}

func (s *Seq) String() string {
	return "seq " + blockString(s.Stmts)
}

func (p *Par) String() string {
	return "par " + blockString(p.Stmts)
}

func branchString(keyword string, cond Port, t, f Control) string {
	out := fmt.Sprintf("%s %s %s", keyword, cond, bodyString(t))
	if _, empty := f.(*Empty); f != nil && !empty {
		out += " else " + bodyString(f)
	}
	return out
}

func (i *If) String() string {
	return branchString("if", i.Cond, i.Tbranch, i.Fbranch)
}

func (i *Ifen) String() string {
	return branchString("ifen", i.Cond, i.Tbranch, i.Fbranch)
}

func (w *While) String() string {
	return fmt.Sprintf("while %s %s", w.Cond, bodyString(w.Body))
}

func (p *Print) String() string {
	return fmt.Sprintf("print %s;", p.Var)
}

func (e *Enable) String() string {
	if len(e.Comps) == 0 {
		return "enable;"
	}
	return fmt.Sprintf("enable %s;", strings.Join(e.Comps, ", "))
}

func (d *Disable) String() string {
	if len(d.Comps) == 0 {
		return "disable;"
	}
	return fmt.Sprintf("disable %s;", strings.Join(d.Comps, ", "))
}

func (*Empty) String() string {
	return "empty;"
}
