package grammar

import (
	"futil/internal/ast"
)

func convertNamespace(n *Namespace) *ast.Namespace {
	ns := &ast.Namespace{Pos: position(n.Pos), Name: n.Name}
	for _, c := range n.Components {
		ns.Components = append(ns.Components, convertComponent(c))
	}
	return ns
}

func convertComponent(c *Component) *ast.Component {
	comp := &ast.Component{
		Pos:     position(c.Pos),
		Name:    c.Name,
		Inputs:  convertPortdefs(c.Inputs),
		Outputs: convertPortdefs(c.Outputs),
		Control: convertStmts(c.Control),
	}
	for _, s := range c.Structure {
		comp.Structure = append(comp.Structure, convertStructure(s))
	}
	return comp
}

func convertPortdefs(defs []*Portdef) []*ast.Portdef {
	var out []*ast.Portdef
	for _, d := range defs {
		out = append(out, &ast.Portdef{Pos: position(d.Pos), Name: d.Name, Width: d.Width})
	}
	return out
}

func convertPort(p *PortRef) ast.Port {
	if p.Port == nil {
		return &ast.ThisPort{Pos: position(p.Pos), Port: p.Cell}
	}
	return &ast.CompPort{Pos: position(p.Pos), Component: p.Cell, Port: *p.Port}
}

func convertStructure(s *Structure) ast.Structure {
	if s.Wire != nil {
		return &ast.Wire{Pos: position(s.Wire.Pos), Src: convertPort(s.Wire.Src), Dest: convertPort(s.Wire.Dest)}
	}
	d := s.Cell
	if d.Params == nil {
		return &ast.Decl{Pos: position(d.Pos), Name: d.Name, Component: d.Proto}
	}
	return &ast.Std{
		Pos:      position(d.Pos),
		Name:     d.Name,
		Instance: ast.Compinst{Name: d.Proto, Params: d.Params.Values},
	}
}

// convertStmts turns a brace-delimited statement list into one control
// node: nothing is Empty, a single statement stands for itself, and
// anything longer is a Seq.
func convertStmts(stmts []*Control) ast.Control {
	switch len(stmts) {
	case 0:
		return &ast.Empty{}
	case 1:
		return convertControl(stmts[0])
	}
	seq := &ast.Seq{Pos: position(stmts[0].Pos)}
	for _, s := range stmts {
		seq.Stmts = append(seq.Stmts, convertControl(s))
	}
	return seq
}

func convertBlock(b *Block) ast.Control {
	if b == nil {
		return &ast.Empty{}
	}
	c := convertStmts(b.Stmts)
	if e, ok := c.(*ast.Empty); ok && !e.Pos.IsValid() {
		e.Pos = position(b.Pos)
	}
	return c
}

func convertList(stmts []*Control) []ast.Control {
	var out []ast.Control
	for _, s := range stmts {
		out = append(out, convertControl(s))
	}
	return out
}

func convertControl(c *Control) ast.Control {
	pos := position(c.Pos)
	switch {
	case c.Seq != nil:
		return &ast.Seq{Pos: pos, Stmts: convertList(c.Seq.Stmts)}
	case c.Par != nil:
		return &ast.Par{Pos: pos, Stmts: convertList(c.Par.Stmts)}
	case c.If != nil:
		return &ast.If{Pos: pos, Cond: convertPort(c.If.Cond), Tbranch: convertBlock(c.If.Then), Fbranch: convertBlock(c.If.Else)}
	case c.Ifen != nil:
		return &ast.Ifen{Pos: pos, Cond: convertPort(c.Ifen.Cond), Tbranch: convertBlock(c.Ifen.Then), Fbranch: convertBlock(c.Ifen.Else)}
	case c.While != nil:
		return &ast.While{Pos: pos, Cond: convertPort(c.While.Cond), Body: convertBlock(c.While.Body)}
	case c.Enable != nil:
		return &ast.Enable{Pos: pos, Comps: c.Enable.Names}
	case c.Disable != nil:
		return &ast.Disable{Pos: pos, Comps: c.Disable.Names}
	case c.Print != nil:
		return &ast.Print{Pos: pos, Var: c.Print.Var}
	}
	return &ast.Empty{Pos: pos}
}
