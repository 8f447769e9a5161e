package passes

import (
	"futil/internal/ir"
)

// DesugarEnable rewrites bulk enables into single-group enables:
// enable a, b becomes par { a; b; } and an enable with no names becomes
// empty. Group names and Disable nodes are left as they are.
type DesugarEnable struct{}

func (d *DesugarEnable) Name() string { return "desugar-enable" }

func (d *DesugarEnable) Description() string {
	return "Rewrites multi-group enables into a par of single-group enables"
}

func (d *DesugarEnable) Apply(comp *ir.Component, _ *Diagnostics) bool {
	r := &desugarer{}
	comp.Control = r.rewrite(comp.Control)
	return r.changed
}

type desugarer struct {
	out     ir.Control
	changed bool
}

func (d *desugarer) rewrite(c ir.Control) ir.Control {
	if c == nil {
		return nil
	}
	c.Accept(d)
	return d.out
}

func (d *desugarer) rewriteAll(stmts []ir.Control) {
	for i, s := range stmts {
		stmts[i] = d.rewrite(s)
	}
}

func (d *desugarer) VisitSeq(c *ir.Seq) {
	d.rewriteAll(c.Stmts)
	d.out = c
}

func (d *desugarer) VisitPar(c *ir.Par) {
	d.rewriteAll(c.Stmts)
	d.out = c
}

func (d *desugarer) VisitIf(c *ir.If) {
	c.Tbranch = d.rewrite(c.Tbranch)
	c.Fbranch = d.rewrite(c.Fbranch)
	d.out = c
}

func (d *desugarer) VisitIfen(c *ir.Ifen) {
	c.Tbranch = d.rewrite(c.Tbranch)
	c.Fbranch = d.rewrite(c.Fbranch)
	d.out = c
}

func (d *desugarer) VisitWhile(c *ir.While) {
	c.Body = d.rewrite(c.Body)
	d.out = c
}

func (d *desugarer) VisitEnable(c *ir.Enable) {
	switch len(c.Groups) {
	case 0:
		d.changed = true
		d.out = &ir.Empty{}
	case 1:
		d.out = c
	default:
		d.changed = true
		par := &ir.Par{Stmts: make([]ir.Control, len(c.Groups))}
		for i, g := range c.Groups {
			par.Stmts[i] = &ir.Enable{Groups: []string{g}}
		}
		d.out = par
	}
}

func (d *desugarer) VisitDisable(c *ir.Disable) { d.out = c }
func (d *desugarer) VisitPrint(c *ir.Print)     { d.out = c }
func (d *desugarer) VisitEmpty(c *ir.Empty)     { d.out = c }
