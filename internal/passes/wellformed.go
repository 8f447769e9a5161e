package passes

import (
	"fmt"

	"futil/internal/ast"
	"futil/internal/errors"
	"futil/internal/ir"
)

// WellFormed checks the control program against the component's groups:
// every enabled or disabled name must be a group and every condition must
// be a readable port. It also warns about a disable directly under a par,
// whose interaction with its siblings is left undefined, and about groups
// that nothing schedules.
type WellFormed struct{}

func (w *WellFormed) Name() string { return "well-formed" }

func (w *WellFormed) Description() string {
	return "Reports control statements that name missing groups or unreadable conditions"
}

func (w *WellFormed) Apply(comp *ir.Component, diags *Diagnostics) bool {
	c := &wellFormedChecker{comp: comp, diags: diags, reported: make(map[string]bool)}
	if comp.Control != nil {
		comp.Control.Accept(c)
	}

	used := make(map[string]bool)
	for _, name := range ir.EnabledGroups(comp.Control) {
		used[name] = true
	}
	for _, g := range comp.Groups {
		// The signature group drives the outputs continuously
		if used[g.Name] || g.Name == ir.SignatureGroupName {
			continue
		}
		diags.Report(errors.NewWarning(errors.WarningUnusedGroup,
			fmt.Sprintf("group '%s' is never enabled", g.Name), ast.Position{}).
			WithEntity("group", g.Name).
			Build())
	}
	return false
}

type wellFormedChecker struct {
	comp     *ir.Component
	diags    *Diagnostics
	reported map[string]bool
	inPar    int
}

func (c *wellFormedChecker) groups(names []string) {
	for _, name := range names {
		if c.reported[name] {
			continue
		}
		if name == ir.SignatureGroupName {
			c.reported[name] = true
			c.diags.Report(errors.NewError(errors.ErrorUndefinedGroup,
				fmt.Sprintf("'%s' wires the component signature and cannot be scheduled", name), ast.Position{}).
				WithEntity("group", name).
				Build())
			continue
		}
		if _, ok := c.comp.FindGroup(name); ok {
			continue
		}
		c.reported[name] = true
		c.diags.Report(errors.UndefinedGroup(name, ast.Position{}))
	}
}

func (c *wellFormedChecker) condition(kind string, port *ir.Port) {
	if port == nil {
		c.diags.Report(errors.NewError(errors.ErrorInvalidCondition,
			fmt.Sprintf("%s has no condition port", kind), ast.Position{}).
			WithEntity("component", c.comp.Name).
			Build())
		return
	}
	if !port.Direction.CanDrive() {
		c.diags.Report(errors.NewError(errors.ErrorInvalidCondition,
			fmt.Sprintf("%s condition %s is an %s port and cannot be read", kind, port, port.Direction), ast.Position{}).
			WithEntity("port", port.String()).
			Build())
	}
}

func (c *wellFormedChecker) visit(stmts ...ir.Control) {
	for _, s := range stmts {
		if s != nil {
			s.Accept(c)
		}
	}
}

func (c *wellFormedChecker) VisitSeq(n *ir.Seq) {
	// A seq child of a par runs on its own schedule, not the par's
	saved := c.inPar
	c.inPar = 0
	c.visit(n.Stmts...)
	c.inPar = saved
}

func (c *wellFormedChecker) VisitPar(n *ir.Par) {
	c.inPar++
	c.visit(n.Stmts...)
	c.inPar--
}

func (c *wellFormedChecker) VisitIf(n *ir.If) {
	c.condition("if", n.Port)
	c.visit(n.Tbranch, n.Fbranch)
}

func (c *wellFormedChecker) VisitIfen(n *ir.Ifen) {
	c.condition("ifen", n.Port)
	c.visit(n.Tbranch, n.Fbranch)
}

func (c *wellFormedChecker) VisitWhile(n *ir.While) {
	c.condition("while", n.Port)
	c.visit(n.Body)
}

func (c *wellFormedChecker) VisitEnable(n *ir.Enable) { c.groups(n.Groups) }

func (c *wellFormedChecker) VisitDisable(n *ir.Disable) {
	c.groups(n.Groups)
	if c.inPar > 0 {
		c.diags.Report(errors.NewWarning(errors.WarningDisableInPar,
			fmt.Sprintf("disable of %v inside par", n.Groups), ast.Position{}).
			WithEntity("component", c.comp.Name).
			WithNote("how a disable merges with the other branches of a par is not defined; it is kept as written").
			Build())
	}
}

func (c *wellFormedChecker) VisitPrint(*ir.Print) {}
func (c *wellFormedChecker) VisitEmpty(*ir.Empty) {}
