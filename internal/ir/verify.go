package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvariantError reports a broken ownership invariant. It always means a
// lowering or rewrite step corrupted the graph; compilation must stop.
type InvariantError struct {
	Component string
	Message   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("ir invariant violated in component %s: %s", e.Component, e.Message)
}

// Verify checks the ownership invariants of comp:
//   - names of cells, groups, ports and holes are unique in their scope
//   - every port's back-reference resolves to the cell or group that owns it
//   - every port used by an assignment, guard or control condition is owned
//     by a cell or group of comp; a nil condition is left to validation
//
// The returned error carries a stack trace and wraps an *InvariantError.
func Verify(comp *Component) error {
	v := &verifier{comp: comp, owned: make(map[*Port]bool)}
	v.run()
	if v.err != nil {
		return errors.WithStack(v.err)
	}
	return nil
}

type verifier struct {
	comp  *Component
	owned map[*Port]bool
	err   *InvariantError
}

func (v *verifier) fail(format string, args ...interface{}) {
	if v.err == nil {
		v.err = &InvariantError{Component: v.comp.Name, Message: fmt.Sprintf(format, args...)}
	}
}

func (v *verifier) run() {
	if v.comp.Signature == nil || v.comp.Signature.Prototype.Type != ThisComponent {
		v.fail("missing signature cell")
		return
	}
	v.checkCell(v.comp.Signature)

	cells := make(map[string]bool)
	for _, cell := range v.comp.Cells {
		if cells[cell.Name] || cell.Name == ThisCellName {
			v.fail("duplicate cell %s", cell.Name)
		}
		cells[cell.Name] = true
		v.checkCell(cell)
	}

	groups := make(map[string]bool)
	for _, g := range v.comp.Groups {
		if groups[g.Name] {
			v.fail("duplicate group %s", g.Name)
		}
		groups[g.Name] = true
		v.checkGroup(g)
	}

	for _, g := range v.comp.Groups {
		for _, a := range g.Assignments {
			v.checkUse(a.Dst, "destination in group "+g.Name)
			v.checkUse(a.Src, "source in group "+g.Name)
			if a.Guard != nil {
				for _, p := range a.Guard.Ports(nil) {
					v.checkUse(p, "guard in group "+g.Name)
				}
			}
		}
	}

	// A missing condition is malformed control, not an ownership breach
	for _, p := range ConditionPorts(v.comp.Control) {
		if p == nil {
			continue
		}
		v.checkUse(p, "control condition")
	}
}

func (v *verifier) checkCell(cell *Cell) {
	names := make(map[string]bool)
	for _, p := range cell.Ports {
		if names[p.Name] {
			v.fail("cell %s has two ports named %s", cell.Name, p.Name)
		}
		names[p.Name] = true
		if parent, ok := p.Parent().Cell(); !ok || parent != cell {
			v.fail("port %s is listed by cell %s but its back-reference disagrees", p.Name, cell.Name)
		}
		v.owned[p] = true
	}
}

func (v *verifier) checkGroup(g *Group) {
	names := make(map[string]bool)
	for _, h := range g.Holes {
		if names[h.Name] {
			v.fail("group %s has two holes named %s", g.Name, h.Name)
		}
		names[h.Name] = true
		if h.Direction != Inout {
			v.fail("hole %s[%s] has direction %s", g.Name, h.Name, h.Direction)
		}
		if parent, ok := h.Parent().Group(); !ok || parent != g {
			v.fail("hole %s is listed by group %s but its back-reference disagrees", h.Name, g.Name)
		}
		v.owned[h] = true
	}
}

func (v *verifier) checkUse(p *Port, role string) {
	if p == nil {
		v.fail("nil port used as %s", role)
		return
	}
	if !v.owned[p] {
		v.fail("%s refers to %s, which no cell or group of the component owns", role, p)
	}
}
