package passes

import (
	"fmt"
	"strings"

	"futil/internal/ast"
	"futil/internal/errors"
	"futil/internal/ir"
)

// DriveDone gives every group without a done driver one. A group that
// writes exactly one cell with a readable "done" port finishes when that
// cell does; a group that writes no such cell is done as soon as it starts.
// A group writing several such cells is ambiguous and reported.
type DriveDone struct{}

func (d *DriveDone) Name() string { return "drive-done" }

func (d *DriveDone) Description() string {
	return "Infers the done condition of groups that do not drive their done hole"
}

func (d *DriveDone) Apply(comp *ir.Component, diags *Diagnostics) bool {
	changed := false
	for _, g := range comp.Groups {
		if len(g.DoneDrivers()) > 0 {
			continue
		}

		candidates := doneCandidates(g)
		switch len(candidates) {
		case 0:
			g.AddAssignment(g.Done(), comp.Constant(1, 1).Ports[0], nil)
			changed = true
		case 1:
			g.AddAssignment(g.Done(), candidates[0], nil)
			changed = true
		default:
			names := make([]string, len(candidates))
			for i, p := range candidates {
				names[i] = p.String()
			}
			diags.Report(errors.NewError(errors.ErrorAmbiguousDone,
				fmt.Sprintf("cannot tell when group '%s' is done", g.Name), ast.Position{}).
				WithEntity("group", g.Name).
				WithNote("candidates: " + strings.Join(names, ", ")).
				WithHelp(fmt.Sprintf("assign %s explicitly", g.Done())).
				Build())
		}
	}
	return changed
}

// doneCandidates returns the readable done ports of the cells g writes, in
// the order the cells are first written.
func doneCandidates(g *ir.Group) []*ir.Port {
	seen := make(map[*ir.Cell]bool)
	var out []*ir.Port
	for _, a := range g.Assignments {
		cell, ok := a.Dst.Parent().Cell()
		if !ok || seen[cell] || cell.Prototype.Type == ir.ThisComponent {
			continue
		}
		seen[cell] = true
		if done, ok := cell.FindPort(ir.DoneHole); ok && done.Direction.CanDrive() {
			out = append(out, done)
		}
	}
	return out
}

// DoneCheck reports groups whose done hole is not driven exactly once.
type DoneCheck struct{}

func (d *DoneCheck) Name() string { return "done-check" }

func (d *DoneCheck) Description() string {
	return "Checks that every group drives its done hole exactly once"
}

func (d *DoneCheck) Apply(comp *ir.Component, diags *Diagnostics) bool {
	for _, g := range comp.Groups {
		switch n := len(g.DoneDrivers()); {
		case n == 0:
			diags.Report(errors.NewError(errors.ErrorMissingDone,
				fmt.Sprintf("group '%s' never drives %s", g.Name, g.Done()), ast.Position{}).
				WithEntity("group", g.Name).
				Build())
		case n > 1:
			diags.Report(errors.NewError(errors.ErrorMultipleDone,
				fmt.Sprintf("group '%s' drives %s %d times", g.Name, g.Done(), n), ast.Position{}).
				WithEntity("group", g.Name).
				Build())
		}
	}
	return false
}
