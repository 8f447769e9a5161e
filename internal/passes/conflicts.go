package passes

import (
	"fmt"

	"futil/internal/ast"
	"futil/internal/errors"
	"futil/internal/ir"
)

// ConflictingDrivers reports ports that one group may drive from two
// assignments at the same time. Guard satisfiability is not decided: two
// drivers conflict when either is unguarded or their guards are written
// identically. Nothing is resolved by picking one of them.
type ConflictingDrivers struct{}

func (c *ConflictingDrivers) Name() string { return "conflicting-drivers" }

func (c *ConflictingDrivers) Description() string {
	return "Reports destinations with more than one simultaneously active driver"
}

func (c *ConflictingDrivers) Apply(comp *ir.Component, diags *Diagnostics) bool {
	for _, g := range comp.Groups {
		byDst := make(map[*ir.Port][]*ir.Assignment)
		var order []*ir.Port
		for _, a := range g.Assignments {
			if _, seen := byDst[a.Dst]; !seen {
				order = append(order, a.Dst)
			}
			byDst[a.Dst] = append(byDst[a.Dst], a)
		}

		for _, dst := range order {
			if a, b, ok := firstOverlap(byDst[dst]); ok {
				diags.Report(errors.NewError(errors.ErrorConflictingDrivers,
					fmt.Sprintf("%s may be driven by two assignments at once in group '%s'", dst, g.Name), ast.Position{}).
					WithEntity("port", dst.String()).
					WithNote(a.String()).
					WithNote(b.String()).
					Build())
			}
		}
	}
	return false
}

func firstOverlap(as []*ir.Assignment) (*ir.Assignment, *ir.Assignment, bool) {
	for i := range as {
		for j := i + 1; j < len(as); j++ {
			if mayOverlap(as[i].Guard, as[j].Guard) {
				return as[i], as[j], true
			}
		}
	}
	return nil, nil, false
}

func mayOverlap(a, b ir.Guard) bool {
	if alwaysTrue(a) || alwaysTrue(b) {
		return true
	}
	return ir.GuardString(a) == ir.GuardString(b)
}

func alwaysTrue(g ir.Guard) bool {
	_, isTrue := g.(ir.TrueGuard)
	return g == nil || isTrue
}
