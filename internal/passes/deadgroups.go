package passes

import (
	"futil/internal/ir"
)

// DeadGroupElimination removes groups the control program never names.
// The component's own group and any group whose holes are still read by
// another group are kept.
type DeadGroupElimination struct{}

func (d *DeadGroupElimination) Name() string { return "dead-groups" }

func (d *DeadGroupElimination) Description() string {
	return "Removes groups that are never enabled and whose holes nobody reads"
}

func (d *DeadGroupElimination) Apply(comp *ir.Component, _ *Diagnostics) bool {
	used := make(map[string]bool)
	for _, name := range ir.EnabledGroups(comp.Control) {
		used[name] = true
	}
	used[ir.SignatureGroupName] = true

	// Holes read from other groups keep their owner alive
	for _, g := range comp.Groups {
		for _, a := range g.Assignments {
			ports := []*ir.Port{a.Dst, a.Src}
			if a.Guard != nil {
				ports = a.Guard.Ports(ports)
			}
			for _, p := range ports {
				if owner, ok := p.Parent().Group(); ok && owner != g {
					used[owner.Name] = true
				}
			}
		}
	}

	for _, p := range ir.ConditionPorts(comp.Control) {
		if p == nil {
			continue
		}
		if owner, ok := p.Parent().Group(); ok {
			used[owner.Name] = true
		}
	}

	var dead []string
	for _, g := range comp.Groups {
		if !used[g.Name] {
			dead = append(dead, g.Name)
		}
	}
	for _, name := range dead {
		comp.RemoveGroup(name)
		log.Debugf("removed unused group %s from %s", name, comp.Name)
	}
	return len(dead) > 0
}
