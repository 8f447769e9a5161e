// Package passes holds the analyses and rewrites that run over the IR after
// lowering. Every pass works on one component at a time, and the pipeline
// re-checks the graph's ownership invariants after each one.
package passes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"futil/internal/errors"
	"futil/internal/ir"
)

var log = commonlog.GetLogger("futil.passes")

// Pass is a single analysis or rewrite over one component
type Pass interface {
	Name() string
	Description() string
	// Apply reports problems through diags and returns true if it changed comp.
	Apply(comp *ir.Component, diags *Diagnostics) bool
}

// Diagnostics collects what passes report
type Diagnostics struct {
	items []errors.CompilerError
}

func (d *Diagnostics) Report(err errors.CompilerError) {
	d.items = append(d.items, err)
}

func (d *Diagnostics) HasErrors() bool {
	return errors.HasErrors(d.items)
}

func (d *Diagnostics) All() []errors.CompilerError {
	return d.items
}

// Pipeline manages the sequence of passes
type Pipeline struct {
	passes []Pass
}

// NewPipeline creates a pipeline running passes in order
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// DefaultPipeline validates the control program, desugars bulk enables,
// infers done conditions and checks the result.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		&WellFormed{},
		&DesugarEnable{},
		&DriveDone{},
		&DoneCheck{},
		&ConflictingDrivers{},
	)
}

func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

func (p *Pipeline) Passes() []Pass {
	return p.passes
}

// Run executes every pass over every component of ctx. A component whose
// pass reports an error is not handed to the remaining passes. The error
// result is reserved for invariant violations, which end the run at once.
func (p *Pipeline) Run(ctx *ir.Context) ([]errors.CompilerError, error) {
	diags := &Diagnostics{}
	for _, comp := range ctx.Components {
		if err := p.runComponent(comp, diags); err != nil {
			return diags.All(), err
		}
	}
	return diags.All(), nil
}

func (p *Pipeline) runComponent(comp *ir.Component, diags *Diagnostics) error {
	if err := ir.Verify(comp); err != nil {
		diags.Report(errors.OwnershipViolation(comp.Name, err))
		return fmt.Errorf("component %s before any pass: %w", comp.Name, err)
	}

	for _, pass := range p.passes {
		local := &Diagnostics{}
		changed := pass.Apply(comp, local)
		log.Debugf("%s on %s: changed=%t diagnostics=%d", pass.Name(), comp.Name, changed, len(local.items))

		for _, d := range local.items {
			diags.Report(d)
		}

		if err := ir.Verify(comp); err != nil {
			log.Errorf("%s corrupted %s: %+v", pass.Name(), comp.Name, err)
			diags.Report(errors.OwnershipViolation(comp.Name, err))
			return fmt.Errorf("pass %s on component %s: %w", pass.Name(), comp.Name, err)
		}

		if local.HasErrors() {
			log.Infof("stopping %s after %s reported errors", comp.Name, pass.Name())
			return nil
		}
	}
	return nil
}

var registry = map[string]func() Pass{
	"well-formed":         func() Pass { return &WellFormed{} },
	"desugar-enable":      func() Pass { return &DesugarEnable{} },
	"drive-done":          func() Pass { return &DriveDone{} },
	"done-check":          func() Pass { return &DoneCheck{} },
	"conflicting-drivers": func() Pass { return &ConflictingDrivers{} },
	"dead-groups":         func() Pass { return &DeadGroupElimination{} },
}

// Lookup returns a fresh instance of the named pass.
func Lookup(name string) (Pass, bool) {
	ctor, ok := registry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Names lists every registered pass name.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParsePipeline builds a pipeline from a comma-separated list of pass
// names. "default" expands to DefaultPipeline's passes.
func ParsePipeline(list string) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		switch name {
		case "":
			continue
		case "default":
			for _, pass := range DefaultPipeline().Passes() {
				p.AddPass(pass)
			}
			continue
		}
		pass, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown pass %q (known passes: %s)", name, strings.Join(Names(), ", "))
		}
		p.AddPass(pass)
	}
	return p, nil
}
