package ir

import (
	"fmt"
	"strings"

	"futil/internal/ast"
	"futil/internal/errors"
	"futil/internal/primitives"
)

// Builder lowers a surface namespace into the IR graph.
type Builder struct {
	lib *primitives.Library

	// Signatures of every component in the namespace, for Decl lookups
	signatures map[string]*ast.Component

	// Component being lowered
	src  *ast.Component
	comp *Component

	diagnostics []errors.CompilerError
}

// NewBuilder creates a builder that instantiates primitives from lib.
func NewBuilder(lib *primitives.Library) *Builder {
	if lib == nil {
		lib = primitives.Default()
	}
	return &Builder{
		lib:        lib,
		signatures: make(map[string]*ast.Component),
	}
}

// Build lowers ns. The returned context is always non-nil; when the
// diagnostics contain errors it may be incomplete and should not be handed
// to later passes.
func (b *Builder) Build(ns *ast.Namespace) (*Context, []errors.CompilerError) {
	ctx := &Context{Name: ns.Name}
	b.signatures = make(map[string]*ast.Component)
	b.diagnostics = nil

	// First pass: collect signatures so instances may refer forward
	for _, c := range ns.Components {
		if _, dup := b.signatures[c.Name]; dup {
			b.report(errors.NewError(errors.ErrorDuplicateComponent,
				fmt.Sprintf("component '%s' is defined more than once", c.Name), c.Pos).
				WithEntity("component", c.Name).
				WithLength(len(c.Name)).
				Build())
			continue
		}
		b.signatures[c.Name] = c
	}

	// Second pass: lower each component
	for _, c := range ns.Components {
		if b.signatures[c.Name] != c {
			continue
		}
		ctx.Components = append(ctx.Components, b.buildComponent(c))
	}

	return ctx, b.diagnostics
}

func (b *Builder) report(err errors.CompilerError) {
	b.diagnostics = append(b.diagnostics, err)
}

func (b *Builder) buildComponent(src *ast.Component) *Component {
	b.src = src
	b.comp = NewComponent(src.Name)

	// Inputs are read inside the component, outputs are driven inside it
	b.addSignaturePorts(b.comp.Signature, src.Inputs, Output)
	b.addSignaturePorts(b.comp.Signature, src.Outputs, Input)

	// Cells before wires, so wires may refer to cells declared after them
	for _, s := range src.Structure {
		switch s := s.(type) {
		case *ast.Decl:
			b.buildDecl(s)
		case *ast.Std:
			b.buildStd(s)
		}
	}
	for _, s := range src.Structure {
		if w, ok := s.(*ast.Wire); ok {
			b.buildWire(w)
		}
	}

	if src.Control != nil {
		b.comp.Control = b.buildControl(src.Control)
	}
	return b.comp
}

func (b *Builder) addSignaturePorts(cell *Cell, defs []*ast.Portdef, dir Direction) {
	for _, pd := range defs {
		if _, dup := cell.FindPort(pd.Name); dup {
			b.report(errors.NewError(errors.ErrorDuplicateCell,
				fmt.Sprintf("port '%s' is declared more than once in the signature of '%s'", pd.Name, b.src.Name), pd.Pos).
				WithEntity("port", pd.Name).
				WithLength(len(pd.Name)).
				Build())
			continue
		}
		if pd.Width < 0 {
			b.report(errors.NewError(errors.ErrorInvalidWidth,
				fmt.Sprintf("port '%s' has negative width %d", pd.Name, pd.Width), pd.Pos).
				WithEntity("port", pd.Name).
				Build())
			continue
		}
		cell.AddPort(pd.Name, uint64(pd.Width), dir)
	}
}

// declareCell checks that name is available for a new cell.
func (b *Builder) declareCell(name string, pos ast.Position) bool {
	if name == ThisCellName || strings.HasPrefix(name, "_") {
		b.report(errors.NewError(errors.ErrorReservedName,
			fmt.Sprintf("cell name '%s' is reserved", name), pos).
			WithEntity("cell", name).
			WithLength(len(name)).
			WithHelp("'this' and names starting with '_' are used for the component signature and constants").
			Build())
		return false
	}
	if _, dup := b.comp.FindCell(name); dup {
		b.report(errors.NewError(errors.ErrorDuplicateCell,
			fmt.Sprintf("cell '%s' is declared more than once", name), pos).
			WithEntity("cell", name).
			WithLength(len(name)).
			Build())
		return false
	}
	return true
}

func (b *Builder) buildDecl(d *ast.Decl) {
	if !b.declareCell(d.Name, d.Pos) {
		return
	}
	if d.Component == b.src.Name {
		b.report(errors.NewError(errors.ErrorRecursiveInstance,
			fmt.Sprintf("component '%s' cannot instantiate itself", d.Component), d.Pos).
			WithEntity("cell", d.Name).
			Build())
		return
	}
	sig, ok := b.signatures[d.Component]
	if !ok {
		b.report(errors.NewError(errors.ErrorUndefinedComponent,
			fmt.Sprintf("cell '%s' instantiates undefined component '%s'", d.Name, d.Component), d.Pos).
			WithEntity("component", d.Component).
			Build())
		return
	}

	cell := NewCell(d.Name, Prototype{Type: ComponentCell, Name: d.Component})
	addInstancePorts(cell, sig.Inputs, Input)
	addInstancePorts(cell, sig.Outputs, Output)
	b.comp.AddCell(cell)
}

// addInstancePorts copies a signature onto an instance. Bad entries were
// already reported while lowering the instantiated component itself.
func addInstancePorts(cell *Cell, defs []*ast.Portdef, dir Direction) {
	for _, pd := range defs {
		if _, dup := cell.FindPort(pd.Name); dup || pd.Width < 0 {
			continue
		}
		cell.AddPort(pd.Name, uint64(pd.Width), dir)
	}
}

func (b *Builder) buildStd(s *ast.Std) {
	if !b.declareCell(s.Name, s.Pos) {
		return
	}
	prim, ok := b.lib.Lookup(s.Instance.Name)
	if !ok {
		b.report(errors.NewError(errors.ErrorUndefinedPrimitive,
			fmt.Sprintf("cell '%s' instantiates unknown primitive '%s'", s.Name, s.Instance.Name), s.Pos).
			WithEntity("primitive", s.Instance.Name).
			WithNote("available primitives: " + strings.Join(b.lib.Names(), ", ")).
			Build())
		return
	}
	ports, err := prim.Resolve(s.Instance.Params)
	if err != nil {
		b.report(errors.NewError(errors.ErrorInvalidParams, err.Error(), s.Pos).
			WithEntity("cell", s.Name).
			WithNote(fmt.Sprintf("%s(%s)", prim.Name, strings.Join(prim.Params, ", "))).
			Build())
		return
	}

	cell := NewCell(s.Name, Prototype{Type: PrimitiveCell, Name: prim.Name, Params: s.Instance.Params})
	for _, p := range ports {
		dir := Input
		if p.Direction == primitives.Output {
			dir = Output
		}
		cell.AddPort(p.Name, p.Width, dir)
	}
	b.comp.AddCell(cell)
}

// resolvePort finds the IR port a surface port refers to, reporting a
// diagnostic and returning nil on a miss.
func (b *Builder) resolvePort(p ast.Port) *Port {
	switch p := p.(type) {
	case *ast.ThisPort:
		port, ok := b.comp.Signature.FindPort(p.Port)
		if !ok {
			b.report(errors.UndefinedPort(b.src.Name, p.Port, p.Pos, b.comp.Signature.PortNames()))
			return nil
		}
		return port
	case *ast.CompPort:
		cell, ok := b.comp.FindCell(p.Component)
		if !ok {
			b.report(errors.UndefinedCell(p.Component, p.Pos, b.comp.CellNames()))
			return nil
		}
		port, ok := cell.FindPort(p.Port)
		if !ok {
			b.report(errors.UndefinedPort(p.Component, p.Port, p.Pos, cell.PortNames()))
			return nil
		}
		return port
	}
	return nil
}

// groupFor returns the synthesized group collecting every wire into dest.
func (b *Builder) groupFor(dest ast.Port) *Group {
	name := SignatureGroupName
	if cp, ok := dest.(*ast.CompPort); ok {
		name = cp.Component
	}
	if g, ok := b.comp.FindGroup(name); ok {
		return g
	}
	return b.comp.AddGroup(NewGroup(name))
}

func (b *Builder) buildWire(w *ast.Wire) {
	src := b.resolvePort(w.Src)
	dst := b.resolvePort(w.Dest)
	if src == nil || dst == nil {
		return
	}

	if !src.Direction.CanDrive() {
		b.report(errors.DirectionMismatch(src.String(), "source", src.Direction.String(), w.Src.NodePos()))
		return
	}
	if !dst.Direction.CanBeDriven() {
		b.report(errors.DirectionMismatch(dst.String(), "destination", dst.Direction.String(), w.Dest.NodePos()))
		return
	}
	if src.Width != dst.Width {
		b.report(errors.NewWarning(errors.WarningWidthMismatch,
			fmt.Sprintf("%s is %d bits wide but drives %s, which is %d bits wide", src, src.Width, dst, dst.Width), w.Pos).
			WithEntity("port", dst.String()).
			Build())
	}

	b.groupFor(w.Dest).AddAssignment(dst, src, nil)
}

func (b *Builder) buildCondition(cond ast.Port) *Port {
	port := b.resolvePort(cond)
	if port != nil && !port.Direction.CanDrive() {
		b.report(errors.NewError(errors.ErrorInvalidCondition,
			fmt.Sprintf("condition %s is an %s port and cannot be read", port, port.Direction), cond.NodePos()).
			WithEntity("port", port.String()).
			Build())
	}
	return port
}

func (b *Builder) buildControl(c ast.Control) Control {
	switch c := c.(type) {
	case *ast.Seq:
		return &Seq{Stmts: b.buildControls(c.Stmts)}
	case *ast.Par:
		return &Par{Stmts: b.buildControls(c.Stmts)}
	case *ast.If:
		return &If{Port: b.buildCondition(c.Cond), Tbranch: b.buildBranch(c.Tbranch), Fbranch: b.buildBranch(c.Fbranch)}
	case *ast.Ifen:
		return &Ifen{Port: b.buildCondition(c.Cond), Tbranch: b.buildBranch(c.Tbranch), Fbranch: b.buildBranch(c.Fbranch)}
	case *ast.While:
		return &While{Port: b.buildCondition(c.Cond), Body: b.buildBranch(c.Body)}
	case *ast.Enable:
		return &Enable{Groups: append([]string(nil), c.Comps...)}
	case *ast.Disable:
		return &Disable{Groups: append([]string(nil), c.Comps...)}
	case *ast.Print:
		return &Print{Var: c.Var}
	case *ast.Empty:
		return &Empty{}
	}
	panic(fmt.Sprintf("ir: unhandled control node %T", c))
}

func (b *Builder) buildControls(stmts []ast.Control) []Control {
	out := make([]Control, len(stmts))
	for i, s := range stmts {
		out[i] = b.buildControl(s)
	}
	return out
}

// buildBranch lowers an optional branch; a missing branch becomes Empty.
func (b *Builder) buildBranch(c ast.Control) Control {
	if c == nil {
		return &Empty{}
	}
	return b.buildControl(c)
}
