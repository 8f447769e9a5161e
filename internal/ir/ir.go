// Package ir is the graph form of a FuTIL program that passes operate on.
//
// A Component strictly owns its cells and groups, and those strictly own
// their ports. Every other reference in the graph (assignment endpoints,
// guard operands, control conditions, a port's link to its parent) is
// non-owning. The port-to-parent link is a weak pointer, so dropping a
// group or cell from its component frees it even while stale ports still
// point back at it.
package ir

import (
	"futil/internal/ast"
	"futil/internal/errors"
	"futil/internal/primitives"
)

// BuildContext is the main entry point for lowering a namespace to IR.
func BuildContext(ns *ast.Namespace, lib *primitives.Library) (*Context, []errors.CompilerError) {
	return NewBuilder(lib).Build(ns)
}

// PrintContext returns a pretty-printed representation of the IR
func PrintContext(ctx *Context) string {
	return Print(ctx)
}
