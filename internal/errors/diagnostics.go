package errors

import (
	"fmt"
	"strings"

	"futil/internal/ast"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics
type DiagnosticBuilder struct {
	err CompilerError
}

// NewError creates a new error builder
func NewError(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos ast.Position) *DiagnosticBuilder {
	b := NewError(code, message, pos)
	b.err.Level = Warning
	return b
}

// WithEntity records which entity the diagnostic is about
func (b *DiagnosticBuilder) WithEntity(kind, name string) *DiagnosticBuilder {
	b.err.Kind = kind
	b.err.Name = name
	return b
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// UndefinedCell reports a reference to a cell that is not declared.
func UndefinedCell(name string, pos ast.Position, known []string) CompilerError {
	b := NewError(ErrorUndefinedCell, fmt.Sprintf("undefined cell '%s'", name), pos).
		WithEntity("cell", name).
		WithLength(len(name))
	if len(known) > 0 {
		b = b.WithNote("declared cells: " + strings.Join(known, ", "))
	}
	return b.Build()
}

// UndefinedPort reports a port that does not exist on an existing cell.
func UndefinedPort(cell, port string, pos ast.Position, known []string) CompilerError {
	b := NewError(ErrorUndefinedPort, fmt.Sprintf("cell '%s' has no port '%s'", cell, port), pos).
		WithEntity("port", cell+"."+port).
		WithLength(len(cell) + 1 + len(port))
	if len(known) > 0 {
		b = b.WithNote(fmt.Sprintf("'%s' has ports: %s", cell, strings.Join(known, ", ")))
	}
	return b.Build()
}

// UndefinedGroup reports a control statement naming a group that does not exist.
func UndefinedGroup(name string, pos ast.Position) CompilerError {
	return NewError(ErrorUndefinedGroup, fmt.Sprintf("control program references undefined group '%s'", name), pos).
		WithEntity("group", name).
		WithLength(len(name)).
		WithHelp("groups are created for every cell driven by a wire; enable the driven cell's name").
		Build()
}

// DirectionMismatch reports an assignment endpoint with the wrong direction.
func DirectionMismatch(port, role, direction string, pos ast.Position) CompilerError {
	return NewError(ErrorDirectionMismatch,
		fmt.Sprintf("port '%s' is an %s port and cannot be used as a %s", port, direction, role), pos).
		WithEntity("port", port).
		Build()
}

// OwnershipViolation wraps an internal invariant failure as a diagnostic.
func OwnershipViolation(component string, cause error) CompilerError {
	return NewError(ErrorOwnershipViolation, cause.Error(), ast.Position{}).
		WithEntity("component", component).
		WithNote("this is a bug in a compiler pass, not in the input program").
		Build()
}
