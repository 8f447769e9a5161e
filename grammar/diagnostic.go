package grammar

import (
	"futil/internal/errors"
)

// Diagnostic converts the syntax error into a compiler diagnostic.
func (e *SyntaxError) Diagnostic() errors.CompilerError {
	return errors.NewError(errors.ErrorSyntax, e.Message, e.Pos).Build()
}
