// Package grammar parses the textual FuTIL syntax into the surface AST.
package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"futil/internal/ast"
)

var parser = participle.MustBuild[File](
	participle.Lexer(FutilLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// SyntaxError is a parse failure with the position it was detected at.
type SyntaxError struct {
	Pos     ast.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ParseString parses a whole namespace. filename is only used for positions.
func ParseString(filename, source string) (*ast.Namespace, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		var pe participle.Error
		if errors.As(err, &pe) {
			return nil, &SyntaxError{Pos: position(pe.Position()), Message: pe.Message()}
		}
		return nil, errors.Wrap(err, "parse")
	}
	return convertNamespace(file.Namespace), nil
}

func ParseFile(path string) (*ast.Namespace, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return ParseString(path, string(source))
}

func position(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}
