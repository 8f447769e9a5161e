package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"futil/internal/ast"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
)

// CompilerError is a structured diagnostic. The compiler core only ever
// produces these values; rendering them is the ErrorReporter's job.
type CompilerError struct {
	Level    ErrorLevel
	Code     string       // Error code like E0101
	Kind     string       // Kind of IR or AST node involved, e.g. "cell", "group"
	Name     string       // Name of the offending entity
	Message  string       // Primary error message
	Position ast.Position // Location in source, zero when unknown
	Length   int          // Length of the problematic region
	Notes    []string
	HelpText string
}

func (e CompilerError) Error() string {
	if e.Position.IsValid() {
		return fmt.Sprintf("%s: %s[%s]: %s", e.Position, e.Level, e.Code, e.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Level, e.Code, e.Message)
}

// IsError reports whether the diagnostic should fail compilation.
func (e CompilerError) IsError() bool {
	return e.Level == Error
}

// HasErrors reports whether any diagnostic in errs is an error.
func HasErrors(errs []CompilerError) bool {
	for _, e := range errs {
		if e.IsError() {
			return true
		}
	}
	return false
}

// ErrorReporter renders diagnostics against the source they refer to
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError formats a compiler error with a caret under the offending span
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var out strings.Builder

	paint := levelColor(err.Level)
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if err.Code != "" {
		out.WriteString(fmt.Sprintf("%s[%s]: %s\n", paint(string(err.Level)), err.Code, err.Message))
	} else {
		out.WriteString(fmt.Sprintf("%s: %s\n", paint(string(err.Level)), err.Message))
	}

	gutter := lineNumberWidth(err.Position.Line)
	pad := strings.Repeat(" ", gutter)

	if !err.Position.IsValid() {
		if err.Kind != "" || err.Name != "" {
			out.WriteString(fmt.Sprintf("%s %s %s %s `%s`\n", pad, dim("-->"), er.filename, err.Kind, err.Name))
		}
	} else {
		out.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", pad, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
		out.WriteString(fmt.Sprintf("%s %s\n", pad, dim("│")))

		if line := err.Position.Line; line <= len(er.lines) {
			out.WriteString(fmt.Sprintf("%s %s %s\n",
				bold(fmt.Sprintf("%*d", gutter, line)), dim("│"), er.lines[line-1]))

			length := err.Length
			if length <= 0 {
				length = 1
			}
			marker := strings.Repeat(" ", max(0, err.Position.Column-1)) + paint(strings.Repeat("^", length))
			out.WriteString(fmt.Sprintf("%s %s %s\n", pad, dim("│"), marker))
		}
	}

	for _, note := range err.Notes {
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", pad, dim("│"), color.BlueString("note:"), note))
	}
	if err.HelpText != "" {
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", pad, dim("│"), color.GreenString("help:"), err.HelpText))
	}

	out.WriteString("\n")
	return out.String()
}

// FormatAll formats every diagnostic in order.
func (er *ErrorReporter) FormatAll(errs []CompilerError) string {
	var out strings.Builder
	for _, err := range errs {
		out.WriteString(er.FormatError(err))
	}
	return out.String()
}

func levelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}
