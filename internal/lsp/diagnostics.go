package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"futil/internal/errors"
)

const diagnosticSource = "futil"

// ConvertDiagnostics transforms compiler diagnostics into LSP diagnostics.
// Diagnostics without a source position (those raised on the IR by passes)
// are anchored at the start of the document.
func ConvertDiagnostics(errs []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs))

	for _, e := range errs {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    diagnosticRange(e),
			Severity: ptrSeverity(severity(e.Level)),
			Code:     &protocol.IntegerOrString{Value: e.Code},
			Source:   ptrString(diagnosticSource),
			Message:  diagnosticMessage(e),
		})
	}

	return diagnostics
}

func diagnosticRange(e errors.CompilerError) protocol.Range {
	if !e.Position.IsValid() {
		return protocol.Range{}
	}

	line := uint32(e.Position.Line - 1)     // Convert to 0-based indexing
	start := uint32(e.Position.Column - 1) // Convert to 0-based indexing
	length := uint32(max(e.Length, 1))

	return protocol.Range{
		Start: protocol.Position{Line: line, Character: start},
		End:   protocol.Position{Line: line, Character: start + length},
	}
}

func diagnosticMessage(e errors.CompilerError) string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, note := range e.Notes {
		sb.WriteString("\nnote: ")
		sb.WriteString(note)
	}
	if e.HelpText != "" {
		sb.WriteString("\nhelp: ")
		sb.WriteString(e.HelpText)
	}
	return sb.String()
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	}
	return protocol.DiagnosticSeverityError
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
