package lsp_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"futil/internal/compiler"
	"futil/internal/lsp"
)

const docURI = "file:///tmp/doc.futil"

const validDoc = `namespace doc {
  component main(go: 1) -> (done: 1) {
    structure {
      cell r = std_reg(8);
      cell k = std_const(8, 5);
      k.out -> r.in;
      r.done -> done;
    }
    control {
      enable r;
    }
  }
}`

const brokenDoc = `namespace doc {
  component main(go: 1) -> (done: 1) {
    structure {
      cell r = std_reg(8);
      ghost.out -> r.in;
    }
    control {
      enable r;
    }
  }
}`

// recorder captures the notifications the handler sends
type recorder struct {
	published []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				r.published = append(r.published, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func (r *recorder) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()
	require.NotEmpty(t, r.published)
	return r.published[len(r.published)-1]
}

func open(t *testing.T, h *lsp.FutilHandler, ctx *glsp.Context, text string) {
	t.Helper()
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: docURI, LanguageID: "futil", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	h := lsp.NewFutilHandler(compiler.Options{})
	rec := &recorder{}
	open(t, h, rec.context(), brokenDoc)

	params := rec.last(t)
	assert.Equal(t, docURI, params.URI)
	require.Len(t, params.Diagnostics, 1)

	d := params.Diagnostics[0]
	assert.Equal(t, "E0101", d.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "futil", *d.Source)
	assert.Equal(t, protocol.UInteger(4), d.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(6), d.Range.Start.Character)
	assert.Contains(t, d.Message, "ghost")
}

func TestDidChangeRecompiles(t *testing.T) {
	h := lsp.NewFutilHandler(compiler.Options{})
	rec := &recorder{}
	ctx := rec.context()
	open(t, h, ctx, brokenDoc)

	err := h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: validDoc}},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Diagnostics)
}

func TestDidChangeWithRange(t *testing.T) {
	h := lsp.NewFutilHandler(compiler.Options{})
	rec := &recorder{}
	ctx := rec.context()
	open(t, h, ctx, brokenDoc)

	// Replace "ghost" on line 5 with "r"
	params := &protocol.DidChangeTextDocumentParams{
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 4, Character: 6},
				End:   protocol.Position{Line: 4, Character: 11},
			},
			Text: "r",
		}},
	}
	params.TextDocument.URI = docURI
	require.NoError(t, h.TextDocumentDidChange(ctx, params))

	diags := rec.last(t).Diagnostics
	for _, d := range diags {
		assert.NotEqual(t, "E0101", d.Code.Value, d.Message)
	}
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	h := lsp.NewFutilHandler(compiler.Options{})
	rec := &recorder{}
	ctx := rec.context()
	open(t, h, ctx, brokenDoc)

	err := h.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	})
	require.NoError(t, err)
	assert.Len(t, rec.published, 2)
	assert.Empty(t, rec.last(t).Diagnostics)
}

func TestAnalyzeWarnings(t *testing.T) {
	h := lsp.NewFutilHandler(compiler.Options{})
	diags, err := h.Analyze(docURI, `namespace doc {
  component main() -> () {
    structure { cell r = std_reg(8); cell k = std_const(8, 5); k.out -> r.in; }
    control { empty; }
  }
}`)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "W0003", diags[0].Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *diags[0].Severity)
	assert.Equal(t, protocol.Range{}, diags[0].Range)
}

func TestCompletion(t *testing.T) {
	h := lsp.NewFutilHandler(compiler.Options{})
	rec := &recorder{}
	open(t, h, rec.context(), validDoc)

	result, err := h.TextDocumentCompletion(rec.context(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		},
	})
	require.NoError(t, err)

	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)

	details := make(map[string]string)
	for _, item := range list.Items {
		details[item.Label] = *item.Detail
	}
	assert.Equal(t, "keyword", details["ifen"])
	assert.Equal(t, "component", details["main"])
	assert.Equal(t, "std_reg(8)", details["r"])
	assert.Equal(t, "std_const(8, 5)", details["k"])
	assert.NotContains(t, details, "_1_1")
	assert.NotContains(t, details, "this")
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	handler := lsp.NewFutilHandler(compiler.Options{})

	absPath, err := filepath.Abs(filepath.Join("../../examples", "counter.futil"))
	require.NoError(t, err, "Failed to get absolute path")

	uri := "file://" + filepath.ToSlash(absPath)

	ctx := &glsp.Context{}
	params := &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{
			URI: uri,
		},
	}

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, params)
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.Greater(t, len(decoded), 18)

	assertToken(t, &decoded[0], 1, 1, 31, "comment", nil)
	assertToken(t, &decoded[1], 2, 1, 9, "keyword", nil)
	assertToken(t, &decoded[2], 2, 11, 7, "namespace", []string{"declaration"})
	assertToken(t, &decoded[3], 3, 3, 9, "keyword", nil)
	assertToken(t, &decoded[4], 3, 13, 4, "class", []string{"declaration"})
	assertToken(t, &decoded[5], 3, 18, 2, "property", []string{"declaration"})
	assertToken(t, &decoded[6], 3, 22, 1, "number", nil)
	assertToken(t, &decoded[7], 3, 25, 2, "operator", nil)
	assertToken(t, &decoded[8], 3, 29, 4, "property", []string{"declaration"})
	assertToken(t, &decoded[9], 3, 35, 1, "number", nil)
	assertToken(t, &decoded[10], 4, 5, 9, "keyword", nil)
	assertToken(t, &decoded[11], 5, 7, 4, "keyword", nil)
	assertToken(t, &decoded[12], 5, 12, 1, "variable", []string{"declaration"})
	assertToken(t, &decoded[13], 5, 16, 7, "type", []string{"defaultLibrary"})
	assertToken(t, &decoded[14], 5, 24, 2, "number", nil)

	line20 := onLine(decoded, 20)
	require.Len(t, line20, 2)
	assertToken(t, &line20[0], 20, 9, 6, "keyword", nil)
	assertToken(t, &line20[1], 20, 16, 2, "event", nil)

	line21 := onLine(decoded, 21)
	require.Len(t, line21, 3)
	assertToken(t, &line21[0], 21, 9, 5, "keyword", nil)
	assertToken(t, &line21[1], 21, 15, 2, "variable", nil)
	assertToken(t, &line21[2], 21, 18, 3, "property", nil)
}

func TestSemanticTokensPreferOpenDocument(t *testing.T) {
	h := lsp.NewFutilHandler(compiler.Options{})
	rec := &recorder{}
	open(t, h, rec.context(), "namespace doc {}")

	tokens, err := h.TextDocumentSemanticTokensFull(rec.context(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	})
	require.NoError(t, err)
	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assertToken(t, &decoded[1], 1, 11, 3, "namespace", []string{"declaration"})
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func onLine(tokens []DecodedToken, line uint32) []DecodedToken {
	var out []DecodedToken
	for _, tok := range tokens {
		if tok.Line == line {
			out = append(out, tok)
		}
	}
	return out
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
