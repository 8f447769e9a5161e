package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"futil/internal/compiler"
	"futil/internal/ir"
)

var log = commonlog.GetLogger("futil.lsp")

// SemanticTokenTypes is the legend advertised to the client
var SemanticTokenTypes = []string{
	"namespace",
	"class",
	"type",
	"variable",
	"property",
	"event",
	"keyword",
	"number",
	"operator",
	"comment",
}

// SemanticTokenModifiers is the modifier legend advertised to the client
var SemanticTokenModifiers = []string{
	"declaration",
	"defaultLibrary",
}

// FutilHandler implements the LSP server handlers for FuTIL sources
type FutilHandler struct {
	mu      sync.RWMutex
	opts    compiler.Options
	content map[string]string
	results map[string]*compiler.Result
}

// NewFutilHandler creates a handler that compiles documents with opts
func NewFutilHandler(opts compiler.Options) *FutilHandler {
	return &FutilHandler{
		opts:    opts,
		content: make(map[string]string),
		results: make(map[string]*compiler.Result),
	}
}

// Initialize advertises the server's capabilities
func (h *FutilHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *FutilHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *FutilHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *FutilHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen compiles the opened document and publishes its diagnostics
func (h *FutilHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange applies the edits and recompiles the document
func (h *FutilHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	h.mu.RLock()
	text := h.content[uri]
	h.mu.RUnlock()

	for _, change := range params.ContentChanges {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = change.Text
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				text = change.Text
			} else {
				text = applyEdit(text, *change.Range, change.Text)
			}
		}
	}
	return h.update(ctx, uri, text)
}

// TextDocumentDidClose forgets the document and clears its diagnostics
func (h *FutilHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Infof("closed %s", uri)

	h.mu.Lock()
	delete(h.content, uri)
	delete(h.results, uri)
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, []protocol.Diagnostic{})
	return nil
}

// TextDocumentCompletion offers keywords plus the components, cells and
// groups of the last document version that lowered
func (h *FutilHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	h.mu.RLock()
	res := h.results[params.TextDocument.URI]
	h.mu.RUnlock()

	items := keywordItems()
	if res != nil && res.Context != nil {
		items = append(items, contextItems(res)...)
	}
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// TextDocumentSemanticTokensFull classifies every token of the document.
// Documents that are not open are read from disk.
func (h *FutilHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI

	h.mu.RLock()
	text, ok := h.content[uri]
	h.mu.RUnlock()

	if !ok {
		path, err := uriToPath(uri)
		if err != nil {
			return nil, err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		text = string(source)
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(collectSemanticTokens(uri, text)),
	}, nil
}

// Analyze compiles text and converts the result into LSP diagnostics. The
// result is kept for completion when lowering got far enough to produce IR.
func (h *FutilHandler) Analyze(uri, text string) ([]protocol.Diagnostic, error) {
	filename := uri
	if path, err := uriToPath(uri); err == nil {
		filename = path
	}

	res, err := compiler.Compile(filename, text, h.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", uri, err)
	}

	h.mu.Lock()
	h.content[uri] = text
	if res.Context != nil {
		h.results[uri] = res
	}
	h.mu.Unlock()

	return ConvertDiagnostics(res.Diagnostics), nil
}

func (h *FutilHandler) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	diagnostics, err := h.Analyze(uri, text)
	if err != nil {
		return err
	}
	sendDiagnosticNotification(ctx, uri, diagnostics)
	return nil
}

func keywordItems() []protocol.CompletionItem {
	names := make([]string, 0, len(keywords))
	for k := range keywords {
		names = append(names, k)
	}
	sort.Strings(names)

	items := make([]protocol.CompletionItem, len(names))
	for i, name := range names {
		items[i] = completionItem(name, protocol.CompletionItemKindKeyword, "keyword")
	}
	return items
}

func contextItems(res *compiler.Result) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	seen := make(map[string]bool)
	add := func(label string, kind protocol.CompletionItemKind, detail string) {
		if seen[label] {
			return
		}
		seen[label] = true
		items = append(items, completionItem(label, kind, detail))
	}

	for _, comp := range res.Context.Components {
		add(comp.Name, protocol.CompletionItemKindClass, "component")
	}
	for _, comp := range res.Context.Components {
		for _, cell := range comp.Cells {
			if !cell.IsConstant() {
				add(cell.Name, protocol.CompletionItemKindVariable, cell.Prototype.String())
			}
		}
		for _, g := range comp.Groups {
			if g.Name == ir.SignatureGroupName {
				continue
			}
			add(g.Name, protocol.CompletionItemKindEvent, "group in "+comp.Name)
		}
	}
	return items
}

func completionItem(label string, kind protocol.CompletionItemKind, detail string) protocol.CompletionItem {
	return protocol.CompletionItem{
		Label:  label,
		Kind:   &kind,
		Detail: &detail,
	}
}

// applyEdit replaces the text covered by r. Positions are line and
// character offsets, both 0-based.
func applyEdit(text string, r protocol.Range, newText string) string {
	start := offsetOf(text, r.Start)
	end := offsetOf(text, r.End)
	if end < start {
		start, end = end, start
	}
	return text[:start] + newText + text[end:]
}

func offsetOf(text string, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}
	lineEnd := strings.IndexByte(text[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - offset
	}
	return offset + min(int(pos.Character), lineEnd)
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
