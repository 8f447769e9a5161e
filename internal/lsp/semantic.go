package lsp

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"futil/grammar"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

var keywords = map[string]bool{
	"namespace": true, "component": true, "structure": true, "control": true, "cell": true,
	"seq": true, "par": true, "if": true, "ifen": true, "else": true, "while": true,
	"enable": true, "disable": true, "print": true, "empty": true,
}

// classifier walks the token stream once, remembering just enough context
// to tell declarations, cells, ports and group names apart.
type classifier struct {
	prev        string
	inSignature bool
	inCellDecl  bool
	inGroupList bool
}

func (c *classifier) ident(value, next string) (string, []string) {
	switch {
	case keywords[value] && c.prev != ".":
		return "keyword", nil
	case c.prev == "namespace":
		return "namespace", []string{"declaration"}
	case c.prev == "component":
		return "class", []string{"declaration"}
	case c.prev == "cell":
		return "variable", []string{"declaration"}
	case c.inCellDecl && c.prev == "=":
		if strings.HasPrefix(value, "std_") {
			return "type", []string{"defaultLibrary"}
		}
		return "class", nil
	case c.inSignature && next == ":":
		return "property", []string{"declaration"}
	case c.inGroupList:
		return "event", nil
	case c.prev == "print", next == ".":
		return "variable", nil
	}
	return "property", nil
}

func (c *classifier) advance(value string) {
	switch value {
	case "component":
		c.inSignature = true
	case "{":
		c.inSignature = false
	case "cell":
		c.inCellDecl = true
	case "enable", "disable":
		c.inGroupList = true
	case ";":
		c.inCellDecl = false
		c.inGroupList = false
	}
	c.prev = value
}

// collectSemanticTokens lexes source and classifies every token. Lexing
// stops at the first character the lexer rejects; the tokens before it are
// still returned.
func collectSemanticTokens(filename, source string) []SemanticToken {
	lex, err := grammar.FutilLexer.LexString(filename, source)
	if err != nil {
		return nil
	}

	symbols := grammar.FutilLexer.Symbols()
	skip := map[lexer.TokenType]bool{symbols["Whitespace"]: true}

	var toks []lexer.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			log.Debugf("semantic tokens for %s stop early: %s", filename, err)
			break
		}
		if tok.EOF() {
			break
		}
		if !skip[tok.Type] {
			toks = append(toks, tok)
		}
	}

	var (
		tokens []SemanticToken
		c      classifier
	)
	for i, tok := range toks {
		var kind string
		var mods []string
		switch tok.Type {
		case symbols["Comment"]:
			kind = "comment"
		case symbols["Integer"]:
			kind = "number"
		case symbols["Arrow"]:
			kind = "operator"
		case symbols["Ident"]:
			next := ""
			if i+1 < len(toks) {
				next = toks[i+1].Value
			}
			kind, mods = c.ident(tok.Value, next)
		}
		if tok.Type != symbols["Comment"] {
			c.advance(tok.Value)
		}
		if kind != "" {
			tokens = append(tokens, makeToken(tok.Pos, tok.Value, kind, mods))
		}
	}
	return tokens
}

func makeToken(pos lexer.Position, value, kind string, modifiers []string) SemanticToken {
	return SemanticToken{
		Line:           uint32(pos.Line - 1),
		StartChar:      uint32(pos.Column - 1),
		Length:         uint32(len(value)),
		TokenType:      tokenTypeIndex(kind),
		TokenModifiers: modifierMask(modifiers),
	}
}

func tokenTypeIndex(kind string) int {
	for i, t := range SemanticTokenTypes {
		if t == kind {
			return i
		}
	}
	return 0
}

func modifierMask(modifiers []string) int {
	mask := 0
	for _, m := range modifiers {
		for i, known := range SemanticTokenModifiers {
			if known == m {
				mask |= 1 << i
			}
		}
	}
	return mask
}

// encodeSemanticTokens packs tokens into the LSP wire format (delta-line,
// delta-start, length, type, modifiers).
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	var data []uint32
	var prevLine, prevStart uint32
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))
		prevLine = token.Line
		prevStart = token.StartChar
	}
	return data
}
