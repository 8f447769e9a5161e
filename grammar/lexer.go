package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var FutilLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*`, nil},

		// Keywords and Identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Wire arrow and signature separator (before integers, which may be negative)
		{"Arrow", `->`, nil},

		// Integer literals
		{"Integer", `-?[0-9]+`, nil},

		// Punctuation
		{"Punctuation", `[{}();:,.=]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
