package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type File struct {
	Pos       lexer.Position
	Namespace *Namespace `@@`
}

type Namespace struct {
	Pos        lexer.Position
	Name       string       `"namespace" @Ident "{"`
	Components []*Component `@@* "}"`
}

type Component struct {
	Pos       lexer.Position
	Name      string       `"component" @Ident`
	Inputs    []*Portdef   `"(" [ @@ { "," @@ } ] ")"`
	Outputs   []*Portdef   `"->" "(" [ @@ { "," @@ } ] ")" "{"`
	Structure []*Structure `"structure" "{" @@* "}"`
	Control   []*Control   `"control" "{" @@* "}" "}"`
}

type Portdef struct {
	Pos   lexer.Position
	Name  string `@Ident ":"`
	Width int64  `@Integer`
}

// PortRef is either "cell.port" or a bare signature port name.
type PortRef struct {
	Pos  lexer.Position
	Cell string  `@Ident`
	Port *string `[ "." @Ident ]`
}

type Structure struct {
	Cell *CellDecl `  @@`
	Wire *Wire     `| @@`
}

// CellDecl is a component instance when Params is absent and a primitive
// instance otherwise.
type CellDecl struct {
	Pos    lexer.Position
	Name   string     `"cell" @Ident "="`
	Proto  string     `@Ident`
	Params *ParamList `@@? ";"`
}

type ParamList struct {
	Values []int64 `"(" [ @Integer { "," @Integer } ] ")"`
}

type Wire struct {
	Pos  lexer.Position
	Src  *PortRef `@@ "->"`
	Dest *PortRef `@@ ";"`
}

type Control struct {
	Pos     lexer.Position
	Seq     *Block     `  "seq" @@`
	Par     *Block     `| "par" @@`
	If      *IfStmt    `| "if" @@`
	Ifen    *IfStmt    `| "ifen" @@`
	While   *WhileStmt `| "while" @@`
	Enable  *NameList  `| "enable" @@`
	Disable *NameList  `| "disable" @@`
	Print   *PrintStmt `| @@`
	Empty   *EmptyStmt `| @@`
}

type Block struct {
	Pos   lexer.Position
	Stmts []*Control `"{" @@* "}"`
}

type IfStmt struct {
	Pos  lexer.Position
	Cond *PortRef `@@`
	Then *Block   `@@`
	Else *Block   `[ "else" @@ ]`
}

type WhileStmt struct {
	Pos  lexer.Position
	Cond *PortRef `@@`
	Body *Block   `@@`
}

type NameList struct {
	Pos   lexer.Position
	Names []string `[ @Ident { "," @Ident } ] ";"`
}

type PrintStmt struct {
	Pos lexer.Position
	Var string `"print" @Ident ";"`
}

type EmptyStmt struct {
	Pos   lexer.Position
	Empty bool `@"empty" ";"`
}
