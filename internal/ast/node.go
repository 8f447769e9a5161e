package ast

import "fmt"

// Position tracks location information for error reporting and tooling.
// A zero Position means the node was built programmatically.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

type Node interface {
	NodePos() Position
	NodeType() NodeType
	String() string
}

func (n *Namespace) NodePos() Position { return n.Pos }
func (*Namespace) NodeType() NodeType  { return NAMESPACE }

func (c *Component) NodePos() Position { return c.Pos }
func (*Component) NodeType() NodeType  { return COMPONENT }

func (p *Portdef) NodePos() Position { return p.Pos }
func (*Portdef) NodeType() NodeType  { return PORTDEF }

func (p *CompPort) NodePos() Position { return p.Pos }
func (*CompPort) NodeType() NodeType  { return COMP_PORT }

func (p *ThisPort) NodePos() Position { return p.Pos }
func (*ThisPort) NodeType() NodeType  { return THIS_PORT }

func (d *Decl) NodePos() Position { return d.Pos }
func (*Decl) NodeType() NodeType  { return DECL }

func (s *Std) NodePos() Position { return s.Pos }
func (*Std) NodeType() NodeType  { return STD }

func (w *Wire) NodePos() Position { return w.Pos }
func (*Wire) NodeType() NodeType  { return WIRE }

func (s *Seq) NodePos() Position { return s.Pos }
func (*Seq) NodeType() NodeType  { return SEQ }

func (p *Par) NodePos() Position { return p.Pos }
func (*Par) NodeType() NodeType  { return PAR }

func (i *If) NodePos() Position { return i.Pos }
func (*If) NodeType() NodeType  { return IF }

func (i *Ifen) NodePos() Position { return i.Pos }
func (*Ifen) NodeType() NodeType  { return IFEN }

func (w *While) NodePos() Position { return w.Pos }
func (*While) NodeType() NodeType  { return WHILE }

func (p *Print) NodePos() Position { return p.Pos }
func (*Print) NodeType() NodeType  { return PRINT }

func (e *Enable) NodePos() Position { return e.Pos }
func (*Enable) NodeType() NodeType  { return ENABLE }

func (d *Disable) NodePos() Position { return d.Pos }
func (*Disable) NodeType() NodeType  { return DISABLE }

func (e *Empty) NodePos() Position { return e.Pos }
func (*Empty) NodeType() NodeType  { return EMPTY }
