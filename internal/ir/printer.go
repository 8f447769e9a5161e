package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for IR
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new IR printer
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the textual form of every component in ctx.
func Print(ctx *Context) string {
	p := NewPrinter()
	for i, comp := range ctx.Components {
		if i > 0 {
			p.writeLine("")
		}
		p.printComponent(comp)
	}
	return p.output.String()
}

// PrintComponent returns the textual form of a single component.
func PrintComponent(comp *Component) string {
	p := NewPrinter()
	p.printComponent(comp)
	return p.output.String()
}

// PrintControl returns the textual form of a control tree, without a
// trailing newline.
func PrintControl(c Control) string {
	p := NewPrinter()
	p.printControl(c)
	return strings.TrimSuffix(p.output.String(), "\n")
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	if format != "" {
		p.writeIndent()
	}
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) open(format string, args ...interface{}) {
	p.writeLine(format+" {", args...)
	p.indent++
}

func (p *Printer) close() {
	p.indent--
	p.writeLine("}")
}

func signature(comp *Component) (inputs, outputs []string) {
	for _, port := range comp.Signature.Ports {
		def := fmt.Sprintf("%s: %d", port.Name, port.Width)
		// Inside the component, inputs are read and outputs are driven
		if port.Direction == Output {
			inputs = append(inputs, def)
		} else {
			outputs = append(outputs, def)
		}
	}
	return inputs, outputs
}

func (p *Printer) printComponent(comp *Component) {
	inputs, outputs := signature(comp)
	p.open("component %s(%s) -> (%s)", comp.Name, strings.Join(inputs, ", "), strings.Join(outputs, ", "))

	p.open("cells")
	for _, cell := range comp.Cells {
		p.writeLine("%s = %s;", cell.Name, cell.Prototype)
	}
	p.close()

	p.open("wires")
	for _, g := range comp.Groups {
		p.open("group %s%s", g.Name, g.AttributeString())
		for _, a := range g.Assignments {
			p.writeLine("%s", a)
		}
		p.close()
	}
	p.close()

	p.open("control")
	p.printControl(comp.Control)
	p.close()

	p.close()
}

func (p *Printer) printControl(c Control) {
	if c == nil {
		c = &Empty{}
	}
	c.Accept(p)
}

func (p *Printer) printBlock(stmts []Control) {
	for _, s := range stmts {
		p.printControl(s)
	}
}

func (p *Printer) printBranch(keyword string, port *Port, t, f Control) {
	p.open("%s %s", keyword, portName(port))
	p.printControl(t)
	if _, empty := f.(*Empty); f == nil || empty {
		p.close()
		return
	}
	p.indent--
	p.open("} else")
	p.printControl(f)
	p.close()
}

func portName(port *Port) string {
	if port == nil {
		return "<missing>"
	}
	return port.String()
}

func (p *Printer) VisitSeq(c *Seq) {
	p.open("seq")
	p.printBlock(c.Stmts)
	p.close()
}

func (p *Printer) VisitPar(c *Par) {
	p.open("par")
	p.printBlock(c.Stmts)
	p.close()
}

func (p *Printer) VisitIf(c *If)     { p.printBranch("if", c.Port, c.Tbranch, c.Fbranch) }
func (p *Printer) VisitIfen(c *Ifen) { p.printBranch("ifen", c.Port, c.Tbranch, c.Fbranch) }

func (p *Printer) VisitWhile(c *While) {
	p.open("while %s", portName(c.Port))
	p.printControl(c.Body)
	p.close()
}

func (p *Printer) VisitEnable(c *Enable) {
	if len(c.Groups) == 1 {
		p.writeLine("%s;", c.Groups[0])
		return
	}
	p.writeLine("%s;", strings.TrimSpace("enable "+strings.Join(c.Groups, ", ")))
}

func (p *Printer) VisitDisable(c *Disable) {
	p.writeLine("%s;", strings.TrimSpace("disable "+strings.Join(c.Groups, ", ")))
}

func (p *Printer) VisitPrint(c *Print) { p.writeLine("print %s;", c.Var) }
func (p *Printer) VisitEmpty(*Empty)   { p.writeLine("empty;") }
