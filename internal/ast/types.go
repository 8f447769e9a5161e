package ast

type NodeType int

const (
	ILLEGAL NodeType = iota

	// Top level
	NAMESPACE
	COMPONENT
	PORTDEF

	// Port references
	COMP_PORT
	THIS_PORT

	// Structure
	DECL
	STD
	WIRE

	// Control
	SEQ
	PAR
	IF
	IFEN
	WHILE
	PRINT
	ENABLE
	DISABLE
	EMPTY
)

var nodeTypeNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	NAMESPACE: "NAMESPACE",
	COMPONENT: "COMPONENT",
	PORTDEF:   "PORTDEF",
	COMP_PORT: "COMP_PORT",
	THIS_PORT: "THIS_PORT",
	DECL:      "DECL",
	STD:       "STD",
	WIRE:      "WIRE",
	SEQ:       "SEQ",
	PAR:       "PAR",
	IF:        "IF",
	IFEN:      "IFEN",
	WHILE:     "WHILE",
	PRINT:     "PRINT",
	ENABLE:    "ENABLE",
	DISABLE:   "DISABLE",
	EMPTY:     "EMPTY",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return "ILLEGAL"
	}
	return nodeTypeNames[t]
}
