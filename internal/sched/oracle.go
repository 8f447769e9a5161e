package sched

import "futil/internal/ir"

// ScriptOracle replays fixed answers. Latencies are listed per activation;
// the last entry repeats and a group with no entry takes one cycle.
// Conditions are keyed by the port's rendered name ("lt.out") and read false
// once their script runs out.
type ScriptOracle struct {
	Latencies  map[string][]int
	Conditions map[string][]bool
}

func (o *ScriptOracle) Latency(group string, n int) int {
	script := o.Latencies[group]
	if len(script) == 0 {
		return 1
	}
	return script[min(n, len(script)-1)]
}

func (o *ScriptOracle) Sample(port *ir.Port, n int) bool {
	script := o.Conditions[port.String()]
	if n >= len(script) {
		return false
	}
	return script[n]
}
