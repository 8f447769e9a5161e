// Package sched is a cycle-level reference model of how a control tree
// activates groups. It does not evaluate any dataflow: an Oracle supplies
// how long each group activation takes and what each sampled condition
// reads. The model is what the control semantics are tested against; it is
// not the lowering to a state machine.
package sched

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"futil/internal/ir"
)

var log = commonlog.GetLogger("futil.sched")

// DefaultMaxIterations bounds every while loop unless the simulator says otherwise.
const DefaultMaxIterations = 10000

// ErrIterationLimit is returned when a while loop keeps reading true past
// the simulator's iteration limit.
var ErrIterationLimit = errors.New("while loop exceeded iteration limit")

// Oracle answers the questions the control tree cannot answer by itself.
type Oracle interface {
	// Latency returns the number of cycles the n-th activation (from 0) of
	// group takes to raise done.
	Latency(group string, n int) int
	// Sample returns the value of port the n-th time (from 0) it is sampled.
	Sample(port *ir.Port, n int) bool
}

// EventKind tells what happened in a trace event
type EventKind int

const (
	Start EventKind = iota
	Done
	Sample
	Settle
	Disable
	Print
)

func (k EventKind) String() string {
	switch k {
	case Start:
		return "start"
	case Done:
		return "done"
	case Sample:
		return "sample"
	case Settle:
		return "settle"
	case Disable:
		return "disable"
	case Print:
		return "print"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a single observation at a cycle. Name is a group name, a port
// or a printed variable depending on Kind.
type Event struct {
	Cycle int
	Kind  EventKind
	Name  string
	Value bool
}

func (e Event) String() string {
	if e.Kind == Sample {
		return fmt.Sprintf("%d: sample %s = %t", e.Cycle, e.Name, e.Value)
	}
	return fmt.Sprintf("%d: %s %s", e.Cycle, e.Kind, e.Name)
}

// Trace is the result of one run.
type Trace struct {
	Events []Event
	// DoneAt is the cycle at which the root node reports done.
	DoneAt int
}

// Activations returns how many times group was active: every start plus
// every one-cycle settle before an ifen samples its condition.
func (t *Trace) Activations(group string) int {
	n := 0
	for _, e := range t.Events {
		if (e.Kind == Start || e.Kind == Settle) && e.Name == group {
			n++
		}
	}
	return n
}

// Filter returns the events of the given kinds, in trace order.
func (t *Trace) Filter(kinds ...EventKind) []Event {
	var out []Event
	for _, e := range t.Events {
		if slices.Contains(kinds, e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

func (t *Trace) String() string {
	var sb strings.Builder
	for _, e := range t.Events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%d: done", t.DoneAt)
	return sb.String()
}

// Simulator runs control trees against an Oracle.
type Simulator struct {
	oracle Oracle
	// Component, when set, lets Ifen find the groups that drive the cell it
	// samples so their settle step shows up in the trace.
	Component     *ir.Component
	MaxIterations int
}

func NewSimulator(oracle Oracle) *Simulator {
	return &Simulator{oracle: oracle, MaxIterations: DefaultMaxIterations}
}

// Run schedules c starting at cycle 0.
func (s *Simulator) Run(c ir.Control) (*Trace, error) {
	r := &run{
		sim:         s,
		activations: make(map[string]int),
		samples:     make(map[*ir.Port]int),
	}
	c.Accept(r)
	if r.err != nil {
		return nil, r.err
	}

	// Branches of a par are recorded one after another; order by time.
	slices.SortStableFunc(r.events, func(a, b Event) int { return a.Cycle - b.Cycle })
	log.Debugf("schedule done at cycle %d after %d events", r.now, len(r.events))
	return &Trace{Events: r.events, DoneAt: r.now}, nil
}

// Schedule runs the control program of comp.
func Schedule(comp *ir.Component, oracle Oracle) (*Trace, error) {
	s := NewSimulator(oracle)
	s.Component = comp
	return s.Run(comp.Control)
}

// run is the state of one simulation. now is the cycle at which the node
// being visited starts; after the visit it is the cycle at which it is done.
type run struct {
	sim         *Simulator
	now         int
	events      []Event
	activations map[string]int
	samples     map[*ir.Port]int
	err         error
}

func (r *run) emit(e Event) {
	r.events = append(r.events, e)
}

func (r *run) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *run) visit(c ir.Control) {
	if r.err != nil {
		return
	}
	if c == nil {
		// A missing branch behaves like empty
		return
	}
	c.Accept(r)
}

func (r *run) sample(p *ir.Port) bool {
	if p == nil {
		r.fail(errors.New("condition port is missing"))
		return false
	}
	n := r.samples[p]
	r.samples[p] = n + 1
	v := r.sim.oracle.Sample(p, n)
	r.emit(Event{Cycle: r.now, Kind: Sample, Name: p.String(), Value: v})
	return v
}

func (r *run) VisitSeq(c *ir.Seq) {
	for _, stmt := range c.Stmts {
		r.visit(stmt)
	}
}

func (r *run) VisitPar(c *ir.Par) {
	start, join := r.now, r.now
	for _, stmt := range c.Stmts {
		r.now = start
		r.visit(stmt)
		join = max(join, r.now)
	}
	r.now = join
}

func (r *run) VisitIf(c *ir.If) {
	r.branch(r.sample(c.Port), c.Tbranch, c.Fbranch)
}

func (r *run) VisitIfen(c *ir.Ifen) {
	if c.Port == nil {
		r.fail(errors.New("condition port is missing"))
		return
	}
	for _, g := range r.settleGroups(c.Port) {
		r.emit(Event{Cycle: r.now, Kind: Settle, Name: g})
	}
	r.now++
	r.branch(r.sample(c.Port), c.Tbranch, c.Fbranch)
}

func (r *run) branch(cond bool, tbranch, fbranch ir.Control) {
	if r.err != nil {
		return
	}
	if cond {
		r.visit(tbranch)
	} else {
		r.visit(fbranch)
	}
}

func (r *run) VisitWhile(c *ir.While) {
	for i := 0; ; i++ {
		if !r.sample(c.Port) || r.err != nil {
			return
		}
		if i == r.sim.MaxIterations {
			r.fail(errors.Wrapf(ErrIterationLimit, "while %s after %d iterations", c.Port, i))
			return
		}
		r.visit(c.Body)
	}
}

func (r *run) VisitEnable(c *ir.Enable) {
	start, finish := r.now, r.now
	for _, g := range c.Groups {
		n := r.activations[g]
		r.activations[g] = n + 1
		lat := r.sim.oracle.Latency(g, n)
		if lat < 0 {
			r.fail(errors.Errorf("group %s has negative latency %d", g, lat))
			return
		}
		r.emit(Event{Cycle: start, Kind: Start, Name: g})
		r.emit(Event{Cycle: start + lat, Kind: Done, Name: g})
		finish = max(finish, start+lat)
	}
	r.now = finish
}

func (r *run) VisitDisable(c *ir.Disable) {
	for _, g := range c.Groups {
		r.emit(Event{Cycle: r.now, Kind: Disable, Name: g})
	}
}

func (r *run) VisitPrint(c *ir.Print) {
	r.emit(Event{Cycle: r.now, Kind: Print, Name: c.Var})
}

func (r *run) VisitEmpty(*ir.Empty) {}

// settleGroups names the groups writing the cell that owns p.
func (r *run) settleGroups(p *ir.Port) []string {
	comp := r.sim.Component
	cell, ok := p.Parent().Cell()
	if comp == nil || !ok {
		return nil
	}
	var out []string
	for _, g := range comp.Groups {
		for _, a := range g.Assignments {
			if owner, ok := a.Dst.Parent().Cell(); ok && owner == cell {
				out = append(out, g.Name)
				break
			}
		}
	}
	return out
}
