package sched

import (
	"sort"

	"github.com/sarchlab/hdlsim/diag"
	"github.com/sarchlab/hdlsim/node"
)

// Compile performs finalize: partitions nodes into cut points
// (registers, synchronous memory read ports) and combinational nodes,
// topologically orders the combinational subgraph, and assigns every
// value-bearing node a slot in runtime's flat value store. Edges pointing
// into a register or a synchronous read port are not ordering constraints
// — those nodes publish their value from already-latched state before
// combinational evaluation runs each cycle — so the topological sort
// only needs to succeed over the combinational subgraph; any remaining
// cycle there is a genuine combinational cycle.
func Compile(nodes []node.Node, collector *diag.Collector) (*Schedule, error) {
	sorted := append([]node.Node(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	var (
		registers []*node.Register
		memories  []*node.Memory
		inputs    []*node.Input
		outputs   []*node.Output
		clocks    []*node.Clock
		resets    []*node.Reset
		syncPorts []*node.MemReadPort
		asyncPorts []*node.MemReadPort
		writePorts []*node.MemWritePort
		schedulable []node.Node
	)

	for _, n := range sorted {
		switch v := n.(type) {
		case *node.Register:
			registers = append(registers, v)
		case *node.Memory:
			memories = append(memories, v)
		case *node.Input:
			inputs = append(inputs, v)
			schedulable = append(schedulable, n)
		case *node.Output:
			outputs = append(outputs, v)
			schedulable = append(schedulable, n)
		case *node.Clock:
			clocks = append(clocks, v)
			schedulable = append(schedulable, n)
		case *node.Reset:
			resets = append(resets, v)
			schedulable = append(schedulable, n)
		case *node.MemWritePort:
			writePorts = append(writePorts, v)
		case *node.MemReadPort:
			if v.PortKind() == node.MemPortSync {
				syncPorts = append(syncPorts, v)
			} else {
				asyncPorts = append(asyncPorts, v)
				schedulable = append(schedulable, n)
			}
		case *node.Literal, *node.Proxy, *node.Op, *node.Mux:
			schedulable = append(schedulable, n)
		}
	}

	var unbound []*node.Register
	for _, r := range registers {
		if !r.HasNext() {
			unbound = append(unbound, r)
		}
	}
	for _, r := range unbound {
		collector.Add(diag.Issue{
			Severity: diag.SeverityError,
			NodeName: r.Name(),
			Location: r.Location(),
			Message:  "register has no next-value source bound",
		})
	}
	if len(unbound) > 0 {
		return nil, &diag.UnboundNextError{RegisterName: unbound[0].Name(), Location: unbound[0].Location()}
	}

	order, err := topoSort(schedulable)
	if err != nil {
		collector.Add(diag.Issue{Severity: diag.SeverityError, Message: err.Error()})
		return nil, err
	}

	schedule := &Schedule{
		SlotOf:        map[node.ID]int{},
		Registers:     registers,
		SyncReadPorts: syncPorts,
		WritePorts:    writePorts,
		Memories:      memories,
		Inputs:        inputs,
		Outputs:       outputs,
		Clocks:        clocks,
		Resets:        resets,
		DomainOf:      map[node.ClockDomainID]*ClockDomain{},
	}

	for _, n := range order {
		slot := schedule.NumSlots
		schedule.SlotOf[n.ID()] = slot
		schedule.NumSlots++
		schedule.CombinationalOrder = append(schedule.CombinationalOrder, Instruction{
			Kind: instrKindFor(n),
			Node: n,
			Slot: slot,
		})
	}
	for _, r := range registers {
		schedule.SlotOf[r.ID()] = schedule.NumSlots
		schedule.NumSlots++
	}
	for _, p := range syncPorts {
		schedule.SlotOf[p.ID()] = schedule.NumSlots
		schedule.NumSlots++
	}

	assignDomains(schedule)

	return schedule, nil
}

// assignDomains groups registers, synchronous read ports and write ports
// by the physical clock node they commit on, in first-seen order so
// the grouping is deterministic across runs with the same node set.
func assignDomains(s *Schedule) {
	nextID := node.ClockDomainID(1)
	byClock := map[*node.Clock]*ClockDomain{}
	get := func(clk *node.Clock) *ClockDomain {
		if d, ok := byClock[clk]; ok {
			return d
		}
		d := &ClockDomain{ID: nextID, Clock: clk}
		nextID++
		byClock[clk] = d
		s.Domains = append(s.Domains, d)
		s.DomainOf[d.ID] = d
		return d
	}

	for _, r := range s.Registers {
		d := get(r.Clock())
		d.Registers = append(d.Registers, r)
	}
	for _, p := range s.SyncReadPorts {
		clk, _ := p.Clock().(*node.Clock)
		d := get(clk)
		d.ReadPorts = append(d.ReadPorts, p)
	}
	for _, w := range s.WritePorts {
		clk, _ := w.Clock().(*node.Clock)
		d := get(clk)
		d.WritePorts = append(d.WritePorts, w)
	}
}

func instrKindFor(n node.Node) InstrKind {
	switch n.(type) {
	case *node.Literal:
		return InstrLiteral
	case *node.Input:
		return InstrInput
	case *node.Clock:
		return InstrClock
	case *node.Reset:
		return InstrReset
	case *node.Proxy:
		return InstrProxy
	case *node.Op:
		return InstrOp
	case *node.Mux:
		return InstrMux
	case *node.Output:
		return InstrOutput
	case *node.MemReadPort:
		return InstrMemReadAsync
	default:
		panic("sched: unreachable node kind in combinational order")
	}
}

// topoSort runs Kahn's algorithm over the combinational subgraph. An edge
// count[i] tracks how many schedulable predecessors node i still has;
// dependencies on a Register or synchronous MemReadPort are not counted at
// all, since those are the cut points.
func topoSort(nodes []node.Node) ([]node.Node, error) {
	inSet := make(map[node.ID]bool, len(nodes))
	for _, n := range nodes {
		inSet[n.ID()] = true
	}

	inDegree := make(map[node.ID]int, len(nodes))
	adj := make(map[node.ID][]node.Node, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID()] = 0
	}
	for _, n := range nodes {
		for _, dep := range n.Sources() {
			if dep == nil || !inSet[dep.ID()] {
				continue
			}
			inDegree[n.ID()]++
			adj[dep.ID()] = append(adj[dep.ID()], n)
		}
	}

	var queue []node.Node
	for _, n := range nodes {
		if inDegree[n.ID()] == 0 {
			queue = append(queue, n)
		}
	}

	var order []node.Node
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, c := range adj[n.ID()] {
			inDegree[c.ID()]--
			if inDegree[c.ID()] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(order) != len(nodes) {
		var names []string
		for _, n := range nodes {
			if inDegree[n.ID()] > 0 {
				names = append(names, n.Name())
			}
		}
		return nil, &diag.CombinationalCycleError{NodeNames: names}
	}
	return order, nil
}
