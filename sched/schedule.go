// Package sched implements finalize: it takes the flat node set a
// fabric.Context produced, places cut points (registers and synchronous
// memory read ports), topologically orders everything else, and emits a
// flat instruction list plus a node-id-keyed slot layout that runtime
// evaluates every cycle. sched never imports fabric — it only depends on
// node/sdata/diag — so runtime can depend on sched alone, matching the
// driver-facing Simulator(schedule) contract.
package sched

import "github.com/sarchlab/hdlsim/node"

// InstrKind tags what an Instruction does when runtime walks the
// combinational order each cycle.
type InstrKind int

const (
	InstrLiteral InstrKind = iota
	InstrInput
	InstrClock
	InstrReset
	InstrProxy
	InstrOp
	InstrMux
	InstrOutput
	InstrMemReadAsync
)

// Instruction is one step of the combinational evaluation order. Node
// carries everything the runtime needs to evaluate it (operand slots are
// looked up from the node's own Sources() via Schedule.SlotOf).
type Instruction struct {
	Kind InstrKind
	Node node.Node
	Slot int
}

// ClockDomain groups every register, synchronous read port and write port
// that commits on the same physical clock, so runtime can detect each
// domain's edge independently (multi-clock-domain scheduling).
type ClockDomain struct {
	ID         node.ClockDomainID
	Clock      *node.Clock
	Registers  []*node.Register
	ReadPorts  []*node.MemReadPort
	WritePorts []*node.MemWritePort
}

// Schedule is the compiled output of Compile: everything runtime.Simulator
// needs to drive cycles without ever walking the raw node graph again.
type Schedule struct {
	// CombinationalOrder is the topologically sorted evaluation order for
	// every non-cut-point, value-bearing node.
	CombinationalOrder []Instruction

	// SlotOf maps every value-bearing node (combinational nodes, registers,
	// and synchronous read ports) to its index in runtime's flat value
	// store. Memories and write ports carry no slot of their own.
	SlotOf map[node.ID]int
	NumSlots int

	Registers    []*node.Register
	SyncReadPorts []*node.MemReadPort
	WritePorts   []*node.MemWritePort
	Memories     []*node.Memory

	// Domains lists each clock domain in first-seen order, which is the
	// order runtime commits them in; DomainOf indexes the same domains by id.
	Domains   []*ClockDomain
	DomainOf  map[node.ClockDomainID]*ClockDomain

	Inputs  []*node.Input
	Outputs []*node.Output
	Clocks  []*node.Clock
	Resets  []*node.Reset
}
