package node

// MemPortKind distinguishes combinational (async) from clocked (sync)
// read ports.
type MemPortKind int

const (
	MemPortAsync MemPortKind = iota
	MemPortSync
)

// MemReadPort reads one word per cycle from its parent Memory.
// Sources, by fixed slot: [0]=address, [1]=enable (nil source slot entry
// if the port has no enable, meaning "always enabled"), [2]=clock
// (nil unless Kind==MemPortSync). DataOut is a separate Proxy node whose
// sole source is this port, so downstream consumers reference the port's
// output "like any other node" without needing special-cased
// handling of memory ports in generic graph walks.
type MemReadPort struct {
	base
	parent  *Memory
	portID  int
	kind    MemPortKind
	dataOut *Proxy
}

const (
	readPortSlotAddr = iota
	readPortSlotEnable
	readPortSlotClock
	readPortSlotCount
)

// NewMemReadPort constructs a read port and registers it with parent.
func NewMemReadPort(id ID, parent *Memory, portID int, kind MemPortKind, clock, addr, enable Node, name, location string) *MemReadPort {
	sources := make([]Node, readPortSlotCount)
	sources[readPortSlotAddr] = addr
	sources[readPortSlotEnable] = enable
	sources[readPortSlotClock] = clock

	p := &MemReadPort{
		base:   newBase(id, KindMemReadPort, parent.DataWidth(), name, location, sources),
		parent: parent,
		portID: portID,
		kind:   kind,
	}
	parent.addReadPort(p)
	return p
}

// AttachDataOut wires the port's separate output proxy node, called once by
// fabric right after NewMemReadPort allocates the proxy's id.
func (p *MemReadPort) AttachDataOut(proxy *Proxy) {
	if p.dataOut != nil {
		panic("node: MemReadPort.AttachDataOut called twice")
	}
	p.dataOut = proxy
}

func (p *MemReadPort) Parent() *Memory     { return p.parent }
func (p *MemReadPort) PortID() int         { return p.portID }
func (p *MemReadPort) PortKind() MemPortKind { return p.kind }
func (p *MemReadPort) Address() Node       { return p.sources[readPortSlotAddr] }
func (p *MemReadPort) Enable() Node        { return p.sources[readPortSlotEnable] }
func (p *MemReadPort) Clock() Node         { return p.sources[readPortSlotClock] }
func (p *MemReadPort) DataOut() *Proxy     { return p.dataOut }

// MemWritePort writes one word per cycle to its parent Memory on its bound
// clock's active edge, if enabled. It produces no data output.
// Sources, by fixed slot: [0]=address, [1]=write-data, [2]=enable, [3]=clock.
type MemWritePort struct {
	base
	parent *Memory
	portID int
}

const (
	writePortSlotAddr = iota
	writePortSlotData
	writePortSlotEnable
	writePortSlotClock
	writePortSlotCount
)

// NewMemWritePort constructs a write port and registers it with parent.
// fabric rejects this call for ROM memories before ever reaching here
// (InvalidEdge is a factory-time error).
func NewMemWritePort(id ID, parent *Memory, portID int, clock, addr, wdata, enable Node, name, location string) *MemWritePort {
	sources := make([]Node, writePortSlotCount)
	sources[writePortSlotAddr] = addr
	sources[writePortSlotData] = wdata
	sources[writePortSlotEnable] = enable
	sources[writePortSlotClock] = clock

	p := &MemWritePort{
		base:   newBase(id, KindMemWritePort, 0, name, location, sources),
		parent: parent,
		portID: portID,
	}
	parent.addWritePort(p)
	return p
}

func (p *MemWritePort) Parent() *Memory { return p.parent }
func (p *MemWritePort) PortID() int     { return p.portID }
func (p *MemWritePort) Address() Node   { return p.sources[writePortSlotAddr] }
func (p *MemWritePort) Data() Node      { return p.sources[writePortSlotData] }
func (p *MemWritePort) Enable() Node    { return p.sources[writePortSlotEnable] }
func (p *MemWritePort) Clock() Node     { return p.sources[writePortSlotClock] }
