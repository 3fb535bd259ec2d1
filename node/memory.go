package node

import "github.com/sarchlab/hdlsim/sdata"

// Memory is a depth-entry table of data-width-bit words. It
// has no source edges of its own; read/write ports reference it and carry
// the actual address/data/clock wiring. Memory owns its port lists by
// back-pointer so RemovePort (a structural edit) can unregister a port
// from its parent; fabric.Context.RemovePort also drops it from the
// context's node registry.
type Memory struct {
	base
	addrWidth  uint
	dataWidth  uint
	depth      uint64
	banks      uint
	byteEnable bool
	isROM      bool
	init       []sdata.Value // index i = address i, missing trailing entries default to zero

	readPorts  []*MemReadPort
	writePorts []*MemWritePort
}

// NewMemory constructs a Memory node. init may be shorter than depth; the
// engine zero-fills missing trailing addresses. banks is the number of
// independently-writable 8-bit lanes a write port's enable selects when
// byteEnable is set; it is otherwise unused and may be zero.
func NewMemory(id ID, addrWidth, dataWidth uint, depth uint64, banks uint, byteEnable, isROM bool, init []sdata.Value, name, location string) *Memory {
	return &Memory{
		base:       newBase(id, KindMemory, dataWidth, name, location, nil),
		addrWidth:  addrWidth,
		dataWidth:  dataWidth,
		depth:      depth,
		banks:      banks,
		byteEnable: byteEnable,
		isROM:      isROM,
		init:       append([]sdata.Value(nil), init...),
	}
}

func (m *Memory) AddrWidth() uint             { return m.addrWidth }
func (m *Memory) DataWidth() uint             { return m.dataWidth }
func (m *Memory) Depth() uint64               { return m.depth }
func (m *Memory) Banks() uint                 { return m.banks }
func (m *Memory) ByteEnable() bool            { return m.byteEnable }
func (m *Memory) IsROM() bool                 { return m.isROM }
func (m *Memory) Init() []sdata.Value         { return append([]sdata.Value(nil), m.init...) }
func (m *Memory) ReadPorts() []*MemReadPort   { return append([]*MemReadPort(nil), m.readPorts...) }
func (m *Memory) WritePorts() []*MemWritePort { return append([]*MemWritePort(nil), m.writePorts...) }

// addReadPort registers a read port with this memory. Called only from
// fabric's create_mem_read_port.
func (m *Memory) addReadPort(p *MemReadPort) {
	m.readPorts = append(m.readPorts, p)
}

// addWritePort registers a write port with this memory. Called only from
// fabric's create_mem_write_port, which rejects this for ROMs with an
// InvalidEdge error.
func (m *Memory) addWritePort(p *MemWritePort) {
	m.writePorts = append(m.writePorts, p)
}

// RemovePort unregisters a read or write port by id from this memory's
// port lists; it does not touch any context's node registry (that is
// fabric.Context.RemovePort's job). Returns false if no port with that id
// belongs to this memory.
func (m *Memory) RemovePort(portID ID) bool {
	for i, p := range m.readPorts {
		if p.ID() == portID {
			m.readPorts = append(m.readPorts[:i], m.readPorts[i+1:]...)
			return true
		}
	}
	for i, p := range m.writePorts {
		if p.ID() == portID {
			m.writePorts = append(m.writePorts[:i], m.writePorts[i+1:]...)
			return true
		}
	}
	return false
}
