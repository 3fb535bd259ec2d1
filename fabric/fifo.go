package fabric

import (
	"math/bits"

	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/sdata"
)

// FIFO is the result of BuildSyncFIFO: the handles a caller needs to wire
// the queue's externally-visible signals.
type FIFO struct {
	ReadData node.Node
	Full     node.Node
	Empty    node.Node
}

// BuildSyncFIFO elaborates a circular-buffer FIFO out of two pointer
// registers, a memory, and the usual Op/Mux combinators — not a new node
// kind (closed set is unchanged), just a convenience combinator over
// CreateReg/CreateMemory/CreateOp/CreateMux, grounded on
// original_source/core/sync_fifo.h's wptr/rptr-plus-extra-bit design
// (SyncFifo::describe): full is detected by the pointers' extra bit
// differing while their low addrWidth bits agree, empty by the pointers
// being equal outright. depth must be a power of two so the pointers'
// low bits double as the memory address directly. Like the original,
// which reads the backing array combinationally, this builds the read side
// as an asynchronous read port: the result reflects rptr's current
// address every cycle with no extra latch.
//
// The active clock/reset (Scope) are whatever is current in ctx; call
// this inside a PushClock/PushReset (or PopClock/PopReset) pair the same
// way any other register-producing combinator would.
func (c *Context) BuildSyncFIFO(dataWidth uint, depth uint64, writeEnable, writeData, readEnable node.Node, name string) (*FIFO, error) {
	addrWidth := uint(1)
	if depth > 1 {
		addrWidth = uint(bits.Len64(depth - 1))
	}
	ptrWidth := addrWidth + 1

	zero := c.CreateLiteral(sdata.Zero(ptrWidth), name+".ptr_zero")
	one := c.CreateLiteral(sdata.New(1, ptrWidth), name+".ptr_one")
	lowIdx := c.CreateLiteral(sdata.Zero(6), name+".low_idx")
	highIdx := c.CreateLiteral(sdata.New(uint64(addrWidth-1), 6), name+".high_idx")
	msbIdx := c.CreateLiteral(sdata.New(uint64(addrWidth), 6), name+".msb_idx")

	wptr, err := c.CreateReg(zero, name+".wptr")
	if err != nil {
		return nil, err
	}
	rptr, err := c.CreateReg(zero, name+".rptr")
	if err != nil {
		return nil, err
	}

	wptrLow, err := c.CreateOp(node.OpBitsExtract, false, []node.Node{wptr, lowIdx, highIdx}, addrWidth, name+".wptr_low")
	if err != nil {
		return nil, err
	}
	rptrLow, err := c.CreateOp(node.OpBitsExtract, false, []node.Node{rptr, lowIdx, highIdx}, addrWidth, name+".rptr_low")
	if err != nil {
		return nil, err
	}
	wptrMsb, err := c.CreateOp(node.OpBitSel, false, []node.Node{wptr, msbIdx}, 1, name+".wptr_msb")
	if err != nil {
		return nil, err
	}
	rptrMsb, err := c.CreateOp(node.OpBitSel, false, []node.Node{rptr, msbIdx}, 1, name+".rptr_msb")
	if err != nil {
		return nil, err
	}

	msbDiff, err := c.CreateOp(node.OpXor, false, []node.Node{wptrMsb, rptrMsb}, 0, name+".msb_diff")
	if err != nil {
		return nil, err
	}
	lowEq, err := c.CreateOp(node.OpEq, false, []node.Node{wptrLow, rptrLow}, 0, name+".low_eq")
	if err != nil {
		return nil, err
	}
	full, err := c.CreateOp(node.OpAnd, false, []node.Node{msbDiff, lowEq}, 0, name+".full")
	if err != nil {
		return nil, err
	}
	empty, err := c.CreateOp(node.OpEq, false, []node.Node{wptr, rptr}, 0, name+".empty")
	if err != nil {
		return nil, err
	}

	notFull, err := c.CreateOp(node.OpNot, false, []node.Node{full}, 0, name+".not_full")
	if err != nil {
		return nil, err
	}
	notEmpty, err := c.CreateOp(node.OpNot, false, []node.Node{empty}, 0, name+".not_empty")
	if err != nil {
		return nil, err
	}
	writeFire, err := c.CreateOp(node.OpAnd, false, []node.Node{writeEnable, notFull}, 0, name+".write_fire")
	if err != nil {
		return nil, err
	}
	readFire, err := c.CreateOp(node.OpAnd, false, []node.Node{readEnable, notEmpty}, 0, name+".read_fire")
	if err != nil {
		return nil, err
	}

	mem, err := c.CreateMemory(addrWidth, dataWidth, depth, 0, false, false, nil, name+".mem")
	if err != nil {
		return nil, err
	}
	if _, err := c.CreateMemWritePort(mem, wptrLow, writeData, writeFire, name+".wp"); err != nil {
		return nil, err
	}
	_, readData, err := c.CreateMemReadPort(mem, node.MemPortAsync, rptrLow, nil, name+".rp")
	if err != nil {
		return nil, err
	}

	wptrInc, err := c.CreateOp(node.OpAdd, false, []node.Node{wptr, one}, 0, name+".wptr_inc")
	if err != nil {
		return nil, err
	}
	wptrNext, err := c.CreateMux(writeFire, wptrInc, wptr, name+".wptr_next")
	if err != nil {
		return nil, err
	}
	if err := c.SetNext(wptr, wptrNext); err != nil {
		return nil, err
	}

	rptrInc, err := c.CreateOp(node.OpAdd, false, []node.Node{rptr, one}, 0, name+".rptr_inc")
	if err != nil {
		return nil, err
	}
	rptrNext, err := c.CreateMux(readFire, rptrInc, rptr, name+".rptr_next")
	if err != nil {
		return nil, err
	}
	if err := c.SetNext(rptr, rptrNext); err != nil {
		return nil, err
	}

	return &FIFO{ReadData: readData, Full: full, Empty: empty}, nil
}
