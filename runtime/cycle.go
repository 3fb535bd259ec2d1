package runtime

import (
	"context"

	"github.com/sarchlab/hdlsim/diag"
	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/sched"
	"github.com/sarchlab/hdlsim/sdata"
)

// valueOf looks up n's current value in the flat slot store, falling back
// to zero for a source with no slot (shouldn't happen for any node actually
// reachable from a schedule, but keeps eval total rather than panicking on
// an unexpected nil source).
func (s *Simulator) valueOf(n node.Node) sdata.Value {
	if n == nil {
		return sdata.Value{}
	}
	slot, ok := s.schedule.SlotOf[n.ID()]
	if !ok {
		return sdata.Zero(n.Width())
	}
	return s.values[slot]
}

// rawValue returns the last value a host gave SetInput for id, or zero if
// none was ever set, for clock and reset nodes driven outside the IR.
func (s *Simulator) rawValue(id node.ID, width uint) sdata.Value {
	if v, ok := s.inputValues[id]; ok {
		return v
	}
	return sdata.Zero(width)
}

// publish copies each cut point's committed state (a register's current
// value, a synchronous read port's latch) into the slot store, so the
// combinational pass below sees this cycle's already-settled values for
// them instead of re-deriving anything (cut-point rule).
func (s *Simulator) publish() {
	for _, r := range s.schedule.Registers {
		s.values[s.schedule.SlotOf[r.ID()]] = s.regCurrent[r.ID()]
	}
	for _, rp := range s.schedule.SyncReadPorts {
		s.values[s.schedule.SlotOf[rp.ID()]] = s.syncLatch[rp.ID()]
	}
}

// evaluateCombinational walks the compiled topological order once,
// filling in every remaining slot.
func (s *Simulator) evaluateCombinational() {
	for _, instr := range s.schedule.CombinationalOrder {
		switch instr.Kind {
		case sched.InstrLiteral:
			s.values[instr.Slot] = instr.Node.(*node.Literal).Value()

		case sched.InstrInput:
			in := instr.Node.(*node.Input)
			if driver := in.Driver(); driver != nil {
				s.values[instr.Slot] = s.valueOf(driver)
			} else {
				s.values[instr.Slot] = s.rawValue(in.ID(), in.Width())
			}

		case sched.InstrClock:
			clk := instr.Node.(*node.Clock)
			s.values[instr.Slot] = s.rawValue(clk.ID(), 1)

		case sched.InstrReset:
			rst := instr.Node.(*node.Reset)
			s.values[instr.Slot] = s.rawValue(rst.ID(), 1)

		case sched.InstrProxy:
			s.values[instr.Slot] = s.valueOf(instr.Node.(*node.Proxy).Source())

		case sched.InstrOp:
			op := instr.Node.(*node.Op)
			srcs := op.Sources()
			operands := make([]sdata.Value, len(srcs))
			for i, src := range srcs {
				operands[i] = s.valueOf(src)
			}
			s.values[instr.Slot] = evalOp(op, operands)

		case sched.InstrMux:
			mux := instr.Node.(*node.Mux)
			if s.valueOf(mux.Cond()).IsZero() {
				s.values[instr.Slot] = s.valueOf(mux.False())
			} else {
				s.values[instr.Slot] = s.valueOf(mux.True())
			}

		case sched.InstrOutput:
			s.values[instr.Slot] = s.valueOf(instr.Node.(*node.Output).Source())

		case sched.InstrMemReadAsync:
			s.values[instr.Slot] = s.evalAsyncRead(instr.Node.(*node.MemReadPort))
		}
	}
}

// evalAsyncRead computes a combinational memory read port's value straight
// out of the backing array. A disabled port reads as zero; an
// out-of-range address wraps modulo depth and is reported rather than
// faulted.
func (s *Simulator) evalAsyncRead(p *node.MemReadPort) sdata.Value {
	mem := p.Parent()
	if en := p.Enable(); en != nil && s.valueOf(en).IsZero() {
		return sdata.Zero(mem.DataWidth())
	}
	addr := s.valueOf(p.Address()).Uint64()
	depth := mem.Depth()
	if addr >= depth {
		s.logAddressOutOfRange(mem, addr, false)
		addr %= depth
	}
	return s.memArrays[mem.ID()][addr]
}

func (s *Simulator) logAddressOutOfRange(mem *node.Memory, addr uint64, wasWrite bool) {
	evt := diag.AddressOutOfRangeEvent{MemoryName: mem.Name(), Address: addr, Depth: mem.Depth(), WasWrite: wasWrite}
	s.logger.Warn(evt.String())
}

func detectEdge(pol node.Polarity, prev, cur bool) bool {
	if pol == node.PosEdge {
		return !prev && cur
	}
	return prev && !cur
}

// resetAsserted reports whether rst's current raw signal matches its
// active level.
func (s *Simulator) resetAsserted(rst *node.Reset) bool {
	raw := !s.rawValue(rst.ID(), 1).IsZero()
	return raw == rst.ResetKind().ActiveValue()
}

// Tick advances the simulation by one cycle: publish cut
// points, evaluate combinational logic, detect each clock domain's edge,
// commit registers and memory ports, then republish so Get reflects this
// cycle's settled state. Asynchronous resets are checked on every tick
// regardless of edge and take priority over an edge-triggered next-value
// commit.
func (s *Simulator) Tick() {
	s.publish()
	s.evaluateCombinational()

	rawClock := make(map[node.ID]bool, len(s.schedule.Clocks))
	for _, clk := range s.schedule.Clocks {
		rawClock[clk.ID()] = !s.rawValue(clk.ID(), 1).IsZero()
	}

	for _, d := range s.schedule.Domains {
		edge := detectEdge(d.Clock.Polarity(), s.clockPrev[d.Clock.ID()], rawClock[d.Clock.ID()])

		for _, r := range d.Registers {
			s.commitRegister(r, edge)
		}

		if edge {
			s.commitSyncReads(d.ReadPorts)
			s.commitWritePorts(d.WritePorts)
		}
	}

	for id, raw := range rawClock {
		s.clockPrev[id] = raw
	}

	s.publish()
	s.evaluateCombinational()

	s.logger.Log(context.Background(), LevelTrace, "runtime: tick committed")
}

// commitRegister applies r's async reset (if asserted, every tick) or, on
// an active clock edge with its enable (if any) asserted, latches Next
// into current.
func (s *Simulator) commitRegister(r *node.Register, edge bool) {
	if rst, ok := r.AsyncReset().(*node.Reset); ok && s.resetAsserted(rst) {
		s.regCurrent[r.ID()] = s.resetValueFor(r)
		return
	}
	if !edge {
		return
	}
	if ce := r.ClockEnable(); ce != nil && s.valueOf(ce).IsZero() {
		return
	}
	s.regCurrent[r.ID()] = s.valueOf(r.Next())
}

func (s *Simulator) resetValueFor(r *node.Register) sdata.Value {
	if rv := r.ResetValue(); rv != nil {
		return s.valueOf(rv)
	}
	return s.valueOf(r.Init())
}

// commitWritePorts applies every enabled write in port-list order, so a
// duplicate same-address write within one cycle resolves last-write-wins.
// Runs after commitSyncReads, so a sync read of the same address this cycle
// observes the pre-write word. On a byte-enable memory with an enable
// source, the enable bits select which 8-bit lanes of wdata replace the
// corresponding lanes of the existing word; the rest of the word is
// unchanged. A nil enable on a byte-enable memory still means "always
// enabled" and writes the whole word.
func (s *Simulator) commitWritePorts(ports []*node.MemWritePort) {
	for _, wp := range ports {
		en := wp.Enable()
		if en != nil && s.valueOf(en).IsZero() {
			continue
		}
		mem := wp.Parent()
		addr := s.valueOf(wp.Address()).Uint64()
		if addr >= mem.Depth() {
			s.logAddressOutOfRange(mem, addr, true)
			continue
		}
		newData := s.valueOf(wp.Data())
		if mem.ByteEnable() && en != nil {
			old := s.memArrays[mem.ID()][addr]
			newData = sdata.MergeLanes(old, newData, s.valueOf(en))
		}
		s.memArrays[mem.ID()][addr] = newData
	}
}

// commitSyncReads latches every enabled synchronous read port from the
// backing array before writes commit, so a same-cycle write to the address
// a sync read samples is not yet visible to that read. A disabled port
// holds its latch.
func (s *Simulator) commitSyncReads(ports []*node.MemReadPort) {
	for _, rp := range ports {
		if en := rp.Enable(); en != nil && s.valueOf(en).IsZero() {
			continue
		}
		mem := rp.Parent()
		addr := s.valueOf(rp.Address()).Uint64()
		if addr >= mem.Depth() {
			s.logAddressOutOfRange(mem, addr, false)
			addr %= mem.Depth()
		}
		s.syncLatch[rp.ID()] = s.memArrays[mem.ID()][addr]
	}
}
