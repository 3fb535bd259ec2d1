// Package runtime implements the per-cycle driver protocol and the
// register/memory commit semantics over a compiled
// sched.Schedule. It depends only on sched, node, sdata and diag — never
// fabric — so a caller that already has a *sched.Schedule (from
// fabric.Context.Finalize, or from any other source) can drive a
// simulation without the elaboration layer in scope at all, matching the
// Simulator(schedule) contract.
package runtime

import (
	"log/slog"

	"github.com/sarchlab/hdlsim/diag"
	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/sched"
	"github.com/sarchlab/hdlsim/sdata"
)

// LevelTrace mirrors fabric.LevelTrace and core/util.go's project-specific
// extra slog level; runtime logs per-cycle commit summaries at this level.
const LevelTrace = slog.Level(-8)

// Simulator drives a compiled schedule forward one tick at a time.
// It advances synchronously with no suspension points during a cycle:
// Tick runs publish, combinational evaluation, and commit to completion
// before returning.
type Simulator struct {
	schedule *sched.Schedule

	values []sdata.Value // this cycle's combinational/publish value store, indexed by slot

	inputValues map[node.ID]sdata.Value // last value SetInput provided for an Input/Clock/Reset node
	regCurrent  map[node.ID]sdata.Value // each register's committed current value
	syncLatch   map[node.ID]sdata.Value // each synchronous read port's committed current value
	memArrays   map[node.ID][]sdata.Value
	clockPrev   map[node.ID]bool // last raw value observed for each clock, for edge detection

	logger *slog.Logger
}

// NewSimulator builds a Simulator over schedule and puts it in its reset
// state: reset_state runs automatically at construction, the same as
// cycle 0 in scenario tables.
func NewSimulator(schedule *sched.Schedule) *Simulator {
	s := &Simulator{
		schedule:    schedule,
		values:      make([]sdata.Value, schedule.NumSlots),
		inputValues: make(map[node.ID]sdata.Value),
		regCurrent:  make(map[node.ID]sdata.Value),
		syncLatch:   make(map[node.ID]sdata.Value),
		memArrays:   make(map[node.ID][]sdata.Value),
		clockPrev:   make(map[node.ID]bool),
		logger:      slog.Default(),
	}
	s.ResetState()
	return s
}

// SetLogger overrides the default slog logger, the way the teacher's
// components accept an injected logger for test isolation.
func (s *Simulator) SetLogger(l *slog.Logger) { s.logger = l }

// SetInput sets the raw value a host-driven node (an Input, a Clock, or a
// Reset) presents starting on the next Tick. The value persists across
// ticks until changed again.
func (s *Simulator) SetInput(n node.Node, v sdata.Value) error {
	if v.Width() != n.Width() {
		return &diag.WidthMismatchError{NodeName: n.Name(), Context: "SetInput", Expected: n.Width(), Got: v.Width()}
	}
	switch n.Kind() {
	case node.KindInput, node.KindClock, node.KindReset:
		s.inputValues[n.ID()] = v
		return nil
	default:
		return &diag.InvalidEdgeError{NodeName: n.Name(), Reason: "SetInput only applies to Input, Clock, or Reset nodes"}
	}
}

// Get returns n's value as of the most recently completed Tick (or the
// reset state, before the first Tick). ok is false if n carries no slot
// (e.g. a Memory or a MemWritePort).
func (s *Simulator) Get(n node.Node) (value sdata.Value, ok bool) {
	slot, has := s.schedule.SlotOf[n.ID()]
	if !has {
		return sdata.Value{}, false
	}
	return s.values[slot], true
}

// GetOutput looks up an output node's value by name, for callers that
// wired a module by name rather than by keeping the *node.Output handle
// around.
func (s *Simulator) GetOutput(name string) (sdata.Value, bool) {
	for _, out := range s.schedule.Outputs {
		if out.Name() == name {
			return s.Get(out)
		}
	}
	return sdata.Value{}, false
}

// ResetState returns every register to its Init value, every memory to its
// declared init contents (zero-padded), every synchronous read port
// to a zero-valued latch, and every clock's edge-detection history to
// "previously low". Host-set input values are preserved, mirroring
// the schedule-held default semantics of "last SetInput sticks until
// changed".
func (s *Simulator) ResetState() {
	for _, mem := range s.schedule.Memories {
		arr := make([]sdata.Value, mem.Depth())
		init := mem.Init()
		for i := range arr {
			if uint64(i) < uint64(len(init)) {
				arr[i] = init[i].ZeroExtend(mem.DataWidth())
			} else {
				arr[i] = sdata.Zero(mem.DataWidth())
			}
		}
		s.memArrays[mem.ID()] = arr
	}

	for _, clk := range s.schedule.Clocks {
		s.clockPrev[clk.ID()] = false
	}

	for _, rp := range s.schedule.SyncReadPorts {
		s.syncLatch[rp.ID()] = sdata.Zero(rp.Width())
	}

	s.publish()
	s.evaluateCombinational()

	for _, r := range s.schedule.Registers {
		initSlot, ok := s.schedule.SlotOf[r.Init().ID()]
		if !ok {
			s.regCurrent[r.ID()] = sdata.Zero(r.Width())
			continue
		}
		s.regCurrent[r.ID()] = s.values[initSlot]
	}

	s.publish()
	s.evaluateCombinational()
}
