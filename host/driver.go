package host

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/runtime"
	"github.com/sarchlab/hdlsim/sched"
	"github.com/sarchlab/hdlsim/sdata"
)

// Driver wraps a runtime.Simulator in an Akita ticking component, so a
// compiled hardware description advances one cycle per Akita tick instead
// of only being steppable by direct Go calls. Its free-running clocks
// toggle once per Tick invocation, so two consecutive ticks make one full
// clock period with one rising edge, the same low-then-high pair of ticks
// runtime's tests drive with their riseEdge helper.
type Driver struct {
	*sim.TickingComponent

	MemPort sim.Port

	sim      *runtime.Simulator
	schedule *sched.Schedule
	inputs   map[string]*node.Input
	outputs  map[string]*node.Output
	clockLvl map[node.ID]bool

	watched    map[string]sdata.Value // last value sent out for a watched output
	remoteSink sim.RemotePort         // destination for outbound ValueMsgs, set by DriverBuilder.WithRemoteSink
}

// WatchOutput registers name so every Tick that changes its value sends a
// ValueMsg out over MemPort. Unwatched outputs are only reachable through
// Value.
func (d *Driver) WatchOutput(name string) {
	if _, ok := d.outputs[name]; !ok {
		panic("host: driver has no output named " + name)
	}
	d.watched[name] = sdata.Value{}
}

// SetInputValue drives name's value starting on the next Tick, the way
// FeedIn queues a value for a named accelerator port.
func (d *Driver) SetInputValue(name string, v sdata.Value) error {
	in, ok := d.inputs[name]
	if !ok {
		return unknownPortError{name}
	}
	return d.sim.SetInput(in, v)
}

// Value reads name's value as of the most recently completed cycle.
func (d *Driver) Value(name string) (sdata.Value, bool) {
	if _, ok := d.outputs[name]; !ok {
		return sdata.Value{}, false
	}
	return d.sim.GetOutput(name)
}

// Tick drains any queued inbound messages into the simulator's inputs,
// toggles every free-running clock, advances the simulator one cycle, and
// flushes changed watched outputs back out over MemPort.
func (d *Driver) Tick(now sim.VTimeInSec) bool {
	madeProgress := d.drainMemPort()

	for _, clk := range d.schedule.Clocks {
		d.clockLvl[clk.ID()] = !d.clockLvl[clk.ID()]
		lvl := uint64(0)
		if d.clockLvl[clk.ID()] {
			lvl = 1
		}
		_ = d.sim.SetInput(clk, sdata.New(lvl, 1))
	}
	d.sim.Tick()

	if d.flushWatched(now) {
		madeProgress = true
	}

	return madeProgress
}

func (d *Driver) drainMemPort() bool {
	drained := false
	for {
		msg := d.MemPort.RetrieveIncoming()
		if msg == nil {
			break
		}
		vm, ok := msg.(*ValueMsg)
		if !ok {
			continue
		}
		if err := d.SetInputValue(vm.Port, vm.Value); err != nil {
			slog.Default().Warn("host: dropped inbound value", "port", vm.Port, "error", err)
			continue
		}
		drained = true
	}
	return drained
}

func (d *Driver) flushWatched(now sim.VTimeInSec) bool {
	if d.remoteSink == "" {
		return false
	}
	sent := false
	for name, last := range d.watched {
		v, ok := d.Value(name)
		if !ok || v.Equal(last) {
			continue
		}
		d.watched[name] = v
		if !d.MemPort.CanSend() {
			continue
		}
		msg := ValueMsgBuilder{}.
			WithSrc(d.MemPort.AsRemote()).
			WithDst(d.remoteSink).
			WithSendTime(now).
			WithPort(name).
			WithValue(v).
			Build()
		if d.MemPort.Send(msg) == nil {
			sent = true
		}
	}
	return sent
}

type unknownPortError struct{ name string }

func (e unknownPortError) Error() string { return "host: no input named " + e.name }
