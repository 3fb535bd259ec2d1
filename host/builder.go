package host

import (
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/runtime"
	"github.com/sarchlab/hdlsim/sched"
	"github.com/sarchlab/hdlsim/sdata"
)

// DriverBuilder builds a Driver over a compiled schedule.
type DriverBuilder struct {
	engine     sim.Engine
	freq       sim.Freq
	monitor    *monitoring.Monitor
	remoteSink sim.RemotePort
}

// WithEngine sets the engine that drives the simulation.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the Driver's Akita tick frequency. Each tick is one
// simulator cycle and toggles the clock once, so the hardware clock runs
// at freq/2 (one rising edge every two ticks).
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithMonitor registers the built Driver with an Akita monitor, the way
// config.DeviceBuilder.WithMonitor registers CGRA tiles.
func (b DriverBuilder) WithMonitor(monitor *monitoring.Monitor) DriverBuilder {
	b.monitor = monitor
	return b
}

// WithRemoteSink sets the remote port watched outputs are pushed to.
// Leaving it unset disables outbound pushes; Value can still be polled.
func (b DriverBuilder) WithRemoteSink(dst sim.RemotePort) DriverBuilder {
	b.remoteSink = dst
	return b
}

// Build constructs a Driver over schedule, named name, in its reset state.
func (b DriverBuilder) Build(name string, schedule *sched.Schedule) *Driver {
	d := &Driver{
		sim:        runtime.NewSimulator(schedule),
		schedule:   schedule,
		inputs:     make(map[string]*node.Input, len(schedule.Inputs)),
		outputs:    make(map[string]*node.Output, len(schedule.Outputs)),
		clockLvl:   make(map[node.ID]bool, len(schedule.Clocks)),
		watched:    make(map[string]sdata.Value),
		remoteSink: b.remoteSink,
	}
	for _, in := range schedule.Inputs {
		d.inputs[in.Name()] = in
	}
	for _, out := range schedule.Outputs {
		d.outputs[out.Name()] = out
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)
	d.MemPort = sim.NewLimitNumMsgPort(d, 4, name+".Mem")
	d.AddPort("Mem", d.MemPort)

	if b.monitor != nil {
		b.monitor.RegisterComponent(d)
	}

	return d
}
