package host

import (
	"github.com/sarchlab/akita/v4/mem/idealmemcontroller"
	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
)

// DeviceMemoryBuilder optionally attaches an Akita DRAM model to a
// Driver's MemPort, for staging bulk data in and out of a simulation
// through Akita's own memory protocol rather than through ValueMsg. A
// Driver works without one; node.Memory's backing array, not this, is
// what a compiled module's own memory ports read and write.
type DeviceMemoryBuilder struct {
	engine  sim.Engine
	freq    sim.Freq
	monitor *monitoring.Monitor
	size    uint64
	latency int
}

// WithEngine sets the engine the DRAM and its connection run on.
func (b DeviceMemoryBuilder) WithEngine(engine sim.Engine) DeviceMemoryBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the connection's frequency.
func (b DeviceMemoryBuilder) WithFreq(freq sim.Freq) DeviceMemoryBuilder {
	b.freq = freq
	return b
}

// WithMonitor registers the DRAM controller with an Akita monitor.
func (b DeviceMemoryBuilder) WithMonitor(monitor *monitoring.Monitor) DeviceMemoryBuilder {
	b.monitor = monitor
	return b
}

// WithSize sets the DRAM's capacity in bytes. Defaults to 4GB.
func (b DeviceMemoryBuilder) WithSize(size uint64) DeviceMemoryBuilder {
	b.size = size
	return b
}

// WithLatency sets the DRAM's fixed access latency in cycles. Defaults to 5.
func (b DeviceMemoryBuilder) WithLatency(latency int) DeviceMemoryBuilder {
	b.latency = latency
	return b
}

// Build creates a DRAM controller named name and plugs it into driver's
// MemPort over a direct connection, returning the controller so the
// caller can preload or inspect its storage.
func (b DeviceMemoryBuilder) Build(name string, driver *Driver) *idealmemcontroller.Comp {
	size := b.size
	if size == 0 {
		size = 4 * mem.GB
	}
	latency := b.latency
	if latency == 0 {
		latency = 5
	}

	dram := idealmemcontroller.MakeBuilder().
		WithEngine(b.engine).
		WithNewStorage(size).
		WithLatency(latency).
		Build(name)

	if b.monitor != nil {
		b.monitor.RegisterComponent(dram)
	}

	conn := directconnection.MakeBuilder().
		WithEngine(b.engine).
		WithFreq(b.freq).
		Build(name + ".Conn")
	conn.PlugIn(dram.GetPortByName("Top"))
	conn.PlugIn(driver.MemPort)

	return dram
}
