package host_test

import (
	"testing"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hdlsim/fabric"
	"github.com/sarchlab/hdlsim/host"
	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/sched"
	"github.com/sarchlab/hdlsim/sdata"
)

func buildCounterSchedule(t *testing.T) (*sched.Schedule, node.Node) {
	t.Helper()
	ctx := fabric.NewContext("counter")
	clk := ctx.CreateClock(node.PosEdge, "clk")
	ctx.PushClock(clk)
	defer ctx.PopClock()

	zero := ctx.CreateLiteral(sdata.New(0, 4), "zero")
	one := ctx.CreateLiteral(sdata.New(1, 4), "one")
	reg, err := ctx.CreateReg(zero, "count")
	if err != nil {
		t.Fatalf("CreateReg: %v", err)
	}
	incr, err := ctx.CreateOp(node.OpAdd, false, []node.Node{reg, one}, 0, "incr")
	if err != nil {
		t.Fatalf("CreateOp: %v", err)
	}
	if err := ctx.SetNext(reg, incr); err != nil {
		t.Fatalf("SetNext: %v", err)
	}
	ctx.CreateOutput(reg, "count_out")

	schedule, report := ctx.Finalize()
	if !report.OK() {
		t.Fatalf("finalize failed: %v", report)
	}
	return schedule, reg
}

func TestDriverTicksSimulatorOnFreeRunningClock(t *testing.T) {
	schedule, _ := buildCounterSchedule(t)
	engine := sim.NewSerialEngine()
	driver := host.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver", schedule)

	// Each driver.Tick flips the free-running clock once, so two
	// consecutive ticks make one clock edge: count advances by one every
	// other tick, rounding up since the clock starts low.
	want := []uint64{0, 1, 1, 2, 2, 3, 3, 4}
	for i, w := range want {
		if i > 0 {
			driver.Tick(sim.VTimeInSec(i))
		}
		got, ok := driver.Value("count_out")
		if !ok || !got.EqualValue(w) {
			t.Fatalf("after %d ticks: count_out = %v, want %d", i, got, w)
		}
	}
}

func TestDriverSetInputValueRejectsUnknownPort(t *testing.T) {
	schedule, _ := buildCounterSchedule(t)
	engine := sim.NewSerialEngine()
	driver := host.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver", schedule)

	if err := driver.SetInputValue("nonexistent", sdata.New(1, 1)); err == nil {
		t.Fatal("expected an error setting an unknown input")
	}
}

func TestDriverDrainsInboundValueMsg(t *testing.T) {
	schedule, _ := buildOneBitLatch(t)
	engine := sim.NewSerialEngine()
	driver := host.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver", schedule)

	msg := host.ValueMsgBuilder{}.
		WithPort("in").
		WithValue(sdata.New(1, 1)).
		Build()
	if err := driver.MemPort.Deliver(msg); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	driver.Tick(0)

	got, ok := driver.Value("out")
	if !ok || !got.EqualValue(1) {
		t.Fatalf("out = %v, want 1 after draining an inbound ValueMsg", got)
	}
}

func TestDriverFlushesWatchedOutputWhenSinkConfigured(t *testing.T) {
	schedule, _ := buildOneBitLatch(t)
	engine := sim.NewSerialEngine()
	driver := host.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithRemoteSink(sim.RemotePort("Sink.Mem")).
		Build("Driver", schedule)
	driver.WatchOutput("out")

	msg := host.ValueMsgBuilder{}.
		WithPort("in").
		WithValue(sdata.New(1, 1)).
		Build()
	if err := driver.MemPort.Deliver(msg); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	driver.Tick(0)

	out := driver.MemPort.PeekOutgoing()
	if out == nil {
		t.Fatal("expected an outbound ValueMsg after the watched output changed")
	}
	vm, ok := out.(*host.ValueMsg)
	if !ok {
		t.Fatalf("outgoing msg has unexpected type %T", out)
	}
	if vm.Port != "out" || !vm.Value.EqualValue(1) {
		t.Fatalf("outgoing msg = %+v, want port=out value=1", vm)
	}
}

// buildOneBitLatch wires a plain combinational passthrough (an Output
// copying an Input) so a single ValueMsg's effect is visible the same
// cycle it is drained, without needing a clock edge.
func buildOneBitLatch(t *testing.T) (*sched.Schedule, node.Node) {
	t.Helper()
	ctx := fabric.NewContext("latch")
	in := ctx.CreateInput(1, "in")
	out := ctx.CreateOutput(in, "out")

	schedule, report := ctx.Finalize()
	if !report.OK() {
		t.Fatalf("finalize failed: %v", report)
	}
	return schedule, out
}
