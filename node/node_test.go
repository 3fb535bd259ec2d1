package node_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/sdata"
)

var _ = Describe("Node kinds", func() {
	Describe("Literal", func() {
		It("carries its constant value and has no sources", func() {
			lit := node.NewLiteral(1, sdata.New(7, 4), "seven", "t.go:1")
			Expect(lit.Value().Uint64()).To(Equal(uint64(7)))
			Expect(lit.Width()).To(Equal(uint(4)))
			Expect(lit.Sources()).To(BeEmpty())
			Expect(lit.Kind()).To(Equal(node.KindLiteral))
		})
	})

	Describe("Mux", func() {
		It("exposes cond/true/false by fixed position", func() {
			cond := node.NewInput(1, 1, "c", "", nil)
			t := node.NewInput(2, 8, "t", "", nil)
			f := node.NewInput(3, 8, "f", "", nil)
			mux := node.NewMux(4, cond, t, f, "m", "")
			Expect(mux.Width()).To(Equal(uint(8)))
			Expect(mux.Cond()).To(Equal(node.Node(cond)))
			Expect(mux.True()).To(Equal(node.Node(t)))
			Expect(mux.False()).To(Equal(node.Node(f)))
		})
	})

	Describe("Proxy", func() {
		It("aliases a source and can be redirected once bound", func() {
			a := node.NewInput(1, 4, "a", "", nil)
			b := node.NewInput(2, 4, "b", "", nil)
			p := node.NewProxy(3, a, "p", "")
			Expect(p.Source()).To(Equal(node.Node(a)))
			p.SetSource(b)
			Expect(p.Source()).To(Equal(node.Node(b)))
		})
	})

	Describe("Register", func() {
		It("requires an initial value and allows a deferred next", func() {
			init := node.NewLiteral(1, sdata.New(0, 4), "init", "")
			clk := node.NewClock(99, node.PosEdge, "clk", "")
			reg := node.NewRegister(2, node.ClockDomainID(1), clk, nil, nil, nil, init, nil, "r", "")
			Expect(reg.HasNext()).To(BeFalse())
			Expect(reg.Width()).To(Equal(uint(4)))

			next := node.NewInput(3, 4, "n", "", nil)
			reg.SetNext(next)
			Expect(reg.HasNext()).To(BeTrue())
			Expect(reg.Next()).To(Equal(node.Node(next)))

			Expect(func() { reg.SetNext(next) }).To(Panic())
		})

		It("panics without an initial value", func() {
			clk := node.NewClock(98, node.PosEdge, "clk", "")
			Expect(func() {
				node.NewRegister(1, node.ClockDomainID(1), clk, nil, nil, nil, nil, nil, "r", "")
			}).To(Panic())
		})
	})

	Describe("Memory ports", func() {
		It("registers read and write ports with their parent and supports removal", func() {
			mem := node.NewMemory(1, 3, 8, 8, 0, false, false, nil, "mem", "")
			addr := node.NewInput(2, 3, "addr", "", nil)
			clk := node.NewClock(3, node.PosEdge, "clk", "")
			wdata := node.NewInput(4, 8, "wdata", "", nil)

			rp := node.NewMemReadPort(5, mem, 0, node.MemPortAsync, nil, addr, nil, "rp", "")
			outProxy := node.NewProxy(6, rp, "rp.out", "")
			rp.AttachDataOut(outProxy)

			wp := node.NewMemWritePort(7, mem, 0, clk, addr, wdata, nil, "wp", "")

			Expect(mem.ReadPorts()).To(HaveLen(1))
			Expect(mem.WritePorts()).To(HaveLen(1))
			Expect(rp.DataOut()).To(Equal(outProxy))

			Expect(mem.RemovePort(rp.ID())).To(BeTrue())
			Expect(mem.ReadPorts()).To(BeEmpty())
			Expect(mem.RemovePort(wp.ID())).To(BeTrue())
			Expect(mem.WritePorts()).To(BeEmpty())
			Expect(mem.RemovePort(999)).To(BeFalse())
		})

		It("rejects write ports on ROM at the fabric layer, not here", func() {
			// node.Memory itself has no opinion on ROM write-port legality;
			// that InvalidEdge check belongs to fabric's factory method.
			mem := node.NewMemory(1, 1, 1, 2, 0, false, true, nil, "rom", "")
			Expect(mem.IsROM()).To(BeTrue())
		})
	})
})

var _ = Describe("Kind names", func() {
	It("canonicalizes and stringifies the closed kind set", func() {
		Expect(node.KindLiteral.String()).To(Equal("Literal"))
		Expect(node.KindMemReadPort.String()).To(Equal("MemReadPort"))
		Expect(node.CanonicalOpcodeName("add")).To(Equal("Add"))
	})
})
