package fabric_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hdlsim/fabric"
	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/sdata"
)

var _ = Describe("Context", func() {
	It("deduplicates identical literals", func() {
		ctx := fabric.NewContext("t")
		a := ctx.CreateLiteral(sdata.New(3, 8), "three")
		b := ctx.CreateLiteral(sdata.New(3, 8), "three-again")
		Expect(a).To(BeIdenticalTo(b))
	})

	It("computes op width by rule", func() {
		ctx := fabric.NewContext("t")
		a := ctx.CreateInput(4, "a")
		b := ctx.CreateInput(8, "b")

		_, err := ctx.CreateOp(node.OpAdd, false, []node.Node{a, b}, 0, "bad")
		Expect(err).To(HaveOccurred())

		c := ctx.CreateInput(8, "c")
		sum, err := ctx.CreateOp(node.OpAdd, false, []node.Node{b, c}, 0, "sum")
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Width()).To(Equal(uint(8)))

		eq, err := ctx.CreateOp(node.OpEq, false, []node.Node{b, c}, 0, "eq")
		Expect(err).NotTo(HaveOccurred())
		Expect(eq.Width()).To(Equal(uint(1)))
	})

	It("rejects mismatched mux branches", func() {
		ctx := fabric.NewContext("t")
		cond := ctx.CreateInput(1, "c")
		t4 := ctx.CreateInput(4, "t")
		f8 := ctx.CreateInput(8, "f")
		_, err := ctx.CreateMux(cond, t4, f8, "m")
		Expect(err).To(HaveOccurred())
	})

	It("binds a register to the active scope's clock and async reset", func() {
		ctx := fabric.NewContext("t")
		clk := ctx.CreateClock(node.PosEdge, "clk")
		rst := ctx.CreateReset(node.AsyncActiveHigh, "rst")
		ctx.PushClock(clk)
		ctx.PushReset(rst)
		defer ctx.PopReset()
		defer ctx.PopClock()

		zero := ctx.CreateLiteral(sdata.New(0, 4), "zero")
		reg, err := ctx.CreateReg(zero, "r")
		Expect(err).NotTo(HaveOccurred())
		Expect(reg.AsyncReset()).To(Equal(node.Node(rst)))
		Expect(reg.ResetValue()).To(Equal(node.Node(zero)))
	})

	It("rejects CreateReg when a sync-kind reset is active in scope", func() {
		ctx := fabric.NewContext("t")
		clk := ctx.CreateClock(node.PosEdge, "clk")
		rst := ctx.CreateReset(node.SyncActiveHigh, "rst")
		ctx.PushClock(clk)
		defer ctx.PopClock()

		zero := ctx.CreateLiteral(sdata.New(0, 4), "zero")

		reg, err := ctx.CreateReg(zero, "r_no_reset")
		Expect(err).NotTo(HaveOccurred())
		Expect(reg.AsyncReset()).To(BeNil())

		ctx.PushReset(rst)
		_, err = ctx.CreateReg(zero, "r_sync_reset")
		Expect(err).To(HaveOccurred())
		ctx.PopReset()
	})

	It("rejects a write port on a ROM", func() {
		ctx := fabric.NewContext("t")
		clk := ctx.CreateClock(node.PosEdge, "clk")
		ctx.PushClock(clk)
		defer ctx.PopClock()

		rom, err := ctx.CreateMemory(2, 8, 4, 0, false, true, nil, "rom")
		Expect(err).NotTo(HaveOccurred())

		addr := ctx.CreateInput(2, "addr")
		data := ctx.CreateInput(8, "data")
		_, err = ctx.CreateMemWritePort(rom, addr, data, nil, "wp")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a memory init entry wider than the data width", func() {
		ctx := fabric.NewContext("t")
		_, err := ctx.CreateMemory(2, 4, 4, 0, false, false, []sdata.Value{sdata.New(100, 8)}, "m")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a byte-enable memory whose banks don't cover the data width", func() {
		ctx := fabric.NewContext("t")
		_, err := ctx.CreateMemory(1, 16, 2, 1, true, false, nil, "m")
		Expect(err).To(HaveOccurred())
	})

	It("requires a write port's enable width to match the memory's bank count", func() {
		ctx := fabric.NewContext("t")
		clk := ctx.CreateClock(node.PosEdge, "clk")
		ctx.PushClock(clk)
		defer ctx.PopClock()

		mem, err := ctx.CreateMemory(1, 16, 2, 2, true, false, nil, "m")
		Expect(err).NotTo(HaveOccurred())

		addr := ctx.CreateInput(1, "addr")
		data := ctx.CreateInput(16, "data")
		wholeWordEnable := ctx.CreateInput(1, "wen")
		_, err = ctx.CreateMemWritePort(mem, addr, data, wholeWordEnable, "wp")
		Expect(err).To(HaveOccurred())

		laneEnable := ctx.CreateInput(2, "lane_en")
		_, err = ctx.CreateMemWritePort(mem, addr, data, laneEnable, "wp2")
		Expect(err).NotTo(HaveOccurred())
	})

	It("finalizes a trivial combinational graph into a schedule", func() {
		ctx := fabric.NewContext("t")
		a := ctx.CreateInput(4, "a")
		b := ctx.CreateInput(4, "b")
		sum, err := ctx.CreateOp(node.OpAdd, false, []node.Node{a, b}, 0, "sum")
		Expect(err).NotTo(HaveOccurred())
		ctx.CreateOutput(sum, "out")

		schedule, report := ctx.Finalize()
		Expect(report.OK()).To(BeTrue())
		Expect(schedule.CombinationalOrder).NotTo(BeEmpty())
	})
})
