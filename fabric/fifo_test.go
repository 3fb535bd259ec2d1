package fabric_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hdlsim/fabric"
	"github.com/sarchlab/hdlsim/node"
)

var _ = Describe("BuildSyncFIFO", func() {
	It("wires a finalizable queue with full/empty/read-data outputs", func() {
		ctx := fabric.NewContext("t")
		clk := ctx.CreateClock(node.PosEdge, "clk")
		ctx.PushClock(clk)
		defer ctx.PopClock()

		writeEnable := ctx.CreateInput(1, "we")
		writeData := ctx.CreateInput(8, "wd")
		readEnable := ctx.CreateInput(1, "re")

		q, err := ctx.BuildSyncFIFO(8, 4, writeEnable, writeData, readEnable, "q")
		Expect(err).NotTo(HaveOccurred())
		Expect(q.ReadData.Width()).To(Equal(uint(8)))
		Expect(q.Full.Width()).To(Equal(uint(1)))
		Expect(q.Empty.Width()).To(Equal(uint(1)))

		ctx.CreateOutput(q.ReadData, "out_data")
		ctx.CreateOutput(q.Full, "out_full")
		ctx.CreateOutput(q.Empty, "out_empty")

		_, report := ctx.Finalize()
		Expect(report.OK()).To(BeTrue())
	})
})
