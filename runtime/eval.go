package runtime

import (
	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/sdata"
)

// evalOp computes an Op node's value from its already-evaluated operand
// values (operator semantics).
func evalOp(op *node.Op, operands []sdata.Value) sdata.Value {
	switch op.Opcode() {
	case node.OpAdd:
		return sdata.Add(operands[0], operands[1])
	case node.OpSub:
		return sdata.Sub(operands[0], operands[1])
	case node.OpMul:
		return sdata.Mul(operands[0], operands[1])
	case node.OpDiv:
		if op.Signed() {
			return sdata.SDiv(operands[0], operands[1])
		}
		return sdata.Div(operands[0], operands[1])
	case node.OpMod:
		if op.Signed() {
			return sdata.SMod(operands[0], operands[1])
		}
		return sdata.Mod(operands[0], operands[1])
	case node.OpAnd:
		return sdata.And(operands[0], operands[1])
	case node.OpOr:
		return sdata.Or(operands[0], operands[1])
	case node.OpXor:
		return sdata.Xor(operands[0], operands[1])
	case node.OpNot:
		return sdata.Not(operands[0])
	case node.OpEq:
		return sdata.Eq(operands[0], operands[1])
	case node.OpNe:
		return sdata.Ne(operands[0], operands[1])
	case node.OpLt:
		if op.Signed() {
			return sdata.SLt(operands[0], operands[1])
		}
		return sdata.Lt(operands[0], operands[1])
	case node.OpLe:
		if op.Signed() {
			return sdata.SLe(operands[0], operands[1])
		}
		return sdata.Le(operands[0], operands[1])
	case node.OpGt:
		if op.Signed() {
			return sdata.SGt(operands[0], operands[1])
		}
		return sdata.Gt(operands[0], operands[1])
	case node.OpGe:
		if op.Signed() {
			return sdata.SGe(operands[0], operands[1])
		}
		return sdata.Ge(operands[0], operands[1])
	case node.OpShl:
		return sdata.Shl(operands[0], operands[1])
	case node.OpShr:
		return sdata.Shr(operands[0], operands[1])
	case node.OpSShr:
		return sdata.SShr(operands[0], operands[1])
	case node.OpNeg:
		return sdata.Neg(operands[0])
	case node.OpBitsExtract:
		low := uint(operands[1].Uint64())
		high := uint(operands[2].Uint64())
		return operands[0].BitsExtract(low, high)
	case node.OpConcat:
		return sdata.Concat(operands[0], operands[1])
	case node.OpSExt:
		return operands[0].SignExtend(op.Width())
	case node.OpZExt:
		return operands[0].ZeroExtend(op.Width())
	case node.OpBitSel:
		return operands[0].BitSelect(uint(operands[1].Uint64()))
	case node.OpAndReduce:
		return sdata.AndReduce(operands[0])
	case node.OpOrReduce:
		return sdata.OrReduce(operands[0])
	case node.OpXorReduce:
		return sdata.XorReduce(operands[0])
	default:
		panic("runtime: unhandled opcode")
	}
}
