package node

// Opcode enumerates the closed set of combinational operators.
type Opcode int

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpNot
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpShl
	OpShr
	OpSShr
	OpNeg
	OpBitsExtract
	OpConcat
	OpSExt
	OpZExt
	OpBitSel
	OpAndReduce
	OpOrReduce
	OpXorReduce
)

// binaryOpcodes marks the two-operand opcodes; fabric uses it to require
// equal operand widths under WidthRuleMaxOperand. It does not check the
// number of source edges, and the width rule comes from WidthRuleFor.
var binaryOpcodes = map[Opcode]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true, OpMod: true,
	OpAnd: true, OpOr: true, OpXor: true,
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
	OpShl: true, OpShr: true, OpSShr: true, OpConcat: true,
}

// IsBinary reports whether an opcode takes two operands (lhs, rhs). Not,
// neg, extends and reduces take one; bit-select takes [source, index] and
// bits-extract [source, low, high], and neither is marked binary.
func IsBinary(op Opcode) bool {
	return binaryOpcodes[op]
}

// WidthRule identifies how an Op node's own width is derived from its
// operands,: arithmetic ops take the max of operand widths,
// comparisons are always width 1, shifts take the left operand's width.
type WidthRule int

const (
	WidthRuleMaxOperand WidthRule = iota
	WidthRuleFixedOne
	WidthRuleLeftOperand
	WidthRuleExplicit // bits_extract, concat, sext, zext: width is a constructor argument
)

// WidthRuleFor exposes the width rule for an opcode before any Op node
// exists, for fabric to compute a width ahead of construction.
func WidthRuleFor(op Opcode) WidthRule {
	return widthRuleFor(op)
}

func widthRuleFor(op Opcode) WidthRule {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpAndReduce, OpOrReduce, OpXorReduce, OpBitSel:
		return WidthRuleFixedOne
	case OpShl, OpShr, OpSShr:
		return WidthRuleLeftOperand
	case OpBitsExtract, OpConcat, OpSExt, OpZExt:
		return WidthRuleExplicit
	default:
		return WidthRuleMaxOperand
	}
}

// Op is a combinational operator node: an opcode, a signedness
// flag, and its source operands (Sources()[0] = lhs, Sources()[1] =
// rhs when binary; bits-extract carries three).
type Op struct {
	base
	opcode Opcode
	signed bool
}

// NewOp constructs an Op node. width must already satisfy the opcode's
// width rule; fabric computes and validates it before calling this
// constructor (WidthMismatch is a factory-time error, not a panic
// here).
func NewOp(id ID, opcode Opcode, signed bool, width uint, operands []Node, name, location string) *Op {
	return &Op{
		base:   newBase(id, KindOp, width, name, location, operands),
		opcode: opcode,
		signed: signed,
	}
}

// Opcode returns the operator this node evaluates.
func (o *Op) Opcode() Opcode { return o.opcode }

// Signed reports whether operands are interpreted as two's-complement
// signed values (affects div/mod/comparisons; arithmetic right shift is
// the separate OpSShr opcode, and OpShr is always logical).
func (o *Op) Signed() bool { return o.signed }

// WidthRule exposes the width rule that produced this node's width, for
// diagnostics and for fabric's own validation reuse.
func (o *Op) WidthRule() WidthRule { return widthRuleFor(o.opcode) }
