// Package sdata implements the fixed-width, two-valued bit-vector used
// throughout the IR and simulator. A Value is immutable-by-convention:
// every mutator returns a new Value rather than editing in place, the way
// cgra.Data's With* helpers work in the teacher.
package sdata

import (
	"fmt"
	"math/bits"
)

// Value is a variable-width unsigned two's-complement bit-vector. Width is
// fixed at construction time; every operation that combines two Values
// requires equal widths unless documented otherwise.
type Value struct {
	bits  uint64
	width uint
}

// MaxWidth is the largest width a Value supports. Wider vectors are out of
// scope for the core (spec.md never requires widths beyond a machine word
// for the scenarios it specifies).
const MaxWidth = 64

func maskFor(width uint) uint64 {
	if width >= MaxWidth {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// New constructs a Value of the given width from an unsigned integer,
// masking off any bits beyond width.
func New(value uint64, width uint) Value {
	if width == 0 || width > MaxWidth {
		panic(fmt.Sprintf("sdata: invalid width %d", width))
	}
	return Value{bits: value & maskFor(width), width: width}
}

// Zero returns the zero value of the given width.
func Zero(width uint) Value {
	return New(0, width)
}

// Width returns the bit-width of the value.
func (v Value) Width() uint {
	return v.width
}

// Uint64 returns the raw unsigned bit pattern.
func (v Value) Uint64() uint64 {
	return v.bits
}

// Int64 returns the value interpreted as a two's-complement signed integer
// of its own width, sign-extended into an int64.
func (v Value) Int64() int64 {
	if v.width == 64 {
		return int64(v.bits)
	}
	signBit := uint64(1) << (v.width - 1)
	if v.bits&signBit != 0 {
		return int64(v.bits | ^maskFor(v.width))
	}
	return int64(v.bits)
}

func (v Value) requireSameWidth(other Value, op string) {
	if v.width != other.width {
		panic(fmt.Sprintf("sdata: width mismatch in %s: %d vs %d", op, v.width, other.width))
	}
}

// GetBit returns bit i (0 = least significant). Panics if i is out of range.
func (v Value) GetBit(i uint) bool {
	if i >= v.width {
		panic(fmt.Sprintf("sdata: bit index %d out of range for width %d", i, v.width))
	}
	return (v.bits>>i)&1 != 0
}

// SetBit returns a copy of v with bit i set to b.
func (v Value) SetBit(i uint, b bool) Value {
	if i >= v.width {
		panic(fmt.Sprintf("sdata: bit index %d out of range for width %d", i, v.width))
	}
	if b {
		v.bits |= uint64(1) << i
	} else {
		v.bits &^= uint64(1) << i
	}
	return v
}

// Equal reports whether two values have the same width and bit pattern.
func (v Value) Equal(other Value) bool {
	return v.width == other.width && v.bits == other.bits
}

// EqualValue reports value equality modulo width: v equals raw if the raw
// integer, masked to v's width, matches v's bits. Used for comparisons
// against literal Go integers in tests and diagnostics.
func (v Value) EqualValue(raw uint64) bool {
	return v.bits == raw&maskFor(v.width)
}

// IsZero reports whether every bit is 0.
func (v Value) IsZero() bool {
	return v.bits == 0
}

// IsOne reports whether the value equals 1.
func (v Value) IsOne() bool {
	return v.bits == 1
}

// ZeroExtend returns a copy of v at a width at least as wide as v's,
// filling the new high bits with zero. Panics if width is narrower. Used
// by zext op evaluation.
func (v Value) ZeroExtend(width uint) Value {
	if width < v.width {
		panic("sdata: ZeroExtend to a narrower width")
	}
	return New(v.bits, width)
}

// SignExtend extends v to width, replicating its sign bit.
func (v Value) SignExtend(width uint) Value {
	if width < v.width {
		panic("sdata: SignExtend to a narrower width")
	}
	if v.width == width {
		return v
	}
	if v.GetBit(v.width - 1) {
		extension := maskFor(width) &^ maskFor(v.width)
		return New(v.bits|extension, width)
	}
	return New(v.bits, width)
}

// Truncate returns the low `width` bits of v.
func (v Value) Truncate(width uint) Value {
	if width > v.width {
		panic("sdata: Truncate to a wider width")
	}
	return New(v.bits, width)
}

// Concat concatenates high (high bits) with low (low bits), producing a value of
// combined width.
func Concat(high, low Value) Value {
	width := high.width + low.width
	if width > MaxWidth {
		panic("sdata: Concat exceeds MaxWidth")
	}
	return New((high.bits<<low.width)|low.bits, width)
}

// BitSelect extracts a single bit as a width-1 Value.
func (v Value) BitSelect(i uint) Value {
	if v.GetBit(i) {
		return New(1, 1)
	}
	return New(0, 1)
}

// BitsExtract extracts the inclusive [low, high] bit range as a
// (high-low+1)-wide Value.
func (v Value) BitsExtract(low, high uint) Value {
	if high < low || high >= v.width {
		panic(fmt.Sprintf("sdata: invalid extract range [%d,%d] for width %d", low, high, v.width))
	}
	width := high - low + 1
	return New((v.bits>>low)&maskFor(width), width)
}

// MergeLanes combines old and updated at 8-bit-lane granularity: for each
// set bit i of laneEnable, the i'th 8-bit lane of the result comes from
// updated; every other lane comes from old. old and updated must share a
// width that is an exact multiple of 8.
func MergeLanes(old, updated, laneEnable Value) Value {
	old.requireSameWidth(updated, "MergeLanes")
	result := old.bits
	for lane := uint(0); lane < laneEnable.width; lane++ {
		if !laneEnable.GetBit(lane) {
			continue
		}
		shift := lane * 8
		laneMask := maskFor(8) << shift
		result = (result &^ laneMask) | (updated.bits & laneMask)
	}
	return New(result, old.width)
}

// Add performs unsigned/two's-complement addition of equal-width operands
// (panics otherwise); the result is truncated to that width.
func Add(a, b Value) Value {
	a.requireSameWidth(b, "Add")
	return New(a.bits+b.bits, a.width)
}

// Sub performs subtraction at the operands' common width.
func Sub(a, b Value) Value {
	a.requireSameWidth(b, "Sub")
	return New(a.bits-b.bits, a.width)
}

// Mul performs multiplication at the operands' common width.
func Mul(a, b Value) Value {
	a.requireSameWidth(b, "Mul")
	return New(a.bits*b.bits, a.width)
}

// Div performs unsigned division. Division by zero yields the all-ones
// pattern, matching a saturating/defined-behavior convention rather than a
// runtime panic, so a single bad cycle does not crash a whole simulation.
func Div(a, b Value) Value {
	a.requireSameWidth(b, "Div")
	if b.bits == 0 {
		return New(maskFor(a.width), a.width)
	}
	return New(a.bits/b.bits, a.width)
}

// Mod performs unsigned modulo. Modulo by zero yields zero rather than a
// panic.
func Mod(a, b Value) Value {
	a.requireSameWidth(b, "Mod")
	if b.bits == 0 {
		return New(0, a.width)
	}
	return New(a.bits%b.bits, a.width)
}

// SDiv and SMod interpret both operands as signed values of their common
// width.
func SDiv(a, b Value) Value {
	a.requireSameWidth(b, "SDiv")
	if b.bits == 0 {
		return New(maskFor(a.width), a.width)
	}
	return New(uint64(a.Int64()/b.Int64()), a.width)
}

func SMod(a, b Value) Value {
	a.requireSameWidth(b, "SMod")
	if b.bits == 0 {
		return New(0, a.width)
	}
	return New(uint64(a.Int64()%b.Int64()), a.width)
}

// Neg returns the two's-complement negation of v, at v's own width.
func Neg(v Value) Value {
	return New(^v.bits+1, v.width)
}

// And, Or, Xor are bitwise operators requiring equal-width operands; the
// result keeps that width.
func And(a, b Value) Value {
	a.requireSameWidth(b, "And")
	return New(a.bits&b.bits, a.width)
}

func Or(a, b Value) Value {
	a.requireSameWidth(b, "Or")
	return New(a.bits|b.bits, a.width)
}

func Xor(a, b Value) Value {
	a.requireSameWidth(b, "Xor")
	return New(a.bits^b.bits, a.width)
}

// Not is bitwise complement at v's own width.
func Not(v Value) Value {
	return New(^v.bits, v.width)
}

// boolValue renders a Go bool as a width-1 Value, the representation for
// every comparison opcode.
func boolValue(b bool) Value {
	if b {
		return New(1, 1)
	}
	return New(0, 1)
}

// Eq, Ne, Lt, Le, Gt, Ge compare two equal-width unsigned values, producing
// a width-1 result comparison rule.
func Eq(a, b Value) Value {
	a.requireSameWidth(b, "Eq")
	return boolValue(a.bits == b.bits)
}

func Ne(a, b Value) Value {
	a.requireSameWidth(b, "Ne")
	return boolValue(a.bits != b.bits)
}

func Lt(a, b Value) Value {
	a.requireSameWidth(b, "Lt")
	return boolValue(a.bits < b.bits)
}

func Le(a, b Value) Value {
	a.requireSameWidth(b, "Le")
	return boolValue(a.bits <= b.bits)
}

func Gt(a, b Value) Value {
	a.requireSameWidth(b, "Gt")
	return boolValue(a.bits > b.bits)
}

func Ge(a, b Value) Value {
	a.requireSameWidth(b, "Ge")
	return boolValue(a.bits >= b.bits)
}

// SLt and friends compare signed interpretations.
func SLt(a, b Value) Value {
	a.requireSameWidth(b, "SLt")
	return boolValue(a.Int64() < b.Int64())
}

func SLe(a, b Value) Value {
	a.requireSameWidth(b, "SLe")
	return boolValue(a.Int64() <= b.Int64())
}

func SGt(a, b Value) Value {
	a.requireSameWidth(b, "SGt")
	return boolValue(a.Int64() > b.Int64())
}

func SGe(a, b Value) Value {
	a.requireSameWidth(b, "SGe")
	return boolValue(a.Int64() >= b.Int64())
}

// Shl shifts v left by amount bits (amount is itself a Value, read as its
// full unsigned value; an amount of v's width or more yields zero). Result
// keeps v's width.
func Shl(v, amount Value) Value {
	n := amount.bits
	if n >= uint64(v.width) {
		return Zero(v.width)
	}
	return New(v.bits<<n, v.width)
}

// Shr performs a logical (unsigned) right shift.
func Shr(v, amount Value) Value {
	n := amount.bits
	if n >= uint64(v.width) {
		return Zero(v.width)
	}
	return New(v.bits>>n, v.width)
}

// SShr performs an arithmetic (sign-extending) right shift.
func SShr(v, amount Value) Value {
	n := amount.bits
	if n >= uint64(v.width) {
		if v.GetBit(v.width - 1) {
			return New(maskFor(v.width), v.width)
		}
		return Zero(v.width)
	}
	shifted := v.Int64() >> n
	return New(uint64(shifted), v.width)
}

// AndReduce, OrReduce, XorReduce fold all bits of v into a width-1 result.
func AndReduce(v Value) Value {
	return boolValue(v.bits == maskFor(v.width))
}

func OrReduce(v Value) Value {
	return boolValue(v.bits != 0)
}

func XorReduce(v Value) Value {
	return boolValue(bits.OnesCount64(v.bits)%2 == 1)
}

// String renders the value as "0x<hex>:<width>b" for diagnostics.
func (v Value) String() string {
	return fmt.Sprintf("0x%x:%db", v.bits, v.width)
}
