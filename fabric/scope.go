package fabric

import "github.com/sarchlab/hdlsim/node"

// Scope is a thin, explicitly-passed stand-in for the "currently active
// clock/reset" ambient state describes as thread-local in a
// language that has such a thing. Go doesn't, and the teacher never
// simulates one with a goroutine-keyed global, so Scope is just a value
// wrapping the owning Context: DSL combinators that want "whatever clock is
// active right now" take a Scope parameter instead of reaching for a
// package-level variable.
type Scope struct {
	ctx *Context
}

// Scope returns a Scope bound to this context's own push/pop stacks.
func (c *Context) Scope() Scope { return Scope{ctx: c} }

// Clock returns the clock active at the top of this scope's stack, or nil.
func (s Scope) Clock() *node.Clock { return s.ctx.CurrentClock() }

// Reset returns the reset active at the top of this scope's stack, or nil.
func (s Scope) Reset() *node.Reset { return s.ctx.CurrentReset() }

// PushClock pushes clk as the active clock for the remainder of this
// scope's lifetime, until PopClock is called. Registers and sync memory
// ports created while clk is active bind to its (clock, polarity) domain
//.
func (c *Context) PushClock(clk *node.Clock) {
	c.clockStack = append(c.clockStack, clk)
}

// PopClock removes the most recently pushed clock. Panics if the stack is
// empty, a programmer-invariant violation (mismatched push/pop), not a
// caller-data error.
func (c *Context) PopClock() {
	if len(c.clockStack) == 0 {
		panic("fabric: PopClock on empty clock stack")
	}
	c.clockStack = c.clockStack[:len(c.clockStack)-1]
}

// CurrentClock returns the top of the clock stack, or nil if no clock is
// currently active.
func (c *Context) CurrentClock() *node.Clock {
	if len(c.clockStack) == 0 {
		return nil
	}
	return c.clockStack[len(c.clockStack)-1]
}

// PushReset pushes rst as the active reset for the remainder of this
// scope's lifetime, until PopReset is called.
func (c *Context) PushReset(rst *node.Reset) {
	c.resetStack = append(c.resetStack, rst)
}

// PopReset removes the most recently pushed reset. Panics if the stack is
// empty.
func (c *Context) PopReset() {
	if len(c.resetStack) == 0 {
		panic("fabric: PopReset on empty reset stack")
	}
	c.resetStack = c.resetStack[:len(c.resetStack)-1]
}

// CurrentReset returns the top of the reset stack, or nil if no reset is
// currently active.
func (c *Context) CurrentReset() *node.Reset {
	if len(c.resetStack) == 0 {
		return nil
	}
	return c.resetStack[len(c.resetStack)-1]
}
