// Package fabric implements the context and node factory and the
// clock/reset scope stacks: the single entry point through which a
// caller builds an elaboration graph out of node.Node values. Grounded on
// core.Builder's fluent construction style and on config.DeviceBuilder's
// validate-then-panic-or-return-error split.
package fabric

import (
	"fmt"
	"sync"

	"github.com/sarchlab/hdlsim/diag"
	"github.com/sarchlab/hdlsim/node"
	"github.com/sarchlab/hdlsim/sched"
	"github.com/sarchlab/hdlsim/sdata"
)

// Context owns every node created through it, allocates their ids, and
// carries the clock/reset scope stacks. A Context is not safe
// for concurrent elaboration from multiple goroutines without external
// synchronization beyond what mu provides for id/registry bookkeeping;
// elaboration is expected to be single-threaded per context, the way the
// teacher's Builder.Build is.
type Context struct {
	name string

	mu     sync.Mutex
	nextID uint64
	nodes  map[node.ID]node.Node

	literalCache map[literalKey]*node.Literal

	clockStack []*node.Clock
	resetStack []*node.Reset

	children map[string]*Context
}

type literalKey struct {
	width uint
	value uint64
}

// NewContext creates an empty elaboration context. name is used only for
// diagnostics (error messages, child-instance naming).
func NewContext(name string) *Context {
	return &Context{
		name:         name,
		nodes:        make(map[node.ID]node.Node),
		literalCache: make(map[literalKey]*node.Literal),
	}
}

func (c *Context) allocID() node.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return node.ID(c.nextID)
}

func (c *Context) register(n node.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes[n.ID()] = n
}

// Nodes returns every node this context has created, in no particular
// order. sched.Compile imposes the actual topological order at finalize
// time; this is the flat, pre-schedule node set.
func (c *Context) Nodes() []node.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]node.Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		out = append(out, n)
	}
	return out
}

// CreateLiteral returns a Literal node carrying value. Equal (width, value)
// pairs are deduplicated (optional CSE) — calling this twice with
// the same value returns the same node.
func (c *Context) CreateLiteral(value sdata.Value, name string) *node.Literal {
	key := literalKey{width: value.Width(), value: value.Uint64()}

	c.mu.Lock()
	if lit, ok := c.literalCache[key]; ok {
		c.mu.Unlock()
		return lit
	}
	c.mu.Unlock()

	lit := node.NewLiteral(c.allocID(), value, name, c.name)
	c.register(lit)

	c.mu.Lock()
	c.literalCache[key] = lit
	c.mu.Unlock()
	return lit
}

// CreateInput creates a free top-level input of the given width, set each
// cycle by the simulation host.
func (c *Context) CreateInput(width uint, name string) *node.Input {
	in := node.NewInput(c.allocID(), width, name, c.name, nil)
	c.register(in)
	return in
}

// CreateDrivenInput creates an input wired to an outer-module driver edge
//, for the module-hierarchy case where an inner context's input is
// fed by an expression in the enclosing context.
func (c *Context) CreateDrivenInput(width uint, name string, driver node.Node) (*node.Input, error) {
	if driver.Width() != width {
		return nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "input driver", Expected: width, Got: driver.Width()}
	}
	in := node.NewInput(c.allocID(), width, name, c.name, driver)
	c.register(in)
	return in, nil
}

// CreateOutput creates an output that copies source's value every cycle.
func (c *Context) CreateOutput(source node.Node, name string) *node.Output {
	out := node.NewOutput(c.allocID(), source, name, c.name)
	c.register(out)
	return out
}

// CreateProxy creates a structural alias for source ("proxy"
// instruction).
func (c *Context) CreateProxy(source node.Node, name string) *node.Proxy {
	p := node.NewProxy(c.allocID(), source, name, c.name)
	c.register(p)
	return p
}

// SetProxySource redirects an existing proxy's aliased node, the general
// set_src structural-edit primitive specialized to proxies (the
// only node kind the spec allows redirecting after construction, besides a
// register's once-only next edge).
func (c *Context) SetProxySource(p *node.Proxy, source node.Node) error {
	if source.Width() != p.Width() {
		return &diag.WidthMismatchError{NodeName: p.Name(), Location: c.name, Context: "proxy source", Expected: p.Width(), Got: source.Width()}
	}
	p.SetSource(source)
	return nil
}

// CreateOp creates a combinational operator node. For BitsExtract the
// operands are [source, lowIndexLiteral, highIndexLiteral]; for BitSel they
// are [source, indexLiteral]; for Concat they are [high, low]; for
// SExt/ZExt they are [source] alone and explicitWidth is the target width.
// Every other opcode derives its width from operands width
// rules and explicitWidth is ignored.
func (c *Context) CreateOp(opcode node.Opcode, signed bool, operands []node.Node, explicitWidth uint, name string) (*node.Op, error) {
	width, err := c.opWidth(opcode, operands, explicitWidth, name)
	if err != nil {
		return nil, err
	}
	op := node.NewOp(c.allocID(), opcode, signed, width, operands, name, c.name)
	c.register(op)
	return op, nil
}

func (c *Context) opWidth(opcode node.Opcode, operands []node.Node, explicitWidth uint, name string) (uint, error) {
	if len(operands) == 0 {
		return 0, &diag.InvalidEdgeError{NodeName: name, Location: c.name, Reason: "operator has no operands"}
	}
	switch node.WidthRuleFor(opcode) {
	case node.WidthRuleFixedOne:
		return 1, nil
	case node.WidthRuleLeftOperand:
		return operands[0].Width(), nil
	case node.WidthRuleExplicit:
		if explicitWidth == 0 {
			return 0, &diag.InvalidEdgeError{NodeName: name, Location: c.name, Reason: "opcode requires an explicit width"}
		}
		return explicitWidth, nil
	default: // WidthRuleMaxOperand
		max := operands[0].Width()
		for _, o := range operands[1:] {
			if node.IsBinary(opcode) {
				if o.Width() != max {
					return 0, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "op operand", Expected: max, Got: o.Width()}
				}
			}
			if o.Width() > max {
				max = o.Width()
			}
		}
		return max, nil
	}
}

// CreateMux creates a Mux node, validating that cond is width 1 and the
// two branches agree in width.
func (c *Context) CreateMux(cond, t, f node.Node, name string) (*node.Mux, error) {
	if cond.Width() != 1 {
		return nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "mux cond", Expected: 1, Got: cond.Width()}
	}
	if t.Width() != f.Width() {
		return nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "mux true/false branch", Expected: t.Width(), Got: f.Width()}
	}
	mux := node.NewMux(c.allocID(), cond, t, f, name, c.name)
	c.register(mux)
	return mux, nil
}

// CreateClock creates a clock node of the given default polarity.
func (c *Context) CreateClock(polarity node.Polarity, name string) *node.Clock {
	clk := node.NewClock(c.allocID(), polarity, name, c.name)
	c.register(clk)
	return clk
}

// CreateReset creates a reset node of the given kind.
func (c *Context) CreateReset(kind node.ResetKind, name string) *node.Reset {
	rst := node.NewReset(c.allocID(), kind, name, c.name)
	c.register(rst)
	return rst
}

// RegOption customizes CreateReg beyond the required init value and the
// ambient clock/reset scope.
type RegOption func(*regSpec)

type regSpec struct {
	clock       *node.Clock
	reset       *node.Reset
	clockEnable node.Node
	resetValue  node.Node
	next        node.Node
}

// WithClock overrides the clock bound to the current scope.
func WithClock(clk *node.Clock) RegOption { return func(s *regSpec) { s.clock = clk } }

// WithReset overrides the reset bound to the current scope.
func WithReset(rst *node.Reset) RegOption { return func(s *regSpec) { s.reset = rst } }

// WithClockEnable attaches a width-1 clock-enable edge: the register only
// commits on its active edge when this signal is 1.
func WithClockEnable(ce node.Node) RegOption { return func(s *regSpec) { s.clockEnable = ce } }

// WithResetValue overrides the value driven on reset; if omitted, Init's
// value is used.
func WithResetValue(rv node.Node) RegOption { return func(s *regSpec) { s.resetValue = rv } }

// WithNext supplies the next-value source immediately instead of via a
// later SetNext call.
func WithNext(next node.Node) RegOption { return func(s *regSpec) { s.next = next } }

// CreateReg creates a register whose initial value is init, bound to the
// clock and reset currently active in this context's scope
// unless overridden by options. Only an asynchronous reset is wired onto
// the register's own AsyncReset/ResetValue source edges: a synchronous
// reset does not become a register source edge at all, since synchronous
// reset is sampled on the clock edge like any other combinational input —
// callers express it by muxing the reset condition into the next-value
// expression before calling SetNext/WithNext (cross-checked against
// original_source/include/ast/resetimpl.h). Because of that, CreateReg
// rejects a sync-kind reset active in scope outright rather than silently
// building a register that never resets: there is no source edge on
// node.Register for it to land on, so leaving it unrejected would drop the
// reset without a trace.
func (c *Context) CreateReg(init node.Node, name string, opts ...RegOption) (*node.Register, error) {
	spec := regSpec{clock: c.CurrentClock(), reset: c.CurrentReset()}
	for _, opt := range opts {
		opt(&spec)
	}

	if spec.resetValue != nil && spec.resetValue.Width() != init.Width() {
		return nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "register reset value", Expected: init.Width(), Got: spec.resetValue.Width()}
	}
	if spec.clockEnable != nil && spec.clockEnable.Width() != 1 {
		return nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "register clock enable", Expected: 1, Got: spec.clockEnable.Width()}
	}
	if spec.clock == nil {
		return nil, &diag.InvalidEdgeError{NodeName: name, Location: c.name, Reason: "no clock active in scope for register"}
	}
	if spec.reset != nil && !spec.reset.ResetKind().IsAsync() {
		return nil, &diag.InvalidEdgeError{NodeName: name, Location: c.name, Reason: "synchronous reset active in scope has no register source edge; mux it into next before calling SetNext/WithNext instead"}
	}

	domain := newClockDomain(spec.clock, spec.clock.Polarity())

	var asyncReset, resetValue node.Node
	if spec.reset != nil && spec.reset.ResetKind().IsAsync() {
		asyncReset = spec.reset
		resetValue = spec.resetValue
		if resetValue == nil {
			resetValue = init
		}
	}

	id := c.allocID()
	reg := node.NewRegister(id, domain.ID, spec.clock, asyncReset, spec.clockEnable, resetValue, init, spec.next, name, c.name)
	c.register(reg)
	return reg, nil
}

// SetNext binds reg's next-value source exactly once, validating width
// before delegating to node.Register.SetNext (which panics on mismatch or
// double-bind — programmer errors this wrapper turns into returned errors
// for the double-bind case, since a caller calling SetNext twice is a
// caller mistake, not a library-internal invariant violation).
func (c *Context) SetNext(reg *node.Register, next node.Node) error {
	if reg.HasNext() {
		return &diag.InvalidEdgeError{NodeName: reg.Name(), Location: c.name, Reason: "next already bound"}
	}
	if next.Width() != reg.Width() {
		return &diag.WidthMismatchError{NodeName: reg.Name(), Location: c.name, Context: "register next", Expected: reg.Width(), Got: next.Width()}
	}
	reg.SetNext(next)
	return nil
}

// CreateMemory creates a Memory node. init may be shorter than depth
// (zero-padded); any entry wider than dataWidth is an InitOverflowError.
// byteEnable turns on lane-granular writes: banks must then evenly divide
// dataWidth into 8-bit lanes (dataWidth == banks*8). banks is ignored when
// byteEnable is false.
func (c *Context) CreateMemory(addrWidth, dataWidth uint, depth uint64, banks uint, byteEnable, isROM bool, init []sdata.Value, name string) (*node.Memory, error) {
	if byteEnable && (banks == 0 || dataWidth != banks*8) {
		return nil, &diag.InvalidEdgeError{NodeName: name, Location: c.name, Reason: "byte-enable memory requires dataWidth == banks*8"}
	}
	for i, v := range init {
		if v.Width() > dataWidth {
			return nil, &diag.InitOverflowError{MemoryName: name, Location: c.name, Index: i, DataWidth: dataWidth, EntryWidth: v.Width()}
		}
	}
	mem := node.NewMemory(c.allocID(), addrWidth, dataWidth, depth, banks, byteEnable, isROM, init, name, c.name)
	c.register(mem)
	return mem, nil
}

// CreateMemReadPort creates a read port on mem. For MemPortSync ports the
// clock is always the one active in the current scope; MemPortAsync
// ports ignore the clock entirely. The port's separate data-output
// proxy is created and attached in the same call, since the spec always
// treats a read port as exposing its result through a normal node.
func (c *Context) CreateMemReadPort(mem *node.Memory, kind node.MemPortKind, addr, enable node.Node, name string) (*node.MemReadPort, *node.Proxy, error) {
	if addr.Width() != mem.AddrWidth() {
		return nil, nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "read port address", Expected: mem.AddrWidth(), Got: addr.Width()}
	}
	if enable != nil && enable.Width() != 1 {
		return nil, nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "read port enable", Expected: 1, Got: enable.Width()}
	}

	var clock node.Node
	if kind == node.MemPortSync {
		clk := c.CurrentClock()
		if clk == nil {
			return nil, nil, &diag.InvalidEdgeError{NodeName: name, Location: c.name, Reason: "synchronous read port with no clock active in scope"}
		}
		clock = clk
	}

	portID := len(mem.ReadPorts())
	rp := node.NewMemReadPort(c.allocID(), mem, portID, kind, clock, addr, enable, name, c.name)
	c.register(rp)

	out := node.NewProxy(c.allocID(), rp, name+".out", c.name)
	rp.AttachDataOut(out)
	c.register(out)
	return rp, out, nil
}

// CreateMemWritePort creates a write port on mem. Write ports on a ROM are
// rejected with InvalidEdgeError before any node is constructed. The
// clock is always the one active in the current scope, whatever clocks
// other ports of mem use — write ports are always synchronous. When mem has byte
// enable, enable is a per-lane mask (width == mem.Banks()) rather than a
// single whole-word enable bit.
func (c *Context) CreateMemWritePort(mem *node.Memory, addr, wdata, enable node.Node, name string) (*node.MemWritePort, error) {
	if mem.IsROM() {
		return nil, &diag.InvalidEdgeError{NodeName: name, Location: c.name, Reason: "cannot attach a write port to a read-only memory"}
	}
	if addr.Width() != mem.AddrWidth() {
		return nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "write port address", Expected: mem.AddrWidth(), Got: addr.Width()}
	}
	if wdata.Width() != mem.DataWidth() {
		return nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "write port data", Expected: mem.DataWidth(), Got: wdata.Width()}
	}
	wantEnableWidth := uint(1)
	if mem.ByteEnable() {
		wantEnableWidth = mem.Banks()
	}
	if enable != nil && enable.Width() != wantEnableWidth {
		return nil, &diag.WidthMismatchError{NodeName: name, Location: c.name, Context: "write port enable", Expected: wantEnableWidth, Got: enable.Width()}
	}

	clk := c.CurrentClock()
	if clk == nil {
		return nil, &diag.InvalidEdgeError{NodeName: name, Location: c.name, Reason: "write port with no clock active in scope"}
	}

	portID := len(mem.WritePorts())
	wp := node.NewMemWritePort(c.allocID(), mem, portID, clk, addr, wdata, enable, name, c.name)
	c.register(wp)
	return wp, nil
}

// RemovePort unregisters a read or write port from mem and drops the port
// node from this context's registry, a structural edit, so Finalize no
// longer compiles it. A removed read port's data-output proxy stays
// registered and reads as zero. Returns false if mem has no port with
// that id.
func (c *Context) RemovePort(mem *node.Memory, portID node.ID) bool {
	if !mem.RemovePort(portID) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.nodes, portID)
	return true
}

// Finalize runs sched.Compile over every node this context has produced,
// returning either a ready-to-run Schedule or a collected Report
// describing why compilation failed. sched itself never imports fabric,
// so runtime can depend on sched+node+sdata+diag without fabric, matching
// the driver-facing contract.
func (c *Context) Finalize() (*sched.Schedule, *diag.Report) {
	collector := diag.NewCollector()
	schedule, err := sched.Compile(c.Nodes(), collector)
	report := diag.NewReport(collector, err)
	if err != nil {
		return nil, report
	}
	return schedule, report
}

func (c *Context) String() string {
	return fmt.Sprintf("fabric.Context(%s)", c.name)
}
