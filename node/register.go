package node

// ClockDomainID identifies a (clock node, polarity) pair. IDs are
// compared for equality only — never ordered. The id stored on a Register
// comes from a process-wide monotonic counter owned by the fabric package;
// sched numbers its own ClockDomain groups separately, starting from 1 per
// schedule.
type ClockDomainID uint64

// reg source-edge slots, fixed positions so Register's accessors can index
// directly instead of scanning.
const (
	regSlotNext = iota
	regSlotInit
	regSlotAsyncReset
	regSlotClockEnable
	regSlotResetValue
	regSlotCount
)

// Register holds a two-phase (current/next) state cell.
// AsyncReset, ClockEnable and ResetValue edges are nullable; Next and Init
// are not, though Next may be supplied after construction via SetNext
//.
type Register struct {
	base
	domain  ClockDomainID
	clock   *Clock
	nextSet bool
}

// NewRegister constructs a Register node. next may be nil, to be filled in
// later via SetNext exactly once. asyncReset, clockEnable and
// resetValue may be nil. init and clock must not be nil.
func NewRegister(
	id ID,
	domain ClockDomainID,
	clock *Clock,
	asyncReset, clockEnable, resetValue, init, next Node,
	name, location string,
) *Register {
	if init == nil {
		panic("node: Register requires an initial-value source")
	}
	if clock == nil {
		panic("node: Register requires a clock")
	}
	sources := make([]Node, regSlotCount)
	sources[regSlotInit] = init
	sources[regSlotAsyncReset] = asyncReset
	sources[regSlotClockEnable] = clockEnable
	sources[regSlotResetValue] = resetValue
	sources[regSlotNext] = next

	r := &Register{
		base:   newBase(id, KindRegister, init.Width(), name, location, sources),
		domain: domain,
		clock:  clock,
	}
	r.nextSet = next != nil
	return r
}

// Domain returns the clock domain this register commits on.
func (r *Register) Domain() ClockDomainID { return r.domain }

// Clock returns the clock node this register's domain is derived from, so
// sched can group registers, sync memory read ports and write ports that
// share a physical clock into one edge-detection domain without needing to
// re-derive fabric's domain-id allocation.
func (r *Register) Clock() *Clock { return r.clock }

// Init returns the initial-value source, used at reset_state and at
// cycle 0.
func (r *Register) Init() Node { return r.sources[regSlotInit] }

// AsyncReset returns the async-reset source edge, or nil if the register
// has no asynchronous reset.
func (r *Register) AsyncReset() Node { return r.sources[regSlotAsyncReset] }

// ClockEnable returns the clock-enable source edge, or nil if the register
// always commits on its active edge.
func (r *Register) ClockEnable() Node { return r.sources[regSlotClockEnable] }

// ResetValue returns the reset-value source edge, or nil, in which case
// Init's value is used on reset.
func (r *Register) ResetValue() Node { return r.sources[regSlotResetValue] }

// Next returns the next-value source edge, or nil if SetNext has not yet
// been called (a finalize-time UnboundNext error).
func (r *Register) Next() Node { return r.sources[regSlotNext] }

// HasNext reports whether a next-value source has been bound.
func (r *Register) HasNext() bool { return r.nextSet }

// SetNext binds the register's next-value source exactly once. A second
// call panics,: "second set_next is a caller error." Once bound,
// the next edge cannot be replaced; fabric's only redirecting edit is
// SetProxySource, which applies to proxies.
func (r *Register) SetNext(next Node) {
	if r.nextSet {
		panic("node: Register.SetNext called twice for " + r.name)
	}
	if next.Width() != r.width {
		panic("node: Register.SetNext width mismatch")
	}
	r.setSource(regSlotNext, next)
	r.nextSet = true
}
