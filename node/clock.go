package node

// Polarity identifies which clock transition a clock domain reacts to
//.
type Polarity int

const (
	PosEdge Polarity = iota
	NegEdge
)

func (p Polarity) String() string {
	if p == PosEdge {
		return "posedge"
	}
	return "negedge"
}

// Clock is a width-1 input carrying posedge/negedge sensitivity
// information alongside its raw signal. The raw 0/1 value is
// supplied like any input; the engine tracks the previous-cycle value to
// detect transitions. Polarity is the edge every register and memory port
// bound to this clock reacts to; there is no per-register override, so a
// Clock node backs exactly one clock domain.
type Clock struct {
	base
	polarity Polarity
}

// NewClock constructs a Clock node with the given default polarity.
// Clocks have no source edges; their raw value is set by the host each
// cycle like any Input.
func NewClock(id ID, polarity Polarity, name, location string) *Clock {
	return &Clock{base: newBase(id, KindClock, 1, name, location, nil), polarity: polarity}
}

// Polarity returns the edge this clock node is sensitive to by default.
func (c *Clock) Polarity() Polarity { return c.polarity }
