package node

// Input is a width-w node whose value is either set directly by the
// simulation host (runtime.Simulator.SetInput) or driven by an outer
// module through a driver edge. Proxy is a pure structural alias
// used for wiring without introducing new semantics ("proxy"
// instruction).
type Input struct {
	base
}

// NewInput constructs an Input node. driver is nil unless the input is
// wired by an outer module; when non-nil it is stored as the sole source
// edge.
func NewInput(id ID, width uint, name, location string, driver Node) *Input {
	var sources []Node
	if driver != nil {
		sources = []Node{driver}
	}
	return &Input{base: newBase(id, KindInput, width, name, location, sources)}
}

// Driver returns the optional driver edge, or nil if the input is a free
// top-level input set directly by the host.
func (in *Input) Driver() Node {
	if len(in.sources) == 0 {
		return nil
	}
	return in.sources[0]
}

// Output observes a single source node's value each cycle. Source
// index 0 is the driving expression.
type Output struct {
	base
}

// NewOutput constructs an Output node with its single source edge.
func NewOutput(id ID, source Node, name, location string) *Output {
	return &Output{base: newBase(id, KindOutput, source.Width(), name, location, []Node{source})}
}

// Source returns the node this output copies its value from each cycle.
func (o *Output) Source() Node { return o.sources[0] }

// Proxy is a pure copy node used for structural aliasing.
type Proxy struct {
	base
}

// NewProxy constructs a Proxy node aliasing source.
func NewProxy(id ID, source Node, name, location string) *Proxy {
	return &Proxy{base: newBase(id, KindProxy, source.Width(), name, location, []Node{source})}
}

// Source returns the aliased node.
func (p *Proxy) Source() Node { return p.sources[0] }

// SetSource replaces the aliased node, used by structural edits (the
// set_src primitive) when a proxy stands in for a not-yet-known driver.
func (p *Proxy) SetSource(n Node) {
	if n.Width() != p.width {
		panic("node: Proxy.SetSource width mismatch")
	}
	p.setSource(0, n)
}
