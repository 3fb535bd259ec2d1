// Package node defines the closed set of IR node kinds: literal, proxy,
// input, output, op, mux, register, clock, reset, memory, and the two
// memory port kinds. A node.Node is the common interface every kind
// satisfies; kind-specific fields live on the concrete struct, mirroring
// a tagged-variant shape.
package node

import "fmt"

// ID is a stable, per-context node identifier, monotonic within the
// context that created it.
type ID uint64

// Kind is the closed tag identifying which concrete node type a Node is.
type Kind int

const (
	KindLiteral Kind = iota
	KindProxy
	KindInput
	KindOutput
	KindOp
	KindMux
	KindRegister
	KindClock
	KindReset
	KindMemory
	KindMemReadPort
	KindMemWritePort
)

// String renders a Kind for diagnostics, backed by the process-wide
// symbol table so every Kind has a stable, canonicalized name.
func (k Kind) String() string {
	return kindName(k)
}

// Node is the interface every IR node kind implements. Source edges are
// exposed positionally: Sources()[i] is the i-th fan-in edge, whose
// meaning is kind-specific (documented on each concrete type).
type Node interface {
	ID() ID
	Kind() Kind
	Width() uint
	Name() string
	Location() string
	Sources() []Node
}

// base factors out the fields every node kind shares, the way the teacher
// factors shared akita component/port fields into embeddable structs
// (sim.HookableBase in core/port.go).
type base struct {
	id       ID
	kind     Kind
	width    uint
	name     string
	location string
	sources  []Node
}

func (b *base) ID() ID            { return b.id }
func (b *base) Kind() Kind        { return b.kind }
func (b *base) Width() uint       { return b.width }
func (b *base) Name() string      { return b.name }
func (b *base) Location() string  { return b.location }
func (b *base) Sources() []Node   { return append([]Node(nil), b.sources...) }
func (b *base) setSource(i int, n Node) {
	if i < 0 || i >= len(b.sources) {
		panic(fmt.Sprintf("node: source index %d out of range (have %d)", i, len(b.sources)))
	}
	b.sources[i] = n
}

func newBase(id ID, kind Kind, width uint, name, location string, sources []Node) base {
	return base{id: id, kind: kind, width: width, name: name, location: location, sources: sources}
}
