package node

import "github.com/sarchlab/hdlsim/sdata"

// Literal carries a constant sdata.Value that is the source of truth at
// every cycle. It has no source edges.
type Literal struct {
	base
	value sdata.Value
}

// NewLiteral constructs a Literal node. Called only from fabric, which
// owns id allocation and optional CSE.
func NewLiteral(id ID, value sdata.Value, name, location string) *Literal {
	return &Literal{
		base:  newBase(id, KindLiteral, value.Width(), name, location, nil),
		value: value,
	}
}

// Value returns the literal's constant value.
func (l *Literal) Value() sdata.Value { return l.value }
