package node

// Mux selects between two equal-width inputs based on a width-1 condition
//. Sources()[0] = cond, [1] = true-branch, [2] = false-branch.
type Mux struct {
	base
}

// NewMux constructs a Mux node. Callers (fabric) must have already
// validated width(cond)==1 and width(t)==width(f)==width.
func NewMux(id ID, cond, t, f Node, name, location string) *Mux {
	return &Mux{base: newBase(id, KindMux, t.Width(), name, location, []Node{cond, t, f})}
}

// Cond, True, False expose the three fixed source edges by name.
func (m *Mux) Cond() Node  { return m.sources[0] }
func (m *Mux) True() Node  { return m.sources[1] }
func (m *Mux) False() Node { return m.sources[2] }
