package fabric

// Instance is an opaque handle to a child context created through
// Instantiate, representing module hierarchy. The spec treats
// hierarchy's detailed behavior as out of scope; Instance only carries the
// child context and a name, and never participates in scheduling — a
// child's nodes are finalized independently through the child's own
// Context.Finalize.
type Instance struct {
	name  string
	child *Context
}

// Name returns the instance name this child was created under.
func (i *Instance) Name() string { return i.name }

// Context returns the child context, for wiring driven inputs/outputs
// across the hierarchy boundary.
func (i *Instance) Context() *Context { return i.child }

// Instantiate creates a child context representing a nested module.
// The parent holds the returned Instance by reference; the child's nodes
// are entirely separate from the parent's node registry and id space.
func (c *Context) Instantiate(childName string) *Instance {
	c.mu.Lock()
	if c.children == nil {
		c.children = make(map[string]*Context)
	}
	child := NewContext(c.name + "." + childName)
	c.children[childName] = child
	c.mu.Unlock()

	return &Instance{name: childName, child: child}
}
