// Package diag implements the error taxonomy and a lint-style
// diagnostic report, grounded on verify.Issue/verify.VerificationReport in
// the teacher. Every fatal kind here is a typed Go error returned to the
// caller with node ids, names and locations, propagation rule.
// AddressOutOfRange is not an error: it is represented only as a
// non-fatal AddressOutOfRangeEvent that runtime logs rather than returns.
// DuplicateWrite is not an error either and has no type here at all.
package diag

import "fmt"

// WidthMismatchError reports an op/mux/register source whose width
// violates per-kind width rules.
type WidthMismatchError struct {
	NodeName string
	Location string
	Context  string // e.g. "mux true/false branch", "op lhs/rhs"
	Expected uint
	Got      uint
}

func (e *WidthMismatchError) Error() string {
	return fmt.Sprintf("width mismatch at %s (%s): expected width %d, got %d [%s]",
		e.NodeName, e.Context, e.Expected, e.Got, e.Location)
}

// InvalidEdgeError reports a source edge pointing outside its owning
// context, or a write port attached to a ROM.
type InvalidEdgeError struct {
	NodeName string
	Location string
	Reason   string
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("invalid edge at %s: %s [%s]", e.NodeName, e.Reason, e.Location)
}

// CombinationalCycleError reports a cycle found among combinational-kind
// nodes at finalize time. NodeNames lists every node the topological sort
// could not place, in node-id order: the nodes on a cycle plus any node
// downstream of one. It does not isolate a single cycle.
type CombinationalCycleError struct {
	NodeNames []string
}

func (e *CombinationalCycleError) Error() string {
	return fmt.Sprintf("combinational cycle detected: %v", e.NodeNames)
}

// UnboundNextError reports a register with no next-value source at
// finalize.
type UnboundNextError struct {
	RegisterName string
	Location     string
}

func (e *UnboundNextError) Error() string {
	return fmt.Sprintf("register %q has no next-value source [%s]", e.RegisterName, e.Location)
}

// InitOverflowError reports a memory init entry wider than the memory's
// data width.
type InitOverflowError struct {
	MemoryName string
	Location   string
	Index      int
	DataWidth  uint
	EntryWidth uint
}

func (e *InitOverflowError) Error() string {
	return fmt.Sprintf("memory %q init[%d] is %d bits wide, wider than data width %d [%s]",
		e.MemoryName, e.Index, e.EntryWidth, e.DataWidth, e.Location)
}

// AddressOutOfRangeEvent is not an error: reads wrap modulo depth,
// writes are silently dropped, both deterministic. runtime logs one of
// these at slog.LevelWarn whenever it degrades a read or write this way.
type AddressOutOfRangeEvent struct {
	MemoryName string
	Address    uint64
	Depth      uint64
	WasWrite   bool
}

func (e AddressOutOfRangeEvent) String() string {
	op := "read"
	if e.WasWrite {
		op = "write"
	}
	return fmt.Sprintf("address %d out of range for memory %q (depth %d) on %s", e.Address, e.MemoryName, e.Depth, op)
}
