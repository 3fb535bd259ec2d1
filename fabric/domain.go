package fabric

import (
	"sync"
	"sync/atomic"

	"github.com/sarchlab/hdlsim/node"
)

// domainCounter is the process-wide, monotonic, never-reset clock-domain
// id allocator: ids are compared for equality only, not ordered, and the
// counter is initialized once at process start and never reset.
var domainCounter atomic.Uint64

// domainKey identifies a (clock node, polarity) pair. node.Node is an
// interface over a pointer to a comparable struct, so it is safe as a map
// key; two different Clock nodes (even across contexts) never compare
// equal.
type domainKey struct {
	clock    *node.Clock
	polarity node.Polarity
}

var (
	domainMu  sync.Mutex
	domainIDs = map[domainKey]node.ClockDomainID{}
)

// domainIDFor returns the stable ClockDomainID for (clock, polarity),
// allocating one on first use. Repeated calls with the same pair (even
// from different contexts, though contexts never actually share a Clock
// node since nodes belong to exactly one context) return the same id.
func domainIDFor(clock *node.Clock, polarity node.Polarity) node.ClockDomainID {
	key := domainKey{clock: clock, polarity: polarity}

	domainMu.Lock()
	defer domainMu.Unlock()

	if id, ok := domainIDs[key]; ok {
		return id
	}
	id := node.ClockDomainID(domainCounter.Add(1))
	domainIDs[key] = id
	return id
}

// ClockDomain is the (clock node, polarity) pair a register or sync memory
// port commits on, with its resolved id attached.
type ClockDomain struct {
	ID       node.ClockDomainID
	Clock    *node.Clock
	Polarity node.Polarity
}

func newClockDomain(clock *node.Clock, polarity node.Polarity) ClockDomain {
	return ClockDomain{ID: domainIDFor(clock, polarity), Clock: clock, Polarity: polarity}
}
