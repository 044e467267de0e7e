package netplan

import "fmt"

// Direction selects which rule counter an allocation draws from. Inbound
// and outbound rules are numbered independently on a network boundary.
type Direction string

const (
	// DirectionInbound numbers rules evaluated against ingress traffic.
	DirectionInbound Direction = "inbound"
	// DirectionOutbound numbers rules evaluated against egress traffic.
	DirectionOutbound Direction = "outbound"
)

// Standing rule numbers reserved below the allocator baseline. Callers
// install these rules directly at the literal numbers before drawing any
// allocated priorities.
const (
	// RuleIntraVPCAllow is the standing allow for traffic inside the boundary.
	RuleIntraVPCAllow = 1000
	// RuleCatchAllDeny is the standing IPv4 deny near the end of the table.
	RuleCatchAllDeny = 9000
	// RuleCatchAllDenyIPv6 is the standing IPv6 deny paired with RuleCatchAllDeny.
	RuleCatchAllDenyIPv6 = 9001
	// RuleEphemeralAllow is the standing allow for ephemeral return ports.
	RuleEphemeralAllow = 10000
)

const (
	// priorityBaseline is the first number handed out per direction,
	// chosen above the standing rules.
	priorityBaseline = 2000
	// priorityStep is the counter advance per allocation. It is larger
	// than any realistic batch so rules can be inserted by hand between
	// allocator-issued batches without renumbering.
	priorityStep = 500
)

// PriorityAllocator hands out non-colliding NACL rule numbers for one
// network boundary. Each direction has its own counter starting at the
// baseline; every allocation returns consecutive numbers and then advances
// the counter by a full step, so ranges from successive calls never overlap
// and are strictly increasing.
//
// An allocator is not safe for concurrent use. Scope one instance to one
// boundary's construction pass and discard it afterwards.
type PriorityAllocator struct {
	next map[Direction]int64
}

// NewPriorityAllocator returns an allocator with both direction counters
// at the baseline.
func NewPriorityAllocator() *PriorityAllocator {
	return &PriorityAllocator{
		next: map[Direction]int64{
			DirectionInbound:  priorityBaseline,
			DirectionOutbound: priorityBaseline,
		},
	}
}

// Next returns n consecutive rule numbers for the given direction and
// advances that direction's counter to the start of the next batch. The
// counter always advances by whole steps, so a batch larger than one step
// consumes as many steps as it spans.
func (a *PriorityAllocator) Next(dir Direction, n int) ([]int64, error) {
	start, ok := a.next[dir]
	if !ok {
		return nil, fmt.Errorf("unknown direction %q", dir)
	}
	if n <= 0 {
		return nil, fmt.Errorf("rule count must be positive, got %d", n)
	}

	nums := make([]int64, n)
	for i := range nums {
		nums[i] = start + int64(i)
	}

	steps := (int64(n) + priorityStep - 1) / priorityStep
	a.next[dir] = start + steps*priorityStep

	return nums, nil
}
