package netplan

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Subnet group sizes produced by Plan. Three availability zones of
// private+public coverage plus headroom for four managed-service subnets.
const (
	PrivateSubnetCount = 3
	PublicSubnetCount  = 3
	ManagedSubnetCount = 4
)

// planDepth is the number of prefix bits Plan consumes below the parent
// block: three successive splits into quarters (+2 bits each).
const planDepth = 6

// SubnetBlocks holds the subnet groups derived from one parent address
// block. Each group is in ascending address order, all blocks are disjoint
// and fully contained in the parent.
type SubnetBlocks struct {
	Private [PrivateSubnetCount]*net.IPNet
	Public  [PublicSubnetCount]*net.IPNet
	Managed [ManagedSubnetCount]*net.IPNet
}

// Plan splits the given IPv4 address block into subnet groups:
//
//   - the block is quartered; the first three quarters become the private
//     group,
//   - the last quarter is quartered again; its first three become the
//     public group,
//   - the remainder is quartered once more; all four become the managed
//     group.
//
// For 10.10.0.0/16 this yields private /18s, public /20s and managed /22s.
// Blocks whose prefix cannot shrink by six bits (IPv4 prefixes longer than
// /26) are rejected rather than silently producing degenerate subnets.
func Plan(block string) (*SubnetBlocks, error) {
	_, parent, err := net.ParseCIDR(block)
	if err != nil {
		return nil, fmt.Errorf("invalid address block: %w", err)
	}
	if parent.IP.To4() == nil {
		return nil, fmt.Errorf("only IPv4 address blocks are supported, got %s", block)
	}

	ones, bits := parent.Mask.Size()
	if ones+planDepth > bits {
		return nil, fmt.Errorf("address block %s is too small to plan: need a /%d or larger", block, bits-planDepth)
	}

	var out SubnetBlocks

	// First split: quarters of the parent.
	for i := 0; i < PrivateSubnetCount; i++ {
		out.Private[i] = subnet(parent, 2, i)
	}
	tail := subnet(parent, 2, 3)

	// Second split: quarters of the last quarter.
	for i := 0; i < PublicSubnetCount; i++ {
		out.Public[i] = subnet(tail, 2, i)
	}
	tail = subnet(tail, 2, 3)

	// Final split: the remainder is consumed entirely.
	for i := 0; i < ManagedSubnetCount; i++ {
		out.Managed[i] = subnet(tail, 2, i)
	}

	return &out, nil
}

// subnet returns the netnum-th child of parent after extending its prefix
// by newbits. The caller guarantees the extended prefix fits in 32 bits and
// netnum < 1<<newbits.
func subnet(parent *net.IPNet, newbits, netnum int) *net.IPNet {
	ones, bits := parent.Mask.Size()
	childOnes := ones + newbits

	base := ipToUint32(parent.IP)
	// #nosec G115
	base += uint32(netnum) << uint(bits-childOnes)

	return &net.IPNet{
		IP:   uint32ToIP(base),
		Mask: net.CIDRMask(childOnes, bits),
	}
}

// ipToUint32 converts an IPv4 address to its numeric value.
func ipToUint32(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip.To4())
}

// uint32ToIP converts a numeric value back to an IPv4 address.
func uint32ToIP(val uint32) net.IP {
	ip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(ip, val)
	return ip
}
