// Package netplan contains the deterministic network planning helpers used
// when emitting VPC resources from a resolved workload configuration: a
// subnet planner that splits one address block into private, public and
// managed-service groups, and a priority allocator for ordered NACL rules.
//
// Everything in this package is pure computation. No cloud API is consulted
// and no state outlives the construction of one network boundary.
package netplan
