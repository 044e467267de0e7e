// Package config resolves raw tenant deployment descriptors into a typed,
// validated workload configuration tree.
//
// A descriptor is a nested map produced by an external loader. Keys may use
// hyphens or underscores interchangeably; Resolve normalizes each nesting
// level, constructs the typed entities bottom-up (workload, clusters,
// node pools, sites), derives implied state and validates cross-field
// invariants. The first failure aborts the whole resolution.
//
// The resulting tree is read-only: consumers never mutate it, and repeated
// resolution of the same descriptor yields field-for-field equal trees with
// identical collection ordering.
package config
