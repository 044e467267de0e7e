package config

import (
	"fmt"
	"sort"
	"strings"
)

// Resolution errors all carry the path of the offending field, including
// the collection key where applicable, e.g.
// `clusters["prod"].efs_config.file_system_id`. Resolution stops at the
// first error; no partial tree is ever returned.

// FormatError reports a value that does not match a required textual shape.
type FormatError struct {
	Path       string
	Value      string
	Constraint string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q does not match required format: %s", e.Path, e.Value, e.Constraint)
}

// MembershipError reports set elements outside a closed vocabulary.
type MembershipError struct {
	Path    string
	Invalid []string
	Allowed []string
}

func (e *MembershipError) Error() string {
	return fmt.Sprintf("%s: invalid values [%s], allowed values are [%s]",
		e.Path, strings.Join(e.Invalid, ", "), strings.Join(e.Allowed, ", "))
}

// DependencyError reports a feature flag enabled without a flag it requires.
type DependencyError struct {
	Path     string
	Flag     string
	Requires string
	Reason   string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %s requires %s: %s", e.Path, e.Flag, e.Requires, e.Reason)
}

// UniquenessError reports a value shared by two members of a sibling
// collection, e.g. two sites resolving to the same domain.
type UniquenessError struct {
	Path  string
	Value string
	Keys  []string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s: %q is used by multiple entries: %s",
		e.Path, e.Value, strings.Join(e.Keys, ", "))
}

// UnknownFieldValueError reports a string that could not be coerced into
// any member of an enum.
type UnknownFieldValueError struct {
	Path    string
	Value   string
	Allowed []string
}

func (e *UnknownFieldValueError) Error() string {
	return fmt.Sprintf("%s: unknown value %q, must be one of [%s]",
		e.Path, e.Value, strings.Join(e.Allowed, ", "))
}

// StructuralError reports a missing required collection or a malformed
// document shape.
type StructuralError struct {
	Path   string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// fieldPath joins path segments, skipping blanks so top-level fields do not
// get a leading dot.
func fieldPath(segments ...string) string {
	parts := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

// keyedPath renders a collection member path like `clusters["prod"]`.
func keyedPath(collection, key string) string {
	return fmt.Sprintf("%s[%q]", collection, key)
}

// indexedPath renders a list member path like `node_pools[2]`.
func indexedPath(collection string, i int) string {
	return fmt.Sprintf("%s[%d]", collection, i)
}

// sortedKeys returns the keys of a bool-set map in lexicographic order,
// for stable error messages.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
