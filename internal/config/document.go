package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseDocument parses YAML (or JSON) bytes into a raw descriptor map.
// Reading the bytes from disk or environment is the caller's concern.
func ParseDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	return doc, nil
}

// NormalizeKeys rewrites one mapping level's keys from hyphenated to
// underscore-separated form, returning a new map and leaving the input
// untouched. It is deliberately not recursive: the resolver normalizes
// each level right before type-constructing it.
//
// Two input keys collapsing onto the same normalized key is a structural
// error naming both originals.
func NormalizeKeys(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	origin := make(map[string]string, len(m))

	for key, value := range m {
		normalized := strings.ReplaceAll(key, "-", "_")
		if prev, dup := origin[normalized]; dup {
			pair := []string{prev, key}
			sort.Strings(pair)
			return nil, &StructuralError{
				Path:   normalized,
				Reason: fmt.Sprintf("keys %q and %q normalize to the same field", pair[0], pair[1]),
			}
		}
		origin[normalized] = key
		out[normalized] = value
	}

	return out, nil
}

// normalizeLevel coerces a raw value into a string-keyed map and
// normalizes its keys. The empty value (nil) yields an empty map.
func normalizeLevel(raw any, path string) (map[string]any, error) {
	m, err := asMap(raw, path)
	if err != nil {
		return nil, err
	}
	normalized, err := NormalizeKeys(m)
	if err != nil {
		var serr *StructuralError
		if errors.As(err, &serr) {
			serr.Path = fieldPath(path, serr.Path)
		}
		return nil, err
	}
	return normalized, nil
}

// asMap converts a raw descriptor node into a string-keyed map. YAML
// decoders may produce map[string]any or map[any]any depending on the
// document; both are accepted.
func asMap(raw any, path string) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			s, ok := key.(string)
			if !ok {
				return nil, &StructuralError{Path: path, Reason: fmt.Sprintf("non-string key %v", key)}
			}
			out[s] = value
		}
		return out, nil
	default:
		return nil, &StructuralError{Path: path, Reason: fmt.Sprintf("expected a mapping, got %T", raw)}
	}
}

// asList converts a raw descriptor node into a slice. The empty value
// (nil) yields an empty slice.
func asList(raw any, path string) ([]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	default:
		return nil, &StructuralError{Path: path, Reason: fmt.Sprintf("expected a list, got %T", raw)}
	}
}

// popMap removes key from m and returns it as a normalized map level.
// The second return reports whether the key was present.
func popMap(m map[string]any, key, path string) (map[string]any, bool, error) {
	raw, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	delete(m, key)
	level, err := normalizeLevel(raw, fieldPath(path, key))
	if err != nil {
		return nil, true, err
	}
	return level, true, nil
}

// popCollection removes key from m and returns it as a string-keyed map
// without normalizing the keys: collection keys are entity names, not
// field names, so hyphens in them are preserved.
func popCollection(m map[string]any, key, path string) (map[string]any, bool, error) {
	raw, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	delete(m, key)
	coll, err := asMap(raw, fieldPath(path, key))
	if err != nil {
		return nil, true, err
	}
	return coll, true, nil
}

// popList removes key from m and returns it as a slice.
func popList(m map[string]any, key, path string) ([]any, bool, error) {
	raw, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	delete(m, key)
	list, err := asList(raw, fieldPath(path, key))
	if err != nil {
		return nil, true, err
	}
	return list, true, nil
}

// popString removes a scalar string field from m.
func popString(m map[string]any, key, path string) (string, bool, error) {
	raw, ok := m[key]
	if !ok {
		return "", false, nil
	}
	delete(m, key)
	s, ok := raw.(string)
	if !ok {
		return "", true, &StructuralError{Path: fieldPath(path, key), Reason: fmt.Sprintf("expected a string, got %T", raw)}
	}
	return s, true, nil
}
