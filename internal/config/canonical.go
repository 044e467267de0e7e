package config

import (
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

// Derived-state rules. Everything here computes fields that are logical
// consequences of other fields and must be idempotent: resolving the same
// descriptor twice never stacks a second copy of any derived entry.

// canonicalizeClusterBase normalizes the sentinel-valued cluster fields.
// A blank image tag means "most recent", so it coerces to the sentinel
// rather than staying blank.
func canonicalizeClusterBase(base *ClusterBase) {
	if strings.TrimSpace(base.ServerImageTag) == "" {
		base.ServerImageTag = ImageTagLatest
	}
}

// canonicalizeNodePool inserts the session taint on session-isolated
// pools. Taint identity for this rule is (key, effect) only: a taint that
// already matches on both keeps its value, whatever it is, and no second
// entry is added.
func canonicalizeNodePool(pool *NodePoolConfig) {
	if !pool.SessionTaints {
		return
	}
	for _, taint := range pool.Taints {
		if taint.Key == SessionTaintKey && taint.Effect == SessionTaintEffect {
			return
		}
	}
	pool.Taints = append(pool.Taints, corev1.Taint{
		Key:    SessionTaintKey,
		Value:  SessionTaintValue,
		Effect: SessionTaintEffect,
	})
}

// deriveDomainClass classifies a site whose descriptor omits the class:
// the main site serves the apex domain, every other site a subdomain.
func deriveDomainClass(base *SiteBase) DomainClass {
	if base.Main {
		return DomainClassApex
	}
	return DomainClassSubdomain
}

// Tag is one resource tag in the canonical sorted order.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SortedResourceTags returns the workload's resource tags in sorted-key
// order. Map iteration order must never leak into emitted resources, so
// consumers iterate tags through this accessor.
func (w *WorkloadConfig) SortedResourceTags() []Tag {
	return sortTags(w.ResourceTags)
}

// ClusterTags returns the tags for one cluster: the workload tags plus the
// identifying tags derived from the workload and cluster names, in
// sorted-key order.
func (w *WorkloadConfig) ClusterTags(name string) []Tag {
	merged := make(map[string]string, len(w.ResourceTags)+3)
	for k, v := range w.ResourceTags {
		merged[k] = v
	}
	merged["workload"] = w.TrueName
	merged["environment"] = w.Environment
	merged["cluster"] = name
	return sortTags(merged)
}

func sortTags(tags map[string]string) []Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Tag, len(keys))
	for i, k := range keys {
		out[i] = Tag{Key: k, Value: tags[k]}
	}
	return out
}

// Canonical returns the canonical serialized form of the tree. Marshalling
// goes through JSON, which emits map keys in sorted order, so two equal
// logical configurations always serialize identically.
func (w *WorkloadConfig) Canonical() ([]byte, error) {
	return yaml.Marshal(w)
}

// parseTaintEffect coerces a loosely-cased taint effect into the canonical
// member. Taints always carry an effect.
func parseTaintEffect(s, path string) (corev1.TaintEffect, error) {
	switch coerceEnum(s) {
	case "noschedule":
		return corev1.TaintEffectNoSchedule, nil
	case "prefernoschedule":
		return corev1.TaintEffectPreferNoSchedule, nil
	case "noexecute":
		return corev1.TaintEffectNoExecute, nil
	default:
		return "", &UnknownFieldValueError{
			Path:  path,
			Value: s,
			Allowed: []string{
				string(corev1.TaintEffectNoSchedule),
				string(corev1.TaintEffectPreferNoSchedule),
				string(corev1.TaintEffectNoExecute),
			},
		}
	}
}

// parseTolerationOperator coerces a toleration operator; an absent
// operator defaults to Equal, matching the Kubernetes default.
func parseTolerationOperator(s, path string) (corev1.TolerationOperator, error) {
	switch coerceEnum(s) {
	case "", "equal":
		return corev1.TolerationOpEqual, nil
	case "exists":
		return corev1.TolerationOpExists, nil
	default:
		return "", &UnknownFieldValueError{
			Path:  path,
			Value: s,
			Allowed: []string{
				string(corev1.TolerationOpEqual),
				string(corev1.TolerationOpExists),
			},
		}
	}
}

// parseRequirementOperator coerces a scheduling requirement operator.
func parseRequirementOperator(s, path string) (corev1.NodeSelectorOperator, error) {
	switch coerceEnum(s) {
	case "in":
		return corev1.NodeSelectorOpIn, nil
	case "notin":
		return corev1.NodeSelectorOpNotIn, nil
	case "exists":
		return corev1.NodeSelectorOpExists, nil
	case "doesnotexist":
		return corev1.NodeSelectorOpDoesNotExist, nil
	case "gt":
		return corev1.NodeSelectorOpGt, nil
	case "lt":
		return corev1.NodeSelectorOpLt, nil
	default:
		return "", &UnknownFieldValueError{
			Path:  path,
			Value: s,
			Allowed: []string{
				string(corev1.NodeSelectorOpIn),
				string(corev1.NodeSelectorOpNotIn),
				string(corev1.NodeSelectorOpExists),
				string(corev1.NodeSelectorOpDoesNotExist),
				string(corev1.NodeSelectorOpGt),
				string(corev1.NodeSelectorOpLt),
			},
		}
	}
}
