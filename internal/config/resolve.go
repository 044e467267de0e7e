package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/mitchellh/mapstructure"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Option configures a resolution run.
type Option func(*resolver)

// WithLogger attaches a logger for debug traces. Resolution is silent by
// default.
func WithLogger(log logr.Logger) Option {
	return func(r *resolver) { r.log = log }
}

type resolver struct {
	log logr.Logger
}

// Resolve type-constructs a workload configuration tree from one raw
// descriptor. The descriptor's top level must carry a `cloud_provider`
// discriminator selecting which provider schema extension applies.
//
// Resolution is fail-fast: the first structural, format, membership,
// dependency or uniqueness violation aborts and no partial tree is
// returned. The input map is never mutated.
func Resolve(doc map[string]any, opts ...Option) (*WorkloadConfig, error) {
	r := &resolver{log: logr.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r.resolveWorkload(doc)
}

func (r *resolver) resolveWorkload(doc map[string]any) (*WorkloadConfig, error) {
	root, err := normalizeLevel(doc, "")
	if err != nil {
		return nil, err
	}

	providerRaw, ok, err := popString(root, "cloud_provider", "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &StructuralError{Path: "cloud_provider", Reason: "required provider discriminator is missing"}
	}
	provider, err := ParseProvider(providerRaw, "cloud_provider")
	if err != nil {
		return nil, err
	}

	trust := TrustNone
	if trustRaw, ok, err := popString(root, "network_trust", ""); err != nil {
		return nil, err
	} else if ok {
		trust, err = ParseNetworkTrust(trustRaw, "network_trust")
		if err != nil {
			return nil, err
		}
	}

	clustersRaw, ok, err := popCollection(root, "clusters", "")
	if err != nil {
		return nil, err
	}
	if !ok || len(clustersRaw) == 0 {
		return nil, &StructuralError{Path: "clusters", Reason: "at least one cluster is required"}
	}

	sitesRaw, ok, err := popCollection(root, "sites", "")
	if err != nil {
		return nil, err
	}
	if !ok || len(sitesRaw) == 0 {
		return nil, &StructuralError{Path: "sites", Reason: "at least one site is required"}
	}

	workload := &WorkloadConfig{
		Provider:     provider,
		NetworkTrust: trust,
		Clusters:     make(map[string]ClusterConfig, len(clustersRaw)),
		Sites:        make(map[string]SiteConfig, len(sitesRaw)),
	}
	if err := decode(root, workload, ""); err != nil {
		return nil, err
	}

	// Name-keyed collections resolve in lexicographic order so the first
	// failure is deterministic for a given descriptor.
	for _, name := range sortedNames(clustersRaw) {
		r.log.V(1).Info("resolving cluster", "cluster", name)
		cluster, err := r.resolveCluster(provider, name, clustersRaw[name])
		if err != nil {
			return nil, err
		}
		workload.Clusters[name] = cluster
	}

	for _, name := range sortedNames(sitesRaw) {
		r.log.V(1).Info("resolving site", "site", name)
		site, err := r.resolveSite(provider, name, sitesRaw[name])
		if err != nil {
			return nil, err
		}
		workload.Sites[name] = site
	}

	if err := validateWorkload(workload); err != nil {
		return nil, err
	}
	return workload, nil
}

func (r *resolver) resolveCluster(provider Provider, name string, raw any) (ClusterConfig, error) {
	path := keyedPath("clusters", name)
	m, err := normalizeLevel(raw, path)
	if err != nil {
		return nil, err
	}

	base, err := r.resolveClusterBase(m, path)
	if err != nil {
		return nil, err
	}

	switch provider {
	case ProviderAWS:
		return r.resolveAWSCluster(name, m, base, path)
	case ProviderAzure:
		return r.resolveAzureCluster(name, m, base, path)
	default:
		return nil, &UnknownFieldValueError{Path: "cloud_provider", Value: string(provider), Allowed: enumNames(ValidProviders())}
	}
}

// resolveClusterBase pops and constructs the provider-independent cluster
// collections, leaving only variant scalars in m.
func (r *resolver) resolveClusterBase(m map[string]any, path string) (*ClusterBase, error) {
	base := &ClusterBase{}

	if versionsRaw, ok, err := popMap(m, "versions", path); err != nil {
		return nil, err
	} else if ok {
		if err := decode(versionsRaw, &base.Versions, fieldPath(path, "versions")); err != nil {
			return nil, err
		}
	}

	poolsRaw, _, err := popList(m, "node_pools", path)
	if err != nil {
		return nil, err
	}
	for i, poolRaw := range poolsRaw {
		pool, err := r.resolveNodePool(poolRaw, fieldPath(path, indexedPath("node_pools", i)))
		if err != nil {
			return nil, err
		}
		base.NodePools = append(base.NodePools, *pool)
	}

	groupsRaw, ok, err := popCollection(m, "additional_node_groups", path)
	if err != nil {
		return nil, err
	}
	if ok {
		base.AdditionalNodeGroups = make(map[string]AdditionalNodeGroupConfig, len(groupsRaw))
		for _, groupName := range sortedNames(groupsRaw) {
			groupPath := fieldPath(path, keyedPath("additional_node_groups", groupName))
			group, err := r.resolveNodeGroup(groupsRaw[groupName], groupPath)
			if err != nil {
				return nil, err
			}
			base.AdditionalNodeGroups[groupName] = *group
		}
	}

	tolerationsRaw, _, err := popList(m, "tolerations", path)
	if err != nil {
		return nil, err
	}
	for i, tolRaw := range tolerationsRaw {
		tolPath := fieldPath(path, indexedPath("tolerations", i))
		tol, err := r.resolveToleration(tolRaw, tolPath)
		if err != nil {
			return nil, err
		}
		base.Tolerations = append(base.Tolerations, *tol)
	}

	return base, nil
}

func (r *resolver) resolveAWSCluster(name string, m map[string]any, base *ClusterBase, path string) (ClusterConfig, error) {
	cluster := &AWSClusterConfig{ClusterBase: *base}

	if accessRaw, ok, err := popMap(m, "access_entries", path); err != nil {
		return nil, err
	} else if ok {
		accessPath := fieldPath(path, "access_entries")
		entriesRaw, _, err := popList(accessRaw, "additional_entries", accessPath)
		if err != nil {
			return nil, err
		}
		if err := decode(accessRaw, &cluster.AccessEntries, accessPath); err != nil {
			return nil, err
		}
		for i, entryRaw := range entriesRaw {
			entryPath := fieldPath(accessPath, indexedPath("additional_entries", i))
			level, err := normalizeLevel(entryRaw, entryPath)
			if err != nil {
				return nil, err
			}
			var entry AccessEntry
			if err := decode(level, &entry, entryPath); err != nil {
				return nil, err
			}
			cluster.AccessEntries.AdditionalEntries = append(cluster.AccessEntries.AdditionalEntries, entry)
		}
	}

	if efsRaw, ok, err := popMap(m, "efs_config", path); err != nil {
		return nil, err
	} else if ok {
		cluster.EFS = &EFSConfig{}
		if err := decode(efsRaw, cluster.EFS, fieldPath(path, "efs_config")); err != nil {
			return nil, err
		}
	}

	if vpceRaw, ok, err := popMap(m, "vpc_endpoints", path); err != nil {
		return nil, err
	} else if ok {
		if err := decode(vpceRaw, &cluster.VPCEndpoints, fieldPath(path, "vpc_endpoints")); err != nil {
			return nil, err
		}
	}

	if err := decode(m, cluster, path); err != nil {
		return nil, err
	}

	canonicalizeClusterBase(&cluster.ClusterBase)
	if err := validateAWSCluster(name, cluster); err != nil {
		return nil, err
	}
	return cluster, nil
}

func (r *resolver) resolveAzureCluster(name string, m map[string]any, base *ClusterBase, path string) (ClusterConfig, error) {
	cluster := &AzureClusterConfig{ClusterBase: *base, Tier: AKSTierStandard}

	if tierRaw, ok, err := popString(m, "tier", path); err != nil {
		return nil, err
	} else if ok {
		tier, err := ParseAKSTier(tierRaw, fieldPath(path, "tier"))
		if err != nil {
			return nil, err
		}
		cluster.Tier = tier
	}

	if err := decode(m, cluster, path); err != nil {
		return nil, err
	}

	canonicalizeClusterBase(&cluster.ClusterBase)
	if err := validateAzureCluster(name, cluster); err != nil {
		return nil, err
	}
	return cluster, nil
}

func (r *resolver) resolveNodePool(raw any, path string) (*NodePoolConfig, error) {
	m, err := normalizeLevel(raw, path)
	if err != nil {
		return nil, err
	}

	pool := &NodePoolConfig{
		Consolidation: ConsolidationConfig{Policy: ConsolidateWhenEmptyOrUnderutilized},
	}

	reqsRaw, _, err := popList(m, "requirements", path)
	if err != nil {
		return nil, err
	}
	for i, reqRaw := range reqsRaw {
		reqPath := fieldPath(path, indexedPath("requirements", i))
		level, err := normalizeLevel(reqRaw, reqPath)
		if err != nil {
			return nil, err
		}
		var req corev1.NodeSelectorRequirement
		if err := decode(level, &req, reqPath); err != nil {
			return nil, err
		}
		req.Operator, err = parseRequirementOperator(string(req.Operator), fieldPath(reqPath, "operator"))
		if err != nil {
			return nil, err
		}
		pool.Requirements = append(pool.Requirements, req)
	}

	taints, err := r.resolveTaints(m, path)
	if err != nil {
		return nil, err
	}
	pool.Taints = taints

	if limitsRaw, ok, err := popMap(m, "limits", path); err != nil {
		return nil, err
	} else if ok {
		pool.Limits = &NodePoolLimits{}
		if err := decode(limitsRaw, pool.Limits, fieldPath(path, "limits")); err != nil {
			return nil, err
		}
	}

	if overRaw, ok, err := popMap(m, "overprovisioning", path); err != nil {
		return nil, err
	} else if ok {
		pool.Overprovisioning = &OverprovisioningConfig{}
		if err := decode(overRaw, pool.Overprovisioning, fieldPath(path, "overprovisioning")); err != nil {
			return nil, err
		}
	}

	if consRaw, ok, err := popMap(m, "consolidation", path); err != nil {
		return nil, err
	} else if ok {
		consPath := fieldPath(path, "consolidation")
		if policyRaw, ok, err := popString(consRaw, "policy", consPath); err != nil {
			return nil, err
		} else if ok {
			pool.Consolidation.Policy, err = ParseConsolidationPolicy(policyRaw, fieldPath(consPath, "policy"))
			if err != nil {
				return nil, err
			}
		}
		if err := decode(consRaw, &pool.Consolidation, consPath); err != nil {
			return nil, err
		}
	}

	if err := decode(m, pool, path); err != nil {
		return nil, err
	}

	canonicalizeNodePool(pool)
	if err := validateNodePool(path, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func (r *resolver) resolveNodeGroup(raw any, path string) (*AdditionalNodeGroupConfig, error) {
	m, err := normalizeLevel(raw, path)
	if err != nil {
		return nil, err
	}

	group := &AdditionalNodeGroupConfig{}

	taints, err := r.resolveTaints(m, path)
	if err != nil {
		return nil, err
	}
	group.Taints = taints

	if err := decode(m, group, path); err != nil {
		return nil, err
	}
	if err := validateNodeGroup(path, group); err != nil {
		return nil, err
	}
	return group, nil
}

// resolveTaints pops and constructs a `taints` list, canonicalizing the
// loosely-cased effect of each entry.
func (r *resolver) resolveTaints(m map[string]any, path string) ([]corev1.Taint, error) {
	taintsRaw, _, err := popList(m, "taints", path)
	if err != nil {
		return nil, err
	}

	var taints []corev1.Taint
	for i, taintRaw := range taintsRaw {
		taintPath := fieldPath(path, indexedPath("taints", i))
		level, err := normalizeLevel(taintRaw, taintPath)
		if err != nil {
			return nil, err
		}
		var taint corev1.Taint
		if err := decode(level, &taint, taintPath); err != nil {
			return nil, err
		}
		taint.Effect, err = parseTaintEffect(string(taint.Effect), fieldPath(taintPath, "effect"))
		if err != nil {
			return nil, err
		}
		taints = append(taints, taint)
	}
	return taints, nil
}

func (r *resolver) resolveToleration(raw any, path string) (*corev1.Toleration, error) {
	level, err := normalizeLevel(raw, path)
	if err != nil {
		return nil, err
	}
	var tol corev1.Toleration
	if err := decode(level, &tol, path); err != nil {
		return nil, err
	}
	tol.Operator, err = parseTolerationOperator(string(tol.Operator), fieldPath(path, "operator"))
	if err != nil {
		return nil, err
	}
	if tol.Effect != "" {
		tol.Effect, err = parseTaintEffect(string(tol.Effect), fieldPath(path, "effect"))
		if err != nil {
			return nil, err
		}
	}
	return &tol, nil
}

func (r *resolver) resolveSite(provider Provider, name string, raw any) (SiteConfig, error) {
	path := keyedPath("sites", name)
	m, err := normalizeLevel(raw, path)
	if err != nil {
		return nil, err
	}

	classRaw, hasClass, err := popString(m, "domain_class", path)
	if err != nil {
		return nil, err
	}

	var site SiteConfig
	switch provider {
	case ProviderAWS:
		aws := &AWSSiteConfig{}
		if err := decode(m, aws, path); err != nil {
			return nil, err
		}
		site = aws
	case ProviderAzure:
		azure := &AzureSiteConfig{}
		if err := decode(m, azure, path); err != nil {
			return nil, err
		}
		site = azure
	default:
		return nil, &UnknownFieldValueError{Path: "cloud_provider", Value: string(provider), Allowed: enumNames(ValidProviders())}
	}

	base := site.Base()
	if hasClass {
		base.DomainClass, err = ParseDomainClass(classRaw, fieldPath(path, "domain_class"))
		if err != nil {
			return nil, err
		}
	} else {
		base.DomainClass = deriveDomainClass(base)
	}

	if base.Domain == "" {
		return nil, &StructuralError{Path: fieldPath(path, "domain"), Reason: "domain is required"}
	}
	return site, nil
}

// decode maps one normalized level onto a typed struct. Field names match
// mapstructure tags, or struct field names ignoring case and underscores,
// so corev1 types decode without local wrappers.
func decode(raw map[string]any, out any, path string) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			quantityHook,
			durationHook,
		),
		MatchName: matchFieldName,
	})
	if err != nil {
		return &StructuralError{Path: path, Reason: err.Error()}
	}
	if err := dec.Decode(raw); err != nil {
		return &StructuralError{Path: path, Reason: err.Error()}
	}
	return nil
}

func matchFieldName(mapKey, fieldName string) bool {
	return strings.EqualFold(strings.ReplaceAll(mapKey, "_", ""), fieldName)
}

var (
	quantityType = reflect.TypeOf(resource.Quantity{})
	durationType = reflect.TypeOf(metav1.Duration{})
)

// quantityHook parses scalar descriptor values into resource.Quantity.
func quantityHook(from, to reflect.Type, data any) (any, error) {
	if to != quantityType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String, reflect.Int, reflect.Int64, reflect.Float64:
		q, err := resource.ParseQuantity(fmt.Sprintf("%v", data))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q: %w", fmt.Sprintf("%v", data), err)
		}
		return q, nil
	default:
		return data, nil
	}
}

// durationHook parses duration strings like "720h" into metav1.Duration.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != durationType {
		return data, nil
	}
	d, err := time.ParseDuration(data.(string))
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", data, err)
	}
	return metav1.Duration{Duration: d}, nil
}

// sortedNames returns a raw collection's keys in lexicographic order.
func sortedNames(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
