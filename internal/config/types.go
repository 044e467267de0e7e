package config

import (
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Provider identifies which cloud's schema extension a descriptor uses.
type Provider string

const (
	// ProviderAWS selects the EKS-based cluster and site schema.
	ProviderAWS Provider = "aws"
	// ProviderAzure selects the AKS-based cluster and site schema.
	ProviderAzure Provider = "azure"
)

// ValidProviders returns all supported providers.
func ValidProviders() []Provider {
	return []Provider{ProviderAWS, ProviderAzure}
}

// IsValid returns true if the provider is supported.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderAWS, ProviderAzure:
		return true
	default:
		return false
	}
}

// ParseProvider coerces a loosely-cased string into a Provider.
func ParseProvider(s, path string) (Provider, error) {
	switch coerceEnum(s) {
	case "aws":
		return ProviderAWS, nil
	case "azure":
		return ProviderAzure, nil
	default:
		return "", &UnknownFieldValueError{Path: path, Value: s, Allowed: enumNames(ValidProviders())}
	}
}

// NetworkTrust is the network-trust tier between a workload's clusters,
// ordered none < same-site < full.
type NetworkTrust string

const (
	// TrustNone permits no implicit cross-cluster traffic.
	TrustNone NetworkTrust = "none"
	// TrustSameSite permits traffic between clusters serving the same site.
	TrustSameSite NetworkTrust = "same-site"
	// TrustFull permits traffic between all clusters of the workload.
	TrustFull NetworkTrust = "full"
)

// ValidNetworkTrusts returns all trust tiers in ascending order.
func ValidNetworkTrusts() []NetworkTrust {
	return []NetworkTrust{TrustNone, TrustSameSite, TrustFull}
}

// IsValid returns true if the trust tier is recognized.
func (n NetworkTrust) IsValid() bool {
	return n.level() >= 0
}

// AtLeast reports whether this tier grants at least as much trust as other.
func (n NetworkTrust) AtLeast(other NetworkTrust) bool {
	return n.level() >= other.level()
}

func (n NetworkTrust) level() int {
	switch n {
	case TrustNone:
		return 0
	case TrustSameSite:
		return 1
	case TrustFull:
		return 2
	default:
		return -1
	}
}

// ParseNetworkTrust coerces a loosely-cased string into a NetworkTrust.
func ParseNetworkTrust(s, path string) (NetworkTrust, error) {
	switch coerceEnum(s) {
	case "none":
		return TrustNone, nil
	case "samesite":
		return TrustSameSite, nil
	case "full":
		return TrustFull, nil
	default:
		return "", &UnknownFieldValueError{Path: path, Value: s, Allowed: enumNames(ValidNetworkTrusts())}
	}
}

// DomainClass classifies how a site's domain relates to the tenant.
type DomainClass string

const (
	// DomainClassApex marks a site served on the workload's apex domain.
	DomainClassApex DomainClass = "apex"
	// DomainClassSubdomain marks a site on a subdomain of the apex.
	DomainClassSubdomain DomainClass = "subdomain"
	// DomainClassVanity marks a site on a customer-owned domain.
	DomainClassVanity DomainClass = "vanity"
)

// ValidDomainClasses returns all domain classifications.
func ValidDomainClasses() []DomainClass {
	return []DomainClass{DomainClassApex, DomainClassSubdomain, DomainClassVanity}
}

// IsValid returns true if the classification is recognized.
func (d DomainClass) IsValid() bool {
	switch d {
	case DomainClassApex, DomainClassSubdomain, DomainClassVanity:
		return true
	default:
		return false
	}
}

// ParseDomainClass coerces a loosely-cased string into a DomainClass.
func ParseDomainClass(s, path string) (DomainClass, error) {
	switch coerceEnum(s) {
	case "apex":
		return DomainClassApex, nil
	case "subdomain":
		return DomainClassSubdomain, nil
	case "vanity":
		return DomainClassVanity, nil
	default:
		return "", &UnknownFieldValueError{Path: path, Value: s, Allowed: enumNames(ValidDomainClasses())}
	}
}

// ConsolidationPolicy controls when a node pool consolidates underused nodes.
type ConsolidationPolicy string

const (
	// ConsolidateWhenEmpty consolidates only nodes with no workload pods.
	ConsolidateWhenEmpty ConsolidationPolicy = "WhenEmpty"
	// ConsolidateWhenEmptyOrUnderutilized also repacks underutilized nodes.
	ConsolidateWhenEmptyOrUnderutilized ConsolidationPolicy = "WhenEmptyOrUnderutilized"
)

// ValidConsolidationPolicies returns all consolidation policies.
func ValidConsolidationPolicies() []ConsolidationPolicy {
	return []ConsolidationPolicy{ConsolidateWhenEmpty, ConsolidateWhenEmptyOrUnderutilized}
}

// IsValid returns true if the policy is recognized.
func (c ConsolidationPolicy) IsValid() bool {
	switch c {
	case ConsolidateWhenEmpty, ConsolidateWhenEmptyOrUnderutilized:
		return true
	default:
		return false
	}
}

// ParseConsolidationPolicy coerces a loosely-cased string into a policy.
func ParseConsolidationPolicy(s, path string) (ConsolidationPolicy, error) {
	switch coerceEnum(s) {
	case "whenempty":
		return ConsolidateWhenEmpty, nil
	case "whenemptyorunderutilized":
		return ConsolidateWhenEmptyOrUnderutilized, nil
	default:
		return "", &UnknownFieldValueError{Path: path, Value: s, Allowed: enumNames(ValidConsolidationPolicies())}
	}
}

// coerceEnum lowers a string and strips word separators so enum values
// match regardless of casing or hyphen/underscore style.
func coerceEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// enumNames renders enum members for error messages.
func enumNames[T ~string](members []T) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = string(m)
	}
	return names
}

// WorkloadConfig is the root of the resolved tree: one tenant workload
// spanning one or more clusters and serving one or more sites. It is
// constructed once by Resolve and never mutated afterwards.
type WorkloadConfig struct {
	// TrueName is the immutable tenant identifier used for resource naming.
	TrueName string `mapstructure:"true_name" json:"true_name"`
	// Environment is the deployment environment, e.g. "staging" or "production".
	Environment string `mapstructure:"environment" json:"environment"`
	// Provider selects the cluster/site schema extension in use.
	Provider Provider `mapstructure:"-" json:"cloud_provider"`
	// NetworkTrust is the cross-cluster trust tier.
	NetworkTrust NetworkTrust `mapstructure:"-" json:"network_trust"`

	// Control-room linkage. The control room is the operator-side account
	// that administers this workload.
	ControlRoomAccountID    string `mapstructure:"control_room_account_id" json:"control_room_account_id"`
	ControlRoomPowerUserARN string `mapstructure:"control_room_power_user_arn" json:"control_room_power_user_arn"`
	ControlRoomDomain       string `mapstructure:"control_room_domain" json:"control_room_domain"`

	// ResourceTags are applied to every resource emitted for the workload.
	ResourceTags map[string]string `mapstructure:"resource_tags" json:"resource_tags,omitempty"`

	Clusters map[string]ClusterConfig `mapstructure:"-" json:"clusters"`
	Sites    map[string]SiteConfig    `mapstructure:"-" json:"sites"`
}

// ClusterNames returns cluster names in lexicographic order. All iteration
// over clusters must use this order so downstream naming is reproducible.
func (w *WorkloadConfig) ClusterNames() []string {
	names := make([]string, 0, len(w.Clusters))
	for name := range w.Clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SiteNames returns site names in lexicographic order.
func (w *WorkloadConfig) SiteNames() []string {
	names := make([]string, 0, len(w.Sites))
	for name := range w.Sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MainSite returns the name and config of the workload's main site.
// Resolution guarantees exactly one site is marked main.
func (w *WorkloadConfig) MainSite() (string, SiteConfig) {
	for _, name := range w.SiteNames() {
		site := w.Sites[name]
		if site.Base().Main {
			return name, site
		}
	}
	return "", nil
}

// Domain returns the main site's domain.
func (w *WorkloadConfig) Domain() string {
	_, site := w.MainSite()
	if site == nil {
		return ""
	}
	return site.Base().Domain
}

// Domains returns every site domain in lexicographic order.
func (w *WorkloadConfig) Domains() []string {
	domains := make([]string, 0, len(w.Sites))
	for _, site := range w.Sites {
		domains = append(domains, site.Base().Domain)
	}
	sort.Strings(domains)
	return domains
}

// ClusterConfig is one provider-specific cluster of a workload. The
// variant set is closed: *AWSClusterConfig and *AzureClusterConfig.
type ClusterConfig interface {
	// Provider identifies the concrete variant.
	Provider() Provider
	// Base returns the provider-independent portion of the cluster.
	Base() *ClusterBase
}

// ClusterBase holds the cluster fields shared by every provider.
type ClusterBase struct {
	// ServerImage and ServerImageTag reference the workload server image.
	// A blank tag normalizes to the ImageTagLatest sentinel.
	ServerImage    string `mapstructure:"server_image" json:"server_image"`
	ServerImageTag string `mapstructure:"server_image_tag" json:"server_image_tag"`

	// Versions pins add-on component versions; unset means chart default.
	Versions ComponentVersionConfig `mapstructure:"-" json:"versions"`

	NodePools            []NodePoolConfig                     `mapstructure:"-" json:"node_pools,omitempty"`
	AdditionalNodeGroups map[string]AdditionalNodeGroupConfig `mapstructure:"-" json:"additional_node_groups,omitempty"`
	Tolerations          []corev1.Toleration                  `mapstructure:"-" json:"tolerations,omitempty"`
}

// NodeGroupNames returns additional node group names in lexicographic order.
func (b *ClusterBase) NodeGroupNames() []string {
	names := make([]string, 0, len(b.AdditionalNodeGroups))
	for name := range b.AdditionalNodeGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComponentVersionConfig carries one optional version string per add-on
// component. A nil entry means the deployment default for that component.
type ComponentVersionConfig struct {
	AWSLBC                    *string `mapstructure:"aws_lbc" json:"aws_lbc,omitempty"`
	ExternalDNS               *string `mapstructure:"external_dns" json:"external_dns,omitempty"`
	FSxOpenZFSCSI             *string `mapstructure:"fsx_openzfs_csi" json:"fsx_openzfs_csi,omitempty"`
	Grafana                   *string `mapstructure:"grafana" json:"grafana,omitempty"`
	Karpenter                 *string `mapstructure:"karpenter" json:"karpenter,omitempty"`
	KubeStateMetrics          *string `mapstructure:"kube_state_metrics" json:"kube_state_metrics,omitempty"`
	MetricsServer             *string `mapstructure:"metrics_server" json:"metrics_server,omitempty"`
	Mimir                     *string `mapstructure:"mimir" json:"mimir,omitempty"`
	SecretStoreCSI            *string `mapstructure:"secret_store_csi" json:"secret_store_csi,omitempty"`
	SecretStoreCSIAWSProvider *string `mapstructure:"secret_store_csi_aws_provider" json:"secret_store_csi_aws_provider,omitempty"`
	TigeraOperator            *string `mapstructure:"tigera_operator" json:"tigera_operator,omitempty"`
	Traefik                   *string `mapstructure:"traefik" json:"traefik,omitempty"`
	TraefikForwardAuth        *string `mapstructure:"traefik_forward_auth" json:"traefik_forward_auth,omitempty"`
}

// SiteConfig is one provider-specific logical site of a workload. The
// variant set is closed: *AWSSiteConfig and *AzureSiteConfig.
type SiteConfig interface {
	// Provider identifies the concrete variant.
	Provider() Provider
	// Base returns the provider-independent portion of the site.
	Base() *SiteBase
}

// SiteBase holds the site fields shared by every provider.
type SiteBase struct {
	// Domain is the tenant-facing domain this site serves.
	Domain string `mapstructure:"domain" json:"domain"`
	// DomainClass classifies the domain relative to the workload apex.
	DomainClass DomainClass `mapstructure:"-" json:"domain_class"`
	// ForwardAuthEnabled routes the site through the forward-auth proxy.
	ForwardAuthEnabled bool `mapstructure:"forward_auth_enabled" json:"forward_auth_enabled"`
	// Main marks the workload's primary site. Exactly one site is main.
	Main bool `mapstructure:"main" json:"main"`
}

// NodePoolConfig describes one autoscaling node pool of a cluster.
type NodePoolConfig struct {
	Name string `mapstructure:"name" json:"name"`

	// Requirements restrict which nodes the pool may provision.
	Requirements []corev1.NodeSelectorRequirement `mapstructure:"-" json:"requirements,omitempty"`

	// Limits caps the pool's aggregate resource footprint.
	Limits *NodePoolLimits `mapstructure:"-" json:"limits,omitempty"`

	// ExpireAfter rotates nodes older than the given duration.
	ExpireAfter *metav1.Duration `mapstructure:"expire_after" json:"expire_after,omitempty"`

	Taints []corev1.Taint `mapstructure:"-" json:"taints,omitempty"`

	// Weight orders this pool against sibling pools during provisioning.
	Weight int32 `mapstructure:"weight" json:"weight"`

	Consolidation ConsolidationConfig `mapstructure:"-" json:"consolidation"`

	// SessionTaints enables session isolation: the pool carries the
	// session taint so only session workloads schedule onto it.
	SessionTaints bool `mapstructure:"session_taints" json:"session_taints"`

	// Overprovisioning keeps warm headroom capacity in the pool.
	Overprovisioning *OverprovisioningConfig `mapstructure:"-" json:"overprovisioning,omitempty"`
}

// NodePoolLimits caps a pool's aggregate cpu, memory and gpu capacity.
type NodePoolLimits struct {
	CPU    *resource.Quantity `mapstructure:"cpu" json:"cpu,omitempty"`
	Memory *resource.Quantity `mapstructure:"memory" json:"memory,omitempty"`
	GPU    *resource.Quantity `mapstructure:"gpu" json:"gpu,omitempty"`
}

// ConsolidationConfig pairs a consolidation policy with the idle duration
// after which consolidation may act.
type ConsolidationConfig struct {
	Policy           ConsolidationPolicy `mapstructure:"-" json:"policy"`
	ConsolidateAfter *metav1.Duration    `mapstructure:"consolidate_after" json:"consolidate_after,omitempty"`
}

// OverprovisioningConfig keeps placeholder replicas running so real
// workloads find warm capacity.
type OverprovisioningConfig struct {
	Replicas      int32              `mapstructure:"replicas" json:"replicas"`
	CPURequest    *resource.Quantity `mapstructure:"cpu_request" json:"cpu_request,omitempty"`
	MemoryRequest *resource.Quantity `mapstructure:"memory_request" json:"memory_request,omitempty"`
}

// AdditionalNodeGroupConfig describes a named, statically-sized node group
// provisioned alongside the autoscaling pools.
type AdditionalNodeGroupConfig struct {
	InstanceType string            `mapstructure:"instance_type" json:"instance_type"`
	MinSize      int32             `mapstructure:"min_size" json:"min_size"`
	MaxSize      int32             `mapstructure:"max_size" json:"max_size"`
	DiskSizeGB   int32             `mapstructure:"disk_size_gb" json:"disk_size_gb"`
	Labels       map[string]string `mapstructure:"labels" json:"labels,omitempty"`
	Taints       []corev1.Taint    `mapstructure:"-" json:"taints,omitempty"`
}
