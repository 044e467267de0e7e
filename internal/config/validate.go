package config

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

func int32String(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

// Validators run immediately after an entity is constructed and before it
// is handed to its parent. They inspect only; nothing here mutates.

// validateWorkload checks the workload-level invariants after every
// cluster and site has resolved.
func validateWorkload(w *WorkloadConfig) error {
	if w.TrueName == "" {
		return &StructuralError{Path: "true_name", Reason: "true_name is required"}
	}
	if w.Environment == "" {
		return &StructuralError{Path: "environment", Reason: "environment is required"}
	}
	if w.ControlRoomPowerUserARN != "" && !arn.IsARN(w.ControlRoomPowerUserARN) {
		return &FormatError{
			Path:       "control_room_power_user_arn",
			Value:      w.ControlRoomPowerUserARN,
			Constraint: "an AWS ARN (arn:partition:service:region:account:resource)",
		}
	}
	if err := validateMainSite(w); err != nil {
		return err
	}
	return validateSiteDomains(w)
}

// validateMainSite requires exactly one site marked main.
func validateMainSite(w *WorkloadConfig) error {
	var mains []string
	for _, name := range w.SiteNames() {
		if w.Sites[name].Base().Main {
			mains = append(mains, name)
		}
	}
	switch len(mains) {
	case 1:
		return nil
	case 0:
		return &StructuralError{Path: "sites", Reason: "exactly one site must be marked main, none is"}
	default:
		return &UniquenessError{Path: "sites", Value: "main", Keys: mains}
	}
}

// validateSiteDomains rejects two sites resolving to the same domain.
func validateSiteDomains(w *WorkloadConfig) error {
	byDomain := make(map[string][]string, len(w.Sites))
	for _, name := range w.SiteNames() {
		domain := w.Sites[name].Base().Domain
		byDomain[domain] = append(byDomain[domain], name)
	}

	domains := make([]string, 0, len(byDomain))
	for domain := range byDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	for _, domain := range domains {
		if keys := byDomain[domain]; len(keys) > 1 {
			return &UniquenessError{Path: "sites", Value: domain, Keys: keys}
		}
	}
	return nil
}

// validateAWSCluster checks the EKS variant's invariants.
func validateAWSCluster(name string, c *AWSClusterConfig) error {
	path := keyedPath("clusters", name)

	if c.VPCID == "" {
		return &StructuralError{Path: fieldPath(path, "vpc_id"), Reason: "vpc_id is required"}
	}
	if !strings.HasPrefix(c.VPCID, "vpc-") || len(c.VPCID) != vpcIDLength {
		return &FormatError{
			Path:       fieldPath(path, "vpc_id"),
			Value:      c.VPCID,
			Constraint: "\"vpc-\" prefix and 21 characters total",
		}
	}

	if c.ExternalSecretsEnabled && !c.PodIdentityEnabled {
		return &DependencyError{
			Path:     path,
			Flag:     "external_secrets_enabled",
			Requires: "pod_identity_enabled",
			Reason:   "the external-secrets operator authenticates through a pod identity association",
		}
	}

	if c.EFS != nil {
		if err := validateEFS(fieldPath(path, "efs_config"), c.EFS); err != nil {
			return err
		}
	}
	if err := validateVPCEndpoints(fieldPath(path, "vpc_endpoints"), &c.VPCEndpoints); err != nil {
		return err
	}
	return validateAccessEntries(fieldPath(path, "access_entries"), &c.AccessEntries)
}

// validateAzureCluster checks the AKS variant's invariants.
func validateAzureCluster(name string, c *AzureClusterConfig) error {
	path := keyedPath("clusters", name)
	if c.SubscriptionID == "" {
		return &StructuralError{Path: fieldPath(path, "subscription_id"), Reason: "subscription_id is required"}
	}
	if c.ResourceGroup == "" {
		return &StructuralError{Path: fieldPath(path, "resource_group"), Reason: "resource_group is required"}
	}
	return nil
}

// validateEFS checks the identifier shapes of an EFS attachment.
func validateEFS(path string, efs *EFSConfig) error {
	if !strings.HasPrefix(efs.FileSystemID, efsFileSystemPrefix) {
		return &FormatError{
			Path:       fieldPath(path, "file_system_id"),
			Value:      efs.FileSystemID,
			Constraint: "\"" + efsFileSystemPrefix + "\" prefix",
		}
	}
	if efs.AccessPointID != "" && !strings.HasPrefix(efs.AccessPointID, efsAccessPointPrefix) {
		return &FormatError{
			Path:       fieldPath(path, "access_point_id"),
			Value:      efs.AccessPointID,
			Constraint: "\"" + efsAccessPointPrefix + "\" prefix",
		}
	}
	return nil
}

// validateVPCEndpoints requires every excluded service to belong to the
// supported endpoint set.
func validateVPCEndpoints(path string, v *VPCEndpointsConfig) error {
	var invalid []string
	for _, svc := range v.ExcludedServices {
		if !SupportedVPCEndpointServices[svc] {
			invalid = append(invalid, svc)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	sort.Strings(invalid)
	return &MembershipError{
		Path:    fieldPath(path, "excluded_services"),
		Invalid: invalid,
		Allowed: sortedKeys(SupportedVPCEndpointServices),
	}
}

// validateAccessEntries checks every additional entry's principal ARN.
func validateAccessEntries(path string, a *EKSAccessEntriesConfig) error {
	for i, entry := range a.AdditionalEntries {
		entryPath := fieldPath(path, indexedPath("additional_entries", i))
		if !arn.IsARN(entry.PrincipalARN) {
			return &FormatError{
				Path:       fieldPath(entryPath, "principal_arn"),
				Value:      entry.PrincipalARN,
				Constraint: "an AWS ARN (arn:partition:service:region:account:resource)",
			}
		}
		if entry.PolicyARN != "" && !arn.IsARN(entry.PolicyARN) {
			return &FormatError{
				Path:       fieldPath(entryPath, "policy_arn"),
				Value:      entry.PolicyARN,
				Constraint: "an AWS ARN (arn:partition:service:region:account:resource)",
			}
		}
	}
	return nil
}

// validateNodePool checks one autoscaling pool.
func validateNodePool(path string, pool *NodePoolConfig) error {
	if pool.Name == "" {
		return &StructuralError{Path: fieldPath(path, "name"), Reason: "name is required"}
	}
	if pool.Weight < 0 {
		return &FormatError{
			Path:       fieldPath(path, "weight"),
			Value:      int32String(pool.Weight),
			Constraint: "a non-negative integer",
		}
	}
	if pool.Overprovisioning != nil && pool.Overprovisioning.Replicas < 0 {
		return &FormatError{
			Path:       fieldPath(path, "overprovisioning.replicas"),
			Value:      int32String(pool.Overprovisioning.Replicas),
			Constraint: "a non-negative integer",
		}
	}
	return nil
}

// validateNodeGroup checks one statically-sized node group.
func validateNodeGroup(path string, group *AdditionalNodeGroupConfig) error {
	if group.InstanceType == "" {
		return &StructuralError{Path: fieldPath(path, "instance_type"), Reason: "instance_type is required"}
	}
	if group.MaxSize < group.MinSize {
		return &FormatError{
			Path:       fieldPath(path, "max_size"),
			Value:      int32String(group.MaxSize),
			Constraint: "greater than or equal to min_size",
		}
	}
	return nil
}
