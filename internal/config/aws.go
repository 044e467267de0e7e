package config

// AWSClusterConfig is the EKS-based cluster variant.
type AWSClusterConfig struct {
	ClusterBase `mapstructure:",squash" json:",inline"`

	// Region is the AWS region hosting the cluster.
	Region string `mapstructure:"region" json:"region"`

	// VPCID is the identifier of the VPC the cluster lives in,
	// "vpc-" followed by a 17-character suffix.
	VPCID string `mapstructure:"vpc_id" json:"vpc_id"`

	// PodIdentityEnabled installs the EKS pod identity agent.
	PodIdentityEnabled bool `mapstructure:"pod_identity_enabled" json:"pod_identity_enabled"`

	// ExternalSecretsEnabled installs the external-secrets operator.
	// Requires PodIdentityEnabled: the operator authenticates to Secrets
	// Manager through a pod identity association.
	ExternalSecretsEnabled bool `mapstructure:"external_secrets_enabled" json:"external_secrets_enabled"`

	AccessEntries EKSAccessEntriesConfig `mapstructure:"-" json:"access_entries"`

	EFS *EFSConfig `mapstructure:"-" json:"efs_config,omitempty"`

	VPCEndpoints VPCEndpointsConfig `mapstructure:"-" json:"vpc_endpoints"`
}

// Provider identifies the AWS variant.
func (c *AWSClusterConfig) Provider() Provider { return ProviderAWS }

// Base returns the provider-independent cluster fields.
func (c *AWSClusterConfig) Base() *ClusterBase { return &c.ClusterBase }

// EKSAccessEntriesConfig configures EKS access entries, the
// principal-to-cluster permission bindings used for cluster auth.
type EKSAccessEntriesConfig struct {
	Enabled           bool          `mapstructure:"enabled" json:"enabled"`
	AdditionalEntries []AccessEntry `mapstructure:"-" json:"additional_entries,omitempty"`
	// IncludeSameAccountPoweruser grants the account's poweruser role
	// cluster-admin access alongside the explicit entries.
	IncludeSameAccountPoweruser bool `mapstructure:"include_same_account_poweruser" json:"include_same_account_poweruser"`
}

// AccessEntry binds one IAM principal to an EKS access policy.
type AccessEntry struct {
	PrincipalARN string `mapstructure:"principal_arn" json:"principal_arn"`
	PolicyARN    string `mapstructure:"policy_arn" json:"policy_arn"`
	Type         string `mapstructure:"type" json:"type"`
}

// EFSConfig attaches an existing EFS file system to the cluster.
type EFSConfig struct {
	// FileSystemID is the EFS file system, "fs-" prefixed.
	FileSystemID string `mapstructure:"file_system_id" json:"file_system_id"`
	// AccessPointID optionally scopes mounts to one access point,
	// "fsap-" prefixed.
	AccessPointID string `mapstructure:"access_point_id" json:"access_point_id,omitempty"`
	// ManageMountTargets creates mount targets in the private subnets.
	ManageMountTargets bool `mapstructure:"manage_mount_targets" json:"manage_mount_targets"`
}

// VPCEndpointsConfig controls which VPC endpoint services are provisioned
// for the cluster's private subnets.
type VPCEndpointsConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// ExcludedServices skips individual services from the supported set.
	ExcludedServices []string `mapstructure:"excluded_services" json:"excluded_services,omitempty"`
}

// AWSSiteConfig is the Route53/ACM-backed site variant.
type AWSSiteConfig struct {
	SiteBase `mapstructure:",squash" json:",inline"`

	// CertificateARN is the ACM certificate serving the site's domain.
	CertificateARN string `mapstructure:"certificate_arn" json:"certificate_arn,omitempty"`
	// HostedZoneID is the Route53 zone DNS records are written to.
	HostedZoneID string `mapstructure:"hosted_zone_id" json:"hosted_zone_id,omitempty"`
}

// Provider identifies the AWS variant.
func (s *AWSSiteConfig) Provider() Provider { return ProviderAWS }

// Base returns the provider-independent site fields.
func (s *AWSSiteConfig) Base() *SiteBase { return &s.SiteBase }
