package config

// AKSTier selects the AKS management tier.
type AKSTier string

const (
	// AKSTierFree is the free control plane tier.
	AKSTierFree AKSTier = "free"
	// AKSTierStandard adds the uptime SLA.
	AKSTierStandard AKSTier = "standard"
	// AKSTierPremium adds long-term support.
	AKSTierPremium AKSTier = "premium"
)

// ValidAKSTiers returns all AKS tiers.
func ValidAKSTiers() []AKSTier {
	return []AKSTier{AKSTierFree, AKSTierStandard, AKSTierPremium}
}

// IsValid returns true if the tier is recognized.
func (t AKSTier) IsValid() bool {
	switch t {
	case AKSTierFree, AKSTierStandard, AKSTierPremium:
		return true
	default:
		return false
	}
}

// ParseAKSTier coerces a loosely-cased string into an AKSTier.
func ParseAKSTier(s, path string) (AKSTier, error) {
	switch coerceEnum(s) {
	case "free":
		return AKSTierFree, nil
	case "standard":
		return AKSTierStandard, nil
	case "premium":
		return AKSTierPremium, nil
	default:
		return "", &UnknownFieldValueError{Path: path, Value: s, Allowed: enumNames(ValidAKSTiers())}
	}
}

// AzureClusterConfig is the AKS-based cluster variant.
type AzureClusterConfig struct {
	ClusterBase `mapstructure:",squash" json:",inline"`

	// Location is the Azure region hosting the cluster.
	Location string `mapstructure:"location" json:"location"`
	// ResourceGroup holds all resources emitted for the cluster.
	ResourceGroup string `mapstructure:"resource_group" json:"resource_group"`
	// SubscriptionID is the Azure subscription billed for the cluster.
	SubscriptionID string `mapstructure:"subscription_id" json:"subscription_id"`
	// Tier selects the AKS management tier.
	Tier AKSTier `mapstructure:"-" json:"tier"`
}

// Provider identifies the Azure variant.
func (c *AzureClusterConfig) Provider() Provider { return ProviderAzure }

// Base returns the provider-independent cluster fields.
func (c *AzureClusterConfig) Base() *ClusterBase { return &c.ClusterBase }

// AzureSiteConfig is the Azure DNS-backed site variant.
type AzureSiteConfig struct {
	SiteBase `mapstructure:",squash" json:",inline"`

	// DNSZone is the Azure DNS zone records are written to.
	DNSZone string `mapstructure:"dns_zone" json:"dns_zone,omitempty"`
	// CertificateID is the Key Vault certificate serving the domain.
	CertificateID string `mapstructure:"certificate_id" json:"certificate_id,omitempty"`
}

// Provider identifies the Azure variant.
func (s *AzureSiteConfig) Provider() Provider { return ProviderAzure }

// Base returns the provider-independent site fields.
func (s *AzureSiteConfig) Base() *SiteBase { return &s.SiteBase }
