package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		expected Provider
		wantErr  bool
	}{
		{in: "aws", expected: ProviderAWS},
		{in: "AWS", expected: ProviderAWS},
		{in: "Azure", expected: ProviderAzure},
		{in: "gcp", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseProvider(tt.in, "cloud_provider")
			if tt.wantErr {
				var uerr *UnknownFieldValueError
				require.ErrorAs(t, err, &uerr)
				assert.Equal(t, "cloud_provider", uerr.Path)
				assert.Equal(t, tt.in, uerr.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseNetworkTrust(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		expected NetworkTrust
		wantErr  bool
	}{
		{in: "none", expected: TrustNone},
		{in: "same-site", expected: TrustSameSite},
		{in: "same_site", expected: TrustSameSite},
		{in: "SameSite", expected: TrustSameSite},
		{in: "FULL", expected: TrustFull},
		{in: "partial", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseNetworkTrust(tt.in, "network_trust")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNetworkTrustOrdering(t *testing.T) {
	t.Parallel()

	assert.True(t, TrustFull.AtLeast(TrustSameSite))
	assert.True(t, TrustFull.AtLeast(TrustNone))
	assert.True(t, TrustSameSite.AtLeast(TrustNone))
	assert.True(t, TrustSameSite.AtLeast(TrustSameSite))
	assert.False(t, TrustNone.AtLeast(TrustSameSite))
	assert.False(t, TrustSameSite.AtLeast(TrustFull))
}

func TestParseConsolidationPolicy(t *testing.T) {
	t.Parallel()

	got, err := ParseConsolidationPolicy("when-empty", "consolidation.policy")
	require.NoError(t, err)
	assert.Equal(t, ConsolidateWhenEmpty, got)

	got, err = ParseConsolidationPolicy("WhenEmptyOrUnderutilized", "consolidation.policy")
	require.NoError(t, err)
	assert.Equal(t, ConsolidateWhenEmptyOrUnderutilized, got)

	_, err = ParseConsolidationPolicy("always", "consolidation.policy")
	assert.Error(t, err)
}

func TestWorkloadAccessorsAreSorted(t *testing.T) {
	t.Parallel()

	w := &WorkloadConfig{
		Clusters: map[string]ClusterConfig{
			"zeta":  &AWSClusterConfig{},
			"alpha": &AWSClusterConfig{},
			"mid":   &AWSClusterConfig{},
		},
		Sites: map[string]SiteConfig{
			"b": &AWSSiteConfig{SiteBase: SiteBase{Domain: "b.example.com"}},
			"a": &AWSSiteConfig{SiteBase: SiteBase{Domain: "a.example.com", Main: true}},
		},
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, w.ClusterNames())
	assert.Equal(t, []string{"a", "b"}, w.SiteNames())
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, w.Domains())

	name, site := w.MainSite()
	require.NotNil(t, site)
	assert.Equal(t, "a", name)
	assert.Equal(t, "a.example.com", w.Domain())
}

func TestClusterVariantProviders(t *testing.T) {
	t.Parallel()

	var aws ClusterConfig = &AWSClusterConfig{}
	var azure ClusterConfig = &AzureClusterConfig{}

	assert.Equal(t, ProviderAWS, aws.Provider())
	assert.Equal(t, ProviderAzure, azure.Provider())
	assert.NotNil(t, aws.Base())
	assert.NotNil(t, azure.Base())
}
