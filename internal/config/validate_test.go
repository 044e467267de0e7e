package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalWorkload() *WorkloadConfig {
	return &WorkloadConfig{
		TrueName:    "acme",
		Environment: "production",
		Provider:    ProviderAWS,
		Sites: map[string]SiteConfig{
			"www": &AWSSiteConfig{SiteBase: SiteBase{Domain: "acme.example.com", Main: true}},
		},
	}
}

func TestValidateWorkload(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validateWorkload(minimalWorkload()))
	})

	t.Run("missing true_name", func(t *testing.T) {
		t.Parallel()
		w := minimalWorkload()
		w.TrueName = ""
		var serr *StructuralError
		require.ErrorAs(t, validateWorkload(w), &serr)
		assert.Equal(t, "true_name", serr.Path)
	})

	t.Run("missing environment", func(t *testing.T) {
		t.Parallel()
		w := minimalWorkload()
		w.Environment = ""
		var serr *StructuralError
		require.ErrorAs(t, validateWorkload(w), &serr)
		assert.Equal(t, "environment", serr.Path)
	})

	t.Run("malformed power user arn", func(t *testing.T) {
		t.Parallel()
		w := minimalWorkload()
		w.ControlRoomPowerUserARN = "not-an-arn"
		var ferr *FormatError
		require.ErrorAs(t, validateWorkload(w), &ferr)
		assert.Equal(t, "control_room_power_user_arn", ferr.Path)
		assert.Equal(t, "not-an-arn", ferr.Value)
	})

	t.Run("valid power user arn", func(t *testing.T) {
		t.Parallel()
		w := minimalWorkload()
		w.ControlRoomPowerUserARN = "arn:aws:iam::123456789012:role/poweruser"
		assert.NoError(t, validateWorkload(w))
	})
}

func TestValidateMainSite(t *testing.T) {
	t.Parallel()

	t.Run("no main site", func(t *testing.T) {
		t.Parallel()
		w := minimalWorkload()
		w.Sites["www"].Base().Main = false
		var serr *StructuralError
		require.ErrorAs(t, validateWorkload(w), &serr)
		assert.Equal(t, "sites", serr.Path)
	})

	t.Run("two main sites", func(t *testing.T) {
		t.Parallel()
		w := minimalWorkload()
		w.Sites["alt"] = &AWSSiteConfig{SiteBase: SiteBase{Domain: "alt.example.com", Main: true}}
		var uerr *UniquenessError
		require.ErrorAs(t, validateWorkload(w), &uerr)
		assert.Equal(t, "main", uerr.Value)
		assert.Equal(t, []string{"alt", "www"}, uerr.Keys)
	})
}

func TestValidateSiteDomains(t *testing.T) {
	t.Parallel()

	w := minimalWorkload()
	w.Sites["mirror"] = &AWSSiteConfig{SiteBase: SiteBase{Domain: "acme.example.com"}}

	var uerr *UniquenessError
	require.ErrorAs(t, validateWorkload(w), &uerr)
	assert.Equal(t, "sites", uerr.Path)
	assert.Equal(t, "acme.example.com", uerr.Value)
	assert.ElementsMatch(t, []string{"mirror", "www"}, uerr.Keys)
}

func validAWSCluster() *AWSClusterConfig {
	return &AWSClusterConfig{
		Region: "us-east-1",
		VPCID:  "vpc-0123456789abcdef0",
	}
}

func TestValidateAWSCluster(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validateAWSCluster("prod", validAWSCluster()))
	})

	t.Run("missing vpc_id", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.VPCID = ""
		var serr *StructuralError
		require.ErrorAs(t, validateAWSCluster("prod", c), &serr)
		assert.Equal(t, `clusters["prod"].vpc_id`, serr.Path)
	})

	t.Run("malformed vpc_id", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"vpc-short", "subnet-0123456789abcdef0", "vpc-0123456789abcdef01234"} {
			var ferr *FormatError
			c := validAWSCluster()
			c.VPCID = bad
			require.ErrorAs(t, validateAWSCluster("prod", c), &ferr)
			assert.Equal(t, bad, ferr.Value)
		}
	})

	t.Run("external secrets without pod identity", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.ExternalSecretsEnabled = true
		var derr *DependencyError
		require.ErrorAs(t, validateAWSCluster("prod", c), &derr)
		assert.Equal(t, "external_secrets_enabled", derr.Flag)
		assert.Equal(t, "pod_identity_enabled", derr.Requires)
	})

	t.Run("external secrets with pod identity", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.ExternalSecretsEnabled = true
		c.PodIdentityEnabled = true
		assert.NoError(t, validateAWSCluster("prod", c))
	})
}

func TestValidateEFS(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.EFS = &EFSConfig{
			FileSystemID:  "fs-0123456789abcdef0",
			AccessPointID: "fsap-0123456789abcdef0",
		}
		assert.NoError(t, validateAWSCluster("prod", c))
	})

	t.Run("bad file system id", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.EFS = &EFSConfig{FileSystemID: "abc-123"}
		var ferr *FormatError
		require.ErrorAs(t, validateAWSCluster("prod", c), &ferr)
		assert.Equal(t, `clusters["prod"].efs_config.file_system_id`, ferr.Path)
		assert.Equal(t, "abc-123", ferr.Value)
	})

	t.Run("bad access point id", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.EFS = &EFSConfig{FileSystemID: "fs-0123456789abcdef0", AccessPointID: "ap-1"}
		var ferr *FormatError
		require.ErrorAs(t, validateAWSCluster("prod", c), &ferr)
		assert.Equal(t, `clusters["prod"].efs_config.access_point_id`, ferr.Path)
	})
}

func TestValidateVPCEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("supported exclusions", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.VPCEndpoints = VPCEndpointsConfig{
			Enabled:          true,
			ExcludedServices: []string{"s3", "ecr.api"},
		}
		assert.NoError(t, validateAWSCluster("prod", c))
	})

	t.Run("unsupported exclusion", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.VPCEndpoints = VPCEndpointsConfig{
			ExcludedServices: []string{"s3", "bogus", "another"},
		}
		var merr *MembershipError
		require.ErrorAs(t, validateAWSCluster("prod", c), &merr)
		assert.Equal(t, `clusters["prod"].vpc_endpoints.excluded_services`, merr.Path)
		assert.Equal(t, []string{"another", "bogus"}, merr.Invalid)
		assert.Contains(t, merr.Allowed, "secretsmanager")
	})
}

func TestValidateAccessEntries(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.AccessEntries.AdditionalEntries = []AccessEntry{{
			PrincipalARN: "arn:aws:iam::123456789012:role/admin",
			PolicyARN:    "arn:aws:eks::aws:cluster-access-policy/AmazonEKSClusterAdminPolicy",
		}}
		assert.NoError(t, validateAWSCluster("prod", c))
	})

	t.Run("bad principal arn", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.AccessEntries.AdditionalEntries = []AccessEntry{{PrincipalARN: "role/admin"}}
		var ferr *FormatError
		require.ErrorAs(t, validateAWSCluster("prod", c), &ferr)
		assert.Equal(t, `clusters["prod"].access_entries.additional_entries[0].principal_arn`, ferr.Path)
	})

	t.Run("bad policy arn", func(t *testing.T) {
		t.Parallel()
		c := validAWSCluster()
		c.AccessEntries.AdditionalEntries = []AccessEntry{{
			PrincipalARN: "arn:aws:iam::123456789012:role/admin",
			PolicyARN:    "not-a-policy",
		}}
		var ferr *FormatError
		require.ErrorAs(t, validateAWSCluster("prod", c), &ferr)
		assert.Equal(t, `clusters["prod"].access_entries.additional_entries[0].policy_arn`, ferr.Path)
	})
}

func TestValidateAzureCluster(t *testing.T) {
	t.Parallel()

	ok := &AzureClusterConfig{
		Location:       "eastus",
		ResourceGroup:  "rg-acme",
		SubscriptionID: "00000000-0000-0000-0000-000000000000",
	}
	assert.NoError(t, validateAzureCluster("prod", ok))

	missingSub := *ok
	missingSub.SubscriptionID = ""
	var serr *StructuralError
	require.ErrorAs(t, validateAzureCluster("prod", &missingSub), &serr)
	assert.Equal(t, `clusters["prod"].subscription_id`, serr.Path)

	missingRG := *ok
	missingRG.ResourceGroup = ""
	require.ErrorAs(t, validateAzureCluster("prod", &missingRG), &serr)
	assert.Equal(t, `clusters["prod"].resource_group`, serr.Path)
}

func TestValidateNodePool(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateNodePool("node_pools[0]", &NodePoolConfig{Name: "default"}))

	var serr *StructuralError
	require.ErrorAs(t, validateNodePool("node_pools[0]", &NodePoolConfig{}), &serr)
	assert.Equal(t, "node_pools[0].name", serr.Path)

	var ferr *FormatError
	require.ErrorAs(t, validateNodePool("node_pools[1]", &NodePoolConfig{Name: "gpu", Weight: -1}), &ferr)
	assert.Equal(t, "node_pools[1].weight", ferr.Path)

	pool := &NodePoolConfig{Name: "warm", Overprovisioning: &OverprovisioningConfig{Replicas: -2}}
	require.ErrorAs(t, validateNodePool("node_pools[2]", pool), &ferr)
	assert.Equal(t, "node_pools[2].overprovisioning.replicas", ferr.Path)
}

func TestValidateNodeGroup(t *testing.T) {
	t.Parallel()

	path := `additional_node_groups["builders"]`

	assert.NoError(t, validateNodeGroup(path, &AdditionalNodeGroupConfig{
		InstanceType: "m5.large", MinSize: 1, MaxSize: 3,
	}))

	var serr *StructuralError
	require.ErrorAs(t, validateNodeGroup(path, &AdditionalNodeGroupConfig{MaxSize: 1}), &serr)
	assert.Equal(t, path+".instance_type", serr.Path)

	var ferr *FormatError
	require.ErrorAs(t, validateNodeGroup(path, &AdditionalNodeGroupConfig{
		InstanceType: "m5.large", MinSize: 3, MaxSize: 1,
	}), &ferr)
	assert.Equal(t, path+".max_size", ferr.Path)
	assert.Equal(t, "1", ferr.Value)
}
