package bay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAuthorizedKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIOMqqnkVzrm0SdG6UOoqKLsabgH5C9okWi0dh2l9GKJl user@host"

func intPtr(v int) *int { return &v }

func validTemplate() *ClusterTemplate {
	return &ClusterTemplate{
		Name:              "k8s",
		KeypairID:         "keypair_id",
		ExternalNetworkID: "external_network_id",
		FixedNetwork:      "10.20.30.0/24",
		DockerVolumeSize:  intPtr(20),
		COE:               COEKubernetes,
	}
}

func TestStatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status     Status
		inProgress bool
		complete   bool
		failed     bool
		isDelete   bool
	}{
		{StatusCreateInProgress, true, false, false, false},
		{StatusCreateComplete, false, true, false, false},
		{StatusCreateFailed, false, false, true, false},
		{StatusUpdateInProgress, true, false, false, false},
		{StatusDeleteInProgress, true, false, false, true},
		{StatusDeleteComplete, false, true, false, true},
		{StatusDeleteFailed, false, false, true, true},
		{Status("ROLLBACK_COMPLETE"), false, true, false, false},
		{Status("SUSPEND_IN_PROGRESS"), true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.inProgress, tt.status.IsInProgress())
			assert.Equal(t, tt.complete, tt.status.IsComplete())
			assert.Equal(t, tt.failed, tt.status.IsFailed())
			assert.Equal(t, tt.isDelete, tt.status.IsDelete())
			assert.True(t, tt.status.IsKnown())
		})
	}

	assert.False(t, Status("WEIRD").IsKnown())
}

func TestClusterTemplateValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		tmpl := validTemplate()
		tmpl.SSHAuthorizedKey = testAuthorizedKey
		tmpl.APIServerPort = intPtr(6443)
		require.NoError(t, tmpl.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*ClusterTemplate)
		msg    string
	}{
		{"missing name", func(t *ClusterTemplate) { t.Name = "" }, "name is required"},
		{"missing keypair", func(t *ClusterTemplate) { t.KeypairID = "" }, "keypair_id is required"},
		{"missing network", func(t *ClusterTemplate) { t.ExternalNetworkID = "" }, "external_network_id is required"},
		{"missing coe", func(t *ClusterTemplate) { t.COE = "" }, "coe is required"},
		{"unknown coe", func(t *ClusterTemplate) { t.COE = "mesos" }, `coe "mesos" is not supported`},
		{"bad cidr", func(t *ClusterTemplate) { t.FixedNetwork = "10.0.0.0" }, "not a valid CIDR"},
		{"zero volume", func(t *ClusterTemplate) { t.DockerVolumeSize = intPtr(0) }, "docker_volume_size must be positive"},
		{"port out of range", func(t *ClusterTemplate) { t.APIServerPort = intPtr(70000) }, "apiserver_port 70000"},
		{"bad ssh key", func(t *ClusterTemplate) { t.SSHAuthorizedKey = "not-a-key" }, "ssh_authorized_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpl := validTemplate()
			tt.mutate(tmpl)
			err := tmpl.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameter)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBayValidate(t *testing.T) {
	t.Parallel()

	b := &Bay{Name: "bay1", BayModelID: "xx-xx", NodeCount: intPtr(1)}
	require.NoError(t, b.Validate())

	b = &Bay{NodeCount: intPtr(0)}
	err := b.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "baymodel_id is required")
	assert.Contains(t, err.Error(), "node_count must be at least 1")
}

func TestClone(t *testing.T) {
	t.Parallel()

	b := &Bay{UUID: "u", NodeCount: intPtr(2), NodeAddresses: []string{"a"}}
	c := b.Clone()
	*c.NodeCount = 5
	c.NodeAddresses[0] = "b"
	assert.Equal(t, 2, *b.NodeCount)
	assert.Equal(t, "a", b.NodeAddresses[0])

	tmpl := validTemplate()
	ct := tmpl.Clone()
	*ct.DockerVolumeSize = 1
	assert.Equal(t, 20, *tmpl.DockerVolumeSize)

	assert.Nil(t, (*Bay)(nil).Clone())
	assert.Nil(t, (*ClusterTemplate)(nil).Clone())
}
