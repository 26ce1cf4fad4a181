package bay

import (
	"slices"
	"time"
)

// COE is the container orchestration engine a template provisions.
type COE string

const (
	COEKubernetes COE = "kubernetes"
	COESwarm      COE = "swarm"
)

// DistroCoreOS is the cluster distro that switches kubernetes bays to the
// coreos template and discovery token handling.
const DistroCoreOS = "coreos"

// ClusterTemplate describes how bays are built: image, flavors, network
// and engine choices. Also known as a baymodel.
type ClusterTemplate struct {
	UUID              string `json:"uuid" yaml:"uuid"`
	Name              string `json:"name" yaml:"name"`
	ImageID           string `json:"image_id,omitempty" yaml:"image_id,omitempty"`
	FlavorID          string `json:"flavor_id,omitempty" yaml:"flavor_id,omitempty"`
	MasterFlavorID    string `json:"master_flavor_id,omitempty" yaml:"master_flavor_id,omitempty"`
	KeypairID         string `json:"keypair_id" yaml:"keypair_id"`
	DNSNameserver     string `json:"dns_nameserver,omitempty" yaml:"dns_nameserver,omitempty"`
	ExternalNetworkID string `json:"external_network_id" yaml:"external_network_id"`
	FixedNetwork      string `json:"fixed_network,omitempty" yaml:"fixed_network,omitempty"`
	DockerVolumeSize  *int   `json:"docker_volume_size,omitempty" yaml:"docker_volume_size,omitempty"`
	ClusterDistro     string `json:"cluster_distro,omitempty" yaml:"cluster_distro,omitempty"`
	SSHAuthorizedKey  string `json:"ssh_authorized_key,omitempty" yaml:"ssh_authorized_key,omitempty"`
	COE               COE    `json:"coe" yaml:"coe"`
	APIServerPort     *int   `json:"apiserver_port,omitempty" yaml:"apiserver_port,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// IsCoreOS reports whether the template targets the coreos distro.
func (t *ClusterTemplate) IsCoreOS() bool {
	return t.ClusterDistro == DistroCoreOS
}

// Bay is a provisioned cluster and the state the conductor tracks for it.
type Bay struct {
	UUID          string   `json:"uuid"`
	Name          string   `json:"name"`
	BayModelID    string   `json:"baymodel_id"`
	StackID       string   `json:"stack_id,omitempty"`
	NodeCount     *int     `json:"node_count,omitempty"`
	Status        Status   `json:"status"`
	StatusReason  string   `json:"status_reason,omitempty"`
	APIAddress    string   `json:"api_address,omitempty"`
	NodeAddresses []string `json:"node_addresses,omitempty"`
	DiscoveryURL  string   `json:"discovery_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers never share slices or pointers with
// a repository's copy.
func (b *Bay) Clone() *Bay {
	if b == nil {
		return nil
	}
	c := *b
	c.NodeAddresses = slices.Clone(b.NodeAddresses)
	if b.NodeCount != nil {
		n := *b.NodeCount
		c.NodeCount = &n
	}
	return &c
}

// Clone returns a deep copy of the template.
func (t *ClusterTemplate) Clone() *ClusterTemplate {
	if t == nil {
		return nil
	}
	c := *t
	if t.DockerVolumeSize != nil {
		v := *t.DockerVolumeSize
		c.DockerVolumeSize = &v
	}
	if t.APIServerPort != nil {
		v := *t.APIServerPort
		c.APIServerPort = &v
	}
	return &c
}
