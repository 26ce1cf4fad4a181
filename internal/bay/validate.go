package bay

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/crypto/ssh"
)

// Validate checks a cluster template before it is stored. All problems
// are reported together, each wrapped with ErrInvalidParameter.
func (t *ClusterTemplate) Validate() error {
	var errs []error

	if t.Name == "" {
		errs = append(errs, invalid("name is required"))
	}
	if t.KeypairID == "" {
		errs = append(errs, invalid("keypair_id is required"))
	}
	if t.ExternalNetworkID == "" {
		errs = append(errs, invalid("external_network_id is required"))
	}
	switch t.COE {
	case COEKubernetes, COESwarm:
	case "":
		errs = append(errs, invalid("coe is required"))
	default:
		errs = append(errs, invalid("coe %q is not supported (kubernetes, swarm)", t.COE))
	}
	if t.FixedNetwork != "" {
		if _, _, err := net.ParseCIDR(t.FixedNetwork); err != nil {
			errs = append(errs, invalid("fixed_network %q is not a valid CIDR", t.FixedNetwork))
		}
	}
	if t.DockerVolumeSize != nil && *t.DockerVolumeSize <= 0 {
		errs = append(errs, invalid("docker_volume_size must be positive, got %d", *t.DockerVolumeSize))
	}
	if t.APIServerPort != nil && (*t.APIServerPort < 1 || *t.APIServerPort > 65535) {
		errs = append(errs, invalid("apiserver_port %d is out of range", *t.APIServerPort))
	}
	if t.SSHAuthorizedKey != "" {
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(t.SSHAuthorizedKey)); err != nil {
			errs = append(errs, invalid("ssh_authorized_key is not a valid authorized key: %v", err))
		}
	}

	return errors.Join(errs...)
}

// Validate checks the user-supplied fields of a bay.
func (b *Bay) Validate() error {
	var errs []error

	if b.Name == "" {
		errs = append(errs, invalid("name is required"))
	}
	if b.BayModelID == "" {
		errs = append(errs, invalid("baymodel_id is required"))
	}
	if b.NodeCount != nil && *b.NodeCount < 1 {
		errs = append(errs, invalid("node_count must be at least 1, got %d", *b.NodeCount))
	}

	return errors.Join(errs...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
