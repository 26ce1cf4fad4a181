package conductor

import (
	"fmt"

	"github.com/imamik/baystack/internal/bay"
)

// Template identifiers understood by the template loader.
const (
	TemplateKubernetes       = "kubernetes/kubecluster.yaml"
	TemplateKubernetesCoreOS = "kubernetes/kubecluster-coreos.yaml"
	TemplateSwarm            = "swarm/swarm.yaml"
)

// definition describes what differs between engines: which template
// builds the stack and which stack outputs carry the addresses.
type definition struct {
	templateID          string
	apiAddressOutput    string
	nodeAddressesOutput string
}

func definitionFor(t *bay.ClusterTemplate) (definition, error) {
	switch t.COE {
	case bay.COEKubernetes:
		d := definition{
			templateID:          TemplateKubernetes,
			apiAddressOutput:    "kube_master",
			nodeAddressesOutput: "kube_minions_external",
		}
		if t.IsCoreOS() {
			d.templateID = TemplateKubernetesCoreOS
		}
		return d, nil
	case bay.COESwarm:
		return definition{
			templateID:          TemplateSwarm,
			apiAddressOutput:    "swarm_master",
			nodeAddressesOutput: "swarm_nodes_external",
		}, nil
	default:
		return definition{}, fmt.Errorf("%w: unsupported coe %q", bay.ErrInvalidParameter, t.COE)
	}
}

// applyOutputs copies the address outputs of a stack onto b. Missing
// outputs leave the existing values alone.
func (d definition) applyOutputs(b *bay.Bay, outputs map[string]any) {
	if v, ok := outputs[d.apiAddressOutput]; ok {
		if s, ok := v.(string); ok {
			b.APIAddress = s
		}
	}
	if v, ok := outputs[d.nodeAddressesOutput]; ok {
		b.NodeAddresses = stringList(v)
	}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if list == "" {
			return nil
		}
		return []string{list}
	default:
		return nil
	}
}
