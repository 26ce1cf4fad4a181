package conductor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/config"
	"github.com/imamik/baystack/internal/platform/discovery"
)

// Extraction is the result of parameter extraction for one bay.
type Extraction struct {
	TemplateID string
	Parameters map[string]any

	// DiscoveryURL is set when a swarm discovery URL was generated during
	// this extraction and should be stored on the bay.
	DiscoveryURL string

	def definition
}

// Extractor builds Heat parameters from a bay and its cluster template.
// Absent optional values are omitted, never sent empty.
type Extractor struct {
	cfg       config.BayConfig
	discovery discovery.Client
	newToken  func() string
}

// NewExtractor returns an extractor using disc for coreos tokens and public
// swarm discovery.
func NewExtractor(cfg config.BayConfig, disc discovery.Client) *Extractor {
	return &Extractor{
		cfg:       cfg,
		discovery: disc,
		newToken:  randomToken,
	}
}

// randomToken returns a uuid4 as 32 lowercase hex characters.
func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Extract returns the template identifier and parameters for b.
func (e *Extractor) Extract(ctx context.Context, b *bay.Bay, t *bay.ClusterTemplate) (*Extraction, error) {
	def, err := definitionFor(t)
	if err != nil {
		return nil, err
	}
	ex := &Extraction{TemplateID: def.templateID, def: def}

	switch t.COE {
	case bay.COEKubernetes:
		ex.Parameters, err = e.kubernetes(ctx, b, t)
	case bay.COESwarm:
		ex.Parameters, ex.DiscoveryURL, err = e.swarm(ctx, b, t)
	}
	if err != nil {
		return nil, err
	}
	return ex, nil
}

func (e *Extractor) kubernetes(ctx context.Context, b *bay.Bay, t *bay.ClusterTemplate) (map[string]any, error) {
	p := params{
		"ssh_key_name":        t.KeypairID,
		"external_network_id": t.ExternalNetworkID,
	}
	p.setString("server_image", t.ImageID)
	p.setString("server_flavor", t.FlavorID)
	p.setString("master_flavor", t.MasterFlavorID)
	p.setCount("number_of_minions", b.NodeCount)
	p.setString("fixed_network_cidr", t.FixedNetwork)
	p.setString("dns_nameserver", t.DNSNameserver)
	if t.DockerVolumeSize != nil {
		p["docker_volume_size"] = *t.DockerVolumeSize
	}

	if t.IsCoreOS() {
		p.setString("ssh_authorized_key", t.SSHAuthorizedKey)
		token, err := e.coreosToken(ctx)
		if err != nil {
			return nil, err
		}
		p["token"] = token
	}
	return p, nil
}

func (e *Extractor) coreosToken(ctx context.Context) (string, error) {
	if e.cfg.CoreOSDiscoveryTokenURL == "" {
		return e.newToken(), nil
	}
	token, err := e.discovery.Token(ctx, e.cfg.CoreOSDiscoveryTokenURL)
	if err != nil {
		return "", fmt.Errorf("failed to obtain coreos discovery token: %w", err)
	}
	return token, nil
}

func (e *Extractor) swarm(ctx context.Context, b *bay.Bay, t *bay.ClusterTemplate) (map[string]any, string, error) {
	p := params{
		"ssh_key_name":        t.KeypairID,
		"external_network_id": t.ExternalNetworkID,
	}
	p.setString("server_image", t.ImageID)
	p.setString("server_flavor", t.FlavorID)
	p.setCount("number_of_nodes", b.NodeCount)
	p.setString("fixed_network_cidr", t.FixedNetwork)
	p.setString("dns_nameserver", t.DNSNameserver)

	if b.DiscoveryURL != "" {
		p["discovery_url"] = b.DiscoveryURL
		return p, "", nil
	}

	discoveryURL, err := e.swarmDiscoveryURL(ctx, b)
	if err != nil {
		return nil, "", err
	}
	p["discovery_url"] = discoveryURL
	return p, discoveryURL, nil
}

func (e *Extractor) swarmDiscoveryURL(ctx context.Context, b *bay.Bay) (string, error) {
	if !e.cfg.PublicSwarmDiscovery {
		return strings.NewReplacer(
			"{token}", e.newToken(),
			"{bay_uuid}", b.UUID,
		).Replace(e.cfg.SwarmDiscoveryURLFormat), nil
	}

	token, err := e.discovery.RegisterSwarm(ctx, e.cfg.PublicSwarmDiscoveryURL)
	if err != nil {
		return "", fmt.Errorf("failed to obtain swarm discovery token: %w", err)
	}
	log.FromContext(ctx).V(1).Info("registered swarm discovery token")
	return "token://" + token, nil
}

type params map[string]any

func (p params) setString(key, value string) {
	if value != "" {
		p[key] = value
	}
}

func (p params) setCount(key string, count *int) {
	if count != nil {
		p[key] = strconv.Itoa(*count)
	}
}
