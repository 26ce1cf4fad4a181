package conductor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/config"
	"github.com/imamik/baystack/internal/platform/discovery"
	"github.com/imamik/baystack/internal/platform/heat"
	"github.com/imamik/baystack/internal/store/memory"
	"github.com/imamik/baystack/internal/templates"
	"github.com/imamik/baystack/internal/util/ptr"
)

const (
	testTemplateID = "94889766-e686-11e9-81b4-2a2ae2dbcce4"
	testBayID      = "5d12f6fd-a196-4bf0-ae4c-1f639a523a52"
	testStackID    = "xx-xx-xx-xx"
	testToken      = "8e8a4d0bd4e24e5ca0a1e7bd7dbb2e29"
)

// countingStore wraps the memory store and counts bay writes.
type countingStore struct {
	*memory.Store

	mu       sync.Mutex
	saves    int
	destroys int
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.New()}
}

func (s *countingStore) SaveBay(ctx context.Context, b *bay.Bay) error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return s.Store.SaveBay(ctx, b)
}

func (s *countingStore) DestroyBay(ctx context.Context, uuid string) error {
	s.mu.Lock()
	s.destroys++
	s.mu.Unlock()
	return s.Store.DestroyBay(ctx, uuid)
}

func (s *countingStore) counts() (saves, destroys int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves, s.destroys
}

func kubernetesTemplate() *bay.ClusterTemplate {
	return &bay.ClusterTemplate{
		UUID:              testTemplateID,
		Name:              "k8s",
		ImageID:           "image_id",
		FlavorID:          "flavor_id",
		MasterFlavorID:    "master_flavor_id",
		KeypairID:         "keypair_id",
		DNSNameserver:     "8.8.1.1",
		ExternalNetworkID: "external_network_id",
		FixedNetwork:      "10.20.30.0/24",
		DockerVolumeSize:  ptr.Int(20),
		COE:               bay.COEKubernetes,
	}
}

func swarmTemplate() *bay.ClusterTemplate {
	t := kubernetesTemplate()
	t.Name = "swarm"
	t.MasterFlavorID = ""
	t.DockerVolumeSize = nil
	t.COE = bay.COESwarm
	return t
}

func testBay() *bay.Bay {
	return &bay.Bay{
		UUID:       testBayID,
		Name:       "bay1",
		BayModelID: testTemplateID,
		StackID:    testStackID,
		NodeCount:  ptr.Int(1),
		Status:     bay.StatusCreateInProgress,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Bay: config.BayConfig{
			PublicSwarmDiscovery:    false,
			SwarmDiscoveryURLFormat: "test_discovery",
		},
		Heat: config.HeatConfig{
			BayCreateTimeout: 60,
			MaxAttempts:      5,
			WaitInterval:     time.Millisecond,
		},
	}
}

// env is a handler wired to in-memory collaborators.
type env struct {
	store   *countingStore
	heat    *heat.MockClient
	disc    *discovery.MockClient
	handler *Handler
}

func newEnv(t *testing.T, tmpl *bay.ClusterTemplate, bays ...*bay.Bay) *env {
	t.Helper()
	e := &env{
		store: newCountingStore(),
		heat:  &heat.MockClient{},
		disc:  &discovery.MockClient{},
	}
	ctx := context.Background()
	require.NoError(t, e.store.CreateClusterTemplate(ctx, tmpl))
	for _, b := range bays {
		require.NoError(t, e.store.CreateBay(ctx, b))
	}

	e.handler = NewHandler(testConfig(), e.store, e.heat, templates.NewLoader(templates.Embedded()), e.disc)
	e.handler.stacks.stackName = func(name string) string { return name + "-abcd1234" }
	e.handler.stacks.extractor.newToken = func() string { return testToken }
	return e
}

func stack(status bay.Status) *heat.Stack {
	return &heat.Stack{ID: testStackID, Status: status}
}
