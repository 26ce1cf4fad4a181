package handlers

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/config"
	"github.com/imamik/baystack/internal/platform/discovery"
	"github.com/imamik/baystack/internal/platform/heat"
	"github.com/imamik/baystack/internal/store"
	"github.com/imamik/baystack/internal/store/memory"
	"github.com/imamik/baystack/internal/templates"
	"github.com/imamik/baystack/internal/util/ptr"
)

const (
	testTemplateID = "94889766-e686-11e9-81b4-2a2ae2dbcce4"
	testBayID      = "5d12f6fd-a196-4bf0-ae4c-1f639a523a52"
	testStackID    = "xx-xx-xx-xx"
)

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfig := loadConfig
	origOpenRepository := openRepository
	origNewOrchestrator := newOrchestrator
	origNewTemplateSource := newTemplateSource
	origNewDiscoveryClient := newDiscoveryClient
	origNewObjectWriter := newObjectWriter
	origServeAPI := serveAPI
	origReadFile := readFile
	origOut := out

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		openRepository = origOpenRepository
		newOrchestrator = origNewOrchestrator
		newTemplateSource = origNewTemplateSource
		newDiscoveryClient = origNewDiscoveryClient
		newObjectWriter = origNewObjectWriter
		serveAPI = origServeAPI
		readFile = origReadFile
		out = origOut
	})
}

// fakeEnv replaces every factory with in-memory collaborators.
type fakeEnv struct {
	cfg   *config.Config
	store *memory.Store
	heat  *heat.MockClient
	out   *bytes.Buffer
}

func setupFakes(t *testing.T) *fakeEnv {
	t.Helper()
	saveAndRestoreFactories(t)

	cfg := config.Default()
	cfg.Heat.WaitInterval = time.Millisecond
	cfg.Heat.MaxAttempts = 10
	cfg.Metrics.Enabled = false

	f := &fakeEnv{
		cfg:   cfg,
		store: memory.New(),
		heat:  &heat.MockClient{},
		out:   &bytes.Buffer{},
	}

	loadConfig = func(string, *pflag.FlagSet) (*config.Config, error) {
		return f.cfg, nil
	}
	openRepository = func(context.Context, config.DatabaseConfig) (store.Repository, func(), error) {
		return f.store, func() {}, nil
	}
	newOrchestrator = func(context.Context, *config.Config) (heat.Orchestrator, error) {
		return f.heat, nil
	}
	newTemplateSource = func(context.Context, config.TemplatesConfig) (templates.Source, error) {
		return templates.Embedded(), nil
	}
	newDiscoveryClient = func() discovery.Client {
		return &discovery.MockClient{}
	}
	out = f.out
	return f
}

func (f *fakeEnv) addTemplate(t *testing.T) *bay.ClusterTemplate {
	t.Helper()
	tmpl := &bay.ClusterTemplate{
		UUID:              testTemplateID,
		Name:              "k8s",
		ImageID:           "fedora-atomic",
		FlavorID:          "m1.small",
		KeypairID:         "default",
		ExternalNetworkID: "public",
		COE:               bay.COEKubernetes,
	}
	require.NoError(t, f.store.CreateClusterTemplate(context.Background(), tmpl))
	return tmpl
}

// addBay stores a bay, adding its baymodel first when missing.
func (f *fakeEnv) addBay(t *testing.T, status bay.Status) *bay.Bay {
	t.Helper()
	if _, err := f.store.GetClusterTemplate(context.Background(), testTemplateID); err != nil {
		f.addTemplate(t)
	}
	b := &bay.Bay{
		UUID:       testBayID,
		Name:       "bay1",
		BayModelID: testTemplateID,
		StackID:    testStackID,
		NodeCount:  ptr.Int(1),
		Status:     status,
	}
	require.NoError(t, f.store.CreateBay(context.Background(), b))
	return b
}

func completeStack(status bay.Status) *heat.Stack {
	return &heat.Stack{
		ID:     testStackID,
		Status: status,
		Outputs: map[string]any{
			"kube_master":           "10.0.0.1",
			"kube_minions_external": []any{"172.24.4.5"},
		},
	}
}
