package conductor

import (
	"context"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/config"
	"github.com/imamik/baystack/internal/platform/heat"
	"github.com/imamik/baystack/internal/templates"
	"github.com/imamik/baystack/internal/util/naming"
)

// StackClient submits stack operations for bays. It never persists
// anything; callers store the returned stack id and discovery URL.
type StackClient struct {
	heat      heat.Orchestrator
	loader    *templates.Loader
	extractor *Extractor
	cfg       config.HeatConfig

	stackName func(bayName string) string
}

// NewStackClient returns a stack client.
func NewStackClient(orch heat.Orchestrator, loader *templates.Loader, extractor *Extractor, cfg config.HeatConfig) *StackClient {
	return &StackClient{
		heat:      orch,
		loader:    loader,
		extractor: extractor,
		cfg:       cfg,
		stackName: naming.NewStack,
	}
}

// SubmitCreate creates the stack for b and returns its id.
//
// A nil timeout uses the configured default, zero sends no timeout and a
// positive value is sent as given.
func (c *StackClient) SubmitCreate(ctx context.Context, b *bay.Bay, t *bay.ClusterTemplate, timeout *int) (string, *Extraction, error) {
	ex, doc, err := c.prepare(ctx, b, t)
	if err != nil {
		return "", nil, err
	}

	name := c.stackName(b.Name)
	stackID, err := c.heat.CreateStack(ctx, heat.CreateOpts{
		Name:           name,
		Template:       doc.Template,
		Files:          doc.Files,
		Parameters:     ex.Parameters,
		TimeoutMinutes: c.cfg.StackTimeout(timeout),
	})
	if err != nil {
		return "", nil, err
	}

	log.FromContext(ctx).Info("submitted stack create",
		"stack", stackID, "name", name, "template", ex.TemplateID)
	return stackID, ex, nil
}

// SubmitUpdate updates the existing stack of b with freshly extracted
// parameters. Updates carry no timeout.
func (c *StackClient) SubmitUpdate(ctx context.Context, b *bay.Bay, t *bay.ClusterTemplate) (*Extraction, error) {
	if b.StackID == "" {
		return nil, fmt.Errorf("bay %s has no stack", b.UUID)
	}
	ex, doc, err := c.prepare(ctx, b, t)
	if err != nil {
		return nil, err
	}

	err = c.heat.UpdateStack(ctx, heat.UpdateOpts{
		StackID:    b.StackID,
		Template:   doc.Template,
		Files:      doc.Files,
		Parameters: ex.Parameters,
	})
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).Info("submitted stack update", "stack", b.StackID)
	return ex, nil
}

// SubmitDelete deletes the stack of b.
func (c *StackClient) SubmitDelete(ctx context.Context, b *bay.Bay) error {
	if err := c.heat.DeleteStack(ctx, b.StackID); err != nil {
		return err
	}
	log.FromContext(ctx).Info("submitted stack delete", "stack", b.StackID)
	return nil
}

func (c *StackClient) prepare(ctx context.Context, b *bay.Bay, t *bay.ClusterTemplate) (*Extraction, *templates.Document, error) {
	ex, err := c.extractor.Extract(ctx, b, t)
	if err != nil {
		return nil, nil, err
	}
	doc, err := c.loader.Load(ctx, ex.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	return ex, doc, nil
}
