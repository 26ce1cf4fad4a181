package conductor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/config"
	"github.com/imamik/baystack/internal/platform/discovery"
	"github.com/imamik/baystack/internal/platform/heat"
	"github.com/imamik/baystack/internal/store"
	"github.com/imamik/baystack/internal/templates"
	"github.com/imamik/baystack/internal/util/ptr"
)

// Handler implements the bay lifecycle verbs. Each verb blocks until the
// stack converges, fails or the attempt bound is reached.
type Handler struct {
	repo   store.Repository
	heat   heat.Orchestrator
	stacks *StackClient
	cfg    config.HeatConfig

	enableMetrics bool
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMetrics toggles prometheus instrumentation.
func WithMetrics(enabled bool) HandlerOption {
	return func(h *Handler) {
		h.enableMetrics = enabled
	}
}

// NewHandler wires a handler from its collaborators.
func NewHandler(cfg *config.Config, repo store.Repository, orch heat.Orchestrator, loader *templates.Loader, disc discovery.Client, opts ...HandlerOption) *Handler {
	h := &Handler{
		repo:   repo,
		heat:   orch,
		stacks: NewStackClient(orch, loader, NewExtractor(cfg.Bay, disc), cfg.Heat),
		cfg:    cfg.Heat,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create submits the stack for b, which must already be stored, and polls
// it until it settles. The returned bay is the last state written.
//
// A stack rejected by the backend as a bad request marks the bay
// CREATE_FAILED and returns bay.ErrInvalidParameter.
func (h *Handler) Create(ctx context.Context, b *bay.Bay, timeout *int) (*bay.Bay, error) {
	ctx = withBay(ctx, b.UUID)
	start := time.Now()
	result := "error"
	defer func() { h.recordOperation("create", result, start) }()

	tmpl, err := h.repo.GetClusterTemplate(ctx, b.BayModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load baymodel %s: %w", b.BayModelID, err)
	}

	b = b.Clone()
	stackID, ex, err := h.stacks.SubmitCreate(ctx, b, tmpl, timeout)
	if err != nil {
		if heat.IsBadRequest(err) {
			err = fmt.Errorf("%w: %w", bay.ErrInvalidParameter, err)
		}
		h.markFailed(ctx, b, bay.StatusCreateFailed, err)
		return nil, err
	}

	b.StackID = stackID
	if ex.DiscoveryURL != "" {
		b.DiscoveryURL = ex.DiscoveryURL
	}
	if err := h.repo.SaveBay(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save bay %s: %w", b.UUID, err)
	}

	p, outcome, err := h.poll(ctx, b, tmpl)
	if err != nil {
		return nil, err
	}
	result = resultFor(p, outcome)
	return p.Bay(), nil
}

// UpdateNodeCount changes the node count of a bay and polls the stack
// update. Only bays whose stack is CREATE_COMPLETE or UPDATE_COMPLETE in
// Heat can be updated; the recorded status may lag behind the stack.
// When the update fails the previous node count is restored and
// bay.ErrNotSupported is returned.
func (h *Handler) UpdateNodeCount(ctx context.Context, uuid string, count int) (*bay.Bay, error) {
	ctx = withBay(ctx, uuid)
	start := time.Now()
	result := "error"
	defer func() { h.recordOperation("update", result, start) }()

	if count < 1 {
		return nil, fmt.Errorf("%w: node_count must be at least 1, got %d", bay.ErrInvalidParameter, count)
	}

	b, err := h.repo.GetBay(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if b.StackID == "" {
		return nil, fmt.Errorf("%w: bay %s has no stack", bay.ErrNotSupported, uuid)
	}
	stack, err := h.heat.GetStack(ctx, b.StackID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stack %s: %w", b.StackID, err)
	}
	switch stack.Status {
	case bay.StatusCreateComplete, bay.StatusUpdateComplete:
	default:
		return nil, fmt.Errorf("%w: bay %s cannot be updated while its stack is %s", bay.ErrNotSupported, uuid, stack.Status)
	}
	if b.NodeCount != nil && *b.NodeCount == count {
		result = "unchanged"
		return b, nil
	}

	tmpl, err := h.repo.GetClusterTemplate(ctx, b.BayModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load baymodel %s: %w", b.BayModelID, err)
	}

	previous := b.NodeCount
	b.NodeCount = ptr.Int(count)
	ex, err := h.stacks.SubmitUpdate(ctx, b, tmpl)
	if err != nil {
		if heat.IsBadRequest(err) {
			return nil, fmt.Errorf("%w: %w", bay.ErrInvalidParameter, err)
		}
		return nil, err
	}

	b.Status = bay.StatusUpdateInProgress
	b.StatusReason = ""
	if ex.DiscoveryURL != "" {
		b.DiscoveryURL = ex.DiscoveryURL
	}
	if err := h.repo.SaveBay(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save bay %s: %w", uuid, err)
	}

	p, outcome, err := h.poll(ctx, b, tmpl)
	if err != nil {
		return nil, err
	}
	result = resultFor(p, outcome)
	if outcome != OutcomeFailed {
		return p.Bay(), nil
	}

	failed := p.Bay()
	failed.NodeCount = previous
	if err := h.repo.SaveBay(ctx, failed); err != nil {
		return nil, fmt.Errorf("failed to restore node count of bay %s: %w", uuid, err)
	}
	log.FromContext(ctx).Info("restored node count after failed update",
		"nodeCount", ptr.Deref(previous, 0))
	return failed, fmt.Errorf("%w: node count update of bay %s failed: %s",
		bay.ErrNotSupported, uuid, failed.StatusReason)
}

// Delete removes a bay and its stack. A missing bay is not an error. When
// the bay has no stack, or the stack is already gone, only the record is
// removed.
func (h *Handler) Delete(ctx context.Context, uuid string) error {
	ctx = withBay(ctx, uuid)
	start := time.Now()
	result := "error"
	defer func() { h.recordOperation("delete", result, start) }()

	b, err := h.repo.GetBay(ctx, uuid)
	if err != nil {
		if errors.Is(err, bay.ErrNotFound) {
			result = "absent"
			return nil
		}
		return err
	}

	if b.StackID == "" {
		result = "absent"
		return h.destroy(ctx, uuid)
	}

	stack, err := h.heat.GetStack(ctx, b.StackID)
	switch {
	case heat.IsNotFound(err):
		result = "absent"
		return h.destroy(ctx, uuid)
	case err != nil:
		return fmt.Errorf("failed to get stack %s: %w", b.StackID, err)
	case stack.Status == bay.StatusDeleteComplete:
		result = "absent"
		return h.destroy(ctx, uuid)
	}

	if err := h.stacks.SubmitDelete(ctx, b); err != nil {
		if heat.IsNotFound(err) {
			result = "absent"
			return h.destroy(ctx, uuid)
		}
		return err
	}

	b.Status = bay.StatusDeleteInProgress
	b.StatusReason = ""
	if err := h.repo.SaveBay(ctx, b); err != nil {
		return fmt.Errorf("failed to save bay %s: %w", uuid, err)
	}

	tmpl, err := h.repo.GetClusterTemplate(ctx, b.BayModelID)
	if err != nil {
		return fmt.Errorf("failed to load baymodel %s: %w", b.BayModelID, err)
	}
	p, outcome, err := h.poll(ctx, b, tmpl)
	if err != nil {
		return err
	}
	result = resultFor(p, outcome)
	if outcome == OutcomeFailed {
		final := p.Bay()
		return fmt.Errorf("failed to delete bay %s: stack is %s: %s", uuid, final.Status, final.StatusReason)
	}
	return nil
}

// Resume continues polling a bay left in progress, e.g. by a restart.
// A bay that never got a stack is marked CREATE_FAILED.
func (h *Handler) Resume(ctx context.Context, b *bay.Bay) (*bay.Bay, error) {
	ctx = withBay(ctx, b.UUID)
	if b.StackID == "" {
		b = b.Clone()
		h.markFailed(ctx, b, bay.StatusCreateFailed, errors.New("interrupted before the stack was submitted"))
		return b, nil
	}

	tmpl, err := h.repo.GetClusterTemplate(ctx, b.BayModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load baymodel %s: %w", b.BayModelID, err)
	}
	p, _, err := h.poll(ctx, b, tmpl)
	if err != nil {
		return nil, err
	}
	return p.Bay(), nil
}

func (h *Handler) poll(ctx context.Context, b *bay.Bay, tmpl *bay.ClusterTemplate) (*Poller, Outcome, error) {
	p, err := NewPoller(h.heat, h.repo, b, tmpl, h.cfg.MaxAttempts)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	p.enableMetrics = h.enableMetrics

	outcome, err := p.Run(ctx, h.cfg.WaitInterval)
	if err != nil {
		return p, outcome, fmt.Errorf("failed to poll bay %s: %w", b.UUID, err)
	}
	return p, outcome, nil
}

func (h *Handler) destroy(ctx context.Context, uuid string) error {
	if err := h.repo.DestroyBay(ctx, uuid); err != nil && !errors.Is(err, bay.ErrNotFound) {
		return fmt.Errorf("failed to destroy bay %s: %w", uuid, err)
	}
	log.FromContext(ctx).Info("bay deleted without stack")
	return nil
}

// markFailed records a failure that happened before polling started. A
// failing save is only logged; the original error is what callers need.
func (h *Handler) markFailed(ctx context.Context, b *bay.Bay, status bay.Status, cause error) {
	b.Status = status
	b.StatusReason = cause.Error()
	if err := h.repo.SaveBay(ctx, b); err != nil {
		log.FromContext(ctx).Error(err, "failed to record bay failure")
	}
}

// withBay attaches the bay to the context logger. Everything below the
// handler logs through it and does not repeat the key.
func withBay(ctx context.Context, uuid string) context.Context {
	return log.IntoContext(ctx, log.FromContext(ctx).WithValues("bay", uuid))
}

func resultFor(p *Poller, outcome Outcome) string {
	switch {
	case outcome == OutcomeFailed:
		return "failed"
	case p.Exhausted():
		return "exhausted"
	default:
		return "success"
	}
}
