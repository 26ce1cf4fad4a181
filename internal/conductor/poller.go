package conductor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/platform/heat"
	"github.com/imamik/baystack/internal/store"
	"github.com/imamik/baystack/internal/util/loop"
)

// Outcome is the result of one poll cycle.
type Outcome int

const (
	// OutcomeContinue means the stack is still converging.
	OutcomeContinue Outcome = iota
	// OutcomeDone means polling is over: the stack completed, was deleted,
	// or the attempt bound was reached.
	OutcomeDone
	// OutcomeFailed means the stack reached a failed status.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeDone:
		return "done"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Poller mirrors the state of one bay's stack into the repository. It is
// not safe for concurrent use; polls for a bay are strictly sequential.
type Poller struct {
	heat          heat.StackReader
	bays          store.BayStore
	def           definition
	maxAttempts   int
	enableMetrics bool

	bay       *bay.Bay
	attempts  int
	exhausted bool
	destroyed bool
}

// NewPoller returns a poller for b, which must already carry a stack id.
// The poller works on its own copy of b.
func NewPoller(reader heat.StackReader, bays store.BayStore, b *bay.Bay, t *bay.ClusterTemplate, maxAttempts int) (*Poller, error) {
	def, err := definitionFor(t)
	if err != nil {
		return nil, err
	}
	return &Poller{
		heat:        reader,
		bays:        bays,
		def:         def,
		maxAttempts: maxAttempts,
		bay:         b.Clone(),
	}, nil
}

// Bay returns the poller's current view of the bay.
func (p *Poller) Bay() *bay.Bay { return p.bay.Clone() }

// Attempts returns the number of polls made so far.
func (p *Poller) Attempts() int { return p.attempts }

// Exhausted reports whether polling stopped at the attempt bound.
func (p *Poller) Exhausted() bool { return p.exhausted }

// Destroyed reports whether the bay record was removed after its stack
// was deleted.
func (p *Poller) Destroyed() bool { return p.destroyed }

// Poll runs one cycle: fetch the stack, mirror its status and decide
// whether polling should go on.
func (p *Poller) Poll(ctx context.Context) (Outcome, error) {
	logger := log.FromContext(ctx).WithValues("stack", p.bay.StackID)
	p.attempts++

	stack, err := p.heat.GetStack(ctx, p.bay.StackID)
	if err != nil {
		if heat.IsNotFound(err) && p.bay.Status == bay.StatusDeleteInProgress {
			logger.V(1).Info("stack is gone while deleting")
			return p.finishDelete(ctx)
		}
		p.recordPoll("error", OutcomeFailed)
		return OutcomeFailed, fmt.Errorf("failed to get stack %s: %w", p.bay.StackID, err)
	}

	status := stack.Status
	switch {
	case status == bay.StatusDeleteComplete:
		return p.finishDelete(ctx)

	case status.IsComplete():
		p.def.applyOutputs(p.bay, stack.Outputs)
		p.bay.Status = status
		p.bay.StatusReason = stack.StatusReason
		if err := p.bays.SaveBay(ctx, p.bay); err != nil {
			return OutcomeFailed, fmt.Errorf("failed to save bay %s: %w", p.bay.UUID, err)
		}
		logger.Info("stack completed", "status", status)
		p.recordPoll(status.String(), OutcomeDone)
		return OutcomeDone, nil

	case status.IsFailed():
		p.bay.Status = status
		p.bay.StatusReason = stack.StatusReason
		if err := p.bays.SaveBay(ctx, p.bay); err != nil {
			return OutcomeFailed, fmt.Errorf("failed to save bay %s: %w", p.bay.UUID, err)
		}
		logger.Info("stack failed", "status", status, "reason", stack.StatusReason)
		p.recordPoll(status.String(), OutcomeFailed)
		return OutcomeFailed, nil

	case status.IsInProgress():
		if p.bay.Status != status {
			p.bay.Status = status
			p.bay.StatusReason = stack.StatusReason
			if err := p.bays.SaveBay(ctx, p.bay); err != nil {
				return OutcomeFailed, fmt.Errorf("failed to save bay %s: %w", p.bay.UUID, err)
			}
		}
		// A stack with its own timeout will fail by itself; only stacks
		// without one are abandoned at the attempt bound.
		if p.attempts > p.maxAttempts && stack.TimeoutMinutes == nil {
			p.exhausted = true
			logger.Info("giving up on stack without timeout",
				"attempts", p.attempts, "maxAttempts", p.maxAttempts, "status", status)
			p.recordPoll(status.String(), OutcomeDone)
			return OutcomeDone, nil
		}
		p.recordPoll(status.String(), OutcomeContinue)
		return OutcomeContinue, nil

	default:
		p.recordPoll("unknown", OutcomeFailed)
		return OutcomeFailed, fmt.Errorf("stack %s reported unknown status %q", p.bay.StackID, status)
	}
}

// finishDelete removes the bay record. The bay's status is left as it was.
func (p *Poller) finishDelete(ctx context.Context) (Outcome, error) {
	err := p.bays.DestroyBay(ctx, p.bay.UUID)
	if err != nil && !errors.Is(err, bay.ErrNotFound) {
		return OutcomeFailed, fmt.Errorf("failed to destroy bay %s: %w", p.bay.UUID, err)
	}
	p.destroyed = true
	log.FromContext(ctx).Info("bay deleted")
	p.recordPoll(bay.StatusDeleteComplete.String(), OutcomeDone)
	return OutcomeDone, nil
}

// Run polls until the outcome is no longer OutcomeContinue, sleeping
// interval between cycles. It returns early with ctx.Err() on cancellation.
func (p *Poller) Run(ctx context.Context, interval time.Duration) (Outcome, error) {
	return loop.Start(ctx, OutcomeContinue, func(ctx context.Context, _ Outcome) (Outcome, loop.Next) {
		outcome, err := p.Poll(ctx)
		if err != nil {
			return outcome, loop.Break(err)
		}
		if outcome == OutcomeContinue {
			return outcome, loop.Continue(interval)
		}
		return outcome, loop.Break(nil)
	})
}
