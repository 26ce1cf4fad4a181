package conductor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/store"
	"github.com/imamik/baystack/internal/util/ptr"
)

// Service runs lifecycle operations in the background. At most one
// operation is active per bay; a second request fails with
// bay.ErrConflict until the first one finishes.
type Service struct {
	handler *Handler
	repo    store.Repository

	// base outlives the requests that start operations.
	base context.Context

	mu     sync.Mutex
	active map[string]string
	wg     sync.WaitGroup
}

// NewService returns a service whose background operations run under
// ctx. Cancelling ctx stops all polling.
func NewService(ctx context.Context, handler *Handler, repo store.Repository) *Service {
	return &Service{
		handler: handler,
		repo:    repo,
		base:    ctx,
		active:  map[string]string{},
	}
}

// CreateBay stores b as CREATE_IN_PROGRESS and starts creating its stack.
// A missing node count defaults to 1 and a missing UUID is generated. The
// returned channel yields the result of the background operation.
func (s *Service) CreateBay(ctx context.Context, b *bay.Bay, timeout *int) (*bay.Bay, <-chan error, error) {
	b = b.Clone()
	if b.NodeCount == nil {
		b.NodeCount = ptr.Int(1)
	}
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	if timeout != nil && *timeout < 0 {
		return nil, nil, fmt.Errorf("%w: timeout must not be negative, got %d", bay.ErrInvalidParameter, *timeout)
	}
	if _, err := s.repo.GetClusterTemplate(ctx, b.BayModelID); err != nil {
		if errors.Is(err, bay.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: baymodel %s does not exist", bay.ErrInvalidParameter, b.BayModelID)
		}
		return nil, nil, err
	}

	if b.UUID == "" {
		b.UUID = uuid.NewString()
	}
	b.Status = bay.StatusCreateInProgress
	b.StatusReason = ""
	b.StackID = ""

	// Claim before the record exists so a racing delete cannot slip in.
	if err := s.claim(b.UUID, "create"); err != nil {
		return nil, nil, err
	}
	if err := s.repo.CreateBay(ctx, b); err != nil {
		s.release(b.UUID)
		return nil, nil, err
	}

	created := b.Clone()
	done := s.run(b.UUID, "create", func(ctx context.Context) error {
		_, err := s.handler.Create(ctx, created, timeout)
		return err
	})
	return b, done, nil
}

// ScaleBay starts a node count update.
func (s *Service) ScaleBay(ctx context.Context, uuid string, count int) (<-chan error, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: node_count must be at least 1, got %d", bay.ErrInvalidParameter, count)
	}
	if _, err := s.repo.GetBay(ctx, uuid); err != nil {
		return nil, err
	}
	if err := s.claim(uuid, "update"); err != nil {
		return nil, err
	}
	return s.run(uuid, "update", func(ctx context.Context) error {
		_, err := s.handler.UpdateNodeCount(ctx, uuid, count)
		return err
	}), nil
}

// DeleteBay starts deleting a bay. Deleting a missing bay succeeds.
func (s *Service) DeleteBay(_ context.Context, uuid string) (<-chan error, error) {
	if err := s.claim(uuid, "delete"); err != nil {
		return nil, err
	}
	return s.run(uuid, "delete", func(ctx context.Context) error {
		return s.handler.Delete(ctx, uuid)
	}), nil
}

// Resume restarts polling for every stored bay that is still in progress
// and not already being handled. It returns the number of bays resumed.
func (s *Service) Resume(ctx context.Context) (int, error) {
	bays, err := s.repo.ListBays(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list bays: %w", err)
	}

	resumed := 0
	for _, b := range bays {
		if !b.Status.IsInProgress() {
			continue
		}
		if err := s.claim(b.UUID, "resume"); err != nil {
			continue
		}
		s.run(b.UUID, "resume", func(ctx context.Context) error {
			_, err := s.handler.Resume(ctx, b)
			return err
		})
		resumed++
	}
	if resumed > 0 {
		log.FromContext(ctx).Info("resumed in-progress bays", "count", resumed)
	}
	return resumed, nil
}

// Active returns the operation running for a bay, or "".
func (s *Service) Active(uuid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[uuid]
}

// Wait blocks until all background operations have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) claim(uuid, operation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if running, ok := s.active[uuid]; ok {
		return fmt.Errorf("%w: bay %s has a %s operation in progress", bay.ErrConflict, uuid, running)
	}
	s.active[uuid] = operation
	if s.handler.enableMetrics {
		activeOperations.Inc()
	}
	return nil
}

func (s *Service) release(uuid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, uuid)
	if s.handler.enableMetrics {
		activeOperations.Dec()
	}
}

// run executes fn on its own goroutine for a claimed bay. The claim is
// released before the result is sent.
func (s *Service) run(uuid, operation string, fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	s.wg.Go(func() {
		logger := log.FromContext(s.base).WithValues("operation", operation)
		err := fn(log.IntoContext(s.base, logger))
		if err != nil {
			logger.Error(err, "bay operation failed", "bay", uuid)
		} else {
			logger.V(1).Info("bay operation finished", "bay", uuid)
		}
		s.release(uuid)
		done <- err
		close(done)
	})
	return done
}
