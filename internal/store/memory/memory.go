// Package memory is an in-process Repository used by tests and by the
// memory database driver.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/store"
)

// Store keeps records in maps guarded by a mutex.
type Store struct {
	mu        sync.RWMutex
	templates map[string]*bay.ClusterTemplate
	bays      map[string]*bay.Bay
	now       func() time.Time
}

var _ store.Repository = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		templates: map[string]*bay.ClusterTemplate{},
		bays:      map[string]*bay.Bay{},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) CreateClusterTemplate(_ context.Context, t *bay.ClusterTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[t.UUID]; ok {
		return fmt.Errorf("%w: baymodel %s already exists", bay.ErrConflict, t.UUID)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	s.templates[t.UUID] = t.Clone()
	return nil
}

func (s *Store) GetClusterTemplate(_ context.Context, uuid string) (*bay.ClusterTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[uuid]
	if !ok {
		return nil, fmt.Errorf("%w: baymodel %s", bay.ErrNotFound, uuid)
	}
	return t.Clone(), nil
}

func (s *Store) ListClusterTemplates(_ context.Context) ([]*bay.ClusterTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*bay.ClusterTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t.Clone())
	}
	slices.SortFunc(out, func(a, b *bay.ClusterTemplate) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.UUID, b.UUID))
	})
	return out, nil
}

func (s *Store) DeleteClusterTemplate(_ context.Context, uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[uuid]; !ok {
		return fmt.Errorf("%w: baymodel %s", bay.ErrNotFound, uuid)
	}
	for _, b := range s.bays {
		if b.BayModelID == uuid {
			return fmt.Errorf("%w: baymodel %s is referenced by bay %s", bay.ErrConflict, uuid, b.UUID)
		}
	}
	delete(s.templates, uuid)
	return nil
}

func (s *Store) CreateBay(_ context.Context, b *bay.Bay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bays[b.UUID]; ok {
		return fmt.Errorf("%w: bay %s already exists", bay.ErrConflict, b.UUID)
	}
	if _, ok := s.templates[b.BayModelID]; !ok {
		return fmt.Errorf("%w: baymodel %s", bay.ErrNotFound, b.BayModelID)
	}
	now := s.now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	s.bays[b.UUID] = b.Clone()
	return nil
}

func (s *Store) GetBay(_ context.Context, uuid string) (*bay.Bay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bays[uuid]
	if !ok {
		return nil, fmt.Errorf("%w: bay %s", bay.ErrNotFound, uuid)
	}
	return b.Clone(), nil
}

func (s *Store) ListBays(_ context.Context) ([]*bay.Bay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*bay.Bay, 0, len(s.bays))
	for _, b := range s.bays {
		out = append(out, b.Clone())
	}
	slices.SortFunc(out, func(a, b *bay.Bay) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.UUID, b.UUID))
	})
	return out, nil
}

func (s *Store) SaveBay(_ context.Context, b *bay.Bay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bays[b.UUID]
	if !ok {
		return fmt.Errorf("%w: bay %s", bay.ErrNotFound, b.UUID)
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = s.now()
	s.bays[b.UUID] = b.Clone()
	return nil
}

func (s *Store) DestroyBay(_ context.Context, uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bays[uuid]; !ok {
		return fmt.Errorf("%w: bay %s", bay.ErrNotFound, uuid)
	}
	delete(s.bays, uuid)
	return nil
}
