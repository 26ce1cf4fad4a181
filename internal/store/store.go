// Package store defines persistence for baymodels and bays.
//
// Implementations return deep copies so callers can mutate results freely,
// report missing records with bay.ErrNotFound, and duplicate or still
// referenced records with bay.ErrConflict. The memory implementation lives
// in store/memory and the PostgreSQL one in store/postgres.
package store

import (
	"context"

	"github.com/imamik/baystack/internal/bay"
)

// ClusterTemplateStore persists cluster templates (baymodels).
type ClusterTemplateStore interface {
	CreateClusterTemplate(ctx context.Context, t *bay.ClusterTemplate) error
	GetClusterTemplate(ctx context.Context, uuid string) (*bay.ClusterTemplate, error)
	ListClusterTemplates(ctx context.Context) ([]*bay.ClusterTemplate, error)

	// DeleteClusterTemplate fails with bay.ErrConflict while bays still
	// reference the template.
	DeleteClusterTemplate(ctx context.Context, uuid string) error
}

// BayStore persists bays.
type BayStore interface {
	CreateBay(ctx context.Context, b *bay.Bay) error
	GetBay(ctx context.Context, uuid string) (*bay.Bay, error)
	ListBays(ctx context.Context) ([]*bay.Bay, error)

	// SaveBay overwrites the mutable fields of an existing bay and bumps
	// UpdatedAt on the passed value.
	SaveBay(ctx context.Context, b *bay.Bay) error

	// DestroyBay removes the bay record.
	DestroyBay(ctx context.Context, uuid string) error
}

// Repository is the full persistence surface.
type Repository interface {
	ClusterTemplateStore
	BayStore
}
