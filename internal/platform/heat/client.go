package heat

import (
	"context"

	"github.com/imamik/baystack/internal/bay"
)

// Stack is a point-in-time view of a Heat stack. It is never persisted.
type Stack struct {
	ID           string
	Name         string
	Status       bay.Status
	StatusReason string

	// TimeoutMinutes is nil when the stack has no backend timeout.
	TimeoutMinutes *int

	// Outputs maps output_key to output_value.
	Outputs map[string]any
}

// CreateOpts holds everything needed to submit a stack create.
type CreateOpts struct {
	Name       string
	Template   string
	Files      map[string]string
	Parameters map[string]any

	// TimeoutMinutes is omitted from the request when nil.
	TimeoutMinutes *int
}

// UpdateOpts holds everything needed to submit a stack update. Updates
// never carry a timeout.
type UpdateOpts struct {
	StackID    string
	Template   string
	Files      map[string]string
	Parameters map[string]any
}

// StackCreator submits stack creation.
type StackCreator interface {
	// CreateStack returns the id of the new stack.
	CreateStack(ctx context.Context, opts CreateOpts) (string, error)
}

// StackUpdater submits stack updates.
type StackUpdater interface {
	UpdateStack(ctx context.Context, opts UpdateOpts) error
}

// StackReader fetches stack state.
type StackReader interface {
	// GetStack returns ErrNotFound when the stack does not exist.
	GetStack(ctx context.Context, stackID string) (*Stack, error)
}

// StackDeleter submits stack deletion.
type StackDeleter interface {
	DeleteStack(ctx context.Context, stackID string) error
}

// Orchestrator is the complete backend surface used by the conductor.
type Orchestrator interface {
	StackCreator
	StackUpdater
	StackReader
	StackDeleter
}
