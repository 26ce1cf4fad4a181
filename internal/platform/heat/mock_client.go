package heat

import (
	"context"
	"sync"
)

// MockClient is a function-field implementation of Orchestrator.
// Unset functions return zero values. Calls are recorded.
type MockClient struct {
	CreateStackFunc func(ctx context.Context, opts CreateOpts) (string, error)
	UpdateStackFunc func(ctx context.Context, opts UpdateOpts) error
	GetStackFunc    func(ctx context.Context, stackID string) (*Stack, error)
	DeleteStackFunc func(ctx context.Context, stackID string) error

	mu          sync.Mutex
	CreateCalls []CreateOpts
	UpdateCalls []UpdateOpts
	GetCalls    []string
	DeleteCalls []string
}

var _ Orchestrator = (*MockClient)(nil)

func (m *MockClient) CreateStack(ctx context.Context, opts CreateOpts) (string, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, opts)
	m.mu.Unlock()
	if m.CreateStackFunc != nil {
		return m.CreateStackFunc(ctx, opts)
	}
	return "", nil
}

func (m *MockClient) UpdateStack(ctx context.Context, opts UpdateOpts) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, opts)
	m.mu.Unlock()
	if m.UpdateStackFunc != nil {
		return m.UpdateStackFunc(ctx, opts)
	}
	return nil
}

func (m *MockClient) GetStack(ctx context.Context, stackID string) (*Stack, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, stackID)
	m.mu.Unlock()
	if m.GetStackFunc != nil {
		return m.GetStackFunc(ctx, stackID)
	}
	return nil, nil
}

func (m *MockClient) DeleteStack(ctx context.Context, stackID string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, stackID)
	m.mu.Unlock()
	if m.DeleteStackFunc != nil {
		return m.DeleteStackFunc(ctx, stackID)
	}
	return nil
}

// Counts returns the number of recorded create, update, get and delete calls.
func (m *MockClient) Counts() (creates, updates, gets, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CreateCalls), len(m.UpdateCalls), len(m.GetCalls), len(m.DeleteCalls)
}

// StackSequence returns a GetStackFunc that yields stacks in order and
// repeats the last one once exhausted.
func StackSequence(seq ...*Stack) func(context.Context, string) (*Stack, error) {
	var mu sync.Mutex
	i := 0
	return func(context.Context, string) (*Stack, error) {
		mu.Lock()
		defer mu.Unlock()
		s := seq[i]
		if i < len(seq)-1 {
			i++
		}
		c := *s
		return &c, nil
	}
}
