package discovery

import "context"

// MockClient is a function-field implementation of Client.
type MockClient struct {
	TokenFunc         func(ctx context.Context, tokenURL string) (string, error)
	RegisterSwarmFunc func(ctx context.Context, serviceURL string) (string, error)
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Token(ctx context.Context, tokenURL string) (string, error) {
	if m.TokenFunc == nil {
		return "", nil
	}
	return m.TokenFunc(ctx, tokenURL)
}

func (m *MockClient) RegisterSwarm(ctx context.Context, serviceURL string) (string, error) {
	if m.RegisterSwarmFunc == nil {
		return "", nil
	}
	return m.RegisterSwarmFunc(ctx, serviceURL)
}
