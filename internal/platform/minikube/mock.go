package minikube

import "context"

// MockClient is a mock implementation of Manager for tests.
type MockClient struct {
	StatusFunc func(ctx context.Context, profile string) (Status, error)
	CreateFunc func(ctx context.Context, profile string, opts CreateOpts) error
	StartFunc  func(ctx context.Context, profile string) error
	DeleteFunc func(ctx context.Context, profile string) error

	// Calls records the order of invoked operations.
	Calls []string
}

func (m *MockClient) Status(ctx context.Context, profile string) (Status, error) {
	m.Calls = append(m.Calls, "status")
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, profile)
	}
	return StatusRunning, nil
}

func (m *MockClient) Create(ctx context.Context, profile string, opts CreateOpts) error {
	m.Calls = append(m.Calls, "create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, profile, opts)
	}
	return nil
}

func (m *MockClient) Start(ctx context.Context, profile string) error {
	m.Calls = append(m.Calls, "start")
	if m.StartFunc != nil {
		return m.StartFunc(ctx, profile)
	}
	return nil
}

func (m *MockClient) Delete(ctx context.Context, profile string) error {
	m.Calls = append(m.Calls, "delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, profile)
	}
	return nil
}
