package argocd

import (
	"context"
	"time"
)

// MockClient implements Client with function fields for testing.
type MockClient struct {
	GetApplicationFunc    func(ctx context.Context, ref AppRef) (*AppState, error)
	ExistsFunc            func(ctx context.Context, ref AppRef) (bool, error)
	DeleteApplicationFunc func(ctx context.Context, ref AppRef, timeout time.Duration) error

	// Deleted records the refs passed to DeleteApplication.
	Deleted []AppRef
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) GetApplication(ctx context.Context, ref AppRef) (*AppState, error) {
	if m.GetApplicationFunc != nil {
		return m.GetApplicationFunc(ctx, ref)
	}
	return &AppState{Sync: SyncSynced, Health: HealthHealthy}, nil
}

func (m *MockClient) Exists(ctx context.Context, ref AppRef) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, ref)
	}
	return true, nil
}

func (m *MockClient) DeleteApplication(ctx context.Context, ref AppRef, timeout time.Duration) error {
	m.Deleted = append(m.Deleted, ref)
	if m.DeleteApplicationFunc != nil {
		return m.DeleteApplicationFunc(ctx, ref, timeout)
	}
	return nil
}
