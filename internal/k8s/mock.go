package k8s

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
)

// MockClient implements Interface with function fields for testing.
// Unset fields return success with zero values.
type MockClient struct {
	PingFunc                func(ctx context.Context) (bool, error)
	ApplyManifestsFunc      func(ctx context.Context, manifests []byte, fieldManager string) error
	CreateSecretFunc        func(ctx context.Context, secret *corev1.Secret) error
	GetSecretFieldFunc      func(ctx context.Context, namespace, name, field string) ([]byte, bool, error)
	DeleteNamespaceFunc     func(ctx context.Context, name string, timeout time.Duration) error
	HasCRDFunc              func(ctx context.Context, name string) (bool, error)
	DeploymentAvailableFunc func(ctx context.Context, namespace, name string) (bool, error)
	DaemonSetRolledOutFunc  func(ctx context.Context, namespace, name string) (bool, error)
	ServiceHasEndpointsFunc func(ctx context.Context, namespace, name string) (bool, error)

	// Calls records the names of invoked methods in order.
	Calls []string
}

var _ Interface = (*MockClient)(nil)

func (m *MockClient) Ping(ctx context.Context) (bool, error) {
	m.Calls = append(m.Calls, "Ping")
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return true, nil
}

func (m *MockClient) ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error {
	m.Calls = append(m.Calls, "ApplyManifests")
	if m.ApplyManifestsFunc != nil {
		return m.ApplyManifestsFunc(ctx, manifests, fieldManager)
	}
	return nil
}

func (m *MockClient) CreateSecret(ctx context.Context, secret *corev1.Secret) error {
	m.Calls = append(m.Calls, "CreateSecret")
	if m.CreateSecretFunc != nil {
		return m.CreateSecretFunc(ctx, secret)
	}
	return nil
}

func (m *MockClient) GetSecretField(ctx context.Context, namespace, name, field string) ([]byte, bool, error) {
	m.Calls = append(m.Calls, "GetSecretField")
	if m.GetSecretFieldFunc != nil {
		return m.GetSecretFieldFunc(ctx, namespace, name, field)
	}
	return nil, false, nil
}

func (m *MockClient) DeleteNamespace(ctx context.Context, name string, timeout time.Duration) error {
	m.Calls = append(m.Calls, "DeleteNamespace")
	if m.DeleteNamespaceFunc != nil {
		return m.DeleteNamespaceFunc(ctx, name, timeout)
	}
	return nil
}

func (m *MockClient) HasCRD(ctx context.Context, name string) (bool, error) {
	m.Calls = append(m.Calls, "HasCRD")
	if m.HasCRDFunc != nil {
		return m.HasCRDFunc(ctx, name)
	}
	return true, nil
}

func (m *MockClient) DeploymentAvailable(ctx context.Context, namespace, name string) (bool, error) {
	m.Calls = append(m.Calls, "DeploymentAvailable")
	if m.DeploymentAvailableFunc != nil {
		return m.DeploymentAvailableFunc(ctx, namespace, name)
	}
	return true, nil
}

func (m *MockClient) DaemonSetRolledOut(ctx context.Context, namespace, name string) (bool, error) {
	m.Calls = append(m.Calls, "DaemonSetRolledOut")
	if m.DaemonSetRolledOutFunc != nil {
		return m.DaemonSetRolledOutFunc(ctx, namespace, name)
	}
	return true, nil
}

func (m *MockClient) ServiceHasEndpoints(ctx context.Context, namespace, name string) (bool, error) {
	m.Calls = append(m.Calls, "ServiceHasEndpoints")
	if m.ServiceHasEndpointsFunc != nil {
		return m.ServiceHasEndpointsFunc(ctx, namespace, name)
	}
	return true, nil
}
