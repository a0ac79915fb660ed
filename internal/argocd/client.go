package argocd

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"

	"github.com/imamik/argoboot/internal/util/poll"
)

// ApplicationGVR addresses Argo CD Applications through the dynamic
// client.
var ApplicationGVR = schema.GroupVersionResource{
	Group:    "argoproj.io",
	Version:  "v1alpha1",
	Resource: "applications",
}

// Client reads and deletes Argo CD Applications.
type Client interface {
	// GetApplication returns the decoded state of an Application.
	// Not-found is returned as an error satisfying IsNotFound.
	GetApplication(ctx context.Context, ref AppRef) (*AppState, error)

	// Exists reports whether the Application is present.
	Exists(ctx context.Context, ref AppRef) (bool, error)

	// DeleteApplication deletes an Application and waits up to timeout
	// for it to disappear. Not-found is not an error.
	DeleteApplication(ctx context.Context, ref AppRef, timeout time.Duration) error
}

// DynamicClient implements Client over a dynamic Kubernetes client.
type DynamicClient struct {
	dynamic dynamic.Interface
}

// NewClient creates a Client from a dynamic Kubernetes client.
func NewClient(dyn dynamic.Interface) *DynamicClient {
	return &DynamicClient{dynamic: dyn}
}

// IsNotFound reports whether err means the Application does not exist.
func IsNotFound(err error) bool {
	return apierrors.IsNotFound(err)
}

func (c *DynamicClient) GetApplication(ctx context.Context, ref AppRef) (*AppState, error) {
	obj, err := c.dynamic.Resource(ApplicationGVR).Namespace(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get application %s: %w", ref, err)
	}
	return ParseApplication(obj), nil
}

func (c *DynamicClient) Exists(ctx context.Context, ref AppRef) (bool, error) {
	_, err := c.dynamic.Resource(ApplicationGVR).Namespace(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get application %s: %w", ref, err)
	}
	return true, nil
}

func (c *DynamicClient) DeleteApplication(ctx context.Context, ref AppRef, timeout time.Duration) error {
	resource := c.dynamic.Resource(ApplicationGVR).Namespace(ref.Namespace)

	err := resource.Delete(ctx, ref.Name, metav1.DeleteOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete application %s: %w", ref, err)
	}

	result := poll.Until(ctx, func(ctx context.Context) (bool, error) {
		_, err := resource.Get(ctx, ref.Name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}, poll.WithTimeout(timeout), poll.WithInterval(2*time.Second))

	if result.Outcome != poll.Succeeded {
		return fmt.Errorf("application %s still present after %s", ref, timeout)
	}
	return nil
}
