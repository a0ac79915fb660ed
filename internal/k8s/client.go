package k8s

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// Interface defines the cluster operations the rollout needs.
type Interface interface {
	// Ping reports whether the API server is reachable.
	Ping(ctx context.Context) (bool, error)

	// ApplyManifests applies multi-document YAML using Server-Side Apply.
	// The fieldManager identifies the actor applying the configuration.
	ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error

	// CreateSecret creates or replaces a secret in the specified namespace.
	CreateSecret(ctx context.Context, secret *corev1.Secret) error

	// GetSecretField reads a single field from a secret. The second
	// return value is false if the secret or field is absent.
	GetSecretField(ctx context.Context, namespace, name, field string) ([]byte, bool, error)

	// DeleteNamespace deletes a namespace and waits up to timeout for
	// it to terminate. Not-found is not an error.
	DeleteNamespace(ctx context.Context, name string, timeout time.Duration) error

	// HasCRD reports whether the named CustomResourceDefinition exists
	// and has reached the Established condition.
	HasCRD(ctx context.Context, name string) (bool, error)

	// DeploymentAvailable reports whether the deployment has all
	// desired replicas available.
	DeploymentAvailable(ctx context.Context, namespace, name string) (bool, error)

	// DaemonSetRolledOut reports whether the daemonset has
	// ready == desired with desired > 0.
	DaemonSetRolledOut(ctx context.Context, namespace, name string) (bool, error)

	// ServiceHasEndpoints reports whether the service has at least one
	// ready endpoint address.
	ServiceHasEndpoints(ctx context.Context, namespace, name string) (bool, error)
}

// Client implements Interface using k8s.io/client-go.
type Client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	mapper        meta.RESTMapper
	discovery     discovery.DiscoveryInterface
}

// NewForContext creates a Client for a kubeconfig context. minikube
// registers each profile as a context of the same name in the default
// kubeconfig, so the rollout addresses the cluster without shelling
// out to kubectl.
func NewForContext(contextName string) (*Client, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig context %q: %w", contextName, err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}
	mapper := restmapper.NewDiscoveryRESTMapper(groupResources)

	return &Client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
		discovery:     discoveryClient,
	}, nil
}

// NewFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewFromClients(
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	mapper meta.RESTMapper,
) *Client {
	return &Client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}
}

// Dynamic exposes the dynamic client for resource-specific wrappers.
func (c *Client) Dynamic() dynamic.Interface {
	return c.dynamicClient
}

// Ping reports whether the API server is reachable. The version
// request is issued through the REST client so cancelling ctx aborts
// it mid-request.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	if c.discovery == nil {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	rc := c.discovery.RESTClient()
	if rc == nil {
		// Fake discovery clients carry no REST client.
		if _, err := c.discovery.ServerVersion(); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := rc.Get().AbsPath("/version").Do(ctx).Error(); err != nil {
		return false, err
	}
	return true, nil
}

// RefreshDiscovery rebuilds the REST mapper so that resources from
// newly installed CRDs can be applied.
func (c *Client) RefreshDiscovery(ctx context.Context) error {
	if c.discovery == nil {
		return nil
	}

	groupResources, err := restmapper.GetAPIGroupResources(c.discovery)
	if err != nil {
		return fmt.Errorf("failed to get API group resources: %w", err)
	}
	c.mapper = restmapper.NewDiscoveryRESTMapper(groupResources)
	return nil
}
